package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/stockstats"
	"github.com/etnz/stockstats/httpcache"
)

// DefaultNSEURL is the NSE endpoint listing the constituents of an index.
const DefaultNSEURL = "https://www.nseindia.com/api/equity-stockIndices"

// NSE fetches index constituents from the National Stock Exchange.
type NSE struct {
	// URL of the equity-stockIndices endpoint, DefaultNSEURL when empty.
	URL    string
	Client *http.Client
}

/*
The endpoint answers with the index level first, then one entry per
constituent:

	{
	    "name": "NIFTY 50",
	    "data": [
	        {"priority": 1, "symbol": "NIFTY 50", ...},
	        {"priority": 0, "symbol": "RELIANCE", "meta": {"companyName": "Reliance Industries Limited", "industry": "Oil Gas & Consumable Fuels", ...}, ...},
	        ...
	    ]
	}
*/

// Fetch returns the current constituents of index.
func (n *NSE) Fetch(ctx context.Context, index string) ([]stockstats.Company, error) {
	idx, err := lookup(index)
	if err != nil {
		return nil, err
	}
	base := n.URL
	if base == "" {
		base = DefaultNSEURL
	}
	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}
	addr := base + "?index=" + url.QueryEscape(idx.nseName)
	// the NSE rejects requests without a browser like agent.
	header := http.Header{
		"User-Agent": {"Mozilla/5.0"},
		"Accept":     {"application/json"},
	}

	var jobj any
	if err := httpcache.GetJSON(ctx, client, addr, header, &jobj); err != nil {
		return nil, fmt.Errorf("%w: fetching index %s: %w", stockstats.ErrDataUnavailable, idx.name, err)
	}
	jdata, err := jsonpath.Get("$.data[*]", jobj)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing index %s: %w", stockstats.ErrDataUnavailable, idx.name, err)
	}
	items, _ := jdata.([]any)

	var companies []stockstats.Company
	for _, item := range items {
		// priority 1 marks the index level itself.
		if p, _ := jsonpath.Get("$.priority", item); p != float64(0) {
			continue
		}
		symbol, _ := getString("$.symbol", item)
		if symbol == "" {
			continue
		}
		name, _ := getString("$.meta.companyName", item)
		sector, _ := getString("$.meta.industry", item)
		companies = append(companies, stockstats.Company{Symbol: symbol, Name: name, Sector: sector})
	}
	if len(companies) == 0 {
		return nil, fmt.Errorf("%w: index %s: no constituent in the response", stockstats.ErrDataUnavailable, idx.name)
	}
	return companies, nil
}

// getString evaluates path on v and returns the string it points to.
func getString(path string, v any) (string, error) {
	jval, err := jsonpath.Get(path, v)
	if err != nil {
		return "", err
	}
	s, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("%s is not a string: %v", path, jval)
	}
	return s, nil
}
