package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/stockstats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Embedded(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)

	for _, name := range Names() {
		tickers, err := c.Tickers(name)
		require.NoError(t, err)
		assert.Len(t, tickers, 50, name)
	}

	meta, err := c.Metadata("nifty50")
	require.NoError(t, err)
	assert.Equal(t, stockstats.Company{Symbol: "TCS", Name: "Tata Consultancy Services Ltd.", Sector: "Information Technology"}, meta["TCS"])
}

func TestCatalog_Sectors(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)

	it, err := c.Tickers("NIFTY50", "information technology")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"HCLTECH", "INFY", "TCS", "TECHM", "WIPRO"}, it)

	sectors, err := c.Sectors("nifty50")
	require.NoError(t, err)
	assert.Contains(t, sectors, "Financial Services")
	assert.IsNonDecreasing(t, sectors)
}

func TestCatalog_UnknownIndex(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)

	_, err = c.Tickers("sensex")
	assert.True(t, errors.Is(err, stockstats.ErrUnknownIndex))
	_, err = c.Metadata("sensex")
	assert.True(t, errors.Is(err, stockstats.ErrUnknownIndex))
}

func TestCatalog_ReplacePersists(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	require.NoError(t, err)

	companies := []stockstats.Company{{Symbol: "NEW", Name: "New, Listing Ltd.", Sector: "Realty"}}
	require.NoError(t, c.Replace("niftymidcap50", companies, dir))

	reloaded, err := New(dir)
	require.NoError(t, err)
	got, err := reloaded.Companies("niftymidcap50")
	require.NoError(t, err)
	assert.Equal(t, companies, got)

	assert.Error(t, c.Replace("niftymidcap50", nil, dir))
}

func TestSymbol(t *testing.T) {
	symbol, name, ok := Symbol("nifty50")
	assert.True(t, ok)
	assert.Equal(t, "^NSEI", symbol)
	assert.Equal(t, "Nifty50", name)

	_, _, ok = Symbol("niftymidcap50")
	assert.False(t, ok)
}

func TestNSE_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "NIFTY 50", r.URL.Query().Get("index"))
		w.Write([]byte(`{
			"name": "NIFTY 50",
			"data": [
				{"priority": 1, "symbol": "NIFTY 50"},
				{"priority": 0, "symbol": "RELIANCE", "meta": {"companyName": "Reliance Industries Limited", "industry": "Oil Gas & Consumable Fuels"}},
				{"priority": 0, "symbol": "TCS", "meta": {"companyName": "Tata Consultancy Services Limited", "industry": "Information Technology"}}
			]
		}`))
	}))
	defer srv.Close()

	nse := &NSE{URL: srv.URL, Client: srv.Client()}
	got, err := nse.Fetch(context.Background(), "nifty50")
	require.NoError(t, err)
	assert.Equal(t, []stockstats.Company{
		{Symbol: "RELIANCE", Name: "Reliance Industries Limited", Sector: "Oil Gas & Consumable Fuels"},
		{Symbol: "TCS", Name: "Tata Consultancy Services Limited", Sector: "Information Technology"},
	}, got)
}

func TestNSE_FetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"priority": 1, "symbol": "NIFTY 50"}]}`))
	}))
	defer srv.Close()
	nse := &NSE{URL: srv.URL, Client: srv.Client()}

	_, err := nse.Fetch(context.Background(), "nifty50")
	assert.True(t, errors.Is(err, stockstats.ErrDataUnavailable))

	_, err = nse.Fetch(context.Background(), "dow")
	assert.True(t, errors.Is(err, stockstats.ErrUnknownIndex))
}
