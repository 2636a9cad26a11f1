package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	today := Today()

	tests := []struct {
		input    string
		expected Date
		err      bool
	}{
		{"2025-01-15", New(2025, time.January, 15), false},
		{"2025-7-1", New(2025, time.July, 1), false},
		{"invalid-date", Date{}, true},
		{"0d", today, false},
		{"-1d", today.Add(-1), false},
		{"+1d", today.Add(1), false},
		{"1d", Date{}, true},
		{"-2w", today.Add(-14), false},
		{"-10y", today.AddYears(-10), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.err {
				t.Errorf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.err)
				return
			}
			if !tt.err && got != tt.expected {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDate_JSON(t *testing.T) {
	d := New(2024, time.February, 29)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("json.Marshal() unexpected error = %v", err)
	}
	if string(data) != `"2024-02-29"` {
		t.Errorf("json.Marshal() = %s, want %q", data, `"2024-02-29"`)
	}
	var got Date
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("json.Unmarshal() unexpected error = %v", err)
	}
	if got != d {
		t.Errorf("json.Unmarshal() = %v, want %v", got, d)
	}
}

func TestDate_Sub(t *testing.T) {
	a, b := New(2021, time.June, 1), New(2021, time.June, 30)
	if got := b.Sub(a); got != 29 {
		t.Errorf("Sub() = %d, want 29", got)
	}
	if got := a.Sub(b); got != -29 {
		t.Errorf("Sub() = %d, want -29", got)
	}
}

func TestRange_Contains(t *testing.T) {
	d := New(2020, time.March, 10)
	tests := []struct {
		name string
		r    Range
		want bool
	}{
		{"open", All, true},
		{"open start", Range{To: d}, true},
		{"open end", Range{From: d.Add(1)}, false},
		{"inside", NewRange(d.Add(-1), d.Add(1)), true},
		{"boundary", NewRange(d, d), true},
		{"outside", NewRange(d.Add(1), d.Add(2)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(d); got != tt.want {
				t.Errorf("%v.Contains(%v) = %v, want %v", tt.r, d, got, tt.want)
			}
		})
	}
}

func TestIterate(t *testing.T) {
	a, b := new(History[float64]), new(History[float64])
	a.Append(New(2024, 1, 1), 1).Append(New(2024, 1, 3), 3)
	b.Append(New(2024, 1, 2), 2).Append(New(2024, 1, 3), 3)

	var got []Date
	for d := range Iterate(a, b) {
		got = append(got, d)
	}
	want := []Date{New(2024, 1, 1), New(2024, 1, 2), New(2024, 1, 3)}
	if len(got) != len(want) {
		t.Fatalf("Iterate() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Iterate()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
