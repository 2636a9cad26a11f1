package date

import "testing"

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Test is about appending two values in reverse order and checking that everything is
	// as expected at every step of the way.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Append(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	if h.days[1] != d1 {
		t.Errorf("history[1].day = %v want %v", h.days[1], d1)
	}
	if h.days[0] != d2 {
		t.Errorf("history[0].day = %v want %v", h.days[0], d2)
	}
	if h.values[1] != v1 {
		t.Errorf("history[1].value = %v want %v", h.values[1], v1)
	}
	if h.values[0] != v2 {
		t.Errorf("history[0].value = %v want %v", h.values[0], v2)
	}

	h.Append(d1, "overwritten")
	if h.Len() != 2 {
		t.Errorf("Append(d1, ...).Len() = %v want 2", h.Len())
	}
	if v, _ := h.Get(d1); v != "overwritten" {
		t.Errorf("Get(d1) = %q want %q", v, "overwritten")
	}
}

func TestValueAsOf(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2024, 1, 10), 10).Append(New(2024, 1, 20), 20)

	tests := []struct {
		on    Date
		want  float64
		found bool
	}{
		{New(2024, 1, 9), 0, false},
		{New(2024, 1, 10), 10, true},
		{New(2024, 1, 15), 10, true},
		{New(2024, 1, 25), 20, true},
	}
	for _, tt := range tests {
		got, found := h.ValueAsOf(tt.on)
		if got != tt.want || found != tt.found {
			t.Errorf("ValueAsOf(%v) = %v, %v want %v, %v", tt.on, got, found, tt.want, tt.found)
		}
	}
}

func TestBetween(t *testing.T) {
	h := new(History[float64])
	for i := 1; i <= 10; i++ {
		h.Append(New(2024, 1, i), float64(i))
	}
	got := h.Between(NewRange(New(2024, 1, 3), New(2024, 1, 5)))
	if got.Len() != 3 {
		t.Fatalf("Between().Len() = %d want 3", got.Len())
	}
	if d, v := got.First(); d != New(2024, 1, 3) || v != 3 {
		t.Errorf("Between().First() = %v, %v want 2024-01-03, 3", d, v)
	}
	if got := h.Between(All); got.Len() != 10 {
		t.Errorf("Between(All).Len() = %d want 10", got.Len())
	}
}
