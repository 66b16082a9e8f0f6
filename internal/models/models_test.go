package models

import "testing"

func TestPriceRangeFor(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{0, "0-100"},
		{100, "0-100"},
		{100.5, "101-200"},
		{101, "101-200"},
		{250, "201-300"},
		{900, "801-900"},
		{900.01, "901-above"},
		{1000, "901-above"},
	}
	for _, tt := range tests {
		if got := PriceRangeFor(tt.price); got != tt.want {
			t.Errorf("PriceRangeFor(%v) = %q, want %q", tt.price, got, tt.want)
		}
	}
}

func TestPriceRanges_Order(t *testing.T) {
	if len(PriceRanges) != 10 {
		t.Fatalf("len(PriceRanges) = %d, want 10", len(PriceRanges))
	}
	for i := 1; i < len(PriceRanges); i++ {
		if PriceRanges[i].Upper <= PriceRanges[i-1].Upper {
			t.Errorf("bucket %q is not above %q", PriceRanges[i].Label, PriceRanges[i-1].Label)
		}
	}
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"March", "March", true},
		{"march", "March", true},
		{" DECEMBER ", "December", true},
		{"Mar", "", false},
		{"", "", false},
		{"13", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseMonth(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseMonth(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
