package twse

import (
	"testing"
	"time"
)

func TestParseROCDate(t *testing.T) {
	got, err := parseROCDate("113/01/02")
	if err != nil {
		t.Fatalf("parseROCDate failed: %v", err)
	}
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseROCDate = %v, want %v", got, want)
	}

	for _, invalid := range []string{"", "113/01", "abc/01/02", "113/xx/02"} {
		if _, err := parseROCDate(invalid); err == nil {
			t.Errorf("parseROCDate(%q) should fail", invalid)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"1,234,567", 1234567, true},
		{"-12,000", -12000, true},
		{"0", 0, true},
		{" 42 ", 42, true},
		{"--", 0, false},
		{"", 0, false},
		{"N/A", 0, false},
		{"12.5", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseNumber(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("parseNumber(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"12.34", 12.34, true},
		{"1,234.5", 1234.5, true},
		{"-3.2", -3.2, true},
		{"--", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseDecimal(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("parseDecimal(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
