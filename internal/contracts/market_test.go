package contracts

import "testing"

func TestDetectMarket(t *testing.T) {
	tests := []struct {
		code string
		want MarketRegion
	}{
		{"2330", MarketTW},
		{"2454", MarketTW},
		{"00679B", MarketTW}, // TPEx ETF with letter suffix
		{"AAPL", MarketUS},
		{"BRK.B", MarketUS},
		{" TSLA ", MarketUS},
		{"", MarketTW},
		{"   ", MarketTW},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := DetectMarket(tt.code); got != tt.want {
				t.Errorf("DetectMarket(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
