package contracts

import "testing"

func TestDetermineDirection(t *testing.T) {
	tests := []struct {
		score float64
		want  SignalDirection
	}{
		{0, StrongBearish},
		{15, StrongBearish},
		{19.9, StrongBearish},
		{20, Bearish}, // lower bound belongs to the upper bucket
		{35, Bearish},
		{40, Neutral},
		{50, Neutral},
		{59.9, Neutral},
		{60, Bullish},
		{65, Bullish},
		{80, StrongBullish},
		{100, StrongBullish},
	}

	for _, tt := range tests {
		if got := DetermineDirection(tt.score); got != tt.want {
			t.Errorf("DetermineDirection(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestSignalDirection_Classes(t *testing.T) {
	tests := []struct {
		dir         SignalDirection
		wantBullish bool
		wantBearish bool
	}{
		{StrongBullish, true, false},
		{Bullish, true, false},
		{Neutral, false, false},
		{Bearish, false, true},
		{StrongBearish, false, true},
	}

	for _, tt := range tests {
		if got := tt.dir.IsBullish(); got != tt.wantBullish {
			t.Errorf("%s.IsBullish() = %v, want %v", tt.dir, got, tt.wantBullish)
		}
		if got := tt.dir.IsBearish(); got != tt.wantBearish {
			t.Errorf("%s.IsBearish() = %v, want %v", tt.dir, got, tt.wantBearish)
		}
	}
}
