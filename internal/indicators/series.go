package indicators

import "github.com/wayneh/stocklens/internal/contracts"

// closes extracts the close series, oldest-first.
func closes(prices []contracts.PriceBar) []float64 {
	out := make([]float64, len(prices))
	for i, p := range prices {
		out[i] = p.Close
	}
	return out
}

// sma returns the simple moving average of the last period values.
func sma(values []float64, period int) float64 {
	if len(values) < period || period <= 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// emaSeries returns the EMA series for the given period, seeded with the
// SMA of the first period values. Result[i] is only meaningful for
// i >= period-1.
func emaSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) < period || period <= 0 {
		return out
	}
	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}
	seed /= float64(period)

	k := 2.0 / (float64(period) + 1.0)
	out[period-1] = seed
	for i := period; i < len(values); i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}
	return out
}

// clampScore clamps an indicator score into the 0-100 range.
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
