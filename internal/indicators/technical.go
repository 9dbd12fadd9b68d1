package indicators

import (
	"fmt"
	"math"

	"github.com/wayneh/stocklens/internal/contracts"
)

// RSICalculator computes the 14-day Relative Strength Index.
type RSICalculator struct{}

func (c *RSICalculator) Name() string { return "RSI" }
func (c *RSICalculator) Category() contracts.Category { return contracts.CategoryTechnical }

func (c *RSICalculator) Calculate(ctx Context) (contracts.IndicatorResult, bool) {
	const period = 14
	if len(ctx.Prices) < period+1 {
		return contracts.IndicatorResult{}, false
	}

	values := closes(ctx.Prices)
	var gains, losses float64
	for i := len(values) - period; i < len(values); i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	rsi := 100.0
	if losses > 0 {
		rs := (gains / float64(period)) / (losses / float64(period))
		rsi = 100 - (100 / (1 + rs))
	}

	score := clampScore(int(math.Round(rsi)))
	signal := "動能中性"
	reason := fmt.Sprintf("14日RSI為%.1f,動能位於中性區間", rsi)
	switch {
	case rsi >= 80:
		signal = "嚴重超買"
		reason = fmt.Sprintf("14日RSI達%.1f,已進入嚴重超買區,追高風險大", rsi)
	case rsi >= 70:
		signal = "超買"
		reason = fmt.Sprintf("14日RSI達%.1f,短線偏熱", rsi)
	case rsi <= 20:
		signal = "嚴重超賣"
		reason = fmt.Sprintf("14日RSI僅%.1f,已進入嚴重超賣區", rsi)
	case rsi <= 30:
		signal = "超賣"
		reason = fmt.Sprintf("14日RSI僅%.1f,短線乖離偏大", rsi)
	}

	return contracts.IndicatorResult{
		Name:      c.Name(),
		Category:  c.Category(),
		Value:     rsi,
		Direction: contracts.DetermineDirection(float64(score)),
		Score:     score,
		Signal:    signal,
		Reason:    reason,
	}, true
}

// MACDCalculator computes MACD(12,26,9) and scores the DIF/signal cross.
type MACDCalculator struct{}

func (c *MACDCalculator) Name() string { return "MACD" }
func (c *MACDCalculator) Category() contracts.Category { return contracts.CategoryTechnical }

func (c *MACDCalculator) Calculate(ctx Context) (contracts.IndicatorResult, bool) {
	if len(ctx.Prices) < 35 { // 26 + 9
		return contracts.IndicatorResult{}, false
	}

	values := closes(ctx.Prices)
	ema12 := emaSeries(values, 12)
	ema26 := emaSeries(values, 26)

	dif := make([]float64, 0, len(values)-25)
	for i := 25; i < len(values); i++ {
		dif = append(dif, ema12[i]-ema26[i])
	}
	signalLine := emaSeries(dif, 9)

	latestDIF := dif[len(dif)-1]
	latestSignal := signalLine[len(signalLine)-1]
	hist := latestDIF - latestSignal

	score := 50
	if latestDIF > latestSignal {
		score += 20
	} else {
		score -= 20
	}
	if latestDIF > 0 {
		score += 15
	} else {
		score -= 15
	}
	score = clampScore(score)

	signal := "空方排列"
	if latestDIF > latestSignal && latestDIF > 0 {
		signal = "多方排列"
	} else if latestDIF > latestSignal {
		signal = "低檔黃金交叉"
	} else if latestDIF > 0 {
		signal = "高檔死亡交叉"
	}

	return contracts.IndicatorResult{
		Name:     c.Name(),
		Category: c.Category(),
		Value:    latestDIF,
		SubValues: map[string]float64{
			"Signal":    latestSignal,
			"Histogram": hist,
		},
		Direction: contracts.DetermineDirection(float64(score)),
		Score:     score,
		Signal:    signal,
		Reason:    fmt.Sprintf("DIF %.2f / MACD %.2f,柱狀體%.2f", latestDIF, latestSignal, hist),
	}, true
}

// MABiasCalculator scores the moving-average alignment and 20-day bias.
type MABiasCalculator struct{}

func (c *MABiasCalculator) Name() string { return "MABias" }
func (c *MABiasCalculator) Category() contracts.Category { return contracts.CategoryTechnical }

func (c *MABiasCalculator) Calculate(ctx Context) (contracts.IndicatorResult, bool) {
	if len(ctx.Prices) < 60 {
		return contracts.IndicatorResult{}, false
	}

	values := closes(ctx.Prices)
	latest := values[len(values)-1]
	ma5 := sma(values, 5)
	ma20 := sma(values, 20)
	ma60 := sma(values, 60)
	bias20 := (latest - ma20) / ma20 * 100

	score := 50
	if latest > ma5 {
		score += 10
	} else {
		score -= 10
	}
	if ma5 > ma20 {
		score += 15
	} else {
		score -= 15
	}
	if ma20 > ma60 {
		score += 15
	} else {
		score -= 15
	}
	// Over-extension above MA20 caps the bullishness.
	if bias20 > 15 {
		score -= 10
	}
	score = clampScore(score)

	signal := "均線糾結"
	if ma5 > ma20 && ma20 > ma60 {
		signal = "多頭排列"
	} else if ma5 < ma20 && ma20 < ma60 {
		signal = "空頭排列"
	}

	return contracts.IndicatorResult{
		Name:     c.Name(),
		Category: c.Category(),
		Value:    bias20,
		SubValues: map[string]float64{
			"MA5":  ma5,
			"MA20": ma20,
			"MA60": ma60,
		},
		Direction: contracts.DetermineDirection(float64(score)),
		Score:     score,
		Signal:    signal,
		Reason:    fmt.Sprintf("收盤%.2f,MA20乖離%.1f%%,%s", latest, bias20, signal),
	}, true
}

// KDCalculator computes the 9-day stochastic oscillator.
type KDCalculator struct{}

func (c *KDCalculator) Name() string { return "KD" }
func (c *KDCalculator) Category() contracts.Category { return contracts.CategoryTechnical }

func (c *KDCalculator) Calculate(ctx Context) (contracts.IndicatorResult, bool) {
	const period = 9
	if len(ctx.Prices) < period+3 {
		return contracts.IndicatorResult{}, false
	}

	k, d := 50.0, 50.0
	for i := period - 1; i < len(ctx.Prices); i++ {
		window := ctx.Prices[i-period+1 : i+1]
		low, high := window[0].Low, window[0].High
		for _, p := range window[1:] {
			if p.Low < low {
				low = p.Low
			}
			if p.High > high {
				high = p.High
			}
		}
		rsv := 50.0
		if high > low {
			rsv = (ctx.Prices[i].Close - low) / (high - low) * 100
		}
		k = k*2/3 + rsv/3
		d = d*2/3 + k/3
	}

	score := int(math.Round(k))
	if k > d {
		score += 10
	} else {
		score -= 10
	}
	score = clampScore(score)

	signal := "KD死亡交叉"
	if k > d {
		signal = "KD黃金交叉"
	}

	return contracts.IndicatorResult{
		Name:     c.Name(),
		Category: c.Category(),
		Value:    k,
		SubValues: map[string]float64{
			"K": k,
			"D": d,
		},
		Direction: contracts.DetermineDirection(float64(score)),
		Score:     score,
		Signal:    signal,
		Reason:    fmt.Sprintf("K值%.1f / D值%.1f,%s", k, d, signal),
	}, true
}

// VolumeRatioCalculator compares today's volume with the 20-day average.
// The TodayVsAvg20 sub-value feeds the risk assessor's abnormal-volume
// check.
type VolumeRatioCalculator struct{}

func (c *VolumeRatioCalculator) Name() string { return "VolumeRatio" }
func (c *VolumeRatioCalculator) Category() contracts.Category { return contracts.CategoryTechnical }

func (c *VolumeRatioCalculator) Calculate(ctx Context) (contracts.IndicatorResult, bool) {
	if len(ctx.Prices) < 21 {
		return contracts.IndicatorResult{}, false
	}

	latest := ctx.Prices[len(ctx.Prices)-1]
	prev := ctx.Prices[len(ctx.Prices)-2]

	var sum int64
	for _, p := range ctx.Prices[len(ctx.Prices)-21 : len(ctx.Prices)-1] {
		sum += p.Volume
	}
	avg20 := float64(sum) / 20
	if avg20 <= 0 {
		return contracts.IndicatorResult{}, false
	}
	ratio := float64(latest.Volume) / avg20
	priceUp := latest.Close > prev.Close

	score := 50
	signal := "量能正常"
	switch {
	case ratio > 2 && priceUp:
		score = 75
		signal = "價漲量增"
	case ratio > 2 && !priceUp:
		score = 30
		signal = "價跌量增"
	case ratio < 0.6:
		score = 45
		signal = "量能萎縮"
	case priceUp:
		score = 60
	default:
		score = 42
	}

	return contracts.IndicatorResult{
		Name:     c.Name(),
		Category: c.Category(),
		Value:    ratio,
		SubValues: map[string]float64{
			"TodayVsAvg20": math.Round(ratio*100) / 100,
		},
		Direction: contracts.DetermineDirection(float64(score)),
		Score:     score,
		Signal:    signal,
		Reason:    fmt.Sprintf("今日成交量為20日均量的%.2f倍,%s", ratio, signal),
	}, true
}
