package indicators

import (
	"fmt"

	"github.com/wayneh/stocklens/internal/contracts"
)

// ValuationCalculator scores the price/earnings ratio. A missing or
// non-positive PER (loss-making company) is scored bearish rather than
// skipped when EPS is known negative.
type ValuationCalculator struct{}

func (c *ValuationCalculator) Name() string { return "PER" }
func (c *ValuationCalculator) Category() contracts.Category { return contracts.CategoryFundamental }

func (c *ValuationCalculator) Calculate(ctx Context) (contracts.IndicatorResult, bool) {
	f := ctx.Fundamental
	if f == nil {
		return contracts.IndicatorResult{}, false
	}

	if f.PER == nil || *f.PER <= 0 {
		if f.EPS != nil && *f.EPS < 0 {
			return contracts.IndicatorResult{
				Name:      c.Name(),
				Category:  c.Category(),
				Value:     0,
				Direction: contracts.Bearish,
				Score:     25,
				Signal:    "虧損中",
				Reason:    fmt.Sprintf("每股盈餘%.2f元,公司處於虧損,無本益比可評", *f.EPS),
			}, true
		}
		return contracts.IndicatorResult{}, false
	}

	per := *f.PER
	var score int
	switch {
	case per <= 10:
		score = 75
	case per <= 15:
		score = 65
	case per <= 20:
		score = 55
	case per <= 30:
		score = 45
	default:
		score = 30
	}

	signal := "評價合理"
	if per <= 12 {
		signal = "評價偏低"
	} else if per > 25 {
		signal = "評價偏高"
	}

	return contracts.IndicatorResult{
		Name:      c.Name(),
		Category:  c.Category(),
		Value:     per,
		Direction: contracts.DetermineDirection(float64(score)),
		Score:     score,
		Signal:    signal,
		Reason:    fmt.Sprintf("本益比%.1f倍,%s", per, signal),
	}, true
}

// ProfitabilityCalculator scores the return on equity.
type ProfitabilityCalculator struct{}

func (c *ProfitabilityCalculator) Name() string { return "ROE" }
func (c *ProfitabilityCalculator) Category() contracts.Category { return contracts.CategoryFundamental }

func (c *ProfitabilityCalculator) Calculate(ctx Context) (contracts.IndicatorResult, bool) {
	if ctx.Fundamental == nil || ctx.Fundamental.ROE == nil {
		return contracts.IndicatorResult{}, false
	}

	roe := *ctx.Fundamental.ROE
	var score int
	switch {
	case roe >= 20:
		score = 85
	case roe >= 15:
		score = 72
	case roe >= 10:
		score = 60
	case roe >= 5:
		score = 45
	default:
		score = 30
	}

	signal := "獲利能力普通"
	if roe >= 15 {
		signal = "獲利能力強"
	} else if roe < 5 {
		signal = "獲利能力弱"
	}

	return contracts.IndicatorResult{
		Name:      c.Name(),
		Category:  c.Category(),
		Value:     roe,
		Direction: contracts.DetermineDirection(float64(score)),
		Score:     score,
		Signal:    signal,
		Reason:    fmt.Sprintf("股東權益報酬率%.1f%%,%s", roe, signal),
	}, true
}

// RevenueGrowthCalculator scores year-over-year revenue growth.
type RevenueGrowthCalculator struct{}

func (c *RevenueGrowthCalculator) Name() string { return "RevenueGrowth" }
func (c *RevenueGrowthCalculator) Category() contracts.Category { return contracts.CategoryFundamental }

func (c *RevenueGrowthCalculator) Calculate(ctx Context) (contracts.IndicatorResult, bool) {
	if ctx.Fundamental == nil || ctx.Fundamental.RevenueYoYPct == nil {
		return contracts.IndicatorResult{}, false
	}

	yoy := *ctx.Fundamental.RevenueYoYPct
	var score int
	switch {
	case yoy >= 30:
		score = 85
	case yoy >= 10:
		score = 70
	case yoy >= 0:
		score = 55
	case yoy >= -10:
		score = 40
	default:
		score = 25
	}

	signal := "營收持平"
	if yoy >= 10 {
		signal = "營收成長"
	} else if yoy < 0 {
		signal = "營收衰退"
	}

	return contracts.IndicatorResult{
		Name:      c.Name(),
		Category:  c.Category(),
		Value:     yoy,
		Direction: contracts.DetermineDirection(float64(score)),
		Score:     score,
		Signal:    signal,
		Reason:    fmt.Sprintf("營收年增率%.1f%%,%s", yoy, signal),
	}, true
}

// DividendYieldCalculator scores the cash dividend yield.
type DividendYieldCalculator struct{}

func (c *DividendYieldCalculator) Name() string { return "DividendYield" }
func (c *DividendYieldCalculator) Category() contracts.Category { return contracts.CategoryFundamental }

func (c *DividendYieldCalculator) Calculate(ctx Context) (contracts.IndicatorResult, bool) {
	if ctx.Fundamental == nil || ctx.Fundamental.DividendYieldPct == nil {
		return contracts.IndicatorResult{}, false
	}

	yield := *ctx.Fundamental.DividendYieldPct
	var score int
	switch {
	case yield >= 6:
		score = 75
	case yield >= 4:
		score = 65
	case yield >= 2:
		score = 55
	case yield > 0:
		score = 45
	default:
		score = 40
	}

	signal := "殖利率普通"
	if yield >= 5 {
		signal = "高殖利率"
	} else if yield <= 0 {
		signal = "無配息"
	}

	return contracts.IndicatorResult{
		Name:      c.Name(),
		Category:  c.Category(),
		Value:     yield,
		Direction: contracts.DetermineDirection(float64(score)),
		Score:     score,
		Signal:    signal,
		Reason:    fmt.Sprintf("現金殖利率%.1f%%,%s", yield, signal),
	}, true
}
