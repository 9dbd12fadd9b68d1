package indicators

import (
	"fmt"

	"github.com/wayneh/stocklens/internal/contracts"
)

// chipWindow is the number of recent snapshots used for flow trends.
const chipWindow = 5

// InstitutionalFlowCalculator sums institutional net buying over the
// recent window. Nil fields are treated as unknown and skipped; the
// calculator only runs when at least one snapshot carries flow data.
type InstitutionalFlowCalculator struct{}

func (c *InstitutionalFlowCalculator) Name() string { return "InstitutionalNetBuy" }
func (c *InstitutionalFlowCalculator) Category() contracts.Category { return contracts.CategoryChip }

func (c *InstitutionalFlowCalculator) Calculate(ctx Context) (contracts.IndicatorResult, bool) {
	window := lastChips(ctx.Chips, chipWindow)
	if len(window) == 0 {
		return contracts.IndicatorResult{}, false
	}

	var total int64
	var buyDays, sellDays, observed int
	for _, snap := range window {
		day, known := int64(0), false
		if snap.ForeignNetBuy != nil {
			day += *snap.ForeignNetBuy
			known = true
		}
		if snap.TrustNetBuy != nil {
			day += *snap.TrustNetBuy
			known = true
		}
		if snap.DealerNetBuy != nil {
			day += *snap.DealerNetBuy
			known = true
		}
		if !known {
			continue
		}
		observed++
		total += day
		if day > 0 {
			buyDays++
		} else if day < 0 {
			sellDays++
		}
	}
	if observed == 0 {
		return contracts.IndicatorResult{}, false
	}

	score := 50
	if total > 0 {
		score = clampScore(58 + buyDays*6)
	} else if total < 0 {
		score = clampScore(42 - sellDays*6)
	}

	signal := "法人觀望"
	if total > 0 {
		signal = "法人買超"
	} else if total < 0 {
		signal = "法人賣超"
	}

	return contracts.IndicatorResult{
		Name:     c.Name(),
		Category: c.Category(),
		Value:    float64(total),
		SubValues: map[string]float64{
			"BuyDays":  float64(buyDays),
			"SellDays": float64(sellDays),
		},
		Direction: contracts.DetermineDirection(float64(score)),
		Score:     score,
		Signal:    signal,
		Reason:    fmt.Sprintf("近%d日三大法人合計買賣超%d股,%d日買超/%d日賣超", observed, total, buyDays, sellDays),
	}, true
}

// MarginTrendCalculator reads the margin-balance trend. A rapidly rising
// balance means crowded retail positioning, scored bearish.
type MarginTrendCalculator struct{}

func (c *MarginTrendCalculator) Name() string { return "MarginBalance" }
func (c *MarginTrendCalculator) Category() contracts.Category { return contracts.CategoryChip }

func (c *MarginTrendCalculator) Calculate(ctx Context) (contracts.IndicatorResult, bool) {
	window := lastChips(ctx.Chips, chipWindow)

	var first, latest *int64
	for _, snap := range window {
		if snap.MarginBalance == nil {
			continue
		}
		if first == nil {
			v := *snap.MarginBalance
			first = &v
		}
		v := *snap.MarginBalance
		latest = &v
	}
	if first == nil || latest == nil || *first == 0 {
		return contracts.IndicatorResult{}, false
	}

	changePct := float64(*latest-*first) / float64(*first) * 100

	score := 50
	switch {
	case changePct > 10:
		score = 30
	case changePct > 3:
		score = 42
	case changePct < -10:
		score = 68
	case changePct < -3:
		score = 58
	}

	signal := "融資持平"
	if changePct > 3 {
		signal = "融資增加"
	} else if changePct < -3 {
		signal = "融資減少"
	}

	return contracts.IndicatorResult{
		Name:     c.Name(),
		Category: c.Category(),
		Value:    changePct,
		SubValues: map[string]float64{
			"Latest": float64(*latest),
		},
		Direction: contracts.DetermineDirection(float64(score)),
		Score:     score,
		Signal:    signal,
		Reason:    fmt.Sprintf("融資餘額近期變化%.1f%%,%s", changePct, signal),
	}, true
}

// ForeignHoldingCalculator scores the foreign ownership ratio and its
// recent trend.
type ForeignHoldingCalculator struct{}

func (c *ForeignHoldingCalculator) Name() string { return "ForeignShareholding" }
func (c *ForeignHoldingCalculator) Category() contracts.Category { return contracts.CategoryChip }

func (c *ForeignHoldingCalculator) Calculate(ctx Context) (contracts.IndicatorResult, bool) {
	var first, latest *float64
	for _, snap := range ctx.Chips {
		if snap.ForeignHoldingPct == nil {
			continue
		}
		if first == nil {
			v := *snap.ForeignHoldingPct
			first = &v
		}
		v := *snap.ForeignHoldingPct
		latest = &v
	}
	if latest == nil {
		return contracts.IndicatorResult{}, false
	}

	pct := *latest
	score := 40
	switch {
	case pct >= 40:
		score = 70
	case pct >= 20:
		score = 60
	case pct >= 10:
		score = 50
	}
	trend := pct - *first
	if trend > 0.5 {
		score += 10
	} else if trend < -0.5 {
		score -= 10
	}
	score = clampScore(score)

	signal := "外資持股穩定"
	if trend > 0.5 {
		signal = "外資加碼"
	} else if trend < -0.5 {
		signal = "外資調節"
	}

	return contracts.IndicatorResult{
		Name:     c.Name(),
		Category: c.Category(),
		Value:    pct,
		SubValues: map[string]float64{
			"TrendPct": trend,
		},
		Direction: contracts.DetermineDirection(float64(score)),
		Score:     score,
		Signal:    signal,
		Reason:    fmt.Sprintf("外資持股比率%.1f%%,近期變化%+.1f%%", pct, trend),
	}, true
}

// DirectorPledgeCalculator reads the director pledge ratio. High pledge
// ratios weaken the chip structure; the raw value also feeds the risk
// assessor's high-pledge check.
type DirectorPledgeCalculator struct{}

func (c *DirectorPledgeCalculator) Name() string { return "DirectorPledge" }
func (c *DirectorPledgeCalculator) Category() contracts.Category { return contracts.CategoryChip }

func (c *DirectorPledgeCalculator) Calculate(ctx Context) (contracts.IndicatorResult, bool) {
	var latest *float64
	for _, snap := range ctx.Chips {
		if snap.DirectorPledgePct != nil {
			v := *snap.DirectorPledgePct
			latest = &v
		}
	}
	if latest == nil {
		return contracts.IndicatorResult{}, false
	}

	pct := *latest
	score := clampScore(70 - int(pct))

	signal := "質押比率偏低"
	switch {
	case pct > 50:
		signal = "質押比率極高"
	case pct > 30:
		signal = "質押比率偏高"
	case pct > 10:
		signal = "質押比率中等"
	}

	return contracts.IndicatorResult{
		Name:      c.Name(),
		Category:  c.Category(),
		Value:     pct,
		Direction: contracts.DetermineDirection(float64(score)),
		Score:     score,
		Signal:    signal,
		Reason:    fmt.Sprintf("董監質押比率%.1f%%,%s", pct, signal),
	}, true
}

// lastChips returns up to n most recent snapshots, oldest-first.
func lastChips(chips []contracts.ChipSnapshot, n int) []contracts.ChipSnapshot {
	if len(chips) <= n {
		return chips
	}
	return chips[len(chips)-n:]
}
