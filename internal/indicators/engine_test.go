package indicators

import (
	"testing"
	"time"

	"github.com/wayneh/stocklens/internal/contracts"
	"github.com/wayneh/stocklens/pkg/logger"
)

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

// syntheticPrices builds n bars with a mild uptrend and flat volume.
func syntheticPrices(n int) []contracts.PriceBar {
	bars := make([]contracts.PriceBar, 0, n)
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := 0; i < n; i++ {
		if i%3 == 2 {
			price -= 0.4
		} else {
			price += 0.7
		}
		bars = append(bars, contracts.PriceBar{
			Date:   base.AddDate(0, 0, i),
			Open:   price - 0.5,
			High:   price + 1.0,
			Low:    price - 1.0,
			Close:  price,
			Volume: 10_000,
		})
	}
	return bars
}

func TestCalcEngine_EmptyContext(t *testing.T) {
	engine := NewEngine(logger.NewNop())
	results := engine.CalculateAll(Context{StockCode: "2330"})
	if len(results) != 0 {
		t.Fatalf("expected no results for empty context, got %d", len(results))
	}
}

func TestCalcEngine_ShortHistorySkipsTechnical(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	// 10 bars is below every technical calculator's minimum.
	results := engine.CalculateAll(Context{
		StockCode: "2330",
		Prices:    syntheticPrices(10),
	})
	for _, r := range results {
		if r.Category == contracts.CategoryTechnical {
			t.Errorf("technical indicator %s produced from 10 bars", r.Name)
		}
	}
}

func TestCalcEngine_FullTechnicalSet(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	results := engine.CalculateAll(Context{
		StockCode: "2330",
		Prices:    syntheticPrices(60),
	})

	want := []string{"RSI", "MACD", "MABias", "KD", "VolumeRatio"}
	if len(results) != len(want) {
		t.Fatalf("expected %d technical indicators, got %d", len(want), len(results))
	}
	for i, name := range want {
		if results[i].Name != name {
			t.Errorf("results[%d].Name = %s, want %s", i, results[i].Name, name)
		}
		if results[i].Category != contracts.CategoryTechnical {
			t.Errorf("%s category = %s, want technical", name, results[i].Category)
		}
		if results[i].Score < 0 || results[i].Score > 100 {
			t.Errorf("%s score %d out of range", name, results[i].Score)
		}
		if results[i].Direction != contracts.DetermineDirection(float64(results[i].Score)) {
			t.Errorf("%s direction inconsistent with score %d", name, results[i].Score)
		}
	}
}

func TestCalcEngine_ChipIndicators(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	chips := []contracts.ChipSnapshot{
		{Date: time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
			ForeignNetBuy: i64(1_000), MarginBalance: i64(50_000), ForeignHoldingPct: f64(41.0)},
		{Date: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
			ForeignNetBuy: i64(2_000), MarginBalance: i64(51_000), ForeignHoldingPct: f64(42.0),
			DirectorPledgePct: f64(40.0)},
	}

	results := engine.CalculateAll(Context{StockCode: "2330", Chips: chips})

	byName := make(map[string]contracts.IndicatorResult, len(results))
	for _, r := range results {
		if r.Category != contracts.CategoryChip {
			t.Errorf("unexpected non-chip indicator %s", r.Name)
		}
		byName[r.Name] = r
	}

	flow, ok := byName["InstitutionalNetBuy"]
	if !ok {
		t.Fatal("missing InstitutionalNetBuy")
	}
	if flow.Value != 3_000 {
		t.Errorf("InstitutionalNetBuy value = %v, want 3000", flow.Value)
	}
	if !flow.Direction.IsBullish() {
		t.Errorf("two buy days should read bullish, got %s", flow.Direction)
	}

	pledge, ok := byName["DirectorPledge"]
	if !ok {
		t.Fatal("missing DirectorPledge")
	}
	if pledge.Value != 40.0 {
		t.Errorf("DirectorPledge value = %v, want 40", pledge.Value)
	}
	if pledge.Score != 30 {
		t.Errorf("DirectorPledge score = %d, want 30", pledge.Score)
	}
}

func TestCalcEngine_ChipNilFieldsSkip(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	// Snapshots exist but carry no known facts.
	chips := []contracts.ChipSnapshot{{}, {}}
	results := engine.CalculateAll(Context{StockCode: "2330", Chips: chips})
	if len(results) != 0 {
		t.Fatalf("expected no indicators from all-nil snapshots, got %d", len(results))
	}
}

func TestCalcEngine_FundamentalIndicators(t *testing.T) {
	engine := NewEngine(logger.NewNop())

	results := engine.CalculateAll(Context{
		StockCode: "2330",
		Fundamental: &contracts.FundamentalSnapshot{
			PER:              f64(14.0),
			ROE:              f64(22.0),
			RevenueYoYPct:    f64(18.0),
			DividendYieldPct: f64(2.5),
		},
	})

	want := []string{"PER", "ROE", "RevenueGrowth", "DividendYield"}
	if len(results) != len(want) {
		t.Fatalf("expected %d fundamental indicators, got %d", len(want), len(results))
	}
	for i, name := range want {
		if results[i].Name != name {
			t.Errorf("results[%d].Name = %s, want %s", i, results[i].Name, name)
		}
	}
	if results[1].Score != 85 {
		t.Errorf("ROE 22%% score = %d, want 85", results[1].Score)
	}
}

func TestValuationCalculator_NegativeEPS(t *testing.T) {
	calc := &ValuationCalculator{}

	result, ok := calc.Calculate(Context{
		Fundamental: &contracts.FundamentalSnapshot{EPS: f64(-2.5)},
	})
	if !ok {
		t.Fatal("loss-making company should still produce a PER indicator")
	}
	if !result.Direction.IsBearish() {
		t.Errorf("negative EPS direction = %s, want bearish", result.Direction)
	}

	// No PER and no EPS: nothing to score.
	if _, ok := calc.Calculate(Context{Fundamental: &contracts.FundamentalSnapshot{}}); ok {
		t.Error("expected skip when both PER and EPS are unknown")
	}
}
