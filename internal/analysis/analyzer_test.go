package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayneh/stocklens/internal/contracts"
	"github.com/wayneh/stocklens/internal/indicators"
	"github.com/wayneh/stocklens/internal/providers"
	"github.com/wayneh/stocklens/internal/risk"
	"github.com/wayneh/stocklens/internal/scoring"
	"github.com/wayneh/stocklens/pkg/logger"
)

type stubPrices struct {
	bars []contracts.PriceBar
	err  error
}

func (s *stubPrices) DailyPrices(ctx context.Context, code string) ([]contracts.PriceBar, error) {
	return s.bars, s.err
}

type stubChips struct {
	chips []contracts.ChipSnapshot
	err   error
}

func (s *stubChips) Chips(ctx context.Context, code string) ([]contracts.ChipSnapshot, error) {
	return s.chips, s.err
}

type stubFundamentals struct {
	snap *contracts.FundamentalSnapshot
	err  error
}

func (s *stubFundamentals) Fundamentals(ctx context.Context, code string) (*contracts.FundamentalSnapshot, error) {
	return s.snap, s.err
}

// stubEngine ignores its input and returns fixed results.
type stubEngine struct {
	results []contracts.IndicatorResult
}

func (s *stubEngine) CalculateAll(ctx indicators.Context) []contracts.IndicatorResult {
	return s.results
}

func testBars() []contracts.PriceBar {
	return []contracts.PriceBar{
		{Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Close: 95},
		{Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), Close: 100},
	}
}

func testIndicators() []contracts.IndicatorResult {
	return []contracts.IndicatorResult{
		{Name: "RSI", Category: contracts.CategoryTechnical, Score: 70, Direction: contracts.Bullish},
		{Name: "MACD", Category: contracts.CategoryTechnical, Score: 60, Direction: contracts.Bullish},
		{Name: "InstitutionalNetBuy", Category: contracts.CategoryChip, Score: 40, Direction: contracts.Neutral},
	}
}

func newTestAnalyzer(t *testing.T, registry *providers.Registry, engine indicators.Engine) *Analyzer {
	t.Helper()
	return New(registry, engine, scoring.NewService(logger.NewNop()),
		risk.NewAssessor(), scoring.DefaultWeights(), logger.NewNop())
}

func twRegistry(set *providers.Set) *providers.Registry {
	registry := providers.NewRegistry()
	registry.Register(contracts.MarketTW, set)
	return registry
}

func TestAnalyzer_UsageErrors(t *testing.T) {
	analyzer := newTestAnalyzer(t, providers.NewRegistry(), &stubEngine{})

	t.Run("missing stock code", func(t *testing.T) {
		_, err := analyzer.Run(context.Background(), NewOptions("   "))
		require.ErrorIs(t, err, ErrMissingStockCode)
		assert.True(t, IsUsageError(err))
	})

	t.Run("unsupported market", func(t *testing.T) {
		_, err := analyzer.Run(context.Background(), NewOptions("AAPL"))
		require.ErrorIs(t, err, ErrUnsupportedMarket)
		assert.True(t, IsUsageError(err))
	})
}

func TestAnalyzer_HappyPath(t *testing.T) {
	set := &providers.Set{
		Price:       &stubPrices{bars: testBars()},
		Chip:        &stubChips{},
		Fundamental: &stubFundamentals{snap: &contracts.FundamentalSnapshot{StockName: "台積電"}},
	}
	analyzer := newTestAnalyzer(t, twRegistry(set), &stubEngine{results: testIndicators()})

	result, err := analyzer.Run(context.Background(), NewOptions("2330"))
	require.NoError(t, err)

	assert.Equal(t, "2330", result.StockCode)
	assert.Equal(t, "台積電", result.StockName)
	assert.Equal(t, contracts.MarketTW, result.Market)
	assert.Equal(t, 100.0, result.LatestClose)
	assert.Equal(t, "2026-03-02 ~ 2026-03-03", result.DataRange)
	assert.Len(t, result.Indicators, 3)
	require.NotNil(t, result.Score)
	require.NotNil(t, result.Risk)
	assert.False(t, result.GeneratedAt.IsZero())

	// Effective config echoes the defaults.
	assert.True(t, result.Config.IncludeChip)
	assert.True(t, result.Config.WithScore)
	assert.Equal(t, contracts.MarketTW, result.Config.Market)
}

func TestAnalyzer_ChipUnavailableMarket(t *testing.T) {
	// US-style set: no chip provider.
	set := &providers.Set{
		Price:       &stubPrices{bars: testBars()},
		Fundamental: &stubFundamentals{snap: &contracts.FundamentalSnapshot{StockName: "Apple"}},
	}
	registry := providers.NewRegistry()
	registry.Register(contracts.MarketUS, set)
	analyzer := newTestAnalyzer(t, registry, &stubEngine{results: testIndicators()})

	result, err := analyzer.Run(context.Background(), NewOptions("AAPL"))
	require.NoError(t, err)

	// The echo reflects the forced override, and chip indicators are
	// filtered out even though the engine produced one.
	assert.False(t, result.Config.IncludeChip)
	for _, ind := range result.Indicators {
		assert.NotEqual(t, contracts.CategoryChip, ind.Category)
	}
	assert.Len(t, result.Indicators, 2)
}

func TestAnalyzer_PriceFetchFailureIsFatal(t *testing.T) {
	set := &providers.Set{
		Price:       &stubPrices{err: errors.New("upstream 500")},
		Chip:        &stubChips{},
		Fundamental: &stubFundamentals{},
	}
	analyzer := newTestAnalyzer(t, twRegistry(set), &stubEngine{})

	_, err := analyzer.Run(context.Background(), NewOptions("2330"))
	var fetchErr *RequiredFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "2330", fetchErr.StockCode)
	assert.False(t, IsUsageError(err))
}

func TestAnalyzer_ChipFailureDegrades(t *testing.T) {
	set := &providers.Set{
		Price:       &stubPrices{bars: testBars()},
		Chip:        &stubChips{err: errors.New("scrape blocked")},
		Fundamental: &stubFundamentals{err: errors.New("report missing")},
	}
	analyzer := newTestAnalyzer(t, twRegistry(set), &stubEngine{results: testIndicators()})

	result, err := analyzer.Run(context.Background(), NewOptions("2330"))
	require.NoError(t, err)
	assert.Empty(t, result.StockName)
	// Chip stays enabled in the echo: the provider exists, it just failed.
	assert.True(t, result.Config.IncludeChip)
}

func TestAnalyzer_CancellationIsNotRecovered(t *testing.T) {
	set := &providers.Set{
		Price:       &stubPrices{bars: testBars()},
		Chip:        &stubChips{err: context.Canceled},
		Fundamental: &stubFundamentals{},
	}
	analyzer := newTestAnalyzer(t, twRegistry(set), &stubEngine{})

	_, err := analyzer.Run(context.Background(), NewOptions("2330"))
	require.ErrorIs(t, err, context.Canceled)

	var fetchErr *RequiredFetchError
	assert.False(t, errors.As(err, &fetchErr))
}

func TestAnalyzer_IndicatorFilters(t *testing.T) {
	set := &providers.Set{
		Price:       &stubPrices{bars: testBars()},
		Chip:        &stubChips{},
		Fundamental: &stubFundamentals{},
	}
	analyzer := newTestAnalyzer(t, twRegistry(set), &stubEngine{results: testIndicators()})

	t.Run("allow list then block list", func(t *testing.T) {
		opts := NewOptions("2330").
			WithOnlyIndicators("RSI", "MACD").
			WithExcludeIndicators("MACD")

		result, err := analyzer.Run(context.Background(), opts)
		require.NoError(t, err)
		require.Len(t, result.Indicators, 1)
		assert.Equal(t, "RSI", result.Indicators[0].Name)
	})

	t.Run("category flag drops whole category", func(t *testing.T) {
		opts := NewOptions("2330").WithCategories(false, true, true)

		result, err := analyzer.Run(context.Background(), opts)
		require.NoError(t, err)
		require.Len(t, result.Indicators, 1)
		assert.Equal(t, contracts.CategoryChip, result.Indicators[0].Category)
	})
}

func TestAnalyzer_TogglesScoreAndRisk(t *testing.T) {
	set := &providers.Set{
		Price:       &stubPrices{bars: testBars()},
		Chip:        &stubChips{},
		Fundamental: &stubFundamentals{},
	}
	analyzer := newTestAnalyzer(t, twRegistry(set), &stubEngine{results: testIndicators()})

	result, err := analyzer.Run(context.Background(),
		NewOptions("2330").WithScoring(false).WithRiskAssessment(false))
	require.NoError(t, err)
	assert.Nil(t, result.Score)
	assert.Nil(t, result.Risk)
	assert.False(t, result.Config.WithScore)
	assert.False(t, result.Config.WithRisk)
}

func TestAnalyzer_WeightOverrides(t *testing.T) {
	set := &providers.Set{
		Price:       &stubPrices{bars: testBars()},
		Chip:        &stubChips{},
		Fundamental: &stubFundamentals{},
	}
	analyzer := newTestAnalyzer(t, twRegistry(set), &stubEngine{results: testIndicators()})

	opts := NewOptions("2330").WithWeightOverrides(map[contracts.Category]float64{
		contracts.CategoryTechnical: 1.0,
		contracts.CategoryChip:      0.0,
	})
	result, err := analyzer.Run(context.Background(), opts)
	require.NoError(t, err)
	require.NotNil(t, result.Score)

	// All weight on technical: overall equals the technical average.
	assert.Equal(t, 65.0, result.Score.OverallScore)
	assert.Equal(t, result.Config.WeightOverrides[contracts.CategoryTechnical], 1.0)
}
