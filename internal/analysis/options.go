package analysis

import "github.com/wayneh/stocklens/internal/contracts"

// Options configures one analysis run. Values are immutable in use:
// every With* method returns a modified copy, so a populated Options
// can be shared and reused across concurrent runs safely.
type Options struct {
	StockCode string

	// Market left empty means auto-detect from the stock code.
	Market contracts.MarketRegion

	IncludeTechnical   bool
	IncludeChip        bool
	IncludeFundamental bool

	WithScore bool
	WithRisk  bool

	// OnlyIndicators, when non-empty, is applied before
	// ExcludeIndicators; the exclude list always removes.
	OnlyIndicators    []string
	ExcludeIndicators []string

	// WeightOverrides are merged over the default weight config for
	// this run only.
	WeightOverrides map[contracts.Category]float64
}

// NewOptions returns the default options for a stock code: every
// category included, scoring and risk enabled.
func NewOptions(stockCode string) Options {
	return Options{
		StockCode:          stockCode,
		IncludeTechnical:   true,
		IncludeChip:        true,
		IncludeFundamental: true,
		WithScore:          true,
		WithRisk:           true,
	}
}

// WithMarket pins the market region instead of auto-detecting.
func (o Options) WithMarket(market contracts.MarketRegion) Options {
	o.Market = market
	return o
}

// WithCategories sets the per-category include flags.
func (o Options) WithCategories(technical, chip, fundamental bool) Options {
	o.IncludeTechnical = technical
	o.IncludeChip = chip
	o.IncludeFundamental = fundamental
	return o
}

// WithScoring toggles the scoring output.
func (o Options) WithScoring(enabled bool) Options {
	o.WithScore = enabled
	return o
}

// WithRiskAssessment toggles the risk output.
func (o Options) WithRiskAssessment(enabled bool) Options {
	o.WithRisk = enabled
	return o
}

// WithOnlyIndicators restricts the run to the named indicators.
func (o Options) WithOnlyIndicators(names ...string) Options {
	o.OnlyIndicators = append([]string(nil), names...)
	return o
}

// WithExcludeIndicators drops the named indicators from the run.
func (o Options) WithExcludeIndicators(names ...string) Options {
	o.ExcludeIndicators = append([]string(nil), names...)
	return o
}

// WithWeightOverrides overrides category weights for this run. The map
// is copied; the caller's map stays untouched.
func (o Options) WithWeightOverrides(overrides map[contracts.Category]float64) Options {
	copied := make(map[contracts.Category]float64, len(overrides))
	for cat, v := range overrides {
		copied[cat] = v
	}
	o.WeightOverrides = copied
	return o
}
