package indicators

import (
	"github.com/wayneh/stocklens/internal/contracts"
	"github.com/wayneh/stocklens/pkg/logger"
)

// Context is the unified input for one engine invocation. Slices are
// ordered oldest-first. Any part may be empty/nil; calculators whose
// inputs are absent skip themselves instead of failing.
type Context struct {
	StockCode   string
	Market      contracts.MarketRegion
	Prices      []contracts.PriceBar
	Chips       []contracts.ChipSnapshot
	Fundamental *contracts.FundamentalSnapshot
}

// Calculator computes one indicator from the context. The second return
// is false when the calculator's inputs are missing.
type Calculator interface {
	Name() string
	Category() contracts.Category
	Calculate(ctx Context) (contracts.IndicatorResult, bool)
}

// Engine computes the full indicator set for a context. Implementations
// must be pure: no I/O, no failure on sparse input, and a stable output
// order for identical inputs.
type Engine interface {
	CalculateAll(ctx Context) []contracts.IndicatorResult
}

// CalcEngine runs a fixed, ordered slice of calculators. The fixed order
// makes the output deterministic for a given input.
type CalcEngine struct {
	calculators []Calculator
	logger      *logger.Logger
}

// NewEngine creates an engine with the default calculator set.
func NewEngine(log *logger.Logger) *CalcEngine {
	return &CalcEngine{
		logger: log,
		calculators: []Calculator{
			// Technical
			&RSICalculator{},
			&MACDCalculator{},
			&MABiasCalculator{},
			&KDCalculator{},
			&VolumeRatioCalculator{},
			// Chip
			&InstitutionalFlowCalculator{},
			&MarginTrendCalculator{},
			&ForeignHoldingCalculator{},
			&DirectorPledgeCalculator{},
			// Fundamental
			&ValuationCalculator{},
			&ProfitabilityCalculator{},
			&RevenueGrowthCalculator{},
			&DividendYieldCalculator{},
		},
	}
}

// CalculateAll runs every calculator whose inputs are present.
func (e *CalcEngine) CalculateAll(ctx Context) []contracts.IndicatorResult {
	results := make([]contracts.IndicatorResult, 0, len(e.calculators))
	for _, calc := range e.calculators {
		result, ok := calc.Calculate(ctx)
		if !ok {
			continue
		}
		results = append(results, result)
	}

	e.logger.WithFields(map[string]interface{}{
		"stock_code": ctx.StockCode,
		"count":      len(results),
	}).Debug("Calculated indicators")

	return results
}
