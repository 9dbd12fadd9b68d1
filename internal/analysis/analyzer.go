package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wayneh/stocklens/internal/contracts"
	"github.com/wayneh/stocklens/internal/indicators"
	"github.com/wayneh/stocklens/internal/providers"
	"github.com/wayneh/stocklens/internal/risk"
	"github.com/wayneh/stocklens/internal/scoring"
	"github.com/wayneh/stocklens/pkg/logger"
)

// Analyzer composes providers, the indicator engine, scoring and risk
// into one analysis pipeline. It is stateless across runs; every Run
// builds its result from scratch, so concurrent runs never interfere.
type Analyzer struct {
	registry *providers.Registry
	engine   indicators.Engine
	scoring  *scoring.Service
	risk     *risk.Assessor
	weights  *scoring.WeightConfig
	logger   *logger.Logger
}

// New creates an analyzer. weights is the shared default weight config;
// per-run overrides are merged onto a copy, never into it.
func New(registry *providers.Registry, engine indicators.Engine, scoringSvc *scoring.Service,
	riskAssessor *risk.Assessor, weights *scoring.WeightConfig, log *logger.Logger) *Analyzer {
	return &Analyzer{
		registry: registry,
		engine:   engine,
		scoring:  scoringSvc,
		risk:     riskAssessor,
		weights:  weights,
		logger:   log,
	}
}

// Run executes one analysis. Failure semantics:
//   - missing stock code / unknown market: usage error before any I/O
//   - price-history fetch failure: *RequiredFetchError (price underpins
//     technical indicators and close reporting, so it is required
//     whenever technical or fundamental analysis was requested)
//   - chip/fundamental fetch failure: logged, category treated as absent
//   - context cancellation: returned as the context error, never
//     recovered as category absence
func (a *Analyzer) Run(ctx context.Context, opts Options) (*contracts.AnalysisResult, error) {
	code := strings.TrimSpace(opts.StockCode)
	if code == "" {
		return nil, ErrMissingStockCode
	}

	market := opts.Market
	if market == "" {
		market = contracts.DetectMarket(code)
	}
	set := a.registry.For(market)
	if set == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMarket, market)
	}

	effective := opts
	effective.StockCode = code
	effective.Market = market
	if set.Chip == nil && effective.IncludeChip {
		// No chip source for this market; the echoed configuration
		// reflects the override, not the request.
		a.logger.WithFields(map[string]interface{}{
			"stock_code": code,
			"market":     market,
		}).Debug("No chip provider for market, disabling chip analysis")
		effective.IncludeChip = false
	}

	prices, chips, fundamental, err := a.fetchAll(ctx, set, effective)
	if err != nil {
		return nil, err
	}

	calculated := a.engine.CalculateAll(indicators.Context{
		StockCode:   code,
		Market:      market,
		Prices:      prices,
		Chips:       chips,
		Fundamental: fundamental,
	})
	filtered := filterIndicators(calculated, effective)

	result := &contracts.AnalysisResult{
		StockCode:   code,
		Market:      market,
		Indicators:  filtered,
		Config:      configEcho(effective),
		GeneratedAt: time.Now(),
	}
	if fundamental != nil {
		result.StockName = fundamental.StockName
	}
	if len(prices) > 0 {
		result.LatestClose = prices[len(prices)-1].Close
		result.DataRange = fmt.Sprintf("%s ~ %s",
			prices[0].Date.Format("2006-01-02"),
			prices[len(prices)-1].Date.Format("2006-01-02"))
	}

	if effective.WithScore && len(filtered) > 0 {
		weights := a.weights
		if len(effective.WeightOverrides) > 0 {
			weights = weights.Merged(effective.WeightOverrides)
		}
		result.Score = a.scoring.Compute(filtered, weights)
	}

	if effective.WithRisk && len(filtered) > 0 {
		var categoryScores []contracts.CategoryScore
		if result.Score != nil {
			categoryScores = result.Score.CategoryScores
		}
		assessment := a.risk.Assess(filtered, categoryScores)
		result.Risk = &assessment
	}

	a.logger.WithFields(map[string]interface{}{
		"stock_code": code,
		"market":     market,
		"indicators": len(filtered),
	}).Info("Analysis completed")

	return result, nil
}

// fetchAll issues the needed fetches concurrently and waits for all of
// them, so latency is bounded by the slowest fetch. Price is the only
// required dependency; chip and fundamental failures are recovered as
// absence unless they are really the context being cancelled.
func (a *Analyzer) fetchAll(ctx context.Context, set *providers.Set, opts Options) (
	[]contracts.PriceBar, []contracts.ChipSnapshot, *contracts.FundamentalSnapshot, error) {

	var (
		prices      []contracts.PriceBar
		chips       []contracts.ChipSnapshot
		fundamental *contracts.FundamentalSnapshot
	)

	g, gctx := errgroup.WithContext(ctx)

	if opts.IncludeTechnical || opts.IncludeFundamental {
		g.Go(func() error {
			fetched, err := set.Price.DailyPrices(gctx, opts.StockCode)
			if err != nil {
				if isContextError(err) {
					return err
				}
				return &RequiredFetchError{StockCode: opts.StockCode, Source: "price history", Err: err}
			}
			prices = fetched
			return nil
		})
	}

	if opts.IncludeChip {
		g.Go(func() error {
			fetched, err := set.Chip.Chips(gctx, opts.StockCode)
			if err != nil {
				if isContextError(err) {
					return err
				}
				a.logger.WithError(err).WithField("stock_code", opts.StockCode).
					Warn("Chip fetch failed, continuing without chip data")
				return nil
			}
			chips = fetched
			return nil
		})
	}

	if opts.IncludeFundamental {
		g.Go(func() error {
			fetched, err := set.Fundamental.Fundamentals(gctx, opts.StockCode)
			if err != nil {
				if isContextError(err) {
					return err
				}
				a.logger.WithError(err).WithField("stock_code", opts.StockCode).
					Warn("Fundamental fetch failed, continuing without fundamentals")
				return nil
			}
			fundamental = fetched
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return prices, chips, fundamental, nil
}

// isContextError reports whether the fetch failed because the run was
// cancelled rather than because the provider broke.
func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// filterIndicators applies the category flags, then the allow-list,
// then the exclude-list, in that order.
func filterIndicators(results []contracts.IndicatorResult, opts Options) []contracts.IndicatorResult {
	enabled := map[contracts.Category]bool{
		contracts.CategoryTechnical:   opts.IncludeTechnical,
		contracts.CategoryChip:        opts.IncludeChip,
		contracts.CategoryFundamental: opts.IncludeFundamental,
	}

	var only map[string]bool
	if len(opts.OnlyIndicators) > 0 {
		only = make(map[string]bool, len(opts.OnlyIndicators))
		for _, name := range opts.OnlyIndicators {
			only[name] = true
		}
	}
	excluded := make(map[string]bool, len(opts.ExcludeIndicators))
	for _, name := range opts.ExcludeIndicators {
		excluded[name] = true
	}

	filtered := make([]contracts.IndicatorResult, 0, len(results))
	for _, result := range results {
		if !enabled[result.Category] {
			continue
		}
		if only != nil && !only[result.Name] {
			continue
		}
		if excluded[result.Name] {
			continue
		}
		filtered = append(filtered, result)
	}
	return filtered
}

// configEcho snapshots the effective configuration into the result,
// copying slices and maps so the result stays immutable.
func configEcho(opts Options) contracts.AnalysisConfig {
	echo := contracts.AnalysisConfig{
		Market:             opts.Market,
		IncludeTechnical:   opts.IncludeTechnical,
		IncludeChip:        opts.IncludeChip,
		IncludeFundamental: opts.IncludeFundamental,
		WithScore:          opts.WithScore,
		WithRisk:           opts.WithRisk,
	}
	if len(opts.OnlyIndicators) > 0 {
		echo.OnlyIndicators = append([]string(nil), opts.OnlyIndicators...)
	}
	if len(opts.ExcludeIndicators) > 0 {
		echo.ExcludeIndicators = append([]string(nil), opts.ExcludeIndicators...)
	}
	if len(opts.WeightOverrides) > 0 {
		echo.WeightOverrides = make(map[contracts.Category]float64, len(opts.WeightOverrides))
		for cat, v := range opts.WeightOverrides {
			echo.WeightOverrides[cat] = v
		}
	}
	return echo
}
