package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wayneh/stocklens/internal/analysis"
	"github.com/wayneh/stocklens/internal/contracts"
	"github.com/wayneh/stocklens/internal/providers"
	"github.com/wayneh/stocklens/internal/store"
	"github.com/wayneh/stocklens/pkg/config"
	"github.com/wayneh/stocklens/pkg/logger"
)

// Publisher receives every completed watchlist analysis. The websocket
// hub implements it; a nil publisher is allowed.
type Publisher interface {
	Publish(result *contracts.AnalysisResult)
}

// Scheduler runs the watchlist analysis on a cron schedule. Each run
// analyzes every watched code sequentially; the provider rate limiters
// pace the upstream calls, so fanning out per code would only queue.
type Scheduler struct {
	cron     *cron.Cron
	analyzer *analysis.Analyzer
	registry *providers.Registry
	prices   *store.PriceRepository // nil when the database is disabled
	hub      Publisher              // nil when no API server is running
	cfg      config.WatchConfig
	logger   *logger.Logger

	mu      sync.Mutex
	lastRun *RunSummary

	runTimeout time.Duration
}

// RunSummary records the outcome of one watchlist pass.
type RunSummary struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Analyzed  int           `json:"analyzed"`
	Failed    int           `json:"failed"`
}

// New creates a watchlist scheduler. prices and hub may be nil.
func New(analyzer *analysis.Analyzer, registry *providers.Registry,
	prices *store.PriceRepository, hub Publisher, cfg config.WatchConfig, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		analyzer:   analyzer,
		registry:   registry,
		prices:     prices,
		hub:        hub,
		cfg:        cfg,
		logger:     log,
		runTimeout: 10 * time.Minute,
	}
}

// Start registers the watchlist job and starts the cron loop.
func (s *Scheduler) Start() error {
	if len(s.cfg.Codes) == 0 {
		return fmt.Errorf("watchlist is empty, set WATCH_CODES")
	}

	if _, err := s.cron.AddFunc(s.cfg.CronSpec, s.runWatchlist); err != nil {
		return fmt.Errorf("failed to schedule watchlist job: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"schedule": s.cfg.CronSpec,
		"codes":    len(s.cfg.Codes),
	}).Info("Watchlist scheduler started")

	s.cron.Start()
	return nil
}

// Stop stops the cron loop and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping watchlist scheduler")
	<-s.cron.Stop().Done()
	s.logger.Info("Watchlist scheduler stopped")
}

// RunNow executes one watchlist pass immediately, outside the schedule.
func (s *Scheduler) RunNow() {
	s.runWatchlist()
}

// LastRun returns the summary of the most recent pass, or nil.
func (s *Scheduler) LastRun() *RunSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

// runWatchlist analyzes every watched code once.
func (s *Scheduler) runWatchlist() {
	start := time.Now()
	summary := RunSummary{StartedAt: start}

	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	for _, code := range s.cfg.Codes {
		if err := s.analyzeOne(ctx, code); err != nil {
			summary.Failed++
			s.logger.WithError(err).WithField("stock_code", code).
				Error("Watchlist analysis failed")
			continue
		}
		summary.Analyzed++
	}

	summary.Duration = time.Since(start)
	s.mu.Lock()
	s.lastRun = &summary
	s.mu.Unlock()

	s.logger.WithFields(map[string]interface{}{
		"analyzed": summary.Analyzed,
		"failed":   summary.Failed,
		"duration": summary.Duration,
	}).Info("Watchlist pass completed")
}

// analyzeOne runs one analysis, publishes the result, and backfills the
// price store. With the cache decorator in front of the providers the
// backfill fetch is served from cache, not from upstream again.
func (s *Scheduler) analyzeOne(ctx context.Context, code string) error {
	result, err := s.analyzer.Run(ctx, analysis.NewOptions(code))
	if err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Publish(result)
	}

	if s.prices != nil {
		if err := s.backfillPrices(ctx, result.Market, code); err != nil {
			// Persistence is best-effort; the analysis itself succeeded.
			s.logger.WithError(err).WithField("stock_code", code).
				Warn("Price backfill failed")
		}
	}

	return nil
}

func (s *Scheduler) backfillPrices(ctx context.Context, market contracts.MarketRegion, code string) error {
	set := s.registry.For(market)
	if set == nil {
		return fmt.Errorf("no providers for market %s", market)
	}

	bars, err := set.Price.DailyPrices(ctx, code)
	if err != nil {
		return err
	}
	return s.prices.SaveBatch(ctx, market, code, bars)
}
