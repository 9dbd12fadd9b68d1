package commands

import (
	"fmt"

	"github.com/wayneh/stocklens/internal/analysis"
	"github.com/wayneh/stocklens/internal/contracts"
	"github.com/wayneh/stocklens/internal/indicators"
	"github.com/wayneh/stocklens/internal/providers"
	"github.com/wayneh/stocklens/internal/providers/twse"
	"github.com/wayneh/stocklens/internal/providers/usmkt"
	"github.com/wayneh/stocklens/internal/risk"
	"github.com/wayneh/stocklens/internal/scoring"
	"github.com/wayneh/stocklens/pkg/config"
	"github.com/wayneh/stocklens/pkg/database"
	"github.com/wayneh/stocklens/pkg/logger"
	"github.com/wayneh/stocklens/pkg/redis"
)

// appDeps bundles the long-lived dependencies the commands share.
// Every command wires the same pipeline; only what it does with the
// analyzer differs.
type appDeps struct {
	cfg      *config.Config
	log      *logger.Logger
	redis    *redis.Client
	db       *database.DB // nil when DATABASE_URL is not set
	registry *providers.Registry
	analyzer *analysis.Analyzer
}

// initDeps loads config and builds the analysis pipeline.
func initDeps() (*appDeps, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to Redis (no-op client when disabled)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// 4. Connect to database (optional, price store only)
	var db *database.DB
	if cfg.Database.Enabled() {
		db, err = database.New(cfg)
		if err != nil {
			redisClient.Close()
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		log.Info("Connected to database")
	}

	// 5. Create market data providers
	limiter := redis.NewRateLimiter(redisClient, "stocklens")
	twseClient := twse.NewClient(cfg, log, limiter)
	usClient := usmkt.NewClient(cfg, log)

	twSet := &providers.Set{Price: twseClient, Chip: twseClient, Fundamental: twseClient}
	usSet := &providers.Set{Price: usClient, Fundamental: usClient}

	if redisClient.Enabled() {
		cache := redis.NewCache(redisClient, "stocklens")
		twSet = providers.Cached(twSet, contracts.MarketTW, cache)
		usSet = providers.Cached(usSet, contracts.MarketUS, cache)
		log.Info("Provider cache enabled")
	}

	registry := providers.NewRegistry()
	registry.Register(contracts.MarketTW, twSet)
	registry.Register(contracts.MarketUS, usSet)

	// 6. Create the analysis pipeline
	analyzer := analysis.New(
		registry,
		indicators.NewEngine(log),
		scoring.NewService(log),
		risk.NewAssessor(),
		scoring.DefaultWeights(),
		log,
	)

	return &appDeps{
		cfg:      cfg,
		log:      log,
		redis:    redisClient,
		db:       db,
		registry: registry,
		analyzer: analyzer,
	}, nil
}

// Close releases the connections held by the deps.
func (d *appDeps) Close() {
	if d.db != nil {
		d.db.Close()
	}
	_ = d.redis.Close()
}
