package providers

import (
	"context"

	"github.com/wayneh/stocklens/internal/contracts"
)

// PriceProvider fetches the daily price history for a stock code.
// Implementations return bars oldest-first.
type PriceProvider interface {
	DailyPrices(ctx context.Context, stockCode string) ([]contracts.PriceBar, error)
}

// ChipProvider fetches recent chip (margin / institutional) snapshots,
// oldest-first. Unknown facts inside a snapshot are nil, never zero.
type ChipProvider interface {
	Chips(ctx context.Context, stockCode string) ([]contracts.ChipSnapshot, error)
}

// FundamentalProvider fetches point-in-time fundamentals.
type FundamentalProvider interface {
	Fundamentals(ctx context.Context, stockCode string) (*contracts.FundamentalSnapshot, error)
}

// Set bundles the providers for one market region. Chip is nil for
// markets without chip data (e.g. US); the analyzer forces chip
// inclusion off in that case.
type Set struct {
	Price       PriceProvider
	Chip        ChipProvider
	Fundamental FundamentalProvider
}

// Registry maps market regions to provider sets. Populated once at
// startup and read-only afterwards, so lookups need no locking.
type Registry struct {
	sets map[contracts.MarketRegion]*Set
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sets: make(map[contracts.MarketRegion]*Set)}
}

// Register adds a provider set for a market region.
func (r *Registry) Register(market contracts.MarketRegion, set *Set) {
	r.sets[market] = set
}

// For returns the provider set for a market region, or nil when the
// market is not supported.
func (r *Registry) For(market contracts.MarketRegion) *Set {
	return r.sets[market]
}
