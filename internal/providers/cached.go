package providers

import (
	"context"

	"github.com/wayneh/stocklens/internal/contracts"
	"github.com/wayneh/stocklens/pkg/redis"
)

// Cached wraps a provider set with a Redis cache so concurrent analyses
// of the same code within the TTL hit upstream at most once per payload.
// Cache failures fall through to the underlying provider.
func Cached(set *Set, market contracts.MarketRegion, cache *redis.Cache) *Set {
	out := &Set{
		Price:       &cachedPrices{inner: set.Price, market: market, cache: cache},
		Fundamental: &cachedFundamentals{inner: set.Fundamental, market: market, cache: cache},
	}
	if set.Chip != nil {
		out.Chip = &cachedChips{inner: set.Chip, market: market, cache: cache}
	}
	return out
}

type cachedPrices struct {
	inner  PriceProvider
	market contracts.MarketRegion
	cache  *redis.Cache
}

func (c *cachedPrices) DailyPrices(ctx context.Context, stockCode string) ([]contracts.PriceBar, error) {
	key := redis.PricesKey(string(c.market), stockCode)

	var bars []contracts.PriceBar
	if found, _ := c.cache.Get(ctx, key, &bars); found {
		return bars, nil
	}

	bars, err := c.inner.DailyPrices(ctx, stockCode)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, key, bars, redis.TTLDaily)
	return bars, nil
}

type cachedChips struct {
	inner  ChipProvider
	market contracts.MarketRegion
	cache  *redis.Cache
}

func (c *cachedChips) Chips(ctx context.Context, stockCode string) ([]contracts.ChipSnapshot, error) {
	key := redis.ChipsKey(string(c.market), stockCode)

	var chips []contracts.ChipSnapshot
	if found, _ := c.cache.Get(ctx, key, &chips); found {
		return chips, nil
	}

	chips, err := c.inner.Chips(ctx, stockCode)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, key, chips, redis.TTLDaily)
	return chips, nil
}

type cachedFundamentals struct {
	inner  FundamentalProvider
	market contracts.MarketRegion
	cache  *redis.Cache
}

func (c *cachedFundamentals) Fundamentals(ctx context.Context, stockCode string) (*contracts.FundamentalSnapshot, error) {
	key := redis.FundamentalsKey(string(c.market), stockCode)

	var snap contracts.FundamentalSnapshot
	if found, _ := c.cache.Get(ctx, key, &snap); found {
		return &snap, nil
	}

	result, err := c.inner.Fundamentals(ctx, stockCode)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, key, result, redis.TTLDaily)
	return result, nil
}
