package usmkt

import (
	"context"
	"strings"

	"golang.org/x/time/rate"

	"github.com/wayneh/stocklens/pkg/config"
	"github.com/wayneh/stocklens/pkg/httputil"
	"github.com/wayneh/stocklens/pkg/logger"
)

// Client fetches US market data from Yahoo-style chart/quote endpoints.
// Implements providers.PriceProvider and providers.FundamentalProvider;
// there is no chip data for the US market.
type Client struct {
	chartBaseURL string
	quoteBaseURL string
	http         *httputil.Client
	limiter      *rate.Limiter
	logger       *logger.Logger
}

// NewClient creates a US market client with a local token-bucket
// limiter (the endpoints throttle aggressively per-IP, so a
// process-local limiter is the right scope).
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		chartBaseURL: strings.TrimRight(cfg.USMkt.ChartBaseURL, "/"),
		quoteBaseURL: strings.TrimRight(cfg.USMkt.QuoteBaseURL, "/"),
		http:         httputil.New(log, cfg.USMkt.HTTPTimeout),
		limiter:      rate.NewLimiter(rate.Limit(cfg.USMkt.RatePerSec), cfg.USMkt.RatePerSec),
		logger:       log,
	}
}

// wait blocks on the local rate limiter.
func (c *Client) wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}
