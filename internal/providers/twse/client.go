package twse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wayneh/stocklens/pkg/config"
	"github.com/wayneh/stocklens/pkg/httputil"
	"github.com/wayneh/stocklens/pkg/logger"
	"github.com/wayneh/stocklens/pkg/redis"
)

// Client fetches Taiwan market data from the TWSE report endpoints.
// Implements providers.PriceProvider, ChipProvider, FundamentalProvider.
type Client struct {
	baseURL         string
	shareholdingURL string
	http            *httputil.Client
	logger          *logger.Logger
}

// NewClient creates a TWSE client. The shared Redis rate limiter is
// optional; with Redis disabled the limiter allows everything and the
// httputil retry/backoff keeps the endpoints usable.
func NewClient(cfg *config.Config, log *logger.Logger, limiter *redis.RateLimiter) *Client {
	hc := httputil.New(log, cfg.TWSE.HTTPTimeout)
	if limiter != nil {
		hc = hc.WithRateLimiter(limiter, redis.TWSERateLimit)
	}
	return &Client{
		baseURL:         strings.TrimRight(cfg.TWSE.BaseURL, "/"),
		shareholdingURL: cfg.TWSE.ShareholdingURL,
		http:            hc,
		logger:          log,
	}
}

// reportResponse is the common TWSE report JSON envelope.
type reportResponse struct {
	Stat   string     `json:"stat"`
	Date   string     `json:"date"`
	Data   [][]string `json:"data"`
	Fields []string   `json:"fields"`
}

// parseROCDate parses dates like "113/01/02" (民國紀年).
func parseROCDate(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid ROC date: %q", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ROC year: %q", s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ROC month: %q", s)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ROC day: %q", s)
	}
	return time.Date(year+1911, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// parseNumber parses TWSE comma-grouped integers like "1,234,567".
// Returns ok=false for placeholder cells ("--", "", "N/A").
func parseNumber(s string) (int64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "--" || s == "N/A" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseDecimal parses TWSE decimal cells, tolerating comma grouping.
func parseDecimal(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "--" || s == "N/A" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
