package twse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wayneh/stocklens/internal/contracts"
)

// Fundamentals fetches valuation fundamentals from the BWIBBU report.
// BWIBBU columns: 日期(0), 殖利率(%)(1), 股利年度(2), 本益比(3),
// 股價淨值比(4), 財報年/季(5)
//
// ROE and revenue growth are not published on this report; they stay
// nil and the fundamental calculators that need them skip themselves.
func (c *Client) Fundamentals(ctx context.Context, stockCode string) (*contracts.FundamentalSnapshot, error) {
	url := fmt.Sprintf("%s/rwd/zh/afterTrading/BWIBBU?date=%s01&stockNo=%s&response=json",
		c.baseURL, time.Now().Format("200601"), stockCode)

	resp, err := c.http.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var report reportResponse
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("parse BWIBBU response: %w", err)
	}
	if report.Stat != "OK" || len(report.Data) == 0 {
		return nil, fmt.Errorf("no fundamental data for %s", stockCode)
	}

	latest := report.Data[len(report.Data)-1]
	if len(latest) < 5 {
		return nil, fmt.Errorf("malformed BWIBBU row for %s", stockCode)
	}

	snap := &contracts.FundamentalSnapshot{}
	if v, ok := parseDecimal(latest[1]); ok {
		snap.DividendYieldPct = &v
	}
	if v, ok := parseDecimal(latest[3]); ok {
		snap.PER = &v
	}
	if v, ok := parseDecimal(latest[4]); ok {
		snap.PBR = &v
	}

	c.logger.WithField("stock_code", stockCode).Debug("Fetched TWSE fundamentals")
	return snap, nil
}
