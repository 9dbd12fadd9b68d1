package twse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/wayneh/stocklens/internal/contracts"
)

// priceMonths is how many months of daily bars an analysis fetches;
// enough for the 60-day moving average with margin for holidays.
const priceMonths = 6

// DailyPrices fetches the recent daily price history from the STOCK_DAY
// report, one request per month, oldest-first.
func (c *Client) DailyPrices(ctx context.Context, stockCode string) ([]contracts.PriceBar, error) {
	var bars []contracts.PriceBar

	now := time.Now()
	for i := priceMonths - 1; i >= 0; i-- {
		month := now.AddDate(0, -i, 0)
		monthBars, err := c.fetchMonth(ctx, stockCode, month)
		if err != nil {
			return nil, fmt.Errorf("fetch %s prices for %s: %w",
				stockCode, month.Format("2006-01"), err)
		}
		bars = append(bars, monthBars...)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	c.logger.WithFields(map[string]interface{}{
		"stock_code": stockCode,
		"count":      len(bars),
	}).Debug("Fetched TWSE prices")

	return bars, nil
}

// STOCK_DAY columns: 日期, 成交股數, 成交金額, 開盤價, 最高價, 最低價,
// 收盤價, 漲跌價差, 成交筆數
func (c *Client) fetchMonth(ctx context.Context, stockCode string, month time.Time) ([]contracts.PriceBar, error) {
	url := fmt.Sprintf("%s/rwd/zh/afterTrading/STOCK_DAY?date=%s01&stockNo=%s&response=json",
		c.baseURL, month.Format("200601"), stockCode)

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
		return nil, fmt.Errorf("parse STOCK_DAY response: %w", err)
	}
	if report.Stat != "OK" {
		// Months before listing return a non-OK stat; treat as empty.
		return nil, nil
	}

	var bars []contracts.PriceBar
	for _, row := range report.Data {
		if len(row) < 7 {
			continue
		}
		date, err := parseROCDate(row[0])
		if err != nil {
			continue
		}
		volume, ok := parseNumber(row[1])
		if !ok {
			continue
		}
		open, okO := parseDecimal(row[3])
		high, okH := parseDecimal(row[4])
		low, okL := parseDecimal(row[5])
		closing, okC := parseDecimal(row[6])
		if !okO || !okH || !okL || !okC {
			// 全日無成交 rows carry "--" prices.
			continue
		}

		bars = append(bars, contracts.PriceBar{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closing,
			Volume: volume,
		})
	}
	return bars, nil
}
