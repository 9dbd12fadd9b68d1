package twse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wayneh/stocklens/internal/contracts"
)

// chipLookbackDays is how many calendar days back the chip fetch scans
// for trading days.
const chipLookbackDays = 10

// Chips fetches recent institutional flow and margin balances, then
// enriches the latest snapshot with scraped shareholding figures.
// Snapshots are oldest-first; days where the stock has no row are
// simply absent.
func (c *Client) Chips(ctx context.Context, stockCode string) ([]contracts.ChipSnapshot, error) {
	var snaps []contracts.ChipSnapshot

	now := time.Now()
	for i := chipLookbackDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		snap := contracts.ChipSnapshot{Date: day}
		found := false

		if err := c.fetchInstitutional(ctx, stockCode, day, &snap); err != nil {
			return nil, fmt.Errorf("fetch %s institutional flow: %w", stockCode, err)
		}
		found = snap.ForeignNetBuy != nil || snap.TrustNetBuy != nil || snap.DealerNetBuy != nil

		if err := c.fetchMargin(ctx, stockCode, day, &snap); err != nil {
			return nil, fmt.Errorf("fetch %s margin balance: %w", stockCode, err)
		}
		found = found || snap.MarginBalance != nil || snap.ShortBalance != nil

		if found {
			snaps = append(snaps, snap)
		}
	}

	if len(snaps) > 0 {
		// Shareholding structure changes slowly; scraping once for the
		// latest snapshot is enough.
		if err := c.scrapeShareholding(ctx, stockCode, &snaps[len(snaps)-1]); err != nil {
			c.logger.WithError(err).WithField("stock_code", stockCode).
				Warn("Shareholding scrape failed, continuing without it")
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"stock_code": stockCode,
		"count":      len(snaps),
	}).Debug("Fetched TWSE chips")

	return snaps, nil
}

// T86 columns (selectType=ALLBUT0999): 證券代號(0), 證券名稱(1),
// 外陸資買進(2), 外陸資賣出(3), 外陸資買賣超(4), ...,
// 投信買賣超(10), ..., 自營商買賣超(11)
func (c *Client) fetchInstitutional(ctx context.Context, stockCode string, day time.Time, snap *contracts.ChipSnapshot) error {
	url := fmt.Sprintf("%s/rwd/zh/fund/T86?date=%s&selectType=ALLBUT0999&response=json",
		c.baseURL, day.Format("20060102"))

	report, err := c.fetchReport(ctx, url)
	if err != nil {
		return err
	}
	if report == nil {
		return nil // holiday
	}

	for _, row := range report.Data {
		if len(row) < 12 || strings.TrimSpace(row[0]) != stockCode {
			continue
		}
		if v, ok := parseNumber(row[4]); ok {
			snap.ForeignNetBuy = &v
		}
		if v, ok := parseNumber(row[10]); ok {
			snap.TrustNetBuy = &v
		}
		if v, ok := parseNumber(row[11]); ok {
			snap.DealerNetBuy = &v
		}
		return nil
	}
	return nil
}

// MI_MARGN stock rows: 股票代號(0), 股票名稱(1), 融資買進(2), 融資賣出(3),
// 融資現金償還(4), 融資前日餘額(5), 融資今日餘額(6), ...,
// 融券今日餘額(12)
func (c *Client) fetchMargin(ctx context.Context, stockCode string, day time.Time, snap *contracts.ChipSnapshot) error {
	url := fmt.Sprintf("%s/rwd/zh/marginTrading/MI_MARGN?date=%s&selectType=STOCK&response=json",
		c.baseURL, day.Format("20060102"))

	report, err := c.fetchReport(ctx, url)
	if err != nil {
		return err
	}
	if report == nil {
		return nil
	}

	for _, row := range report.Data {
		if len(row) < 13 || strings.TrimSpace(row[0]) != stockCode {
			continue
		}
		if v, ok := parseNumber(row[6]); ok {
			snap.MarginBalance = &v
		}
		if v, ok := parseNumber(row[12]); ok {
			snap.ShortBalance = &v
		}
		return nil
	}
	return nil
}

// scrapeShareholding pulls foreign holding and director pledge ratios
// from the shareholding-structure HTML page.
func (c *Client) scrapeShareholding(ctx context.Context, stockCode string, snap *contracts.ChipSnapshot) error {
	url := fmt.Sprintf("%s?stockNo=%s", c.shareholdingURL, stockCode)

	resp, err := c.http.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("parse shareholding page: %w", err)
	}

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		label := strings.TrimSpace(cells.Eq(0).Text())
		value := strings.TrimSpace(strings.TrimSuffix(cells.Eq(1).Text(), "%"))

		switch {
		case strings.Contains(label, "外資持股比率"):
			if v, ok := parseDecimal(value); ok {
				snap.ForeignHoldingPct = &v
			}
		case strings.Contains(label, "質押比率"):
			if v, ok := parseDecimal(value); ok {
				snap.DirectorPledgePct = &v
			}
		}
	})

	return nil
}

// fetchReport fetches a TWSE report URL; nil report means the day had
// no data (holiday).
func (c *Client) fetchReport(ctx context.Context, url string) (*reportResponse, error) {
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
		return nil, fmt.Errorf("parse report response: %w", err)
	}
	if report.Stat != "OK" {
		return nil, nil
	}
	return &report, nil
}
