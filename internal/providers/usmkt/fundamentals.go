package usmkt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/wayneh/stocklens/internal/contracts"
)

// rawValue is the quote-summary {raw, fmt} number wrapper.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

// quoteSummaryResponse is reduced to the modules the analysis reads.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				LongName string `json:"longName"`
			} `json:"price"`
			SummaryDetail struct {
				TrailingPE    rawValue `json:"trailingPE"`
				DividendYield rawValue `json:"dividendYield"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				TrailingEPS rawValue `json:"trailingEps"`
				PriceToBook rawValue `json:"priceToBook"`
			} `json:"defaultKeyStatistics"`
			FinancialData struct {
				ReturnOnEquity rawValue `json:"returnOnEquity"`
				RevenueGrowth  rawValue `json:"revenueGrowth"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// Fundamentals fetches fundamentals from the quote-summary endpoint.
// Missing modules leave the corresponding fields nil.
func (c *Client) Fundamentals(ctx context.Context, stockCode string) (*contracts.FundamentalSnapshot, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf(
		"%s/v10/finance/quoteSummary/%s?modules=price,summaryDetail,defaultKeyStatistics,financialData",
		c.quoteBaseURL, stockCode)

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

	var summary quoteSummaryResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("parse quote summary: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quote summary error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("empty quote summary for %s", stockCode)
	}

	result := summary.QuoteSummary.Result[0]
	snap := &contracts.FundamentalSnapshot{StockName: result.Price.LongName}

	snap.PER = result.SummaryDetail.TrailingPE.Raw
	snap.EPS = result.DefaultKeyStatistics.TrailingEPS.Raw
	snap.PBR = result.DefaultKeyStatistics.PriceToBook.Raw

	// Ratio fields arrive as fractions; the analysis works in percent.
	if v := result.SummaryDetail.DividendYield.Raw; v != nil {
		pct := *v * 100
		snap.DividendYieldPct = &pct
	}
	if v := result.FinancialData.ReturnOnEquity.Raw; v != nil {
		pct := *v * 100
		snap.ROE = &pct
	}
	if v := result.FinancialData.RevenueGrowth.Raw; v != nil {
		pct := *v * 100
		snap.RevenueYoYPct = &pct
	}

	c.logger.WithField("stock_code", stockCode).Debug("Fetched US fundamentals")
	return snap, nil
}
