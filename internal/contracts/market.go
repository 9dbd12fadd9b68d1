package contracts

import "strings"

// MarketRegion identifies which market a stock code belongs to.
type MarketRegion string

const (
	MarketTW MarketRegion = "TW" // 台股 (上市/上櫃)
	MarketUS MarketRegion = "US"
)

// DetectMarket infers the market region from the lexical form of a stock
// code: all-digit codes are Taiwanese (e.g. "2330"), alphabetic tickers
// are US (e.g. "AAPL"). Mixed or empty codes default to TW, matching the
// numeric-suffix forms used by TPEx ETFs (e.g. "00679B").
func DetectMarket(code string) MarketRegion {
	code = strings.TrimSpace(code)
	if code == "" {
		return MarketTW
	}
	for _, r := range code {
		if r >= '0' && r <= '9' {
			return MarketTW
		}
	}
	return MarketUS
}
