package contracts

import "time"

// PriceBar is one day of OHLCV data, oldest-first in slices.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// ChipSnapshot is one day of chip (margin / institutional) data.
// Absent facts are nil, never zero: a zero net-buy is a real observation,
// a missing one must not be scored as if it were zero.
type ChipSnapshot struct {
	Date              time.Time `json:"date"`
	ForeignNetBuy     *int64    `json:"foreign_net_buy,omitempty"`  // 外資買賣超(股)
	TrustNetBuy       *int64    `json:"trust_net_buy,omitempty"`    // 投信買賣超(股)
	DealerNetBuy      *int64    `json:"dealer_net_buy,omitempty"`   // 自營商買賣超(股)
	MarginBalance     *int64    `json:"margin_balance,omitempty"`   // 融資餘額(張)
	ShortBalance      *int64    `json:"short_balance,omitempty"`    // 融券餘額(張)
	ForeignHoldingPct *float64  `json:"foreign_holding_pct,omitempty"`
	DirectorPledgePct *float64  `json:"director_pledge_pct,omitempty"` // 董監質押比率
}

// FundamentalSnapshot holds point-in-time fundamentals for a stock.
// Same nil-means-unknown convention as ChipSnapshot.
type FundamentalSnapshot struct {
	StockName        string   `json:"stock_name,omitempty"`
	EPS              *float64 `json:"eps,omitempty"`
	PER              *float64 `json:"per,omitempty"`
	PBR              *float64 `json:"pbr,omitempty"`
	ROE              *float64 `json:"roe,omitempty"`
	RevenueYoYPct    *float64 `json:"revenue_yoy_pct,omitempty"`
	DividendYieldPct *float64 `json:"dividend_yield_pct,omitempty"`
}
