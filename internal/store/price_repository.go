package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayneh/stocklens/internal/contracts"
)

// PriceRepository persists raw daily price bars so the watch scheduler
// can backfill history and the API can serve it without hitting the
// upstream sources. Analysis results themselves are never persisted.
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository.
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// GetByCodeAndDateRange retrieves bars for a code within a date range,
// oldest-first.
func (r *PriceRepository) GetByCodeAndDateRange(ctx context.Context, market contracts.MarketRegion, code string, from, to time.Time) ([]contracts.PriceBar, error) {
	query := `
		SELECT trade_date, open_price, high_price, low_price, close_price, volume
		FROM daily_prices
		WHERE market = $1 AND stock_code = $2 AND trade_date BETWEEN $3 AND $4
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, market, code, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []contracts.PriceBar
	for rows.Next() {
		var b contracts.PriceBar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// GetLatestByCode retrieves the most recent bar for a code.
func (r *PriceRepository) GetLatestByCode(ctx context.Context, market contracts.MarketRegion, code string) (*contracts.PriceBar, error) {
	query := `
		SELECT trade_date, open_price, high_price, low_price, close_price, volume
		FROM daily_prices
		WHERE market = $1 AND stock_code = $2
		ORDER BY trade_date DESC
		LIMIT 1
	`

	var b contracts.PriceBar
	err := r.pool.QueryRow(ctx, query, market, code).Scan(
		&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Save upserts a single bar.
func (r *PriceRepository) Save(ctx context.Context, market contracts.MarketRegion, code string, bar contracts.PriceBar) error {
	query := `
		INSERT INTO daily_prices (market, stock_code, trade_date, open_price, high_price, low_price, close_price, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (market, stock_code, trade_date) DO UPDATE SET
			open_price = EXCLUDED.open_price,
			high_price = EXCLUDED.high_price,
			low_price = EXCLUDED.low_price,
			close_price = EXCLUDED.close_price,
			volume = EXCLUDED.volume
	`

	_, err := r.pool.Exec(ctx, query,
		market, code, bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
	)
	return err
}

// SaveBatch upserts multiple bars.
func (r *PriceRepository) SaveBatch(ctx context.Context, market contracts.MarketRegion, code string, bars []contracts.PriceBar) error {
	for _, bar := range bars {
		if err := r.Save(ctx, market, code, bar); err != nil {
			return err
		}
	}
	return nil
}
