package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brennershearn-bot/Arb-Bot/internal/domain"
)

// LedgerStore implements domain.LedgerStore using PostgreSQL. A single
// upserted row carries the ledger snapshot; committed trades get one row each
// with their legs stored as JSONB.
type LedgerStore struct {
	pool *pgxpool.Pool
}

// NewLedgerStore creates a LedgerStore backed by the given connection pool.
func NewLedgerStore(pool *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

// Load returns the persisted ledger snapshot. The second return value is
// false when no snapshot has ever been saved.
func (s *LedgerStore) Load(ctx context.Context) (domain.LedgerSnapshot, bool, error) {
	var snap domain.LedgerSnapshot
	err := s.pool.QueryRow(ctx, `
		SELECT capital, open_exposure, daily_trades, last_report_day
		FROM ledger_snapshots WHERE id = 1`,
	).Scan(&snap.Capital, &snap.OpenExposure, &snap.DailyTrades, &snap.LastReportDay)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LedgerSnapshot{}, false, nil
	}
	if err != nil {
		return domain.LedgerSnapshot{}, false, fmt.Errorf("postgres: load ledger snapshot: %w", err)
	}
	return snap, true, nil
}

// Save upserts the ledger snapshot.
func (s *LedgerStore) Save(ctx context.Context, snap domain.LedgerSnapshot) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ledger_snapshots (id, capital, open_exposure, daily_trades, last_report_day, updated_at)
		VALUES (1, $1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE SET
			capital = EXCLUDED.capital,
			open_exposure = EXCLUDED.open_exposure,
			daily_trades = EXCLUDED.daily_trades,
			last_report_day = EXCLUDED.last_report_day,
			updated_at = NOW()`,
		snap.Capital, snap.OpenExposure, snap.DailyTrades, snap.LastReportDay,
	)
	if err != nil {
		return fmt.Errorf("postgres: save ledger snapshot: %w", err)
	}
	return nil
}

// InsertTrade records one committed trade. Replays of the same trade ID are
// silently skipped.
func (s *LedgerStore) InsertTrade(ctx context.Context, rec domain.TradeRecord) error {
	legs, err := json.Marshal(rec.Legs)
	if err != nil {
		return fmt.Errorf("postgres: marshal trade legs: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO trades (id, timestamp, combo, title, net_edge, stake, pnl, legs)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.Timestamp, rec.Combo, rec.Title, rec.NetEdge, rec.Stake, rec.PnL, legs,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert trade: %w", err)
	}
	return nil
}
