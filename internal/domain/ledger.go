package domain

import "github.com/shopspring/decimal"

// LedgerSnapshot is a read-only copy of the financial state owned by the
// ledger. Components never hold references into the ledger's live fields;
// they receive snapshots.
type LedgerSnapshot struct {
	Capital       decimal.Decimal
	OpenExposure  decimal.Decimal
	DailyTrades   int
	LastReportDay int // day-of-month of the last daily summary, 0 = never
}
