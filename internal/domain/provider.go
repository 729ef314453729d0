package domain

import "context"

// QuoteProvider fetches the current raw market records for one venue. A
// failed fetch returns an error wrapping ErrTransport; the engine degrades to
// an empty quote set for that venue and continues the cycle.
type QuoteProvider interface {
	Venue() string
	FetchQuotes(ctx context.Context) ([]RawQuote, error)
}

// OrderProvider submits one order leg on a venue. Implementations must
// complete or fail within the caller's context deadline and must never mutate
// ledger state themselves.
type OrderProvider interface {
	Venue() string
	SubmitOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
}

// TradeSink appends one record per committed trade. Append must return only
// after the record is flushed to its destination.
type TradeSink interface {
	Append(rec TradeRecord) error
}

// LedgerStore persists ledger snapshots and trade records. All methods are
// best-effort from the engine's perspective; the JSONL trade log remains the
// authoritative record.
type LedgerStore interface {
	Load(ctx context.Context) (LedgerSnapshot, bool, error)
	Save(ctx context.Context, snap LedgerSnapshot) error
	InsertTrade(ctx context.Context, rec TradeRecord) error
}

// TradeEventBus publishes committed trade records for downstream consumers.
// Best-effort: publish failures are logged and swallowed.
type TradeEventBus interface {
	PublishTrade(ctx context.Context, rec TradeRecord) error
}
