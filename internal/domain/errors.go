package domain

import "errors"

var (
	// ErrMalformedQuote marks a raw record whose price fields are absent or
	// non-numeric. The record is skipped; the cycle continues.
	ErrMalformedQuote = errors.New("malformed quote")

	// ErrTransport marks a venue fetch failure. The cycle continues with an
	// empty quote set from the affected venue.
	ErrTransport = errors.New("transport error")

	// ErrOrderTimeout marks a leg that did not complete within its timeout.
	ErrOrderTimeout = errors.New("order timed out")

	// ErrExposureCap refuses an attempt that would push open exposure past
	// capital * max_total_exposure_frac. Normal flow, not an alert.
	ErrExposureCap = errors.New("exposure cap reached")

	// ErrDailyCap refuses an attempt once the daily trade counter hits its
	// configured maximum. Normal flow, not an alert.
	ErrDailyCap = errors.New("daily trade cap reached")

	// ErrLedgerInvariant indicates the ledger's exposure/capital invariant
	// would be violated. This is a sizing or accounting bug and is surfaced
	// loudly via the notifier.
	ErrLedgerInvariant = errors.New("ledger invariant violation")
)
