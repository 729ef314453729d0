package domain

import "github.com/shopspring/decimal"

// OrderSide selects which outcome of a binary market an order buys.
type OrderSide string

const (
	OrderSideYes OrderSide = "yes"
	OrderSideNo  OrderSide = "no"
)

// OrderStatus is the closed set of terminal outcomes for a submitted order.
// Transport failures and timeouts are normalized into OrderFailed by the
// coordinator; no other shapes exist.
type OrderStatus string

const (
	OrderFilled        OrderStatus = "filled"
	OrderPartialFilled OrderStatus = "partial"
	OrderRejected      OrderStatus = "rejected"
	OrderFailed        OrderStatus = "failed"
)

// OrderRequest is one leg of an arbitrage attempt.
type OrderRequest struct {
	Venue      string
	MarketID   string
	Side       OrderSide
	LimitPrice decimal.Decimal
	Quantity   decimal.Decimal
}

// OrderResult is the tagged outcome of an order submission. FilledQty and
// AvgPrice are meaningful for filled/partial; Reason carries the venue's
// rejection message or the transport error text for failed.
type OrderResult struct {
	Status    OrderStatus
	FilledQty decimal.Decimal
	AvgPrice  decimal.Decimal
	OrderID   string
	Reason    string
}

// FilledAtLeast reports whether the result's filled quantity reaches frac of
// the requested quantity. Rejected and failed results never satisfy it.
func (r OrderResult) FilledAtLeast(requested, frac decimal.Decimal) bool {
	switch r.Status {
	case OrderFilled, OrderPartialFilled:
		return r.FilledQty.GreaterThanOrEqual(requested.Mul(frac))
	default:
		return false
	}
}
