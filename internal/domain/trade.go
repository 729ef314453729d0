package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LegRecord captures one leg's outcome inside a trade record.
type LegRecord struct {
	Venue     string          `json:"venue"`
	MarketID  string          `json:"market_id"`
	Side      OrderSide       `json:"side"`
	Status    OrderStatus     `json:"status"`
	FilledQty decimal.Decimal `json:"filled_qty"`
	AvgPrice  decimal.Decimal `json:"avg_price"`
	OrderID   string          `json:"order_id,omitempty"`
	Reason    string          `json:"reason,omitempty"`
}

// TradeRecord is the append-only structured record emitted once per committed
// trade. It is the faithful log of real capital movements: a record exists iff
// both legs were confirmed filled above the fill-rate threshold.
type TradeRecord struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Combo     string          `json:"combo"`
	Title     string          `json:"title"`
	NetEdge   decimal.Decimal `json:"net_edge"`
	Stake     decimal.Decimal `json:"stake"`
	PnL       decimal.Decimal `json:"pnl"`
	Legs      []LegRecord     `json:"legs"`
}
