package kalshi

// Market is a market as returned by the Kalshi REST API. Prices are in cents
// (1-99).
type Market struct {
	Ticker      string  `json:"ticker"`
	EventTicker string  `json:"event_ticker"`
	Title       string  `json:"title"`
	Subtitle    string  `json:"subtitle"`
	Status      string  `json:"status"` // "open", "closed", "settled"
	YesBid      float64 `json:"yes_bid"`
	YesAsk      float64 `json:"yes_ask"`
	NoBid       float64 `json:"no_bid"`
	NoAsk       float64 `json:"no_ask"`
	Volume      int64   `json:"volume"`
	Volume24H   int64   `json:"volume_24h"`
	CloseTime   string  `json:"close_time"`
}

// Order is an order to be placed on the Kalshi exchange.
type Order struct {
	Ticker   string `json:"ticker"`
	Action   string `json:"action"` // "buy" or "sell"
	Side     string `json:"side"`   // "yes" or "no"
	Type     string `json:"type"`   // "market" or "limit"
	Count    int64  `json:"count"`  // number of contracts
	YesPrice *int64 `json:"yes_price,omitempty"` // limit price in cents
	NoPrice  *int64 `json:"no_price,omitempty"`  // limit price in cents
}

// OrderResponse is the API response after placing an order.
type OrderResponse struct {
	Order struct {
		OrderID        string `json:"order_id"`
		Ticker         string `json:"ticker"`
		Status         string `json:"status"` // "resting", "canceled", "executed", "pending"
		YesPrice       int64  `json:"yes_price"`
		NoPrice        int64  `json:"no_price"`
		RemainingCount int64  `json:"remaining_count"`
		TakerFillCount int64  `json:"taker_fill_count"`
		TakerFillCost  int64  `json:"taker_fill_cost"`
	} `json:"order"`
}

// ErrorResponse is a Kalshi API error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
