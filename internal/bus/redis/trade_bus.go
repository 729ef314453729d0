package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/brennershearn-bot/Arb-Bot/internal/domain"
)

// TradeBus implements domain.TradeEventBus using a Redis Stream for durable,
// ordered delivery of committed trade records.
type TradeBus struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

// NewTradeBus creates a TradeBus publishing to the named stream, trimmed
// approximately to maxLen entries via XADD MAXLEN ~.
func NewTradeBus(c *Client, stream string, maxLen int64) *TradeBus {
	return &TradeBus{rdb: c.Underlying(), stream: stream, maxLen: maxLen}
}

// PublishTrade appends one committed trade record to the stream.
func (b *TradeBus) PublishTrade(ctx context.Context, rec domain.TradeRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("redis: marshal trade record: %w", err)
	}

	err = b.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: b.stream,
		MaxLen: b.maxLen,
		Approx: true,
		Values: map[string]any{
			"id":      rec.ID,
			"combo":   rec.Combo,
			"payload": payload,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("redis: xadd %s: %w", b.stream, err)
	}
	return nil
}
