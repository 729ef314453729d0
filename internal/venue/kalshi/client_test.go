package kalshi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brennershearn-bot/Arb-Bot/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFetchQuotes_MapsCentsToProbabilities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/markets", r.URL.Path)
		assert.Equal(t, "open", r.URL.Query().Get("status"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"markets": []map[string]any{
				{
					"ticker":     "BTC-100K",
					"title":      "Will BTC close above 100k?",
					"status":     "open",
					"yes_ask":    42,
					"no_ask":     59,
					"volume_24h": 5000,
				},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "", 50)
	quotes, err := c.FetchQuotes(context.Background())
	require.NoError(t, err)
	require.Len(t, quotes, 1)

	q := quotes[0]
	assert.Equal(t, VenueName, q.Venue)
	assert.Equal(t, "BTC-100K", q.MarketID)
	assert.Equal(t, "0.42", q.YesPrice)
	assert.Equal(t, "0.59", q.NoPrice)
	assert.Equal(t, 5000.0, q.Volume)
}

func TestFetchQuotes_ServerErrorWrapsTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"internal","message":"boom"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL, "", 50)
	_, err := c.FetchQuotes(context.Background())
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestSubmitOrder_ExecutedReportsDollarFill(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/portfolio/orders", r.URL.Path)

		var order Order
		require.NoError(t, json.NewDecoder(r.Body).Decode(&order))
		assert.Equal(t, "buy", order.Action)
		assert.Equal(t, "yes", order.Side)
		assert.Equal(t, int64(1625), order.Count, "650 dollars at 0.40 per contract")
		require.NotNil(t, order.YesPrice)
		assert.Equal(t, int64(40), *order.YesPrice)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"order": map[string]any{
				"order_id":         "ord-1",
				"status":           "executed",
				"taker_fill_count": 1625,
				"taker_fill_cost":  65000,
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "key-id", 50)
	res, err := c.SubmitOrder(context.Background(), domain.OrderRequest{
		Venue:      VenueName,
		MarketID:   "BTC-100K",
		Side:       domain.OrderSideYes,
		LimitPrice: dec("0.40"),
		Quantity:   dec("650"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderFilled, res.Status)
	assert.True(t, res.FilledQty.Equal(dec("650")), "filled %s", res.FilledQty)
	assert.True(t, res.AvgPrice.Equal(dec("0.40")), "avg price %s", res.AvgPrice)
	assert.Equal(t, "ord-1", res.OrderID)
}

func TestSubmitOrder_RestingWithoutFillsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"order": map[string]any{
				"order_id": "ord-2",
				"status":   "resting",
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "key-id", 50)
	res, err := c.SubmitOrder(context.Background(), domain.OrderRequest{
		MarketID:   "BTC-100K",
		Side:       domain.OrderSideNo,
		LimitPrice: dec("0.50"),
		Quantity:   dec("100"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderRejected, res.Status)
}

func TestSubmitOrder_PartialFill(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"order": map[string]any{
				"order_id":         "ord-3",
				"status":           "resting",
				"taker_fill_count": 100,
				"taker_fill_cost":  5000,
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "key-id", 50)
	res, err := c.SubmitOrder(context.Background(), domain.OrderRequest{
		MarketID:   "BTC-100K",
		Side:       domain.OrderSideNo,
		LimitPrice: dec("0.50"),
		Quantity:   dec("100"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPartialFilled, res.Status)
	assert.True(t, res.FilledQty.Equal(dec("50")), "100 contracts at 0.50")
}

func TestSubmitOrder_PriceOutsideBandRejectedLocally(t *testing.T) {
	// No server: the request must never leave the client.
	c := NewClient("http://127.0.0.1:0", "key-id", 50)

	res, err := c.SubmitOrder(context.Background(), domain.OrderRequest{
		MarketID:   "BTC-100K",
		Side:       domain.OrderSideYes,
		LimitPrice: dec("0.001"),
		Quantity:   dec("100"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderRejected, res.Status)

	res, err = c.SubmitOrder(context.Background(), domain.OrderRequest{
		MarketID:   "BTC-100K",
		Side:       domain.OrderSideYes,
		LimitPrice: dec("0.999"),
		Quantity:   dec("100"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderRejected, res.Status)
}
