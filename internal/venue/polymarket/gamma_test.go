package polymarket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brennershearn-bot/Arb-Bot/internal/domain"
)

func TestGammaFetchQuotes_FiltersToOpenBinaryMarkets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/markets", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("active"))
		assert.Equal(t, "false", r.URL.Query().Get("closed"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{
				"id": "m1",
				"question": "Will BTC close above 100k?",
				"active": true,
				"closed": false,
				"outcomes": "[\"Yes\", \"No\"]",
				"outcomePrices": "[\"0.43\", \"0.57\"]",
				"volume": "12345.6"
			},
			{
				"id": "m2",
				"question": "Closed market",
				"active": true,
				"closed": true,
				"outcomes": "[\"Yes\", \"No\"]",
				"outcomePrices": "[\"0.5\", \"0.5\"]",
				"volume": "1"
			},
			{
				"id": "m3",
				"question": "Who wins?",
				"active": "true",
				"closed": false,
				"outcomes": "[\"Alice\", \"Bob\", \"Carol\"]",
				"outcomePrices": "[\"0.3\", \"0.3\", \"0.4\"]",
				"volume": "1"
			}
		]`))
	}))
	defer server.Close()

	g := NewGammaClient(server.URL, 200)
	quotes, err := g.FetchQuotes(context.Background())
	require.NoError(t, err)
	require.Len(t, quotes, 1, "closed and non-binary markets are skipped")

	q := quotes[0]
	assert.Equal(t, VenueName, q.Venue)
	assert.Equal(t, "m1", q.MarketID)
	assert.Equal(t, "Will BTC close above 100k?", q.Title)
	assert.Equal(t, "0.43", q.YesPrice)
	assert.Equal(t, "0.57", q.NoPrice)
	assert.Equal(t, 12345.6, q.Volume)
}

func TestGammaFetchQuotes_ServerErrorWrapsTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	g := NewGammaClient(server.URL, 200)
	_, err := g.FetchQuotes(context.Background())
	assert.ErrorIs(t, err, domain.ErrTransport)
}
