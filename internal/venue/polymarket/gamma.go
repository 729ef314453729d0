// Package polymarket implements the Polymarket venue adapters: quote
// discovery over the Gamma API and order submission over the CLOB API.
package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/brennershearn-bot/Arb-Bot/internal/domain"
)

// VenueName identifies this venue in quotes and order requests.
const VenueName = "polymarket"

// GammaClient is the REST client for the Polymarket Gamma API, which provides
// market discovery and pricing. It implements domain.QuoteProvider.
type GammaClient struct {
	baseURL    string
	quoteLimit int
	httpClient *http.Client
}

// NewGammaClient creates a Gamma API client. baseURL is the API root, e.g.
// "https://gamma-api.polymarket.com".
func NewGammaClient(baseURL string, quoteLimit int) *GammaClient {
	if quoteLimit <= 0 {
		quoteLimit = 200
	}
	return &GammaClient{
		baseURL:    baseURL,
		quoteLimit: quoteLimit,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Venue implements domain.QuoteProvider.
func (g *GammaClient) Venue() string { return VenueName }

// FetchQuotes returns active binary markets as raw quotes. Markets without a
// decodable yes/no price pair are skipped here; price validation is the
// normalizer's job. Fetch failures wrap domain.ErrTransport.
func (g *GammaClient) FetchQuotes(ctx context.Context) ([]domain.RawQuote, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(g.quoteLimit))
	params.Set("active", "true")
	params.Set("closed", "false")

	body, err := g.doGet(ctx, "/markets?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("%w: polymarket/gamma: get markets: %v", domain.ErrTransport, err)
	}

	var apiMarkets []APIMarket
	if err := json.Unmarshal(body, &apiMarkets); err != nil {
		return nil, fmt.Errorf("%w: polymarket/gamma: decode markets: %v", domain.ErrTransport, err)
	}

	now := time.Now().UTC()
	quotes := make([]domain.RawQuote, 0, len(apiMarkets))
	for i := range apiMarkets {
		m := &apiMarkets[i]
		if m.Closed || !bool(m.Active) {
			continue
		}
		yes, no, ok := m.YesNoPrices()
		if !ok {
			continue
		}
		volume, _ := strconv.ParseFloat(m.Volume, 64)
		quotes = append(quotes, domain.RawQuote{
			Venue:      VenueName,
			MarketID:   m.ID,
			Title:      m.Question,
			YesPrice:   yes,
			NoPrice:    no,
			Volume:     volume,
			ObservedAt: now,
		})
	}
	return quotes, nil
}

// doGet performs a GET request against the Gamma API and returns the body.
func (g *GammaClient) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
