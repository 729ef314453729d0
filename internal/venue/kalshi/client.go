// Package kalshi implements the Kalshi venue adapters: a quote provider over
// the public markets endpoint and an order provider over the signed portfolio
// endpoint.
package kalshi

import (
	"bytes"
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brennershearn-bot/Arb-Bot/internal/domain"
)

// VenueName identifies this venue in quotes and order requests.
const VenueName = "kalshi"

var cents = decimal.NewFromInt(100)

// Client is the REST client for the Kalshi exchange API. It implements both
// domain.QuoteProvider and domain.OrderProvider.
type Client struct {
	baseURL    string
	apiKeyID   string
	privateKey *rsa.PrivateKey
	quoteLimit int
	httpClient *http.Client
}

// NewClient creates a Kalshi client. baseURL is the API root, e.g.
// "https://api.elections.kalshi.com/trade-api/v2". quoteLimit bounds the
// markets page size per poll.
func NewClient(baseURL, apiKeyID string, quoteLimit int) *Client {
	if quoteLimit <= 0 {
		quoteLimit = 200
	}
	return &Client{
		baseURL:    baseURL,
		apiKeyID:   apiKeyID,
		quoteLimit: quoteLimit,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetRSAPrivateKey loads a PEM-encoded RSA private key used to sign order
// requests. Quote fetching works without it.
func (c *Client) SetRSAPrivateKey(pemBytes []byte) error {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return fmt.Errorf("kalshi: no PEM block found in private key")
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		pkcs1Key, pkcs1Err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if pkcs1Err != nil {
			return fmt.Errorf("kalshi: parse private key: %w (pkcs1: %v)", err, pkcs1Err)
		}
		c.privateKey = pkcs1Key
		return nil
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return fmt.Errorf("kalshi: expected RSA private key, got %T", key)
	}
	c.privateKey = rsaKey
	return nil
}

// Venue implements domain.QuoteProvider and domain.OrderProvider.
func (c *Client) Venue() string { return VenueName }

// FetchQuotes returns the current open markets as raw quotes. Prices arrive
// in cents and are rescaled to probabilities here; validation is left to the
// normalizer. Fetch failures wrap domain.ErrTransport.
func (c *Client) FetchQuotes(ctx context.Context) ([]domain.RawQuote, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(c.quoteLimit))
	params.Set("status", "open")

	body, err := c.doRequest(ctx, http.MethodGet, "/markets?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: kalshi: get markets: %v", domain.ErrTransport, err)
	}

	var resp struct {
		Markets []Market `json:"markets"`
		Cursor  string   `json:"cursor"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: kalshi: decode markets: %v", domain.ErrTransport, err)
	}

	now := time.Now().UTC()
	quotes := make([]domain.RawQuote, 0, len(resp.Markets))
	for _, m := range resp.Markets {
		quotes = append(quotes, domain.RawQuote{
			Venue:      VenueName,
			MarketID:   m.Ticker,
			Title:      m.Title,
			YesPrice:   decimal.NewFromFloat(m.YesAsk).Div(cents).String(),
			NoPrice:    decimal.NewFromFloat(m.NoAsk).Div(cents).String(),
			Volume:     float64(m.Volume24H),
			ObservedAt: now,
		})
	}
	return quotes, nil
}

// SubmitOrder places a limit buy on the requested side. The dollar quantity
// is converted to a contract count at the limit price; fills are reported
// back in the same dollar terms so the coordinator's fill-rate check is
// unit-consistent.
func (c *Client) SubmitOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error) {
	priceCents := req.LimitPrice.Mul(cents).Round(0).IntPart()
	if priceCents < 1 || priceCents > 99 {
		return domain.OrderResult{
			Status: domain.OrderRejected,
			Reason: fmt.Sprintf("limit price %s outside the 1-99 cent band", req.LimitPrice),
		}, nil
	}

	count := req.Quantity.Div(req.LimitPrice).Round(0).IntPart()
	if count < 1 {
		return domain.OrderResult{
			Status: domain.OrderRejected,
			Reason: "quantity too small for one contract",
		}, nil
	}

	order := Order{
		Ticker: req.MarketID,
		Action: "buy",
		Side:   string(req.Side),
		Type:   "limit",
		Count:  count,
	}
	if req.Side == domain.OrderSideYes {
		order.YesPrice = &priceCents
	} else {
		order.NoPrice = &priceCents
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/portfolio/orders", order)
	if err != nil {
		return domain.OrderResult{}, fmt.Errorf("kalshi: place order: %w", err)
	}

	var resp OrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.OrderResult{}, fmt.Errorf("kalshi: decode order response: %w", err)
	}

	filledContracts := decimal.NewFromInt(resp.Order.TakerFillCount)
	filledDollars := filledContracts.Mul(req.LimitPrice)
	avgPrice := decimal.Zero
	if resp.Order.TakerFillCount > 0 {
		avgPrice = decimal.NewFromInt(resp.Order.TakerFillCost).Div(cents).Div(filledContracts)
	}

	result := domain.OrderResult{
		OrderID:   resp.Order.OrderID,
		FilledQty: domain.Quantize(filledDollars),
		AvgPrice:  domain.Quantize(avgPrice),
	}
	switch resp.Order.Status {
	case "executed":
		result.Status = domain.OrderFilled
	case "canceled":
		result.Status = domain.OrderRejected
		result.Reason = "order cancelled by exchange"
	default: // "resting", "pending"
		if resp.Order.TakerFillCount > 0 {
			result.Status = domain.OrderPartialFilled
		} else {
			result.Status = domain.OrderRejected
			result.Reason = "order did not cross (" + resp.Order.Status + ")"
		}
	}
	return result, nil
}

// doRequest builds, optionally signs, sends, and reads an HTTP request
// against the Kalshi API. Requests are signed whenever an RSA key is
// configured; the public market endpoints work unsigned.
func (c *Client) doRequest(ctx context.Context, method, path string, reqBody any) ([]byte, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonBody, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if c.privateKey != nil {
		if err := c.signRequest(req, method, path); err != nil {
			return nil, fmt.Errorf("sign request: %w", err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr ErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("status %d: %s: %s", resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

// signRequest adds the RSA-PSS-SHA256 authentication headers. Kalshi signs
// the concatenation timestamp + method + path.
func (c *Client) signRequest(req *http.Request, method, path string) error {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)

	hash := sha256.Sum256([]byte(ts + method + path))
	signature, err := rsa.SignPSS(rand.Reader, c.privateKey, crypto.SHA256, hash[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
	})
	if err != nil {
		return fmt.Errorf("RSA sign: %w", err)
	}

	req.Header.Set("KALSHI-ACCESS-KEY", c.apiKeyID)
	req.Header.Set("KALSHI-ACCESS-SIGNATURE", base64.StdEncoding.EncodeToString(signature))
	req.Header.Set("KALSHI-ACCESS-TIMESTAMP", ts)
	return nil
}
