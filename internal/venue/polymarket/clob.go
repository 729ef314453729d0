package polymarket

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brennershearn-bot/Arb-Bot/internal/domain"
)

// HMACAuth holds the credentials for HMAC-authenticated requests against the
// CLOB API. The secret is base64-encoded.
type HMACAuth struct {
	Key        string
	Secret     string
	Passphrase string
}

// headers builds the POLY_* authentication headers over the concatenation
// timestamp + method + path + body.
func (h HMACAuth) headers(method, path, body string) map[string]string {
	ts := strconv.FormatInt(time.Now().Unix(), 10)

	secretBytes, err := base64.StdEncoding.DecodeString(h.Secret)
	if err != nil {
		// Fall back to raw bytes so the caller gets an obviously-wrong
		// signature rather than a panic.
		secretBytes = []byte(h.Secret)
	}

	mac := hmac.New(sha256.New, secretBytes)
	mac.Write([]byte(ts + method + path + body))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return map[string]string{
		"POLY_API_KEY":    h.Key,
		"POLY_TIMESTAMP":  ts,
		"POLY_PASSPHRASE": h.Passphrase,
		"POLY_SIGNATURE":  sig,
	}
}

// ClobClient is the REST client for the Polymarket CLOB (central limit order
// book) API. It implements domain.OrderProvider. Order payloads are submitted
// pre-signed by the exchange-side credential holder; on-chain signing is not
// this process's concern.
type ClobClient struct {
	baseURL    string
	auth       HMACAuth
	httpClient *http.Client
}

// NewClobClient creates a CLOB client. baseURL is the API root, e.g.
// "https://clob.polymarket.com".
func NewClobClient(baseURL string, auth HMACAuth) *ClobClient {
	return &ClobClient{
		baseURL:    baseURL,
		auth:       auth,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Venue implements domain.OrderProvider.
func (c *ClobClient) Venue() string { return VenueName }

// SubmitOrder posts a fill-and-kill buy for the requested outcome. The fill
// is reported in the request's dollar terms so the coordinator's fill-rate
// check is unit-consistent across venues.
func (c *ClobClient) SubmitOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error) {
	payload := map[string]any{
		"market":    req.MarketID,
		"outcome":   string(req.Side),
		"side":      "BUY",
		"price":     req.LimitPrice.String(),
		"size":      req.Quantity.String(),
		"orderType": "FAK",
	}

	respBody, err := c.doAuthenticatedRequest(ctx, http.MethodPost, "/order", payload)
	if err != nil {
		return domain.OrderResult{}, fmt.Errorf("polymarket/clob: post order: %w", err)
	}

	var apiResult APIOrderResult
	if err := json.Unmarshal(respBody, &apiResult); err != nil {
		return domain.OrderResult{}, fmt.Errorf("polymarket/clob: decode order result: %w", err)
	}

	if !apiResult.Success {
		return domain.OrderResult{
			Status:  domain.OrderRejected,
			OrderID: apiResult.OrderID,
			Reason:  apiResult.ErrorMsg,
		}, nil
	}

	filled := decimal.Zero
	if apiResult.MakingAmount != "" {
		if f, err := decimal.NewFromString(apiResult.MakingAmount); err == nil {
			filled = f
		}
	}

	result := domain.OrderResult{
		OrderID:   apiResult.OrderID,
		FilledQty: domain.Quantize(filled),
		AvgPrice:  req.LimitPrice,
	}
	switch apiResult.Status {
	case "matched":
		result.Status = domain.OrderFilled
		if filled.IsZero() {
			// Some responses omit the fill amounts on a full match.
			result.FilledQty = req.Quantity
		}
	case "live", "delayed":
		if filled.IsPositive() {
			result.Status = domain.OrderPartialFilled
		} else {
			result.Status = domain.OrderRejected
			result.Reason = "order did not cross (" + apiResult.Status + ")"
		}
	default:
		result.Status = domain.OrderRejected
		result.Reason = "unmatched (" + apiResult.Status + ")"
	}
	return result, nil
}

// doAuthenticatedRequest builds, authenticates, sends, and reads a request
// against the CLOB API.
func (c *ClobClient) doAuthenticatedRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	var bodyReader io.Reader
	var bodyStr string
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyStr = string(jsonBody)
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.auth.headers(method, path, bodyStr) {
		req.Header.Set(k, v)
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
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
