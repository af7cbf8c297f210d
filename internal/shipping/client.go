// ABOUTME: Courier API client with bearer token caching
// ABOUTME: Tokens are opaque; only a short non-secret prefix is ever logged

package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// ErrUpstream is returned when the courier API call fails
var ErrUpstream = errors.New("courier request failed")

// defaultTokenTTL is used when the provider response carries no expiry
// and no TTL was configured.
const defaultTokenTTL = 50 * time.Minute

// Client talks to the courier provider's REST API. A bearer token is
// fetched lazily, cached until shortly before expiry, and refreshed under
// a mutex so concurrent requests trigger at most one token fetch.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	tokenTTL     time.Duration
	httpClient   *http.Client
	logger       *slog.Logger

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a courier client. tokenTTL bounds how long a fetched
// token is reused; zero means the default.
func NewClient(baseURL, clientID, clientSecret string, tokenTTL time.Duration, opts ...Option) *Client {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	c := &Client{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenTTL:     tokenTTL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       slog.Default().With("component", "shipping"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rate is one courier service quote.
type Rate struct {
	Courier  string `json:"courier"`
	Service  string `json:"service"`
	FeeCents int64  `json:"fee_cents"`
	ETADays  int    `json:"eta_days"`
}

// RateRequest asks for quotes between two postcodes.
type RateRequest struct {
	OriginPostcode string `json:"origin_postcode"`
	DestPostcode   string `json:"dest_postcode"`
	WeightGrams    int    `json:"weight_grams"`
}

// CreateShipmentRequest books a shipment with a chosen courier service.
type CreateShipmentRequest struct {
	OrderID      string `json:"order_id"`
	Courier      string `json:"courier"`
	Service      string `json:"service"`
	DestName     string `json:"dest_name"`
	DestPhone    string `json:"dest_phone"`
	DestAddress  string `json:"dest_address"`
	DestPostcode string `json:"dest_postcode"`
	WeightGrams  int    `json:"weight_grams"`
}

// CreateShipmentResponse is the provider's booking confirmation.
type CreateShipmentResponse struct {
	WaybillID string `json:"waybill_id"`
	FeeCents  int64  `json:"fee_cents"`
	Status    string `json:"status"`
}

// TrackingEvent is one waybill scan event.
type TrackingEvent struct {
	Status    string    `json:"status"`
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
}

// Rates returns courier quotes for the given route and weight.
func (c *Client) Rates(ctx context.Context, req *RateRequest) ([]Rate, error) {
	var out struct {
		Rates []Rate `json:"rates"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/rates", req, &out); err != nil {
		return nil, err
	}
	return out.Rates, nil
}

// CreateShipment books a shipment and returns the waybill.
func (c *Client) CreateShipment(ctx context.Context, req *CreateShipmentRequest) (*CreateShipmentResponse, error) {
	var out CreateShipmentResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/shipments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Track returns the scan history for a waybill.
func (c *Client) Track(ctx context.Context, waybillID string) ([]TrackingEvent, error) {
	var out struct {
		Events []TrackingEvent `json:"events"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/trackings/"+waybillID, nil, &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

// bearerToken returns a valid cached token, fetching a new one if needed.
func (c *Client) bearerToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp) {
		return c.token, nil
	}

	body, err := json.Marshal(map[string]string{
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"grant_type":    "client_credentials",
	})
	if err != nil {
		return "", fmt.Errorf("marshaling token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth/token", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token endpoint returned %d", ErrUpstream, resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("%w: decoding token response: %v", ErrUpstream, err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrUpstream)
	}

	ttl := c.tokenTTL
	if tokenResp.ExpiresIn > 0 {
		// Refresh a minute early to avoid using a token at the edge of expiry
		ttl = time.Duration(tokenResp.ExpiresIn)*time.Second - time.Minute
		if ttl <= 0 {
			ttl = time.Duration(tokenResp.ExpiresIn) * time.Second
		}
	}

	c.token = tokenResp.AccessToken
	c.tokenExp = time.Now().Add(ttl)
	c.logger.Info("courier token refreshed", "token_prefix", tokenPrefix(c.token), "expires_in", ttl)

	return c.token, nil
}

// invalidateToken drops the cached token after an auth failure.
func (c *Client) invalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.tokenExp = time.Time{}
}

// doJSON performs an authenticated JSON round trip against the provider.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Token may have been revoked upstream; next call fetches a fresh one
		c.invalidateToken()
		return fmt.Errorf("%w: provider rejected token (prefix %s)", ErrUpstream, tokenPrefix(token))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s returned %d", ErrUpstream, method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
		}
	}
	return nil
}

// tokenPrefix returns a short non-secret prefix for diagnostics.
// The full token must never appear in logs or error messages.
func tokenPrefix(token string) string {
	if len(token) > 8 {
		return token[:8]
	}
	if len(token) > 4 {
		return token[:4] + "..."
	}
	return "..."
}
