package coupon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Config holds coupon service configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the external coupon validation service
type Client struct {
	httpClient *http.Client
	config     Config
}

// ValidateRequest carries a single coupon check
type ValidateRequest struct {
	Code     string `json:"code"`
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

// ValidateResponse is the coupon service verdict. Discount is in cents.
type ValidateResponse struct {
	Valid    bool   `json:"is_valid"`
	Discount int64  `json:"discount"`
	Reason   string `json:"message"`
}

// NewClient creates new coupon service client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		config:     cfg,
	}
}

// Validate checks a coupon against a category and base amount. Callers
// treat any error here as advisory: a dead coupon service must not block
// a full-price purchase.
func (c *Client) Validate(ctx context.Context, code, category string, amount int64) (*ValidateResponse, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("validation error: code must be non-empty")
	}
	if c == nil || c.httpClient == nil {
		return nil, fmt.Errorf("coupon client is not initialized")
	}
	if strings.TrimSpace(c.config.BaseURL) == "" {
		return nil, fmt.Errorf("coupon config error: base_url is empty")
	}

	jsonData, err := json.Marshal(ValidateRequest{Code: code, Category: category, Amount: amount})
	if err != nil {
		return nil, fmt.Errorf("failed to encode coupon request: %w", err)
	}

	base := strings.TrimRight(c.config.BaseURL, "/")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		base+"/api/coupons/validate", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to build coupon request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("coupon request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coupon service returned status %d", resp.StatusCode)
	}

	var out ValidateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode coupon response: %w", err)
	}
	return &out, nil
}
