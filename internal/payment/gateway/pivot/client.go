// Package pivot is the status-polling client for the Pivot payment API.
// Authentication is a short-lived bearer token fetched with the merchant
// credentials and cached until shortly before expiry.
package pivot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smscentra/portal/internal/cache"
	"github.com/smscentra/portal/internal/config"
	"github.com/smscentra/portal/internal/payment/domain"
)

const tokenCacheKey = "pivot_access_token"

// tokenExpiryMargin is subtracted from the advertised lifetime so a token
// is never used in its final seconds.
const tokenExpiryMargin = 30 * time.Second

type Client struct {
	baseURL        string
	merchantID     string
	merchantSecret string
	http           *http.Client
	tokens         cache.Cache[string, string]
}

func New(cfg config.Config, tokens cache.Cache[string, string]) *Client {
	return &Client{
		baseURL:        strings.TrimRight(cfg.Pivot.BaseURL, "/"),
		merchantID:     cfg.Pivot.MerchantID,
		merchantSecret: cfg.Pivot.MerchantSecret,
		http:           &http.Client{Timeout: 15 * time.Second},
		tokens:         tokens,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// StatusResponse is the channel-side view of a transaction.
type StatusResponse struct {
	TransactionID  string `json:"transaction_id"`
	Status         string `json:"status"`
	FailureCode    string `json:"failure_code,omitempty"`
	FailureMessage string `json:"failure_message,omitempty"`
}

func (c *Client) token(ctx context.Context) (string, error) {
	if tok, ok := c.tokens.Get(tokenCacheKey); ok {
		return tok, nil
	}

	body, err := json.Marshal(map[string]string{
		"merchant_id":     c.merchantID,
		"merchant_secret": c.merchantSecret,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/auth/token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &domain.GatewayError{Gateway: "pivot", Op: "token", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &domain.GatewayError{
			Gateway:    "pivot",
			Op:         "token",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))),
		}
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", &domain.GatewayError{Gateway: "pivot", Op: "token", Err: err}
	}
	if tok.AccessToken == "" {
		return "", &domain.GatewayError{Gateway: "pivot", Op: "token", Err: fmt.Errorf("empty access token")}
	}

	ttl := time.Duration(tok.ExpiresIn)*time.Second - tokenExpiryMargin
	if ttl > 0 {
		c.tokens.Set(tokenCacheKey, tok.AccessToken, ttl)
	}
	return tok.AccessToken, nil
}

// Status polls the channel for a transaction. A 401 drops the cached token
// so the next call re-authenticates.
func (c *Client) Status(ctx context.Context, channelTrxID string) (*StatusResponse, error) {
	tok, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/transactions/%s/status", c.baseURL, channelTrxID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.GatewayError{Gateway: "pivot", Op: "status", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.tokens.Delete(tokenCacheKey)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &domain.GatewayError{
			Gateway:    "pivot",
			Op:         "status",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))),
		}
	}

	var out StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &domain.GatewayError{Gateway: "pivot", Op: "status", Err: err}
	}
	return &out, nil
}
