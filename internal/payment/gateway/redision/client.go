// Package redision is the client for the Redision checkout gateway used to
// settle monthly bills. Requests are authenticated with app headers plus an
// HMAC-SHA256 signature over the exact request body.
package redision

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
	"net/url"
	"strings"
	"time"

	"github.com/smscentra/portal/internal/config"
	"github.com/smscentra/portal/internal/payment/domain"
)

type Client struct {
	baseURL     string
	appKey      string
	appID       string
	appSecret   string
	notifyURL   string
	redirectURL string
	http        *http.Client
}

func New(cfg config.Config) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.Redision.BaseURL, "/"),
		appKey:      cfg.Redision.AppKey,
		appID:       cfg.Redision.AppID,
		appSecret:   cfg.Redision.AppSecret,
		notifyURL:   cfg.Redision.NotifyURL,
		redirectURL: cfg.Redision.RedirectURL,
		http:        &http.Client{Timeout: 20 * time.Second},
	}
}

// Sign computes the url-safe base64 HMAC-SHA256 of the raw body. The
// channel compares it byte for byte, so the body must be signed exactly as
// sent.
func (c *Client) Sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(c.appSecret))
	mac.Write(body)
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	sig = strings.ReplaceAll(sig, "+", "-")
	return strings.ReplaceAll(sig, "/", "_")
}

type CreateRequest struct {
	ReferenceID   string `json:"reference_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Description   string `json:"description"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	NotifyURL     string `json:"notify_url"`
	RedirectURL   string `json:"redirect_url"`
}

type CreateResponse struct {
	TransactionID string `json:"transaction_id"`
	CheckoutURL   string `json:"checkout_url"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

func (c *Client) CreateTransaction(ctx context.Context, req CreateRequest) (*CreateResponse, error) {
	req.NotifyURL = c.notifyURL
	req.RedirectURL = c.redirectURL

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("appkey", c.appKey)
	httpReq.Header.Set("appid", c.appID)
	httpReq.Header.Set("signature", c.Sign(body))

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &domain.GatewayError{Gateway: "redision", Op: "create", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return nil, &domain.GatewayError{Gateway: "redision", Op: "create", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := gatewayMessage(raw)
		return nil, &domain.GatewayError{
			Gateway:    "redision",
			Op:         "create",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("status %d: %s", resp.StatusCode, msg),
		}
	}

	var out CreateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &domain.GatewayError{Gateway: "redision", Op: "create", Err: err}
	}
	return &out, nil
}

// BinLookup resolves issuer metadata for the leading card digits. The
// response is passed through untouched.
func (c *Client) BinLookup(ctx context.Context, cardDigits string) (map[string]any, error) {
	u := fmt.Sprintf("%s/v2/bin/%s", c.baseURL, url.PathEscape(cardDigits))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("appkey", c.appKey)
	req.Header.Set("appid", c.appID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.GatewayError{Gateway: "redision", Op: "bin", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &domain.GatewayError{
			Gateway:    "redision",
			Op:         "bin",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("status %d: %s", resp.StatusCode, gatewayMessage(raw)),
		}
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &domain.GatewayError{Gateway: "redision", Op: "bin", Err: err}
	}
	return out, nil
}

func gatewayMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return strings.TrimSpace(string(raw))
}
