// Package domain contains payment reconciliation types.
package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	billing "github.com/smscentra/portal/internal/billing/domain"
	trxdomain "github.com/smscentra/portal/internal/transaction/domain"
)

// Purpose distinguishes the two payment flows. Top-up completion credits
// the profile balance; billing settlement never does.
type Purpose string

const (
	PurposeTopUp   Purpose = "TOPUP"
	PurposeBilling Purpose = "BILLING"
)

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidReference  = errors.New("missing payment reference")
	ErrNotFound          = errors.New("payment not found")
	ErrForbidden         = errors.New("not allowed to access this payment")
	ErrInconsistentState = errors.New("payment has no gateway transaction id")
)

// GatewayError wraps transport and non-2xx failures from the payment
// gateways. StatusCode is zero for transport errors.
type GatewayError struct {
	Gateway    string
	Op         string
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Gateway, e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// IsGatewayError reports whether err originates from a gateway call.
func IsGatewayError(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge)
}

// Actor identifies the caller for owner-or-admin checks.
type Actor struct {
	UserID snowflake.ID
	Admin  bool
}

func (a Actor) CanAccess(ownerID snowflake.ID) bool {
	return a.Admin || a.UserID == ownerID
}

// WebhookPayload is the notify body posted by the billing gateway.
type WebhookPayload struct {
	ReferenceID    string  `json:"reference_id"`
	StatusCode     *int    `json:"status_code,omitempty"`
	Status         string  `json:"status,omitempty"`
	ChannelTrxID   string  `json:"channel_trx_id,omitempty"`
	FailureCode    string  `json:"failure_code,omitempty"`
	FailureMessage string  `json:"failure_message,omitempty"`
	PaymentMethod  string  `json:"payment_method,omitempty"`
	ProviderRef    string  `json:"provider_ref,omitempty"`
	Amount         *int64  `json:"amount,omitempty"`
	Currency       string  `json:"currency,omitempty"`
	RawSignature   string  `json:"-"`
}

// CustomerInfo carries the payer fields forwarded to the billing gateway.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CreateResult is returned by both create flows.
type CreateResult struct {
	Transaction *trxdomain.Transaction `json:"transaction"`
	CheckoutURL string                 `json:"checkout_url,omitempty"`
}

type Service interface {
	CreateTopUp(ctx context.Context, clientID snowflake.ID, amount int64, description string) (*CreateResult, error)
	CreateBillingPayment(ctx context.Context, clientID snowflake.ID, period billing.Period, amount int64, customer CustomerInfo) (*CreateResult, error)
	ApplyWebhook(ctx context.Context, payload WebhookPayload) (*trxdomain.Transaction, error)
	MockStatus(ctx context.Context, referenceID string, actor Actor) (*trxdomain.Transaction, error)
	CheckStatus(ctx context.Context, query string, actor Actor) (*trxdomain.Transaction, error)
	BinLookup(ctx context.Context, cardDigits string) (map[string]any, error)
}
