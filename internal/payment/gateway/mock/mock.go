// Package mock is an in-memory stand-in for the top-up payment channel.
// It backs local development and tests; no network calls ever leave it.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/smscentra/portal/internal/payment/domain"
)

const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

type payment struct {
	ReferenceID  string
	ChannelTrxID string
	Amount       int64
	Status       string
}

type Gateway struct {
	mu      sync.Mutex
	byRef   map[string]*payment
	byTrxID map[string]*payment
}

func New() *Gateway {
	return &Gateway{
		byRef:   make(map[string]*payment),
		byTrxID: make(map[string]*payment),
	}
}

// CreatePayment registers a pending payment and returns its channel ids.
func (g *Gateway) CreatePayment(ctx context.Context, referenceID string, amount int64) (channelTrxID, checkoutURL string, err error) {
	if referenceID == "" {
		return "", "", &domain.GatewayError{Gateway: "mock", Op: "create", Err: domain.ErrInvalidReference}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.byRef[referenceID]; ok {
		return existing.ChannelTrxID, checkoutURLFor(existing.ChannelTrxID), nil
	}

	p := &payment{
		ReferenceID:  referenceID,
		ChannelTrxID: "mock_" + uuid.NewString(),
		Amount:       amount,
		Status:       StatusPending,
	}
	g.byRef[referenceID] = p
	g.byTrxID[p.ChannelTrxID] = p
	return p.ChannelTrxID, checkoutURLFor(p.ChannelTrxID), nil
}

// Status returns the channel-side status for a payment.
func (g *Gateway) Status(ctx context.Context, channelTrxID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.byTrxID[channelTrxID]
	if !ok {
		return "", &domain.GatewayError{Gateway: "mock", Op: "status", Err: domain.ErrNotFound}
	}
	return p.Status, nil
}

// SetStatus flips a payment's channel status. Used by tests and the local
// development console.
func (g *Gateway) SetStatus(channelTrxID, status string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.byTrxID[channelTrxID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	return nil
}

func checkoutURLFor(channelTrxID string) string {
	return fmt.Sprintf("https://pay.mock.local/checkout/%s", channelTrxID)
}
