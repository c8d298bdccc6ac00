package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	account "github.com/smscentra/portal/internal/account/domain"
	accountrepo "github.com/smscentra/portal/internal/account/repository"
	billing "github.com/smscentra/portal/internal/billing/domain"
	"github.com/smscentra/portal/internal/clock"
	"github.com/smscentra/portal/internal/payment/domain"
	"github.com/smscentra/portal/internal/payment/gateway/mock"
	"github.com/smscentra/portal/internal/payment/gateway/pivot"
	"github.com/smscentra/portal/internal/payment/gateway/redision"
	trxdomain "github.com/smscentra/portal/internal/transaction/domain"
	trxrepo "github.com/smscentra/portal/internal/transaction/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StatusPoller is the gateway surface used by CheckStatus.
type StatusPoller interface {
	Status(ctx context.Context, channelTrxID string) (*pivot.StatusResponse, error)
}

// Checkout is the gateway surface used to create billing payments.
type Checkout interface {
	CreateTransaction(ctx context.Context, req redision.CreateRequest) (*redision.CreateResponse, error)
	BinLookup(ctx context.Context, cardDigits string) (map[string]any, error)
}

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	TrxRepo  trxrepo.Repository
	Accounts account.Service
	AccRepo  accountrepo.Repository
	Mock     *mock.Gateway
	Poller   StatusPoller
	Checkout Checkout
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	trxRepo  trxrepo.Repository
	accounts account.Service
	accRepo  accountrepo.Repository
	mock     *mock.Gateway
	poller   StatusPoller
	checkout Checkout
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("payment.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		trxRepo:  p.TrxRepo,
		accounts: p.Accounts,
		accRepo:  p.AccRepo,
		mock:     p.Mock,
		poller:   p.Poller,
		checkout: p.Checkout,
	}
}

func (s *Service) CreateTopUp(ctx context.Context, clientID snowflake.ID, amount int64, description string) (*domain.CreateResult, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if _, err := s.accounts.GetClient(ctx, clientID); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	ref := fmt.Sprintf("TOPUP_%s", s.genID.Generate())
	if description == "" {
		description = "Balance top-up"
	}
	trx := &trxdomain.Transaction{
		ID:          s.genID.Generate(),
		UserID:      clientID,
		Amount:      amount,
		Type:        trxdomain.TypePayment,
		Status:      trxdomain.StatusPending,
		Description: description,
		ReferenceID: &ref,
		Metadata:    datatypes.JSONMap{"purpose": string(domain.PurposeTopUp)},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.trxRepo.Create(ctx, s.db, trx); err != nil {
		return nil, err
	}

	channelTrxID, checkoutURL, err := s.mock.CreatePayment(ctx, ref, amount)
	if err != nil {
		return nil, err
	}
	if err := s.trxRepo.UpdateFields(ctx, s.db, trx.ID, map[string]any{
		"channel_trx_id": channelTrxID,
		"updated_at":     s.clock.Now().UTC(),
	}); err != nil {
		return nil, err
	}
	trx.ChannelTrxID = &channelTrxID

	s.log.Info("top-up created",
		zap.String("reference_id", ref),
		zap.Int64("amount", amount),
	)
	return &domain.CreateResult{Transaction: trx, CheckoutURL: checkoutURL}, nil
}

func (s *Service) CreateBillingPayment(ctx context.Context, clientID snowflake.ID, period billing.Period, amount int64, customer domain.CustomerInfo) (*domain.CreateResult, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	client, err := s.accounts.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	ref := fmt.Sprintf("PAY_%s_%s", period.Ref(), s.genID.Generate())
	trx := &trxdomain.Transaction{
		ID:          s.genID.Generate(),
		UserID:      clientID,
		Amount:      amount,
		Type:        trxdomain.TypePayment,
		Status:      trxdomain.StatusPending,
		Description: fmt.Sprintf("SMS billing %s", period.Label()),
		ReferenceID: &ref,
		Metadata: datatypes.JSONMap{
			"purpose": string(domain.PurposeBilling),
			"period":  period.Ref(),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.trxRepo.Create(ctx, s.db, trx); err != nil {
		return nil, err
	}

	name := customer.Name
	if name == "" {
		name = client.Name
	}
	email := customer.Email
	if email == "" {
		email = client.Email
	}
	resp, err := s.checkout.CreateTransaction(ctx, redision.CreateRequest{
		ReferenceID:   ref,
		Amount:        amount,
		Currency:      account.CurrencyIDR,
		Description:   trx.Description,
		CustomerName:  name,
		CustomerEmail: email,
		CustomerPhone: customer.Phone,
	})
	if err != nil {
		var ge *domain.GatewayError
		if errors.As(err, &ge) && ge.StatusCode != 0 {
			// Channel rejected the request; fail the transaction and
			// keep the channel message for the client.
			_ = s.trxRepo.UpdateFields(ctx, s.db, trx.ID, map[string]any{
				"status":          trxdomain.StatusFailed,
				"failure_message": ge.Err.Error(),
				"updated_at":      s.clock.Now().UTC(),
			})
		}
		return nil, err
	}

	if err := s.trxRepo.UpdateFields(ctx, s.db, trx.ID, map[string]any{
		"channel_trx_id": resp.TransactionID,
		"updated_at":     s.clock.Now().UTC(),
	}); err != nil {
		return nil, err
	}
	trx.ChannelTrxID = &resp.TransactionID

	s.log.Info("billing payment created",
		zap.String("reference_id", ref),
		zap.String("channel_trx_id", resp.TransactionID),
		zap.Int64("amount", amount),
	)
	return &domain.CreateResult{Transaction: trx, CheckoutURL: resp.CheckoutURL}, nil
}

// ApplyWebhook maps the gateway notification onto the transaction. Numeric
// status codes win over the textual status. Terminal transactions are never
// changed; a replayed or conflicting notify is a no-op.
func (s *Service) ApplyWebhook(ctx context.Context, payload domain.WebhookPayload) (*trxdomain.Transaction, error) {
	ref := strings.TrimSpace(payload.ReferenceID)
	if ref == "" {
		return nil, domain.ErrInvalidReference
	}
	trx, err := s.trxRepo.FindByReferenceID(ctx, s.db, ref)
	if err != nil {
		if errors.Is(err, trxdomain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	next := trx.Status
	if payload.StatusCode != nil {
		switch *payload.StatusCode {
		case 1000:
			next = trxdomain.StatusCompleted
		case 1005:
			next = trxdomain.StatusFailed
		case 1001:
			next = trxdomain.StatusPending
		}
	} else {
		switch strings.ToUpper(strings.TrimSpace(payload.Status)) {
		case "SUCCESS", "PAID", "COMPLETED":
			next = trxdomain.StatusCompleted
		case "FAILED":
			next = trxdomain.StatusFailed
		default:
			next = trxdomain.StatusPending
		}
	}

	fields := map[string]any{}
	if payload.ChannelTrxID != "" {
		fields["channel_trx_id"] = payload.ChannelTrxID
	}
	if payload.FailureCode != "" {
		fields["failure_code"] = payload.FailureCode
	}
	if payload.FailureMessage != "" {
		fields["failure_message"] = payload.FailureMessage
	}
	if crumb := breadcrumb(payload); crumb != "" {
		fields["description"] = trx.Description + crumb
	}

	return s.transition(ctx, trx, next, fields)
}

func (s *Service) MockStatus(ctx context.Context, referenceID string, actor domain.Actor) (*trxdomain.Transaction, error) {
	trx, err := s.trxRepo.FindByReferenceID(ctx, s.db, strings.TrimSpace(referenceID))
	if err != nil {
		if errors.Is(err, trxdomain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !actor.CanAccess(trx.UserID) {
		return nil, domain.ErrForbidden
	}
	if trx.ChannelTrxID == nil || *trx.ChannelTrxID == "" {
		return nil, domain.ErrInconsistentState
	}
	if trxdomain.Terminal(trx.Status) {
		return trx, nil
	}

	status, err := s.mock.Status(ctx, *trx.ChannelTrxID)
	if err != nil {
		return nil, err
	}

	next := trx.Status
	switch status {
	case mock.StatusCompleted:
		next = trxdomain.StatusCompleted
	case mock.StatusFailed:
		next = trxdomain.StatusFailed
	}
	return s.transition(ctx, trx, next, nil)
}

func (s *Service) CheckStatus(ctx context.Context, query string, actor domain.Actor) (*trxdomain.Transaction, error) {
	trx, err := s.find(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(trx.UserID) {
		return nil, domain.ErrForbidden
	}
	if trx.ChannelTrxID == nil || *trx.ChannelTrxID == "" {
		return nil, domain.ErrInconsistentState
	}
	if trxdomain.Terminal(trx.Status) {
		return trx, nil
	}

	resp, err := s.poller.Status(ctx, *trx.ChannelTrxID)
	if err != nil {
		// Gateway trouble never moves the transaction.
		return nil, err
	}

	next := trx.Status
	fields := map[string]any{}
	switch strings.ToUpper(strings.TrimSpace(resp.Status)) {
	case "COMPLETED", "SUCCESS", "PAID":
		next = trxdomain.StatusCompleted
	case "FAILED", "CANCELLED", "EXPIRED":
		next = trxdomain.StatusFailed
		if resp.FailureCode != "" {
			fields["failure_code"] = resp.FailureCode
		}
		if resp.FailureMessage != "" {
			fields["failure_message"] = resp.FailureMessage
		}
	}
	return s.transition(ctx, trx, next, fields)
}

func (s *Service) BinLookup(ctx context.Context, cardDigits string) (map[string]any, error) {
	digits := strings.TrimSpace(cardDigits)
	if len(digits) != 6 && len(digits) != 4 {
		return nil, fmt.Errorf("%w: bin lookup needs 4 or 6 digits", domain.ErrInvalidReference)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("%w: bin lookup needs digits only", domain.ErrInvalidReference)
		}
	}
	return s.checkout.BinLookup(ctx, digits)
}

func (s *Service) find(ctx context.Context, query string) (*trxdomain.Transaction, error) {
	if query == "" {
		return nil, domain.ErrInvalidReference
	}
	if id, err := snowflake.ParseString(query); err == nil {
		if trx, err := s.trxRepo.FindByID(ctx, s.db, id); err == nil {
			return trx, nil
		}
	}
	trx, err := s.trxRepo.FindByChannelTrxID(ctx, s.db, query)
	if err != nil {
		if errors.Is(err, trxdomain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return trx, nil
}

// transition moves a transaction to next under the terminal-state guard.
// The status row update is conditioned on the previously observed status so
// a concurrent webhook and poll cannot both win; the top-up balance credit
// rides in the same DB transaction and therefore applies exactly once.
func (s *Service) transition(ctx context.Context, trx *trxdomain.Transaction, next string, fields map[string]any) (*trxdomain.Transaction, error) {
	if trxdomain.Terminal(trx.Status) || next == "" {
		return trx, nil
	}
	if next == trx.Status && len(fields) == 0 {
		return trx, nil
	}

	if fields == nil {
		fields = map[string]any{}
	}
	fields["status"] = next
	fields["updated_at"] = s.clock.Now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&trxdomain.Transaction{}).
			Where("id = ? AND status = ?", trx.ID, trx.Status).
			Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race; someone else already moved it.
			return nil
		}
		if next == trxdomain.StatusCompleted && s.purpose(trx) == domain.PurposeTopUp {
			return s.accRepo.IncrementBalance(ctx, tx, trx.UserID, trx.Amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.trxRepo.FindByID(ctx, s.db, trx.ID)
	if err != nil {
		return nil, err
	}
	if updated.Status != trx.Status {
		s.log.Info("payment status changed",
			zap.String("reference_id", deref(updated.ReferenceID)),
			zap.String("from", trx.Status),
			zap.String("to", updated.Status),
		)
	}
	return updated, nil
}

func (s *Service) purpose(trx *trxdomain.Transaction) domain.Purpose {
	if trx.Metadata != nil {
		if p, ok := trx.Metadata["purpose"].(string); ok && p != "" {
			return domain.Purpose(p)
		}
	}
	if trx.ReferenceID != nil && strings.HasPrefix(*trx.ReferenceID, "TOPUP_") {
		return domain.PurposeTopUp
	}
	return domain.PurposeBilling
}

func breadcrumb(payload domain.WebhookPayload) string {
	var parts []string
	if payload.PaymentMethod != "" {
		parts = append(parts, "method="+payload.PaymentMethod)
	}
	if payload.ProviderRef != "" {
		parts = append(parts, "provider_ref="+payload.ProviderRef)
	}
	if payload.Amount != nil {
		parts = append(parts, fmt.Sprintf("amount=%d", *payload.Amount))
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, " ") + "]"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
