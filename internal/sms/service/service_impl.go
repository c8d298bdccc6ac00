package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	account "github.com/smscentra/portal/internal/account/domain"
	"github.com/smscentra/portal/internal/apportion"
	billing "github.com/smscentra/portal/internal/billing/domain"
	"github.com/smscentra/portal/internal/clock"
	"github.com/smscentra/portal/internal/config"
	"github.com/smscentra/portal/internal/sms/domain"
	"github.com/smscentra/portal/internal/sms/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// messageTemplates are the canned Indonesian bodies used for generated
// delivery logs. The timestamp suffix keeps bodies unique-ish per record.
var messageTemplates = []string{
	"Kode OTP Anda adalah %04d. Jangan berikan kode ini kepada siapapun.",
	"Terima kasih telah berbelanja. Pesanan #%04d sedang diproses.",
	"Saldo Anda berhasil ditambahkan. Ref: %04d.",
	"Pembayaran tagihan Anda telah kami terima. No: %04d.",
	"Promo spesial hari ini! Gunakan kode %04d untuk diskon 20%%.",
	"Pengingat: jadwal pembayaran Anda jatuh tempo besok. Ref %04d.",
	"Verifikasi akun Anda dengan kode %04d.",
	"Paket Anda sedang dalam pengiriman. Resi %04d.",
	"Selamat! Anda mendapatkan cashback. Kode %04d.",
	"Layanan akan mengalami pemeliharaan malam ini. Info %04d.",
}

type Params struct {
	fx.In

	Cfg      config.Config
	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Rand     *rand.Rand
	Repo     repository.Repository
	Accounts account.Service
}

type Service struct {
	cfg      config.Config
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     repository.Repository
	accounts account.Service

	mu  sync.Mutex
	rnd *rand.Rand
}

func New(p Params) domain.Service {
	return &Service{
		cfg:      p.Cfg,
		db:       p.DB,
		log:      p.Log.Named("sms.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		accounts: p.Accounts,
		rnd:      p.Rand,
	}
}

func (s *Service) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateSummary, error) {
	if req.Count <= 0 {
		return nil, domain.ErrInvalidCount
	}
	unitPrice := req.UnitPrice
	if unitPrice == 0 {
		unitPrice = s.cfg.Billing.DefaultUnitPrice
	}
	if unitPrice <= 0 {
		return nil, domain.ErrInvalidUnitPrice
	}
	if req.StartOffsetMinutes >= req.EndOffsetMinutes {
		return nil, domain.ErrInvalidWindow
	}

	if _, err := s.accounts.GetClient(ctx, req.ClientID); err != nil {
		return nil, err
	}

	statuses, err := s.outcomeStatuses(req)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	windowStart := now.Add(time.Duration(req.StartOffsetMinutes) * time.Minute)
	windowEnd := now.Add(time.Duration(req.EndOffsetMinutes) * time.Minute)
	span := windowEnd.Sub(windowStart)

	summary := &domain.GenerateSummary{
		Requested: req.Count,
		UnitPrice: unitPrice,
	}

	records := make([]domain.Record, req.Count)
	s.mu.Lock()
	for i := range records {
		sentAt := windowStart.Add(time.Duration(s.rnd.Int63n(int64(span))))
		status := statuses[i]

		cost := unitPrice
		switch status {
		case domain.StatusFailed:
			cost = 0
			summary.Failed++
		case domain.StatusDelivered:
			summary.Delivered++
			summary.Sent++
		default:
			summary.Sent++
		}

		template := messageTemplates[s.rnd.Intn(len(messageTemplates))]
		// Period queries key on created_at, so it carries the in-window
		// timestamp rather than the request time.
		records[i] = domain.Record{
			ID:          s.genID.Generate(),
			UserID:      req.ClientID,
			PhoneNumber: s.randomPhone(),
			Message:     fmt.Sprintf(template, s.rnd.Intn(10000)) + " [" + sentAt.Format("02/01 15:04") + "]",
			Status:      status,
			Cost:        cost,
			SentAt:      &sentAt,
			CreatedAt:   sentAt,
		}
	}
	s.mu.Unlock()

	if err := s.repo.InsertBatch(ctx, s.db, records); err != nil {
		return nil, err
	}

	summary.TotalCost = int64(summary.Sent) * unitPrice
	s.log.Info("generated sms records",
		zap.String("client_id", req.ClientID.String()),
		zap.Int("requested", summary.Requested),
		zap.Int("failed", summary.Failed),
		zap.Int64("total_cost", summary.TotalCost),
	)
	return summary, nil
}

// outcomeStatuses returns one status per record, already in record order.
// Failure positions are drawn without replacement.
func (s *Service) outcomeStatuses(req domain.GenerateRequest) ([]string, error) {
	n := req.Count
	statuses := make([]string, n)

	if req.Percentages != nil {
		p := req.Percentages
		for _, pct := range []float64{p.Delivered, p.Undelivered, p.Failed} {
			if pct < 0 || pct > 100 {
				return nil, domain.ErrInvalidPercentage
			}
		}
		// An all-zero split carries no outcome information. Treat it like
		// failedPercentage 0: every record ends up SENT.
		if p.Delivered == 0 && p.Undelivered == 0 && p.Failed == 0 {
			for i := range statuses {
				statuses[i] = domain.StatusSent
			}
			return statuses, nil
		}
		counts, err := apportion.Counts(n, []apportion.Weight{
			{Label: domain.StatusDelivered, Percent: p.Delivered},
			{Label: domain.StatusSent, Percent: p.Undelivered},
			{Label: domain.StatusFailed, Percent: p.Failed},
		})
		if err != nil {
			return nil, err
		}
		i := 0
		for _, c := range counts {
			for k := 0; k < c.Count; k++ {
				statuses[i] = c.Label
				i++
			}
		}
		s.mu.Lock()
		s.rnd.Shuffle(n, func(a, b int) {
			statuses[a], statuses[b] = statuses[b], statuses[a]
		})
		s.mu.Unlock()
		return statuses, nil
	}

	pct := req.FailedPercentage
	if pct < 0 || pct > 100 {
		return nil, domain.ErrInvalidPercentage
	}
	failed := int(math.Round(pct / 100 * float64(n)))
	if failed > n {
		failed = n
	}
	for i := range statuses {
		statuses[i] = domain.StatusSent
	}
	s.mu.Lock()
	for _, i := range s.rnd.Perm(n)[:failed] {
		statuses[i] = domain.StatusFailed
	}
	s.mu.Unlock()
	return statuses, nil
}

func (s *Service) randomPhone() string {
	// +628 followed by nine digits, matching Indonesian mobile numbers.
	return fmt.Sprintf("+628%09d", s.rnd.Int63n(1_000_000_000))
}

func (s *Service) List(ctx context.Context, opts domain.ListOptions) ([]domain.Record, error) {
	filter := repository.ListFilter{
		UserID: opts.UserID,
		Limit:  opts.Limit,
	}
	if opts.Month != 0 {
		period, err := billing.NewPeriod(opts.Month, opts.Year)
		if err != nil {
			return nil, err
		}
		filter.From, filter.To = period.Window(s.cfg.Billing.ReportingLocation())
	}
	return s.repo.List(ctx, s.db, filter)
}
