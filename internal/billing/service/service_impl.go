package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	account "github.com/smscentra/portal/internal/account/domain"
	"github.com/smscentra/portal/internal/billing/domain"
	"github.com/smscentra/portal/internal/billing/repository"
	"github.com/smscentra/portal/internal/clock"
	"github.com/smscentra/portal/internal/config"
	smsrepo "github.com/smscentra/portal/internal/sms/repository"
	trxdomain "github.com/smscentra/portal/internal/transaction/domain"
	trxrepo "github.com/smscentra/portal/internal/transaction/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg      config.Config
	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Repo     repository.Repository
	SmsRepo  smsrepo.Repository
	TrxRepo  trxrepo.Repository
	Accounts account.Service
}

type Service struct {
	cfg      config.Config
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	repo     repository.Repository
	smsRepo  smsrepo.Repository
	trxRepo  trxrepo.Repository
	accounts account.Service
}

func New(p Params) domain.Service {
	return &Service{
		cfg:      p.Cfg,
		db:       p.DB,
		log:      p.Log.Named("billing.service"),
		clock:    p.Clock,
		repo:     p.Repo,
		smsRepo:  p.SmsRepo,
		trxRepo:  p.TrxRepo,
		accounts: p.Accounts,
	}
}

// Summarize is a pure read. The billed figure comes from per-record cost of
// billable statuses inside the period window; completed DEBIT rows are
// reported alongside only as a cross-check.
func (s *Service) Summarize(ctx context.Context, clientID snowflake.ID, period domain.Period) (*domain.Summary, error) {
	client, err := s.accounts.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client.Role != account.RoleClient || client.Profile == nil {
		return nil, account.ErrNotClient
	}

	from, to := period.Window(s.cfg.Billing.ReportingLocation())

	totals, err := s.smsRepo.Totals(ctx, s.db, clientID, from, to)
	if err != nil {
		return nil, err
	}
	paid, err := s.trxRepo.SumCompletedPayments(ctx, s.db, clientID, from, to)
	if err != nil {
		return nil, err
	}
	debits, err := s.trxRepo.SumByTypeStatus(ctx, s.db, clientID, trxdomain.TypeDebit, trxdomain.StatusCompleted, from, to)
	if err != nil {
		return nil, err
	}

	outstanding := totals.Billed - paid
	if outstanding < 0 {
		outstanding = 0
	}

	return &domain.Summary{
		Period: period,
		Sms: domain.SmsTotals{
			Total:  totals.Total,
			Sent:   totals.Sent,
			Failed: totals.Failed,
			Cost:   totals.Cost,
		},
		Billed:                 totals.Billed,
		BilledFromTransactions: debits,
		PaidInPeriod:           paid,
		Outstanding:            outstanding,
		Currency:               client.Profile.Currency,
	}, nil
}

func (s *Service) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	totalClients, activeClients, err := s.repo.ClientCounts(ctx, s.db)
	if err != nil {
		return nil, err
	}
	totalSms, totalFailed, err := s.repo.SmsCounts(ctx, s.db)
	if err != nil {
		return nil, err
	}

	period := domain.PeriodOf(s.clock.Now(), s.cfg.Billing.ReportingLocation())
	from, to := period.Window(s.cfg.Billing.ReportingLocation())
	monthBilled, err := s.repo.BilledAllClients(ctx, s.db, from, to)
	if err != nil {
		return nil, err
	}
	totalPaid, err := s.repo.PaidAllClients(ctx, s.db)
	if err != nil {
		return nil, err
	}

	return &domain.AdminStats{
		TotalClients:  totalClients,
		ActiveClients: activeClients,
		TotalSms:      totalSms,
		TotalFailed:   totalFailed,
		MonthBilled:   monthBilled,
		TotalPaid:     totalPaid,
	}, nil
}

func (s *Service) ClientStats(ctx context.Context, clientID snowflake.ID) (*domain.ClientStats, error) {
	period := domain.PeriodOf(s.clock.Now(), s.cfg.Billing.ReportingLocation())
	summary, err := s.Summarize(ctx, clientID, period)
	if err != nil {
		return nil, err
	}

	client, err := s.accounts.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	lifetimeSms, err := s.smsRepo.CountByUser(ctx, s.db, clientID)
	if err != nil {
		return nil, err
	}

	return &domain.ClientStats{
		Balance:     client.Profile.Balance,
		Currency:    client.Profile.Currency,
		MonthSms:    summary.Sms.Total,
		MonthBilled: summary.Billed,
		MonthPaid:   summary.PaidInPeriod,
		Outstanding: summary.Outstanding,
		LifetimeSms: lifetimeSms,
	}, nil
}
