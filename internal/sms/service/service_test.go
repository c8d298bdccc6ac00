package service

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	account "github.com/smscentra/portal/internal/account/domain"
	accountrepo "github.com/smscentra/portal/internal/account/repository"
	accountservice "github.com/smscentra/portal/internal/account/service"
	billing "github.com/smscentra/portal/internal/billing/domain"
	"github.com/smscentra/portal/internal/clock"
	"github.com/smscentra/portal/internal/config"
	"github.com/smscentra/portal/internal/sms/domain"
	"github.com/smscentra/portal/internal/sms/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, seed int64) (*Service, *gorm.DB, snowflake.ID) {
	t.Helper()

	dbConn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&account.User{}, &account.ClientProfile{}, &domain.Record{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	cfg := config.Config{}
	cfg.Billing.DefaultUnitPrice = 500
	cfg.Billing.ReportingTZ = "UTC"

	accounts := accountservice.New(accountservice.Params{
		DB:    dbConn,
		Log:   zaptest.NewLogger(t),
		GenID: node,
		Repo:  accountrepo.Provide(),
	})
	client, err := accounts.Register(context.Background(), account.RegisterRequest{
		Name:        "Test Client",
		Email:       "client@example.com",
		Password:    "secret-password",
		CompanyName: "PT Contoh Abadi",
	})
	require.NoError(t, err)

	svc := &Service{
		cfg:      cfg,
		db:       dbConn,
		log:      zaptest.NewLogger(t),
		genID:    node,
		clock:    clock.Fixed(fixedNow),
		repo:     repository.Provide(),
		accounts: accounts,
		rnd:      rand.New(rand.NewSource(seed)),
	}
	return svc, dbConn, client.ID
}

func TestGenerateThreeWaySplit(t *testing.T) {
	svc, dbConn, clientID := newTestService(t, 42)

	summary, err := svc.Generate(context.Background(), domain.GenerateRequest{
		ClientID:           clientID,
		Count:              100,
		UnitPrice:          500,
		StartOffsetMinutes: -120,
		EndOffsetMinutes:   -60,
		Percentages:        &domain.Percentages{Delivered: 80, Undelivered: 15, Failed: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, 100, summary.Requested)
	assert.Equal(t, 95, summary.Sent)
	assert.Equal(t, 80, summary.Delivered)
	assert.Equal(t, 5, summary.Failed)
	assert.Equal(t, int64(47500), summary.TotalCost)

	var byStatus []struct {
		Status string
		N      int64
	}
	require.NoError(t, dbConn.Model(&domain.Record{}).
		Select("status, COUNT(*) AS n").Group("status").Scan(&byStatus).Error)
	counts := map[string]int64{}
	for _, row := range byStatus {
		counts[row.Status] = row.N
	}
	assert.Equal(t, int64(80), counts[domain.StatusDelivered])
	assert.Equal(t, int64(15), counts[domain.StatusSent])
	assert.Equal(t, int64(5), counts[domain.StatusFailed])
}

func TestGenerateLegacyFailedPercentage(t *testing.T) {
	svc, dbConn, clientID := newTestService(t, 7)

	summary, err := svc.Generate(context.Background(), domain.GenerateRequest{
		ClientID:           clientID,
		Count:              10,
		UnitPrice:          500,
		StartOffsetMinutes: -60,
		EndOffsetMinutes:   0,
		FailedPercentage:   20,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 8, summary.Sent)
	assert.Equal(t, 0, summary.Delivered)
	assert.Equal(t, int64(4000), summary.TotalCost)

	var records []domain.Record
	require.NoError(t, dbConn.Find(&records).Error)
	require.Len(t, records, 10)
	for _, rec := range records {
		if rec.Status == domain.StatusFailed {
			assert.Equal(t, int64(0), rec.Cost)
		} else {
			assert.Equal(t, domain.StatusSent, rec.Status)
			assert.Equal(t, int64(500), rec.Cost)
		}
		assert.True(t, strings.HasPrefix(rec.PhoneNumber, "+628"))
		assert.Len(t, rec.PhoneNumber, 13)
	}
}

func TestGenerateWindowBounds(t *testing.T) {
	svc, dbConn, clientID := newTestService(t, 99)

	_, err := svc.Generate(context.Background(), domain.GenerateRequest{
		ClientID:           clientID,
		Count:              50,
		UnitPrice:          500,
		StartOffsetMinutes: -1440,
		EndOffsetMinutes:   -720,
	})
	require.NoError(t, err)

	windowStart := fixedNow.Add(-1440 * time.Minute)
	windowEnd := fixedNow.Add(-720 * time.Minute)

	var records []domain.Record
	require.NoError(t, dbConn.Find(&records).Error)
	require.Len(t, records, 50)
	for _, rec := range records {
		require.NotNil(t, rec.SentAt)
		assert.False(t, rec.SentAt.Before(windowStart), "sent_at before window start")
		assert.True(t, rec.SentAt.Before(windowEnd), "sent_at at or after window end")
		assert.True(t, rec.CreatedAt.Equal(*rec.SentAt), "created_at must match the in-window timestamp")
	}
}

func TestGenerateDefaultsUnitPrice(t *testing.T) {
	svc, _, clientID := newTestService(t, 3)

	summary, err := svc.Generate(context.Background(), domain.GenerateRequest{
		ClientID:           clientID,
		Count:              4,
		StartOffsetMinutes: -10,
		EndOffsetMinutes:   -5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(500), summary.UnitPrice)
	assert.Equal(t, int64(2000), summary.TotalCost)
}

func TestGenerateValidation(t *testing.T) {
	svc, dbConn, clientID := newTestService(t, 1)

	cases := []struct {
		name string
		req  domain.GenerateRequest
		want error
	}{
		{"zero count", domain.GenerateRequest{ClientID: clientID, Count: 0, UnitPrice: 500, StartOffsetMinutes: -10, EndOffsetMinutes: 0}, domain.ErrInvalidCount},
		{"negative unit price", domain.GenerateRequest{ClientID: clientID, Count: 5, UnitPrice: -1, StartOffsetMinutes: -10, EndOffsetMinutes: 0}, domain.ErrInvalidUnitPrice},
		{"inverted window", domain.GenerateRequest{ClientID: clientID, Count: 5, UnitPrice: 500, StartOffsetMinutes: 0, EndOffsetMinutes: -10}, domain.ErrInvalidWindow},
		{"failed pct out of range", domain.GenerateRequest{ClientID: clientID, Count: 5, UnitPrice: 500, StartOffsetMinutes: -10, EndOffsetMinutes: 0, FailedPercentage: 120}, domain.ErrInvalidPercentage},
		{"three-way pct out of range", domain.GenerateRequest{ClientID: clientID, Count: 5, UnitPrice: 500, StartOffsetMinutes: -10, EndOffsetMinutes: 0, Percentages: &domain.Percentages{Delivered: -1}}, domain.ErrInvalidPercentage},
		{"unknown client", domain.GenerateRequest{ClientID: snowflake.ID(12345), Count: 5, UnitPrice: 500, StartOffsetMinutes: -10, EndOffsetMinutes: 0}, account.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	var n int64
	require.NoError(t, dbConn.Model(&domain.Record{}).Count(&n).Error)
	assert.Equal(t, int64(0), n, "rejected requests must not insert records")
}

func TestGenerateZeroPercentages(t *testing.T) {
	svc, dbConn, clientID := newTestService(t, 11)

	summary, err := svc.Generate(context.Background(), domain.GenerateRequest{
		ClientID:           clientID,
		Count:              5,
		UnitPrice:          500,
		StartOffsetMinutes: -10,
		EndOffsetMinutes:   0,
		Percentages:        &domain.Percentages{},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Sent)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, int64(2500), summary.TotalCost)

	var records []domain.Record
	require.NoError(t, dbConn.Find(&records).Error)
	require.Len(t, records, 5)
	for _, rec := range records {
		assert.Equal(t, domain.StatusSent, rec.Status)
		assert.Equal(t, int64(500), rec.Cost)
	}
}

func TestPeriodTotalsWindowOnCreatedAt(t *testing.T) {
	svc, dbConn, clientID := newTestService(t, 4)

	march, err := billing.NewPeriod(3, 2026)
	require.NoError(t, err)
	from, to := march.Window(time.UTC)

	inMonth := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	sentNextMonth := time.Date(2026, time.April, 1, 0, 30, 0, 0, time.UTC)
	require.NoError(t, dbConn.Create(&[]domain.Record{
		{
			ID:          svc.genID.Generate(),
			UserID:      clientID,
			PhoneNumber: "+628000000001",
			Message:     "queued",
			Status:      domain.StatusPending,
			Cost:        500,
			SentAt:      nil,
			CreatedAt:   inMonth,
		},
		{
			ID:          svc.genID.Generate(),
			UserID:      clientID,
			PhoneNumber: "+628000000002",
			Message:     "late delivery report",
			Status:      domain.StatusDelivered,
			Cost:        500,
			SentAt:      &sentNextMonth,
			CreatedAt:   inMonth,
		},
	}).Error)

	totals, err := svc.repo.Totals(context.Background(), dbConn, clientID, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.Total, "pending row with no sent_at must count")
	assert.Equal(t, int64(1000), totals.Cost)
	assert.Equal(t, int64(500), totals.Billed, "delivered row bills to its created month")
	assert.Equal(t, int64(0), totals.Failed)

	aprilFrom, aprilTo := from.AddDate(0, 1, 0), to.AddDate(0, 1, 0)
	totals, err = svc.repo.Totals(context.Background(), dbConn, clientID, aprilFrom, aprilTo)
	require.NoError(t, err)
	assert.Equal(t, int64(0), totals.Total, "rows created in March never bill to April")
}
