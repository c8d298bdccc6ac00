package repository

import (
	"context"
	"time"

	account "github.com/smscentra/portal/internal/account/domain"
	smsdomain "github.com/smscentra/portal/internal/sms/domain"
	trxdomain "github.com/smscentra/portal/internal/transaction/domain"
	"gorm.io/gorm"
)

// Repository holds the cross-table aggregate queries used by dashboards.
// Per-client period math lives on the sms and transaction repositories.
type Repository interface {
	ClientCounts(ctx context.Context, db *gorm.DB) (total, active int64, err error)
	SmsCounts(ctx context.Context, db *gorm.DB) (total, failed int64, err error)
	BilledAllClients(ctx context.Context, db *gorm.DB, from, to time.Time) (int64, error)
	PaidAllClients(ctx context.Context, db *gorm.DB) (int64, error)
}

type repo struct{}

func Provide() Repository {
	return &repo{}
}

func (r *repo) ClientCounts(ctx context.Context, db *gorm.DB) (int64, int64, error) {
	var total, active int64
	if err := db.WithContext(ctx).Model(&account.ClientProfile{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err := db.WithContext(ctx).
		Model(&account.ClientProfile{}).
		Where("is_active = ?", true).
		Count(&active).Error
	return total, active, err
}

func (r *repo) SmsCounts(ctx context.Context, db *gorm.DB) (int64, int64, error) {
	var total, failed int64
	if err := db.WithContext(ctx).Model(&smsdomain.Record{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err := db.WithContext(ctx).
		Model(&smsdomain.Record{}).
		Where("status = ?", smsdomain.StatusFailed).
		Count(&failed).Error
	return total, failed, err
}

func (r *repo) BilledAllClients(ctx context.Context, db *gorm.DB, from, to time.Time) (int64, error) {
	var total *int64
	err := db.WithContext(ctx).
		Model(&smsdomain.Record{}).
		Where("status IN ?", []string{smsdomain.StatusSent, smsdomain.StatusDelivered}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Select("SUM(cost)").
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

func (r *repo) PaidAllClients(ctx context.Context, db *gorm.DB) (int64, error) {
	var total *int64
	err := db.WithContext(ctx).
		Model(&trxdomain.Transaction{}).
		Where("type = ? AND status = ?", trxdomain.TypePayment, trxdomain.StatusCompleted).
		Select("SUM(amount)").
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}
