package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smscentra/portal/internal/transaction/domain"
	"gorm.io/gorm"
)

type ListFilter struct {
	UserID   snowflake.ID // zero means all users
	BeforeID snowflake.ID // cursor: only rows older than this id
	Limit    int
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, trx *domain.Transaction) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Transaction, error)
	FindByReferenceID(ctx context.Context, db *gorm.DB, referenceID string) (*domain.Transaction, error)
	FindByChannelTrxID(ctx context.Context, db *gorm.DB, channelTrxID string) (*domain.Transaction, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]domain.Transaction, error)
	UpdateFields(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error
	SumCompletedPayments(ctx context.Context, db *gorm.DB, userID snowflake.ID, from, to time.Time) (int64, error)
	SumByTypeStatus(ctx context.Context, db *gorm.DB, userID snowflake.ID, trxType, status string, from, to time.Time) (int64, error)
}

type repo struct{}

func Provide() Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, trx *domain.Transaction) error {
	return db.WithContext(ctx).Create(trx).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Transaction, error) {
	var trx domain.Transaction
	err := db.WithContext(ctx).Where("id = ?", id).First(&trx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &trx, nil
}

func (r *repo) FindByReferenceID(ctx context.Context, db *gorm.DB, referenceID string) (*domain.Transaction, error) {
	var trx domain.Transaction
	err := db.WithContext(ctx).Where("reference_id = ?", referenceID).First(&trx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &trx, nil
}

func (r *repo) FindByChannelTrxID(ctx context.Context, db *gorm.DB, channelTrxID string) (*domain.Transaction, error) {
	var trx domain.Transaction
	err := db.WithContext(ctx).Where("channel_trx_id = ?", channelTrxID).First(&trx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &trx, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]domain.Transaction, error) {
	q := db.WithContext(ctx).Model(&domain.Transaction{})
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.BeforeID != 0 {
		q = q.Where("id < ?", filter.BeforeID)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}

	// Snowflake ids are time ordered, so id DESC is newest first and a
	// stable cursor key at the same time.
	var out []domain.Transaction
	if err := q.Order("id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) UpdateFields(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error {
	return db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repo) SumCompletedPayments(ctx context.Context, db *gorm.DB, userID snowflake.ID, from, to time.Time) (int64, error) {
	return r.SumByTypeStatus(ctx, db, userID, domain.TypePayment, domain.StatusCompleted, from, to)
}

func (r *repo) SumByTypeStatus(ctx context.Context, db *gorm.DB, userID snowflake.ID, trxType, status string, from, to time.Time) (int64, error) {
	var total *int64
	q := db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("user_id = ? AND type = ? AND status = ?", userID, trxType, status)
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to)
	}
	if err := q.Select("SUM(amount)").Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
