package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smscentra/portal/internal/sms/domain"
	"gorm.io/gorm"
)

const insertBatchSize = 500

type ListFilter struct {
	UserID snowflake.ID // zero means all users
	From   time.Time    // zero means unbounded
	To     time.Time
	Limit  int
}

// PeriodTotals aggregates a client's records inside [from, to).
type PeriodTotals struct {
	Total  int64
	Sent   int64
	Failed int64
	Cost   int64
	Billed int64
}

type Repository interface {
	InsertBatch(ctx context.Context, db *gorm.DB, records []domain.Record) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]domain.Record, error)
	Totals(ctx context.Context, db *gorm.DB, userID snowflake.ID, from, to time.Time) (*PeriodTotals, error)
	CountByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (int64, error)
}

type repo struct{}

func Provide() Repository {
	return &repo{}
}

func (r *repo) InsertBatch(ctx context.Context, db *gorm.DB, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(records, insertBatchSize).Error
	})
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]domain.Record, error) {
	q := db.WithContext(ctx).Model(&domain.Record{})
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if !filter.From.IsZero() {
		q = q.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("created_at < ?", filter.To)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}

	var out []domain.Record
	if err := q.Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) Totals(ctx context.Context, db *gorm.DB, userID snowflake.ID, from, to time.Time) (*PeriodTotals, error) {
	type row struct {
		Status string
		N      int64
		Cost   *int64
	}

	q := db.WithContext(ctx).
		Model(&domain.Record{}).
		Where("user_id = ?", userID)
	// Windowed on created_at so PENDING rows (no sent_at yet) still count.
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to)
	}

	var rows []row
	err := q.Select("status, COUNT(*) AS n, SUM(cost) AS cost").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := &PeriodTotals{}
	for _, rw := range rows {
		totals.Total += rw.N
		var cost int64
		if rw.Cost != nil {
			cost = *rw.Cost
		}
		totals.Cost += cost
		switch {
		case rw.Status == domain.StatusFailed:
			totals.Failed += rw.N
		default:
			totals.Sent += rw.N
		}
		if domain.Billable(rw.Status) {
			totals.Billed += cost
		}
	}
	return totals, nil
}

func (r *repo) CountByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Record{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	return n, err
}
