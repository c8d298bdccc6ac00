package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smscentra/portal/internal/account/domain"
	"gorm.io/gorm"
)

type Repository interface {
	InsertUserWithProfile(ctx context.Context, db *gorm.DB, user *domain.User, profile *domain.ClientProfile) error
	FindUserByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.User, error)
	FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error)
	ListClients(ctx context.Context, db *gorm.DB) ([]domain.ClientView, error)
	UpdateProfile(ctx context.Context, db *gorm.DB, userID snowflake.ID, updates map[string]any) (*domain.ClientProfile, error)
	IncrementBalance(ctx context.Context, db *gorm.DB, userID snowflake.ID, amount int64) error
}

type repo struct{}

func Provide() Repository {
	return &repo{}
}

func (r *repo) InsertUserWithProfile(ctx context.Context, db *gorm.DB, user *domain.User, profile *domain.ClientProfile) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if profile != nil {
			return tx.Create(profile).Error
		}
		return nil
	})
}

func (r *repo) FindUserByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).
		Preload("Profile").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *repo) FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).
		Preload("Profile").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *repo) ListClients(ctx context.Context, db *gorm.DB) ([]domain.ClientView, error) {
	var users []domain.User
	err := db.WithContext(ctx).
		Preload("Profile").
		Where("role = ?", domain.RoleClient).
		Order("created_at desc, id desc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	views := make([]domain.ClientView, 0, len(users))
	for _, user := range users {
		var txCount, smsCount int64
		if err := db.WithContext(ctx).Table("transactions").Where("user_id = ?", user.ID).Count(&txCount).Error; err != nil {
			return nil, err
		}
		if err := db.WithContext(ctx).Table("sms_records").Where("user_id = ?", user.ID).Count(&smsCount).Error; err != nil {
			return nil, err
		}
		views = append(views, domain.ClientView{
			User:             user,
			Profile:          user.Profile,
			TransactionCount: txCount,
			SmsCount:         smsCount,
		})
	}
	return views, nil
}

func (r *repo) UpdateProfile(ctx context.Context, db *gorm.DB, userID snowflake.ID, updates map[string]any) (*domain.ClientProfile, error) {
	result := db.WithContext(ctx).
		Model(&domain.ClientProfile{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	var profile domain.ClientProfile
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repo) IncrementBalance(ctx context.Context, db *gorm.DB, userID snowflake.ID, amount int64) error {
	return db.WithContext(ctx).
		Model(&domain.ClientProfile{}).
		Where("user_id = ?", userID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount)).Error
}
