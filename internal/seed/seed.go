package seed

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/smscentra/portal/internal/account/domain"
	"github.com/smscentra/portal/internal/auth/password"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail    = "admin@smscentra.local"
	defaultAdminPassword = "admin"
	defaultAdminName     = "Portal Admin"
)

// EnsureAdmin seeds the bootstrap admin user when no admin exists yet.
// Credentials come from ADMIN_EMAIL/ADMIN_PASSWORD, with local defaults.
func EnsureAdmin(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	if email == "" {
		email = defaultAdminEmail
	}
	pass := os.Getenv("ADMIN_PASSWORD")
	if pass == "" {
		pass = defaultAdminPassword
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&accountdomain.User{}).
			Where("role = ?", accountdomain.RoleAdmin).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hash, err := password.Hash(pass)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		admin := accountdomain.User{
			ID:           node.Generate(),
			Name:         defaultAdminName,
			Email:        email,
			PasswordHash: hash,
			Role:         accountdomain.RoleAdmin,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.Create(&admin).Error
	})
}
