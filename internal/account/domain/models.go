package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	RoleAdmin  = "ADMIN"
	RoleClient = "CLIENT"
)

const (
	CurrencyIDR = "IDR"
	CurrencyUSD = "USD"
)

type User struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"not null" json:"name"`
	Email        string       `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string       `gorm:"not null" json:"-"`
	Role         string       `gorm:"not null;index" json:"role"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Profile *ClientProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

func (User) TableName() string { return "users" }

// ClientProfile is the one-to-one billing profile of a CLIENT user. Balance
// is informational display state; billing is always recomputed from SMS and
// transaction records.
type ClientProfile struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	UserID      snowflake.ID      `gorm:"uniqueIndex;not null" json:"user_id"`
	CompanyName string            `gorm:"not null" json:"company_name"`
	CompanySlug string            `gorm:"index" json:"company_slug"`
	PhoneNumber string            `json:"phone_number,omitempty"`
	Address     string            `json:"address,omitempty"`
	Balance     int64             `gorm:"not null;default:0" json:"balance"`
	IsActive    bool              `gorm:"not null;default:true" json:"is_active"`
	Currency    string            `gorm:"not null;default:IDR" json:"currency"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ClientProfile) TableName() string { return "client_profiles" }

func ValidCurrency(currency string) bool {
	switch currency {
	case CurrencyIDR, CurrencyUSD:
		return true
	default:
		return false
	}
}
