// Package domain contains core types for transactions.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	TypeCredit  = "CREDIT"
	TypeDebit   = "DEBIT"
	TypePayment = "PAYMENT"
	TypeRefund  = "REFUND"

	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELLED"
)

var ErrNotFound = errors.New("transaction not found")

// Transaction records a money movement for a client. Amounts are in the
// client currency's minor-free unit (whole IDR, or USD cents for USD).
type Transaction struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	UserID         snowflake.ID      `gorm:"column:user_id;not null;index" json:"user_id"`
	Amount         int64             `gorm:"column:amount;not null" json:"amount"`
	Type           string            `gorm:"column:type;type:text;not null;index" json:"type"`
	Status         string            `gorm:"column:status;type:text;not null;index" json:"status"`
	Description    string            `gorm:"column:description;type:text" json:"description"`
	ReferenceID    *string           `gorm:"column:reference_id;type:text;uniqueIndex" json:"reference_id,omitempty"`
	ChannelTrxID   *string           `gorm:"column:channel_trx_id;type:text;index" json:"channel_trx_id,omitempty"`
	FailureCode    string            `gorm:"column:failure_code;type:text" json:"failure_code,omitempty"`
	FailureMessage string            `gorm:"column:failure_message;type:text" json:"failure_message,omitempty"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt      time.Time         `gorm:"column:created_at;not null;index" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Transaction) TableName() string { return "transactions" }

// Terminal reports whether a status admits no further transitions.
func Terminal(status string) bool {
	switch status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}
