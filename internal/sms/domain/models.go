// Package domain contains core types for SMS records.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusPending   = "PENDING"
	StatusSent      = "SENT"
	StatusDelivered = "DELIVERED"
	StatusFailed    = "FAILED"
)

// Record is a single delivery-log row. Cost is whole IDR per message,
// zero when the message failed.
type Record struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID      snowflake.ID `gorm:"column:user_id;not null;index" json:"user_id"`
	PhoneNumber string       `gorm:"column:phone_number;type:text;not null" json:"phone_number"`
	Message     string       `gorm:"column:message;type:text;not null" json:"message"`
	Status      string       `gorm:"column:status;type:text;not null;index" json:"status"`
	Cost        int64        `gorm:"column:cost;not null" json:"cost"`
	SentAt      *time.Time   `gorm:"column:sent_at;index" json:"sent_at,omitempty"`
	CreatedAt   time.Time    `gorm:"column:created_at;not null;index" json:"created_at"`
}

// TableName sets the database table name.
func (Record) TableName() string { return "sms_records" }

// Billable reports whether a record counts toward the monthly bill.
func Billable(status string) bool {
	return status == StatusSent || status == StatusDelivered
}
