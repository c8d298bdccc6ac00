package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// AdminStats backs the admin dashboard.
type AdminStats struct {
	TotalClients  int64 `json:"total_clients"`
	ActiveClients int64 `json:"active_clients"`
	TotalSms      int64 `json:"total_sms"`
	TotalFailed   int64 `json:"total_failed"`
	MonthBilled   int64 `json:"month_billed"`
	TotalPaid     int64 `json:"total_paid"`
}

// ClientStats backs the client dashboard.
type ClientStats struct {
	Balance     int64  `json:"balance"`
	Currency    string `json:"currency"`
	MonthSms    int64  `json:"month_sms"`
	MonthBilled int64  `json:"month_billed"`
	MonthPaid   int64  `json:"month_paid"`
	Outstanding int64  `json:"outstanding"`
	LifetimeSms int64  `json:"lifetime_sms"`
}

type Service interface {
	Summarize(ctx context.Context, clientID snowflake.ID, period Period) (*Summary, error)
	AdminStats(ctx context.Context) (*AdminStats, error)
	ClientStats(ctx context.Context, clientID snowflake.ID) (*ClientStats, error)
}
