package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidCount      = errors.New("count must be positive")
	ErrInvalidUnitPrice  = errors.New("unit price must be positive")
	ErrInvalidWindow     = errors.New("window start must precede end")
	ErrInvalidPercentage = errors.New("percentage out of range")
)

// Percentages is the three-way delivery outcome split. Values are
// percentages in [0,100] and need not sum to exactly 100.
type Percentages struct {
	Delivered   float64 `json:"delivered"`
	Undelivered float64 `json:"undelivered"`
	Failed      float64 `json:"failed"`
}

type GenerateRequest struct {
	ClientID  snowflake.ID `json:"client_id"`
	Count     int          `json:"count"`
	UnitPrice int64        `json:"unit_price"`

	// Window offsets in minutes relative to now. Negative offsets place
	// the window in the past.
	StartOffsetMinutes int `json:"start_offset_minutes"`
	EndOffsetMinutes   int `json:"end_offset_minutes"`

	// Percentages is the three-way split. When nil, FailedPercentage is
	// used and non-failed records are all marked SENT.
	Percentages      *Percentages `json:"percentages,omitempty"`
	FailedPercentage float64      `json:"failed_percentage"`
}

type GenerateSummary struct {
	Requested int   `json:"requested"`
	Sent      int   `json:"sent"`
	Delivered int   `json:"delivered"`
	Failed    int   `json:"failed"`
	UnitPrice int64 `json:"unit_price"`
	TotalCost int64 `json:"total_cost"`
}

type ListOptions struct {
	UserID snowflake.ID // zero means all users
	Month  int          // 1..12, zero means no month filter
	Year   int
	Limit  int
}

type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateSummary, error)
	List(ctx context.Context, opts ListOptions) ([]Record, error)
}
