package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidPassword = errors.New("invalid_password")
	ErrInvalidCompany  = errors.New("invalid_company")
	ErrInvalidCurrency = errors.New("invalid_currency")
	ErrInvalidID       = errors.New("invalid_id")
	ErrEmailExists     = errors.New("email_exists")
	ErrNotFound        = errors.New("not_found")
	ErrNotClient       = errors.New("not_client")
	ErrInactive        = errors.New("client_inactive")
)

type RegisterRequest struct {
	Name        string
	Email       string
	Password    string
	CompanyName string
	PhoneNumber string
	Address     string
}

// ClientView is the admin-facing listing row: user, profile, and aggregate
// record counts.
type ClientView struct {
	User             User           `json:"user"`
	Profile          *ClientProfile `json:"profile"`
	TransactionCount int64          `json:"transaction_count"`
	SmsCount         int64          `json:"sms_count"`
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	GetByID(ctx context.Context, id snowflake.ID) (*User, error)
	GetClient(ctx context.Context, id snowflake.ID) (*User, error)
	ListClients(ctx context.Context) ([]ClientView, error)
	SetActive(ctx context.Context, clientID snowflake.ID, active bool) (*ClientProfile, error)
	SetCurrency(ctx context.Context, clientID snowflake.ID, currency string) (*ClientProfile, error)
	Credit(ctx context.Context, clientID snowflake.ID, amount int64) error
}
