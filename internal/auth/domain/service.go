package domain

import (
	"context"
	"time"

	account "github.com/smscentra/portal/internal/account/domain"
)

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*account.User, *Session, error)
}

type LoginRequest struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

type LoginResult struct {
	User      *account.User
	RawToken  string
	ExpiresAt time.Time
}
