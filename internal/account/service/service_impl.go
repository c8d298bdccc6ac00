package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smscentra/portal/internal/account/domain"
	"github.com/smscentra/portal/internal/account/repository"
	"github.com/smscentra/portal/internal/auth/password"
	"github.com/smscentra/portal/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  repository.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("account.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}
	if len(req.Password) < 6 {
		return nil, domain.ErrInvalidPassword
	}
	company := strings.TrimSpace(req.CompanyName)
	if company == "" {
		return nil, domain.ErrInvalidCompany
	}

	existing, err := s.repo.FindUserByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailExists
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           s.genID.Generate(),
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         domain.RoleClient,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := domain.ClientProfile{
		ID:          s.genID.Generate(),
		UserID:      user.ID,
		CompanyName: company,
		CompanySlug: slug.Make(company),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Address:     strings.TrimSpace(req.Address),
		Balance:     0,
		IsActive:    true,
		Currency:    domain.CurrencyIDR,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.InsertUserWithProfile(ctx, s.db, &user, &profile); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrEmailExists
		}
		return nil, err
	}

	user.Profile = &profile
	s.log.Info("client registered",
		zap.String("user_id", user.ID.String()),
		zap.String("company", company),
	)
	return &user, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	if id == 0 {
		return nil, domain.ErrInvalidID
	}
	user, err := s.repo.FindUserByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

// GetClient resolves an active CLIENT user, rejecting admins and unknown ids.
func (s *Service) GetClient(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleClient {
		return nil, domain.ErrNotClient
	}
	if user.Profile != nil && !user.Profile.IsActive {
		return nil, domain.ErrInactive
	}
	return user, nil
}

func (s *Service) ListClients(ctx context.Context) ([]domain.ClientView, error) {
	return s.repo.ListClients(ctx, s.db)
}

func (s *Service) SetActive(ctx context.Context, clientID snowflake.ID, active bool) (*domain.ClientProfile, error) {
	if clientID == 0 {
		return nil, domain.ErrInvalidID
	}
	profile, err := s.repo.UpdateProfile(ctx, s.db, clientID, map[string]any{
		"is_active":  active,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}
	return profile, nil
}

func (s *Service) SetCurrency(ctx context.Context, clientID snowflake.ID, currency string) (*domain.ClientProfile, error) {
	if clientID == 0 {
		return nil, domain.ErrInvalidID
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !domain.ValidCurrency(currency) {
		return nil, domain.ErrInvalidCurrency
	}
	profile, err := s.repo.UpdateProfile(ctx, s.db, clientID, map[string]any{
		"currency":   currency,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}
	return profile, nil
}

// Credit increments the display balance. Only the top-up completion path
// calls this; billing payments never touch the balance.
func (s *Service) Credit(ctx context.Context, clientID snowflake.ID, amount int64) error {
	if clientID == 0 {
		return domain.ErrInvalidID
	}
	return s.repo.IncrementBalance(ctx, s.db, clientID, amount)
}
