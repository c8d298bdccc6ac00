package auth

import (
	"github.com/smscentra/portal/internal/auth/repository"
	"github.com/smscentra/portal/internal/auth/service"
	"github.com/smscentra/portal/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
)
