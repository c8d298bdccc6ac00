package account

import (
	"github.com/smscentra/portal/internal/account/repository"
	"github.com/smscentra/portal/internal/account/service"
	"go.uber.org/fx"
)

var Module = fx.Module("account.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
