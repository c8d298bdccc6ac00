package billing

import (
	"github.com/smscentra/portal/internal/billing/repository"
	"github.com/smscentra/portal/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
