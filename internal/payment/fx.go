package payment

import (
	"github.com/smscentra/portal/internal/cache"
	"github.com/smscentra/portal/internal/config"
	"github.com/smscentra/portal/internal/payment/gateway/mock"
	"github.com/smscentra/portal/internal/payment/gateway/pivot"
	"github.com/smscentra/portal/internal/payment/gateway/redision"
	"github.com/smscentra/portal/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(mock.New),
	fx.Provide(func(cfg config.Config) *pivot.Client {
		return pivot.New(cfg, cache.NewTTLCache[string, string]())
	}),
	fx.Provide(redision.New),
	fx.Provide(func(c *pivot.Client) service.StatusPoller { return c }),
	fx.Provide(func(c *redision.Client) service.Checkout { return c }),
	fx.Provide(service.New),
)
