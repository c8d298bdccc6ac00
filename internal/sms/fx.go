package sms

import (
	"math/rand"
	"time"

	"github.com/smscentra/portal/internal/sms/repository"
	"github.com/smscentra/portal/internal/sms/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sms.service",
	fx.Provide(func() *rand.Rand {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}),
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
