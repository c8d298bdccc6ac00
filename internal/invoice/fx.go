package invoice

import (
	"github.com/smscentra/portal/internal/invoice/service"
	"github.com/smscentra/portal/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	pdf.Module,
	fx.Provide(service.New),
)
