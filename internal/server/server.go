package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smscentra/portal/internal/account"
	accountdomain "github.com/smscentra/portal/internal/account/domain"
	"github.com/smscentra/portal/internal/auth"
	authdomain "github.com/smscentra/portal/internal/auth/domain"
	"github.com/smscentra/portal/internal/auth/session"
	"github.com/smscentra/portal/internal/billing"
	billingdomain "github.com/smscentra/portal/internal/billing/domain"
	"github.com/smscentra/portal/internal/clock"
	"github.com/smscentra/portal/internal/config"
	"github.com/smscentra/portal/internal/invoice"
	invoicedomain "github.com/smscentra/portal/internal/invoice/domain"
	"github.com/smscentra/portal/internal/observability"
	obsmiddleware "github.com/smscentra/portal/internal/observability/logger"
	obsmetrics "github.com/smscentra/portal/internal/observability/metrics"
	"github.com/smscentra/portal/internal/payment"
	paymentdomain "github.com/smscentra/portal/internal/payment/domain"
	"github.com/smscentra/portal/internal/sms"
	smsdomain "github.com/smscentra/portal/internal/sms/domain"
	"github.com/smscentra/portal/internal/transaction"
	trxrepo "github.com/smscentra/portal/internal/transaction/repository"
	"github.com/smscentra/portal/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	observability.Module,
	clock.Module,
	db.Module,
	fx.Provide(registerGin),
	account.Module,
	auth.Module,
	transaction.Module,
	sms.Module,
	billing.Module,
	invoice.Module,
	payment.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	db         *gorm.DB
	genID      *snowflake.Node
	clk        clock.Clock
	sessions   *session.Manager
	authsvc    authdomain.Service
	accounts   accountdomain.Service
	smsSvc     smsdomain.Service
	billingSvc billingdomain.Service
	invoiceSvc invoicedomain.Service
	paymentSvc paymentdomain.Service
	trxRepo    trxrepo.Repository
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	DB         *gorm.DB
	GenID      *snowflake.Node
	Clk        clock.Clock
	Sessions   *session.Manager
	Authsvc    authdomain.Service
	Accounts   accountdomain.Service
	SmsSvc     smsdomain.Service
	BillingSvc billingdomain.Service
	InvoiceSvc invoicedomain.Service
	PaymentSvc paymentdomain.Service
	TrxRepo    trxrepo.Repository
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		db:         p.DB,
		genID:      p.GenID,
		clk:        p.Clk,
		sessions:   p.Sessions,
		authsvc:    p.Authsvc,
		accounts:   p.Accounts,
		smsSvc:     p.SmsSvc,
		billingSvc: p.BillingSvc,
		invoiceSvc: p.InvoiceSvc,
		paymentSvc: p.PaymentSvc,
		trxRepo:    p.TrxRepo,
	}

	svc.registerAuthRoutes()
	svc.registerAdminRoutes()
	svc.registerClientRoutes()
	svc.registerPaymentRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/register", s.RegisterAccount)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.WebAuthRequired(), s.Me)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/api/admin", s.WebAuthRequired(), s.AdminRequired())

	admin.GET("/clients", s.ListClients)
	admin.PUT("/clients/currency", s.UpdateClientCurrency)
	admin.POST("/clients/toggle-status", s.ToggleClientStatus)
	admin.GET("/sms-logs", s.AdminSmsLogs)
	admin.GET("/transactions", s.AdminTransactions)
	admin.GET("/dashboard/stats", s.AdminDashboardStats)
	admin.POST("/generate-billing", s.GenerateBilling)
}

func (s *Server) registerClientRoutes() {
	client := s.engine.Group("/api/client", s.WebAuthRequired(), s.ClientRequired())

	client.GET("/dashboard/stats", s.ClientDashboardStats)
	client.GET("/sms-logs", s.ClientSmsLogs)
	client.GET("/transactions", s.ClientTransactions)
	client.GET("/summary", s.ClientSummary)
	client.GET("/summary/invoice", s.ClientSummaryInvoice)
	client.POST("/summary/pay", s.PayClientSummary)
}

func (s *Server) registerPaymentRoutes() {
	pay := s.engine.Group("/api/payment")

	pay.POST("/create", s.WebAuthRequired(), s.ClientRequired(), s.CreateTopUp)
	pay.POST("/status", s.WebAuthRequired(), s.PaymentStatus)
	pay.POST("/check-status", s.WebAuthRequired(), s.CheckPaymentStatus)
	pay.POST("/notify", s.PaymentNotify)
	pay.GET("/bin", s.WebAuthRequired(), s.BinLookup)
}
