package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	accountdomain "github.com/smscentra/portal/internal/account/domain"
	accountrepo "github.com/smscentra/portal/internal/account/repository"
	accountservice "github.com/smscentra/portal/internal/account/service"
	authdomain "github.com/smscentra/portal/internal/auth/domain"
	authrepo "github.com/smscentra/portal/internal/auth/repository"
	authservice "github.com/smscentra/portal/internal/auth/service"
	"github.com/smscentra/portal/internal/auth/session"
	billingrepo "github.com/smscentra/portal/internal/billing/repository"
	billingservice "github.com/smscentra/portal/internal/billing/service"
	"github.com/smscentra/portal/internal/clock"
	"github.com/smscentra/portal/internal/config"
	invoiceservice "github.com/smscentra/portal/internal/invoice/service"
	"github.com/smscentra/portal/internal/payment/gateway/mock"
	"github.com/smscentra/portal/internal/payment/gateway/pivot"
	"github.com/smscentra/portal/internal/payment/gateway/redision"
	paymentservice "github.com/smscentra/portal/internal/payment/service"
	"github.com/smscentra/portal/internal/providers/pdf"
	"github.com/smscentra/portal/internal/seed"
	smsdomain "github.com/smscentra/portal/internal/sms/domain"
	smsrepo "github.com/smscentra/portal/internal/sms/repository"
	smsservice "github.com/smscentra/portal/internal/sms/service"
	trxdomain "github.com/smscentra/portal/internal/transaction/domain"
	trxrepo "github.com/smscentra/portal/internal/transaction/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

type e2ePoller struct {
	resp *pivot.StatusResponse
	err  error
}

func (p *e2ePoller) Status(ctx context.Context, channelTrxID string) (*pivot.StatusResponse, error) {
	return p.resp, p.err
}

type e2eCheckout struct{}

func (c *e2eCheckout) CreateTransaction(ctx context.Context, req redision.CreateRequest) (*redision.CreateResponse, error) {
	return &redision.CreateResponse{
		TransactionID: "rd_" + req.ReferenceID,
		CheckoutURL:   "https://sandbox-payment.redision.com/checkout/" + req.ReferenceID,
		Status:        "PENDING",
	}, nil
}

func (c *e2eCheckout) BinLookup(ctx context.Context, cardDigits string) (map[string]any, error) {
	return map[string]any{"bin": cardDigits, "brand": "VISA"}, nil
}

type testEnv struct {
	srv    *httptest.Server
	db     *gorm.DB
	client *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbConn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&accountdomain.User{}, &accountdomain.ClientProfile{},
		&authdomain.Session{}, &smsdomain.Record{}, &trxdomain.Transaction{},
	))
	require.NoError(t, seed.EnsureAdmin(dbConn))

	node, err := snowflake.NewNode(9)
	require.NoError(t, err)

	cfg := config.Config{
		Billing: config.BillingConfig{
			DefaultUnitPrice: 500,
			VATRatePercent:   11,
			IDRPerUSD:        15500,
			ReportingTZ:      "UTC",
		},
	}
	log := zaptest.NewLogger(t)
	clk := clock.Fixed(fixedNow)

	accounts := accountservice.New(accountservice.Params{
		DB: dbConn, Log: log, GenID: node, Repo: accountrepo.Provide(),
	})
	authsvc := authservice.New(authservice.Params{
		DB: dbConn, Log: log, GenID: node,
		Users: accountrepo.Provide(), Sessions: authrepo.Provide(),
	})
	smsSvc := smsservice.New(smsservice.Params{
		Cfg: cfg, DB: dbConn, Log: log, GenID: node, Clock: clk,
		Rand: rand.New(rand.NewSource(42)),
		Repo: smsrepo.Provide(), Accounts: accounts,
	})
	billingSvc := billingservice.New(billingservice.Params{
		Cfg: cfg, DB: dbConn, Log: log, Clock: clk,
		Repo: billingrepo.Provide(), SmsRepo: smsrepo.Provide(),
		TrxRepo: trxrepo.Provide(), Accounts: accounts,
	})
	invoiceSvc := invoiceservice.New(invoiceservice.Params{
		Cfg: cfg, DB: dbConn, Log: log, Clock: clk,
		Billing: billingSvc, Accounts: accounts,
		SmsRepo: smsrepo.Provide(), PDF: pdf.New(),
	})
	paymentSvc := paymentservice.New(paymentservice.Params{
		DB: dbConn, Log: log, GenID: node, Clock: clk,
		TrxRepo: trxrepo.Provide(), Accounts: accounts, AccRepo: accountrepo.Provide(),
		Mock: mock.New(), Poller: &e2ePoller{}, Checkout: &e2eCheckout{},
	})

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	NewServer(ServerParams{
		Gin:        engine,
		Cfg:        cfg,
		DB:         dbConn,
		GenID:      node,
		Clk:        clk,
		Sessions:   session.NewManager(cfg),
		Authsvc:    authsvc,
		Accounts:   accounts,
		SmsSvc:     smsSvc,
		BillingSvc: billingSvc,
		InvoiceSvc: invoiceSvc,
		PaymentSvc: paymentSvc,
		TrxRepo:    trxrepo.Provide(),
	})

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{
		srv:    srv,
		db:     dbConn,
		client: &http.Client{Jar: jar},
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func (e *testEnv) login(t *testing.T, email, password string) {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/auth/login", gin.H{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
}

func (e *testEnv) logout(t *testing.T) {
	t.Helper()
	resp, _ := e.do(t, http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func (e *testEnv) registerClient(t *testing.T, email string) string {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/auth/register", gin.H{
		"email":        email,
		"password":     "secret-password",
		"name":         "Test Client",
		"company_name": "PT Uji Coba",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var user struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &user))
	return user.ID
}

func TestBillingCycleEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	clientID := env.registerClient(t, "cycle@example.com")

	// Admin generates a month of traffic for the client.
	env.login(t, "admin@smscentra.local", "admin")
	resp, body := env.do(t, http.MethodPost, "/api/admin/generate-billing", gin.H{
		"client_id":            clientID,
		"count":                10,
		"unit_price":           1000,
		"start_offset_minutes": -120,
		"end_offset_minutes":   -10,
		"failed_percentage":    0,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var gen struct {
		Sent      int   `json:"sent"`
		Failed    int   `json:"failed"`
		TotalCost int64 `json:"total_cost"`
	}
	require.NoError(t, json.Unmarshal(body, &gen))
	assert.Equal(t, 10, gen.Sent)
	assert.Equal(t, 0, gen.Failed)
	assert.Equal(t, int64(10000), gen.TotalCost)
	env.logout(t)

	// Client sees the generated traffic as outstanding.
	env.login(t, "cycle@example.com", "secret-password")
	resp, body = env.do(t, http.MethodGet, "/api/client/summary?month=3&year=2026", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var summary struct {
		Billed      int64 `json:"billed"`
		Outstanding int64 `json:"outstanding"`
	}
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, int64(10000), summary.Billed)
	assert.Equal(t, int64(10000), summary.Outstanding)

	// Client pays the period through the checkout gateway.
	resp, body = env.do(t, http.MethodPost, "/api/client/summary/pay", gin.H{
		"month": 3, "year": 2026,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var created struct {
		Transaction struct {
			ReferenceID string `json:"reference_id"`
			Status      string `json:"status"`
		} `json:"transaction"`
		CheckoutURL string `json:"checkout_url"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created.Transaction.ReferenceID)
	assert.Equal(t, trxdomain.StatusPending, created.Transaction.Status)
	assert.Contains(t, created.CheckoutURL, "checkout")

	// Gateway confirms via the unauthenticated notify endpoint.
	resp, body = env.do(t, http.MethodPost, "/api/payment/notify", gin.H{
		"reference_id": created.Transaction.ReferenceID,
		"status_code":  1000,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	// The period is now settled.
	resp, body = env.do(t, http.MethodGet, "/api/client/summary?month=3&year=2026", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, int64(10000), summary.Billed)
	assert.Equal(t, int64(0), summary.Outstanding)

	// Paying a settled period is rejected.
	resp, _ = env.do(t, http.MethodPost, "/api/client/summary/pay", gin.H{
		"month": 3, "year": 2026,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTopUpFlow(t *testing.T) {
	env := newTestEnv(t)
	env.registerClient(t, "topup@example.com")
	env.login(t, "topup@example.com", "secret-password")

	resp, body := env.do(t, http.MethodPost, "/api/payment/create", gin.H{
		"amount": 50000, "description": "saldo awal",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var created struct {
		Transaction struct {
			ReferenceID string `json:"reference_id"`
		} `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(body, &created))

	resp, body = env.do(t, http.MethodPost, "/api/payment/notify", gin.H{
		"reference_id": created.Transaction.ReferenceID,
		"status":       "SUCCESS",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = env.do(t, http.MethodGet, "/api/client/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var stats struct {
		Balance int64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, int64(50000), stats.Balance)
}

func TestInvoicePDF(t *testing.T) {
	env := newTestEnv(t)
	clientID := env.registerClient(t, "pdf@example.com")

	env.login(t, "admin@smscentra.local", "admin")
	resp, _ := env.do(t, http.MethodPost, "/api/admin/generate-billing", gin.H{
		"client_id":            clientID,
		"count":                5,
		"unit_price":           500,
		"start_offset_minutes": -60,
		"end_offset_minutes":   0,
		"failed_percentage":    0,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env.logout(t)

	env.login(t, "pdf@example.com", "secret-password")
	resp, body := env.do(t, http.MethodGet, "/api/client/summary/invoice?month=3&year=2026", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	require.Greater(t, len(body), 4)
	assert.Equal(t, "%PDF", string(body[:4]))
}

func TestAuthGates(t *testing.T) {
	env := newTestEnv(t)
	env.registerClient(t, "gates@example.com")

	// No session at all.
	resp, _ := env.do(t, http.MethodGet, "/api/admin/clients", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = env.do(t, http.MethodGet, "/api/client/summary", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Clients cannot reach admin routes, admins cannot reach client routes.
	env.login(t, "gates@example.com", "secret-password")
	resp, _ = env.do(t, http.MethodGet, "/api/admin/clients", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	env.logout(t)

	env.login(t, "admin@smscentra.local", "admin")
	resp, _ = env.do(t, http.MethodGet, "/api/client/summary", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// A deactivated client is locked out of client routes.
	clientID := env.registerClient(t, "locked@example.com")
	resp, _ = env.do(t, http.MethodPost, "/api/admin/clients/toggle-status", gin.H{
		"client_id": clientID, "is_active": false,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env.logout(t)

	resp, body := env.do(t, http.MethodPost, "/auth/login", gin.H{
		"email": "locked@example.com", "password": "secret-password",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, string(body))
}

func TestValidationResponses(t *testing.T) {
	env := newTestEnv(t)
	clientID := env.registerClient(t, "valid@example.com")

	env.login(t, "admin@smscentra.local", "admin")

	cases := []struct {
		name string
		body gin.H
	}{
		{"zero count", gin.H{"client_id": clientID, "count": 0}},
		{"inverted window", gin.H{
			"client_id": clientID, "count": 5,
			"start_offset_minutes": 0, "end_offset_minutes": -60,
		}},
		{"negative percentage", gin.H{
			"client_id": clientID, "count": 5,
			"start_offset_minutes": -60, "end_offset_minutes": 0,
			"percentages": gin.H{"delivered": 110, "undelivered": -5, "failed": -5},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := env.do(t, http.MethodPost, "/api/admin/generate-billing", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))

			var payload struct {
				Error struct {
					Type string `json:"type"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(body, &payload))
			assert.Equal(t, "validation_error", payload.Error.Type)
		})
	}

	// Month out of range on the summary query.
	env.logout(t)
	env.login(t, "valid@example.com", "secret-password")
	resp, _ := env.do(t, http.MethodGet, "/api/client/summary?month=13&year=2026", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, fmt.Sprintf("/api/client/summary?month=2&year=%d", 1800), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminListings(t *testing.T) {
	env := newTestEnv(t)
	clientID := env.registerClient(t, "listing@example.com")

	env.login(t, "admin@smscentra.local", "admin")
	resp, _ := env.do(t, http.MethodPost, "/api/admin/generate-billing", gin.H{
		"client_id":            clientID,
		"count":                4,
		"start_offset_minutes": -60,
		"end_offset_minutes":   0,
		"failed_percentage":    50,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/api/admin/clients", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var clients struct {
		Clients []struct {
			SmsCount int64 `json:"sms_count"`
		} `json:"clients"`
	}
	require.NoError(t, json.Unmarshal(body, &clients))
	require.Len(t, clients.Clients, 1)
	assert.Equal(t, int64(4), clients.Clients[0].SmsCount)

	resp, body = env.do(t, http.MethodGet, "/api/admin/sms-logs?client_id="+clientID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var logs struct {
		Records []struct {
			Status string `json:"status"`
			Cost   int64  `json:"cost"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(body, &logs))
	require.Len(t, logs.Records, 4)

	var failed int
	for _, rec := range logs.Records {
		if rec.Status == smsdomain.StatusFailed {
			failed++
			assert.Equal(t, int64(0), rec.Cost)
		} else {
			assert.Equal(t, int64(500), rec.Cost)
		}
	}
	assert.Equal(t, 2, failed)

	resp, body = env.do(t, http.MethodGet, "/api/admin/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats struct {
		TotalClients int64 `json:"total_clients"`
		TotalSms     int64 `json:"total_sms"`
		TotalFailed  int64 `json:"total_failed"`
	}
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, int64(1), stats.TotalClients)
	assert.Equal(t, int64(4), stats.TotalSms)
	assert.Equal(t, int64(2), stats.TotalFailed)
}

func TestTransactionsPagination(t *testing.T) {
	env := newTestEnv(t)
	env.registerClient(t, "pages@example.com")
	env.login(t, "pages@example.com", "secret-password")

	for i := 0; i < 3; i++ {
		resp, _ := env.do(t, http.MethodPost, "/api/payment/create", gin.H{
			"amount": int64(10000 * (i + 1)),
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	type page struct {
		Transactions []struct {
			Amount int64 `json:"amount"`
		} `json:"transactions"`
		PageInfo struct {
			NextPageToken string `json:"next_page_token"`
			HasMore       bool   `json:"has_more"`
		} `json:"page_info"`
	}

	resp, body := env.do(t, http.MethodGet, "/api/client/transactions?page_size=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var first page
	require.NoError(t, json.Unmarshal(body, &first))
	require.Len(t, first.Transactions, 2)
	assert.True(t, first.PageInfo.HasMore)
	require.NotEmpty(t, first.PageInfo.NextPageToken)

	// Newest first: the last top-up comes back on the first page.
	assert.Equal(t, int64(30000), first.Transactions[0].Amount)

	resp, body = env.do(t, http.MethodGet, "/api/client/transactions?page_size=2&page_token="+url.QueryEscape(first.PageInfo.NextPageToken), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var second page
	require.NoError(t, json.Unmarshal(body, &second))
	require.Len(t, second.Transactions, 1)
	assert.False(t, second.PageInfo.HasMore)
	assert.Equal(t, int64(10000), second.Transactions[0].Amount)

	resp, _ = env.do(t, http.MethodGet, "/api/client/transactions?page_token=not-base64!!", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMePersistsAcrossRequests(t *testing.T) {
	env := newTestEnv(t)
	env.registerClient(t, "me@example.com")
	env.login(t, "me@example.com", "secret-password")

	resp, body := env.do(t, http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, "me@example.com", me.Email)
	assert.Equal(t, accountdomain.RoleClient, me.Role)

	env.logout(t)
	resp, _ = env.do(t, http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
