package service

import (
	"context"
	"fmt"
	"io"

	"github.com/bwmarrin/snowflake"
	account "github.com/smscentra/portal/internal/account/domain"
	billing "github.com/smscentra/portal/internal/billing/domain"
	"github.com/smscentra/portal/internal/clock"
	"github.com/smscentra/portal/internal/config"
	"github.com/smscentra/portal/internal/invoice/domain"
	"github.com/smscentra/portal/internal/invoice/format"
	"github.com/smscentra/portal/internal/providers/pdf"
	smsrepo "github.com/smscentra/portal/internal/sms/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg      config.Config
	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Billing  billing.Service
	Accounts account.Service
	SmsRepo  smsrepo.Repository
	PDF      pdf.Provider
}

type Service struct {
	cfg      config.Config
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	billing  billing.Service
	accounts account.Service
	smsRepo  smsrepo.Repository
	pdf      pdf.Provider
}

func New(p Params) domain.Service {
	return &Service{
		cfg:      p.Cfg,
		db:       p.DB,
		log:      p.Log.Named("invoice.service"),
		clock:    p.Clock,
		billing:  p.Billing,
		accounts: p.Accounts,
		smsRepo:  p.SmsRepo,
		pdf:      p.PDF,
	}
}

// Build derives the invoice from the billing summary and client profile.
// All money math happens here; rendering only formats the result.
func (s *Service) Build(ctx context.Context, clientID snowflake.ID, period billing.Period) (*domain.Document, error) {
	client, err := s.accounts.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client.Role != account.RoleClient || client.Profile == nil {
		return nil, account.ErrNotClient
	}

	summary, err := s.billing.Summarize(ctx, clientID, period)
	if err != nil {
		return nil, err
	}

	currency := client.Profile.Currency
	doc := &domain.Document{
		InvoiceNumber: fmt.Sprintf("INV-%s-%06d", period.Ref(), clientID%1_000_000),
		CompanyName:   client.Profile.CompanyName,
		Address:       client.Profile.Address,
		Email:         client.Email,
		Period:        period,
		Currency:      currency,
	}

	if currency == account.CurrencyUSD {
		// Converted invoices carry no Indonesian VAT lines, only the
		// fixed-rate conversion of the IDR bill.
		doc.BaseTotal = format.IDRToUSDCents(summary.Billed, s.cfg.Billing.IDRPerUSD)
		doc.GrandTotal = doc.BaseTotal
	} else {
		doc.BaseTotal = summary.Billed
		doc.PPN = format.VAT(doc.BaseTotal, s.cfg.Billing.VATRatePercent)
		doc.DPPLain = format.DPPLain(doc.BaseTotal)
		doc.GrandTotal = doc.BaseTotal + doc.PPN
	}

	doc.AmountInWordsEN = format.AmountInWordsEN(doc.GrandTotal, currency)
	doc.AmountInWordsID = format.AmountInWordsID(doc.GrandTotal, currency)

	if summary.Sms.Sent > 0 {
		unit := summary.Billed / summary.Sms.Sent
		amount := doc.BaseTotal
		if currency == account.CurrencyUSD {
			unit = format.IDRToUSDCents(unit, s.cfg.Billing.IDRPerUSD)
		}
		doc.Lines = append(doc.Lines, domain.Line{
			Description: fmt.Sprintf("SMS delivery, %s", period.Label()),
			Qty:         summary.Sms.Sent,
			UnitPrice:   unit,
			Amount:      amount,
		})
	}

	return doc, nil
}

func (s *Service) RenderPDF(ctx context.Context, clientID snowflake.ID, period billing.Period) (io.Reader, error) {
	doc, err := s.Build(ctx, clientID, period)
	if err != nil {
		return nil, err
	}

	from, to := period.Window(s.cfg.Billing.ReportingLocation())
	records, err := s.smsRepo.List(ctx, s.db, smsrepo.ListFilter{
		UserID: clientID,
		From:   from,
		To:     to,
		Limit:  100,
	})
	if err != nil {
		return nil, err
	}

	data := pdf.InvoiceData{
		InvoiceNumber:   doc.InvoiceNumber,
		IssueDate:       s.clock.Now().In(s.cfg.Billing.ReportingLocation()).Format("02 Jan 2006"),
		ServicePeriod:   period.Label(),
		CompanyName:     doc.CompanyName,
		Address:         doc.Address,
		Email:           doc.Email,
		Subtotal:        format.FormatMoney(doc.BaseTotal, doc.Currency),
		GrandTotal:      format.FormatMoney(doc.GrandTotal, doc.Currency),
		AmountInWordsEN: doc.AmountInWordsEN,
		AmountInWordsID: doc.AmountInWordsID,
	}
	if doc.Currency != account.CurrencyUSD {
		data.VATLabel = fmt.Sprintf("PPN %d%%", s.cfg.Billing.VATRatePercent)
		data.VAT = format.FormatIDR(doc.PPN)
		data.DPPLainLabel = "DPP Nilai Lain"
		data.DPPLain = format.FormatIDR(doc.DPPLain)
	}
	for _, line := range doc.Lines {
		data.Items = append(data.Items, pdf.InvoiceItem{
			Description: line.Description,
			Qty:         line.Qty,
			UnitPrice:   format.FormatMoney(line.UnitPrice, doc.Currency),
			Amount:      format.FormatMoney(line.Amount, doc.Currency),
		})
	}
	for _, rec := range records {
		sentAt := ""
		if rec.SentAt != nil {
			sentAt = rec.SentAt.In(s.cfg.Billing.ReportingLocation()).Format("02 Jan 15:04")
		}
		data.Details = append(data.Details, pdf.DetailRow{
			SentAt:      sentAt,
			PhoneNumber: rec.PhoneNumber,
			Status:      rec.Status,
			Cost:        format.FormatIDR(rec.Cost),
		})
	}

	return s.pdf.GenerateInvoice(ctx, data)
}
