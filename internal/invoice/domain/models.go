// Package domain contains invoice document types.
package domain

import (
	"context"
	"io"

	"github.com/bwmarrin/snowflake"
	billing "github.com/smscentra/portal/internal/billing/domain"
)

// Line is a summary row on the invoice. Amounts are whole IDR for IDR
// invoices and cents for USD invoices.
type Line struct {
	Description string `json:"description"`
	Qty         int64  `json:"qty"`
	UnitPrice   int64  `json:"unit_price"`
	Amount      int64  `json:"amount"`
}

// Document is the fully computed invoice. It is derived from the billing
// summary and the client profile only; rendering must not recompute money.
type Document struct {
	InvoiceNumber string         `json:"invoice_number"`
	CompanyName   string         `json:"company_name"`
	Address       string         `json:"address"`
	Email         string         `json:"email"`
	Period        billing.Period `json:"period"`
	Currency      string         `json:"currency"`

	BaseTotal  int64 `json:"base_total"`
	PPN        int64 `json:"ppn"`
	DPPLain    int64 `json:"dpp_lain"`
	GrandTotal int64 `json:"grand_total"`

	AmountInWordsEN string `json:"amount_in_words_en"`
	AmountInWordsID string `json:"amount_in_words_id"`

	Lines []Line `json:"lines"`
}

type Service interface {
	Build(ctx context.Context, clientID snowflake.ID, period billing.Period) (*Document, error)
	RenderPDF(ctx context.Context, clientID snowflake.ID, period billing.Period) (io.Reader, error)
}
