package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// maxDetailRows caps the per-message detail table so a large generation run
// does not produce a hundred-page invoice.
const maxDetailRows = 100

type InvoiceData struct {
	InvoiceNumber string
	IssueDate     string
	ServicePeriod string

	CompanyName string
	Address     string
	Email       string

	Items []InvoiceItem

	Subtotal        string
	VATLabel        string // empty hides the VAT row
	VAT             string
	DPPLainLabel    string // empty hides the DPP row
	DPPLain         string
	GrandTotal      string
	AmountInWordsEN string
	AmountInWordsID string

	Details []DetailRow
}

type InvoiceItem struct {
	Description string
	Qty         int64
	UnitPrice   string
	Amount      string
}

// DetailRow is one delivered message on the detail table.
type DetailRow struct {
	SentAt      string
	PhoneNumber string
	Status      string
	Cost        string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateInvoice(ctx context.Context, invoice InvoiceData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Invoice", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(16,
		col.New(6).Add(
			text.New("Invoice number: "+invoice.InvoiceNumber, props.Text{Top: 0}),
			text.New("Date of issue: "+invoice.IssueDate, props.Text{Top: 4}),
			text.New("Service period: "+invoice.ServicePeriod, props.Text{Top: 8}),
		),
		col.New(6),
	)

	m.AddRow(24,
		col.New(6).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold}),
			text.New(invoice.CompanyName, props.Text{Top: 5}),
			text.New(invoice.Address, props.Text{Top: 9}),
			text.New(invoice.Email, props.Text{Top: 13}),
		),
		col.New(6),
	)

	m.AddRow(10,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range invoice.Items {
		m.AddRow(10,
			text.NewCol(6, item.Description, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", item.Qty), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, invoice.Subtotal, props.Text{Size: 9, Align: align.Right}),
	)
	if invoice.DPPLainLabel != "" {
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, invoice.DPPLainLabel, props.Text{Size: 9}),
			text.NewCol(2, invoice.DPPLain, props.Text{Size: 9, Align: align.Right}),
		)
	}
	if invoice.VATLabel != "" {
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, invoice.VATLabel, props.Text{Size: 9}),
			text.NewCol(2, invoice.VAT, props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Grand total", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, invoice.GrandTotal, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	m.AddRow(14, col.New(12).Add(
		text.New("In words: "+invoice.AmountInWordsEN, props.Text{Size: 8}),
		text.New("Terbilang: "+invoice.AmountInWordsID, props.Text{Size: 8, Top: 4}),
	))

	if len(invoice.Details) > 0 {
		details := invoice.Details
		if len(details) > maxDetailRows {
			details = details[:maxDetailRows]
		}

		m.AddRow(10,
			text.NewCol(12, "Message detail", props.Text{Style: fontstyle.Bold, Size: 10, Top: 2}),
		)
		m.AddRow(8,
			text.NewCol(4, "Sent at", props.Text{Style: fontstyle.Bold, Size: 8}),
			text.NewCol(4, "Phone", props.Text{Style: fontstyle.Bold, Size: 8}),
			text.NewCol(2, "Status", props.Text{Style: fontstyle.Bold, Size: 8}),
			text.NewCol(2, "Cost", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
		)
		for _, row := range details {
			m.AddRow(6,
				text.NewCol(4, row.SentAt, props.Text{Size: 8}),
				text.NewCol(4, row.PhoneNumber, props.Text{Size: 8}),
				text.NewCol(2, row.Status, props.Text{Size: 8}),
				text.NewCol(2, row.Cost, props.Text{Size: 8, Align: align.Right}),
			)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
