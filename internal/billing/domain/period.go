// Package domain contains billing period and summary types.
package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid billing period")

// Period identifies a calendar billing month.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func NewPeriod(month, year int) (Period, error) {
	if month < 1 || month > 12 || year < 2000 || year > 9999 {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Month: month, Year: year}, nil
}

// PeriodOf returns the period containing t in the given location.
func PeriodOf(t time.Time, loc *time.Location) Period {
	local := t.In(loc)
	return Period{Month: int(local.Month()), Year: local.Year()}
}

// Window returns the half-open interval [start, end) covering the period's
// wall-clock month in loc.
func (p Period) Window(loc *time.Location) (time.Time, time.Time) {
	start := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// Label renders the period as "January 2026" for invoices and summaries.
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", time.Month(p.Month).String(), p.Year)
}

// Ref renders the period as "202601" for payment references.
func (p Period) Ref() string {
	return fmt.Sprintf("%04d%02d", p.Year, p.Month)
}

// SmsTotals summarizes a client's records inside one period.
type SmsTotals struct {
	Total  int64 `json:"total"`
	Sent   int64 `json:"sent"`
	Failed int64 `json:"failed"`
	Cost   int64 `json:"cost"`
}

// Summary is the aggregator output. Billed is derived from per-record cost,
// BilledFromTransactions is a cross-check against DEBIT rows.
type Summary struct {
	Period                 Period    `json:"period"`
	Sms                    SmsTotals `json:"sms"`
	Billed                 int64     `json:"billed"`
	BilledFromTransactions int64     `json:"billed_from_transactions"`
	PaidInPeriod           int64     `json:"paid_in_period"`
	Outstanding            int64     `json:"outstanding"`
	Currency               string    `json:"currency"`
}
