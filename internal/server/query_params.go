package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/smscentra/portal/internal/billing/domain"
)

// periodQuery resolves the month/year query pair, defaulting to the
// current reporting period when both are absent.
func (s *Server) periodQuery(c *gin.Context) (billingdomain.Period, error) {
	rawMonth := strings.TrimSpace(c.Query("month"))
	rawYear := strings.TrimSpace(c.Query("year"))

	if rawMonth == "" && rawYear == "" {
		return billingdomain.PeriodOf(s.clk.Now(), s.cfg.Billing.ReportingLocation()), nil
	}

	month, err := strconv.Atoi(rawMonth)
	if err != nil {
		return billingdomain.Period{}, newValidationError("month", "invalid_month", "month must be a number between 1 and 12")
	}
	year, err := strconv.Atoi(rawYear)
	if err != nil {
		return billingdomain.Period{}, newValidationError("year", "invalid_year", "year must be a four digit number")
	}

	period, err := billingdomain.NewPeriod(month, year)
	if err != nil {
		return billingdomain.Period{}, err
	}
	return period, nil
}

func parseOptionalInt(value string, def int) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed < 0 {
		return 0, newValidationError("limit", "invalid_limit", "limit must be a non-negative number")
	}
	return parsed, nil
}
