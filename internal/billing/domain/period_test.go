package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodWindow(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	p := Period{Month: 1, Year: 2026}
	from, to := p.Window(jakarta)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, jakarta), from)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, jakarta), to)

	// December rolls into the next year.
	p = Period{Month: 12, Year: 2025}
	from, to = p.Window(time.UTC)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), to)
}

func TestPeriodOfUsesLocation(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 18:00 UTC on Jan 31 is already Feb 1 in Jakarta (UTC+7).
	ts := time.Date(2026, 1, 31, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, Period{Month: 2, Year: 2026}, PeriodOf(ts, jakarta))
	assert.Equal(t, Period{Month: 1, Year: 2026}, PeriodOf(ts, time.UTC))
}

func TestNewPeriodValidation(t *testing.T) {
	_, err := NewPeriod(0, 2026)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	_, err = NewPeriod(13, 2026)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	_, err = NewPeriod(6, 1999)
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	p, err := NewPeriod(6, 2026)
	require.NoError(t, err)
	assert.Equal(t, "June 2026", p.Label())
	assert.Equal(t, "202606", p.Ref())
}
