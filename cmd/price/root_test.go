package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_valuation/internal/feature/valuation/domain/entity"
)

type fakeEngine struct {
	code     string
	currency string
	shares   int64
	date     time.Time
	sym      entity.Symbol
	err      error
}

func (f *fakeEngine) CurrentPrice(ctx context.Context, code, currency string, shares int64, date time.Time) (int64, error) {
	f.code, f.currency, f.shares, f.date = code, currency, shares, date
	return 763812, f.err
}

func (f *fakeEngine) LastClose(ctx context.Context, sym entity.Symbol, baseDate time.Time) (decimal.Decimal, error) {
	f.sym, f.date = sym, baseDate
	return decimal.RequireFromString("125.8"), f.err
}

// The commands swap package-level hooks, so these tests do not run in parallel.
func run(t *testing.T, f *fakeEngine, args ...string) (string, error) {
	t.Helper()

	origEngine, origNow := newEngine, now
	t.Cleanup(func() { newEngine, now = origEngine, origNow })
	newEngine = func() engine { return f }
	now = func() time.Time { return time.Date(2022, 4, 16, 1, 0, 0, 0, time.UTC) }

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPriceCmd(t *testing.T) {
	f := &fakeEngine{}

	out, err := run(t, f, "--code", "AMZN", "--currency", "USD", "--shares", "2", "--date", "2022-04-15")

	require.NoError(t, err)
	assert.Equal(t, "763812\n", out)
	assert.Equal(t, "AMZN", f.code)
	assert.Equal(t, "USD", f.currency)
	assert.Equal(t, int64(2), f.shares)
	assert.Equal(t, time.Date(2022, 4, 14, 15, 0, 0, 0, time.UTC), f.date.UTC())
}

func TestPriceCmd_DefaultsAndDisplay(t *testing.T) {
	f := &fakeEngine{}

	out, err := run(t, f, "--code", "AMZN", "--display")

	require.NoError(t, err)
	assert.Equal(t, "¥763,812\n", out)
	assert.Equal(t, "USD", f.currency)
	assert.Equal(t, int64(1), f.shares)
	assert.Equal(t, "2022-04-15", f.date.Format(time.DateOnly))
}

func TestPriceCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		engine  *fakeEngine
		wantErr string
	}{
		{"missing code", []string{}, &fakeEngine{}, "missing --code"},
		{"bad date", []string{"--code", "AMZN", "--date", "04/15/2022"}, &fakeEngine{}, "invalid date"},
		{"engine error", []string{"--code", "AMZN"}, &fakeEngine{err: errors.New("AMZN data is not found")}, "AMZN data is not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.engine, tt.args...)

			assert.ErrorContains(t, err, tt.wantErr)
			assert.Empty(t, out)
		})
	}
}

func TestCloseCmd(t *testing.T) {
	f := &fakeEngine{}

	out, err := run(t, f, "close", "--code", "USDJPY=X", "--date", "2022-04-14")

	require.NoError(t, err)
	assert.Equal(t, "125.80\n", out)
	assert.Equal(t, entity.FXPair, f.sym.Kind)
	assert.Equal(t, "2022-04-15", f.date.Format(time.DateOnly))
}
