package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"stock_valuation/internal/app/di"
	"stock_valuation/internal/feature/valuation/domain/entity"
	"stock_valuation/internal/platform/logging"
)

// engine is what the price commands need from the valuation usecase.
type engine interface {
	CurrentPrice(ctx context.Context, code, currency string, shares int64, date time.Time) (int64, error)
	LastClose(ctx context.Context, sym entity.Symbol, baseDate time.Time) (decimal.Decimal, error)
}

// newEngine is replaced in tests.
var newEngine = func() engine {
	return di.NewValuationUsecase(logging.Setup())
}

var now = time.Now

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		code     string
		currency string
		shares   int64
		dateStr  string
		display  bool
	)

	cmd := &cobra.Command{
		Use:           "price",
		Short:         "Print the JPY value of a holding at the last close before a date",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if code == "" {
				return fmt.Errorf("missing --code (e.g. AMZN)")
			}
			date, err := resolveDate(dateStr)
			if err != nil {
				return err
			}

			amount, err := newEngine().CurrentPrice(cmd.Context(), code, currency, shares, date)
			if err != nil {
				return err
			}
			if display {
				fmt.Fprintln(out, money.New(amount, money.JPY).Display())
				return nil
			}
			fmt.Fprintln(out, amount)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "symbol, e.g. AMZN, 7203.T")
	cmd.Flags().StringVar(&currency, "currency", "USD", "ISO 4217 currency the symbol trades in")
	cmd.Flags().Int64Var(&shares, "shares", 1, "number of shares")
	cmd.Flags().StringVar(&dateStr, "date", "", "YYYY-MM-DD (JST); default yesterday")
	cmd.Flags().BoolVar(&display, "display", false, "print as ¥1,234 instead of a plain integer")

	cmd.AddCommand(newCloseCmd(out))
	return cmd
}

func newCloseCmd(out io.Writer) *cobra.Command {
	var (
		code    string
		dateStr string
	)

	cmd := &cobra.Command{
		Use:   "close",
		Short: "Print the last close on or before a date (FX pairs use the 20:00 UTC hourly close)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if code == "" {
				return fmt.Errorf("missing --code (e.g. USDJPY=X)")
			}
			date, err := resolveDate(dateStr)
			if err != nil {
				return err
			}

			price, err := newEngine().LastClose(cmd.Context(), entity.ParseSymbol(code), date.AddDate(0, 0, 1))
			if err != nil {
				return err
			}
			fmt.Fprintln(out, price.StringFixed(entity.PricePlaces))
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "symbol, e.g. USDJPY=X")
	cmd.Flags().StringVar(&dateStr, "date", "", "YYYY-MM-DD (JST); default yesterday")
	return cmd
}

func resolveDate(s string) (time.Time, error) {
	if s == "" {
		return entity.Yesterday(now()), nil
	}
	return entity.ParseDate(s)
}
