// Package usecase implements the historical close resolution and valuation engine.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"stock_valuation/internal/feature/valuation/domain"
	"stock_valuation/internal/feature/valuation/domain/entity"
)

const (
	// ReportingCurrency は評価額の通貨です。
	ReportingCurrency = money.JPY

	// MaxAttempts is the bound of the backward search: the initial date plus 5 retries.
	MaxAttempts = 6

	// fxCloseHourUTC はFXペアの終値として採用する時刻（UTC）です。
	// ニューヨーク 16:00 EDT (UTC-4) => 20:00 UTC。夏時間の補正はしません。
	fxCloseHourUTC = 20
)

// maxAmount は int64 で表せる評価額の上限です。
var maxAmount = decimal.NewFromInt(math.MaxInt64)

// MarketRepository は時系列データの取得元を抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	// FetchWindow returns domain.ErrNoData when the provider has no series for the window.
	FetchWindow(ctx context.Context, q entity.SeriesQuery) (entity.Series, error)
}

// ValuationUsecase は終値の解決と円建て評価額の計算を行います。
// 状態を持たないため、複数のgoroutineから同時に利用できます。
type ValuationUsecase struct {
	market MarketRepository
	log    *slog.Logger
}

// Option configures a ValuationUsecase.
type Option func(*ValuationUsecase)

// WithLogger sets the logger used for retry and exhaustion messages.
func WithLogger(l *slog.Logger) Option {
	return func(u *ValuationUsecase) {
		if l != nil {
			u.log = l
		}
	}
}

// NewValuationUsecase は新しい ValuationUsecase を作成します。
func NewValuationUsecase(market MarketRepository, opts ...Option) *ValuationUsecase {
	u := &ValuationUsecase{market: market, log: slog.Default()}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// LastClose は基準日時点の終値を小数第2位で四捨五入して返します。
//
// データがない日（休日、週末、プロバイダの欠損）は1日ずつ遡って再検索し、
// MaxAttempts 回で見つからなければ *domain.DataNotFoundError を返します。
// ProviderError などデータ欠損以外のエラーはリトライせず即座に返します。
func (u *ValuationUsecase) LastClose(ctx context.Context, sym entity.Symbol, baseDate time.Time) (decimal.Decimal, error) {
	date := baseDate
	for attempt := 0; ; attempt++ {
		price, err := u.closeOn(ctx, sym, date)
		if err == nil {
			return entity.RoundHalfUp(price, entity.PricePlaces), nil
		}
		if !errors.Is(err, domain.ErrNoData) {
			return decimal.Zero, err
		}

		if attempt+1 >= MaxAttempts {
			u.log.Error("data is not found, stopped",
				"symbol", sym.Code, "date", baseDate.Format(time.DateOnly), "attempts", attempt+1)
			return decimal.Zero, &domain.DataNotFoundError{Symbol: sym.Code, Date: baseDate, Attempts: attempt + 1}
		}
		if err := ctx.Err(); err != nil {
			return decimal.Zero, err
		}
		u.log.Debug("data is not found, retrying",
			"symbol", sym.Code, "date", date.Format(time.DateOnly), "attempt", attempt)
		date = date.AddDate(0, 0, -1)
	}
}

// closeOn fetches the close for exactly one date, or domain.ErrNoData.
func (u *ValuationUsecase) closeOn(ctx context.Context, sym entity.Symbol, date time.Time) (decimal.Decimal, error) {
	q := entity.SeriesQuery{
		Symbol:        sym.Code,
		PeriodType:    entity.PeriodDay,
		Period:        1,
		FrequencyType: entity.FrequencyDay,
		Frequency:     1,
		BaseDate:      date,
	}
	if sym.IsFXPair() {
		q.FrequencyType = entity.FrequencyHour
	}

	series, err := u.market.FetchWindow(ctx, q)
	if err != nil {
		return decimal.Zero, err
	}

	switch sym.Kind {
	case entity.FXPair:
		return fxClose(series)
	default:
		return equityClose(series)
	}
}

// fxClose は20:00 UTCの1時間足の終値を返します。
func fxClose(series entity.Series) (decimal.Decimal, error) {
	for _, c := range series {
		if c.Time().Hour() != fxCloseHourUTC {
			continue
		}
		if !c.Close.Valid {
			break
		}
		return c.Close.Decimal, nil
	}
	return decimal.Zero, domain.ErrNoData
}

// equityClose returns the close of the first daily candle.
func equityClose(series entity.Series) (decimal.Decimal, error) {
	if len(series) == 0 || !series[0].Close.Valid {
		return decimal.Zero, domain.ErrNoData
	}
	return series[0].Close.Decimal, nil
}

// Valuate は保有株数の円建て評価額を内訳付きで計算します。
//
// 終値は date の翌日を基準日として解決します（呼び出し側は希望する終値の前日を渡す）。
// 通貨が JPY 以外の場合は "<CCY>JPY=X" の終値を為替レートとして同じ検索で解決し、
// JPY の場合はレートを厳密に 1 としてFXの取得は行いません。
// 評価額 = round(price × rate, 0) × shares（丸めは掛け算の前に1回だけ）。
func (u *ValuationUsecase) Valuate(ctx context.Context, code, currency string, shares int64, date time.Time) (entity.Valuation, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if money.GetCurrency(currency) == nil {
		return entity.Valuation{}, fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, currency)
	}
	if shares < 0 {
		return entity.Valuation{}, fmt.Errorf("%w: %d", domain.ErrInvalidShares, shares)
	}

	sym := entity.ParseSymbol(code)
	baseDate := date.AddDate(0, 0, 1)
	u.log.Debug("valuate", "symbol", sym.Code, "currency", currency, "shares", shares, "date", date.Format(time.DateOnly))

	price, err := u.LastClose(ctx, sym, baseDate)
	if err != nil {
		return entity.Valuation{}, fmt.Errorf("last close of %s: %w", sym.Code, err)
	}

	rate := decimal.NewFromInt(1)
	if currency != ReportingCurrency {
		pair := entity.NewFXPair(currency, ReportingCurrency)
		rate, err = u.LastClose(ctx, pair, baseDate)
		if err != nil {
			return entity.Valuation{}, fmt.Errorf("rate of %s: %w", pair.Code, err)
		}
	}

	unit := entity.RoundHalfUp(price.Mul(rate), entity.AmountPlaces)
	amount := unit.Mul(decimal.NewFromInt(shares))
	if amount.Abs().GreaterThan(maxAmount) {
		return entity.Valuation{}, fmt.Errorf("%w: %d shares overflow the JPY amount", domain.ErrInvalidShares, shares)
	}
	v := entity.Valuation{
		Symbol:   sym,
		Currency: currency,
		Shares:   shares,
		BaseDate: baseDate,
		Price:    price,
		Rate:     rate,
		Amount:   amount.IntPart(),
	}
	u.log.Debug("valuated", "symbol", sym.Code, "price", price.String(), "rate", rate.String(),
		"shares", shares, "amount", v.Amount)
	return v, nil
}

// CurrentPrice は保有株数の円建て評価額（整数）を返します。
func (u *ValuationUsecase) CurrentPrice(ctx context.Context, code, currency string, shares int64, date time.Time) (int64, error) {
	v, err := u.Valuate(ctx, code, currency, shares, date)
	if err != nil {
		return 0, err
	}
	return v.Amount, nil
}
