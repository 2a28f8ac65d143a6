// Package handler はvaluationフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"stock_valuation/internal/feature/valuation/domain"
	"stock_valuation/internal/feature/valuation/domain/entity"
	"stock_valuation/internal/feature/valuation/transport/http/dto"
)

// ValuationUsecase は評価額と終値を解決するユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ValuationUsecase interface {
	Valuate(ctx context.Context, code, currency string, shares int64, date time.Time) (entity.Valuation, error)
	LastClose(ctx context.Context, sym entity.Symbol, baseDate time.Time) (decimal.Decimal, error)
}

// ValuationHandler は評価額・終値のHTTPリクエストを処理します。
type ValuationHandler struct {
	uc  ValuationUsecase
	now func() time.Time
}

// NewValuationHandler は指定されたusecaseでValuationHandlerの新しいインスタンスを生成します。
func NewValuationHandler(uc ValuationUsecase) *ValuationHandler {
	return &ValuationHandler{uc: uc, now: time.Now}
}

// WithClock replaces the clock used for the default date.
func (h *ValuationHandler) WithClock(now func() time.Time) *ValuationHandler {
	h.now = now
	return h
}

// GetValuation は保有株数の円建て評価額を内訳付きで返します。
//
// エンドポイント例:
// GET /valuations/:code?currency=USD&shares=2&date=2022-04-15
func (h *ValuationHandler) GetValuation(c *gin.Context) {
	code := c.Param("code")
	// 未指定の場合はデフォルト値を使用
	currency := c.DefaultQuery("currency", "USD")
	shares, err := strconv.ParseInt(c.DefaultQuery("shares", "1"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid shares"})
		return
	}
	date, ok := h.date(c)
	if !ok {
		return
	}

	v, err := h.uc.Valuate(c.Request.Context(), code, currency, shares, date)
	if err != nil {
		h.fail(c, code, err)
		return
	}

	c.JSON(http.StatusOK, dto.ValuationResponse{
		Code:     v.Symbol.Code,
		Kind:     v.Symbol.Kind.String(),
		Currency: v.Currency,
		Shares:   v.Shares,
		BaseDate: v.BaseDate.Format(time.DateOnly),
		Price:    v.Price,
		Rate:     v.Rate,
		Amount:   v.Amount,
		Display:  money.New(v.Amount, money.JPY).Display(),
	})
}

// GetClose は指定日（未指定なら前日）までで直近の終値を返します。
//
// エンドポイント例:
// GET /closes/:code?date=2022-04-15
func (h *ValuationHandler) GetClose(c *gin.Context) {
	sym := entity.ParseSymbol(c.Param("code"))
	date, ok := h.date(c)
	if !ok {
		return
	}

	// 評価額と同じく翌日を基準日にする
	price, err := h.uc.LastClose(c.Request.Context(), sym, date.AddDate(0, 0, 1))
	if err != nil {
		h.fail(c, sym.Code, err)
		return
	}

	c.JSON(http.StatusOK, dto.CloseResponse{
		Code:  sym.Code,
		Date:  date.Format(time.DateOnly),
		Close: price,
	})
}

func (h *ValuationHandler) date(c *gin.Context) (time.Time, bool) {
	s := c.Query("date")
	if s == "" {
		return entity.Yesterday(h.now()), true
	}
	d, err := entity.ParseDate(s)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return d, true
}

func (h *ValuationHandler) fail(c *gin.Context, code string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("valuation failed", "symbol", code, "error", err)
	} else {
		slog.Warn("valuation rejected", "symbol", code, "error", err)
	}
	c.JSON(status, dto.ErrorResponse{Error: err.Error()})
}

// StatusFor maps valuation errors to HTTP status codes.
func StatusFor(err error) int {
	var pe *domain.ProviderError
	switch {
	case errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidShares),
		errors.Is(err, domain.ErrInvalidFrequency),
		errors.Is(err, domain.ErrInvalidPeriodType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDataNotFound):
		return http.StatusNotFound
	case errors.As(err, &pe):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
