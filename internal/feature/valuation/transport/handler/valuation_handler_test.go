package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"stock_valuation/internal/feature/valuation/domain"
	"stock_valuation/internal/feature/valuation/domain/entity"
	"stock_valuation/internal/feature/valuation/transport/handler"
)

// mockValuationUsecase はValuationUsecaseインターフェースのモック実装です。
type mockValuationUsecase struct {
	ValuateFunc   func(ctx context.Context, code, currency string, shares int64, date time.Time) (entity.Valuation, error)
	LastCloseFunc func(ctx context.Context, sym entity.Symbol, baseDate time.Time) (decimal.Decimal, error)
}

func (m *mockValuationUsecase) Valuate(ctx context.Context, code, currency string, shares int64, date time.Time) (entity.Valuation, error) {
	return m.ValuateFunc(ctx, code, currency, shares, date)
}

func (m *mockValuationUsecase) LastClose(ctx context.Context, sym entity.Symbol, baseDate time.Time) (decimal.Decimal, error) {
	return m.LastCloseFunc(ctx, sym, baseDate)
}

// テスト用の固定時刻 (2022-04-16 10:00 JST)
var fixedNow = time.Date(2022, 4, 16, 1, 0, 0, 0, time.UTC)

func newRouter(uc handler.ValuationUsecase) *gin.Engine {
	h := handler.NewValuationHandler(uc).WithClock(func() time.Time { return fixedNow })
	router := gin.New()
	router.GET("/valuations/:code", h.GetValuation)
	router.GET("/closes/:code", h.GetClose)
	return router
}

// TestValuationHandler_GetValuation はGetValuationのHTTPリクエスト/レスポンス処理をテストします。
func TestValuationHandler_GetValuation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		url            string
		mockValuate    func(ctx context.Context, code, currency string, shares int64, date time.Time) (entity.Valuation, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: all parameters specified",
			url:  "/valuations/AMZN?currency=USD&shares=2&date=2022-04-15",
			mockValuate: func(ctx context.Context, code, currency string, shares int64, date time.Time) (entity.Valuation, error) {
				assert.Equal(t, "AMZN", code)
				assert.Equal(t, "USD", currency)
				assert.Equal(t, int64(2), shares)
				assert.Equal(t, "2022-04-15", date.Format(time.DateOnly))
				return entity.Valuation{
					Symbol:   entity.ParseSymbol("AMZN"),
					Currency: "USD",
					Shares:   2,
					BaseDate: date.AddDate(0, 0, 1),
					Price:    decimal.RequireFromString("3034.13"),
					Rate:     decimal.RequireFromString("125.87"),
					Amount:   763812,
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"code":"AMZN","kind":"equity","currency":"USD","shares":2,"base_date":"2022-04-16",
				"price":"3034.13","rate":"125.87","amount":763812,"display":"¥763,812"}`,
		},
		{
			name: "success: default parameter values",
			url:  "/valuations/7203.T",
			mockValuate: func(ctx context.Context, code, currency string, shares int64, date time.Time) (entity.Valuation, error) {
				assert.Equal(t, "USD", currency)  // デフォルト値
				assert.Equal(t, int64(1), shares) // デフォルト値
				assert.Equal(t, "2022-04-15", date.Format(time.DateOnly))
				return entity.Valuation{
					Symbol:   entity.ParseSymbol(code),
					Currency: currency,
					Shares:   shares,
					BaseDate: date.AddDate(0, 0, 1),
					Price:    decimal.NewFromInt(10),
					Rate:     decimal.NewFromInt(1),
					Amount:   10,
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"code":"7203.T","kind":"equity","currency":"USD","shares":1,"base_date":"2022-04-16",
				"price":"10","rate":"1","amount":10,"display":"¥10"}`,
		},
		{
			name:           "error: shares is not a number",
			url:            "/valuations/AMZN?shares=two",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid shares"}`,
		},
		{
			name:           "error: malformed date",
			url:            "/valuations/AMZN?date=15-04-2022",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid date, expected YYYY-MM-DD"}`,
		},
		{
			name: "error: invalid currency",
			url:  "/valuations/AMZN?currency=XYZ",
			mockValuate: func(ctx context.Context, code, currency string, shares int64, date time.Time) (entity.Valuation, error) {
				return entity.Valuation{}, fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, currency)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid currency: \"XYZ\""}`,
		},
		{
			name: "error: data not found after retries",
			url:  "/valuations/GONE",
			mockValuate: func(ctx context.Context, code, currency string, shares int64, date time.Time) (entity.Valuation, error) {
				return entity.Valuation{}, fmt.Errorf("last close of GONE: %w",
					&domain.DataNotFoundError{Symbol: "GONE", Date: date.AddDate(0, 0, 1), Attempts: 6})
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"last close of GONE: GONE data is not found: 2022-04-16, 6 attempts"}`,
		},
		{
			name: "error: provider error",
			url:  "/valuations/AMZN",
			mockValuate: func(ctx context.Context, code, currency string, shares int64, date time.Time) (entity.Valuation, error) {
				return entity.Valuation{}, &domain.ProviderError{StatusCode: 429}
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"provider http 429"}`,
		},
		{
			name: "error: unexpected",
			url:  "/valuations/AMZN",
			mockValuate: func(ctx context.Context, code, currency string, shares int64, date time.Time) (entity.Valuation, error) {
				return entity.Valuation{}, errors.New("boom")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"boom"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockValuationUsecase{
				ValuateFunc: func(ctx context.Context, code, currency string, shares int64, date time.Time) (entity.Valuation, error) {
					if tt.mockValuate == nil {
						t.Fatal("usecase must not be called")
					}
					return tt.mockValuate(ctx, code, currency, shares, date)
				},
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			newRouter(mockUC).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestValuationHandler_GetClose はGetCloseが指定日の翌日を基準日として検索することを検証します。
func TestValuationHandler_GetClose(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		mockUC := &mockValuationUsecase{
			LastCloseFunc: func(ctx context.Context, sym entity.Symbol, baseDate time.Time) (decimal.Decimal, error) {
				assert.Equal(t, entity.FXPair, sym.Kind)
				assert.Equal(t, "USDJPY=X", sym.Code)
				assert.Equal(t, "2022-04-15", baseDate.Format(time.DateOnly))
				return decimal.RequireFromString("125.87"), nil
			},
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/closes/USDJPY=X?date=2022-04-14", nil)
		newRouter(mockUC).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"code":"USDJPY=X","date":"2022-04-14","close":"125.87"}`, w.Body.String())
	})

	t.Run("default date is yesterday in JST", func(t *testing.T) {
		mockUC := &mockValuationUsecase{
			LastCloseFunc: func(ctx context.Context, sym entity.Symbol, baseDate time.Time) (decimal.Decimal, error) {
				assert.Equal(t, "2022-04-16", baseDate.In(entity.JST).Format(time.DateOnly))
				return decimal.NewFromInt(1), nil
			},
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/closes/AMZN", nil)
		newRouter(mockUC).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"code":"AMZN","date":"2022-04-15","close":"1"}`, w.Body.String())
	})

	t.Run("data not found", func(t *testing.T) {
		mockUC := &mockValuationUsecase{
			LastCloseFunc: func(ctx context.Context, sym entity.Symbol, baseDate time.Time) (decimal.Decimal, error) {
				return decimal.Zero, &domain.DataNotFoundError{Symbol: sym.Code, Date: baseDate, Attempts: 6}
			},
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/closes/AMZN?date=2022-04-14", nil)
		newRouter(mockUC).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid shares", domain.ErrInvalidShares, http.StatusBadRequest},
		{"invalid frequency", fmt.Errorf("wrap: %w", domain.ErrInvalidFrequency), http.StatusBadRequest},
		{"invalid period type", domain.ErrInvalidPeriodType, http.StatusBadRequest},
		{"not found", &domain.DataNotFoundError{Symbol: "X"}, http.StatusNotFound},
		{"provider", fmt.Errorf("rate of USDJPY=X: %w", &domain.ProviderError{Code: "Not Found"}), http.StatusBadGateway},
		{"canceled", context.Canceled, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, handler.StatusFor(tt.err))
		})
	}
}
