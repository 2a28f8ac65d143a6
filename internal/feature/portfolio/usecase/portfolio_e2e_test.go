package usecase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_valuation/internal/feature/portfolio/domain/entity"
	"stock_valuation/internal/feature/portfolio/usecase"
	valuationusecase "stock_valuation/internal/feature/valuation/usecase"
	"stock_valuation/internal/platform/externalapi/yahoo"
)

type chartCandle struct {
	ts    int64
	close float64
}

// chartServer は period1〜period2 に含まれる足だけを返す chart API のテストサーバーです。
type chartServer struct {
	mu       sync.Mutex
	candles  map[string][]chartCandle
	period2s map[string][]int64
}

func (s *chartServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	p1, _ := strconv.ParseInt(r.URL.Query().Get("period1"), 10, 64)
	p2, _ := strconv.ParseInt(r.URL.Query().Get("period2"), 10, 64)

	s.mu.Lock()
	s.period2s[symbol] = append(s.period2s[symbol], p2)
	s.mu.Unlock()

	timestamps := []int64{}
	closes := []float64{}
	for _, c := range s.candles[symbol] {
		if c.ts >= p1 && c.ts <= p2 {
			timestamps = append(timestamps, c.ts)
			closes = append(closes, c.close)
		}
	}

	body := map[string]any{
		"chart": map[string]any{
			"result": []any{map[string]any{
				"meta":       map[string]any{"symbol": symbol},
				"timestamp":  timestamps,
				"indicators": map[string]any{"quote": []any{map[string]any{"close": closes}}},
			}},
			"error": nil,
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

// TestPortfolioUsecase_UpdateAll_UsesLatestNewYorkClose は日本時間の朝に実行した更新が
// 前日（ニューヨーク時間）20:00 UTC の為替終値を使うことを検証します。
func TestPortfolioUsecase_UpdateAll_UsesLatestNewYorkClose(t *testing.T) {
	t.Parallel()

	apr14FX := time.Date(2022, 4, 14, 20, 0, 0, 0, time.UTC)
	apr15FX := time.Date(2022, 4, 15, 20, 0, 0, 0, time.UTC)
	cs := &chartServer{
		candles: map[string][]chartCandle{
			"AMZN": {
				{time.Date(2022, 4, 14, 13, 30, 0, 0, time.UTC).Unix(), 10},
				{time.Date(2022, 4, 15, 13, 30, 0, 0, time.UTC).Unix(), 10},
			},
			"USDJPY=X": {
				{apr14FX.Unix(), 114},
				{apr15FX.Unix(), 115},
			},
		},
		period2s: map[string][]int64{},
	}
	server := httptest.NewServer(cs)
	defer server.Close()

	market := yahoo.NewYahooMarket(yahoo.Config{BaseURL: server.URL, UserAgent: "Mozilla/5.0", Timeout: time.Second}, server.Client())
	valuator := valuationusecase.NewValuationUsecase(market)

	repo := newMockRepo(entity.Position{ID: 1, Label: "#tokutei-AMZN-1", Currency: "USD"})
	// 2022-04-16 08:30 JST
	now := time.Date(2022, 4, 15, 23, 30, 0, 0, time.UTC)
	uc := usecase.NewPortfolioUsecase(repo, repo, valuator, &mockLock{}, &mockLimiter{},
		usecase.WithClock(func() time.Time { return now }))

	report, err := uc.UpdateAll(context.Background())

	require.NoError(t, err)
	require.False(t, report.Failed(), "failures: %+v", report.Failures)
	// round(10 × 115) × 1
	assert.Equal(t, map[uint]int64{1: 1150}, repo.Current)

	cs.mu.Lock()
	defer cs.mu.Unlock()
	require.NotEmpty(t, cs.period2s["USDJPY=X"])
	assert.GreaterOrEqual(t, cs.period2s["USDJPY=X"][0], apr15FX.Unix(),
		"FX window must end after the previous day's 20:00 UTC candle")
}
