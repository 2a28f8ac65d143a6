package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"stock_valuation/internal/feature/valuation/domain"
	"stock_valuation/internal/feature/valuation/domain/entity"
	"stock_valuation/internal/feature/valuation/usecase"
	"stock_valuation/internal/platform/externalapi/yahoo/dto"
	infrahttp "stock_valuation/internal/platform/http"
)

// YahooMarket はYahoo Financeのchart APIから時系列データを取得するMarketRepository実装です。
// 1回の呼び出しにつきHTTPリクエストは1回だけで、リトライやキャッシュは行いません。
type YahooMarket struct {
	cfg    Config
	client *http.Client
}

// YahooMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*YahooMarket)(nil)

// NewYahooMarket は指定された設定とHTTPクライアントでYahooMarketの新しいインスタンスを生成します。
//
// client が nil の場合は cfg.Timeout で新しいクライアントを作成します。
// タイムアウト未設定のクライアントには cfg.Timeout を適用します（呼び出し元のクライアントは変更しません）。
func NewYahooMarket(cfg Config, client *http.Client) *YahooMarket {
	switch {
	case client == nil:
		client = infrahttp.NewHTTPClient(cfg.Timeout)
	case client.Timeout == 0 && cfg.Timeout > 0:
		c := *client
		c.Timeout = cfg.Timeout
		client = &c
	}
	return &YahooMarket{cfg: cfg, client: client}
}

// FetchWindow は基準日を終端とする期間のOHLCVを取得し、entity.Seriesに正規化します。
//
// 戻り値:
//   - 不正な期間種別・頻度: domain.ErrInvalidPeriodType / domain.ErrInvalidFrequency（通信前に判定）
//   - プロバイダのエラーペイロード、HTTPエラー、通信失敗: *domain.ProviderError
//   - timestamp 配列がない正常応答: domain.ErrNoData
func (y *YahooMarket) FetchWindow(ctx context.Context, q entity.SeriesQuery) (entity.Series, error) {
	interval, err := Interval(q.FrequencyType, q.Frequency)
	if err != nil {
		return nil, err
	}
	window, err := NewTimeWindow(q.PeriodType, q.Period, q.BaseDate)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.chartURL(q.Symbol, window, interval), nil)
	if err != nil {
		return nil, err
	}
	// An explicitly empty User-Agent makes net/http omit the header.
	req.Header.Set("User-Agent", y.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	res, err := y.client.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{Err: err}
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &domain.ProviderError{StatusCode: res.StatusCode, Err: err}
	}

	var chart dto.ChartResponse
	decodeErr := json.Unmarshal(body, &chart)
	// The error payload is checked first: the provider sends it with 4xx statuses too.
	if decodeErr == nil && chart.Chart.Error != nil {
		return nil, &domain.ProviderError{
			StatusCode:  res.StatusCode,
			Code:        chart.Chart.Error.Code,
			Description: chart.Chart.Error.Description,
		}
	}
	if res.StatusCode >= 400 {
		return nil, &domain.ProviderError{StatusCode: res.StatusCode}
	}
	if decodeErr != nil {
		return nil, &domain.ProviderError{StatusCode: res.StatusCode, Err: fmt.Errorf("decode chart: %w", decodeErr)}
	}
	if len(chart.Chart.Result) == 0 || chart.Chart.Result[0].Timestamp == nil {
		return nil, domain.ErrNoData
	}

	return toSeries(chart.Chart.Result[0]), nil
}

// chartURL builds the v8 chart URL for one symbol and window.
func (y *YahooMarket) chartURL(symbol string, w entity.TimeWindow, interval string) string {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("period1", strconv.FormatInt(w.Start, 10))
	q.Set("period2", strconv.FormatInt(w.End, 10))
	q.Set("interval", interval)
	q.Set("includePrePost", "true")
	q.Set("events", "div|split|earn")
	q.Set("lang", "en-US")
	q.Set("region", "US")
	return fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.cfg.BaseURL, url.PathEscape(symbol), q.Encode())
}

// toSeries はプロバイダのインジケータ別ネスト構造をローソク足の列に平坦化します。
// タイムスタンプは秒からミリ秒に変換します。
func toSeries(r dto.ChartResult) entity.Series {
	var quote dto.Quote
	if len(r.Indicators.Quote) > 0 {
		quote = r.Indicators.Quote[0]
	}

	series := make(entity.Series, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		series = append(series, entity.Candle{
			Timestamp: ts * 1000,
			Open:      at(quote.Open, i),
			High:      at(quote.High, i),
			Low:       at(quote.Low, i),
			Close:     at(quote.Close, i),
			Volume:    at(quote.Volume, i),
		})
	}
	return series
}

// at returns column[i], or an invalid value when the column is shorter than the timestamps.
func at(column []decimal.NullDecimal, i int) decimal.NullDecimal {
	if i < len(column) {
		return column[i]
	}
	return decimal.NullDecimal{}
}
