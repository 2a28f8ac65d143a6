// Package domain defines domain-level errors for the valuation feature.
package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoData は時系列プロバイダが正常に応答したものの、指定期間のデータが存在しないことを示します。
	// エラーではなく「データなし」のシグナルで、評価エンジンは前日に遡って再検索します。
	ErrNoData = errors.New("no data for requested window")

	// ErrInvalidFrequency is a caller error: the sampling frequency is not one of minute/hour/day/week/month.
	ErrInvalidFrequency = errors.New("invalid frequency")

	// ErrInvalidPeriodType is a caller error: the period type is not one of day/week/month/year.
	ErrInvalidPeriodType = errors.New("invalid period type")

	// ErrInvalidCurrency は ISO 4217 に存在しない通貨コードが指定されたことを示します。
	ErrInvalidCurrency = errors.New("invalid currency")

	// ErrInvalidShares は株数が負の値であることを示します。
	ErrInvalidShares = errors.New("invalid share count")

	// ErrDataNotFound is matched by DataNotFoundError.
	ErrDataNotFound = errors.New("data not found")
)

// ProviderError は時系列プロバイダからの構造化エラー、HTTPエラー、通信失敗を表します。
// 評価エンジンはこのエラーをリトライせず、そのまま呼び出し元に返します。
type ProviderError struct {
	StatusCode  int    // HTTP status code, 0 when the request never completed
	Code        string // provider error code, e.g. "Not Found"
	Description string
	Err         error // underlying transport or decode error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Code != "":
		return fmt.Sprintf("provider error %s: %s", e.Code, e.Description)
	case e.Err != nil:
		return fmt.Sprintf("provider request failed: %v", e.Err)
	default:
		return fmt.Sprintf("provider http %d", e.StatusCode)
	}
}

func (e *ProviderError) Unwrap() error { return e.Err }

// DataNotFoundError is returned once the backward search is exhausted.
type DataNotFoundError struct {
	Symbol   string
	Date     time.Time // originally requested base date
	Attempts int
}

func (e *DataNotFoundError) Error() string {
	return fmt.Sprintf("%s data is not found: %s, %d attempts", e.Symbol, e.Date.Format("2006-01-02"), e.Attempts)
}

// Is reports ErrDataNotFound as a match so callers can use errors.Is.
func (e *DataNotFoundError) Is(target error) bool { return target == ErrDataNotFound }
