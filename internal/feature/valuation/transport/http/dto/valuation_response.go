package dto

import "github.com/shopspring/decimal"

// ValuationResponse は円建て評価額のレスポンスDTOです。
type ValuationResponse struct {
	Code     string          `json:"code"`      // 銘柄コード
	Kind     string          `json:"kind"`      // equity / fx
	Currency string          `json:"currency"`  // 取引通貨
	Shares   int64           `json:"shares"`    // 株数
	BaseDate string          `json:"base_date"` // 終値の基準日
	Price    decimal.Decimal `json:"price"`     // 終値（小数第2位）
	Rate     decimal.Decimal `json:"rate"`      // 対円レート
	Amount   int64           `json:"amount"`    // 評価額（円）
	Display  string          `json:"display"`   // 表示用 例: ¥763,812
}

// CloseResponse は終値のレスポンスDTOです。
type CloseResponse struct {
	Code  string          `json:"code"`
	Date  string          `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// ErrorResponse はエラー時のレスポンスDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}
