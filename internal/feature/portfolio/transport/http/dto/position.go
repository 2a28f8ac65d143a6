package dto

// CreatePositionRequest は保有銘柄登録のリクエストDTOです。
type CreatePositionRequest struct {
	Label     string `json:"label" binding:"required"` // 例: "#nisa-AMZN-2"
	Currency  string `json:"currency"`                 // 未指定は USD
	EntriedAt string `json:"entried_at"`               // YYYY-MM-DD、未指定可
}

// PositionResponse は保有銘柄のレスポンスDTOです。
type PositionResponse struct {
	ID           uint    `json:"id"`
	Label        string  `json:"label"`
	Currency     string  `json:"currency"`
	EntriedAt    *string `json:"entried_at"`
	EntriedValue int64   `json:"entried_value"`
	CurrentValue int64   `json:"current_value"`
	Display      string  `json:"display"` // 例: ¥763,812
}

// UpdateReportResponse は一括更新結果のレスポンスDTOです。
type UpdateReportResponse struct {
	Updated  int               `json:"updated"`
	Skipped  int               `json:"skipped"`
	Failures []FailureResponse `json:"failures"`
}

// FailureResponse は更新に失敗した1件です。
type FailureResponse struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
	Error string `json:"error"`
}

// ErrorResponse はエラー時のレスポンスDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}
