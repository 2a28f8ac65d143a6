// Package handler はportfolioフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/gin-gonic/gin"

	"stock_valuation/internal/feature/portfolio/domain"
	"stock_valuation/internal/feature/portfolio/domain/entity"
	"stock_valuation/internal/feature/portfolio/transport/http/dto"
	valentity "stock_valuation/internal/feature/valuation/domain/entity"
)

// PortfolioUsecase は保有銘柄操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type PortfolioUsecase interface {
	ListPositions(ctx context.Context) ([]entity.Position, error)
	AddPosition(ctx context.Context, label, currency string, entriedAt *time.Time) (entity.Position, error)
	UpdateAll(ctx context.Context) (entity.UpdateReport, error)
}

// PortfolioHandler は保有銘柄のHTTPリクエストを処理します。
type PortfolioHandler struct {
	uc PortfolioUsecase
}

// NewPortfolioHandler は指定されたusecaseでPortfolioHandlerの新しいインスタンスを生成します。
func NewPortfolioHandler(uc PortfolioUsecase) *PortfolioHandler {
	return &PortfolioHandler{uc: uc}
}

// ListPositions は登録済みの保有銘柄を返します。
//
// エンドポイント例:
// GET /positions
func (h *PortfolioHandler) ListPositions(c *gin.Context) {
	positions, err := h.uc.ListPositions(c.Request.Context())
	if err != nil {
		slog.Error("failed to list positions", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to list positions"})
		return
	}

	out := make([]dto.PositionResponse, 0, len(positions))
	for _, p := range positions {
		out = append(out, toResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

// CreatePosition は保有銘柄を登録します。
// - ラベル形式・通貨・日付が不正な場合は400を返却
// - 成功時は201を返却
//
// エンドポイント例:
// POST /positions {"label":"#nisa-AMZN-2","currency":"USD","entried_at":"2021-06-01"}
func (h *PortfolioHandler) CreatePosition(c *gin.Context) {
	var req dto.CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}

	var entriedAt *time.Time
	if req.EntriedAt != "" {
		d, err := valentity.ParseDate(req.EntriedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid entried_at, expected YYYY-MM-DD"})
			return
		}
		entriedAt = &d
	}

	p, err := h.uc.AddPosition(c.Request.Context(), req.Label, req.Currency, entriedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidLabel) || errors.Is(err, domain.ErrInvalidCurrency) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("failed to create position", "label", req.Label, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to create position"})
		return
	}

	slog.Info("position created", "id", p.ID, "label", p.Label)
	c.JSON(http.StatusCreated, toResponse(p))
}

// RefreshPositions は全保有銘柄の評価額を更新し、結果を返します。
// 別の更新が実行中の場合は409を返却します。
//
// エンドポイント例:
// POST /positions/refresh
func (h *PortfolioHandler) RefreshPositions(c *gin.Context) {
	report, err := h.uc.UpdateAll(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrLockHeld) {
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("portfolio update failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "portfolio update failed"})
		return
	}

	res := dto.UpdateReportResponse{
		Updated:  report.Updated,
		Skipped:  report.Skipped,
		Failures: make([]dto.FailureResponse, 0, len(report.Failures)),
	}
	for _, f := range report.Failures {
		res.Failures = append(res.Failures, dto.FailureResponse{ID: f.PositionID, Label: f.Label, Error: f.Err.Error()})
	}
	c.JSON(http.StatusOK, res)
}

func toResponse(p entity.Position) dto.PositionResponse {
	res := dto.PositionResponse{
		ID:           p.ID,
		Label:        p.Label,
		Currency:     p.Currency,
		EntriedValue: p.EntriedValue,
		CurrentValue: p.CurrentValue,
		Display:      money.New(p.CurrentValue, money.JPY).Display(),
	}
	if p.EntriedAt != nil {
		s := p.EntriedAt.In(valentity.JST).Format(time.DateOnly)
		res.EntriedAt = &s
	}
	return res
}
