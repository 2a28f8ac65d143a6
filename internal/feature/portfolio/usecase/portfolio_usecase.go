// Package usecase implements position registration and the batch valuation update.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Rhymond/go-money"

	"stock_valuation/internal/feature/portfolio/domain"
	"stock_valuation/internal/feature/portfolio/domain/entity"
	valentity "stock_valuation/internal/feature/valuation/domain/entity"
)

// PositionRepository は保有銘柄の永続化を抽象化します。
type PositionRepository interface {
	List(ctx context.Context) ([]entity.Position, error)
	Create(ctx context.Context, p *entity.Position) error
}

// ValueWriter writes computed valuations back to a position.
// It is kept apart from PositionRepository so the update loop only needs these two writes.
type ValueWriter interface {
	WriteCurrentValue(ctx context.Context, id uint, amount int64) error
	WriteEntryValue(ctx context.Context, id uint, amount int64) error
}

// Valuator は円建て評価額を計算します。
type Valuator interface {
	CurrentPrice(ctx context.Context, code, currency string, shares int64, date time.Time) (int64, error)
}

// RunLock prevents two batch updates from running at the same time.
type RunLock interface {
	// Acquire returns domain.ErrLockHeld when another run owns the lock.
	Acquire(ctx context.Context) (release func(context.Context) error, err error)
}

// RateLimiter throttles provider-bound work.
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// PortfolioUsecase は保有銘柄の登録と評価額の一括更新を行います。
type PortfolioUsecase struct {
	repo    PositionRepository
	writer  ValueWriter
	val     Valuator
	lock    RunLock
	limiter RateLimiter
	now     func() time.Time
	log     *slog.Logger
}

// Option configures a PortfolioUsecase.
type Option func(*PortfolioUsecase)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(u *PortfolioUsecase) { u.now = now }
}

// WithLogger sets the logger for per-position results.
func WithLogger(l *slog.Logger) Option {
	return func(u *PortfolioUsecase) {
		if l != nil {
			u.log = l
		}
	}
}

// NewPortfolioUsecase は新しい PortfolioUsecase を作成します。
func NewPortfolioUsecase(repo PositionRepository, writer ValueWriter, val Valuator, lock RunLock, limiter RateLimiter, opts ...Option) *PortfolioUsecase {
	u := &PortfolioUsecase{
		repo:    repo,
		writer:  writer,
		val:     val,
		lock:    lock,
		limiter: limiter,
		now:     time.Now,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// ListPositions returns every stored position.
func (u *PortfolioUsecase) ListPositions(ctx context.Context) ([]entity.Position, error) {
	return u.repo.List(ctx)
}

// AddPosition は保有銘柄を登録します。評価額は次回の一括更新で計算されます。
func (u *PortfolioUsecase) AddPosition(ctx context.Context, label, currency string, entriedAt *time.Time) (entity.Position, error) {
	if _, ok := entity.ParseLabel(label); !ok {
		return entity.Position{}, fmt.Errorf("%w: %q", domain.ErrInvalidLabel, label)
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = entity.DefaultCurrency
	}
	if money.GetCurrency(currency) == nil {
		return entity.Position{}, fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, currency)
	}

	p := entity.Position{Label: label, Currency: currency, EntriedAt: entriedAt}
	if err := u.repo.Create(ctx, &p); err != nil {
		return entity.Position{}, fmt.Errorf("create position: %w", err)
	}
	return p, nil
}

// UpdateAll は全保有銘柄の評価額を前日終値で更新します。
//
// 取得日の評価額が未計算の銘柄は、取得日の終値で取得時評価額も計算します。
// 1件の失敗は記録して次の銘柄に進みます。ctx がキャンセルされた場合はそこで中断します。
func (u *PortfolioUsecase) UpdateAll(ctx context.Context) (entity.UpdateReport, error) {
	var report entity.UpdateReport

	release, err := u.lock.Acquire(ctx)
	if err != nil {
		return report, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			u.log.Warn("failed to release update lock", "error", err)
		}
	}()

	positions, err := u.repo.List(ctx)
	if err != nil {
		return report, fmt.Errorf("list positions: %w", err)
	}

	date := valentity.Yesterday(u.now())
	u.log.Info("portfolio update started", "positions", len(positions), "date", date.Format(time.DateOnly))

	for _, p := range positions {
		h, ok := entity.ParseLabel(p.Label)
		if !ok {
			u.log.Debug("label does not match, skipped", "id", p.ID, "label", p.Label)
			report.Skipped++
			continue
		}

		if err := u.updateOne(ctx, p, h, date); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report, ctxErr
			}
			u.log.Error("failed to update position", "id", p.ID, "label", p.Label, "symbol", h.Code, "error", err)
			report.Failures = append(report.Failures, entity.Failure{PositionID: p.ID, Label: p.Label, Err: err})
			continue
		}
		report.Updated++
	}

	u.log.Info("portfolio update finished",
		"updated", report.Updated, "skipped", report.Skipped, "failed", len(report.Failures))
	return report, nil
}

func (u *PortfolioUsecase) updateOne(ctx context.Context, p entity.Position, h entity.Holding, date time.Time) error {
	if err := u.limiter.Wait(ctx); err != nil {
		return err
	}
	current, err := u.val.CurrentPrice(ctx, h.Code, p.Currency, h.Shares, date)
	if err != nil {
		return fmt.Errorf("current value: %w", err)
	}
	if err := u.writer.WriteCurrentValue(ctx, p.ID, current); err != nil {
		return fmt.Errorf("write current value: %w", err)
	}

	if !p.NeedsEntryValue() {
		return nil
	}
	if err := u.limiter.Wait(ctx); err != nil {
		return err
	}
	entry, err := u.val.CurrentPrice(ctx, h.Code, p.Currency, h.Shares, *p.EntriedAt)
	if err != nil {
		return fmt.Errorf("entry value: %w", err)
	}
	if err := u.writer.WriteEntryValue(ctx, p.ID, entry); err != nil {
		return fmt.Errorf("write entry value: %w", err)
	}
	return nil
}
