package di

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	portfolioadapters "stock_valuation/internal/feature/portfolio/adapters"
	portfoliousecase "stock_valuation/internal/feature/portfolio/usecase"
	"stock_valuation/internal/shared/ratelimiter"
)

const defaultUpdateRateLimit = 30

// NewRunLock returns the Redis-backed update lock; with a nil client every run proceeds.
func NewRunLock(rdb *redis.Client) *portfolioadapters.RunLockRedis {
	return portfolioadapters.NewRunLockRedis(rdb, "portfolio:update:lock", 10*time.Minute)
}

// NewRateLimiter reads UPDATE_RATE_LIMIT (positions per minute).
func NewRateLimiter() *ratelimiter.RateLimiter {
	limit := defaultUpdateRateLimit
	if v, err := strconv.Atoi(os.Getenv("UPDATE_RATE_LIMIT")); err == nil {
		limit = v
	}
	return ratelimiter.NewRateLimiter(limit, time.Minute)
}

// NewPortfolioUsecase wires the position store, run lock and rate limiter around a valuator.
func NewPortfolioUsecase(db *gorm.DB, rdb *redis.Client, val portfoliousecase.Valuator, logger *slog.Logger) *portfoliousecase.PortfolioUsecase {
	repo := portfolioadapters.NewPositionRepository(db)
	return portfoliousecase.NewPortfolioUsecase(repo, repo, val, NewRunLock(rdb), NewRateLimiter(),
		portfoliousecase.WithLogger(logger))
}
