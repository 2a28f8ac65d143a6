package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"stock_valuation/internal/app/di"
	"stock_valuation/internal/platform/db"
	"stock_valuation/internal/platform/logging"
	infraredis "stock_valuation/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env not found; using system environment variables")
	}
	logger := logging.Setup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	gdb, err := db.OpenDB(db.LoadConfigFromEnv())
	if err != nil {
		logger.Error("failed to open DB", "error", err)
		os.Exit(1)
	}

	// Redisがなければロックなしで実行
	rdb, err := infraredis.NewRedisClient(ctx)
	if err != nil {
		logger.Warn("Redis unavailable. Running without update lock.", "error", err)
		rdb = nil
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	uc := di.NewPortfolioUsecase(gdb, rdb, di.NewValuationUsecase(logger), logger)

	report, err := uc.UpdateAll(ctx)
	if err != nil {
		logger.Error("portfolio update failed", "error", err)
		os.Exit(1)
	}
	if report.Failed() {
		os.Exit(1)
	}
	logger.Info("update ok", "updated", report.Updated, "skipped", report.Skipped)
}
