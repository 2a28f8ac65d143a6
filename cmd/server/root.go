package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"stock_valuation/internal/app/di"
	"stock_valuation/internal/app/router"
	portfoliohandler "stock_valuation/internal/feature/portfolio/transport/handler"
	valuationhandler "stock_valuation/internal/feature/valuation/transport/handler"
	"stock_valuation/internal/platform/db"
	platformhandler "stock_valuation/internal/platform/http/handler"
	jwtmw "stock_valuation/internal/platform/jwt"
	"stock_valuation/internal/platform/logging"
	infraredis "stock_valuation/internal/platform/redis"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Serve the valuation and portfolio API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	cmd.AddCommand(newTokenCmd(cmd.OutOrStdout()))
	return cmd
}

func newTokenCmd(out io.Writer) *cobra.Command {
	var (
		subject string
		name    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed bearer token for an API client",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
			if secret == "" {
				return fmt.Errorf("%s is not set", jwtmw.EnvKeyJWTSecret)
			}
			if subject == "" {
				return fmt.Errorf("missing --subject")
			}
			token, err := jwtmw.NewGenerator(secret, ttl).GenerateToken(subject, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "client id (sub claim)")
	cmd.Flags().StringVar(&name, "name", "", "client display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	return cmd
}

func serve(ctx context.Context) error {
	logger := logging.Setup()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := db.OpenDB(db.LoadConfigFromEnv())
	if err != nil {
		return err
	}

	// Redis
	rdb, err := infraredis.NewRedisClient(ctx)
	if err != nil {
		logger.Warn("Redis unavailable. Running without update lock.", "error", err)
		rdb = nil
	}
	var redisCheck platformhandler.Check
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Error("failed to close Redis client", "error", err)
			}
		}()
		redisCheck = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// Usecase
	valuationUC := di.NewValuationUsecase(logger)
	portfolioUC := di.NewPortfolioUsecase(gdb, rdb, valuationUC, logger)

	// Handler
	healthH := platformhandler.NewHealthHandler(map[string]platformhandler.Check{
		"db":    dbCheck(gdb),
		"redis": redisCheck,
	})
	valuationH := valuationhandler.NewValuationHandler(valuationUC)
	portfolioH := portfoliohandler.NewPortfolioHandler(portfolioUC)

	// JWT_SECRETチェック（開発中の注意喚起）
	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		logger.Warn("JWT_SECRET is not set. Authenticated routes will answer 500.")
	}

	// ルータ生成
	r := router.NewRouter(healthH, valuationH, portfolioH, secret)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func dbCheck(gdb *gorm.DB) platformhandler.Check {
	return func(ctx context.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

