// Package di provides dependency injection factories for creating application components.
package di

import (
	"log/slog"

	valuationusecase "stock_valuation/internal/feature/valuation/usecase"
	"stock_valuation/internal/platform/externalapi/yahoo"
	infrahttp "stock_valuation/internal/platform/http"
)

// NewMarket creates a fully configured YahooMarket with HTTP client.
func NewMarket() *yahoo.YahooMarket {
	cfg := yahoo.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return yahoo.NewYahooMarket(cfg, httpClient)
}

// NewValuationUsecase wires the valuation engine to the chart API.
func NewValuationUsecase(logger *slog.Logger) *valuationusecase.ValuationUsecase {
	return valuationusecase.NewValuationUsecase(NewMarket(), valuationusecase.WithLogger(logger))
}
