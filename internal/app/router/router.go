package router

import (
	"github.com/gin-gonic/gin"

	portfoliohandler "stock_valuation/internal/feature/portfolio/transport/handler"
	valuationhandler "stock_valuation/internal/feature/valuation/transport/handler"
	platformhandler "stock_valuation/internal/platform/http/handler"
	jwtmw "stock_valuation/internal/platform/jwt"
)

func NewRouter(health *platformhandler.HealthHandler, valuation *valuationhandler.ValuationHandler,
	portfolio *portfoliohandler.PortfolioHandler, jwtSecret string) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用（DB・Redis）
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)

	// 認証必須のルート
	// → リクエストヘッダーに JWT が必要になる
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired(jwtSecret))
	{
		auth.GET("/valuations/:code", valuation.GetValuation)
		auth.GET("/closes/:code", valuation.GetClose)

		auth.GET("/positions", portfolio.ListPositions)
		auth.POST("/positions", portfolio.CreatePosition)
		// 一括更新（別の更新が実行中なら409）
		auth.POST("/positions/refresh", portfolio.RefreshPositions)
	}

	return r
}
