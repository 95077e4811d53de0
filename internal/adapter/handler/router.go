package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the Gin engine with both API versions. authMiddleware
// guards the v2 group; pass nil to leave it open (tests, local runs).
func NewRouter(stocks StockService, movements MovementService, health *HealthHandler, authMiddleware gin.HandlerFunc, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(logger))

	if health != nil {
		r.GET("/health", health.Check)
	}

	v1Handler := NewStockV1Handler(stocks)
	v1 := r.Group("/api/v1/stock")
	v1.GET("", v1Handler.List)
	v1.POST("", v1Handler.Create)
	v1.GET("/:seller_id/:sku", v1Handler.Get)
	v1.PUT("/:seller_id/:sku", v1Handler.Update)
	v1.DELETE("/:seller_id/:sku", v1Handler.Delete)

	v2Handler := NewStockV2Handler(stocks)
	movementHandler := NewMovementV2Handler(movements)
	v2 := r.Group("/seller/v2")
	if authMiddleware != nil {
		v2.Use(authMiddleware)
	}
	v2.GET("/stock", v2Handler.List)
	v2.POST("/stock", v2Handler.Create)
	v2.GET("/stock/:sku", v2Handler.Get)
	v2.PATCH("/stock/:sku", v2Handler.Update)
	v2.DELETE("/stock/:sku", v2Handler.Delete)
	v2.GET("/stock-movements/weekly", movementHandler.Weekly)
	v2.GET("/stock-movements/daily", movementHandler.Daily)

	return r
}
