package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/binpoint/wms/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(racks *handlers.RackHandler, reports *handlers.ReportHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	warehouse := r.Group("/warehouses/:wid")
	warehouse.POST("/racks", racks.Create)
	warehouse.PUT("/racks/:rid", racks.Update)
	warehouse.DELETE("/racks/:rid", racks.Delete)
	warehouse.GET("/reports/movements", reports.Movements)
	warehouse.POST("/reports/movements/deliver", reports.Deliver)
	warehouse.GET("/reports/reconciliation", reports.Reconcile)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
