package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tenderiq/core/internal/middleware"
	"github.com/tenderiq/core/internal/modules/analysis"
	"github.com/tenderiq/core/internal/pkg/response"
)

// registerRoutes wires the HTTP surface. Everything under /api/v1 except
// the health probe requires authentication.
func (a *App) registerRoutes(handler *analysis.Handler) {
	a.router.GET("/health", a.health)

	api := a.router.Group("/api/v1")
	api.Use(middleware.Auth())
	handler.Register(api)

	a.router.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	a.router.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})
}

func (a *App) health(c *gin.Context) {
	response.OK(c, gin.H{
		"status": "ok",
		"uptime": time.Since(processStart).Round(time.Second).String(),
	})
}

var processStart = time.Now()
