package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/logger"
)

// RouterDeps carries what the routes are built from. Sources and Gatherer are optional.
type RouterDeps struct {
	Scraper  Scraper
	Sources  SourceStore
	Gatherer prometheus.Gatherer
	Version  string
	Logger   logger.Logger
}

// SetupRoutes returns a route registrar for server.New.
func SetupRoutes(deps RouterDeps) func(*gin.Engine) {
	return func(router *gin.Engine) {
		router.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":        "ok",
				"version":       deps.Version,
				"sources_store": deps.Sources != nil,
			})
		})

		if deps.Gatherer != nil {
			router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
		}

		v1 := router.Group("/api/v1")

		scrapeHandler := NewScrapeHandler(deps.Scraper, deps.Logger)
		v1.POST("/scrape", scrapeHandler.Scrape)
		v1.POST("/scrape/export", scrapeHandler.Export)

		if deps.Sources == nil {
			return
		}

		sourceHandler := NewSourceHandler(deps.Sources, deps.Logger)
		srcs := v1.Group("/sources")
		srcs.GET("", sourceHandler.List)
		srcs.POST("", sourceHandler.Create)
		srcs.GET("/:id", sourceHandler.GetByID)
		srcs.PUT("/:id", sourceHandler.Update)
		srcs.DELETE("/:id", sourceHandler.Delete)
		srcs.PATCH("/:id/toggle", sourceHandler.Toggle)
	}
}
