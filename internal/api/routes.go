package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler, gatherer prometheus.Gatherer) {
	// Health, readiness and metrics
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Pipeline triggers
		v1.POST("/ingest", handler.Ingest)         // POST /api/v1/ingest
		v1.POST("/reclassify", handler.Reclassify) // POST /api/v1/reclassify

		// Ad-hoc classification
		v1.POST("/classify", handler.Classify) // POST /api/v1/classify

		// Video listing and interactions
		videos := v1.Group("/videos")
		{
			videos.GET("", handler.ListVideos)                                  // GET /api/v1/videos
			videos.POST("/:external_id/interaction", handler.UpsertInteraction) // POST /api/v1/videos/:external_id/interaction
		}

		// Category preferences
		preferences := v1.Group("/preferences")
		{
			preferences.GET("", handler.ListPreferences)  // GET /api/v1/preferences
			preferences.PUT("", handler.UpsertPreference) // PUT /api/v1/preferences
		}
	}
}
