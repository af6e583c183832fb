package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up the API routes
func SetupRoutes(handler *Handler) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(Recovery())
	router.Use(CORS())
	router.Use(Logger())

	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1
	v1 := router.Group("/api/v1")
	{
		v1.POST("/analytics", handler.FetchAnalytics)

		presets := v1.Group("/presets")
		{
			presets.GET("", handler.GetPresets)
			presets.PUT("/:name", handler.PutPreset)
			presets.POST("/:name/activate", handler.ActivatePreset)
			presets.DELETE("/:name", handler.DeletePreset)
		}
	}

	return router
}
