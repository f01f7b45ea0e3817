package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/brightclass/roster/internal/app/controllers"
	"github.com/brightclass/roster/internal/app/models/dto"
	"github.com/brightclass/roster/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	importController *controllers.ImportController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Authenticated service-to-service routes ---
	imports := v1.Group("/imports")
	imports.Use(authMiddleware.ServiceAuth())
	{
		imports.POST("", importController.CreateImportJob)
		imports.GET("/:id", importController.GetImportJob)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Success: true,
			Data:    gin.H{"status": "ok"},
		})
	})
}
