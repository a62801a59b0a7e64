// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/cdr-billing/backend/internal/integration/entrypoint/controller"
	"github.com/cdr-billing/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                   *gin.Engine
	healthController         *controller.HealthController
	authController           *controller.AuthController
	categoryController       *controller.CategoryController
	classificationController *controller.ClassificationController
	analyticsController      *controller.AnalyticsController
	recordsController        *controller.RecordsController
	suggestionController     *controller.SuggestionController
	tokenRateLimiter         *middleware.RateLimiter
	authMiddleware           *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	categoryController *controller.CategoryController,
	classificationController *controller.ClassificationController,
	analyticsController *controller.AnalyticsController,
	recordsController *controller.RecordsController,
	suggestionController *controller.SuggestionController,
	tokenRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:         healthController,
		authController:           authController,
		categoryController:       categoryController,
		classificationController: classificationController,
		analyticsController:      analyticsController,
		recordsController:        recordsController,
		suggestionController:     suggestionController,
		tokenRateLimiter:         tokenRateLimiter,
		authMiddleware:           authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.Default()

	r.engine.GET("/health", r.healthController.Health)
	r.setupAPIRoutes()

	return r.engine
}

// setupAPIRoutes configures the main API routes. Everything except health
// and the token exchange requires a service token.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	{
		if r.authController != nil {
			auth := v1.Group("/auth")
			{
				tokenHandlers := []gin.HandlerFunc{}
				if r.tokenRateLimiter != nil {
					tokenHandlers = append(tokenHandlers, r.tokenRateLimiter.Middleware())
				}
				tokenHandlers = append(tokenHandlers, r.authController.Token)
				auth.POST("/token", tokenHandlers...)
			}
		}

		if r.categoryController != nil && r.authMiddleware != nil {
			categories := v1.Group("/categories")
			categories.Use(r.authMiddleware.Authenticate())
			{
				categories.GET("", r.categoryController.List)
				categories.POST("", r.categoryController.Create)
				categories.GET("/statistics", r.categoryController.Statistics)
				categories.GET("/conflicts", r.categoryController.Conflicts)
				categories.GET("/export", r.categoryController.Export)
				categories.POST("/import", r.categoryController.Import)
				categories.POST("/preview-pricing", r.categoryController.PreviewPricing)
				categories.PUT("/global-markup", r.categoryController.SetGlobalMarkup)
				categories.PATCH("/reorder", r.categoryController.Reorder)
				categories.POST("/reset", r.categoryController.Reset)
				categories.GET("/:name", r.categoryController.Get)
				categories.PUT("/:name", r.categoryController.Update)
				categories.DELETE("/:name", r.categoryController.Delete)
			}
		}

		if r.classificationController != nil && r.authMiddleware != nil {
			classify := v1.Group("/classification")
			classify.Use(r.authMiddleware.Authenticate())
			{
				classify.POST("/classify", r.classificationController.Classify)
				classify.POST("/test", r.classificationController.Test)
			}
		}

		if r.recordsController != nil && r.authMiddleware != nil {
			records := v1.Group("/records")
			records.Use(r.authMiddleware.Authenticate())
			{
				records.POST("", r.recordsController.Ingest)
			}
		}

		if r.analyticsController != nil && r.authMiddleware != nil {
			analytics := v1.Group("/analytics")
			analytics.Use(r.authMiddleware.Authenticate())
			{
				analytics.POST("/aggregate", r.analyticsController.Aggregate)
				analytics.POST("/reports", r.analyticsController.Report)
			}
		}

		if r.suggestionController != nil && r.authMiddleware != nil {
			ai := v1.Group("/ai")
			ai.Use(r.authMiddleware.Authenticate())
			{
				ai.POST("/pattern-suggestions", r.suggestionController.Suggest)
			}
		}
	}
}
