package router

import (
	"github.com/gin-gonic/gin"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/api"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/logger"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/middleware"
)

// Handlers groups the route handlers. Recognition is optional and its routes are only
// registered when it is set.
type Handlers struct {
	Health      *api.HealthHandler
	Analysis    *api.AnalysisHandler
	Sensitivity *api.SensitivityHandler
	Reference   *api.ReferenceHandler
	Recognition *api.RecognitionHandler
}

// SetupRouter configures the application routes
func SetupRouter(corsOrigins []string, log *logger.Logger, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestLogger(log),
		middleware.ErrorHandler(log),
		middleware.CORS(corsOrigins),
	)

	h.Health.RegisterRoutes(router)

	// API v1 routes
	v1 := router.Group("/api/v1")
	h.Analysis.RegisterRoutes(v1)
	h.Sensitivity.RegisterRoutes(v1)
	h.Reference.RegisterRoutes(v1)
	if h.Recognition != nil {
		h.Recognition.RegisterRoutes(v1)
	}

	return router
}
