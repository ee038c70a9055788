package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/middleware"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/reference"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/service"
)

type ReferenceHandler struct {
	reference service.IReferenceService
	auth      service.IAuthService
}

func NewReferenceHandler(referenceService service.IReferenceService, authService service.IAuthService) *ReferenceHandler {
	return &ReferenceHandler{
		reference: referenceService,
		auth:      authService,
	}
}

func (h *ReferenceHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/reference")
	group.GET("/version", h.GetVersion)
	group.POST("/reload", middleware.AuthMiddleware(h.auth), middleware.RequireAdmin(), h.Reload)
}

// GetVersion describes the reference table analyses currently run against.
func (h *ReferenceHandler) GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, h.reference.Current())
}

// Reload re-reads the reference data from the database.
func (h *ReferenceHandler) Reload(c *gin.Context) {
	out, err := h.reference.Reload(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, reference.ErrReloadInProgress):
			middleware.AbortWithError(c, http.StatusConflict, "reload_in_progress", err.Error())
		case errors.Is(err, reference.ErrNotSeeded):
			middleware.AbortWithError(c, http.StatusServiceUnavailable, "not_seeded", err.Error())
		default:
			c.Status(http.StatusInternalServerError)
			_ = c.Error(err)
		}
		return
	}
	c.JSON(http.StatusOK, out)
}
