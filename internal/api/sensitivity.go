package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/middleware"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/service"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/types"
)

type SensitivityHandler struct {
	sensitivities service.ISensitivityService
	auth          service.IAuthService
}

func NewSensitivityHandler(sensitivities service.ISensitivityService, authService service.IAuthService) *SensitivityHandler {
	return &SensitivityHandler{
		sensitivities: sensitivities,
		auth:          authService,
	}
}

func (h *SensitivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/sensitivities")
	group.Use(middleware.AuthMiddleware(h.auth))
	{
		group.GET("", h.GetSensitivities)
		group.PUT("", h.UpdateSensitivities)
	}
}

func (h *SensitivityHandler) GetSensitivities(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortWithError(c, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	keywords, err := h.sensitivities.List(c.Request.Context(), userID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.SensitivitiesResponse{Sensitivities: keywords})
}

func (h *SensitivityHandler) UpdateSensitivities(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortWithError(c, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	var req types.SensitivitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	stored, err := h.sensitivities.Replace(c.Request.Context(), userID, req.Sensitivities)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSensitivity) {
			middleware.AbortWithError(c, http.StatusBadRequest, "invalid_sensitivity", err.Error())
			return
		}
		c.Status(http.StatusInternalServerError)
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.SensitivitiesResponse{Sensitivities: stored})
}
