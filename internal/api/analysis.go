package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/analysis"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/middleware"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/service"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/types"
)

type AnalysisHandler struct {
	analysis service.IAnalysisService
	auth     service.IAuthService
	limiter  *middleware.RateLimiter
}

// NewAnalysisHandler creates the analysis handler. limiter may be nil.
func NewAnalysisHandler(analysisService service.IAnalysisService, authService service.IAuthService, limiter *middleware.RateLimiter) *AnalysisHandler {
	return &AnalysisHandler{
		analysis: analysisService,
		auth:     authService,
		limiter:  limiter,
	}
}

func (h *AnalysisHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/analysis")
	group.POST("", h.Analyze)

	protected := group.Group("")
	protected.Use(middleware.AuthMiddleware(h.auth))
	{
		protected.POST("/me", h.limiter.Middleware(), h.AnalyzeForUser)
		protected.GET("/limit", h.RateLimitStatus)
	}
}

// Analyze scores an ingredient list with the sensitivities given in the request.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	req, ok := bindAnalyzeRequest(c)
	if !ok {
		return
	}
	if req.Sensitivities == nil {
		req.Sensitivities = []string{}
	}
	h.respond(c, req, nil)
}

// AnalyzeForUser scores an ingredient list for the caller. Without a sensitivities field
// the caller's stored sensitivities are used.
func (h *AnalysisHandler) AnalyzeForUser(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortWithError(c, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	req, ok := bindAnalyzeRequest(c)
	if !ok {
		return
	}
	h.respond(c, req, &userID)
}

func (h *AnalysisHandler) respond(c *gin.Context, req types.AnalyzeRequest, userID *uuid.UUID) {
	out, err := h.analysis.Analyze(c.Request.Context(), service.AnalysisRequest{
		Ingredients:   req.Ingredients,
		Text:          req.IngredientsText,
		Sensitivities: req.Sensitivities,
		UserID:        userID,
	})
	if err != nil {
		if errors.Is(err, service.ErrNoIngredients) {
			middleware.AbortWithError(c, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		c.Status(http.StatusInternalServerError)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.AnalyzeResponse{
		Result: out.Result,
		Badge:  analysis.Badge(out.Result),
		Cached: out.Cached,
	})
}

// RateLimitStatus reports how many personal analyses the caller has left in this window.
func (h *AnalysisHandler) RateLimitStatus(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortWithError(c, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	if h.limiter == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}

	remaining, resetTime, err := h.limiter.Remaining(c.Request.Context(), userID.String())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"enabled":    true,
		"limit":      h.limiter.Limit(),
		"remaining":  remaining,
		"reset_time": resetTime.Unix(),
		"window":     h.limiter.Window().String(),
	})
}

func bindAnalyzeRequest(c *gin.Context) (types.AnalyzeRequest, bool) {
	var req types.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid_request", "invalid request body")
		return req, false
	}
	return req, true
}

