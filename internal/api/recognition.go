package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/analysis"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/logger"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/middleware"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/service"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/types"
)

type RecognitionHandler struct {
	client   service.IRecognitionClient
	loader   service.IImageLoader
	analysis service.IAnalysisService
	auth     service.IAuthService
	log      *logger.Logger
}

func NewRecognitionHandler(client service.IRecognitionClient, loader service.IImageLoader, analysisService service.IAnalysisService, authService service.IAuthService, log *logger.Logger) *RecognitionHandler {
	return &RecognitionHandler{
		client:   client,
		loader:   loader,
		analysis: analysisService,
		auth:     authService,
		log:      log,
	}
}

func (h *RecognitionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/recognize", middleware.AuthMiddleware(h.auth), h.Recognize)
}

// Recognize identifies foods in one or more photos and analyses every candidate that lists
// its ingredients, using the caller's stored sensitivities.
func (h *RecognitionHandler) Recognize(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortWithError(c, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	var req types.RecognizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.ImageBase64 == "" && len(req.ImageURLs) == 0 {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid_request", "image_base64 or image_urls is required")
		return
	}

	ctx := c.Request.Context()
	var images []string
	if req.ImageBase64 != "" {
		images = append(images, req.ImageBase64)
	}
	if len(req.ImageURLs) > 0 {
		loaded := h.loader.LoadAll(ctx, req.ImageURLs)
		for _, img := range loaded {
			images = append(images, img.DataURI())
		}
		if len(images) == 0 {
			middleware.AbortWithError(c, http.StatusUnprocessableEntity, "images_unavailable", "none of the images could be loaded")
			return
		}
	}

	foods := make([]types.RecognizedFoodAnalysis, 0)
	for _, image := range images {
		candidates, err := h.client.Recognize(ctx, image)
		if err != nil {
			status, code := recognitionStatus(err)
			h.log.Warn("[RecognitionHandler] Recognition failed", "error", err, "status", status)
			middleware.AbortWithError(c, status, code, service.UserMessage(err))
			return
		}

		for _, food := range candidates {
			entry := types.RecognizedFoodAnalysis{Food: food}
			res, err := h.analysis.AnalyzeFood(ctx, &userID, food)
			if err != nil {
				c.Status(http.StatusInternalServerError)
				_ = c.Error(err)
				return
			}
			if res != nil {
				badge := analysis.Badge(*res)
				entry.Analysis = res
				entry.Badge = &badge
			}
			foods = append(foods, entry)
		}
	}

	c.JSON(http.StatusOK, types.RecognizeResponse{Foods: foods})
}

func recognitionStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrTimeout):
		return http.StatusGatewayTimeout, "recognition_timeout"
	case errors.Is(err, service.ErrNotConnected):
		return http.StatusServiceUnavailable, "recognition_unavailable"
	case errors.Is(err, service.ErrClient):
		return http.StatusUnprocessableEntity, "recognition_rejected"
	default:
		return http.StatusBadGateway, "recognition_failed"
	}
}
