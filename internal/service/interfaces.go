package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/analysis"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/types"
)

// IAuthService defines the interface for token operations
type IAuthService interface {
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
}

// IAnalysisService defines the interface for additive analysis
type IAnalysisService interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisOutcome, error)
	AnalyzeFood(ctx context.Context, userID *uuid.UUID, food types.RecognizedFood) (*analysis.Result, error)
}

// ISensitivityService defines the interface for stored user sensitivities
type ISensitivityService interface {
	List(ctx context.Context, userID uuid.UUID) ([]string, error)
	Replace(ctx context.Context, userID uuid.UUID, keywords []string) ([]string, error)
}

// IRecognitionClient defines the interface for the food recognition endpoint
type IRecognitionClient interface {
	Recognize(ctx context.Context, imageBase64 string) ([]types.RecognizedFood, error)
}

// IReferenceService defines the interface for reference data administration
type IReferenceService interface {
	Current() types.ReferenceVersionResponse
	Reload(ctx context.Context) (*types.ReloadResponse, error)
}

// IImageLoader defines the interface for concurrent image downloads
type IImageLoader interface {
	LoadAll(ctx context.Context, urls []string) []LoadedImage
}
