package types

import (
	"github.com/akeen90/nutrasafe-beta-sub001/internal/analysis"
)

// AnalyzeRequest is the body of POST /api/v1/analysis. Either Ingredients or IngredientsText
// must be given; Ingredients wins when both are.
type AnalyzeRequest struct {
	Ingredients     []string `json:"ingredients" binding:"max=500,dive,max=1000"`
	IngredientsText string   `json:"ingredients_text" binding:"max=20000"`
	Sensitivities   []string `json:"sensitivities"`
}

// AnalyzeResponse wraps a result with the badge the clients show in lists.
type AnalyzeResponse struct {
	Result analysis.Result       `json:"result"`
	Badge  analysis.BadgeSummary `json:"badge"`
	Cached bool                  `json:"cached"`
}

// SensitivitiesRequest is the body of PUT /api/v1/sensitivities.
type SensitivitiesRequest struct {
	Sensitivities []string `json:"sensitivities"`
}

// SensitivitiesResponse lists a user's stored sensitivity keywords.
type SensitivitiesResponse struct {
	Sensitivities []string `json:"sensitivities"`
}

// RecognizeRequest is the body of POST /api/v1/recognize. Either ImageBase64 or ImageURLs
// must be given; remote images are fetched and each one is recognised.
type RecognizeRequest struct {
	ImageBase64 string   `json:"image_base64"`
	ImageURLs   []string `json:"image_urls" binding:"omitempty,max=8,dive,required,url,startswith=https://"`
}

// RecognizedFood is one candidate returned by the recognition endpoint.
type RecognizedFood struct {
	Name        string  `json:"name"`
	Brand       string  `json:"brand,omitempty"`
	Confidence  float64 `json:"confidence"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	ServingSize string  `json:"serving_size,omitempty"`
	Ingredients string  `json:"ingredients,omitempty"`
}

// RecognizedFoodAnalysis pairs a candidate with its additive analysis, when it lists ingredients.
type RecognizedFoodAnalysis struct {
	Food     RecognizedFood         `json:"food"`
	Analysis *analysis.Result       `json:"analysis,omitempty"`
	Badge    *analysis.BadgeSummary `json:"badge,omitempty"`
}

// RecognizeResponse is the body returned by POST /api/v1/recognize.
type RecognizeResponse struct {
	Foods []RecognizedFoodAnalysis `json:"foods"`
}

// ReferenceVersionResponse describes the live reference table.
type ReferenceVersionResponse struct {
	Version        string `json:"version"`
	Additives      int    `json:"additives"`
	UltraProcessed int    `json:"ultra_processed"`
}

// ReloadResponse is returned by POST /api/v1/reference/reload.
type ReloadResponse struct {
	Version string `json:"version"`
	Changed bool   `json:"changed"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
