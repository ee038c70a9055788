package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/analysis"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/cache"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/logger"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/reference"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/types"
)

var ErrNoIngredients = errors.New("ingredients or ingredients_text is required")

// AnalysisRequest describes one analysis. A nil Sensitivities slice means "use the stored
// profile of UserID"; an empty non-nil slice means "no sensitivities".
type AnalysisRequest struct {
	Ingredients   []string
	Text          string
	Sensitivities []string
	UserID        *uuid.UUID
}

// AnalysisOutcome carries the result and whether it came from the cache.
type AnalysisOutcome struct {
	Result analysis.Result
	Cached bool
}

type boundAnalyzer struct {
	table    *reference.Table
	analyzer *analysis.Analyzer
}

// AnalysisService runs the engine against the live reference table and memoizes results.
type AnalysisService struct {
	holder        *reference.Holder
	cache         cache.ResultCache
	sensitivities ISensitivityService
	opts          analysis.Options
	log           *logger.Logger
	bound         *atomic.Pointer[boundAnalyzer]
}

// NewAnalysisService wires the engine. resultCache and sensitivities may be nil.
func NewAnalysisService(holder *reference.Holder, resultCache cache.ResultCache, sensitivities ISensitivityService, opts analysis.Options, log *logger.Logger) *AnalysisService {
	return &AnalysisService{
		holder:        holder,
		cache:         resultCache,
		sensitivities: sensitivities,
		opts:          opts,
		log:           log,
		bound:         atomic.NewPointer[boundAnalyzer](nil),
	}
}

// analyzer returns an analyzer for the live table, rebuilding it after a reload. Two
// requests racing on a reload may both build one; either result is correct.
func (s *AnalysisService) analyzer() *analysis.Analyzer {
	table := s.holder.Current()
	if b := s.bound.Load(); b != nil && b.table == table {
		return b.analyzer
	}
	b := &boundAnalyzer{table: table, analyzer: analysis.NewAnalyzer(table, s.opts)}
	s.bound.Store(b)
	return b.analyzer
}

// Analyze resolves sensitivities, consults the cache and runs the engine.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisOutcome, error) {
	if req.Ingredients == nil && strings.TrimSpace(req.Text) == "" {
		return nil, ErrNoIngredients
	}
	ingredients := req.Ingredients
	if len(ingredients) == 0 {
		ingredients = analysis.SplitIngredients(req.Text)
	}

	keywords := req.Sensitivities
	if keywords == nil && req.UserID != nil && s.sensitivities != nil {
		stored, err := s.sensitivities.List(ctx, *req.UserID)
		if err != nil {
			return nil, err
		}
		keywords = stored
	}
	set := analysis.NewSensitivitySet(keywords...)

	a := s.analyzer()
	key := cache.Key(ingredients, set)
	if s.cache != nil {
		res, ok, err := cache.Lookup(ctx, s.cache, key, a.Version())
		if err != nil {
			s.log.Warn("[AnalysisService] Cache lookup failed", "error", err)
		} else if ok {
			return &AnalysisOutcome{Result: res, Cached: true}, nil
		}
	}

	res := a.Analyze(ingredients, set)
	s.log.Debug("[AnalysisService] Analysis complete",
		"items", res.TotalCount, "score", res.Score, "grade", res.Grade.String(), "version", res.ReferenceVersion)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, res); err != nil {
			s.log.Warn("[AnalysisService] Cache store failed", "error", err)
		}
	}
	return &AnalysisOutcome{Result: res}, nil
}

// AnalyzeFood analyses a recognised food. Foods without ingredient text yield a nil result.
func (s *AnalysisService) AnalyzeFood(ctx context.Context, userID *uuid.UUID, food types.RecognizedFood) (*analysis.Result, error) {
	if food.Ingredients == "" {
		return nil, nil
	}
	out, err := s.Analyze(ctx, AnalysisRequest{Text: food.Ingredients, UserID: userID})
	if err != nil {
		return nil, err
	}
	return &out.Result, nil
}
