package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/akeen90/nutrasafe-beta-sub001/config"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/analysis"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/api"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/cache"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/logger"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/middleware"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/reference"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/router"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Dependencies are the long-lived resources the server is built from. Redis and Cache may
// be nil; without Redis the rate limiter is disabled.
type Dependencies struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Holder *reference.Holder
	Cache  cache.ResultCache
}

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
	log    *logger.Logger
}

// New wires services and handlers into a server.
func New(cfg *config.Config, deps Dependencies, log *logger.Logger) *Server {
	auth := service.NewAuthService(cfg.JWTSecret)
	sensitivities := service.NewSensitivityService(deps.DB)
	analyses := service.NewAnalysisService(deps.Holder, deps.Cache, sensitivities, analysis.DefaultOptions(), log)
	references := service.NewReferenceService(deps.Holder, log)

	var redisClient redis.Cmdable
	if deps.Redis != nil {
		redisClient = deps.Redis
	}
	limiter := middleware.NewAnalysisRateLimiter(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow, log)
	if limiter == nil {
		log.Warn("[Server] Rate limiting disabled")
	}

	handlers := router.Handlers{
		Health:      api.NewHealthHandler(deps.DB, redisClient, references),
		Analysis:    api.NewAnalysisHandler(analyses, auth, limiter),
		Sensitivity: api.NewSensitivityHandler(sensitivities, auth),
		Reference:   api.NewReferenceHandler(references, auth),
	}
	if cfg.RecognitionURL != "" {
		opts := service.DefaultRecognitionOptions()
		if cfg.RecognitionTimeout > 0 {
			opts.Timeout = cfg.RecognitionTimeout
		}
		opts.MaxRetries = cfg.RecognitionMaxRetries
		client := service.NewRecognitionClient(cfg.RecognitionURL, opts, log)
		loader := service.NewImageBatchLoader(nil, 0, log)
		handlers.Recognition = api.NewRecognitionHandler(client, loader, analyses, auth, log)
	} else {
		log.Warn("[Server] Recognition URL not configured, /recognize disabled")
	}

	return &Server{
		cfg:    cfg,
		router: router.SetupRouter(cfg.CORSOrigins, log, handlers),
		log:    log,
	}
}

// Handler returns the HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              net.JoinHostPort(s.cfg.ServerHost, s.cfg.ServerPort),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("[Server] Listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("[Server] Shutting down")
		return s.Stop(shutdownCtx)
	})
	return g.Wait()
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
