// Package api - HTTP layer over the fuzzy evaluation engine
// The API only ingests input, orchestrates the ranker and serializes
// output; scoring itself lives in core/fuzzy.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"fuzzy-rank/adapters/storage"
	"fuzzy-rank/adapters/tabular"
	"fuzzy-rank/core/fuzzy"
	"fuzzy-rank/internal/config"
	"fuzzy-rank/internal/logging"
)

// maxUploadBytes bounds spreadsheet uploads
const maxUploadBytes = 32 << 20

// Options configures a Server
type Options struct {
	Version string

	Server config.ServerConfig
	Engine config.EngineConfig
	Input  tabular.Options

	// Store persists rankings; nil disables the history endpoints
	Store storage.Store

	// Logger defaults to the named global logger
	Logger *zap.Logger
}

// Server is the API server
type Server struct {
	router  *gin.Engine
	engine  *fuzzy.Engine
	cache   *lru.Cache
	store   storage.Store
	input   tabular.Options
	cfg     config.ServerConfig
	workers int
	topN    int
	version string
	logger  *zap.Logger
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Named("api")
	}

	domain := fuzzy.DefaultDomain
	if opts.Engine.Step > 0 {
		domain.Step = opts.Engine.Step
	}

	s := &Server{
		engine:  fuzzy.NewEngine(domain),
		store:   opts.Store,
		input:   opts.Input,
		cfg:     opts.Server,
		workers: opts.Engine.Workers,
		topN:    opts.Engine.TopN,
		version: opts.Version,
		logger:  logger,
	}
	if opts.Server.CacheSize > 0 {
		// only fails for a non-positive size
		s.cache, _ = lru.New(opts.Server.CacheSize)
	}

	s.router = s.newRouter()
	return s
}

func (s *Server) newRouter() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxUploadBytes
	r.Use(gin.Recovery(), RequestLogger(s.logger))

	if len(s.cfg.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: s.cfg.AllowOrigins,
			AllowMethods: []string{"GET", "POST", "DELETE"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	r.GET("/health", s.handleHealth)
	r.GET("/version", s.handleVersion)

	v1 := r.Group("/v1")
	v1.Use(RateLimit(s.cfg.RateLimit, s.cfg.Burst))
	{
		v1.POST("/evaluate", s.handleEvaluate)
		v1.POST("/rank", s.handleRank)
		v1.POST("/rank/upload", s.handleUpload)

		v1.GET("/rankings", s.handleListRankings)
		v1.GET("/rankings/:id", s.handleGetRanking)
		v1.DELETE("/rankings/:id", s.handleDeleteRanking)
		v1.GET("/rankings/:id/compare/:other", s.handleCompare)
	}

	r.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	return r
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
