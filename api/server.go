// Package api - Thin HTTP layer over the calculator
// The API reads a rate snapshot, calls vat.Compute and serialises the
// result. It never does arithmetic of its own.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"vat-calc/core/rates"
	"vat-calc/internal/config"
	"vat-calc/internal/logging"
)

const requestIDHeader = "X-Request-ID"

// Server is the API server
type Server struct {
	router   *gin.Engine
	http     *http.Server
	store    rates.Store
	version  string
	metrics  *Metrics
	registry *prometheus.Registry
	logger   *zap.Logger
}

// NewServer creates a new API server over store
func NewServer(version string, store rates.Store, cfg config.ServerConfig) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := gin.New()

	s := &Server{
		router:   router,
		store:    store,
		version:  version,
		metrics:  NewMetrics(registry),
		registry: registry,
		logger:   logging.Named("api"),
	}
	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	router.Use(gin.Recovery(), s.requestContext())
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.router.POST("/calculate", s.handleCalculate)
	s.router.GET("/rates", s.handleGetRates)
	s.router.PUT("/rates", s.handlePutRates)

	s.router.GET("/health", s.handleHealth)
	s.router.GET("/version", s.handleVersion)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
}

// requestContext tags each request with an ID and records latency
func (s *Server) requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		s.metrics.requests.WithLabelValues(route, strconv.Itoa(status)).Observe(elapsed.Seconds())
		s.logger.Debug("request",
			zap.String("request_id", id),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", elapsed))
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the server and blocks until it stops
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", zap.String("addr", s.http.Addr), zap.String("backend", string(s.store.Backend())))
	return s.http.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
