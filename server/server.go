// Package server exposes the analyzer over HTTP.
//
// Endpoints:
//
//	POST /api/truth_table      truth table of an expression
//	POST /api/normal_forms     CNF and DNF of an expression
//	POST /api/calculate_scheme truth table of a circuit
//	GET  /health               liveness
//	GET  /metrics              Prometheus metrics
//
// Analysis failures are answered with 200 OK and a body {"success": false, "error": ..., "kind": ...};
// only malformed request bodies yield 400 Bad Request.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crillab/booltrainer/analyzer"
	"github.com/crillab/booltrainer/config"
)

// RequestIDHeader is the header carrying the id of a request.
const RequestIDHeader = "X-Request-ID"

// A Server serves analysis requests.
type Server struct {
	cfg      *config.Config
	an       *analyzer.Analyzer
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics
	engine   *gin.Engine
}

// New returns a server answering with an, configured by cfg.
func New(cfg *config.Config, an *analyzer.Analyzer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	gin.SetMode(cfg.Server.Mode)
	s := &Server{
		cfg:      cfg,
		an:       an,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	s.metrics = newMetrics(s.registry)
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), s.logRequests())

	api := router.Group("/api")
	api.POST("/truth_table", handle(s, "truth_table", s.an.TruthTable))
	api.POST("/normal_forms", handle(s, "normal_forms", s.an.NormalForms))
	api.POST("/calculate_scheme", handle(s, "calculate_scheme", s.circuit))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	return router
}

// Handler returns the HTTP handler of s.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves requests on the configured address until ctx is done, then shuts the server down.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}
	s.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.RequestTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not shut down server: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// circuit analyzes the scheme of req with the configured policy for unwired slots,
// unless req names its own.
func (s *Server) circuit(ctx context.Context, req analyzer.SchemeRequest) (*analyzer.TableResponse, error) {
	if req.Dangling == "" {
		req.Dangling = s.cfg.DanglingPolicy().String()
	}
	return s.an.Circuit(ctx, req)
}

// handle binds the JSON body of a request to a Req, and answers with the result of fn
// computed under the configured request timeout.
func handle[Req, Res any](s *Server, endpoint string, fn func(context.Context, Req) (Res, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			s.metrics.durations.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		}()

		var req Req
		if err := c.ShouldBindJSON(&req); err != nil {
			s.metrics.requests.WithLabelValues(endpoint, "bad_request").Inc()
			c.JSON(http.StatusBadRequest, analyzer.ErrorResponse{Error: "invalid request body: " + err.Error(), Kind: "BadRequest"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.Server.RequestTimeout)
		defer cancel()
		res, err := fn(ctx, req)
		if err != nil {
			s.metrics.requests.WithLabelValues(endpoint, "error").Inc()
			s.logger.Debug("Analysis failed", "endpoint", endpoint, "kind", analyzer.Kind(err), "error", err,
				"request_id", c.GetString(requestIDKey))
			c.JSON(http.StatusOK, analyzer.Failure(err))
			return
		}
		s.metrics.requests.WithLabelValues(endpoint, "ok").Inc()
		if table, ok := any(res).(*analyzer.TableResponse); ok && table.Table != nil {
			s.metrics.rows.Add(float64(len(table.Table.Rows)))
		}
		c.JSON(http.StatusOK, res)
	}
}

const requestIDKey = "request_id"

// requestID propagates the request id sent by the client, or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Set(requestIDKey, id)
		c.Next()
	}
}

// logRequests logs every request once it is served.
func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("Request served",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"request_id", c.GetString(requestIDKey))
	}
}
