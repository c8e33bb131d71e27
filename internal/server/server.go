// Package server exposes the exporter over HTTP. It is a thin adapter: the
// /metrics handler runs the pipeline once per request and maps a pipeline
// failure to a 500 response, never to an empty or partial document.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Guliveer/pwrstat-exporter/internal/config"
	"github.com/Guliveer/pwrstat-exporter/internal/exporter"
)

// contentType is the media type of the Prometheus text exposition format.
const contentType = "text/plain; version=0.0.4; charset=utf-8"

const landingPage = `<html>
<head><title>pwrstat exporter</title></head>
<body>
<h1>pwrstat exporter</h1>
<p><a href="/metrics">Metrics</a></p>
</body>
</html>
`

// Server serves the UPS metrics endpoint.
type Server struct {
	cfg      config.ServerConfig
	exporter *exporter.Exporter
	logger   *zap.Logger
	handler  http.Handler
}

// New creates a Server for exp. cfg.Adapter selects how /metrics is
// rendered; see config.AdapterText and config.AdapterRegistry.
func New(cfg config.ServerConfig, exp *exporter.Exporter, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		exporter: exp,
		logger:   logger.Named("http"),
	}

	var metricsHandler http.Handler
	switch cfg.Adapter {
	case config.AdapterText, "":
		metricsHandler = http.HandlerFunc(s.handleMetrics)
	case config.AdapterRegistry:
		reg := prometheus.NewRegistry()
		if err := reg.Register(exporter.NewPrometheusCollector(exp, logger)); err != nil {
			return nil, fmt.Errorf("registering collector: %w", err)
		}
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{
			ErrorLog:      zap.NewStdLog(s.logger),
			ErrorHandling: promhttp.HTTPErrorOnError,
		})
	default:
		return nil, fmt.Errorf("unknown adapter %q", cfg.Adapter)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metricsHandler)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /{$}", handleLanding)
	s.handler = s.logRequests(mux)

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve is like Run but accepts connections on ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout.Duration,
		ErrorLog:          zap.NewStdLog(s.logger),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info("Listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout.Duration)
	defer cancel()
	s.logger.Info("Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// handleMetrics runs the pipeline for one scrape. Client disconnects do not
// cancel a status command that is already running.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	body, err := s.exporter.Metrics(context.WithoutCancel(r.Context()))
	if err != nil {
		http.Error(w, "error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(body); err != nil {
		s.logger.Debug("Writing metrics response failed", zap.Error(err))
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func handleLanding(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(landingPage))
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		}
		if rec.status >= http.StatusInternalServerError {
			s.logger.Warn("Request failed", fields...)
			return
		}
		s.logger.Debug("Request served", fields...)
	})
}
