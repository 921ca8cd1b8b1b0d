// Package server exposes goquad over HTTP.
//
//	POST /tool         execute a tool call
//	POST /approximate  {"integral": "...", "n": 4} -> six-key report or {"error": ...}
//	GET  /schema       tool schema for agent registration
//	GET  /health       liveness check
//	GET  /metrics      Prometheus metrics
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/njchilds90/goquad"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type Server struct {
	logger   *slog.Logger
	opts     []goquad.Option
	registry *prometheus.Registry
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates a server. opts apply to every approximation it runs.
func New(logger *slog.Logger, opts ...goquad.Option) *Server {
	s := &Server{
		logger:   logger,
		opts:     opts,
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goquad_tool_calls_total",
				Help: "Tool calls by tool name and outcome",
			},
			[]string{"tool", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goquad_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
	s.registry.MustRegister(s.calls, s.duration)
	return s
}

// Handler returns the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.recoverer)

	r.With(s.timed("/tool")).Post("/tool", s.handleTool)
	r.With(s.timed("/approximate")).Post("/approximate", s.handleApproximate)
	r.Get("/schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, goquad.ToolSpec())
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("goquad HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	var req goquad.ToolRequest
	if err := decodeStrict(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	resp := goquad.HandleToolCall(r.Context(), req, s.opts...)
	status := "ok"
	if resp.Error != "" {
		status = "error"
		s.logger.Debug("tool call failed", "tool", req.Tool, "error", resp.Error)
	}
	s.calls.WithLabelValues(req.Tool, status).Inc()
	writeJSON(w, http.StatusOK, resp)
}

type approximateRequest struct {
	Integral string `json:"integral"`
	N        int    `json:"n"`
}

func (s *Server) handleApproximate(w http.ResponseWriter, r *http.Request) {
	var req approximateRequest
	if err := decodeStrict(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	out := goquad.Evaluate(r.Context(), req.Integral, req.N, s.opts...)
	if _, failed := out["error"]; failed {
		s.calls.WithLabelValues("approximate", "error").Inc()
		writeJSON(w, http.StatusUnprocessableEntity, out)
		return
	}
	s.calls.WithLabelValues("approximate", "ok").Inc()
	writeJSON(w, http.StatusOK, out)
}

// ============================================================
// Helpers
// ============================================================

// decodeStrict reads exactly one JSON value with no unknown fields.
func decodeStrict(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("invalid JSON: trailing data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic in handler", "path", r.URL.Path, "panic", rec, "stack", string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) timed(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			s.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}
