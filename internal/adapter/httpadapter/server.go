package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/arc-flash-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Calculator runs a calculation request and returns its result envelope.
// *pipeline.Processor satisfies it.
type Calculator interface {
	Process(ctx context.Context, req domain.CalculationRequest) domain.CalculationResult
}

// Server exposes the synchronous calculation API alongside health, readiness,
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	calc       Calculator
	maxBytes   int64
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the /v1 calculation routes plus
// /healthz, /readyz, and /metrics.
func NewServer(addr string, ready sharedobs.ReadinessChecker, calc Calculator, maxBytes int64, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		calc:     calc,
		maxBytes: maxBytes,
		logger:   logger,
	}

	mux.HandleFunc("POST /v1/arc-flash", s.handleArcFlash)
	mux.HandleFunc("POST /v1/short-circuit", s.handleShortCircuit)
	mux.HandleFunc("POST /v1/study", s.handleStudy)
	mux.HandleFunc("POST /v1/calculations", s.handleCalculation)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleArcFlash(w http.ResponseWriter, r *http.Request) {
	var in domain.ArcFlashInputs
	if !s.decode(w, r, &in) {
		return
	}
	s.respond(w, r, domain.CalculationRequest{Kind: domain.KindArcFlash, ArcFlash: &in})
}

func (s *Server) handleShortCircuit(w http.ResponseWriter, r *http.Request) {
	var in domain.ShortCircuitInputs
	if !s.decode(w, r, &in) {
		return
	}
	s.respond(w, r, domain.CalculationRequest{Kind: domain.KindShortCircuit, ShortCircuit: &in})
}

type studyBody struct {
	ArcFlash     *domain.ArcFlashInputs     `json:"arc_flash"`
	ShortCircuit *domain.ShortCircuitInputs `json:"short_circuit"`
}

func (s *Server) handleStudy(w http.ResponseWriter, r *http.Request) {
	var body studyBody
	if !s.decode(w, r, &body) {
		return
	}
	s.respond(w, r, domain.CalculationRequest{
		Kind:         domain.KindStudy,
		ArcFlash:     body.ArcFlash,
		ShortCircuit: body.ShortCircuit,
	})
}

func (s *Server) handleCalculation(w http.ResponseWriter, r *http.Request) {
	var req domain.CalculationRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.respond(w, r, req)
}

// decode reads a size-limited JSON body into dst with the same rules the
// Kafka reader applies. On failure it writes the error response and returns
// false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)

	err := domain.DecodeStrict(r.Body, dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
			"error": fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		})
		return false
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": fmt.Sprintf("decode request body: %v", err),
	})
	return false
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, req domain.CalculationRequest) {
	if id := r.Header.Get("X-Request-ID"); id != "" && req.ID == "" {
		req.ID = id
	}

	result := s.calc.Process(r.Context(), req)

	status := http.StatusOK
	if result.Status != domain.StatusOK {
		status = http.StatusUnprocessableEntity
	}
	s.logger.DebugContext(r.Context(), "calculation served",
		"path", r.URL.Path, "id", result.ID, "status", result.Status)
	writeJSON(w, status, result)
}

// writeJSON encodes before writing the status so an unencodable value becomes
// a 500 instead of a success with an empty body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(map[string]string{
			"error": fmt.Sprintf("encode response: %v", err),
		})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
