package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/fwi-risk-service/internal/domain"
)

const maxRequestBody = 64 << 10

// PredictionHandler answers a single prediction request.
type PredictionHandler interface {
	Handle(ctx context.Context, req domain.PredictionRequest) domain.Response
}

// Server exposes the prediction API alongside health, readiness and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	predictor  PredictionHandler
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /v1/predict, /v1/risk-tiers, /healthz,
// /readyz and /metrics routes.
func NewServer(addr string, predictor PredictionHandler, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      requestID(mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		predictor: predictor,
		logger:    logger,
	}

	mux.HandleFunc("POST /v1/predict", s.handlePredict)
	mux.HandleFunc("GET /v1/risk-tiers", s.handleRiskTiers)
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

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req domain.PredictionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	err := dec.Decode(&req)
	if err == nil {
		// Exactly one JSON value is accepted.
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = errTrailingData
		}
	}
	if err != nil {
		s.logger.Debug("rejected malformed request", "error", err, "request_id", RequestIDFromContext(r.Context()))
		sharedobs.WriteJSON(w, http.StatusBadRequest, badRequest())
		return
	}

	resp := s.predictor.Handle(r.Context(), req)
	status := statusFor(resp)

	attrs := []any{"request_id", RequestIDFromContext(r.Context()), "status", status}
	switch {
	case resp.OK():
		attrs = append(attrs, "fwi", resp.Prediction.FWI, "risk_tier", resp.Prediction.Tier)
	case resp.Error != nil:
		attrs = append(attrs, "kind", resp.Error.Kind)
	}
	s.logger.Info("prediction served", attrs...)

	sharedobs.WriteJSON(w, status, resp)
}

func (s *Server) handleRiskTiers(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, map[string][]domain.TierBand{"tiers": domain.Tiers()})
}

// statusFor maps a response onto an HTTP status code.
func statusFor(resp domain.Response) int {
	if resp.Error == nil {
		return http.StatusOK
	}
	switch resp.Error.Kind {
	case domain.ErrorKindValidation:
		return http.StatusUnprocessableEntity
	case domain.ErrorKindModelUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type badRequestBody struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

var errTrailingData = errors.New("unexpected data after JSON object")

// badRequest carries a fixed message; decoder errors are only logged.
func badRequest() badRequestBody {
	var b badRequestBody
	b.Error.Kind = "bad_request"
	b.Error.Message = "Request body must be a single JSON object with numeric fields."
	return b
}
