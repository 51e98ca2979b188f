package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/fwi-risk-service/internal/domain"
	"github.com/couchcryptid/fwi-risk-service/internal/model"
	"github.com/couchcryptid/fwi-risk-service/internal/observability"
)

// InferenceFailedMessage is returned to callers when the model fails on an
// otherwise valid request. The underlying cause is only logged.
const InferenceFailedMessage = "Unable to compute the Fire Weather Index for this input."

// ModelUnavailableMessage is returned when no model is loaded.
const ModelUnavailableMessage = "The prediction model is not available."

// Predictor scores a validated request.
type Predictor interface {
	Predict(req domain.PredictionRequest) (float64, error)
}

// Service validates, predicts and classifies prediction requests. It holds no
// mutable state and is safe for concurrent use.
type Service struct {
	predictor Predictor
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewService creates a Service backed by the given predictor. A nil predictor
// yields model_unavailable responses.
func NewService(predictor Predictor, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		predictor: predictor,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once a model is available.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.predictor == nil {
		return model.ErrModelUnavailable
	}
	if p, ok := s.predictor.(*model.Predictor); ok && p == nil {
		return model.ErrModelUnavailable
	}
	return nil
}

// Handle runs one request through validation, prediction and classification.
// Identical requests against the same model produce identical responses.
func (s *Service) Handle(_ context.Context, req domain.PredictionRequest) domain.Response {
	start := time.Now()
	defer func() {
		s.metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	}()

	if verr := domain.Validate(req); verr != nil {
		s.metrics.PredictionErrors.WithLabelValues(string(domain.ErrorKindValidation)).Inc()
		return domain.ErrorResponse(domain.ErrorKindValidation, verr.Field, verr.Message)
	}

	if s.predictor == nil {
		return s.unavailable(model.ErrModelUnavailable)
	}

	score, err := s.predictor.Predict(req)
	if err != nil {
		if errors.Is(err, model.ErrModelUnavailable) {
			return s.unavailable(err)
		}
		s.logger.Error("inference failed", "error", err)
		s.metrics.PredictionErrors.WithLabelValues(string(domain.ErrorKindInference)).Inc()
		return domain.ErrorResponse(domain.ErrorKindInference, "", InferenceFailedMessage)
	}

	assessment := domain.Classify(score)
	s.metrics.Predictions.WithLabelValues(string(assessment.Tier)).Inc()
	s.metrics.FWIScore.Observe(score)

	return domain.Response{Prediction: &domain.PredictionResult{FWI: score, RiskAssessment: assessment}}
}

func (s *Service) unavailable(err error) domain.Response {
	s.logger.Error("prediction rejected", "error", err)
	s.metrics.PredictionErrors.WithLabelValues(string(domain.ErrorKindModelUnavailable)).Inc()
	return domain.ErrorResponse(domain.ErrorKindModelUnavailable, "", ModelUnavailableMessage)
}
