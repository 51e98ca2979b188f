// Package modelsource resolves the configured artifact location and loads the
// predictor from it.
package modelsource

import (
	"context"
	"fmt"
	"log/slog"

	s3adapter "github.com/couchcryptid/fwi-risk-service/internal/adapter/s3"
	"github.com/couchcryptid/fwi-risk-service/internal/config"
	"github.com/couchcryptid/fwi-risk-service/internal/model"
	"github.com/couchcryptid/fwi-risk-service/internal/observability"
)

// New returns the artifact source selected by MODEL_SOURCE.
func New(ctx context.Context, cfg *config.Config) (model.ArtifactSource, error) {
	switch cfg.ModelSource {
	case config.ModelSourceS3:
		return s3adapter.New(ctx, cfg.AWSRegion, cfg.ModelS3Bucket, cfg.ModelS3Prefix)
	case config.ModelSourceFile, "":
		return model.DirSource{Dir: cfg.ModelDir}, nil
	default:
		return nil, fmt.Errorf("unknown model source %q", cfg.ModelSource)
	}
}

// Load opens the configured source and loads both artifacts. The outcome is
// logged and reflected in the model_loaded gauge.
func Load(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*model.Predictor, error) {
	src, err := New(ctx, cfg)
	if err != nil {
		metrics.ModelLoaded.Set(0)
		return nil, fmt.Errorf("%w: %w", model.ErrModelUnavailable, err)
	}
	return LoadFrom(ctx, src, model.ArtifactKeys{Scaler: cfg.ModelScalerKey, Regressor: cfg.ModelRegressorKey}, logger, metrics)
}

// LoadFrom loads the predictor from an explicit source.
func LoadFrom(ctx context.Context, src model.ArtifactSource, keys model.ArtifactKeys, logger *slog.Logger, metrics *observability.Metrics) (*model.Predictor, error) {
	p, err := model.Load(ctx, src, keys)
	if err != nil {
		metrics.ModelLoaded.Set(0)
		logger.Error("failed to load model artifacts", "source", src.String(), "error", err)
		return nil, err
	}

	info := p.Info()
	metrics.ModelLoaded.Set(1)
	logger.Info("model artifacts loaded",
		"source", info.Source,
		"scaler", info.ScalerKind,
		"regressor", info.RegressorKind,
	)
	return p, nil
}
