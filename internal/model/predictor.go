package model

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/couchcryptid/fwi-risk-service/internal/domain"
)

// Predictor pairs a fitted scaler with a fitted regressor. A loaded Predictor
// is read-only and safe for concurrent use.
type Predictor struct {
	scaler    *Scaler
	regressor *Regressor
	source    string
}

// Load reads and validates both artifacts. Any failure is wrapped with
// ErrModelUnavailable.
func Load(ctx context.Context, src ArtifactSource, keys ArtifactKeys) (*Predictor, error) {
	var sa scalerArtifact
	if err := decodeArtifact(ctx, src, keys.Scaler, &sa); err != nil {
		return nil, fmt.Errorf("%w: scaler %s: %w", ErrModelUnavailable, keys.Scaler, err)
	}
	scaler, err := newScaler(sa)
	if err != nil {
		return nil, fmt.Errorf("%w: scaler %s: %w", ErrModelUnavailable, keys.Scaler, err)
	}

	var ra regressorArtifact
	if err := decodeArtifact(ctx, src, keys.Regressor, &ra); err != nil {
		return nil, fmt.Errorf("%w: regressor %s: %w", ErrModelUnavailable, keys.Regressor, err)
	}
	regressor, err := newRegressor(ra)
	if err != nil {
		return nil, fmt.Errorf("%w: regressor %s: %w", ErrModelUnavailable, keys.Regressor, err)
	}

	return &Predictor{scaler: scaler, regressor: regressor, source: src.String()}, nil
}

func decodeArtifact(ctx context.Context, src ArtifactSource, key string, v any) error {
	rc, err := src.Open(ctx, key)
	if err != nil {
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("read artifact: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode artifact: %w", err)
	}
	return nil
}

// Info describes a loaded predictor for logs.
type Info struct {
	Source        string
	ScalerKind    string
	RegressorKind string
}

// Info returns the artifact kinds and where they were loaded from.
func (p *Predictor) Info() Info {
	if p == nil {
		return Info{}
	}
	return Info{Source: p.source, ScalerKind: p.scaler.Kind(), RegressorKind: p.regressor.Kind()}
}

// Predict scores a request. The result is not clamped. A nil Predictor
// returns ErrModelUnavailable.
func (p *Predictor) Predict(req domain.PredictionRequest) (float64, error) {
	if p == nil || p.scaler == nil || p.regressor == nil {
		return 0, ErrModelUnavailable
	}
	return p.predictVector(req.Features())
}

func (p *Predictor) predictVector(x []float64) (score float64, err error) {
	stage := "transform"
	defer func() {
		if r := recover(); r != nil {
			score, err = 0, &InferenceError{Stage: stage, Err: fmt.Errorf("%v", r)}
		}
	}()

	scaled := p.scaler.Transform(x)
	for i, v := range scaled {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, &InferenceError{Stage: stage, Err: fmt.Errorf("scaled feature %s is not finite", domain.FeatureNames[i])}
		}
	}

	stage = "predict"
	score = p.regressor.Predict(scaled)
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, &InferenceError{Stage: stage, Err: fmt.Errorf("score is not finite")}
	}
	return score, nil
}
