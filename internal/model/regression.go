package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// regressorArtifact is the on-disk form of a fitted linear model. Ridge,
// lasso, and ordinary least squares all reduce to coefficients plus intercept.
type regressorArtifact struct {
	Kind         string    `json:"kind"`
	Features     []string  `json:"features,omitempty"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

var linearKinds = map[string]bool{"ridge": true, "linear": true, "lasso": true}

// Regressor is a fitted linear model. It is immutable after construction.
type Regressor struct {
	kind      string
	coef      []float64
	intercept float64
}

func newRegressor(a regressorArtifact) (*Regressor, error) {
	if !linearKinds[a.Kind] {
		return nil, fmt.Errorf("unsupported regressor kind %q", a.Kind)
	}
	if err := checkFeatureOrder(a.Features); err != nil {
		return nil, err
	}
	if err := checkVector("coefficients", a.Coefficients); err != nil {
		return nil, err
	}
	if math.IsNaN(a.Intercept) || math.IsInf(a.Intercept, 0) {
		return nil, fmt.Errorf("intercept is not finite")
	}
	return &Regressor{
		kind:      a.Kind,
		coef:      append([]float64(nil), a.Coefficients...),
		intercept: a.Intercept,
	}, nil
}

// Kind returns the regressor kind.
func (r *Regressor) Kind() string { return r.kind }

// Predict returns intercept + coef·x. It panics on a width mismatch.
func (r *Regressor) Predict(x []float64) float64 {
	return r.intercept + floats.Dot(r.coef, x)
}
