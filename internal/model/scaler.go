package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/couchcryptid/fwi-risk-service/internal/domain"
)

// Scaler kinds understood by the artifact loader.
const (
	ScalerStandard = "standard"
	ScalerMinMax   = "minmax"
)

// scalerArtifact is the on-disk form of a fitted feature scaler. Standard
// scalers fill Mean and Scale; min-max scalers fill DataMin and DataMax and
// optionally FeatureRange.
type scalerArtifact struct {
	Kind         string    `json:"kind"`
	Features     []string  `json:"features,omitempty"`
	Mean         []float64 `json:"mean,omitempty"`
	Scale        []float64 `json:"scale,omitempty"`
	DataMin      []float64 `json:"data_min,omitempty"`
	DataMax      []float64 `json:"data_max,omitempty"`
	FeatureRange []float64 `json:"feature_range,omitempty"`
}

// Scaler applies a fitted affine normalization: (x - center) / divisor * spread + offset.
// It is immutable after construction.
type Scaler struct {
	kind    string
	center  []float64
	divisor []float64
	spread  float64
	offset  float64
}

func newScaler(a scalerArtifact) (*Scaler, error) {
	if err := checkFeatureOrder(a.Features); err != nil {
		return nil, err
	}

	switch a.Kind {
	case ScalerStandard:
		if err := checkVector("mean", a.Mean); err != nil {
			return nil, err
		}
		if err := checkVector("scale", a.Scale); err != nil {
			return nil, err
		}
		return &Scaler{
			kind:    ScalerStandard,
			center:  append([]float64(nil), a.Mean...),
			divisor: nonZero(a.Scale),
			spread:  1,
		}, nil

	case ScalerMinMax:
		if err := checkVector("data_min", a.DataMin); err != nil {
			return nil, err
		}
		if err := checkVector("data_max", a.DataMax); err != nil {
			return nil, err
		}
		lo, hi := 0.0, 1.0
		if len(a.FeatureRange) != 0 {
			if len(a.FeatureRange) != 2 || !(a.FeatureRange[0] < a.FeatureRange[1]) {
				return nil, fmt.Errorf("feature_range must be [min, max] with min < max, got %v", a.FeatureRange)
			}
			lo, hi = a.FeatureRange[0], a.FeatureRange[1]
		}
		span := make([]float64, domain.NumFeatures)
		floats.SubTo(span, a.DataMax, a.DataMin)
		return &Scaler{
			kind:    ScalerMinMax,
			center:  append([]float64(nil), a.DataMin...),
			divisor: nonZero(span),
			spread:  hi - lo,
			offset:  lo,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported scaler kind %q", a.Kind)
	}
}

// Kind returns the scaler kind.
func (s *Scaler) Kind() string { return s.kind }

// Transform normalizes x into a new slice. It panics if len(x) differs from
// the fitted width; Predictor recovers that into an InferenceError.
func (s *Scaler) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	floats.SubTo(out, x, s.center)
	floats.Div(out, s.divisor)
	if s.spread != 1 {
		floats.Scale(s.spread, out)
	}
	if s.offset != 0 {
		floats.AddConst(s.offset, out)
	}
	return out
}

// nonZero copies v, replacing zero entries with 1 so constant features pass
// through unscaled.
func nonZero(v []float64) []float64 {
	out := append([]float64(nil), v...)
	for i := range out {
		if out[i] == 0 {
			out[i] = 1
		}
	}
	return out
}

func checkVector(name string, v []float64) error {
	if len(v) != domain.NumFeatures {
		return fmt.Errorf("%s: expected %d values, got %d", name, domain.NumFeatures, len(v))
	}
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%s[%d] is not finite", name, i)
		}
	}
	return nil
}

// checkFeatureOrder accepts an empty list (order implied) or exactly FeatureNames.
func checkFeatureOrder(features []string) error {
	if len(features) == 0 {
		return nil
	}
	if len(features) != len(domain.FeatureNames) {
		return fmt.Errorf("features: expected %d names, got %d", len(domain.FeatureNames), len(features))
	}
	for i, name := range features {
		if name != domain.FeatureNames[i] {
			return fmt.Errorf("features: expected order %v, got %v", domain.FeatureNames, features)
		}
	}
	return nil
}
