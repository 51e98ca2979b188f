package model

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/fwi-risk-service/internal/domain"
)

const (
	identityScaler = `{"kind":"standard","mean":[0,0,0,0,0,0,0,0,0],"scale":[1,1,1,1,1,1,1,1,1]}`
	isiRegressor   = `{"kind":"ridge","coefficients":[0,0,0,0,0,0,1,0,0],"intercept":0}`
)

// --- in-memory artifact source ---

type mapSource map[string]string

func (m mapSource) Open(_ context.Context, key string) (io.ReadCloser, error) {
	v, ok := m[key]
	if !ok {
		return nil, errors.New("not found: " + key)
	}
	return io.NopCloser(strings.NewReader(v)), nil
}

func (m mapSource) String() string { return "memory" }

func loadFrom(t *testing.T, scaler, regressor string) *Predictor {
	t.Helper()
	p, err := Load(context.Background(), mapSource{"s.json": scaler, "r.json": regressor}, ArtifactKeys{Scaler: "s.json", Regressor: "r.json"})
	require.NoError(t, err)
	return p
}

// --- tests ---

func TestPredict_IdentityScalerISIModel(t *testing.T) {
	p := loadFrom(t, identityScaler, isiRegressor)

	req := domain.DefaultRequest()
	score, err := p.Predict(req)
	require.NoError(t, err)
	assert.InDelta(t, 9.25, score, 1e-9)
}

func TestPredict_StandardScaler(t *testing.T) {
	scaler := `{"kind":"standard","mean":[30,0,0,0,0,0,0,0,0],"scale":[2,1,1,1,1,1,1,1,1]}`
	regressor := `{"kind":"linear","coefficients":[3,0,0,0,0,0,0,0,0],"intercept":1.5}`
	p := loadFrom(t, scaler, regressor)

	req := domain.DefaultRequest()
	req.Temperature = 34 // (34-30)/2 = 2 -> 1.5 + 3*2

	score, err := p.Predict(req)
	require.NoError(t, err)
	assert.InDelta(t, 7.5, score, 1e-9)
}

func TestPredict_StandardScalerZeroScaleTreatedAsOne(t *testing.T) {
	scaler := `{"kind":"standard","mean":[0,0,0,0,0,0,0,0,0],"scale":[0,1,1,1,1,1,1,1,1]}`
	regressor := `{"kind":"ridge","coefficients":[1,0,0,0,0,0,0,0,0],"intercept":0}`
	p := loadFrom(t, scaler, regressor)

	score, err := p.Predict(domain.DefaultRequest())
	require.NoError(t, err)
	assert.InDelta(t, 32, score, 1e-9)
}

func TestPredict_MinMaxScaler(t *testing.T) {
	scaler := `{"kind":"minmax",
		"data_min":[22,21,6,0,28.6,1.1,0,0,0],
		"data_max":[42,90,29,16.8,92.5,65.9,18.5,1,1]}`
	regressor := `{"kind":"ridge","coefficients":[10,0,0,0,0,0,0,0,0],"intercept":0}`
	p := loadFrom(t, scaler, regressor)

	req := domain.DefaultRequest()
	req.Temperature = 27 // (27-22)/20 = 0.25

	score, err := p.Predict(req)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, score, 1e-9)
}

func TestPredict_MinMaxScalerCustomRange(t *testing.T) {
	scaler := `{"kind":"minmax",
		"data_min":[22,21,6,0,28.6,1.1,0,0,0],
		"data_max":[42,90,29,16.8,92.5,65.9,18.5,1,1],
		"feature_range":[-1,1]}`
	regressor := `{"kind":"ridge","coefficients":[1,0,0,0,0,0,0,0,0],"intercept":0}`
	p := loadFrom(t, scaler, regressor)

	req := domain.DefaultRequest()
	req.Temperature = 42

	score, err := p.Predict(req)
	require.NoError(t, err)
	assert.InDelta(t, 1, score, 1e-9)
}

func TestPredict_NoClamping(t *testing.T) {
	p := loadFrom(t, identityScaler, `{"kind":"ridge","coefficients":[0,0,0,0,0,0,-100,0,0],"intercept":0}`)

	score, err := p.Predict(domain.DefaultRequest())
	require.NoError(t, err)
	assert.InDelta(t, -925, score, 1e-9)
}

func TestPredict_NilPredictor(t *testing.T) {
	var p *Predictor
	_, err := p.Predict(domain.DefaultRequest())
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestPredict_NonFiniteScoreIsInferenceError(t *testing.T) {
	p := loadFrom(t, identityScaler, `{"kind":"ridge","coefficients":[1e308,1e308,0,0,0,0,0,0,0],"intercept":0}`)

	_, err := p.Predict(domain.DefaultRequest())
	var inferr *InferenceError
	require.ErrorAs(t, err, &inferr)
	assert.Equal(t, "predict", inferr.Stage)
}

func TestPredictVector_WidthMismatchRecovered(t *testing.T) {
	p := loadFrom(t, identityScaler, isiRegressor)

	_, err := p.predictVector([]float64{1, 2, 3})
	var inferr *InferenceError
	require.ErrorAs(t, err, &inferr)
	assert.Equal(t, "transform", inferr.Stage)
}

func TestPredict_ConcurrentUse(t *testing.T) {
	p := loadFrom(t, identityScaler, isiRegressor)

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := domain.DefaultRequest()
			req.ISI = float64(i % 18)
			score, err := p.Predict(req)
			assert.NoError(t, err)
			assert.InDelta(t, req.ISI, score, 1e-9)
		}()
	}
	wg.Wait()
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		scaler    string
		regressor string
		contains  string
	}{
		{"missing scaler", "", isiRegressor, "scaler s.json"},
		{"bad scaler JSON", "{", isiRegressor, "decode artifact"},
		{"unknown scaler kind", `{"kind":"robust"}`, isiRegressor, `unsupported scaler kind "robust"`},
		{"short mean", `{"kind":"standard","mean":[0],"scale":[1,1,1,1,1,1,1,1,1]}`, isiRegressor, "mean: expected 9 values, got 1"},
		{"bad feature range", `{"kind":"minmax","data_min":[0,0,0,0,0,0,0,0,0],"data_max":[1,1,1,1,1,1,1,1,1],"feature_range":[1,0]}`, isiRegressor, "feature_range"},
		{"wrong feature order", `{"kind":"standard","features":["RH","Temperature","Ws","Rain","FFMC","DMC","ISI","Classes","Region"],"mean":[0,0,0,0,0,0,0,0,0],"scale":[1,1,1,1,1,1,1,1,1]}`, isiRegressor, "features: expected order"},
		{"unknown regressor kind", identityScaler, `{"kind":"forest","coefficients":[0,0,0,0,0,0,0,0,0]}`, `unsupported regressor kind "forest"`},
		{"short coefficients", identityScaler, `{"kind":"ridge","coefficients":[1,2]}`, "coefficients: expected 9 values, got 2"},
		{"missing regressor", identityScaler, "", "regressor r.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := mapSource{}
			if tt.scaler != "" {
				src["s.json"] = tt.scaler
			}
			if tt.regressor != "" {
				src["r.json"] = tt.regressor
			}

			p, err := Load(context.Background(), src, ArtifactKeys{Scaler: "s.json", Regressor: "r.json"})
			require.Error(t, err)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, ErrModelUnavailable)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoad_DirSource(t *testing.T) {
	p, err := Load(context.Background(), DirSource{Dir: "testdata"}, ArtifactKeys{Scaler: "scaler_identity.json", Regressor: "ridge_isi.json"})
	require.NoError(t, err)

	info := p.Info()
	assert.Equal(t, "dir:testdata", info.Source)
	assert.Equal(t, ScalerStandard, info.ScalerKind)
	assert.Equal(t, "ridge", info.RegressorKind)

	score, err := p.Predict(domain.DefaultRequest())
	require.NoError(t, err)
	assert.InDelta(t, 9.25, score, 1e-9)
}

func TestLoad_DirSourceWrongOrder(t *testing.T) {
	_, err := Load(context.Background(), DirSource{Dir: "testdata"}, ArtifactKeys{Scaler: "scaler_wrong_order.json", Regressor: "ridge_isi.json"})
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestLoad_DirSourceMissingDir(t *testing.T) {
	_, err := Load(context.Background(), DirSource{Dir: "does-not-exist"}, DefaultArtifactKeys)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestDirSource_KeyCannotEscape(t *testing.T) {
	_, err := DirSource{Dir: "testdata"}.Open(context.Background(), "../predictor.go")
	assert.Error(t, err)
}

func TestLoad_ShippedArtifacts(t *testing.T) {
	p, err := Load(context.Background(), DirSource{Dir: "../../models"}, DefaultArtifactKeys)
	require.NoError(t, err)

	score, err := p.Predict(domain.DefaultRequest())
	require.NoError(t, err)
	assert.False(t, math.IsNaN(score) || math.IsInf(score, 0))
	assert.InDelta(t, 19.243, score, 1e-3)
	assert.Equal(t, domain.RiskModerate, domain.Classify(score).Tier)
}
