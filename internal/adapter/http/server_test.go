package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/fwi-risk-service/internal/adapter/http"
	"github.com/couchcryptid/fwi-risk-service/internal/domain"
	"github.com/couchcryptid/fwi-risk-service/internal/model"
	"github.com/couchcryptid/fwi-risk-service/internal/observability"
	"github.com/couchcryptid/fwi-risk-service/internal/pipeline"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type stubHandler struct {
	resp domain.Response
	got  domain.PredictionRequest
}

func (s *stubHandler) Handle(_ context.Context, req domain.PredictionRequest) domain.Response {
	s.got = req
	return s.resp
}

func newTestServer(h httpadapter.PredictionHandler, readyErr error) *httpadapter.Server {
	return httpadapter.NewServer(":0", h, &mockReadiness{err: readyErr}, slog.Default())
}

func newServiceServer(t *testing.T) *httpadapter.Server {
	t.Helper()
	p, err := model.Load(context.Background(), model.DirSource{Dir: "../../../models"}, model.DefaultArtifactKeys)
	require.NoError(t, err)
	svc := pipeline.NewService(p, slog.Default(), observability.NewMetricsForTesting())
	return newTestServer(svc, nil)
}

func postPredict(srv http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.ServeHTTP(rec, req)
	return rec
}

func midpointBody(t *testing.T, mutate func(*domain.PredictionRequest)) string {
	t.Helper()
	req := domain.DefaultRequest()
	if mutate != nil {
		mutate(&req)
	}
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return string(data)
}

func TestPredict_Success(t *testing.T) {
	srv := newServiceServer(t)

	rec := postPredict(srv, midpointBody(t, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp domain.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.OK())
	assert.Equal(t, domain.RiskModerate, resp.Prediction.Tier)
	assert.Equal(t, "Moderate Risk", resp.Prediction.Label)
	assert.Equal(t, "#fff0b3", resp.Prediction.Color)
	assert.NotEmpty(t, resp.Prediction.Recommendations)
}

func TestPredict_ValidationError(t *testing.T) {
	srv := newServiceServer(t)

	rec := postPredict(srv, midpointBody(t, func(r *domain.PredictionRequest) { r.Temperature = 15 }))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp domain.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Nil(t, resp.Prediction)
	assert.Equal(t, domain.ErrorKindValidation, resp.Error.Kind)
	assert.Equal(t, "Temperature", resp.Error.Field)
	assert.Contains(t, resp.Error.Message, "22")
	assert.Contains(t, resp.Error.Message, "42")
}

func TestPredict_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		resp domain.Response
		want int
	}{
		{"inference", domain.ErrorResponse(domain.ErrorKindInference, "", "boom"), http.StatusInternalServerError},
		{"model unavailable", domain.ErrorResponse(domain.ErrorKindModelUnavailable, "", "no model"), http.StatusServiceUnavailable},
		{"validation", domain.ErrorResponse(domain.ErrorKindValidation, "Region", "bad"), http.StatusUnprocessableEntity},
		{"success", domain.Response{Prediction: &domain.PredictionResult{FWI: 3, RiskAssessment: domain.Classify(3)}}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&stubHandler{resp: tt.resp}, nil)
			rec := postPredict(srv, midpointBody(t, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestPredict_MalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "temperature=32"},
		{"truncated", `{"temperature":32`},
		{"string number", `{"temperature":"hot"}`},
		{"trailing object", midpointBody(t, nil) + `{}`},
		{"trailing garbage", midpointBody(t, nil) + `garbage`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &stubHandler{}
			srv := newTestServer(h, nil)

			rec := postPredict(srv, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "bad_request", body["error"]["kind"])
			assert.NotContains(t, body["error"]["message"], "json:")
			assert.NotContains(t, body["error"]["message"], "float64")
			assert.Equal(t, domain.PredictionRequest{}, h.got, "handler must not be called")
		})
	}
}

func TestPredict_TrailingWhitespaceAccepted(t *testing.T) {
	srv := newServiceServer(t)

	rec := postPredict(srv, midpointBody(t, nil)+"\n\t ")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPredict_MissingFieldsRejected(t *testing.T) {
	srv := newServiceServer(t)

	rec := postPredict(srv, `{"temperature":32,"relative_humidity":55.5,"wind_speed":17.5,"ffmc":60.55,"dmc":33.5}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp domain.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, domain.ErrorKindValidation, resp.Error.Kind)
	assert.Equal(t, "Rain", resp.Error.Field)
	assert.Equal(t, "Rain is required.", resp.Error.Message)
}

func TestPredict_Categoricals(t *testing.T) {
	const base = `{"temperature":32,"relative_humidity":55.5,"wind_speed":17.5,"rain":8.4,"ffmc":60.55,"dmc":33.5,"isi":9.25,`
	tests := []struct {
		name    string
		tail    string
		status  int
		field   string
		message string
	}{
		{"integral float class", `"fire_class":1.0,"region":0}`, http.StatusOK, "", ""},
		{"fractional class", `"fire_class":2.5,"region":0}`, http.StatusUnprocessableEntity, "FireClass", "Class must be 0 (No Fire) or 1 (Fire)."},
		{"fractional region", `"fire_class":0,"region":0.5}`, http.StatusUnprocessableEntity, "Region", "Region must be 0 (Bejaia) or 1 (Sidi-Bel Abbes)."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServiceServer(t)

			rec := postPredict(srv, base+tt.tail)

			assert.Equal(t, tt.status, rec.Code)
			var resp domain.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			if tt.field == "" {
				assert.True(t, resp.OK())
				return
			}
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.field, resp.Error.Field)
			assert.Equal(t, tt.message, resp.Error.Message)
		})
	}
}

func TestPredict_WrongMethod(t *testing.T) {
	srv := newTestServer(&stubHandler{}, nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/predict", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRiskTiers(t *testing.T) {
	srv := newTestServer(&stubHandler{}, nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/risk-tiers", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Tiers []domain.TierBand `json:"tiers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Tiers, 3)
	assert.Equal(t, domain.RiskLow, body.Tiers[0].Tier)
	assert.Nil(t, body.Tiers[0].Min)
	require.NotNil(t, body.Tiers[0].Max)
	assert.InDelta(t, 10.0, *body.Tiers[0].Max, 0)
	assert.Equal(t, domain.RiskHigh, body.Tiers[2].Tier)
	assert.Nil(t, body.Tiers[2].Max)
}

func TestRequestID_GeneratedWhenAbsent(t *testing.T) {
	srv := newTestServer(&stubHandler{}, nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/risk-tiers", nil))

	id := rec.Header().Get(httpadapter.RequestIDHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err, "expected a UUID request id, got %q", id)
}

func TestRequestID_PropagatedWhenPresent(t *testing.T) {
	srv := newTestServer(&stubHandler{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(httpadapter.RequestIDHeader, "abc-123")

	srv.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(httpadapter.RequestIDHeader))
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(&stubHandler{}, nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(&stubHandler{}, nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(&stubHandler{}, fmt.Errorf("model unavailable"))
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&stubHandler{}, nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
