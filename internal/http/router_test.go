package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"diabetes-risk/internal/classifier"
	"diabetes-risk/internal/domain"
	"diabetes-risk/internal/llm"
	"diabetes-risk/internal/metrics"
	"diabetes-risk/internal/service"
)

type fakeDatasetRepo struct{}

func (fakeDatasetRepo) Load(context.Context) (domain.Dataset, error) {
	return domain.Dataset{
		Columns: []string{"Diabetes", "BMI", "HighBP"},
		Rows:    [][]float64{{0, 22, 0}, {0, 25, 1}, {1, 33, 1}},
	}, nil
}

func (fakeDatasetRepo) Describe() string { return "fake" }

type routerOptions struct {
	loadErr    error
	simulation bool
	llmClient  llm.LLMClient
}

func newTestRouter(t *testing.T, opts routerOptions) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg, err := service.LoadSchemaFile("../../configs/feature_schemas.yaml")
	if err != nil {
		t.Fatalf("load schemas: %v", err)
	}
	schema, err := reg.Get("reduced")
	if err != nil {
		t.Fatalf("get schema: %v", err)
	}

	holder := classifier.NewHolder(func() (classifier.Classifier, error) {
		if opts.loadErr != nil {
			return nil, opts.loadErr
		}
		return &classifier.LogisticRegression{
			Coefficients: []float64{0.1, 0.2, 0.3, 0.3, 0.2, -0.4, 0.5},
			Intercept:    -6,
			Threshold:    0.5,
		}, nil
	})

	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)
	logger := zap.NewNop()
	sim := service.SimulationRule{Enabled: opts.simulation, Column: domain.ColumnBMI, Threshold: 30}
	risk := service.NewRiskService(schema, holder, sim, m, logger)
	advisor := service.NewRecommendationService(opts.llmClient, service.RecommendationOptions{Metrics: m, Logger: logger})
	assessments := service.NewAssessmentService(risk, advisor, logger)
	dataset := service.NewDatasetService(fakeDatasetRepo{}, []string{"HighBP"}, logger)

	health := NewHealthHandler(map[string]ReadinessCheck{
		"classifier": func(context.Context) error {
			_, err := holder.Get()
			return err
		},
		"dataset": dataset.Ready,
	})
	return NewRouter(
		logger,
		promReg,
		[]string{"*"},
		health,
		NewAssessmentHandler(logger, reg, risk, assessments, advisor),
		NewDatasetHandler(logger, dataset),
	)
}

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		payload, _ = json.Marshal(b)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

var reducedBody = map[string]any{
	"bmi":                     32.0,
	"age_years":               45,
	"high_bp":                 1,
	"high_chol":               "yes",
	"smoker":                  false,
	"phys_activity":           1,
	"heart_disease_or_attack": 0,
}

func TestEncodeEndpoint(t *testing.T) {
	r := newTestRouter(t, routerOptions{})
	rec := performRequest(r, http.MethodPost, "/api/v1/features/encode", reducedBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Features domain.FeatureVector `json:"features"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []float64{32, 6, 1, 1, 0, 1, 0}
	for i, v := range want {
		if out.Features.Values[i] != v {
			t.Fatalf("expected %v, got %v", want, out.Features.Values)
		}
	}
}

func TestCreateAssessment(t *testing.T) {
	r := newTestRouter(t, routerOptions{llmClient: &llm.MockClient{Response: "- walk 30 minutes"}})
	rec := performRequest(r, http.MethodPost, "/api/v1/assessments?advice=true", reducedBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Assessment domain.Assessment `json:"assessment"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Assessment.ID == "" || out.Assessment.Prediction.Source != domain.SourceModel {
		t.Fatalf("unexpected assessment %+v", out.Assessment)
	}
	if out.Assessment.Recommendation == nil || out.Assessment.Recommendation.Text != "- walk 30 minutes" {
		t.Fatalf("expected advisor text in assessment, got %+v", out.Assessment.Recommendation)
	}
}

func TestCreateAssessmentErrors(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		r := newTestRouter(t, routerOptions{})
		if rec := performRequest(r, http.MethodPost, "/api/v1/assessments", "{"); rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("invalid advice flag", func(t *testing.T) {
		r := newTestRouter(t, routerOptions{})
		if rec := performRequest(r, http.MethodPost, "/api/v1/assessments?advice=maybe", reducedBody); rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("missing field", func(t *testing.T) {
		r := newTestRouter(t, routerOptions{})
		rec := performRequest(r, http.MethodPost, "/api/v1/assessments", map[string]any{"bmi": 30})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		if body := decodeBody(t, rec); body["column"] == nil {
			t.Fatalf("expected offending column in body, got %v", body)
		}
	})

	t.Run("classifier unavailable", func(t *testing.T) {
		r := newTestRouter(t, routerOptions{loadErr: errors.New("no artifact")})
		rec := performRequest(r, http.MethodPost, "/api/v1/assessments", reducedBody)
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["prediction_enabled"] != false {
			t.Fatalf("expected prediction_enabled=false, got %v", body)
		}
		if strings.Contains(rec.Body.String(), `"label"`) {
			t.Fatalf("503 body must not carry a label: %s", rec.Body.String())
		}
	})
}

func TestSimulateEndpoint(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		r := newTestRouter(t, routerOptions{})
		if rec := performRequest(r, http.MethodPost, "/api/v1/assessments/simulate", reducedBody); rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("enabled", func(t *testing.T) {
		r := newTestRouter(t, routerOptions{simulation: true, loadErr: errors.New("no artifact")})
		rec := performRequest(r, http.MethodPost, "/api/v1/assessments/simulate", reducedBody)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if body := decodeBody(t, rec); body["simulated"] != true {
			t.Fatalf("expected simulated marker, got %v", body)
		}
	})
}

func TestRecommendationsEndpointWithoutCredential(t *testing.T) {
	r := newTestRouter(t, routerOptions{})
	rec := performRequest(r, http.MethodPost, "/api/v1/recommendations", map[string]any{
		"profile":   reducedBody,
		"high_risk": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Recommendation domain.Recommendation `json:"recommendation"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Recommendation.Status != domain.RecommendationNoCredential {
		t.Fatalf("expected no_credential, got %s", out.Recommendation.Status)
	}

	if rec := performRequest(r, http.MethodPost, "/api/v1/recommendations", map[string]any{"profile": reducedBody}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without high_risk, got %d", rec.Code)
	}
}

func TestStatusAndSchemas(t *testing.T) {
	r := newTestRouter(t, routerOptions{loadErr: errors.New("no artifact")})
	body := decodeBody(t, performRequest(r, http.MethodGet, "/api/v1/assessments/status", nil))
	if body["prediction_enabled"] != false || body["advisor_configured"] != false || body["schema"] != "reduced" {
		t.Fatalf("unexpected status %v", body)
	}

	body = decodeBody(t, performRequest(r, http.MethodGet, "/api/v1/schemas", nil))
	if body["active"] != "reduced" {
		t.Fatalf("unexpected active schema %v", body["active"])
	}
	if schemas, ok := body["schemas"].([]any); !ok || len(schemas) != 2 {
		t.Fatalf("expected two schemas, got %v", body["schemas"])
	}
}

func TestDatasetEndpoints(t *testing.T) {
	r := newTestRouter(t, routerOptions{})
	for _, path := range []string{
		"/api/v1/dataset/summary",
		"/api/v1/dataset/diabetes",
		"/api/v1/dataset/bmi",
		"/api/v1/dataset/risk-factors",
		"/api/v1/dataset/risk-factors/HighBP",
	} {
		if rec := performRequest(r, http.MethodGet, path, nil); rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d: %s", path, rec.Code, rec.Body.String())
		}
	}
	if rec := performRequest(r, http.MethodGet, "/api/v1/dataset/risk-factors/Income", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown column, got %d", rec.Code)
	}
}

func TestHealthReadyAndMetrics(t *testing.T) {
	r := newTestRouter(t, routerOptions{loadErr: errors.New("no artifact")})
	if rec := performRequest(r, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", rec.Code)
	}
	rec := performRequest(r, http.MethodGet, "/readyz", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected readyz 503 with broken classifier, got %d", rec.Code)
	}

	performRequest(r, http.MethodPost, "/api/v1/assessments", reducedBody)
	rec = performRequest(r, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "diabrisk_assessment_failures_total") {
		t.Fatalf("expected failure counter in metrics output, got %d", rec.Code)
	}
}
