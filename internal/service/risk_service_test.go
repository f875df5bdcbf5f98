package service

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"diabetes-risk/internal/classifier"
	"diabetes-risk/internal/domain"
	"diabetes-risk/internal/metrics"
)

type stubSource struct {
	clf   classifier.Classifier
	err   error
	calls int
}

func (s *stubSource) Get() (classifier.Classifier, error) {
	s.calls++
	return s.clf, s.err
}

type labelOnlyClassifier struct {
	label    int
	lastSeen []float64
}

func (c *labelOnlyClassifier) Predict(features []float64) (int, error) {
	c.lastSeen = append([]float64(nil), features...)
	return c.label, nil
}

type probClassifier struct {
	label int
	proba float64
	err   error
}

func (c probClassifier) Predict([]float64) (int, error)          { return c.label, c.err }
func (c probClassifier) PredictProba([]float64) (float64, error) { return c.proba, nil }

func newTestRiskService(t *testing.T, src ClassifierSource, sim SimulationRule) *RiskService {
	t.Helper()
	return NewRiskService(loadTestSchema(t, "reduced"), src, sim, metrics.New(prometheus.NewRegistry()), nil)
}

func TestAssessRiskReturnsClassifierOutputUnchanged(t *testing.T) {
	svc := newTestRiskService(t, &stubSource{clf: probClassifier{label: 0, proba: 0.73}}, SimulationRule{})
	res, err := svc.AssessRisk(reducedProfile())
	if err != nil {
		t.Fatalf("assess: %v", err)
	}
	// label 0 con probabilidad 0.73: no se re-umbraliza
	if res.Label != 0 || res.Probability != 0.73 {
		t.Fatalf("expected classifier output passthrough, got %+v", res)
	}
	if res.LabelOnly || res.Source != domain.SourceModel || res.Schema != "reduced" {
		t.Fatalf("unexpected flags %+v", res)
	}
}

func TestAssessRiskLabelOnlyClassifier(t *testing.T) {
	clf := &labelOnlyClassifier{label: 1}
	svc := newTestRiskService(t, &stubSource{clf: clf}, SimulationRule{})
	res, vec, err := svc.Evaluate(reducedProfile())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.LabelOnly || res.Probability != 0 || res.Label != 1 {
		t.Fatalf("expected label-only result with zero probability, got %+v", res)
	}
	if len(clf.lastSeen) != vec.Len() || clf.lastSeen[0] != 32.0 || clf.lastSeen[1] != 6 {
		t.Fatalf("classifier did not receive encoded vector, got %v", clf.lastSeen)
	}
}

func TestAssessRiskClassifierUnavailable(t *testing.T) {
	src := &stubSource{err: errors.New("open models/diabetes_model.json: no such file")}
	svc := newTestRiskService(t, src, SimulationRule{Enabled: true, Column: domain.ColumnBMI, Threshold: 30})
	res, err := svc.AssessRisk(reducedProfile())
	if !errors.Is(err, domain.ErrClassifierUnavailable) {
		t.Fatalf("expected ErrClassifierUnavailable, got %v", err)
	}
	if res != (domain.PredictionResult{}) {
		t.Fatalf("expected no result when classifier is unavailable, got %+v", res)
	}
	if svc.PredictionEnabled() {
		t.Fatalf("expected prediction disabled")
	}
}

func TestAssessRiskEncodingErrorSkipsClassifier(t *testing.T) {
	src := &stubSource{clf: probClassifier{label: 1, proba: 0.9}}
	svc := newTestRiskService(t, src, SimulationRule{})
	p := reducedProfile()
	p.BMI = nil
	if _, err := svc.AssessRisk(p); !errors.Is(err, domain.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	if src.calls != 0 {
		t.Fatalf("classifier should not be consulted on encoding errors")
	}
}

func TestPredictRejectsInvalidOutputs(t *testing.T) {
	cases := map[string]classifier.Classifier{
		"label out of range":  probClassifier{label: 3, proba: 0.5},
		"probability above 1": probClassifier{label: 1, proba: 1.2},
		"predict error":       probClassifier{err: errors.New("boom")},
	}
	for name, clf := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newTestRiskService(t, &stubSource{clf: clf}, SimulationRule{})
			if _, err := svc.AssessRisk(reducedProfile()); !errors.Is(err, domain.ErrInvalidPrediction) {
				t.Fatalf("expected ErrInvalidPrediction, got %v", err)
			}
		})
	}
}

func TestSimulateIsSeparateAndLabelled(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		svc := newTestRiskService(t, &stubSource{}, SimulationRule{})
		if _, err := svc.Simulate(reducedProfile()); !errors.Is(err, domain.ErrSimulationDisabled) {
			t.Fatalf("expected ErrSimulationDisabled, got %v", err)
		}
	})

	t.Run("threshold rule", func(t *testing.T) {
		src := &stubSource{err: errors.New("missing")}
		svc := newTestRiskService(t, src, SimulationRule{Enabled: true, Column: domain.ColumnBMI, Threshold: 30})
		res, err := svc.Simulate(reducedProfile())
		if err != nil {
			t.Fatalf("simulate: %v", err)
		}
		if res.Source != domain.SourceSimulated || !res.LabelOnly || res.Label != 1 {
			t.Fatalf("expected simulated positive, got %+v", res)
		}
		if src.calls != 0 {
			t.Fatalf("simulation must not touch the classifier")
		}

		p := reducedProfile()
		p.BMI = f64(30)
		res, _ = svc.Simulate(p)
		if res.Label != 0 {
			t.Fatalf("expected BMI equal to threshold to be negative")
		}
	})

	t.Run("missing column", func(t *testing.T) {
		svc := newTestRiskService(t, &stubSource{}, SimulationRule{Enabled: true, Column: domain.ColumnBMI, Threshold: 30})
		p := reducedProfile()
		p.BMI = nil
		if _, err := svc.Simulate(p); !errors.Is(err, domain.ErrSchemaMismatch) {
			t.Fatalf("expected ErrSchemaMismatch, got %v", err)
		}
	})
}

func TestRiskServiceWithHolderLoadsOnce(t *testing.T) {
	loads := 0
	holder := classifier.NewHolder(func() (classifier.Classifier, error) {
		loads++
		return &classifier.LogisticRegression{
			Coefficients: []float64{0.1, 0.2, 0.3, 0.3, 0.2, -0.4, 0.5},
			Intercept:    -6,
			Threshold:    0.5,
		}, nil
	})
	svc := newTestRiskService(t, holder, SimulationRule{})
	for i := 0; i < 3; i++ {
		res, err := svc.AssessRisk(reducedProfile())
		if err != nil {
			t.Fatalf("assess: %v", err)
		}
		if res.LabelOnly {
			t.Fatalf("logistic regression exposes probabilities")
		}
		if res.Probability <= 0 || res.Probability >= 1 {
			t.Fatalf("unexpected probability %v", res.Probability)
		}
	}
	if loads != 1 {
		t.Fatalf("expected a single load, got %d", loads)
	}
}

func TestGuidanceTiers(t *testing.T) {
	cases := []struct {
		res  domain.PredictionResult
		want domain.GuidanceTier
	}{
		{domain.PredictionResult{Probability: 0.1}, domain.TierLow},
		{domain.PredictionResult{Probability: 0.3}, domain.TierModerate},
		{domain.PredictionResult{Probability: 0.59}, domain.TierModerate},
		{domain.PredictionResult{Probability: 0.6, Label: 1}, domain.TierHigh},
		{domain.PredictionResult{LabelOnly: true, Label: 1}, domain.TierHigh},
		{domain.PredictionResult{LabelOnly: true, Label: 0}, domain.TierLow},
	}
	for _, c := range cases {
		g := GuidanceFor(c.res)
		if g.Tier != c.want {
			t.Fatalf("GuidanceFor(%+v) tier = %s, want %s", c.res, g.Tier, c.want)
		}
		if len(g.Items) == 0 {
			t.Fatalf("expected guidance items for tier %s", g.Tier)
		}
	}
}
