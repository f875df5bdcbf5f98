package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecord(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementAssessment("model", "1")
	m.IncrementAssessment("model", "1")
	m.IncrementFailure("classifier_unavailable")
	m.IncrementAdvisorOutcome("no_credential", false)
	m.ObserveAdvisorLatency(150 * time.Millisecond)
	m.SetClassifierLoaded(true)

	if got := testutil.ToFloat64(m.Assessments.WithLabelValues("model", "1")); got != 2 {
		t.Fatalf("expected 2 assessments, got %v", got)
	}
	if got := testutil.ToFloat64(m.AssessmentFailures.WithLabelValues("classifier_unavailable")); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.AdvisorOutcomes.WithLabelValues("no_credential", "false")); got != 1 {
		t.Fatalf("expected 1 advisor outcome, got %v", got)
	}
	if got := testutil.ToFloat64(m.ClassifierLoaded); got != 1 {
		t.Fatalf("expected classifier gauge 1, got %v", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.IncrementAssessment("model", "0")
	m.IncrementFailure("x")
	m.IncrementAdvisorOutcome("ok", true)
	m.ObserveAdvisorLatency(time.Second)
	m.SetClassifierLoaded(false)
}
