package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa las metricas Prometheus del servicio.
// Todos los metodos aceptan receptor nil.
type Metrics struct {
	// Evaluaciones por origen (model/simulated) y etiqueta
	Assessments *prometheus.CounterVec

	// Fallos de evaluacion por motivo
	AssessmentFailures *prometheus.CounterVec

	// Resultado de cada consulta al asesor
	AdvisorOutcomes *prometheus.CounterVec

	AdvisorLatency prometheus.Histogram

	ClassifierLoaded prometheus.Gauge
}

// New registra las metricas en reg. Con un registry propio por test se evitan
// registros duplicados.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Assessments: f.NewCounterVec(prometheus.CounterOpts{
			Name: "diabrisk_assessments_total",
			Help: "Risk assessments returned, by source and label",
		}, []string{"source", "label"}),

		AssessmentFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "diabrisk_assessment_failures_total",
			Help: "Risk assessments that failed, by reason",
		}, []string{"reason"}), // reason: "schema_mismatch", "out_of_domain", "classifier_unavailable", "invalid_prediction"

		AdvisorOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "diabrisk_advisor_outcomes_total",
			Help: "Recommendation advisor outcomes by status",
		}, []string{"status", "cached"}),

		AdvisorLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "diabrisk_advisor_duration_seconds",
			Help:    "Duration of calls to the external recommendation advisor",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),

		ClassifierLoaded: f.NewGauge(prometheus.GaugeOpts{
			Name: "diabrisk_classifier_loaded",
			Help: "1 when the classifier artifact is loaded, 0 when unavailable",
		}),
	}
}

func (m *Metrics) IncrementAssessment(source, label string) {
	if m != nil {
		m.Assessments.WithLabelValues(source, label).Inc()
	}
}

func (m *Metrics) IncrementFailure(reason string) {
	if m != nil {
		m.AssessmentFailures.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) IncrementAdvisorOutcome(status string, cached bool) {
	if m != nil {
		c := "false"
		if cached {
			c = "true"
		}
		m.AdvisorOutcomes.WithLabelValues(status, c).Inc()
	}
}

func (m *Metrics) ObserveAdvisorLatency(d time.Duration) {
	if m != nil {
		m.AdvisorLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) SetClassifierLoaded(ok bool) {
	if m != nil {
		v := 0.0
		if ok {
			v = 1
		}
		m.ClassifierLoaded.Set(v)
	}
}
