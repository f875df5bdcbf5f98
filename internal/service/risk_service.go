package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"

	"diabetes-risk/internal/classifier"
	"diabetes-risk/internal/domain"
	"diabetes-risk/internal/metrics"
)

// ClassifierSource entrega el clasificador cargado (o el error de carga).
type ClassifierSource interface {
	Get() (classifier.Classifier, error)
}

// SimulationRule es la estrategia alternativa explicita: positivo si el valor
// crudo de una columna supera un umbral. Nunca se mezcla con el modelo.
type SimulationRule struct {
	Enabled   bool
	Column    string
	Threshold float64
}

// RiskService encadena encoder -> clasificador -> interpretacion.
type RiskService struct {
	encoder    FeatureEncoder
	schema     domain.FeatureSchema
	classifier ClassifierSource
	simulation SimulationRule
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewRiskService(
	schema domain.FeatureSchema,
	clf ClassifierSource,
	simulation SimulationRule,
	m *metrics.Metrics,
	logger *zap.Logger,
) *RiskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RiskService{
		schema:     schema,
		classifier: clf,
		simulation: simulation,
		metrics:    m,
		logger:     logger,
	}
}

// Schema devuelve el schema activo.
func (s *RiskService) Schema() domain.FeatureSchema { return s.schema }

// SimulationEnabled indica si la ruta simulada esta habilitada.
func (s *RiskService) SimulationEnabled() bool { return s.simulation.Enabled }

// Encode aplica el schema activo al perfil.
func (s *RiskService) Encode(profile domain.RawHealthProfile) (domain.FeatureVector, error) {
	vec, err := s.encoder.Encode(profile, s.schema)
	if err != nil {
		s.metrics.IncrementFailure(failureReason(err))
		return domain.FeatureVector{}, err
	}
	return vec, nil
}

// PredictionEnabled fuerza la carga del clasificador e informa si esta disponible.
func (s *RiskService) PredictionEnabled() bool {
	_, err := s.classifier.Get()
	s.metrics.SetClassifierLoaded(err == nil)
	return err == nil
}

// AssessRisk codifica el perfil, invoca el clasificador y devuelve su salida
// sin umbrales ni reinterpretacion.
func (s *RiskService) AssessRisk(profile domain.RawHealthProfile) (domain.PredictionResult, error) {
	res, _, err := s.Evaluate(profile)
	return res, err
}

// Evaluate es AssessRisk devolviendo tambien el vector codificado.
func (s *RiskService) Evaluate(profile domain.RawHealthProfile) (domain.PredictionResult, domain.FeatureVector, error) {
	vec, err := s.Encode(profile)
	if err != nil {
		return domain.PredictionResult{}, domain.FeatureVector{}, err
	}
	res, err := s.Predict(vec)
	if err != nil {
		return domain.PredictionResult{}, domain.FeatureVector{}, err
	}
	return res, vec, nil
}

// Predict evalua un vector ya codificado con el schema activo.
func (s *RiskService) Predict(vec domain.FeatureVector) (domain.PredictionResult, error) {
	clf, err := s.classifier.Get()
	s.metrics.SetClassifierLoaded(err == nil)
	if err != nil {
		s.metrics.IncrementFailure("classifier_unavailable")
		s.logger.Warn("classifier unavailable", zap.Error(err))
		if !errors.Is(err, domain.ErrClassifierUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrClassifierUnavailable, err)
		}
		return domain.PredictionResult{}, err
	}

	label, err := clf.Predict(vec.Values)
	if err != nil {
		s.metrics.IncrementFailure("invalid_prediction")
		return domain.PredictionResult{}, fmt.Errorf("%w: predict: %w", domain.ErrInvalidPrediction, err)
	}
	if label != 0 && label != 1 {
		s.metrics.IncrementFailure("invalid_prediction")
		return domain.PredictionResult{}, fmt.Errorf("%w: label %d", domain.ErrInvalidPrediction, label)
	}

	res := domain.PredictionResult{
		Label:     label,
		Source:    domain.SourceModel,
		Schema:    s.schema.Name,
		LabelOnly: true,
	}
	if est, ok := clf.(classifier.ProbabilityEstimator); ok {
		p, err := est.PredictProba(vec.Values)
		if err != nil {
			s.metrics.IncrementFailure("invalid_prediction")
			return domain.PredictionResult{}, fmt.Errorf("%w: predict proba: %w", domain.ErrInvalidPrediction, err)
		}
		if math.IsNaN(p) || p < 0 || p > 1 {
			s.metrics.IncrementFailure("invalid_prediction")
			return domain.PredictionResult{}, fmt.Errorf("%w: probability %v outside [0,1]", domain.ErrInvalidPrediction, p)
		}
		res.Probability = p
		res.LabelOnly = false
	}

	s.metrics.IncrementAssessment(string(res.Source), strconv.Itoa(res.Label))
	return res, nil
}

// Simulate aplica la regla de umbral sobre el valor crudo. El resultado queda
// marcado como simulado y sin probabilidad.
func (s *RiskService) Simulate(profile domain.RawHealthProfile) (domain.PredictionResult, error) {
	if !s.simulation.Enabled {
		return domain.PredictionResult{}, domain.ErrSimulationDisabled
	}
	v, ok := attributeValue(profile, s.simulation.Column)
	if !ok {
		return domain.PredictionResult{}, &domain.FieldError{Column: s.simulation.Column, Reason: "required by simulation", Err: domain.ErrSchemaMismatch}
	}
	label := 0
	if v > s.simulation.Threshold {
		label = 1
	}
	res := domain.PredictionResult{
		Label:     label,
		LabelOnly: true,
		Source:    domain.SourceSimulated,
		Schema:    s.schema.Name,
	}
	s.metrics.IncrementAssessment(string(res.Source), strconv.Itoa(res.Label))
	return res, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrSchemaMismatch):
		return "schema_mismatch"
	case errors.Is(err, domain.ErrOutOfDomain):
		return "out_of_domain"
	case errors.Is(err, domain.ErrClassifierUnavailable):
		return "classifier_unavailable"
	}
	return "invalid_prediction"
}
