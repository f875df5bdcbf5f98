package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"diabetes-risk/internal/domain"
)

// Advisor es lo que AssessmentService necesita del asesor.
type Advisor interface {
	Recommend(ctx context.Context, clientKey string, summary domain.AdvisorSummary) domain.Recommendation
}

// AssessmentService orquesta prediccion, guia estatica y consejos opcionales.
type AssessmentService struct {
	risk    *RiskService
	advisor Advisor
	logger  *zap.Logger
	now     func() time.Time
}

func NewAssessmentService(risk *RiskService, advisor Advisor, logger *zap.Logger) *AssessmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{
		risk:    risk,
		advisor: advisor,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Assess evalua el perfil con el clasificador real. Los fallos del asesor
// nunca se convierten en error: la prediccion siempre se devuelve.
func (s *AssessmentService) Assess(ctx context.Context, clientKey string, profile domain.RawHealthProfile, withAdvice bool) (domain.Assessment, error) {
	res, vec, err := s.risk.Evaluate(profile)
	if err != nil {
		return domain.Assessment{}, err
	}
	return s.build(ctx, clientKey, profile, res, vec, withAdvice), nil
}

// Simulate usa la regla de umbral. El resultado va marcado como simulado.
func (s *AssessmentService) Simulate(ctx context.Context, clientKey string, profile domain.RawHealthProfile, withAdvice bool) (domain.Assessment, error) {
	res, err := s.risk.Simulate(profile)
	if err != nil {
		return domain.Assessment{}, err
	}
	vec, err := s.risk.encoder.Encode(profile, s.risk.schema)
	if err != nil {
		// la simulacion solo necesita su columna; el vector es informativo
		vec = domain.FeatureVector{Schema: s.risk.Schema().Name}
	}
	return s.build(ctx, clientKey, profile, res, vec, withAdvice), nil
}

func (s *AssessmentService) build(
	ctx context.Context,
	clientKey string,
	profile domain.RawHealthProfile,
	res domain.PredictionResult,
	vec domain.FeatureVector,
	withAdvice bool,
) domain.Assessment {
	a := domain.Assessment{
		ID:         uuid.NewString(),
		CreatedAt:  s.now(),
		Prediction: res,
		Features:   vec,
		Guidance:   GuidanceFor(res),
	}
	if withAdvice && s.advisor != nil {
		rec := s.advisor.Recommend(ctx, clientKey, SummaryFor(profile, res.HighRisk()))
		a.Recommendation = &rec
	}
	s.logger.Info("assessment completed",
		zap.String("id", a.ID),
		zap.String("source", string(res.Source)),
		zap.Int("label", res.Label),
		zap.Bool("label_only", res.LabelOnly),
		zap.Bool("advice", a.Recommendation != nil),
	)
	return a
}
