package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"diabetes-risk/internal/domain"
	"diabetes-risk/internal/llm"
	"diabetes-risk/internal/metrics"
)

const maxAdvisorErrorDetail = 200

// Textos sustitutos; siempre etiquetados para no confundirse con consejos reales.
const (
	placeholderNoCredential      = "[Simulation mode] No advisor API key detected. AI recommendations cannot be loaded."
	placeholderRateLimited       = "[Quota exhausted] The advisor is rate limited. Please try again in a few minutes."
	placeholderInvalidCredential = "[Invalid API key] The advisor rejected the configured API key. Create a new key and update the configuration."
	placeholderPermissionDenied  = "[Not permitted] The advisor API key is not allowed to call this model."
	placeholderError             = "[Advisor error] "
)

// RecommendationService es la pasarela hacia el asesor externo. Nunca devuelve
// error: cualquier fallo se traduce en un Recommendation con estado.
type RecommendationService struct {
	client   llm.LLMClient
	prompts  RecommendationPromptBuilder
	cache    RecommendationCache
	cacheTTL time.Duration
	limiter  AdvisorRateLimiter
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// RecommendationOptions agrupa las dependencias opcionales del servicio.
type RecommendationOptions struct {
	Language string
	Cache    RecommendationCache
	CacheTTL time.Duration
	Limiter  AdvisorRateLimiter
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// NewRecommendationService acepta client nil: equivale a no tener credencial.
func NewRecommendationService(client llm.LLMClient, opts RecommendationOptions) *RecommendationService {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommendationService{
		client:   client,
		prompts:  RecommendationPromptBuilder{Language: opts.Language},
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		limiter:  opts.Limiter,
		metrics:  opts.Metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Configured indica si hay un proveedor con credencial.
func (s *RecommendationService) Configured() bool {
	return s != nil && s.client != nil
}

// Recommend pide consejos para el resumen. clientKey identifica al llamador
// para el limite local de cuota.
func (s *RecommendationService) Recommend(ctx context.Context, clientKey string, summary domain.AdvisorSummary) domain.Recommendation {
	if !s.Configured() {
		return s.record(domain.Recommendation{Status: domain.RecommendationNoCredential, Text: placeholderNoCredential})
	}

	prompt := s.prompts.Build(summary)
	key := cacheKey(prompt)
	if s.cache != nil {
		text, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("recommendation cache get failed", zap.Error(err))
		} else if ok {
			return s.record(domain.Recommendation{Status: domain.RecommendationOK, Text: text, Cached: true})
		}
	}

	if s.limiter != nil {
		if q := s.limiter.Allow(ctx, clientKey); !q.Allowed {
			s.logger.Warn("advisor local rate limit reached",
				zap.String("client", clientKey),
				zap.Int("used", q.Used),
				zap.Duration("retry_after", q.RetryAfter),
			)
			return s.record(domain.Recommendation{Status: domain.RecommendationRateLimited, Text: placeholderRateLimited})
		}
	}

	start := s.now()
	text, err := s.client.Generate(ctx, prompt)
	s.metrics.ObserveAdvisorLatency(s.now().Sub(start))
	if err != nil {
		rec := classifyAdvisorError(err)
		s.logger.Warn("advisor call failed", zap.String("status", string(rec.Status)), zap.Error(err))
		return s.record(rec)
	}

	text = cleanAdvisorText(text)
	if text == "" {
		rec := classifyAdvisorError(llm.ErrEmptyResponse)
		s.logger.Warn("advisor returned empty text")
		return s.record(rec)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, text, s.cacheTTL); err != nil {
			s.logger.Warn("recommendation cache set failed", zap.Error(err))
		}
	}
	return s.record(domain.Recommendation{Status: domain.RecommendationOK, Text: text})
}

func (s *RecommendationService) record(rec domain.Recommendation) domain.Recommendation {
	if s == nil {
		return rec
	}
	s.metrics.IncrementAdvisorOutcome(string(rec.Status), rec.Cached)
	return rec
}

func classifyAdvisorError(err error) domain.Recommendation {
	switch {
	case errors.Is(err, llm.ErrNoCredential):
		return domain.Recommendation{Status: domain.RecommendationNoCredential, Text: placeholderNoCredential}
	case errors.Is(err, llm.ErrRateLimited):
		return domain.Recommendation{Status: domain.RecommendationRateLimited, Text: placeholderRateLimited}
	case errors.Is(err, llm.ErrInvalidCredential):
		return domain.Recommendation{Status: domain.RecommendationInvalidCredential, Text: placeholderInvalidCredential}
	case errors.Is(err, llm.ErrPermissionDenied):
		return domain.Recommendation{Status: domain.RecommendationPermissionDenied, Text: placeholderPermissionDenied}
	}
	return domain.Recommendation{
		Status: domain.RecommendationError,
		Text:   placeholderError + truncateDetail(err.Error(), maxAdvisorErrorDetail) + "\n\nCheck the connection and try again.",
	}
}

// truncateDetail corta por runas para no partir caracteres multibyte.
func truncateDetail(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

var (
	fenceStart = regexp.MustCompile("(?is)^\\s*```(?:markdown|md|text)?\\s*")
	fenceEnd   = regexp.MustCompile("(?is)\\s*```\\s*$")
)

// cleanAdvisorText quita BOM y fences de markdown que algunos modelos agregan.
func cleanAdvisorText(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, "\uFEFF")
	s = fenceStart.ReplaceAllString(s, "")
	s = fenceEnd.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
