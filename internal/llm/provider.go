package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const defaultOpenAIModel = "gpt-4o-mini"

// NewProviderClient elige el cliente segun el proveedor. Sin API key devuelve
// nil: el asesor responde con el mensaje sustituto sin llamar a nadie.
func NewProviderClient(provider, baseURL, apiKey string, opts Options, logger *zap.Logger) (LLMClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(apiKey) == "" {
		logger.Info("advisor credential not configured", zap.String("provider", provider))
		return nil, nil
	}
	switch provider {
	case "gemini":
		return NewGeminiClient(baseURL, apiKey, opts, logger), nil
	case "openai":
		if opts.Model == "" || strings.HasPrefix(opts.Model, "models/gemini") {
			opts.Model = defaultOpenAIModel
		}
		return NewHTTPClient(baseURL, apiKey, opts, zap.NewStdLog(logger)), nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", provider)
}
