package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient implementa LLMClient contra la API generateContent de Gemini.
// No reintenta: un 429 se devuelve tal cual para que el llamador avise al usuario.
type GeminiClient struct {
	http   *resty.Client
	apiKey string
	opts   Options
	logger *zap.Logger
}

func NewGeminiClient(baseURL, apiKey string, opts Options, logger *zap.Logger) *GeminiClient {
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()
	if opts.Model == "" {
		opts.Model = "models/gemini-2.5-flash-lite"
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &GeminiClient{
		http:   client,
		apiKey: apiKey,
		opts:   opts,
		logger: logger,
	}
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", ErrNoCredential
	}

	model := c.opts.Model
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}

	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     c.opts.Temperature,
			TopP:            c.opts.TopP,
			MaxOutputTokens: c.opts.MaxOutputTokens,
		},
	}

	var (
		out    geminiResponse
		errOut geminiResponse
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", c.apiKey).
		SetBody(body).
		SetResult(&out).
		SetError(&errOut).
		Post("/" + model + ":generateContent")
	if err != nil {
		c.logger.Warn("gemini call failed", zap.Error(err))
		return "", fmt.Errorf("gemini request: %w", err)
	}

	if resp.IsError() {
		msg := http.StatusText(resp.StatusCode())
		if errOut.Error != nil && errOut.Error.Message != "" {
			msg = errOut.Error.Message
			if errOut.Error.Status != "" {
				msg = errOut.Error.Status + ": " + msg
			}
		}
		c.logger.Warn("gemini returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("message", msg),
		)
		return "", &APIError{Provider: "gemini", StatusCode: resp.StatusCode(), Message: msg}
	}

	text := out.text()
	if text == "" {
		if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("gemini blocked prompt: %s: %w", out.PromptFeedback.BlockReason, ErrEmptyResponse)
		}
		return "", ErrEmptyResponse
	}
	return text, nil
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

func (r geminiResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}
