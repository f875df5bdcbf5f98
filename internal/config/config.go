package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	GinMode  string `env:"GIN_MODE" envDefault:"release"`

	ModelPaths        []string `env:"MODEL_PATHS" envSeparator:"," envDefault:"models/diabetes_model.json"`
	FeatureSchemaPath string   `env:"FEATURE_SCHEMA_PATH" envDefault:"configs/feature_schemas.yaml"`
	FeatureSchema     string   `env:"FEATURE_SCHEMA" envDefault:"full"`

	SimulationEnabled   bool    `env:"SIMULATION_ENABLED" envDefault:"false"`
	SimulationColumn    string  `env:"SIMULATION_COLUMN" envDefault:"BMI"`
	SimulationThreshold float64 `env:"SIMULATION_THRESHOLD" envDefault:"30"`

	LLMProvider        string        `env:"LLM_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey       string        `env:"GEMINI_API_KEY"`
	OpenAIAPIKey       string        `env:"OPENAI_API_KEY"`
	LLMBaseURL         string        `env:"LLM_BASE_URL"`
	LLMModel           string        `env:"LLM_MODEL" envDefault:"models/gemini-2.5-flash-lite"`
	LLMTemperature     float64       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	LLMTopP            float64       `env:"LLM_TOP_P" envDefault:"0.9"`
	LLMMaxOutputTokens int           `env:"LLM_MAX_OUTPUT_TOKENS" envDefault:"600"`
	LLMTimeout         time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
	AdvisorLanguage    string        `env:"ADVISOR_LANGUAGE" envDefault:"Bahasa Indonesia"`
	AdvisorSecretsFile string        `env:"ADVISOR_SECRETS_FILE" envDefault:".streamlit/secrets.toml"`

	RecommendationCacheTTL time.Duration `env:"RECOMMENDATION_CACHE_TTL" envDefault:"6h"`
	AdvisorRateLimit       int           `env:"ADVISOR_RATE_LIMIT" envDefault:"5"`
	AdvisorRateWindow      time.Duration `env:"ADVISOR_RATE_WINDOW" envDefault:"1m"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	DatasetSource      string   `env:"DATASET_SOURCE" envDefault:"file"`
	DatasetPath        string   `env:"DATASET_PATH" envDefault:"data/diabetes_clean.csv"`
	DatabaseURL        string   `env:"DATABASE_URL"`
	DatasetTable       string   `env:"DATASET_TABLE" envDefault:"diabetes_survey"`
	DatasetRiskFactors []string `env:"DATASET_RISK_FACTORS" envSeparator:"," envDefault:"HighBP,HighChol,PhysActivity,HeartDiseaseorAttack"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.LLMProvider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("LLM_PROVIDER must be gemini or openai, got %q", c.LLMProvider)
	}
	switch c.DatasetSource {
	case "file":
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when DATASET_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("DATASET_SOURCE must be file or postgres, got %q", c.DatasetSource)
	}
	if len(c.ModelPaths) == 0 {
		return errors.New("MODEL_PATHS must list at least one artifact path")
	}
	return nil
}

// AdvisorAPIKey devuelve la credencial del proveedor activo.
// Prioridad: variable de entorno > archivo de secretos. Vacio es valido.
func (c *Config) AdvisorAPIKey() string {
	key := c.GeminiAPIKey
	name := "GEMINI_API_KEY"
	if c.LLMProvider == "openai" {
		key = c.OpenAIAPIKey
		name = "OPENAI_API_KEY"
	}
	if strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key)
	}
	secret, err := ReadSecret(c.AdvisorSecretsFile, name)
	if err != nil {
		return ""
	}
	return secret
}

// ReadSecret lee una clave de un archivo TOML de secretos (estilo secrets.toml).
// Un archivo inexistente no es error: devuelve "".
func ReadSecret(path, name string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read secrets file: %w", err)
	}
	var secrets map[string]any
	if err := toml.Unmarshal(data, &secrets); err != nil {
		return "", fmt.Errorf("parse secrets file: %w", err)
	}
	v, ok := secrets[name].(string)
	if !ok {
		return "", nil
	}
	return strings.TrimSpace(v), nil
}
