package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadSecret(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secrets.toml")
	if err := os.WriteFile(path, []byte("GEMINI_API_KEY = \" abc123 \"\nOTHER = 5\n"), 0o600); err != nil {
		t.Fatalf("write secrets: %v", err)
	}

	t.Run("reads string key", func(t *testing.T) {
		got, err := ReadSecret(path, "GEMINI_API_KEY")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "abc123" {
			t.Fatalf("expected abc123, got %q", got)
		}
	})

	t.Run("non string key is empty", func(t *testing.T) {
		got, err := ReadSecret(path, "OTHER")
		if err != nil || got != "" {
			t.Fatalf("expected empty secret, got %q err=%v", got, err)
		}
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		got, err := ReadSecret(filepath.Join(dir, "nope.toml"), "GEMINI_API_KEY")
		if err != nil || got != "" {
			t.Fatalf("expected empty secret without error, got %q err=%v", got, err)
		}
	})

	t.Run("broken toml fails", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.toml")
		if err := os.WriteFile(bad, []byte("GEMINI_API_KEY = "), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := ReadSecret(bad, "GEMINI_API_KEY"); err == nil {
			t.Fatalf("expected parse error")
		}
	})
}

func TestAdvisorAPIKeyPrefersEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secrets.toml")
	if err := os.WriteFile(path, []byte("GEMINI_API_KEY = \"from-file\"\nOPENAI_API_KEY = \"openai-file\"\n"), 0o600); err != nil {
		t.Fatalf("write secrets: %v", err)
	}

	cfg := &Config{LLMProvider: "gemini", GeminiAPIKey: "from-env", AdvisorSecretsFile: path}
	if got := cfg.AdvisorAPIKey(); got != "from-env" {
		t.Fatalf("expected env key, got %q", got)
	}

	cfg.GeminiAPIKey = ""
	if got := cfg.AdvisorAPIKey(); got != "from-file" {
		t.Fatalf("expected file key, got %q", got)
	}

	cfg.LLMProvider = "openai"
	if got := cfg.AdvisorAPIKey(); got != "openai-file" {
		t.Fatalf("expected openai file key, got %q", got)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATASET_SOURCE", "file")
	t.Setenv("LLM_PROVIDER", "gemini")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.FeatureSchema != "full" {
		t.Fatalf("expected full schema by default, got %s", cfg.FeatureSchema)
	}
	if len(cfg.DatasetRiskFactors) != 4 {
		t.Fatalf("expected 4 featured risk factors, got %v", cfg.DatasetRiskFactors)
	}
	if cfg.LLMMaxOutputTokens != 600 {
		t.Fatalf("expected 600 max tokens, got %d", cfg.LLMMaxOutputTokens)
	}
}

func TestLoadConfigRejectsPostgresWithoutURL(t *testing.T) {
	t.Setenv("DATASET_SOURCE", "postgres")
	t.Setenv("DATABASE_URL", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is missing")
	}
}
