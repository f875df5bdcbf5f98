package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestGeminiClientGenerate(t *testing.T) {
	var gotPath, gotKey string
	var gotBody geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"- makan sayur"},{"text":"\n- jalan kaki"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient(srv.URL, "key-1", Options{Model: "gemini-2.5-flash-lite", Temperature: 0.7, TopP: 0.9, MaxOutputTokens: 600}, zap.NewNop())
	text, err := c.Generate(context.Background(), "hola")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "- makan sayur\n- jalan kaki" {
		t.Fatalf("unexpected text %q", text)
	}
	if gotPath != "/models/gemini-2.5-flash-lite:generateContent" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotKey != "key-1" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
	if gotBody.GenerationConfig.MaxOutputTokens != 600 || gotBody.GenerationConfig.TopP != 0.9 {
		t.Fatalf("unexpected generation config %+v", gotBody.GenerationConfig)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Parts[0].Text != "hola" {
		t.Fatalf("prompt not forwarded: %+v", gotBody.Contents)
	}
}

func TestGeminiClientErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"quota", http.StatusTooManyRequests, `{"error":{"code":429,"message":"Quota exceeded","status":"RESOURCE_EXHAUSTED"}}`, ErrRateLimited},
		{"bad key", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`, ErrInvalidCredential},
		{"forbidden", http.StatusForbidden, `{"error":{"code":403,"message":"denied","status":"PERMISSION_DENIED"}}`, ErrPermissionDenied},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewGeminiClient(srv.URL, "key", Options{}, nil)
			_, err := c.Generate(context.Background(), "x")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) || apiErr.StatusCode != tc.status {
				t.Fatalf("expected APIError with status %d, got %v", tc.status, err)
			}
		})
	}

	t.Run("server error is transient", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewGeminiClient(srv.URL, "key", Options{}, nil).Generate(context.Background(), "x")
		if err == nil {
			t.Fatalf("expected error")
		}
		for _, sentinel := range []error{ErrRateLimited, ErrInvalidCredential, ErrPermissionDenied, ErrNoCredential} {
			if errors.Is(err, sentinel) {
				t.Fatalf("500 must not map to %v", sentinel)
			}
		}
	})
}

func TestAPIErrorClassification(t *testing.T) {
	cases := []struct {
		err  *APIError
		want error
	}{
		{&APIError{StatusCode: http.StatusBadRequest, Message: "INVALID_ARGUMENT: key invalid"}, ErrInvalidCredential},
		{&APIError{StatusCode: http.StatusBadRequest, Message: "Invalid authentication"}, ErrInvalidCredential},
		{&APIError{StatusCode: http.StatusUnauthorized, Message: "Unauthorized"}, ErrInvalidCredential},
		{&APIError{StatusCode: http.StatusBadRequest, Message: "Quota exceeded for metric"}, ErrRateLimited},
		{&APIError{StatusCode: http.StatusBadRequest, Message: "missing permission"}, ErrPermissionDenied},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.want) {
			t.Fatalf("%q: expected %v", tc.err.Message, tc.want)
		}
	}
	if err := (&APIError{StatusCode: http.StatusBadGateway, Message: "upstream"}); err.Unwrap() != nil {
		t.Fatalf("expected no sentinel for 502, got %v", err.Unwrap())
	}
}

func TestGeminiClientWithoutKey(t *testing.T) {
	c := NewGeminiClient("http://127.0.0.1:1", "  ", Options{}, nil)
	if _, err := c.Generate(context.Background(), "x"); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
}

func TestHTTPClientGenerate(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", "sk-1", Options{Model: "gpt-4o-mini", MaxOutputTokens: 100}, nil)
	text, err := c.Generate(context.Background(), "prompt")
	if err != nil || text != "ok" {
		t.Fatalf("expected ok, got %q err=%v", text, err)
	}
	if gotAuth != "Bearer sk-1" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotBody.Model != "gpt-4o-mini" || gotBody.MaxTokens != 100 {
		t.Fatalf("unexpected body %+v", gotBody)
	}
}

func TestHTTPClientRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, "sk", Options{}, nil).Generate(context.Background(), "p")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestHTTPClientEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, "sk", Options{}, nil).Generate(context.Background(), "p")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestNewProviderClient(t *testing.T) {
	c, err := NewProviderClient("gemini", "", "", Options{}, nil)
	if err != nil || c != nil {
		t.Fatalf("expected nil client without key, got %v, %v", c, err)
	}

	c, err = NewProviderClient("gemini", "", "k", Options{}, nil)
	if _, ok := c.(*GeminiClient); err != nil || !ok {
		t.Fatalf("expected gemini client, got %T, %v", c, err)
	}

	c, err = NewProviderClient("openai", "", "k", Options{Model: "models/gemini-2.5-flash-lite"}, nil)
	hc, ok := c.(*HTTPClient)
	if err != nil || !ok {
		t.Fatalf("expected openai client, got %T, %v", c, err)
	}
	if hc.opts.Model != defaultOpenAIModel {
		t.Fatalf("expected openai default model, got %s", hc.opts.Model)
	}

	if _, err := NewProviderClient("claude", "", "k", Options{}, nil); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}
