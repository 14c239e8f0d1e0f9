package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shelfmate/shelfmate/internal/core"
	"github.com/shelfmate/shelfmate/pkg/retry"
)

func newTestGemini(serverURL string) *Gemini {
	return &Gemini{
		baseProvider: newBaseProvider(serverURL, "test-key", "gemini-2.0-flash"),
		retrier: retry.NewRetrier(&retry.Config{
			MaxRetries:   1,
			InitialDelay: time.Millisecond,
			MaxDelay:     time.Millisecond,
		}),
	}
}

func TestGeminiGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-2.0-flash:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hello "},{"text":"world"}]}}]}`))
	}))
	defer server.Close()

	g := newTestGemini(server.URL)
	got, err := g.Generate(context.Background(), "say hello", core.GenerateOptions{Temperature: 0.5, MaxTokens: 100})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "Hello world" {
		t.Errorf("Generate() = %q, want %q", got, "Hello world")
	}
}

func TestGeminiGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"http error", `{"error": "quota exceeded"}`, http.StatusTooManyRequests},
		{"no candidates", `{"candidates": []}`, http.StatusOK},
		{"empty text", `{"candidates":[{"content":{"parts":[]}}]}`, http.StatusOK},
		{"broken json", `{`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			g := newTestGemini(server.URL)
			if _, err := g.Generate(context.Background(), "hi", core.GenerateOptions{}); err == nil {
				t.Error("Generate() expected error, got nil")
			}
		})
	}
}
