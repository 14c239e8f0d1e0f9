package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shelfmate/shelfmate/internal/config"
	"github.com/shelfmate/shelfmate/internal/core"
	"github.com/shelfmate/shelfmate/pkg/log"
	"github.com/shelfmate/shelfmate/pkg/retry"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// Gemini calls the generateContent endpoint of the Google Generative
// Language API. It returns the raw candidate text untouched; defensive
// parsing happens downstream.
type Gemini struct {
	baseProvider
	retrier *retry.Retrier
}

func NewGemini(cfg *config.GeminiConfig) *Gemini {
	return &Gemini{
		baseProvider: newBaseProvider(geminiBaseURL, cfg.APIKey, cfg.Model),
		retrier:      retry.NewDefaultRetrier(),
	}
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) Generate(ctx context.Context, prompt string, opts core.GenerateOptions) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{
			Temperature:     opts.Temperature,
			MaxOutputTokens: opts.MaxTokens,
		},
	}

	headers := map[string]string{
		"x-goog-api-key": g.apiKey,
		"User-Agent":     core.UserAgent,
	}
	path := fmt.Sprintf("/v1beta/models/%s:generateContent", g.model)

	var text string
	err := g.retrier.Do(ctx, func() error {
		resp, err := g.doRequest(ctx, http.MethodPost, path, payload, headers)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		text, err = parseGeminiResponse(resp)
		return err
	})
	if err != nil {
		return "", err
	}

	log.FromCtx(ctx).Debug().
		Str("model", g.model).
		Int("prompt_chars", len(prompt)).
		Int("response_chars", len(text)).
		Msg("gemini generate completed")
	return text, nil
}

func parseGeminiResponse(resp *http.Response) (string, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result geminiResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("empty candidates: %s", string(data))
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("candidate carried no text")
	}
	return sb.String(), nil
}
