package config

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/shelfmate/shelfmate/pkg/log"
)

type GeminiConfig struct {
	APIKey string `env:"GOOGLE_API_KEY,required,notEmpty"`
	Model  string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
}

func NewGeminiConfig(ctx context.Context) *GeminiConfig {
	c := &GeminiConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Gemini config")
	}

	model, err := ResolveModel(c.Model)
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to resolve Gemini model")
	}
	c.Model = model
	return c
}

// modelAliases maps short switches to full model identifiers.
var modelAliases = map[string]string{
	"2.5-pro":          "gemini-2.5-pro",
	"2.5-flash":        "gemini-2.5-flash",
	"2.0-flash":        "gemini-2.0-flash",
	"2.0-thinking-exp": "gemini-2.0-flash-thinking-exp-01-21",
}

// ResolveModel accepts either an alias or a full model name.
func ResolveModel(key string) (string, error) {
	if full, ok := modelAliases[key]; ok {
		return full, nil
	}
	for _, full := range modelAliases {
		if key == full {
			return full, nil
		}
	}
	return "", fmt.Errorf("invalid model key: %s", key)
}
