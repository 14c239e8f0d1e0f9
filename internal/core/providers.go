package core

import "context"

type GenerateOptions struct {
	Temperature float32
	MaxTokens   int
}

// TextModel is the model-calling collaborator. It returns the raw text of
// a single completion; no output schema is enforced upstream.
type TextModel interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// ComputeFn produces the raw model text for one book lookup. Supplied by
// the caller of the cache so the core never performs I/O itself.
type ComputeFn func(ctx context.Context) (string, error)
