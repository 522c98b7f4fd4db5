// Package llm builds the configured text-generation client.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ebenezer-Bakouan/backend/internal/config"
	"github.com/Ebenezer-Bakouan/backend/internal/grading"
	"github.com/Ebenezer-Bakouan/backend/internal/llm/gemini"
	"github.com/Ebenezer-Bakouan/backend/internal/llm/openai"
)

// Purpose describes one use of the model: its standing instructions and
// the Go value whose JSON schema constrains the output.
type Purpose struct {
	Instructions string
	Schema       any
}

// New returns a client for the provider named in cfg.GraderProvider.
func New(ctx context.Context, cfg *config.Config, purpose Purpose) (grading.Client, error) {
	switch strings.ToLower(cfg.GraderProvider) {
	case "gemini", "":
		c, err := gemini.New(ctx, cfg.GeminiAPIKey,
			gemini.WithModel(cfg.GeminiModel),
			gemini.WithInstructions(purpose.Instructions),
			gemini.WithResponseSchema(purpose.Schema),
			gemini.WithTemperature(0.2),
		)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "openai":
		c, err := openai.New(cfg.OpenAIAPIKey,
			openai.WithModel(cfg.OpenAIModel),
			openai.WithInstructions(purpose.Instructions),
			openai.WithResponseSchema(purpose.Schema),
			openai.WithBaseURL(cfg.OpenAIBaseURL),
			openai.WithMaxRetries(0),
		)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported grader provider: %s", cfg.GraderProvider)
	}
}
