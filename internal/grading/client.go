package grading

import (
	"context"

	"github.com/Ebenezer-Bakouan/backend/internal/models"
)

// Client sends one prompt to a generative text service and returns the raw
// text it produced. Implementations live under internal/llm.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ClientFunc adapts a plain function to Client.
type ClientFunc func(ctx context.Context, prompt string) (string, error)

func (f ClientFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ResponseSchema is the value providers reflect into a JSON schema when
// they support constrained output.
func ResponseSchema() any {
	return models.GradingResult{}
}
