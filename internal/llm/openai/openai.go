// Package openai implements grading.Client on the OpenAI Responses API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/invopop/jsonschema"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"

	"github.com/Ebenezer-Bakouan/backend/internal/logging"
	"github.com/Ebenezer-Bakouan/backend/internal/utils"
)

const (
	defaultModelName = "gpt-5-mini"
	schemaName       = "structured_output"
)

// Client sends prompts to one OpenAI model.
type Client struct {
	api          openai.Client
	modelName    string
	instructions string
	textCfg      *responses.ResponseTextConfigParam
}

type options struct {
	baseURL      string
	modelName    string
	instructions string
	schema       any
	maxRetries   *int
}

// Option configures a Client.
type Option func(*options)

// WithBaseURL points the client at another endpoint, mainly for tests.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithModel selects the model; empty keeps the default.
func WithModel(name string) Option {
	return func(o *options) { o.modelName = name }
}

// WithInstructions sets the instructions sent with every prompt.
func WithInstructions(text string) Option {
	return func(o *options) { o.instructions = text }
}

// WithResponseSchema asks for JSON output matching the reflected schema of v.
func WithResponseSchema(v any) Option {
	return func(o *options) { o.schema = v }
}

// WithMaxRetries overrides the retry count. Clients make a single attempt
// unless this is set.
func WithMaxRetries(n int) Option {
	return func(o *options) { o.maxRetries = &n }
}

// New creates an OpenAI client authenticated with apiKey.
func New(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, utils.WrapIfNotNil(errors.New("openai api key is required"))
	}

	o := options{modelName: defaultModelName}
	for _, opt := range opts {
		opt(&o)
	}
	if strings.TrimSpace(o.modelName) == "" {
		o.modelName = defaultModelName
	}

	requestOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if o.baseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(o.baseURL))
	}
	maxRetries := 0
	if o.maxRetries != nil {
		maxRetries = *o.maxRetries
	}
	requestOpts = append(requestOpts, option.WithMaxRetries(maxRetries))

	c := &Client{
		api:          openai.NewClient(requestOpts...),
		modelName:    o.modelName,
		instructions: o.instructions,
	}

	if o.schema != nil {
		schema, err := generateJSONSchema(o.schema)
		if err != nil {
			return nil, utils.WrapIfNotNil(err)
		}
		// optional fields such as pedagogical_advice rule out strict mode
		c.textCfg = &responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:   schemaName,
					Schema: schema,
					Strict: openai.Bool(false),
				},
			},
		}
	}
	return c, nil
}

// Generate sends prompt as plain input and returns the concatenated output text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	log := logging.NewLogger(ctx)
	log.Debugf("openai.Generate model=%q prompt_chars=%d", c.modelName, len(prompt))

	params := responses.ResponseNewParams{
		Input: responses.ResponseNewParamsInputUnion{OfString: openai.String(prompt)},
		Model: shared.ResponsesModel(c.modelName),
	}
	if c.instructions != "" {
		params.Instructions = openai.String(c.instructions)
	}
	if c.textCfg != nil {
		params.Text = *c.textCfg
	}

	response, err := c.api.Responses.New(ctx, params)
	if err != nil {
		log.Errorf("error: %v", err)
		return "", utils.WrapIfNotNil(err)
	}

	text := strings.TrimSpace(response.OutputText())
	if text == "" {
		return "", utils.WrapIfNotNil(errors.New("response output is empty"))
	}
	return text, nil
}

func generateJSONSchema(v any) (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(v)

	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	return schemaMap, nil
}
