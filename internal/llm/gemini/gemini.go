// Package gemini implements grading.Client on the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/invopop/jsonschema"
	"google.golang.org/genai"

	"github.com/Ebenezer-Bakouan/backend/internal/logging"
	"github.com/Ebenezer-Bakouan/backend/internal/utils"
)

const defaultModelName = "gemini-2.5-flash"

// Client sends prompts to one Gemini model with a fixed generation config.
type Client struct {
	api       *genai.Client
	modelName string
	config    *genai.GenerateContentConfig
}

type options struct {
	baseURL      string
	modelName    string
	instructions string
	schema       any
	temperature  *float32
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

// WithInstructions sets the system instruction sent with every prompt.
func WithInstructions(text string) Option {
	return func(o *options) { o.instructions = text }
}

// WithResponseSchema constrains output to JSON matching the reflected schema of v.
func WithResponseSchema(v any) Option {
	return func(o *options) { o.schema = v }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(o *options) { o.temperature = &t }
}

// New creates a Gemini client authenticated with apiKey.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, utils.WrapIfNotNil(errors.New("gemini api key is required"))
	}

	o := options{modelName: defaultModelName}
	for _, opt := range opts {
		opt(&o)
	}
	if strings.TrimSpace(o.modelName) == "" {
		o.modelName = defaultModelName
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if o.baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: o.baseURL}
	}

	api, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	config := &genai.GenerateContentConfig{Temperature: o.temperature}
	if o.instructions != "" {
		config.SystemInstruction = genai.NewContentFromText(o.instructions, genai.RoleUser)
	}
	if o.schema != nil {
		schema, err := generateJSONSchema(o.schema)
		if err != nil {
			return nil, utils.WrapIfNotNil(err)
		}
		config.ResponseMIMEType = "application/json"
		config.ResponseJsonSchema = schema
	}

	return &Client{api: api, modelName: o.modelName, config: config}, nil
}

// Generate sends prompt as a single user turn and returns the response text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	log := logging.NewLogger(ctx)
	log.Debugf("gemini.Generate model=%q prompt_chars=%d", c.modelName, len(prompt))

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	response, err := c.api.Models.GenerateContent(ctx, c.modelName, contents, c.config)
	if err != nil {
		log.Errorf("error: %v", err)
		return "", utils.WrapIfNotNil(err)
	}

	text := strings.TrimSpace(response.Text())
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
