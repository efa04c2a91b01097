package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"docqa/pkg/ai"
	"docqa/pkg/config"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	openAIBaseURL      = "https://api.openai.com/v1"
	openAIDefaultModel = "gpt-4o-mini"
	openAITimeout      = 60 * time.Second
	openAISchemaName   = "response"
)

func init() {
	ai.RegisterProvider(ai.ProviderInfo{
		Type:         ai.ProviderOpenAI,
		Name:         "OpenAI",
		Description:  "OpenAI or any compatible chat completions endpoint",
		DefaultModel: openAIDefaultModel,
		RequiresKey:  true,
	}, NewOpenAIProvider)
}

// OpenAIProvider talks to a chat completions endpoint through openai-go.
type OpenAIProvider struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

// NewOpenAIProvider builds a provider from the openai section of the config.
func NewOpenAIProvider(cfg ai.ProviderConfig) (ai.Provider, error) {
	return newOpenAIProvider(cfg.Config.Providers.OpenAI)
}

func newOpenAIProvider(c config.OpenAIConfig, extra ...option.RequestOption) (*OpenAIProvider, error) {
	key := strings.TrimSpace(c.APIKey)
	if key == "" {
		return nil, errors.New("openai api_key is required")
	}

	opts := append([]option.RequestOption{
		option.WithAPIKey(key),
		option.WithBaseURL(firstNonEmpty(c.APIURL, openAIBaseURL)),
	}, extra...)

	p := &OpenAIProvider{
		client:      openai.NewClient(opts...),
		model:       firstNonEmpty(c.Model, openAIDefaultModel),
		temperature: c.Temperature,
		maxTokens:   c.MaxTokens,
		timeout:     openAITimeout,
	}
	if c.APITimeoutSeconds > 0 {
		p.timeout = time.Duration(c.APITimeoutSeconds) * time.Second
	}
	return p, nil
}

// CreateChatCompletion sends one chat completion and returns the first choice.
func (p *OpenAIProvider) CreateChatCompletion(ctx context.Context, req ai.ChatRequest) (ai.ChatResponse, error) {
	params, err := p.params(req)
	if err != nil {
		return ai.ChatResponse{}, err
	}

	ctx, cancel := callContext(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return ai.ChatResponse{}, err
	}
	out := ai.ChatResponse{Model: resp.Model}
	if len(resp.Choices) > 0 {
		out.Content = resp.Choices[0].Message.Content
	}
	return out, nil
}

func (p *OpenAIProvider) params(req ai.ChatRequest) (openai.ChatCompletionNewParams, error) {
	var params openai.ChatCompletionNewParams

	model := firstNonEmpty(req.Model, p.model)
	if model == "" {
		return params, errors.New("model is required")
	}
	if len(req.Messages) == 0 {
		return params, errNoMessages
	}
	params.Model = openai.ChatModel(model)

	for _, msg := range req.Messages {
		m, err := openAIMessage(msg)
		if err != nil {
			return params, err
		}
		params.Messages = append(params.Messages, m)
	}

	temperature, maxTokens := p.temperature, p.maxTokens
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	params.Temperature = openai.Float(temperature)
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}

	if req.ResponseSchema != nil {
		params.ResponseFormat = strictJSONFormat(firstNonEmpty(req.SchemaName, openAISchemaName), req.ResponseSchema)
	}
	return params, nil
}

// strictJSONFormat requests structured output validated against s.
func strictJSONFormat(name string, s *ai.Schema) openai.ChatCompletionNewParamsResponseFormatUnion {
	js := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:   name,
		Schema: s.JSONSchema(),
		Strict: openai.Bool(true),
	}
	if s.Description != "" {
		js.Description = openai.String(s.Description)
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: js},
	}
}

var openAIRoles = map[string]func(string) openai.ChatCompletionMessageParamUnion{
	"system":    func(s string) openai.ChatCompletionMessageParamUnion { return openai.SystemMessage(s) },
	"developer": func(s string) openai.ChatCompletionMessageParamUnion { return openai.DeveloperMessage(s) },
	"user":      func(s string) openai.ChatCompletionMessageParamUnion { return openai.UserMessage(s) },
	"assistant": func(s string) openai.ChatCompletionMessageParamUnion { return openai.AssistantMessage(s) },
}

func openAIMessage(msg ai.Message) (openai.ChatCompletionMessageParamUnion, error) {
	build, ok := openAIRoles[strings.ToLower(strings.TrimSpace(msg.Role))]
	if !ok {
		return openai.ChatCompletionMessageParamUnion{}, fmt.Errorf("unsupported role: %s", msg.Role)
	}
	return build(msg.Content), nil
}

var _ ai.Provider = (*OpenAIProvider)(nil)
