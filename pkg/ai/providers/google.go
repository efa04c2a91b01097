package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"docqa/pkg/ai"

	"google.golang.org/genai"
)

const (
	geminiDefaultModel   = "gemini-2.5-flash"
	geminiDefaultTimeout = 60 * time.Second
)

func init() {
	ai.RegisterProvider(ai.ProviderInfo{
		Type:         ai.ProviderGoogle,
		Name:         "Google",
		Description:  "Gemini API with schema-constrained JSON answers",
		DefaultModel: geminiDefaultModel,
		RequiresKey:  true,
	}, NewGeminiProvider)
}

var (
	errNoMessages     = errors.New("messages are required")
	errNoConversation = errors.New("at least one user or assistant message is required")
)

// geminiModels is the slice of genai.Models the provider calls.
type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// dialGemini is swapped in tests.
var dialGemini = func(ctx context.Context, cc *genai.ClientConfig) (*genai.Client, error) {
	return genai.NewClient(ctx, cc)
}

// GeminiProvider answers through the Gemini API.
type GeminiProvider struct {
	models      geminiModels
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

// NewGeminiProvider builds a provider from the google section of the config.
func NewGeminiProvider(cfg ai.ProviderConfig) (ai.Provider, error) {
	g := cfg.Config.Providers.Google

	key := strings.TrimSpace(g.APIKey)
	if key == "" {
		slog.Debug("gemini_missing_key")
		return nil, errors.New("google api_key is required")
	}

	client, err := dialGemini(context.Background(), &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	p := &GeminiProvider{
		models:      client.Models,
		model:       firstNonEmpty(g.Model, geminiDefaultModel),
		temperature: g.Temperature,
		maxTokens:   g.MaxTokens,
		timeout:     geminiDefaultTimeout,
	}
	if g.APITimeoutSeconds > 0 {
		p.timeout = time.Duration(g.APITimeoutSeconds) * time.Second
	}
	slog.Debug("gemini_ready", "model", p.model, "timeout", p.timeout)
	return p, nil
}

// CreateChatCompletion sends one GenerateContent call and returns the
// visible text of the first candidate.
func (p *GeminiProvider) CreateChatCompletion(ctx context.Context, req ai.ChatRequest) (ai.ChatResponse, error) {
	model := firstNonEmpty(req.Model, p.model)
	if model == "" {
		return ai.ChatResponse{}, errors.New("model is required")
	}
	if len(req.Messages) == 0 {
		return ai.ChatResponse{}, errNoMessages
	}
	system, contents := splitGeminiMessages(req.Messages)
	if len(contents) == 0 {
		return ai.ChatResponse{}, errNoConversation
	}

	ctx, cancel := callContext(ctx, p.timeout)
	defer cancel()

	resp, err := p.models.GenerateContent(ctx, model, contents, p.generationConfig(req, system))
	if err != nil {
		return ai.ChatResponse{}, err
	}
	return ai.ChatResponse{Content: responseText(resp), Model: model}, nil
}

// splitGeminiMessages moves system and developer turns into a single system
// instruction. Gemini only knows user and model roles for the rest.
func splitGeminiMessages(msgs []ai.Message) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		switch strings.ToLower(strings.TrimSpace(m.Role)) {
		case "system", "developer":
			if text := strings.TrimSpace(m.Content); text != "" {
				system = append(system, text)
			}
		case "assistant":
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return strings.Join(system, "\n\n"), contents
}

func (p *GeminiProvider) generationConfig(req ai.ChatRequest, system string) *genai.GenerateContentConfig {
	temperature, maxTokens := p.temperature, p.maxTokens
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}

	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temperature)),
	}
	if system != "" {
		gc.SystemInstruction = genai.NewContentFromText(system, "")
	}
	if maxTokens > 0 {
		gc.MaxOutputTokens = int32(maxTokens)
	}
	if req.ResponseSchema != nil {
		gc.ResponseMIMEType = "application/json"
		gc.ResponseSchema = geminiSchema(req.ResponseSchema)
	}
	return gc
}

var geminiTypes = map[ai.SchemaType]genai.Type{
	ai.TypeObject: genai.TypeObject,
	ai.TypeArray:  genai.TypeArray,
	ai.TypeString: genai.TypeString,
}

func geminiSchema(s *ai.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	t, ok := geminiTypes[s.Type]
	if !ok {
		t = genai.TypeString
	}
	out := &genai.Schema{
		Type:             t,
		Description:      s.Description,
		Required:         s.Required,
		PropertyOrdering: s.PropertyOrder,
		Items:            geminiSchema(s.Items),
	}
	for name, prop := range s.Properties {
		if out.Properties == nil {
			out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		}
		out.Properties[name] = geminiSchema(prop)
	}
	return out
}

// responseText joins the non-thought parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range c.Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

var _ ai.Provider = (*GeminiProvider)(nil)
