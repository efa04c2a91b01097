// Package qa asks a language model to answer questions strictly from a
// supplied document and decodes its structured reply.
package qa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"docqa/pkg/ai"
	"docqa/pkg/logging"
)

// DefaultTemperature keeps answers close to the document.
const DefaultTemperature = 0.2

const schemaName = "document_answer"

// ErrEmptyContext is returned when Ask is called without document text.
var ErrEmptyContext = errors.New("document context is empty")

// Gateway sends one prompt per question to a provider.
type Gateway struct {
	provider    ai.Provider
	model       string
	temperature float64
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithModel overrides the provider's default model.
func WithModel(model string) Option {
	return func(g *Gateway) { g.model = strings.TrimSpace(model) }
}

// WithTemperature overrides DefaultTemperature.
func WithTemperature(t float64) Option {
	return func(g *Gateway) { g.temperature = t }
}

// NewGateway returns a gateway backed by provider.
func NewGateway(provider ai.Provider, opts ...Option) *Gateway {
	g := &Gateway{
		provider:    provider,
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Model returns the configured model override, which may be empty.
func (g *Gateway) Model() string { return g.model }

// Ask answers question using only documentContext. Every failure is wrapped
// with "failed to get response from AI". There is no retry.
func (g *Gateway) Ask(ctx context.Context, documentContext, question string) (Result, error) {
	if g == nil || g.provider == nil {
		return Result{}, fmt.Errorf("failed to get response from AI: %w", errors.New("no provider configured"))
	}
	if strings.TrimSpace(documentContext) == "" {
		return Result{}, fmt.Errorf("failed to get response from AI: %w", ErrEmptyContext)
	}

	prompt := BuildPrompt(documentContext, question)
	temperature := g.temperature

	slog.Info("qa_request_start",
		"model", g.model,
		"context_chars", len(documentContext),
		"question_chars", len(question),
	)
	logging.Trace(ctx, "qa_prompt", "prompt", prompt)

	start := time.Now()
	resp, err := g.provider.CreateChatCompletion(ctx, ai.ChatRequest{
		Model:          g.model,
		Messages:       []ai.Message{{Role: "user", Content: prompt}},
		Temperature:    &temperature,
		ResponseSchema: ResponseSchema(),
		SchemaName:     schemaName,
	})
	if err != nil {
		slog.Error("qa_request_error", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return Result{}, fmt.Errorf("failed to get response from AI: %w", err)
	}
	logging.Trace(ctx, "qa_raw_response", "content", resp.Content)

	result, err := ParseResponse(resp.Content)
	if err != nil {
		slog.Warn("qa_response_invalid", "error", err, "model", resp.Model)
		return Result{}, fmt.Errorf("failed to get response from AI: %w", err)
	}

	slog.Info("qa_request_done",
		"model", resp.Model,
		"answer_chars", len(result.Answer),
		"sources", len(result.Sources),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}
