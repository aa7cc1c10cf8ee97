// Package categorize turns a free-text expense description into a typed,
// tax-categorized record via one LLM completion call. The engine contributes
// no business logic beyond prompt construction and response validation.
package categorize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"expensebot/internal/core"

	"google.golang.org/genai"
)

// ErrUnavailable is the uniform failure for any categorization problem:
// transport error, empty content, malformed JSON, or invalid fields.
// Callers treat it as terminal for the current request; nothing is retried.
var ErrUnavailable = errors.New("categorization unavailable")

type generateFunc func(ctx context.Context, prompt string) (string, error)

type Engine struct {
	generate generateFunc
	model    string
}

// New creates an engine backed by the Gemini API.
func New(ctx context.Context, apiKey, model string) (*Engine, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	gen := func(ctx context.Context, prompt string) (string, error) {
		contents := []*genai.Content{
			{
				Role: "user",
				Parts: []*genai.Part{
					{Text: prompt},
				},
			},
		}
		cfg := &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: systemInstruction}},
			},
		}
		resp, err := client.Models.GenerateContent(ctx, model, contents, cfg)
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}

	return &Engine{generate: gen, model: model}, nil
}

// Categorize maps a description to an ExpenseRecord. The record's Date is
// left zero; the caller stamps the ingestion date at write time.
func (e *Engine) Categorize(ctx context.Context, description string) (core.ExpenseRecord, error) {
	raw, err := e.generate(ctx, buildPrompt(description))
	if err != nil {
		slog.ErrorContext(ctx, "Categorization call failed", "error", err, "model", e.model)
		return core.ExpenseRecord{}, ErrUnavailable
	}
	if raw == "" {
		slog.ErrorContext(ctx, "Categorization returned empty content", "model", e.model)
		return core.ExpenseRecord{}, ErrUnavailable
	}

	rec, err := decodeResponse(raw, description)
	if err != nil {
		slog.ErrorContext(ctx, "Categorization response rejected", "error", err)
		return core.ExpenseRecord{}, ErrUnavailable
	}
	return rec, nil
}
