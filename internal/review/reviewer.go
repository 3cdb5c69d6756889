// Package review performs the one-shot inference call that turns a rendered
// prompt into feedback text. It is deliberately thin: prompt construction
// and asset lifecycle live elsewhere.
package review

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/greglamb/gemini-pr-reviewer/internal/prompt"
)

// Reviewer sends review prompts to a Gemini model.
type Reviewer struct {
	client      *genai.Client
	model       string
	temperature float32
}

// New creates a reviewer for the given model.
func New(client *genai.Client, model string, temperature float32) *Reviewer {
	return &Reviewer{client: client, model: model, temperature: temperature}
}

// Review generates feedback for a fully rendered prompt and returns the
// response text, or an error if the model produced nothing.
func (r *Reviewer) Review(ctx context.Context, renderedPrompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(renderedPrompt, genai.RoleUser),
	}

	resp, err := r.client.Models.GenerateContent(ctx, r.model, contents, &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(r.temperature),
		SystemInstruction: genai.NewContentFromText(prompt.SystemInstruction, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("review generation failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("model %s returned an empty response", r.model)
	}
	return text, nil
}
