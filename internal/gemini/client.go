// Package gemini wraps the Gemini generative-text API behind a single call.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/ykvlv/eventbot/internal/domain"
)

const DefaultModel = "gemini-1.5-flash"

var errEmptyResponse = errors.New("empty response")

// Client submits a prompt and returns generated text.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// New creates a client authenticated with apiKey. An empty model means DefaultModel.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{client: c, model: c.GenerativeModel(model)}, nil
}

// Generate runs one stateless generation. Failures wrap domain.ErrGenerativeService.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerativeService, err)
	}
	text, err := responseText(resp)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerativeService, err)
	}
	return text, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errEmptyResponse
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return "", fmt.Errorf("%w: finish reason %s", errEmptyResponse, cand.FinishReason)
	}

	var b strings.Builder
	for _, p := range cand.Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", errEmptyResponse
	}
	return b.String(), nil
}
