// Package gemini implements llm.Provider for Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/iterator"
	"google.golang.org/genai"

	"vaachak/pkg/config"
	"vaachak/pkg/llm"
	"vaachak/pkg/llm/imageutil"
)

// Client implements llm.Provider for Google Gemini.
type Client struct {
	genaiClient *genai.Client
	modelName   string

	temperature float32
	topP        float32
	maxTokens   int
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, cfg config.LLMConfig) (*Client, error) {
	if cfg.Key == "" {
		return nil, llm.ErrMissingCredential
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.Key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	c := &Client{
		genaiClient: client,
		modelName:   modelName,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		maxTokens:   cfg.MaxTokens,
	}

	if err := c.validateModel(ctx); err != nil {
		slog.Warn("Gemini model validation failed (proceeding anyway)", "error", err)
		// Startup should survive a flaky or rate-limited API. A truly
		// invalid key or model fails on the first generation call instead.
	}

	return c, nil
}

func (c *Client) generationConfig(system string) *genai.GenerateContentConfig {
	temp := c.temperature
	topP := c.topP
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopP:            &topP,
		MaxOutputTokens: int32(c.maxTokens),
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	return cfg
}

// GenerateText sends a prompt and returns the text response.
func (c *Client) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.genaiClient.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), c.generationConfig(system))
	if err != nil {
		return "", fmt.Errorf("generate text error: %w", err)
	}
	return getResponseText(resp)
}

// GenerateImageText sends a prompt together with an image and returns the
// text response.
func (c *Client) GenerateImageText(ctx context.Context, system, prompt, imagePath string) (string, error) {
	data, mimeType, err := imageutil.PrepareForLLM(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to prepare image: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
			},
		},
	}

	resp, err := c.genaiClient.Models.GenerateContent(ctx, c.modelName, contents, c.generationConfig(system))
	if err != nil {
		return "", fmt.Errorf("generate image text error: %w", err)
	}
	return getResponseText(resp)
}

func getResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// validateModel checks if the configured model is available for the API key.
func (c *Client) validateModel(ctx context.Context) error {
	name := c.modelName
	if !strings.HasPrefix(name, "models/") {
		name = "models/" + name
	}

	_, err := c.genaiClient.Models.Get(ctx, name, nil)
	if err == nil {
		slog.Debug("Gemini model validation success", "model", c.modelName)
		return nil
	}

	slog.Warn("Gemini model validation failed, fetching available models...", "model", c.modelName, "error", err)

	iter, listErr := c.genaiClient.Models.List(ctx, nil)
	if listErr != nil {
		slog.Warn("Failed to list models for recovery", "error", listErr)
		return nil
	}

	var availableModels []string
	for {
		resp, nextErr := iter.Next(ctx)
		if nextErr == iterator.Done {
			break
		}
		if nextErr != nil {
			break
		}
		if strings.Contains(strings.ToLower(resp.Name), "gemini") {
			availableModels = append(availableModels, resp.Name)
		}
	}

	slog.Error("Configured model not found", "configured", c.modelName)
	for _, m := range availableModels {
		slog.Error("- " + m)
	}

	return nil
}
