// Package llm defines the interface for the summarization model providers.
package llm

import (
	"context"
	"errors"
)

// ErrMissingCredential indicates the provider has no API key configured.
// This is a process misconfiguration, not a user error, and is never retried.
var ErrMissingCredential = errors.New("llm api key is missing")

// Provider defines the interface for interacting with LLM services.
type Provider interface {
	// GenerateText sends a system instruction and a prompt, returning the
	// text completion.
	GenerateText(ctx context.Context, system, prompt string) (string, error)

	// GenerateImageText sends a prompt together with an image read from
	// imagePath and returns the text completion.
	GenerateImageText(ctx context.Context, system, prompt, imagePath string) (string, error)
}
