// Package tts defines the speech synthesis contract and the text
// preparation helpers shared by synthesis providers.
package tts

import (
	"context"
	"fmt"
)

// Synthesizer converts text into a sequence of encoded audio artifacts.
type Synthesizer interface {
	// Synthesize splits text as needed and returns base64-encoded audio
	// artifacts in reading order. langCode is a two-letter code from the
	// language allow-list; unknown codes fail before any network call.
	Synthesize(ctx context.Context, text, langCode string) ([]string, error)
}

// TextTooLongError indicates input above the word-count ceiling.
// It is raised before chunking; nothing is silently truncated.
type TextTooLongError struct {
	Words int
	Limit int
}

func (e *TextTooLongError) Error() string {
	return fmt.Sprintf("text has %d words, above the synthesis ceiling of %d", e.Words, e.Limit)
}

// RequestError indicates that the synthesis call for one batch failed.
// Batch is the zero-based index of the failing batch.
type RequestError struct {
	Batch int
	Err   error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("synthesis request for batch %d failed: %v", e.Batch, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
