// Package sarvam implements tts.Synthesizer for the Sarvam text-to-speech API.
package sarvam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"vaachak/pkg/config"
	"vaachak/pkg/model"
	"vaachak/pkg/request"
	"vaachak/pkg/tts"
)

const apiURL = "https://api.sarvam.ai/text-to-speech"

// ErrMissingKey indicates the Sarvam subscription key is not configured.
var ErrMissingKey = errors.New("sarvam api key is missing")

// Provider implements tts.Synthesizer for Sarvam.
type Provider struct {
	cfg config.TTSConfig
	rc  *request.Client

	// APIURL overrides the endpoint for testing.
	APIURL string
}

// New creates a new Sarvam TTS provider.
func New(cfg config.TTSConfig, rc *request.Client) *Provider {
	return &Provider{cfg: cfg, rc: rc}
}

// payload is one synthesis request. The API accepts at most three inputs
// per call; the batcher guarantees that bound.
type payload struct {
	Speaker             string   `json:"speaker"`
	Pitch               float64  `json:"pitch"`
	Pace                float64  `json:"pace"`
	Loudness            float64  `json:"loudness"`
	SpeechSampleRate    int      `json:"speech_sample_rate"`
	EnablePreprocessing bool     `json:"enable_preprocessing"`
	TargetLanguageCode  string   `json:"target_language_code"`
	Model               string   `json:"model"`
	Inputs              []string `json:"inputs"`
}

type response struct {
	Audios []string `json:"audios"`
}

// Synthesize converts text into base64-encoded audio artifacts, one per
// chunk, in reading order. The language allow-list is checked once before
// any request goes out. If any batch fails the whole sequence is discarded:
// partial audio with an unknown gap is unsafe for playback continuity.
func (p *Provider) Synthesize(ctx context.Context, text, langCode string) ([]string, error) {
	lang, err := model.LanguageByCode(langCode)
	if err != nil {
		return nil, err
	}
	if p.cfg.Key == "" {
		return nil, ErrMissingKey
	}

	chunks, err := p.split(text)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	batches := tts.BatchChunks(chunks, p.cfg.BatchSize)
	slog.Debug("Synthesizing", "language", lang.SynthesisCode, "chunks", len(chunks), "batches", len(batches))

	var audios []string
	for i, batch := range batches {
		got, err := p.synthesizeBatch(ctx, batch, lang.SynthesisCode)
		if err != nil {
			return nil, &tts.RequestError{Batch: i, Err: err}
		}
		if len(got) != len(batch) {
			// The API contract promises one artifact per input, in order.
			// Degraded output is still returned; the caller decides.
			slog.Warn("Synthesis artifact count mismatch",
				"batch", i, "inputs", len(batch), "artifacts", len(got))
		}
		audios = append(audios, got...)
	}
	return audios, nil
}

func (p *Provider) split(text string) ([]string, error) {
	if p.cfg.ChunkStrategy == tts.StrategyRaw {
		return tts.SplitRaw(text, p.cfg.ChunkSize), nil
	}
	return tts.SplitWords(text, p.cfg.ChunkSize, p.cfg.MaxWords)
}

func (p *Provider) synthesizeBatch(ctx context.Context, inputs []string, languageCode string) ([]string, error) {
	body, err := json.Marshal(payload{
		Speaker:             p.cfg.Speaker,
		Pitch:               p.cfg.Pitch,
		Pace:                p.cfg.Pace,
		Loudness:            p.cfg.Loudness,
		SpeechSampleRate:    p.cfg.SampleRate,
		EnablePreprocessing: true,
		TargetLanguageCode:  languageCode,
		Model:               p.cfg.Model,
		Inputs:              inputs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	u := p.APIURL
	if u == "" {
		u = apiURL
	}
	headers := map[string]string{"api-subscription-key": p.cfg.Key}

	respBody, err := p.rc.PostJSON(ctx, u, body, headers)
	if err != nil {
		return nil, err
	}

	var resp response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		slog.Warn("Unexpected synthesis response body", "error", err)
		return nil, nil
	}
	if resp.Audios == nil {
		slog.Warn("Synthesis response missing audios field")
		return nil, nil
	}
	return resp.Audios, nil
}
