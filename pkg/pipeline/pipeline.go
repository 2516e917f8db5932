// Package pipeline runs the content-to-speech flow: extract, summarize,
// synthesize.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vaachak/pkg/extract"
	"vaachak/pkg/llm"
	"vaachak/pkg/llm/prompts"
	"vaachak/pkg/model"
	"vaachak/pkg/tts"
)

// Inputs longer than this get a bulleted summary instead of a paragraph.
const longInputChars = 4000

// Service orchestrates one request end to end.
type Service struct {
	extractor  *extract.Extractor
	llm        llm.Provider
	prompts    *prompts.Manager
	synth      tts.Synthesizer
	ttsTimeout time.Duration
}

// New creates a pipeline Service.
func New(e *extract.Extractor, p llm.Provider, pm *prompts.Manager, s tts.Synthesizer, ttsTimeout time.Duration) *Service {
	return &Service{
		extractor:  e,
		llm:        p,
		prompts:    pm,
		synth:      s,
		ttsTimeout: ttsTimeout,
	}
}

// Run resolves the request to text, summarizes it and synthesizes speech.
// Synthesis failures degrade the result to an empty audio list; extraction
// and summarization failures are returned as errors.
func (s *Service) Run(ctx context.Context, req model.ContentRequest) (model.SummaryResult, error) {
	lang, err := model.LanguageByCode(req.Language)
	if err != nil {
		return model.SummaryResult{}, err
	}

	res, err := s.extractor.Extract(ctx, req)
	if err != nil {
		return model.SummaryResult{}, err
	}

	summary := res.Text
	if !res.Summarized {
		summary, err = s.summarize(ctx, res.Text, lang)
		if err != nil {
			return model.SummaryResult{}, err
		}
	}

	audio := s.synthesize(ctx, summary, lang.Code)

	return model.SummaryResult{Summary: summary, AudioChunks: audio}, nil
}

func (s *Service) summarize(ctx context.Context, text string, lang model.Language) (string, error) {
	system, err := s.prompts.Render("summarize_system.tmpl", nil)
	if err != nil {
		return "", err
	}

	prompt, err := s.prompts.Render("summarize.tmpl", prompts.SummaryData{
		Language:  lang.Name,
		Text:      text,
		LongInput: len(text) > longInputChars,
	})
	if err != nil {
		return "", err
	}

	summary, err := s.llm.GenerateText(ctx, system, prompt)
	if err != nil {
		return "", fmt.Errorf("summarization failed: %w", err)
	}
	return summary, nil
}

// synthesize converts the summary to speech. Any failure is absorbed: the
// caller still gets the summary, just without audio.
func (s *Service) synthesize(ctx context.Context, summary, langCode string) []string {
	if s.synth == nil {
		return []string{}
	}

	if s.ttsTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.ttsTimeout)
		defer cancel()
	}

	speech := tts.CleanForSpeech(summary)
	if speech == "" {
		return []string{}
	}

	audio, err := s.synth.Synthesize(ctx, speech, langCode)
	if err != nil {
		slog.Warn("Speech synthesis failed, returning summary without audio", "language", langCode, "error", err)
		return []string{}
	}
	if audio == nil {
		audio = []string{}
	}
	return audio
}
