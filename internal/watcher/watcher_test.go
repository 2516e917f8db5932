package watcher

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaachak/pkg/config"
	"vaachak/pkg/extract"
	"vaachak/pkg/llm/prompts"
	"vaachak/pkg/pipeline"
	"vaachak/pkg/request"
	"vaachak/pkg/tracker"
)

type fakeLLM struct{ out string }

func (f *fakeLLM) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	return f.out, nil
}

func (f *fakeLLM) GenerateImageText(ctx context.Context, system, prompt, imagePath string) (string, error) {
	return f.out, nil
}

type fakeSynth struct{ out []string }

func (f *fakeSynth) Synthesize(ctx context.Context, text, langCode string) ([]string, error) {
	return f.out, nil
}

func newTestWatcher(t *testing.T, audio []string) (*Watcher, config.WatcherConfig) {
	t.Helper()
	cfg := config.WatcherConfig{
		Inbox:    filepath.Join(t.TempDir(), "inbox"),
		Outbox:   filepath.Join(t.TempDir(), "outbox"),
		Language: "en",
	}

	pm, err := prompts.NewManager()
	require.NoError(t, err)
	rc := request.New(nil, tracker.New(), nil, 5*time.Second)
	l := &fakeLLM{out: "watched summary"}
	svc := pipeline.New(extract.New(rc, l, pm), l, pm, &fakeSynth{out: audio}, time.Minute)

	w, err := New(cfg, svc)
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })
	return w, cfg
}

func TestProcessWritesSummaryAndAudio(t *testing.T) {
	chunk := base64.StdEncoding.EncodeToString([]byte("RIFF-fake-wav"))
	w, cfg := newTestWatcher(t, []string{chunk})

	src := filepath.Join(cfg.Inbox, "article.txt")
	require.NoError(t, os.WriteFile(src, []byte("inbox text to summarize"), 0o644))

	require.NoError(t, w.process(context.Background(), src))

	summary, err := os.ReadFile(filepath.Join(cfg.Outbox, "article.summary.txt"))
	require.NoError(t, err)
	assert.Equal(t, "watched summary", string(summary))

	audio, err := os.ReadFile(filepath.Join(cfg.Outbox, "article.000.wav"))
	require.NoError(t, err)
	assert.Equal(t, "RIFF-fake-wav", string(audio))
}

func TestProcessSkipsBadAudioChunk(t *testing.T) {
	good := base64.StdEncoding.EncodeToString([]byte("ok"))
	w, cfg := newTestWatcher(t, []string{"not-base64!!!", good})

	src := filepath.Join(cfg.Inbox, "note.md")
	require.NoError(t, os.WriteFile(src, []byte("text"), 0o644))
	require.NoError(t, w.process(context.Background(), src))

	_, err := os.Stat(filepath.Join(cfg.Outbox, "note.000.wav"))
	assert.True(t, os.IsNotExist(err), "bad chunk should be skipped")

	data, err := os.ReadFile(filepath.Join(cfg.Outbox, "note.001.wav"))
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}

func TestStartPicksUpNewFiles(t *testing.T) {
	w, cfg := newTestWatcher(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// Give the watcher a moment to arm before creating the file.
	time.Sleep(100 * time.Millisecond)
	src := filepath.Join(cfg.Inbox, "drop.txt")
	require.NoError(t, os.WriteFile(src, []byte("dropped text"), 0o644))

	summaryPath := filepath.Join(cfg.Outbox, "drop.summary.txt")
	require.Eventually(t, func() bool {
		_, err := os.Stat(summaryPath)
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestIsSupportedFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.txt", true},
		{"a.PDF", true},
		{"a.jpeg", true},
		{"a.mp4", false},
		{"a", false},
		{".hidden", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isSupportedFile(tt.path), "path %q", tt.path)
	}
}
