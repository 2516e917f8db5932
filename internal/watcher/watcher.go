// Package watcher ingests files dropped into an inbox directory and writes
// summaries and audio to an outbox. It is an optional, headless way to feed
// the pipeline without the HTTP API.
package watcher

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"vaachak/pkg/config"
	"vaachak/pkg/model"
	"vaachak/pkg/pipeline"
)

const maxConcurrent = 2

// settleDelay gives the writer time to finish before the file is read.
const settleDelay = 500 * time.Millisecond

// Watcher monitors the inbox directory and runs the pipeline on new files.
type Watcher struct {
	cfg       config.WatcherConfig
	svc       *pipeline.Service
	fsw       *fsnotify.Watcher
	semaphore chan struct{}
	wg        sync.WaitGroup
}

// New creates a Watcher. Inbox and outbox directories are created if missing.
func New(cfg config.WatcherConfig, svc *pipeline.Service) (*Watcher, error) {
	for _, dir := range []string{cfg.Inbox, cfg.Outbox} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create watcher directory %s: %w", dir, err)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(cfg.Inbox); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &Watcher{
		cfg:       cfg,
		svc:       svc,
		fsw:       fsw,
		semaphore: make(chan struct{}, maxConcurrent),
	}, nil
}

// Start blocks processing inbox events until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	slog.Info("Watch-folder ingestion started", "inbox", w.cfg.Inbox, "outbox", w.cfg.Outbox)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Waiting for ongoing inbox processing to complete...")
			w.wg.Wait()
			slog.Info("Watch-folder ingestion stopped")
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !isSupportedFile(event.Name) {
				slog.Debug("Ignoring unsupported inbox file", "path", event.Name)
				continue
			}

			slog.Info("New inbox file detected", "path", event.Name)
			time.Sleep(settleDelay)

			select {
			case w.semaphore <- struct{}{}:
				w.wg.Add(1)
				go func(path string) {
					defer w.wg.Done()
					defer func() { <-w.semaphore }()

					if err := w.process(ctx, path); err != nil {
						slog.Error("Failed to process inbox file", "path", path, "error", err)
					}
				}(event.Name)
			case <-ctx.Done():
				return ctx.Err()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			slog.Error("Watcher error", "error", err)
		}
	}
}

// Stop closes the underlying filesystem watcher.
func (w *Watcher) Stop() error {
	return w.fsw.Close()
}

// process runs the pipeline on one inbox file and writes the results.
func (w *Watcher) process(ctx context.Context, path string) error {
	res, err := w.svc.Run(ctx, model.ContentRequest{
		FilePath: path,
		Language: w.cfg.Language,
	})
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := w.writeResult(base, res); err != nil {
		return err
	}

	slog.Info("Inbox file processed", "path", path, "audio_chunks", len(res.AudioChunks))
	return nil
}

// writeResult stores the summary and the decoded audio in the outbox.
func (w *Watcher) writeResult(base string, res model.SummaryResult) error {
	summaryPath := filepath.Join(w.cfg.Outbox, base+".summary.txt")
	if err := os.WriteFile(summaryPath, []byte(res.Summary), 0o644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	for i, chunk := range res.AudioChunks {
		data, err := base64.StdEncoding.DecodeString(chunk)
		if err != nil {
			slog.Warn("Skipping undecodable audio chunk", "base", base, "chunk", i, "error", err)
			continue
		}
		audioPath := filepath.Join(w.cfg.Outbox, fmt.Sprintf("%s.%03d.wav", base, i))
		if err := os.WriteFile(audioPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write audio chunk %d: %w", i, err)
		}
	}
	return nil
}

// isSupportedFile reports whether the inbox file has an extension the
// pipeline can read.
func isSupportedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".text", ".pdf", ".jpg", ".jpeg", ".png", ".gif":
		return true
	default:
		return false
	}
}
