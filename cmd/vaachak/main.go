// Command vaachak runs the content-to-speech summarization service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"vaachak/internal/api"
	"vaachak/internal/watcher"
	"vaachak/pkg/cache"
	"vaachak/pkg/config"
	"vaachak/pkg/extract"
	"vaachak/pkg/llm"
	"vaachak/pkg/llm/gemini"
	"vaachak/pkg/llm/openai"
	"vaachak/pkg/llm/prompts"
	"vaachak/pkg/logging"
	"vaachak/pkg/pipeline"
	"vaachak/pkg/probe"
	"vaachak/pkg/request"
	"vaachak/pkg/tracker"
	"vaachak/pkg/tts/sarvam"
	"vaachak/pkg/version"
)

var (
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
	configPath = flag.String("config", "configs/vaachak.yaml", "Path to config file")
)

func main() {
	flag.Parse()

	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	if *initConfig {
		if err := config.Save(*configPath, config.DefaultConfig()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated:", *configPath)
		return
	}

	if err := run(context.Background(), *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("Vaachak started", "version", version.Version)

	tr := tracker.New()

	var cacher cache.Cacher = cache.Nop{}
	if cfg.Cache.Path != "" {
		sc, err := cache.OpenSQLite(cfg.Cache.Path, cfg.Cache.TTL.Std())
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		defer sc.Close()
		if err := sc.Prune(ctx); err != nil {
			slog.Warn("Cache pruning failed", "error", err)
		}
		cacher = sc
	}

	backoff := request.NewProviderBackoff(cfg.Request.Backoff.BaseDelay.Std(), cfg.Request.Backoff.MaxDelay.Std())
	rc := request.New(cacher, tr, backoff, cfg.Request.Timeout.Std())

	llmProvider, err := newLLMProvider(ctx, cfg, rc)
	if err != nil {
		return fmt.Errorf("failed to initialize llm provider: %w", err)
	}

	promptMgr, err := prompts.NewManager()
	if err != nil {
		return fmt.Errorf("failed to load prompts: %w", err)
	}

	synth := sarvam.New(cfg.TTS, rc)
	extractor := extract.New(rc, llmProvider, promptMgr)
	svc := pipeline.New(extractor, llmProvider, promptMgr, synth, cfg.TTS.Timeout.Std())

	uploadH, err := api.NewUploadHandler(cfg.Upload)
	if err != nil {
		return fmt.Errorf("failed to initialize uploads: %w", err)
	}

	results := probe.Run(ctx, startupProbes(cfg))
	if err := probe.AnalyzeResults(results); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	srv := api.NewServer(cfg.Server.Address, api.NewSummarizeHandler(svc, uploadH), uploadH, api.NewStatsHandler(tr))

	if cfg.Watcher.Enabled {
		w, err := watcher.New(cfg.Watcher, svc)
		if err != nil {
			return fmt.Errorf("failed to initialize watch folder: %w", err)
		}
		defer w.Stop()
		go func() {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Watch-folder ingestion failed", "error", err)
			}
		}()
	}

	return serve(ctx, srv, cfg.Server.ShutdownTimeout.Std())
}

// startupProbes lists the checks that must run before serving traffic.
// A missing TTS key is tolerated: the service still produces summaries,
// just without audio.
func startupProbes(cfg *config.Config) []probe.Probe {
	return []probe.Probe{
		{
			Name:     "LLM credentials",
			Critical: true,
			Check: func(context.Context) error {
				if cfg.LLM.Key == "" {
					return errors.New("no llm key configured (set LLM_API_KEY or GITHUB_TOKEN)")
				}
				return nil
			},
		},
		{
			Name: "TTS credentials",
			Check: func(context.Context) error {
				if cfg.TTS.Key == "" {
					return errors.New("no tts key configured (set SARVAM_API_KEY); audio output disabled")
				}
				return nil
			},
		},
		{
			Name:     "Upload directory",
			Critical: true,
			Check: func(context.Context) error {
				f, err := os.CreateTemp(cfg.Upload.Dir, ".probe-*")
				if err != nil {
					return fmt.Errorf("upload directory not writable: %w", err)
				}
				f.Close()
				return os.Remove(f.Name())
			},
		},
	}
}

// newLLMProvider builds the configured summarization backend.
func newLLMProvider(ctx context.Context, cfg *config.Config, rc *request.Client) (llm.Provider, error) {
	switch cfg.LLM.Provider {
	case "openai", "":
		return openai.NewClient(cfg.LLM, rc)
	case "gemini":
		return gemini.NewClient(ctx, cfg.LLM)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

// serve runs the HTTP server until the context is cancelled or a signal
// arrives, then shuts down gracefully.
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-sigCh:
		slog.Info("Shutting down", "signal", sig.String())
	case <-ctx.Done():
		slog.Info("Shutting down", "reason", ctx.Err())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}
