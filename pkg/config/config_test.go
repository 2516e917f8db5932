package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "vaachak.yaml")

	tests := []struct {
		name     string
		setup    func(t *testing.T)
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:  "NewFile_Defaults",
			setup: func(t *testing.T) {}, // no file
			validate: func(t *testing.T, cfg *Config) {
				if cfg.TTS.Speaker != "manisha" {
					t.Errorf("expected default speaker 'manisha', got %q", cfg.TTS.Speaker)
				}
				if cfg.TTS.ChunkSize != 500 || cfg.TTS.BatchSize != 3 {
					t.Errorf("expected chunk/batch defaults 500/3, got %d/%d", cfg.TTS.ChunkSize, cfg.TTS.BatchSize)
				}
				if cfg.TTS.ChunkStrategy != "words" {
					t.Errorf("expected default chunk strategy 'words', got %q", cfg.TTS.ChunkStrategy)
				}
				if cfg.LLM.Model != "gpt-4o" {
					t.Errorf("expected default model 'gpt-4o', got %q", cfg.LLM.Model)
				}
				// Defaults must have been written out
				content, err := os.ReadFile(configPath)
				if err != nil {
					t.Fatalf("failed to read generated config: %v", err)
				}
				if !strings.Contains(string(content), "speaker: manisha") {
					t.Error("generated config missing default speaker")
				}
			},
		},
		{
			name: "ExistingFile_Override",
			setup: func(t *testing.T) {
				body := "tts:\n  speaker: anushka\n  chunk_strategy: raw\n  timeout: 15s\nllm:\n  provider: gemini\n"
				if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
					t.Fatalf("failed to write config: %v", err)
				}
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.TTS.Speaker != "anushka" {
					t.Errorf("expected speaker 'anushka', got %q", cfg.TTS.Speaker)
				}
				if cfg.TTS.ChunkStrategy != "raw" {
					t.Errorf("expected strategy 'raw', got %q", cfg.TTS.ChunkStrategy)
				}
				if cfg.TTS.Timeout.Std() != 15*time.Second {
					t.Errorf("expected timeout 15s, got %v", cfg.TTS.Timeout.Std())
				}
				if cfg.LLM.Provider != "gemini" {
					t.Errorf("expected provider 'gemini', got %q", cfg.LLM.Provider)
				}
				// Untouched sections keep their defaults
				if cfg.TTS.SampleRate != 22050 {
					t.Errorf("expected default sample rate, got %d", cfg.TTS.SampleRate)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Remove(configPath)
			tt.setup(t)
			cfg, err := Load(configPath)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			tt.validate(t, cfg)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GITHUB_TOKEN", "gh-token")
	t.Setenv("SARVAM_API_KEY", "sv-key")

	cfg := DefaultConfig()
	cfg.applyEnv()

	if cfg.LLM.Key != "gh-token" {
		t.Errorf("expected LLM key from GITHUB_TOKEN, got %q", cfg.LLM.Key)
	}
	if cfg.TTS.Key != "sv-key" {
		t.Errorf("expected TTS key from SARVAM_API_KEY, got %q", cfg.TTS.Key)
	}

	// Explicit config wins over environment
	cfg2 := DefaultConfig()
	cfg2.LLM.Key = "from-file"
	cfg2.applyEnv()
	if cfg2.LLM.Key != "from-file" {
		t.Errorf("expected configured key preserved, got %q", cfg2.LLM.Key)
	}
}
