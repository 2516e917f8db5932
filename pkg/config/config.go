package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration. It is constructed once at
// startup and passed by reference into every constructor that needs it;
// nothing reads configuration from ambient globals.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Request RequestConfig `yaml:"request"`
	Cache   CacheConfig   `yaml:"cache"`
	LLM     LLMConfig     `yaml:"llm"`
	TTS     TTSConfig     `yaml:"tts"`
	Upload  UploadConfig  `yaml:"upload"`
	Watcher WatcherConfig `yaml:"watcher"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address         string   `yaml:"address"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"` // empty means stdout only
}

// RequestConfig holds outbound HTTP settings.
type RequestConfig struct {
	Timeout Duration      `yaml:"timeout"`
	Backoff BackoffConfig `yaml:"backoff"`
}

// BackoffConfig holds exponential backoff settings for upstream providers.
type BackoffConfig struct {
	BaseDelay Duration `yaml:"base_delay"`
	MaxDelay  Duration `yaml:"max_delay"`
}

// CacheConfig holds settings for the upstream response cache.
type CacheConfig struct {
	Path string   `yaml:"path"` // empty disables the cache
	TTL  Duration `yaml:"ttl"`
}

// LLMConfig holds settings for the summarization model provider.
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // "openai" (any OpenAI-compatible endpoint) or "gemini"
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Key         string  `yaml:"key"`
	Temperature float32 `yaml:"temperature"`
	TopP        float32 `yaml:"top_p"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// TTSConfig holds settings for the speech synthesis provider.
type TTSConfig struct {
	Key           string   `yaml:"key"`
	Speaker       string   `yaml:"speaker"`
	Pitch         float64  `yaml:"pitch"`
	Pace          float64  `yaml:"pace"`
	Loudness      float64  `yaml:"loudness"`
	SampleRate    int      `yaml:"sample_rate"`
	Model         string   `yaml:"model"`
	ChunkSize     int      `yaml:"chunk_size"`     // max characters per synthesis input
	BatchSize     int      `yaml:"batch_size"`     // max inputs per synthesis request
	MaxWords      int      `yaml:"max_words"`      // word-count ceiling before chunking
	ChunkStrategy string   `yaml:"chunk_strategy"` // "words" or "raw"
	Timeout       Duration `yaml:"timeout"`        // bound on the whole synthesis pass
}

// UploadConfig holds settings for uploaded file storage.
type UploadConfig struct {
	Dir        string `yaml:"dir"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	KeepOnDisk bool   `yaml:"keep_on_disk"` // keep uploads after the request completes
}

// WatcherConfig holds settings for the optional watch-folder ingestion.
type WatcherConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Inbox    string `yaml:"inbox"`
	Outbox   string `yaml:"outbox"`
	Language string `yaml:"language"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         "localhost:8000",
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Log: LogConfig{
			Level: "INFO",
		},
		Request: RequestConfig{
			Timeout: Duration(120 * time.Second),
			Backoff: BackoffConfig{
				BaseDelay: Duration(1 * time.Second),
				MaxDelay:  Duration(60 * time.Second),
			},
		},
		Cache: CacheConfig{
			Path: "./data/vaachak.db",
			TTL:  Duration(24 * time.Hour),
		},
		LLM: LLMConfig{
			Provider:    "openai",
			BaseURL:     "https://models.inference.ai.azure.com",
			Model:       "gpt-4o",
			Temperature: 1.0,
			TopP:        1.0,
			MaxTokens:   1000,
		},
		TTS: TTSConfig{
			Speaker:       "manisha",
			Pitch:         0,
			Pace:          1,
			Loudness:      1,
			SampleRate:    22050,
			Model:         "bulbul:v2",
			ChunkSize:     500,
			BatchSize:     3,
			MaxWords:      1500,
			ChunkStrategy: "words",
			Timeout:       Duration(60 * time.Second),
		},
		Upload: UploadConfig{
			Dir:       "./data/uploads",
			MaxSizeMB: 25,
		},
		Watcher: WatcherConfig{
			Enabled: false,
			Inbox:   "./data/inbox",
			Outbox:  "./data/outbox",
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it is created with default values.
// Secrets missing from the file are filled from the environment so keys
// never have to live in a committed config file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv fills empty secrets from the environment.
func (c *Config) applyEnv() {
	if c.LLM.Key == "" {
		for _, name := range []string{"LLM_API_KEY", "GITHUB_TOKEN", "GEMINI_API_KEY"} {
			if key := os.Getenv(name); key != "" {
				c.LLM.Key = key
				break
			}
		}
	}
	if c.TTS.Key == "" {
		if key := os.Getenv("SARVAM_API_KEY"); key != "" {
			c.TTS.Key = key
		}
	}
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Vaachak Configuration
# ---------------------
# Secrets (llm.key, tts.key) are better kept out of this file; they are
# read from LLM_API_KEY / GITHUB_TOKEN and SARVAM_API_KEY when empty.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
