package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds all application configuration.
type Config struct {
	Port              int    `yaml:"port"`
	Provider          string `yaml:"provider"`
	Model             string `yaml:"model"`
	GeminiBaseURL     string `yaml:"gemini_base_url"`
	OpenAIBaseURL     string `yaml:"openai_base_url"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	MaxCodeLength     int    `yaml:"max_code_length"`
	RateLimit         int    `yaml:"rate_limit"`
	RateWindowSeconds int    `yaml:"rate_window_seconds"`
	AccessKey         string `yaml:"access_key"`
	LogLevel          string `yaml:"log_level"`
	LogFormat         string `yaml:"log_format"`
}

func defaults() Config {
	return Config{
		Port:              8090,
		Provider:          ProviderGemini,
		Model:             "gemini-2.5-flash",
		GeminiBaseURL:     "https://generativelanguage.googleapis.com",
		TimeoutSeconds:    60,
		MaxCodeLength:     20000,
		RateLimit:         10,
		RateWindowSeconds: 60,
		LogLevel:          "info",
		LogFormat:         "json",
	}
}

// Load reads configuration from a YAML file (if path is non-empty), then
// applies IMPROVER_* environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"IMPROVER_PROVIDER":        &cfg.Provider,
		"IMPROVER_MODEL":           &cfg.Model,
		"IMPROVER_GEMINI_BASE_URL": &cfg.GeminiBaseURL,
		"IMPROVER_OPENAI_BASE_URL": &cfg.OpenAIBaseURL,
		"IMPROVER_ACCESS_KEY":      &cfg.AccessKey,
		"IMPROVER_LOG_LEVEL":       &cfg.LogLevel,
		"IMPROVER_LOG_FORMAT":      &cfg.LogFormat,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"IMPROVER_PORT":                &cfg.Port,
		"IMPROVER_TIMEOUT_SECONDS":     &cfg.TimeoutSeconds,
		"IMPROVER_MAX_CODE_LENGTH":     &cfg.MaxCodeLength,
		"IMPROVER_RATE_LIMIT":          &cfg.RateLimit,
		"IMPROVER_RATE_WINDOW_SECONDS": &cfg.RateWindowSeconds,
	}
	for key, dst := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid %s %q: %w", key, v, err)
		}
		*dst = n
	}
	return nil
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("config: unknown provider %q", c.Provider)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	if c.MaxCodeLength < 0 {
		return fmt.Errorf("config: max_code_length must not be negative, got %d", c.MaxCodeLength)
	}
	if c.RateLimit < 0 || c.RateWindowSeconds < 0 {
		return fmt.Errorf("config: rate limit settings must not be negative")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("config: unknown log_format %q", c.LogFormat)
	}
	return nil
}

// Timeout is the per-request generation deadline.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RateWindow is the sliding window length for the per-IP limiter.
func (c Config) RateWindow() time.Duration {
	return time.Duration(c.RateWindowSeconds) * time.Second
}
