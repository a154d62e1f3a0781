package config

import (
	"fmt"
	"strings"
	"time"

	"gistbot/internal/summarizer"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Token             string        `env:"TOKEN"`
	AllowedUsers      []int64       `env:"ALLOWED_USERS"`
	DBPath            string        `env:"DB_PATH"             envDefault:"db.sqlite"`
	Provider          string        `env:"PROVIDER"            envDefault:"gemini"`
	GeminiAPIKey      string        `env:"GEMINI_API_KEY"`
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY"`
	MaxAttempts       int           `env:"MAX_ATTEMPTS"        envDefault:"3"`
	RetryDelay        time.Duration `env:"RETRY_DELAY"         envDefault:"3s"`
	RateLimitInterval time.Duration `env:"RATE_LIMIT_INTERVAL" envDefault:"10s"`
	CacheTTL          time.Duration `env:"CACHE_TTL"           envDefault:"1h"`
	MetricsAddr       string        `env:"METRICS_ADDR"`
}

// LoadConfig reads the environment, after loading .env when it exists.
func LoadConfig(envFiles ...string) (Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load(envFiles...)

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Provider != summarizer.ProviderGemini && cfg.Provider != summarizer.ProviderOpenAI {
		return Config{}, fmt.Errorf("PROVIDER must be %q or %q, got %q",
			summarizer.ProviderGemini, summarizer.ProviderOpenAI, cfg.Provider)
	}

	if cfg.MaxAttempts < 1 {
		return Config{}, fmt.Errorf("MAX_ATTEMPTS must be positive, got %d", cfg.MaxAttempts)
	}

	return cfg, nil
}

// DefaultCredential is the deployment-wide API key of the selected provider.
func (c Config) DefaultCredential() string {
	if c.Provider == summarizer.ProviderOpenAI {
		return strings.TrimSpace(c.OpenAIAPIKey)
	}

	return strings.TrimSpace(c.GeminiAPIKey)
}
