package llm

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/abhisek/kotoba/internal/config"
	"github.com/abhisek/kotoba/internal/store"
)

// Providers lists the accepted coach.provider values.
var Providers = []string{"anthropic", "openai", "openrouter", "gemini", "mock"}

// apiKeyEnv is consulted when coach.api_key is empty.
var apiKeyEnv = map[string]string{
	"anthropic":  "ANTHROPIC_API_KEY",
	"openai":     "OPENAI_API_KEY",
	"openrouter": "OPENROUTER_API_KEY",
	"gemini":     "GEMINI_API_KEY",
}

// New builds the provider named in cfg, wrapped with retry and logging.
// It returns (nil, nil) when no provider is configured.
func New(ctx context.Context, cfg config.Coach, events store.EventRepo, log *zap.Logger) (Provider, error) {
	if cfg.Provider == "" {
		return nil, nil
	}

	key := cfg.APIKey
	if key == "" {
		key = os.Getenv(apiKeyEnv[cfg.Provider])
	}

	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case "anthropic":
		p, err = NewAnthropic(key, cfg.Model)
	case "openai":
		p, err = NewOpenAI(key, cfg.Model, cfg.BaseURL)
	case "openrouter":
		p, err = NewOpenRouter(key, cfg.Model, cfg.BaseURL)
	case "gemini":
		p, err = NewGemini(ctx, key, cfg.Model)
	case "mock":
		p = NewMock()
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	retry := DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retry.MaxAttempts = cfg.MaxRetries
	}
	return WithLogging(WithRetry(p, retry), events, log), nil
}
