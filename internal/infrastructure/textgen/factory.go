package textgen

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/smarttask/internal/config"
	"github.com/fastygo/smarttask/usecase"
)

// Generator is a TextGenerator that can say which provider it is.
type Generator interface {
	usecase.TextGenerator
	Name() string
}

// New selects the provider named by cfg. Without an API key, or when the
// remote client cannot be built, the local generator answers instead.
func New(ctx context.Context, cfg config.AssistantConfig, logger *zap.Logger) Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Provider == config.ProviderLocal || cfg.APIKey == "" {
		logger.Info("assistant uses local text generation", zap.String("requested", cfg.Provider))
		return Local{}
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAI(OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}, nil)
	case config.ProviderGemini:
		gen, err := NewGemini(ctx, GeminiConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			logger.Warn("gemini client unavailable, using local text generation", zap.Error(err))
			return Local{}
		}
		return gen
	}
	return Local{}
}
