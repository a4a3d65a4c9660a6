package pipeline

import (
	"errors"

	"go.uber.org/zap"

	"github.com/ppiankov/stylometer/internal/llm"
	"github.com/ppiankov/stylometer/internal/model"
)

// ProviderFromConfig resolves the configured provider, filling credentials
// from the environment through getenv. A missing credential is normal and
// yields a nil provider; only an unknown provider name is an error.
func ProviderFromConfig(cfg model.Config, getenv func(string) string, logger *zap.Logger) (llm.Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	llmConfig := llm.ResolveFromEnv(llm.ConfigFromModel(cfg), getenv)
	provider, err := llm.NewProvider(llmConfig)
	if errors.Is(err, llm.ErrMissingCredential) {
		logger.Info("provider credential missing, local heuristics only",
			zap.String("provider", llmConfig.Provider))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if provider == nil {
		logger.Info("no provider configured, local heuristics only")
		return nil, nil
	}

	logger.Debug("provider configured",
		zap.String("provider", provider.Name()),
		zap.String("model", llmConfig.Model),
	)
	return provider, nil
}
