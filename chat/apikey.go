package chat

import (
	"log/slog"
	"sync"

	"github.com/fwojciec/denote"
)

// WarningState remembers which API key warnings were already logged so that
// each is emitted once per value.
type WarningState struct {
	configKey  sync.Once
	missingKey sync.Once
}

// ResolveAPIKey returns the provider API key, preferring the configured key
// over the DENOTE_AI_API_KEY environment variable read through getenv.
// A configured key logs a one-time hygiene warning; no key at all logs a
// one-time warning and returns "" so the call is made unauthenticated.
// A nil warnings logs on every call.
func ResolveAPIKey(cfg *denote.ProviderConfig, getenv func(string) string, warnings *WarningState, logger *slog.Logger) string {
	if logger == nil {
		logger = slog.Default()
	}
	if warnings == nil {
		warnings = &WarningState{}
	}
	if cfg != nil && cfg.APIKey != "" {
		warnings.configKey.Do(func() {
			logger.Warn("API key found in config file, consider the environment variable instead to avoid committing secrets",
				"env", denote.APIKeyEnv)
		})
		return cfg.APIKey
	}

	key := getenv(denote.APIKeyEnv)
	if key == "" {
		warnings.missingKey.Do(func() {
			logger.Warn("AI chat is configured but no API key found", "env", denote.APIKeyEnv)
		})
	}
	return key
}
