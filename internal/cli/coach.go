package cli

import (
	"errors"

	"github.com/julianstephens/compoundverse/internal/coach"
	"github.com/julianstephens/compoundverse/internal/config"
	"github.com/julianstephens/compoundverse/internal/keyring"
	"github.com/julianstephens/compoundverse/internal/logger"
)

// NewCoach builds the coach from server config. The API key comes from
// config or, failing that, the OS keyring; without one the coach only
// returns fallback text.
func NewCoach(cfg config.Config) *coach.Coach {
	return coach.New(coachClient(cfg), coach.Options{Model: cfg.OpenAIModel, Timeout: cfg.CoachTimeout})
}

func coachClient(cfg config.Config) coach.Completer {
	key := cfg.OpenAIAPIKey
	if key == "" {
		k, err := keyring.GetOpenAIKey()
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("Failed to read OpenAI key from keyring", "error", err)
		}
		key = k
	}
	if key == "" {
		logger.Info("No OpenAI API key configured, coach will use fallback text")
		return nil
	}
	return coach.NewOpenAIClient(key, cfg.OpenAIBaseURL)
}
