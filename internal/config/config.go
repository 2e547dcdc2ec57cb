// Package config loads the API server's process configuration from an
// optional compoundverse.yaml file and COMPOUNDVERSE_* environment variables.
// Scoring settings live in the database, not here.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/julianstephens/compoundverse/internal/constants"
)

const EnvPrefix = "COMPOUNDVERSE"

type Config struct {
	ListenAddr     string        `mapstructure:"listen_addr"`
	RedisAddr      string        `mapstructure:"redis_addr"`
	RedisPassword  string        `mapstructure:"redis_password"`
	RateLimit      int           `mapstructure:"rate_limit"`
	RateWindow     time.Duration `mapstructure:"rate_window"`
	OpenAIAPIKey   string        `mapstructure:"openai_api_key"`
	OpenAIModel    string        `mapstructure:"openai_model"`
	OpenAIBaseURL  string        `mapstructure:"openai_base_url"`
	CoachTimeout   time.Duration `mapstructure:"coach_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", constants.DefaultListenAddr)
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("rate_limit", constants.DefaultRateLimit)
	v.SetDefault("rate_window", constants.DefaultRateWindowSec*time.Second)
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_model", constants.DefaultOpenAIModel)
	v.SetDefault("openai_base_url", "")
	v.SetDefault("coach_timeout", constants.DefaultCoachTimeoutSec*time.Second)
	v.SetDefault("allowed_origins", []string{"*"})
}

// Load reads configuration. When file is empty, compoundverse.yaml is looked
// up in searchDir and is optional; an explicit file must exist.
func Load(file, searchDir string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for _, key := range v.AllKeys() {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("binding %s: %w", key, err)
		}
	}
	// the conventional variable works too
	if err := v.BindEnv("openai_api_key", EnvPrefix+"_OPENAI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return Config{}, err
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(constants.AppName)
		v.SetConfigType("yaml")
		if searchDir != "" {
			v.AddConfigPath(searchDir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen_addr must not be empty")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("rate_limit must be positive, got %d", c.RateLimit)
	}
	if c.RateWindow <= 0 {
		return fmt.Errorf("rate_window must be positive, got %s", c.RateWindow)
	}
	if c.CoachTimeout <= 0 {
		return fmt.Errorf("coach_timeout must be positive, got %s", c.CoachTimeout)
	}
	return nil
}
