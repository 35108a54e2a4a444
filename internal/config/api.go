// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/tally-fin/tally/internal/api"
	"github.com/tally-fin/tally/internal/service"
)

// LoadAPIConfig loads the remote service configuration from Viper and
// environment variables. It follows this precedence:
// 1. Viper configuration (from config file or TALLY_ env vars)
// 2. Direct environment variables (TALLY_API_URL, TALLY_API_TOKEN)
// 3. Default values
func LoadAPIConfig() (api.Config, error) {
	cfg := api.Config{
		BaseURL: viper.GetString("api.url"),
		Token:   viper.GetString("api.token"),
		Timeout: viper.GetDuration("api.timeout"),
		Retry: service.RetryOptions{
			MaxAttempts:  viper.GetInt("api.retry.max_attempts"),
			InitialDelay: viper.GetDuration("api.retry.initial_delay"),
			MaxDelay:     viper.GetDuration("api.retry.max_delay"),
			Multiplier:   viper.GetFloat64("api.retry.multiplier"),
		},
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("TALLY_API_URL")
	}
	if cfg.Token == "" {
		cfg.Token = os.Getenv("TALLY_API_TOKEN")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return api.Config{}, err
	}
	return cfg, nil
}
