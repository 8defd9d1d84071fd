package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables (CARDS_ prefix) and an
// optional config.yaml in the working directory. Environment variables take
// precedence over file values. Returns a validated Config or an error.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CARDS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults still apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	// Secrets have no usable default, but registering the keys is what lets
	// viper find their environment variables during Unmarshal.
	v.SetDefault("database.url", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.app_url", "")
	v.SetDefault("ai.app_name", "")

	v.SetDefault("auth.token_lifetime_minutes", 15)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 10080)
	v.SetDefault("auth.bcrypt_cost", 0) // 0 selects the bcrypt default cost

	v.SetDefault("ai.provider", "openrouter")
	v.SetDefault("ai.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("ai.model_name", "openai/gpt-4o-mini")
	v.SetDefault("ai.request_timeout_seconds", 60)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.max_tokens", 2000)

	v.SetDefault("ai.retry.max_attempts", 3)
	v.SetDefault("ai.retry.initial_backoff_ms", 1000)
	v.SetDefault("ai.retry.max_backoff_ms", 10000)
	v.SetDefault("ai.retry.multiplier", 2.0)

	v.SetDefault("ai.circuit_breaker.sliding_window_seconds", 30)
	v.SetDefault("ai.circuit_breaker.failure_rate_threshold", 0.5)
	v.SetDefault("ai.circuit_breaker.min_requests", 10)
	v.SetDefault("ai.circuit_breaker.open_state_seconds", 60)
	v.SetDefault("ai.circuit_breaker.half_open_max_requests", 3)
}
