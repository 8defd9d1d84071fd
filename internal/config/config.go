package config

// Config holds all application configuration, grouped by concern.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	AI       AIConfig       `mapstructure:"ai"       validate:"required"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"gte=0,lte=31"`
}

// AIConfig contains AI provider settings shared by all generator adapters.
type AIConfig struct {
	// Provider selects the generator adapter: openrouter or gemini.
	Provider string `mapstructure:"provider" validate:"required,oneof=openrouter gemini"`

	APIKey    string `mapstructure:"api_key"    validate:"required"`
	BaseURL   string `mapstructure:"base_url"   validate:"required,url"`
	ModelName string `mapstructure:"model_name" validate:"required"`

	// AppURL and AppName identify this application to the provider
	// (OpenRouter attribution headers).
	AppURL  string `mapstructure:"app_url"`
	AppName string `mapstructure:"app_name"`

	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	Temperature           float64 `mapstructure:"temperature"             validate:"gte=0,lte=2"`
	MaxTokens             int     `mapstructure:"max_tokens"              validate:"required,gt=0"`

	Retry          RetryConfig          `mapstructure:"retry"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// RetryConfig controls the retry/backoff decorator around provider calls.
type RetryConfig struct {
	MaxAttempts      int     `mapstructure:"max_attempts"       validate:"required,gt=0"`
	InitialBackoffMs int     `mapstructure:"initial_backoff_ms" validate:"required,gt=0"`
	MaxBackoffMs     int     `mapstructure:"max_backoff_ms"     validate:"required,gt=0"`
	Multiplier       float64 `mapstructure:"multiplier"         validate:"required,gt=1"`
}

// CircuitBreakerConfig controls the circuit breaker sitting above retries.
type CircuitBreakerConfig struct {
	SlidingWindowSeconds  int     `mapstructure:"sliding_window_seconds"   validate:"required,gt=0"`
	FailureRateThreshold  float64 `mapstructure:"failure_rate_threshold"   validate:"required,gt=0,lte=1"`
	MinRequests           int     `mapstructure:"min_requests"             validate:"required,gt=0"`
	OpenStateSeconds      int     `mapstructure:"open_state_seconds"       validate:"required,gt=0"`
	HalfOpenMaxRequests   int     `mapstructure:"half_open_max_requests"   validate:"required,gt=0"`
}
