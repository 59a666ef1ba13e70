package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"       validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string   `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int      `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	ClockSkewSeconds     int      `mapstructure:"clock_skew_seconds"     validate:"gte=0"`
	BcryptCost           int      `mapstructure:"bcrypt_cost"            validate:"gte=4,lte=31"`
	AdminUsers           []string `mapstructure:"admin_users"`
	SeedDemoUser         bool     `mapstructure:"seed_demo_user"`
}

// DatabaseConfig selects the credential store backend.
// An empty URL keeps users in process memory.
type DatabaseConfig struct {
	URL         string `mapstructure:"url"          validate:"omitempty,url"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// RateLimitConfig controls login throttling. A zero LoginPerMinute disables it.
type RateLimitConfig struct {
	LoginPerMinute int    `mapstructure:"login_per_minute" validate:"gte=0"`
	RedisURL       string `mapstructure:"redis_url"        validate:"omitempty,url"`
}
