package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. PASSGATE_AUTH_JWT_SECRET for auth.jwt_secret.
const EnvPrefix = "PASSGATE"

// keys lists every configuration key so that environment variables are bound
// even when neither a default nor a config file mentions them.
var keys = []string{
	"server.port",
	"server.log_level",
	"server.shutdown_timeout_seconds",
	"auth.jwt_secret",
	"auth.token_lifetime_minutes",
	"auth.clock_skew_seconds",
	"auth.bcrypt_cost",
	"auth.admin_users",
	"auth.seed_demo_user",
	"database.url",
	"database.auto_migrate",
	"rate_limit.login_per_minute",
	"rate_limit.redis_url",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("auth.token_lifetime_minutes", 30)
	v.SetDefault("auth.clock_skew_seconds", 0)
	v.SetDefault("auth.bcrypt_cost", bcrypt.DefaultCost)
	v.SetDefault("auth.admin_users", []string{})
	v.SetDefault("auth.seed_demo_user", false)
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("rate_limit.login_per_minute", 0)
}

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from the file. When
// configFile is empty, config.yaml in the working directory is used if present.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct tags on cfg.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
