package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. FLASHDECK_SERVER_PORT.
const EnvPrefix = "FLASHDECK"

// DevelopmentJWTSecret signs tokens when no secret is configured outside
// production. Tokens signed with it must never be trusted in a real deployment.
const DevelopmentJWTSecret = "flashdeck-development-secret-do-not-use-in-prod"

// ErrMissingJWTSecret is returned when production runs without auth.jwt_secret.
var ErrMissingJWTSecret = errors.New("auth.jwt_secret is required in production")

var defaults = map[string]any{
	"server.port":                     8080,
	"server.log_level":                "info",
	"server.environment":              "development",
	"server.read_timeout_seconds":     15,
	"server.write_timeout_seconds":    15,
	"server.shutdown_timeout_seconds": 10,
	"database.url":                    "",
	"database.max_open_conns":         10,
	"database.max_idle_conns":         5,
	"auth.jwt_secret":                 "",
	"auth.bcrypt_cost":                10,
	"auth.token_lifetime_minutes":     480,
	"redis.url":                       "",
}

// flagBindings maps config keys to the command-line flags that override them.
var flagBindings = map[string]string{
	"server.port":        "port",
	"server.log_level":   "log-level",
	"server.environment": "environment",
	"database.url":       "database-url",
	"redis.url":          "redis-url",
}

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from the config file.
// An empty configFile skips file loading. Returns a populated, validated
// Config or an error if loading or validation fails.
func Load(configFile string) (*Config, error) {
	return LoadWithFlags(configFile, nil)
}

// LoadWithFlags is Load with command-line flags bound on top. A flag only
// takes effect when it was set explicitly; flags missing from the set are
// ignored.
func LoadWithFlags(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagBindings {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		if cfg.Server.Environment == EnvironmentProduction {
			return nil, ErrMissingJWTSecret
		}
		slog.Warn("auth.jwt_secret not set, using development secret",
			slog.String("environment", cfg.Server.Environment))
		cfg.Auth.JWTSecret = DevelopmentJWTSecret
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
