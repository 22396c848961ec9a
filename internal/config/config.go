// Package config loads server settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultEnvFile = ".env"

// DefaultOrigin is the ALLOWED_ORIGINS default
const DefaultOrigin = "http://localhost"

// fallbackOrigins используются, если ALLOWED_ORIGINS пуст
var fallbackOrigins = []string{"http://localhost", "http://127.0.0.1"}

var supportedAlgorithms = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
}

var (
	// ErrMissingSecret indicates that JWT_SECRET_KEY is not set
	ErrMissingSecret = errors.New("JWT_SECRET_KEY is required")

	// ErrUnsupportedAlgorithm indicates a JWT_ALGORITHM other than HS256/HS384/HS512
	ErrUnsupportedAlgorithm = errors.New("unsupported JWT_ALGORITHM")

	// ErrInvalidTTL indicates a non-positive JWT_EXPIRE_MINUTES
	ErrInvalidTTL = errors.New("JWT_EXPIRE_MINUTES must be positive")
)

// Config holds the server settings
type Config struct {
	AppName          string `mapstructure:"APP_NAME"`
	AppEnv           string `mapstructure:"APP_ENV"`
	HTTPAddr         string `mapstructure:"HTTP_ADDR"`
	AllowedOrigins   string `mapstructure:"ALLOWED_ORIGINS"`
	LogLevel         string `mapstructure:"LOG_LEVEL"`
	DatabaseURL      string `mapstructure:"DATABASE_URL"`
	JWTSecretKey     string `mapstructure:"JWT_SECRET_KEY"`
	JWTAlgorithm     string `mapstructure:"JWT_ALGORITHM"`
	JWTExpireMinutes int    `mapstructure:"JWT_EXPIRE_MINUTES"`
	BcryptCost       int    `mapstructure:"BCRYPT_COST"`
	LoginRateLimit   int    `mapstructure:"LOGIN_RATE_LIMIT"`
	Debug            bool   `mapstructure:"DEBUG"`
	DBEcho           bool   `mapstructure:"DB_ECHO"`

	// TrustProxyHeaders берет IP клиента из X-Forwarded-For/X-Real-IP.
	// Включать только за прокси, который перезаписывает эти заголовки.
	TrustProxyHeaders bool `mapstructure:"TRUST_PROXY_HEADERS"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "authstarter")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DEBUG", true)
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("ALLOWED_ORIGINS", DefaultOrigin)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_URL", "sqlite://authstarter.db")
	v.SetDefault("DB_ECHO", false)
	v.SetDefault("JWT_SECRET_KEY", "")
	v.SetDefault("JWT_ALGORITHM", "HS256")
	v.SetDefault("JWT_EXPIRE_MINUTES", 30)
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("LOGIN_RATE_LIMIT", 20)
	v.SetDefault("TRUST_PROXY_HEADERS", false)
}

// Load reads configuration from the environment.
// envFile is loaded first if set; otherwise ./.env is used when present.
// Variables already set in the process environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else if _, err := os.Stat(defaultEnvFile); err == nil {
		if err := godotenv.Load(defaultEnvFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", defaultEnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.JWTAlgorithm = strings.ToUpper(strings.TrimSpace(cfg.JWTAlgorithm))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that have no safe default
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return ErrMissingSecret
	}
	if !supportedAlgorithms[c.JWTAlgorithm] {
		return fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, c.JWTAlgorithm)
	}
	if c.JWTExpireMinutes <= 0 {
		return ErrInvalidTTL
	}
	if c.LoginRateLimit < 0 {
		return errors.New("LOGIN_RATE_LIMIT must not be negative")
	}
	return nil
}

// TokenTTL returns the access token lifetime
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpireMinutes) * time.Minute
}

// Origins разбирает ALLOWED_ORIGINS (через запятую).
// Пустой список заменяется на localhost и 127.0.0.1.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return append([]string(nil), fallbackOrigins...)
	}
	return origins
}

// IsProduction reports whether APP_ENV is "production" or "prod"
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.AppEnv)
	return env == "production" || env == "prod"
}
