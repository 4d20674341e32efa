package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the server configuration, parsed from environment variables.
type Config struct {
	HTTPAddr      string `env:"HTTP_ADDR" envDefault:":8080"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"mindaid"`

	Token  TokenConfig
	Gemini GeminiConfig

	// Frontend URL that password reset links point at; the raw reset token
	// is appended as a path segment.
	AppResetPasswordURL string `env:"APP_RESET_PASSWORD_URL" envDefault:"http://localhost:5173/reset-password"`
}

// TokenConfig holds access token settings.
type TokenConfig struct {
	Secret    string        `env:"TOKEN_SECRET"`
	Issuer    string        `env:"TOKEN_ISSUER" envDefault:"mindaid"`
	ExpiresIn time.Duration `env:"TOKEN_EXPIRES_IN" envDefault:"720h"`
}

// GeminiConfig holds settings for the text generation provider.
type GeminiConfig struct {
	APIKey  string        `env:"GEMINI_API_KEY"`
	Model   string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-pro"`
	Timeout time.Duration `env:"GEMINI_TIMEOUT" envDefault:"10s"`
}

// New creates a Config instance from environment variables.
func New(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.Token.Secret == "" {
		return fmt.Errorf("missing TOKEN_SECRET environment variable")
	}
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("missing GEMINI_API_KEY environment variable")
	}

	return nil
}
