// Package config loads process configuration for the serve mode from
// the environment and an optional .env file.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"ENV"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	OutputDir      string `mapstructure:"OUTPUT_DIR"`
	MaxBodySize    string `mapstructure:"MAX_BODY_SIZE"`
	RequestTimeout int    `mapstructure:"REQUEST_TIMEOUT_SECONDS"`
	MaxPersons     int    `mapstructure:"MAX_PERSONS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OUTPUT_DIR", "./output")
	v.SetDefault("MAX_BODY_SIZE", "1M")
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 120)
	v.SetDefault("MAX_PERSONS", 100000)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("OUTPUT_DIR")
	v.BindEnv("MAX_BODY_SIZE")
	v.BindEnv("REQUEST_TIMEOUT_SECONDS")
	v.BindEnv("MAX_PERSONS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks the configuration is safe to run with.
func (c *Config) Validate() error {
	if c.RequestTimeout < 1 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be >= 1, got %d", c.RequestTimeout)
	}
	if c.MaxPersons < 1 {
		return fmt.Errorf("MAX_PERSONS must be >= 1, got %d", c.MaxPersons)
	}
	return nil
}
