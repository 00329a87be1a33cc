package config

import (
	"github.com/spf13/viper"

	"github.com/kochabx/clea/core/validator"
	"github.com/kochabx/clea/log"
)

// Option is a function that configures a Config
type Option func(*Config)

// WithViper sets a custom viper instance
func WithViper(v *viper.Viper) Option {
	return func(c *Config) {
		if v != nil {
			c.viper = v
		}
	}
}

// WithValidator sets a custom validator
func WithValidator(v validator.Validator) Option {
	return func(c *Config) {
		c.validate = v
	}
}

// WithLoader sets the configuration loader
func WithLoader(loader Loader) Option {
	return func(c *Config) {
		c.loader = loader
	}
}

// WithFile loads the configuration from an explicit file path
func WithFile(path string) Option {
	return func(c *Config) {
		c.file = path
	}
}

// WithEnvPrefix sets the prefix of environment overrides, e.g. CLEA_VENUE_STAFF
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithLogger sets the logger used for reload events
func WithLogger(l *log.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}
