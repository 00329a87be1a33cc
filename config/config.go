package config

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/kochabx/clea/core/validator"
	"github.com/kochabx/clea/log"
)

// Loader fills a target struct from a configuration source.
type Loader interface {
	// Load replaces the contents of target.
	Load(target any) error

	// Watch calls callback after every change of the source.
	Watch(callback func()) error
}

// Config manages application configuration
type Config struct {
	mu        sync.RWMutex        // protects concurrent access to target
	viper     *viper.Viper        // viper instance for configuration management
	validate  validator.Validator // validator for configuration validation
	target    any                 // target is the destination where the configuration will be unmarshalled
	loader    Loader              // loader is responsible for loading configuration
	file      string              // explicit config file path, overrides name lookup
	envPrefix string              // prefix for environment overrides
	logger    *log.Logger
}

// New creates a new Config instance with the given options
// If no loader is provided, a default FileLoader will be created with:
//   - filename: "clea.yaml" or the file set by WithFile
//   - paths: ["."]
func New(target any, opts ...Option) *Config {
	c := &Config{
		viper:    viper.New(),
		validate: validator.Validate,
		target:   target,
		logger:   log.Component("config"),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.envPrefix != "" {
		c.viper.SetEnvPrefix(c.envPrefix)
	}

	if c.loader == nil {
		if c.file != "" {
			c.loader = NewFileLoaderFromPath(c.file, c.viper, c.validate)
		} else {
			c.loader = NewFileLoader("clea.yaml", []string{"."}, c.viper, c.validate)
		}
	}

	return c
}

// Load reads the configuration using the configured loader
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loader.Load(c.target)
}

// Reload reloads the configuration from the loader
func (c *Config) Reload() error {
	return c.Load()
}

// Read runs fn with the target under the read lock
func (c *Config) Read(fn func(target any)) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	fn(c.target)
}

// Watch reloads the configuration on file changes and then runs the
// callbacks in order. Callbacks are skipped when the reload fails.
func (c *Config) Watch(callbacks ...func()) error {
	return c.loader.Watch(func() {
		c.logger.Info().Msg("config change detected")

		if err := c.Reload(); err != nil {
			c.logger.Error().Err(err).Msg("failed to reload config after change")
			return
		}

		c.logger.Info().Msg("config reloaded successfully")

		for _, cb := range callbacks {
			if cb != nil {
				cb()
			}
		}
	})
}

// GetViper returns the underlying viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.viper
}
