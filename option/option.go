package option

import "github.com/go-kit/log"

// Config holds configuration options for YAML parsing
type Config struct {
	maxDepth *int
	logger   log.Logger
}

const (
	defaultMaxDepth = 10000
)

// Option represents a functional option for configuring YAML parsing
type Option func(*Config)

// WithMaxDepth returns an Option that bounds the number of nested
// collections. Values below 1 select the default.
func WithMaxDepth(depth int) Option {
	return func(c *Config) {
		c.maxDepth = &depth
	}
}

// WithLogger returns an Option that sets a logger receiving debug records
// for every scanned token and parser state
func WithLogger(logger log.Logger) Option {
	return func(c *Config) {
		c.logger = logger
	}
}

// GetMaxDepth returns the Config's max depth if set or the default value
func (c *Config) GetMaxDepth() int {
	if c.maxDepth != nil && *c.maxDepth > 0 {
		return *c.maxDepth
	}
	return defaultMaxDepth
}

// GetLogger returns the Config's logger, or nil when logging is disabled
func (c *Config) GetLogger() log.Logger {
	return c.logger
}

// NewConfig creates a new Config with the provided options
func NewConfig(opts ...Option) *Config {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Apply applies additional options to an existing Config
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
