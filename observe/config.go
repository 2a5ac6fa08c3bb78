package observe

import "log/slog"

const (
	// DefaultMaxDepth bounds how deeply notifications may nest before
	// Notify gives up with ErrNotifyDepth.
	DefaultMaxDepth = 64
)

// Config holds the tunables of a Registry.
type Config struct {
	MaxDepth int
	Logger   *slog.Logger
}

// DefaultConfig is used when NewRegistry gets no options.
func DefaultConfig() Config {
	return Config{
		MaxDepth: DefaultMaxDepth,
		Logger:   slog.Default(),
	}
}

// Option mutates a Config during NewRegistry.
type Option func(*Config)

// WithMaxDepth sets the nesting limit. Non-positive values reset to the default.
func WithMaxDepth(max int) Option {
	return func(c *Config) {
		if max <= 0 {
			c.MaxDepth = DefaultMaxDepth
			return
		}
		c.MaxDepth = max
	}
}

// WithLogger sets the logger used for warnings and isolated observer failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		if l == nil {
			l = slog.Default()
		}
		c.Logger = l
	}
}
