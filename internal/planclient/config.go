package planclient

import "time"

// Config holds plan service connection settings.
type Config struct {
	Endpoint   string
	TimeoutMs  int
	MaxRetries int
}

// DefaultConfig returns a Config with no endpoint. Callers check Enabled
// before building a client.
func DefaultConfig() Config {
	return Config{
		TimeoutMs:  10000,
		MaxRetries: 2,
	}
}

// Enabled reports whether a remote endpoint is configured.
func (c Config) Enabled() bool { return c.Endpoint != "" }

// Timeout returns the per-attempt timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
