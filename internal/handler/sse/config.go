package sse

import "time"

// Config holds configuration for SSE connections
type Config struct {
	// KeepAliveInterval is how often to send keep-alive comments so proxies
	// do not close an idle change stream
	KeepAliveInterval time.Duration
}

// DefaultConfig returns the default SSE configuration
func DefaultConfig() *Config {
	return &Config{
		KeepAliveInterval: 15 * time.Second,
	}
}
