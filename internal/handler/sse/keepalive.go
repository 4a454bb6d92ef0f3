package sse

import (
	"log/slog"
	"sync"
	"time"
)

// KeepAliveWriter abstracts the mechanism for writing keep-alive messages
// so the ticker can be tested without a real connection
type KeepAliveWriter interface {
	// WriteKeepAlive writes a keep-alive message (SSE comment)
	WriteKeepAlive() error
}

// TickerKeepAlive sends keep-alive pings at fixed intervals until stopped or
// a write fails
type TickerKeepAlive struct {
	interval time.Duration
	done     chan struct{}
	once     sync.Once
}

// NewTickerKeepAlive creates a new ticker-based keep-alive
func NewTickerKeepAlive(interval time.Duration) *TickerKeepAlive {
	return &TickerKeepAlive{
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins sending keep-alive pings on the interval. The returned channel
// closes when the keep-alive terminates, including after a failed write.
func (k *TickerKeepAlive) Start(writer KeepAliveWriter, logger *slog.Logger) <-chan struct{} {
	ticker := time.NewTicker(k.interval)
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := writer.WriteKeepAlive(); err != nil {
					logger.Debug("keep-alive write failed, stopping", "error", err)
					return
				}
			case <-k.done:
				return
			}
		}
	}()

	return stopped
}

// Stop terminates the keep-alive. Safe to call multiple times.
func (k *TickerKeepAlive) Stop() {
	k.once.Do(func() { close(k.done) })
}
