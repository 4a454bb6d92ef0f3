// Package changefeed fans committed writes out to a user's open clients.
package changefeed

import (
	"log/slog"
	"sync"

	"applytrack/internal/domain/models"
	"applytrack/internal/domain/services"
)

// DefaultBufferSize is the per-subscriber queue length
const DefaultBufferSize = 16

type subscriber struct {
	ch chan models.ChangeEvent
}

// Broker is an in-process publish/subscribe hub keyed by user ID.
// Publish never blocks: a subscriber whose buffer is full misses the event.
type Broker struct {
	mu     sync.Mutex
	subs   map[string]map[*subscriber]struct{}
	buffer int
	logger *slog.Logger
}

// NewBroker creates a broker
func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		subs:   map[string]map[*subscriber]struct{}{},
		buffer: DefaultBufferSize,
		logger: logger,
	}
}

var _ services.ChangeFeed = (*Broker)(nil)

// Subscribe registers a listener for userID. The returned function removes
// it and closes the channel; it is safe to call more than once.
func (b *Broker) Subscribe(userID string) (<-chan models.ChangeEvent, func()) {
	sub := &subscriber{ch: make(chan models.ChangeEvent, b.buffer)}

	b.mu.Lock()
	if b.subs[userID] == nil {
		b.subs[userID] = map[*subscriber]struct{}{}
	}
	b.subs[userID][sub] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[userID], sub)
			if len(b.subs[userID]) == 0 {
				delete(b.subs, userID)
			}
			close(sub.ch)
		})
	}
	return sub.ch, unsubscribe
}

// Publish delivers event to every current subscriber of userID
func (b *Broker) Publish(userID string, event models.ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs[userID] {
		select {
		case sub.ch <- event:
		default:
			b.logger.Warn("change feed subscriber is full, dropping event",
				"user_id", userID,
				"type", event.Type,
			)
		}
	}
}

// Subscribers returns how many listeners userID has
func (b *Broker) Subscribers(userID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[userID])
}
