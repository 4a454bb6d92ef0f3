package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// ErrStreamingUnsupported is returned when the ResponseWriter cannot flush
var ErrStreamingUnsupported = errors.New("streaming unsupported")

// Writer writes SSE frames for one client. Events and keep-alives come from
// different goroutines, so every write holds the mutex.
type Writer struct {
	mu       sync.Mutex
	w        http.ResponseWriter
	flusher  http.Flusher
	clientID string
}

// NewWriter sets the SSE headers and returns a writer for the connection
func NewWriter(w http.ResponseWriter, clientID string) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // Disable nginx buffering

	return &Writer{w: w, flusher: flusher, clientID: clientID}, nil
}

// ClientID identifies the connection in logs
func (s *Writer) ClientID() string {
	return s.clientID
}

// Open writes the status line and an initial comment so the client sees the
// stream immediately
func (s *Writer) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprintf(s.w, ": connected %s\n\n", s.clientID); err != nil {
		return fmt.Errorf("write open comment failed: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// WriteEvent writes one named event with a JSON data line and flushes
func (s *Writer) WriteEvent(name string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, payload); err != nil {
		return fmt.Errorf("write %s event failed: %w", name, err)
	}
	s.flusher.Flush()
	return nil
}

// WriteKeepAlive writes an SSE comment (: keepalive) and flushes
func (s *Writer) WriteKeepAlive() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.w, ": keepalive\n\n"); err != nil {
		return fmt.Errorf("write keepalive failed: %w", err)
	}
	s.flusher.Flush()
	return nil
}
