// Package sse reads and writes the event-stream framing used for job
// progress: an "event: <type>" line, a "data: <json>" line, a blank line.
package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
)

const ContentType = "text/event-stream"

type flusher interface {
	Flush()
}

// Encoder writes one block per call and flushes the underlying writer
// when it supports it. Safe for concurrent use.
type Encoder struct {
	mu sync.Mutex
	w  io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) Encode(event string, data any) error {
	if event == "" || strings.ContainsAny(event, "\r\n") {
		return fmt.Errorf("invalid event type %q", event)
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	if f, ok := e.w.(flusher); ok {
		f.Flush()
	}
	return nil
}
