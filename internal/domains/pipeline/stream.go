package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
	"github.com/xpanvictor/omniscribe/pkg/Logger"
	"github.com/xpanvictor/omniscribe/pkg/io/sse"
)

// ErrMalformedEvent marks a stream block that could not be decoded. Readers
// drop the block and keep going.
var ErrMalformedEvent = errors.New("malformed progress event")

// Drain writes every event of a sequence to enc until the sequence closes
// or ctx ends. It returns the first write error; the remaining events are
// still drained so the producer can finish.
func Drain(ctx context.Context, events <-chan Event, enc *sse.Encoder) error {
	var writeErr error
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return writeErr
			}
			if writeErr != nil {
				continue
			}
			writeErr = enc.Encode(string(ev.Type), ev.Data())
		}
	}
}

// DecodeEvent turns a raw frame back into an Event.
func DecodeEvent(f sse.Frame) (Event, error) {
	if !json.Valid(f.Data) {
		return Event{}, fmt.Errorf("%w: %s payload is not JSON", ErrMalformedEvent, f.Event)
	}
	switch EventType(f.Event) {
	case EventProgress:
		var p Progress
		if err := json.Unmarshal(f.Data, &p); err != nil || p.Step == "" {
			return Event{}, fmt.Errorf("%w: progress without step", ErrMalformedEvent)
		}
		return Event{Type: EventProgress, Progress: &p}, nil

	case EventResult:
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(f.Data, &fields); err != nil {
			return Event{}, fmt.Errorf("%w: result is not an object", ErrMalformedEvent)
		}
		if _, ok := fields["results"]; ok {
			var b BatchResult
			if err := json.Unmarshal(f.Data, &b); err != nil {
				return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
			}
			return Event{Type: EventResult, Batch: &b}, nil
		}
		var t transcript.Transcript
		if err := json.Unmarshal(f.Data, &t); err != nil {
			return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		return Event{Type: EventResult, Transcript: &t}, nil

	case EventError:
		var p ErrorPayload
		if err := json.Unmarshal(f.Data, &p); err != nil {
			return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		var err error = errors.New(p.Message)
		if p.Kind != "" {
			err = transcript.NewJobError(p.Kind, err)
		}
		return Event{Type: EventError, Err: err}, nil
	}
	return Event{}, fmt.Errorf("%w: unknown event type %q", ErrMalformedEvent, f.Event)
}

// Consume reads a progress stream and hands each decodable event to
// handle. Malformed blocks are logged and skipped. It stops after the
// first terminal event, at end of stream, or when handle fails.
func Consume(r io.Reader, logger *Logger.Logger, handle func(Event) error) error {
	dec := sse.NewDecoder(r)
	for {
		frame, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("progress stream ended early: %w", err)
		}

		ev, err := DecodeEvent(frame)
		if err != nil {
			logger.Warnf("dropping event: %v (%s)", err, truncate(frame.Data, 120))
			continue
		}
		if err := handle(ev); err != nil {
			return err
		}
		if ev.Terminal() {
			return nil
		}
	}
}

func truncate(b []byte, n int) string {
	b = bytes.TrimSpace(b)
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
