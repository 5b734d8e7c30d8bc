package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
)

type fakeTranscriber struct {
	mu        sync.Mutex
	calls     int
	completed []string

	inflight    atomic.Int32
	maxInflight atomic.Int32

	delays   map[string]time.Duration
	failures map[string]error
	draft    func(in transcript.AudioInput) *transcript.Draft
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, in transcript.AudioInput, _ transcript.Hints) (*transcript.Draft, error) {
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		old := f.maxInflight.Load()
		if n <= old || f.maxInflight.CompareAndSwap(old, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if d := f.delays[in.FileName]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	f.completed = append(f.completed, in.FileName)
	f.mu.Unlock()

	if err := f.failures[in.FileName]; err != nil {
		return nil, err
	}
	if f.draft != nil {
		return f.draft(in), nil
	}
	summary := "summary of " + in.FileName
	return &transcript.Draft{
		Summary: &summary,
		Segments: []transcript.Segment{
			{Speaker: "Speaker 1", Start: 0, End: 5, Text: in.FileName + " one", Emotion: "happy",
				Languages: []transcript.Language{{Name: "English", Code: "en"}}},
			{Speaker: "Speaker 2", Start: 5, End: 10, Text: in.FileName + " two"},
		},
	}, nil
}

func (f *fakeTranscriber) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeAligner struct {
	tokens []transcript.AlignmentToken
	err    error
	calls  atomic.Int32
}

func (f *fakeAligner) Align(context.Context, transcript.AudioInput) ([]transcript.AlignmentToken, error) {
	f.calls.Add(1)
	return f.tokens, f.err
}

type fakeRepo struct {
	mu   sync.Mutex
	puts map[string]transcript.Transcript
	err  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{puts: map[string]transcript.Transcript{}}
}

func (f *fakeRepo) Put(_ context.Context, t *transcript.Transcript, scopeKey string) (*transcript.Transcript, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts[scopeKey+"/"+t.ID] = *t
	return t, nil
}

func (f *fakeRepo) Get(_ context.Context, id, scopeKey string) (*transcript.Transcript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.puts[scopeKey+"/"+id]
	if !ok {
		return nil, transcript.ErrTranscriptNotFound
	}
	return &t, nil
}

func (f *fakeRepo) List(context.Context, string) ([]transcript.Summary, error) {
	return nil, nil
}

func (f *fakeRepo) Delete(context.Context, string, string) error {
	return nil
}

type fakeAudio struct {
	mu    sync.Mutex
	blobs map[string]transcript.Blob
	err   error
}

func (f *fakeAudio) Put(_ context.Context, b transcript.Blob) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blobs == nil {
		f.blobs = map[string]transcript.Blob{}
	}
	f.blobs[b.Key] = b
	return b.Key, nil
}

func (f *fakeAudio) Get(_ context.Context, key string) (*transcript.Blob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.blobs[key]
	if !ok {
		return nil, transcript.ErrAudioNotFound
	}
	return &b, nil
}

func (f *fakeAudio) Delete(context.Context, string) error {
	return nil
}

var errNetwork = errors.New("connection reset by peer")

func audio(name string, size int) transcript.AudioInput {
	return transcript.AudioInput{Data: make([]byte, size), FileName: name}
}

func sequentialIDs() func() string {
	var n atomic.Int32
	return func() string { return fmt.Sprintf("id-%d", n.Add(1)) }
}

func collect(ch <-chan Event) []Event {
	var out []Event
	for ev := range ch {
		out = append(out, ev)
	}
	return out
}

func steps(events []Event) []Step {
	var out []Step
	for _, ev := range events {
		if ev.Type == EventProgress {
			out = append(out, ev.Progress.Step)
		}
	}
	return out
}
