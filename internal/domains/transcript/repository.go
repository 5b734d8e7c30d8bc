package transcript

import (
	"context"
	"encoding/hex"

	"lukechampine.com/blake3"
)

// Repository is the relational store for transcripts and their segments.
// Every call is scoped by an opaque session or user key.
type Repository interface {
	// Put upserts the transcript and replaces its segment rows.
	Put(ctx context.Context, t *Transcript, scopeKey string) (*Transcript, error)

	Get(ctx context.Context, id, scopeKey string) (*Transcript, error)

	// List returns headers newest first.
	List(ctx context.Context, scopeKey string) ([]Summary, error)

	Delete(ctx context.Context, id, scopeKey string) error
}

// Blob is an audio object as held by the blob store.
type Blob struct {
	Key      string
	Data     []byte
	MimeType string
	FileName string
	Hash     string
}

// AudioStore holds original audio bytes keyed by transcript id.
type AudioStore interface {
	// Put is an idempotent upsert and returns the key it stored under.
	Put(ctx context.Context, blob Blob) (string, error)
	Get(ctx context.Context, key string) (*Blob, error)
	Delete(ctx context.Context, key string) error
}

// AudioKey builds the blob key for a transcript's audio.
func AudioKey(id, fileName, mimeType string) string {
	return "audio/" + id + ExtensionFor(fileName, mimeType)
}

// HashAudio is the hex blake3-256 digest of the audio bytes.
func HashAudio(data []byte) string {
	h := blake3.New(32, nil)
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
