package audio

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
)

const keyPrefix = "omniscribe:"

const (
	fieldData     = "data"
	fieldMime     = "mime_type"
	fieldFileName = "file_name"
	fieldHash     = "hash"
)

// RedisAudioStore keeps each blob as one hash: the raw bytes plus the
// metadata needed to serve it back.
type RedisAudioStore struct {
	rc  *redis.Client
	ttl time.Duration
}

func blobKey(key string) string {
	return keyPrefix + key
}

// Put implements transcript.AudioStore
func (s *RedisAudioStore) Put(ctx context.Context, blob transcript.Blob) (string, error) {
	if blob.Key == "" {
		return "", fmt.Errorf("audio blob has no key")
	}
	if blob.Hash == "" {
		blob.Hash = transcript.HashAudio(blob.Data)
	}
	rc := s.rc.WithContext(ctx)
	k := blobKey(blob.Key)

	pipe := rc.TxPipeline()
	pipe.Del(k)
	pipe.HMSet(k, map[string]interface{}{
		fieldData:     blob.Data,
		fieldMime:     blob.MimeType,
		fieldFileName: blob.FileName,
		fieldHash:     blob.Hash,
	})
	if s.ttl > 0 {
		pipe.Expire(k, s.ttl)
	}
	if _, err := pipe.Exec(); err != nil {
		return "", fmt.Errorf("failed to store audio %s: %w", blob.Key, err)
	}
	return blob.Key, nil
}

// Get implements transcript.AudioStore
func (s *RedisAudioStore) Get(ctx context.Context, key string) (*transcript.Blob, error) {
	fields, err := s.rc.WithContext(ctx).HGetAll(blobKey(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load audio %s: %w", key, err)
	}
	data, ok := fields[fieldData]
	if !ok {
		return nil, transcript.ErrAudioNotFound
	}
	return &transcript.Blob{
		Key:      key,
		Data:     []byte(data),
		MimeType: fields[fieldMime],
		FileName: fields[fieldFileName],
		Hash:     fields[fieldHash],
	}, nil
}

// Delete implements transcript.AudioStore
func (s *RedisAudioStore) Delete(ctx context.Context, key string) error {
	n, err := s.rc.WithContext(ctx).Del(blobKey(key)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete audio %s: %w", key, err)
	}
	if n == 0 {
		return transcript.ErrAudioNotFound
	}
	return nil
}

// NewRedisAudioStore returns a blob store on rc. A zero ttl keeps blobs
// until their transcript is deleted.
func NewRedisAudioStore(rc *redis.Client, ttl time.Duration) transcript.AudioStore {
	return &RedisAudioStore{rc: rc, ttl: ttl}
}
