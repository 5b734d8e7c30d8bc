package audio

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
)

func newTestStore(t *testing.T, ttl time.Duration) (transcript.AudioStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })
	return NewRedisAudioStore(rc, ttl), mr
}

func TestPutGetDelete(t *testing.T) {
	store, mr := newTestStore(t, 0)
	ctx := context.Background()
	data := []byte{0x00, 0xff, 'R', 'I', 'F', 'F', 0x00}

	key, err := store.Put(ctx, transcript.Blob{Key: "audio/t1.wav", Data: data, MimeType: "audio/wav", FileName: "t1.wav"})
	require.NoError(t, err)
	assert.Equal(t, "audio/t1.wav", key)
	assert.True(t, mr.Exists("omniscribe:audio/t1.wav"))

	blob, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, data, blob.Data, "binary data survives")
	assert.Equal(t, "audio/wav", blob.MimeType)
	assert.Equal(t, "t1.wav", blob.FileName)
	assert.Equal(t, transcript.HashAudio(data), blob.Hash)

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, transcript.ErrAudioNotFound)
	assert.ErrorIs(t, store.Delete(ctx, key), transcript.ErrAudioNotFound)
}

func TestPutIsIdempotentUpsert(t *testing.T) {
	store, _ := newTestStore(t, 0)
	ctx := context.Background()

	_, err := store.Put(ctx, transcript.Blob{Key: "k", Data: []byte("one"), MimeType: "audio/wav", FileName: "a.wav"})
	require.NoError(t, err)
	_, err = store.Put(ctx, transcript.Blob{Key: "k", Data: []byte("two"), MimeType: "audio/mpeg"})
	require.NoError(t, err)

	blob, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), blob.Data)
	assert.Equal(t, "audio/mpeg", blob.MimeType)
	assert.Empty(t, blob.FileName, "stale fields are cleared")
}

func TestPutAppliesTTL(t *testing.T) {
	store, mr := newTestStore(t, time.Hour)
	_, err := store.Put(context.Background(), transcript.Blob{Key: "k", Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL("omniscribe:k"))

	mr.FastForward(2 * time.Hour)
	_, err = store.Get(context.Background(), "k")
	assert.ErrorIs(t, err, transcript.ErrAudioNotFound)
}

func TestPutRequiresKey(t *testing.T) {
	store, _ := newTestStore(t, 0)
	_, err := store.Put(context.Background(), transcript.Blob{Data: []byte("x")})
	assert.Error(t, err)
}

func TestUnavailableServer(t *testing.T) {
	store, mr := newTestStore(t, 0)
	mr.Close()
	_, err := store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, transcript.ErrAudioNotFound)
}
