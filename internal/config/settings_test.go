package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	s, err := LoadFrom(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", s.Server.Addr)
	assert.Equal(t, "gemini-3-flash-preview", s.Gemini.Model)
	assert.InDelta(t, 0.1, s.Gemini.Temperature, 1e-6)
	assert.Equal(t, int64(MaxUploadBytes), s.Pipeline.MaxUploadBytes)
	assert.Equal(t, 3, s.Pipeline.BatchConcurrency)
	assert.Equal(t, "refine", s.Pipeline.ReconcilePolicy)
	assert.Equal(t, 2*time.Minute, s.Alignment.Timeout)
	assert.False(t, s.Alignment.Configured(), "no key, no alignment")
	assert.False(t, s.DB.Enabled())
}

func TestLoadReadsYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  addr: ":9000"
database:
  driver: sqlite
  path: /tmp/x.db
redis:
  addr: localhost:6379
  audio_ttl: 48h
alignment:
  provider: whisper_asr
  base_url: http://asr:9000
pipeline:
  batch_concurrency: 0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config_dev.yaml"), []byte(yaml), 0o600))
	t.Setenv("OMNISCRIBE_GEMINI_API_KEY", "from-env")

	s, err := LoadFrom(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, ":9000", s.Server.Addr)
	assert.Equal(t, "/tmp/x.db", s.DB.DSN())
	assert.True(t, s.DB.Enabled())
	assert.Equal(t, 48*time.Hour, s.Redis.AudioTTL)
	assert.True(t, s.Alignment.Configured())
	assert.Equal(t, "from-env", s.Gemini.APIKey)
	assert.Equal(t, 3, s.Pipeline.BatchConcurrency, "non-positive falls back")
}

func TestMySQLDSN(t *testing.T) {
	d := DBConfig{Driver: "mysql", Host: "db", Port: 3306, Username: "u", Password: "p", Name: "scribe"}
	assert.Equal(t, "u:p@tcp(db:3306)/scribe?charset=utf8mb4&parseTime=True&loc=UTC", d.DSN())
}

func TestAlignmentConfigured(t *testing.T) {
	assert.True(t, AlignmentConfig{Provider: "openai", APIKey: "k"}.Configured())
	assert.False(t, AlignmentConfig{Provider: "openai"}.Configured())
	assert.False(t, AlignmentConfig{Provider: "none", APIKey: "k"}.Configured())
}
