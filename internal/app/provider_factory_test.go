package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/omniscribe/internal/config"
	"github.com/xpanvictor/omniscribe/internal/models/aligner"
	"github.com/xpanvictor/omniscribe/pkg/Logger"
)

func TestCreateAligner(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.AlignmentConfig
		want any
	}{
		{"none", config.AlignmentConfig{Provider: "none"}, nil},
		{"openai without key", config.AlignmentConfig{Provider: "openai"}, nil},
		{"openai", config.AlignmentConfig{Provider: "openai", APIKey: "k", BaseURL: "http://localhost:1/v1/"}, &aligner.OpenAIAligner{}},
		{"whisper", config.AlignmentConfig{Provider: "whisper_asr", BaseURL: "http://whisper:9000"}, &aligner.WhisperASRAligner{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := NewProviderFactory(&config.Settings{Alignment: tc.cfg}, Logger.Nop())
			a, err := f.CreateAligner()
			require.NoError(t, err)
			if tc.want == nil {
				assert.Nil(t, a)
				return
			}
			assert.IsType(t, tc.want, a)
		})
	}
}

func TestCreateTranscriberNeedsKey(t *testing.T) {
	f := NewProviderFactory(&config.Settings{}, Logger.Nop())
	_, err := f.CreateTranscriber(context.Background())
	assert.Error(t, err)
}

func TestNewAppWithoutStores(t *testing.T) {
	cfg := &config.Settings{
		Gemini:    config.GeminiConfig{APIKey: "test-key"},
		Alignment: config.AlignmentConfig{Provider: "none"},
		Pipeline:  config.PipelineConfig{MaxUploadBytes: 1024, BatchConcurrency: 3, ReconcilePolicy: "attach"},
	}
	a, err := NewApp(context.Background(), cfg, Logger.Nop(), nil, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Aligner)
	assert.Nil(t, a.TranscriptRepo)
	assert.Nil(t, a.AudioStore)
	assert.NotNil(t, a.Sequencer)
	assert.NotNil(t, a.Controller)
	assert.False(t, a.ServerDeps.AuthEnabled())
}

func TestNewAppRejectsUnknownPolicy(t *testing.T) {
	cfg := &config.Settings{
		Gemini:   config.GeminiConfig{APIKey: "test-key"},
		Pipeline: config.PipelineConfig{ReconcilePolicy: "stretch"},
	}
	_, err := NewApp(context.Background(), cfg, Logger.Nop(), nil, nil)
	assert.Error(t, err)
}
