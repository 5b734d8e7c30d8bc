package app

import (
	"context"
	"fmt"

	"github.com/xpanvictor/omniscribe/internal/config"
	"github.com/xpanvictor/omniscribe/internal/domains/pipeline"
	"github.com/xpanvictor/omniscribe/internal/models/aligner"
	"github.com/xpanvictor/omniscribe/internal/models/transcriber"
	"github.com/xpanvictor/omniscribe/pkg/Logger"
)

// ProviderFactory builds the external speech services from settings.
type ProviderFactory struct {
	config *config.Settings
	logger *Logger.Logger
}

func NewProviderFactory(cfg *config.Settings, logger *Logger.Logger) *ProviderFactory {
	return &ProviderFactory{config: cfg, logger: logger}
}

// CreateTranscriber builds the primary service. It is mandatory.
func (f *ProviderFactory) CreateTranscriber(ctx context.Context) (*transcriber.GeminiTranscriber, error) {
	t, err := transcriber.NewGeminiTranscriber(ctx, f.config.Gemini, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini transcriber: %w", err)
	}
	f.logger.Infof("primary transcriber ready (model %s)", modelOr(f.config.Gemini.Model, transcriber.DefaultModel))
	return t, nil
}

// CreateAligner builds the alignment service, or returns nil when the
// provider is none or lacks credentials. The nil is untyped so the
// sequencer sees a nil interface and skips the stage.
func (f *ProviderFactory) CreateAligner() (pipeline.Aligner, error) {
	cfg := f.config.Alignment
	if !cfg.Configured() {
		f.logger.Infof("alignment disabled (provider %q)", cfg.Provider)
		return nil, nil
	}

	switch cfg.Provider {
	case "openai":
		a, err := aligner.NewOpenAIAligner(cfg, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI aligner: %w", err)
		}
		f.logger.Infof("alignment via OpenAI-compatible API at %s (model %s)", cfg.BaseURL, modelOr(cfg.Model, aligner.DefaultOpenAIModel))
		return a, nil
	case "whisper_asr":
		f.logger.Infof("alignment via whisper ASR at %s", cfg.BaseURL)
		return aligner.NewWhisperASRAligner(cfg, f.logger), nil
	}
	return nil, fmt.Errorf("unknown alignment provider %q", cfg.Provider)
}

func modelOr(model, fallback string) string {
	if model == "" {
		return fallback
	}
	return model
}
