package aligner

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/xpanvictor/omniscribe/internal/config"
	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
	"github.com/xpanvictor/omniscribe/pkg/Logger"
)

const DefaultOpenAIModel = "whisper-large-v3-turbo"

// OpenAIAligner requests word timestamps from any OpenAI-compatible
// transcription endpoint (Groq by default).
type OpenAIAligner struct {
	client openai.Client
	model  string
	logger *Logger.Logger
}

func NewOpenAIAligner(cfg config.AlignmentConfig, logger *Logger.Logger, opts ...option.RequestOption) (*OpenAIAligner, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("alignment api key is not configured")
	}
	base := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		base = append(base, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		base = append(base, option.WithRequestTimeout(cfg.Timeout))
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIAligner{
		client: openai.NewClient(append(base, opts...)...),
		model:  model,
		logger: logger,
	}, nil
}

func (a *OpenAIAligner) Align(ctx context.Context, in transcript.AudioInput) ([]transcript.AlignmentToken, error) {
	mime := in.MimeType
	if mime == "" {
		mime = transcript.MimeTypeFor(in.FileName)
	}
	res, err := a.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:                   openai.File(bytes.NewReader(in.Data), in.FileName, mime),
		Model:                  openai.AudioModel(a.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"word"},
	})
	if err != nil {
		return nil, fmt.Errorf("alignment request failed: %w", err)
	}

	tokens, err := decodeTokens([]byte(res.RawJSON()))
	if err != nil {
		return nil, err
	}
	a.logger.Debugw("alignment tokens received", "file_name", in.FileName, "tokens", len(tokens))
	return tokens, nil
}
