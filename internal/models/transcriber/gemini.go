package transcriber

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/xpanvictor/omniscribe/internal/config"
	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
	"github.com/xpanvictor/omniscribe/pkg/Logger"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-3-flash-preview"

var ErrEmptyResponse = errors.New("empty response received")

// GeminiTranscriber sends the whole file inline to Gemini and asks for a
// schema-constrained transcript.
type GeminiTranscriber struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *Logger.Logger
}

func NewGeminiTranscriber(ctx context.Context, cfg config.GeminiConfig, logger *Logger.Logger) (*GeminiTranscriber, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultModel
	}
	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = responseSchema()
	if cfg.Temperature > 0 {
		model.SetTemperature(cfg.Temperature)
	}

	return &GeminiTranscriber{client: client, model: model, logger: logger}, nil
}

func (g *GeminiTranscriber) Transcribe(ctx context.Context, in transcript.AudioInput, hints transcript.Hints) (*transcript.Draft, error) {
	mime := in.MimeType
	if mime == "" {
		mime = transcript.MimeTypeFor(in.FileName)
	}
	prompt := BuildPrompt(hints)
	g.logger.Debugw("gemini transcription request", "file_name", in.FileName, "bytes", len(in.Data), "mime", mime)

	resp, err := g.model.GenerateContent(ctx,
		genai.Blob{MIMEType: mime, Data: in.Data},
		genai.Text(prompt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates received")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	if text == "" {
		return nil, ErrEmptyResponse
	}

	draft, err := ParseResponse(text)
	if err != nil {
		g.logger.Warnw("unusable gemini response", "file_name", in.FileName, "error", err)
		return nil, err
	}
	g.logger.Debugw("gemini transcription parsed", "file_name", in.FileName, "segments", len(draft.Segments))
	return draft, nil
}

func (g *GeminiTranscriber) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
