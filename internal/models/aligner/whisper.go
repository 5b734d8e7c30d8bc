package aligner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xpanvictor/omniscribe/internal/config"
	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
	"github.com/xpanvictor/omniscribe/pkg/Logger"
)

// WhisperASRAligner talks to a self-hosted whisper-asr-webservice and
// flattens the per-segment word timings it returns.
type WhisperASRAligner struct {
	baseURL    string
	httpClient *http.Client
	logger     *Logger.Logger
}

func NewWhisperASRAligner(cfg config.AlignmentConfig, logger *Logger.Logger) *WhisperASRAligner {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &WhisperASRAligner{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (w *WhisperASRAligner) Align(ctx context.Context, in transcript.AudioInput) ([]transcript.AlignmentToken, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	name := in.FileName
	if name == "" {
		name = "audio" + transcript.ExtensionFor("", in.MimeType)
	}
	part, err := writer.CreateFormFile("audio_file", name)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(in.Data); err != nil {
		return nil, fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	q := url.Values{}
	q.Set("encode", "true")
	q.Set("task", "transcribe")
	q.Set("output", "json")
	q.Set("word_timestamps", "true")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/asr?"+q.Encode(), &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		w.logger.Errorf("Whisper service error (status %d): %s", resp.StatusCode, string(responseBody))
		return nil, fmt.Errorf("whisper service returned status %d", resp.StatusCode)
	}
	if len(responseBody) == 0 {
		return nil, fmt.Errorf("whisper service returned empty response")
	}

	tokens, err := decodeTokens(responseBody)
	if err != nil {
		return nil, err
	}
	w.logger.Debugf("Whisper alignment for %s: %d tokens", in.FileName, len(tokens))
	return tokens, nil
}
