package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/omniscribe/internal/domains/pipeline"
	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
	"github.com/xpanvictor/omniscribe/pkg/Logger"
	"github.com/xpanvictor/omniscribe/pkg/io/sse"
)

// JobRunner runs one file. *pipeline.Sequencer satisfies it.
type JobRunner interface {
	Run(ctx context.Context, job pipeline.Job) <-chan pipeline.Event
	Execute(ctx context.Context, job pipeline.Job, emit func(pipeline.Event)) (*transcript.Transcript, error)
}

// BatchRunner runs many files. *pipeline.Controller satisfies it.
type BatchRunner interface {
	Run(ctx context.Context, jobs []pipeline.Job) <-chan pipeline.Event
}

type TranscribeHandler struct {
	jobs      JobRunner
	batch     BatchRunner
	maxUpload int64
	logger    *Logger.Logger
}

func NewTranscribeHandler(jobs JobRunner, batch BatchRunner, maxUpload int64, logger *Logger.Logger) *TranscribeHandler {
	return &TranscribeHandler{jobs: jobs, batch: batch, maxUpload: maxUpload, logger: logger}
}

// readUpload reads at most one byte past the ceiling, which is enough for
// the sequencer to reject an oversized file without buffering all of it.
func (h *TranscribeHandler) readUpload(fh *multipart.FileHeader) (transcript.AudioInput, error) {
	f, err := fh.Open()
	if err != nil {
		return transcript.AudioInput{}, err
	}
	defer f.Close()

	var r io.Reader = f
	if h.maxUpload > 0 {
		r = io.LimitReader(f, h.maxUpload+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return transcript.AudioInput{}, err
	}
	mime := transcript.MimeTypeFor(fh.Filename)
	return transcript.AudioInput{Data: data, FileName: fh.Filename, MimeType: mime}, nil
}

func bindHints(c *gin.Context) (transcript.Hints, error) {
	var hints transcript.Hints
	if err := c.ShouldBind(&hints); err != nil {
		return hints, err
	}
	if hints.SpeakerCount < 0 {
		hints.SpeakerCount = 0
	}
	return hints, nil
}

func startStream(c *gin.Context) *sse.Encoder {
	c.Header("Content-Type", sse.ContentType)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()
	return sse.NewEncoder(c.Writer)
}

// TranscribeStream handles a single-file streamed transcription
// @Summary Transcribe one file with progress events
// @Description Streams progress events, then one result or error event
// @Tags Transcription
// @Accept multipart/form-data
// @Produce text/event-stream
// @Param file formData file true "Audio file"
// @Param language formData string false "Language hint"
// @Param speaker_count formData int false "Expected speaker count"
// @Param orthography formData string false "Orthography hint"
// @Success 200 {string} string "event stream"
// @Failure 400 {object} ErrorResponse "Missing file"
// @Router /api/transcribe-stream [post]
func (h *TranscribeHandler) TranscribeStream(c *gin.Context) {
	job, ok := h.singleJob(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	enc := startStream(c)
	if err := pipeline.Drain(ctx, h.jobs.Run(ctx, job), enc); err != nil {
		h.logger.Warnf("stream for %s ended early: %v", job.Input.FileName, err)
	}
}

// TranscribeBatchStream handles a multi-file streamed transcription
// @Summary Transcribe many files with progress events
// @Description Runs up to three files at a time; progress events carry file metadata and the final result lists successes in upload order
// @Tags Transcription
// @Accept multipart/form-data
// @Produce text/event-stream
// @Param files formData file true "Audio files"
// @Param language formData string false "Language hint"
// @Param speaker_count formData int false "Expected speaker count"
// @Param orthography formData string false "Orthography hint"
// @Success 200 {string} string "event stream"
// @Failure 400 {object} ErrorResponse "Missing files"
// @Router /api/transcribe-batch-stream [post]
func (h *TranscribeHandler) TranscribeBatchStream(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No files uploaded"})
		return
	}
	hints, err := bindHints(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid hints", Details: err.Error()})
		return
	}

	scope := ScopeKey(c)
	jobs := make([]pipeline.Job, 0, len(form.File["files"]))
	for _, fh := range form.File["files"] {
		in, err := h.readUpload(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unreadable upload", Details: fmt.Sprintf("%s: %v", fh.Filename, err)})
			return
		}
		jobs = append(jobs, pipeline.Job{Input: in, Hints: hints, ScopeKey: scope})
	}

	ctx := c.Request.Context()
	enc := startStream(c)
	if err := pipeline.Drain(ctx, h.batch.Run(ctx, jobs), enc); err != nil {
		h.logger.Warnf("batch stream of %d files ended early: %v", len(jobs), err)
	}
}

// Transcribe handles a synchronous single-file transcription
// @Summary Transcribe one file
// @Description Runs the whole pipeline and returns the stored transcript
// @Tags Transcription
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Audio file"
// @Param language formData string false "Language hint"
// @Param speaker_count formData int false "Expected speaker count"
// @Param orthography formData string false "Orthography hint"
// @Success 200 {object} transcript.Transcript
// @Failure 400 {object} ErrorResponse "Missing file"
// @Failure 413 {object} ErrorResponse "File too large"
// @Failure 502 {object} ErrorResponse "Transcription service failed"
// @Failure 500 {object} ErrorResponse "Transcript could not be stored"
// @Router /api/transcribe [post]
func (h *TranscribeHandler) Transcribe(c *gin.Context) {
	job, ok := h.singleJob(c)
	if !ok {
		return
	}
	result, err := h.jobs.Execute(c.Request.Context(), job, func(pipeline.Event) {})
	if err != nil {
		kind := transcript.KindOf(err)
		resp := ErrorResponse{Error: "Transcription failed", Details: unwrapJobError(err), Kind: string(kind)}
		switch kind {
		case transcript.KindInputTooLarge:
			resp.Error = "File too large"
			c.JSON(http.StatusRequestEntityTooLarge, resp)
		case transcript.KindPrimaryService:
			c.JSON(http.StatusBadGateway, resp)
		default:
			h.logger.Errorf("transcription of %s failed: %v", job.Input.FileName, err)
			c.JSON(http.StatusInternalServerError, resp)
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *TranscribeHandler) singleJob(c *gin.Context) (pipeline.Job, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No file uploaded"})
		return pipeline.Job{}, false
	}
	hints, err := bindHints(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid hints", Details: err.Error()})
		return pipeline.Job{}, false
	}
	in, err := h.readUpload(fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unreadable upload", Details: err.Error()})
		return pipeline.Job{}, false
	}
	return pipeline.Job{Input: in, Hints: hints, ScopeKey: ScopeKey(c)}, true
}

func unwrapJobError(err error) string {
	var je *transcript.JobError
	if errors.As(err, &je) && je.Err != nil {
		return je.Err.Error()
	}
	return err.Error()
}
