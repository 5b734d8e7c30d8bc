package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
	"github.com/xpanvictor/omniscribe/pkg/Logger"
)

// HistoryHandler serves stored transcripts and their audio
type HistoryHandler struct {
	history transcript.Service
	logger  *Logger.Logger
}

func NewHistoryHandler(history transcript.Service, logger *Logger.Logger) *HistoryHandler {
	return &HistoryHandler{history: history, logger: logger}
}

func (h *HistoryHandler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, transcript.ErrTranscriptNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Transcript not found"})
	case errors.Is(err, transcript.ErrAudioNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Audio not found"})
	case errors.Is(err, transcript.ErrInvalidTranscript):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid transcript", Details: err.Error()})
	case errors.Is(err, transcript.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "History storage is not configured"})
	default:
		h.logger.Errorf("%s error: %v", op, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// ListTranscripts lists the caller's stored transcripts
// @Summary List transcripts
// @Description Newest first, without segment bodies
// @Tags History
// @Produce json
// @Param X-Session-Key header string false "Session scope when accounts are disabled"
// @Success 200 {object} ListTranscriptsResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/history [get]
func (h *HistoryHandler) ListTranscripts(c *gin.Context) {
	items, err := h.history.List(c.Request.Context(), ScopeKey(c))
	if err != nil {
		h.fail(c, "list transcripts", err)
		return
	}
	c.JSON(http.StatusOK, ListTranscriptsResponse{Transcripts: items})
}

// GetTranscript returns one stored transcript
// @Summary Get transcript
// @Tags History
// @Produce json
// @Param id path string true "Transcript ID"
// @Success 200 {object} TranscriptResponse
// @Failure 404 {object} ErrorResponse "Transcript not found"
// @Failure 503 {object} ErrorResponse "History storage is not configured"
// @Router /api/history/{id} [get]
func (h *HistoryHandler) GetTranscript(c *gin.Context) {
	t, err := h.history.Get(c.Request.Context(), c.Param("id"), ScopeKey(c))
	if err != nil {
		h.fail(c, "get transcript", err)
		return
	}
	c.JSON(http.StatusOK, TranscriptResponse{Transcript: *t})
}

// UpdateTranscript applies a user edit
// @Summary Edit transcript
// @Description Rename, replace the summary or replace segments
// @Tags History
// @Accept json
// @Produce json
// @Param id path string true "Transcript ID"
// @Param request body transcript.UpdateRequest true "Fields to change"
// @Success 200 {object} UpdateTranscriptResponse
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 404 {object} ErrorResponse "Transcript not found"
// @Router /api/history/{id} [put]
func (h *HistoryHandler) UpdateTranscript(c *gin.Context) {
	var req transcript.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Details: err.Error()})
		return
	}
	t, err := h.history.Update(c.Request.Context(), c.Param("id"), ScopeKey(c), req)
	if err != nil {
		h.fail(c, "update transcript", err)
		return
	}
	c.JSON(http.StatusOK, UpdateTranscriptResponse{Message: "Transcript updated successfully", Transcript: *t})
}

// DeleteTranscript removes a transcript and its audio
// @Summary Delete transcript
// @Tags History
// @Produce json
// @Param id path string true "Transcript ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse "Transcript not found"
// @Router /api/history/{id} [delete]
func (h *HistoryHandler) DeleteTranscript(c *gin.Context) {
	if err := h.history.Delete(c.Request.Context(), c.Param("id"), ScopeKey(c)); err != nil {
		h.fail(c, "delete transcript", err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Transcript deleted successfully"})
}

// GetAudio streams back the original upload
// @Summary Get transcript audio
// @Tags History
// @Produce octet-stream
// @Param id path string true "Transcript ID"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse "Audio not found"
// @Failure 503 {object} ErrorResponse "Audio storage is not configured"
// @Router /api/audio/{id} [get]
func (h *HistoryHandler) GetAudio(c *gin.Context) {
	blob, err := h.history.Audio(c.Request.Context(), c.Param("id"), ScopeKey(c))
	if err != nil {
		h.fail(c, "get audio", err)
		return
	}
	mime := blob.MimeType
	if mime == "" {
		mime = transcript.MimeTypeFor(blob.FileName)
	}
	if blob.FileName != "" {
		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", blob.FileName))
	}
	if blob.Hash != "" {
		c.Header("ETag", `"`+blob.Hash+`"`)
	}
	c.Data(http.StatusOK, mime, blob.Data)
}
