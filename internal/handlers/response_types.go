package handlers

import (
	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
	"github.com/xpanvictor/omniscribe/internal/domains/user"
)

// Response wrapper types for Swagger documentation

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message" example:"Operation completed successfully"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Something went wrong"`
	Details string `json:"details,omitempty" example:"Validation error details"`
	Kind    string `json:"kind,omitempty" example:"primary_service"`
}

// MeResponse is the identity carried by a bearer token
type MeResponse struct {
	User user.Account `json:"user"`
}

// TranscriptResponse wraps one stored transcript
type TranscriptResponse struct {
	Transcript transcript.Transcript `json:"transcript"`
}

// UpdateTranscriptResponse represents the response for a transcript edit
type UpdateTranscriptResponse struct {
	Message    string                `json:"message" example:"Transcript updated successfully"`
	Transcript transcript.Transcript `json:"transcript"`
}

// ListTranscriptsResponse represents the history listing
type ListTranscriptsResponse struct {
	Transcripts []transcript.Summary `json:"transcripts"`
}
