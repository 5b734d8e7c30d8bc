package transcript

import (
	"errors"
	"fmt"
)

var (
	ErrTranscriptNotFound = errors.New("transcript not found")
	ErrAudioNotFound      = errors.New("audio not found")
	ErrInvalidTranscript  = errors.New("invalid transcript")
	ErrInputTooLarge      = errors.New("audio input exceeds size limit")
	ErrStoreUnavailable   = errors.New("no store configured")
)

// Kind classifies why a job, or one of its stages, failed.
type Kind string

const (
	KindInputTooLarge    Kind = "input_too_large"
	KindPrimaryService   Kind = "primary_service"
	KindAlignmentService Kind = "alignment_service"
	KindPersistence      Kind = "persistence"
)

// Fatal reports whether an error of this kind ends the job.
func (k Kind) Fatal() bool {
	return k != KindAlignmentService
}

type JobError struct {
	Kind Kind
	Err  error
}

func NewJobError(kind Kind, err error) *JobError {
	return &JobError{Kind: kind, Err: err}
}

func (e *JobError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// KindOf extracts the job error kind, or "" when err is not a *JobError.
func KindOf(err error) Kind {
	var je *JobError
	if errors.As(err, &je) {
		return je.Kind
	}
	return ""
}
