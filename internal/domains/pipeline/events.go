package pipeline

import (
	"errors"

	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
)

// Step is a job state as seen by a progress reader.
type Step string

const (
	StepUploading    Step = "uploading"
	StepTranscribing Step = "transcribing"
	StepAligning     Step = "aligning"
	StepProcessing   Step = "processing"
	StepDone         Step = "done"
	StepFailed       Step = "failed"
)

// Index maps a step onto the four-slot progress bar. Aligning and
// processing share slot 2.
func (s Step) Index() int {
	switch s {
	case StepUploading:
		return 0
	case StepTranscribing:
		return 1
	case StepAligning, StepProcessing:
		return 2
	case StepDone:
		return 3
	}
	return -1
}

type EventType string

const (
	EventProgress EventType = "progress"
	EventResult   EventType = "result"
	EventError    EventType = "error"
)

// FileMeta attributes a batch event to one of its inputs.
type FileMeta struct {
	FileName  string `json:"file_name"`
	FileIndex int    `json:"file_index"`
	FileCount int    `json:"file_count"`
}

type Progress struct {
	Step  Step `json:"step"`
	Index int  `json:"index"`
	*FileMeta
}

type ErrorPayload struct {
	Message string          `json:"message"`
	Kind    transcript.Kind `json:"kind,omitempty"`
}

type BatchResult struct {
	Results []transcript.Transcript `json:"results"`
}

// Event is one record of a job's stream. Exactly one of the payload
// fields is set, matching Type.
type Event struct {
	Type       EventType
	Progress   *Progress
	Transcript *transcript.Transcript
	Batch      *BatchResult
	Err        error
}

func ProgressEvent(step Step, meta *FileMeta) Event {
	return Event{Type: EventProgress, Progress: &Progress{Step: step, Index: step.Index(), FileMeta: meta}}
}

func ResultEvent(t *transcript.Transcript) Event {
	return Event{Type: EventResult, Transcript: t}
}

func BatchEvent(results []transcript.Transcript) Event {
	if results == nil {
		results = []transcript.Transcript{}
	}
	return Event{Type: EventResult, Batch: &BatchResult{Results: results}}
}

func ErrorEvent(err error) Event {
	return Event{Type: EventError, Err: err}
}

// Terminal reports whether the event ends a stream.
func (e Event) Terminal() bool {
	return e.Type == EventResult || e.Type == EventError
}

// Data is the JSON body written on the wire for this event.
func (e Event) Data() any {
	switch e.Type {
	case EventProgress:
		return e.Progress
	case EventResult:
		if e.Batch != nil {
			return e.Batch
		}
		return e.Transcript
	case EventError:
		p := ErrorPayload{Message: "transcription failed"}
		if e.Err != nil {
			p.Message = e.Err.Error()
			var je *transcript.JobError
			if errors.As(e.Err, &je) {
				p.Kind = je.Kind
				if je.Err != nil {
					p.Message = je.Err.Error()
				}
			}
		}
		return p
	}
	return nil
}
