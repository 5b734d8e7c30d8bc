package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/xpanvictor/omniscribe/internal/domains/reconcile"
	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
	"github.com/xpanvictor/omniscribe/internal/metrics"
	"github.com/xpanvictor/omniscribe/pkg/Logger"
	"go.uber.org/zap"
)

// Transcriber is the primary transcription service. Any error is fatal to
// the job.
type Transcriber interface {
	Transcribe(ctx context.Context, in transcript.AudioInput, hints transcript.Hints) (*transcript.Draft, error)
}

// Aligner is the forced-alignment service. Errors only cost word timings.
type Aligner interface {
	Align(ctx context.Context, in transcript.AudioInput) ([]transcript.AlignmentToken, error)
}

type Config struct {
	MaxUploadBytes int64
	Policy         reconcile.Policy
}

// Job is one file plus everything needed to run and store it.
type Job struct {
	Input    transcript.AudioInput
	Hints    transcript.Hints
	ScopeKey string
	// Meta is attached to every progress event; set for batch items.
	Meta *FileMeta
}

// Sequencer drives one file through transcribing, optional aligning,
// processing and persistence.
type Sequencer struct {
	primary Transcriber
	aligner Aligner
	repo    transcript.Repository
	audio   transcript.AudioStore
	cfg     Config
	logger  *Logger.Logger

	newID func() string
	now   func() time.Time
}

// NewSequencer wires a sequencer. aligner, repo and audio may be nil: the
// aligning stage is then skipped, and the respective write is skipped.
func NewSequencer(
	primary Transcriber,
	aligner Aligner,
	repo transcript.Repository,
	audio transcript.AudioStore,
	cfg Config,
	logger *Logger.Logger,
) *Sequencer {
	if cfg.Policy == "" {
		cfg.Policy = reconcile.DefaultPolicy
	}
	return &Sequencer{
		primary: primary,
		aligner: aligner,
		repo:    repo,
		audio:   audio,
		cfg:     cfg,
		logger:  logger,
		newID:   func() string { return uuid.New().String() },
		now:     time.Now,
	}
}

const (
	evTranscribe = "transcribe"
	evAlign      = "align"
	evProcess    = "process"
	evFinish     = "finish"
	evFail       = "fail"
)

func newJobMachine(onEnter func(Step)) *fsm.FSM {
	uploading := string(StepUploading)
	transcribing := string(StepTranscribing)
	aligning := string(StepAligning)
	processing := string(StepProcessing)

	return fsm.NewFSM(
		uploading,
		fsm.Events{
			{Name: evTranscribe, Src: []string{uploading}, Dst: transcribing},
			{Name: evAlign, Src: []string{transcribing}, Dst: aligning},
			{Name: evProcess, Src: []string{transcribing, aligning}, Dst: processing},
			{Name: evFinish, Src: []string{processing}, Dst: string(StepDone)},
			{Name: evFail, Src: []string{uploading, transcribing, aligning, processing}, Dst: string(StepFailed)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				onEnter(Step(e.Dst))
			},
		},
	)
}

// Run executes the job in the background and returns its event sequence.
// The channel yields progress events, then exactly one result or error
// event, then closes. Cancelling ctx abandons the remaining events.
func (s *Sequencer) Run(ctx context.Context, job Job) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		send := func(ev Event) {
			select {
			case out <- ev:
			case <-ctx.Done():
			}
		}
		t, err := s.Execute(ctx, job, send)
		if err != nil {
			send(ErrorEvent(err))
			return
		}
		send(ResultEvent(t))
	}()
	return out
}

// Execute runs the job synchronously, reporting progress through emit.
// The returned error is always a *transcript.JobError.
func (s *Sequencer) Execute(ctx context.Context, job Job, emit func(Event)) (*transcript.Transcript, error) {
	log := s.logger.With("file_name", job.Input.FileName)
	machine := newJobMachine(func(step Step) {
		if step != StepFailed {
			emit(ProgressEvent(step, job.Meta))
		}
	})
	advance := func(event string) {
		if err := machine.Event(ctx, event); err != nil {
			log.Debugf("state transition %s from %s: %v", event, machine.Current(), err)
		}
	}
	fail := func(err error) (*transcript.Transcript, error) {
		advance(evFail)
		kind := transcript.KindOf(err)
		metrics.RecordError(string(kind))
		metrics.RecordJob(false)
		log.Errorw("transcription job failed", "kind", kind, "error", err)
		return nil, err
	}

	// the machine starts in uploading and fsm does not announce initial states
	emit(ProgressEvent(StepUploading, job.Meta))

	in := job.Input
	if in.MimeType == "" {
		in.MimeType = transcript.MimeTypeFor(in.FileName)
	}
	if err := transcript.CheckSize(in, s.cfg.MaxUploadBytes); err != nil {
		return fail(err)
	}

	advance(evTranscribe)
	draft, err := s.transcribe(ctx, in, job.Hints)
	if err != nil {
		return fail(err)
	}

	var tokens []transcript.AlignmentToken
	if s.aligner != nil {
		advance(evAlign)
		tokens = s.align(ctx, in, log)
	}

	advance(evProcess)
	started := time.Now()
	t := s.assemble(in, draft, tokens)

	if s.audio != nil {
		key, err := s.audio.Put(ctx, transcript.Blob{
			Key:      transcript.AudioKey(t.ID, in.FileName, in.MimeType),
			Data:     in.Data,
			MimeType: in.MimeType,
			FileName: in.FileName,
			Hash:     t.AudioHash,
		})
		if err != nil {
			metrics.RecordError(string(transcript.KindPersistence))
			log.Warnw("audio blob not stored, continuing without audio_key", "transcript_id", t.ID, "error", err)
		} else {
			t.AudioKey = &key
		}
	}

	if s.repo != nil {
		saved, err := s.repo.Put(ctx, t, job.ScopeKey)
		if err != nil {
			return fail(transcript.NewJobError(transcript.KindPersistence, err))
		}
		t = saved
	}
	metrics.RecordStage(string(StepProcessing), time.Since(started))

	advance(evFinish)
	metrics.RecordJob(true)
	log.Infow("transcription job done", "transcript_id", t.ID, "segments", len(t.Segments), "aligned", len(tokens) > 0)
	return t, nil
}

func (s *Sequencer) transcribe(ctx context.Context, in transcript.AudioInput, hints transcript.Hints) (*transcript.Draft, error) {
	started := time.Now()
	done := metrics.TrackPrimary()
	draft, err := s.primary.Transcribe(ctx, in, hints)
	done()
	metrics.RecordStage(string(StepTranscribing), time.Since(started))

	if err == nil && draft == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		var je *transcript.JobError
		if errors.As(err, &je) {
			return nil, err
		}
		return nil, transcript.NewJobError(transcript.KindPrimaryService, fmt.Errorf("transcription service: %w", err))
	}
	return draft, nil
}

func (s *Sequencer) align(ctx context.Context, in transcript.AudioInput, log *zap.SugaredLogger) []transcript.AlignmentToken {
	started := time.Now()
	tokens, err := s.aligner.Align(ctx, in)
	metrics.RecordStage(string(StepAligning), time.Since(started))
	if err != nil {
		metrics.RecordError(string(transcript.KindAlignmentService))
		log.Warnw("alignment failed, continuing without word timings", "error", err)
		return nil
	}
	return tokens
}

// assemble turns the primary draft into a transcript with a fresh id,
// normalized segments and reconciled timings.
func (s *Sequencer) assemble(in transcript.AudioInput, draft *transcript.Draft, tokens []transcript.AlignmentToken) *transcript.Transcript {
	segments := make([]transcript.Segment, len(draft.Segments))
	copy(segments, draft.Segments)
	for i := range segments {
		segments[i].Languages = append([]transcript.Language(nil), segments[i].Languages...)
		transcript.NormalizeSegment(&segments[i])
		segments[i].Words = nil
	}
	if len(tokens) > 0 {
		segments = reconcile.Apply(s.cfg.Policy, segments, tokens)
	}

	detected := transcript.DedupeDetected(draft.DetectedLanguages)
	if len(detected) == 0 {
		detected = transcript.DetectLanguages(segments)
	}

	return &transcript.Transcript{
		ID:                s.newID(),
		FileName:          in.FileName,
		CreatedAt:         s.now().UTC(),
		Summary:           draft.Summary,
		DetectedLanguages: detected,
		AudioHash:         transcript.HashAudio(in.Data),
		Segments:          segments,
	}
}
