package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/omniscribe/internal/domains/reconcile"
	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
	"github.com/xpanvictor/omniscribe/pkg/Logger"
)

const maxBytes = 20 * 1024 * 1024

func newTestSequencer(primary Transcriber, aligner Aligner, repo transcript.Repository, blobs transcript.AudioStore, policy reconcile.Policy) *Sequencer {
	s := NewSequencer(primary, aligner, repo, blobs, Config{MaxUploadBytes: maxBytes, Policy: policy}, Logger.Nop())
	s.newID = sequentialIDs()
	return s
}

func TestSequencerStagesWithAlignment(t *testing.T) {
	primary := &fakeTranscriber{}
	aligner := &fakeAligner{tokens: []transcript.AlignmentToken{{Word: "a", Start: 0.1, End: 4.9}, {Word: "b", Start: 5.2, End: 9.8}}}
	repo := newFakeRepo()
	blobs := &fakeAudio{}
	s := newTestSequencer(primary, aligner, repo, blobs, reconcile.PolicyRefine)

	events := collect(s.Run(context.Background(), Job{Input: audio("talk.mp3", 64), ScopeKey: "scope"}))

	assert.Equal(t, []Step{StepUploading, StepTranscribing, StepAligning, StepProcessing, StepDone}, steps(events))
	var indexes []int
	for _, ev := range events[:5] {
		indexes = append(indexes, ev.Progress.Index)
	}
	assert.Equal(t, []int{0, 1, 2, 2, 3}, indexes)

	last := events[len(events)-1]
	require.Equal(t, EventResult, last.Type)
	result := last.Transcript
	require.NotNil(t, result)
	assert.Equal(t, "id-1", result.ID)
	assert.Equal(t, "talk.mp3", result.FileName)
	require.Len(t, result.Segments, 2)
	assert.Equal(t, 0.1, result.Segments[0].Start)
	assert.Equal(t, 4.9, result.Segments[0].End)
	assert.Equal(t, 5.2, result.Segments[1].Start)
	assert.Equal(t, 9.8, result.Segments[1].End)
	assert.Equal(t, transcript.EmotionHappy, result.Segments[0].Emotion)
	assert.Equal(t, transcript.EmotionNeutral, result.Segments[1].Emotion)
	assert.Equal(t, []transcript.DetectedLanguage{{Code: "en", Language: "English"}}, result.DetectedLanguages)

	require.NotNil(t, result.AudioKey)
	assert.Equal(t, "audio/id-1.mp3", *result.AudioKey)
	assert.Equal(t, "audio/mpeg", blobs.blobs["audio/id-1.mp3"].MimeType)
	assert.Equal(t, transcript.HashAudio(make([]byte, 64)), result.AudioHash)
	_, stored := repo.puts["scope/id-1"]
	assert.True(t, stored)
}

func TestSequencerSkipsAligningWhenUnconfigured(t *testing.T) {
	s := newTestSequencer(&fakeTranscriber{}, nil, nil, nil, reconcile.PolicyRefine)

	events := collect(s.Run(context.Background(), Job{Input: audio("a.wav", 8)}))

	assert.Equal(t, []Step{StepUploading, StepTranscribing, StepProcessing, StepDone}, steps(events))
	result := events[len(events)-1].Transcript
	require.NotNil(t, result)
	assert.Nil(t, result.AudioKey, "no blob store configured")
	assert.Equal(t, 0.0, result.Segments[0].Start)
}

func TestSequencerRejectsOversizedInputBeforeAnyCall(t *testing.T) {
	primary := &fakeTranscriber{}
	aligner := &fakeAligner{}
	repo := newFakeRepo()
	s := newTestSequencer(primary, aligner, repo, nil, reconcile.PolicyRefine)

	events := collect(s.Run(context.Background(), Job{Input: audio("big.wav", 25*1024*1024)}))

	require.Len(t, events, 2)
	assert.Equal(t, StepUploading, events[0].Progress.Step)
	assert.Equal(t, EventError, events[1].Type)
	assert.Equal(t, transcript.KindInputTooLarge, transcript.KindOf(events[1].Err))
	assert.Equal(t, 0, primary.callCount())
	assert.Equal(t, int32(0), aligner.calls.Load())
	assert.Empty(t, repo.puts)
}

func TestSequencerPrimaryFailureIsFatal(t *testing.T) {
	primary := &fakeTranscriber{failures: map[string]error{"a.wav": errNetwork}}
	aligner := &fakeAligner{}
	repo := newFakeRepo()
	s := newTestSequencer(primary, aligner, repo, nil, reconcile.PolicyRefine)

	events := collect(s.Run(context.Background(), Job{Input: audio("a.wav", 8)}))

	assert.Equal(t, []Step{StepUploading, StepTranscribing}, steps(events))
	last := events[len(events)-1]
	require.Equal(t, EventError, last.Type)
	assert.Equal(t, transcript.KindPrimaryService, transcript.KindOf(last.Err))
	assert.ErrorIs(t, last.Err, errNetwork)
	assert.Equal(t, int32(0), aligner.calls.Load())
	assert.Empty(t, repo.puts)
}

func TestSequencerAlignmentFailureStillCompletes(t *testing.T) {
	aligner := &fakeAligner{err: errNetwork}
	repo := newFakeRepo()
	s := newTestSequencer(&fakeTranscriber{}, aligner, repo, nil, reconcile.PolicyAttach)

	events := collect(s.Run(context.Background(), Job{Input: audio("a.wav", 8)}))

	assert.Equal(t, []Step{StepUploading, StepTranscribing, StepAligning, StepProcessing, StepDone}, steps(events))
	result := events[len(events)-1].Transcript
	require.NotNil(t, result)
	for _, seg := range result.Segments {
		assert.Nil(t, seg.Words)
	}
	assert.Len(t, repo.puts, 1)
}

func TestSequencerAttachPolicyPopulatesWords(t *testing.T) {
	aligner := &fakeAligner{tokens: []transcript.AlignmentToken{{Word: " hi ", Start: 0.5, End: 1}}}
	s := newTestSequencer(&fakeTranscriber{}, aligner, nil, nil, reconcile.PolicyAttach)

	result, err := s.Execute(context.Background(), Job{Input: audio("a.wav", 8)}, func(Event) {})
	require.NoError(t, err)
	require.Len(t, result.Segments[0].Words, 1)
	assert.Equal(t, "hi", result.Segments[0].Words[0].Word)
	assert.Nil(t, result.Segments[1].Words)
}

func TestSequencerClampsInvertedSegments(t *testing.T) {
	primary := &fakeTranscriber{draft: func(transcript.AudioInput) *transcript.Draft {
		return &transcript.Draft{Segments: []transcript.Segment{{
			Start: transcript.ParseTimestamp("00:10"),
			End:   transcript.ParseTimestamp("00:08"),
			Text:  "hi",
		}}}
	}}
	s := newTestSequencer(primary, nil, nil, nil, reconcile.PolicyRefine)

	result, err := s.Execute(context.Background(), Job{Input: audio("a.wav", 8)}, func(Event) {})
	require.NoError(t, err)
	require.Len(t, result.Segments, 1)
	assert.Equal(t, 10.0, result.Segments[0].Start)
	assert.Equal(t, 11.0, result.Segments[0].End)
	assert.Equal(t, transcript.DefaultSpeaker, result.Segments[0].Speaker)
}

func TestSequencerAudioFailureIsNotFatal(t *testing.T) {
	repo := newFakeRepo()
	s := newTestSequencer(&fakeTranscriber{}, nil, repo, &fakeAudio{err: errNetwork}, reconcile.PolicyRefine)

	result, err := s.Execute(context.Background(), Job{Input: audio("a.wav", 8), ScopeKey: "s"}, func(Event) {})
	require.NoError(t, err)
	assert.Nil(t, result.AudioKey)
	assert.Len(t, repo.puts, 1)
}

func TestSequencerTranscriptWriteFailureIsFatal(t *testing.T) {
	repo := newFakeRepo()
	repo.err = errNetwork
	s := newTestSequencer(&fakeTranscriber{}, nil, repo, nil, reconcile.PolicyRefine)

	var seen []Step
	_, err := s.Execute(context.Background(), Job{Input: audio("a.wav", 8)}, func(ev Event) {
		seen = append(seen, ev.Progress.Step)
	})
	require.Error(t, err)
	assert.Equal(t, transcript.KindPersistence, transcript.KindOf(err))
	assert.Equal(t, []Step{StepUploading, StepTranscribing, StepProcessing}, seen)
}

func TestSequencerDoesNotMutateDraft(t *testing.T) {
	draft := &transcript.Draft{Segments: []transcript.Segment{{Start: 3, End: 1, Text: "x"}}}
	primary := &fakeTranscriber{draft: func(transcript.AudioInput) *transcript.Draft { return draft }}
	s := newTestSequencer(primary, nil, nil, nil, reconcile.PolicyRefine)

	_, err := s.Execute(context.Background(), Job{Input: audio("a.wav", 8)}, func(Event) {})
	require.NoError(t, err)
	assert.Equal(t, 1.0, draft.Segments[0].End)
}
