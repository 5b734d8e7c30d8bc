package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/omniscribe/internal/domains/reconcile"
	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
	"github.com/xpanvictor/omniscribe/pkg/Logger"
)

func TestControllerPreservesInputOrder(t *testing.T) {
	primary := &fakeTranscriber{delays: map[string]time.Duration{
		"a.wav": 90 * time.Millisecond,
		"b.wav": 45 * time.Millisecond,
		"c.wav": 0,
	}}
	s := newTestSequencer(primary, nil, nil, nil, reconcile.PolicyRefine)
	c := NewController(s, 3, Logger.Nop())

	jobs := []Job{{Input: audio("a.wav", 8)}, {Input: audio("b.wav", 8)}, {Input: audio("c.wav", 8)}}
	outcomes := c.Execute(context.Background(), jobs, func(Event) {})

	assert.Equal(t, []string{"c.wav", "b.wav", "a.wav"}, primary.completed, "completion order is staggered")
	results := Succeeded(outcomes)
	require.Len(t, results, 3)
	assert.Equal(t, "a.wav", results[0].FileName)
	assert.Equal(t, "b.wav", results[1].FileName)
	assert.Equal(t, "c.wav", results[2].FileName)
}

func TestControllerCapsConcurrency(t *testing.T) {
	delays := map[string]time.Duration{}
	var jobs []Job
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("f%d.wav", i)
		delays[name] = 20 * time.Millisecond
		jobs = append(jobs, Job{Input: audio(name, 8)})
	}
	primary := &fakeTranscriber{delays: delays}
	s := newTestSequencer(primary, nil, nil, nil, reconcile.PolicyRefine)
	c := NewController(s, DefaultConcurrency, Logger.Nop())

	outcomes := c.Execute(context.Background(), jobs, func(Event) {})

	assert.Len(t, Succeeded(outcomes), 10)
	assert.Equal(t, 10, primary.callCount())
	assert.LessOrEqual(t, primary.maxInflight.Load(), int32(3))
	assert.Greater(t, primary.maxInflight.Load(), int32(1))
}

func TestControllerIsolatesFailures(t *testing.T) {
	primary := &fakeTranscriber{failures: map[string]error{"bad.wav": errNetwork}}
	s := newTestSequencer(primary, nil, nil, nil, reconcile.PolicyRefine)
	c := NewController(s, 2, Logger.Nop())

	jobs := []Job{
		{Input: audio("ok1.wav", 8)},
		{Input: audio("huge.wav", 25*1024*1024)},
		{Input: audio("bad.wav", 8)},
		{Input: audio("ok2.wav", 8)},
	}
	outcomes := c.Execute(context.Background(), jobs, func(Event) {})

	require.Len(t, outcomes, 4)
	assert.NoError(t, outcomes[0].Err)
	assert.Equal(t, transcript.KindInputTooLarge, transcript.KindOf(outcomes[1].Err))
	assert.Equal(t, transcript.KindPrimaryService, transcript.KindOf(outcomes[2].Err))
	assert.NoError(t, outcomes[3].Err)

	results := Succeeded(outcomes)
	require.Len(t, results, 2)
	assert.Equal(t, "ok1.wav", results[0].FileName)
	assert.Equal(t, "ok2.wav", results[1].FileName)
}

func TestControllerRunAttributesProgress(t *testing.T) {
	s := newTestSequencer(&fakeTranscriber{}, nil, nil, nil, reconcile.PolicyRefine)
	c := NewController(s, 3, Logger.Nop())

	jobs := []Job{{Input: audio("a.wav", 8)}, {Input: audio("b.wav", 8)}}
	events := collect(c.Run(context.Background(), jobs))

	last := events[len(events)-1]
	require.Equal(t, EventResult, last.Type)
	require.NotNil(t, last.Batch)
	assert.Len(t, last.Batch.Results, 2)

	perFile := map[string][]Step{}
	for _, ev := range events[:len(events)-1] {
		require.Equal(t, EventProgress, ev.Type)
		require.NotNil(t, ev.Progress.FileMeta)
		assert.Equal(t, 2, ev.Progress.FileCount)
		assert.Equal(t, jobs[ev.Progress.FileIndex].Input.FileName, ev.Progress.FileName)
		perFile[ev.Progress.FileName] = append(perFile[ev.Progress.FileName], ev.Progress.Step)
	}
	want := []Step{StepUploading, StepTranscribing, StepProcessing, StepDone}
	assert.Equal(t, want, perFile["a.wav"])
	assert.Equal(t, want, perFile["b.wav"])
}

func TestControllerEmptyBatch(t *testing.T) {
	c := NewController(newTestSequencer(&fakeTranscriber{}, nil, nil, nil, ""), 0, Logger.Nop())
	events := collect(c.Run(context.Background(), nil))
	require.Len(t, events, 1)
	assert.NotNil(t, events[0].Batch.Results)
	assert.Empty(t, events[0].Batch.Results)
}
