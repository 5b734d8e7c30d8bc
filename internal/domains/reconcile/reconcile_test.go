package reconcile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
)

func seg(start, end float64, text string) transcript.Segment {
	return transcript.Segment{Speaker: "Speaker 1", Start: start, End: end, Text: text, Emotion: transcript.EmotionNeutral}
}

func tok(word string, start, end float64) transcript.AlignmentToken {
	return transcript.AlignmentToken{Word: word, Start: start, End: end}
}

func TestRefineSnapsAdjacentSegments(t *testing.T) {
	segments := []transcript.Segment{seg(0, 5, "first"), seg(5, 10, "second")}
	tokens := []transcript.AlignmentToken{tok("a", 0.1, 4.9), tok("b", 5.2, 9.8)}

	got := Refine(segments, tokens)
	require.Len(t, got, 2)
	assert.Equal(t, 0.1, got[0].Start)
	assert.Equal(t, 4.9, got[0].End)
	assert.Equal(t, 5.2, got[1].Start)
	assert.Equal(t, 9.8, got[1].End)
	assert.Nil(t, got[0].Words)
	assert.Nil(t, got[1].Words)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, 0.0, segments[0].Start, "input is not mutated")
}

func TestRefineRejectsTokensThatOnlyOverlap(t *testing.T) {
	segments := []transcript.Segment{seg(0, 5, "first"), seg(5, 10, "second")}
	// both later tokens intersect the first segment's window [-0.75, 5.75]
	// but are centred past it
	tokens := []transcript.AlignmentToken{tok("a", 0.1, 3.9), tok("b", 4.0, 9.0), tok("c", 5.2, 9.8)}

	got, taken := refine(segments, tokens)
	assert.Equal(t, []int{0}, taken[0])
	assert.Equal(t, 3.9, got[0].End)
	assert.Equal(t, []int{1, 2}, taken[1])
	assert.Equal(t, 4.0, got[1].Start)
	assert.Equal(t, 9.8, got[1].End)
}

func TestRefineCompetingSegments(t *testing.T) {
	segments := []transcript.Segment{seg(0, 2, "x"), seg(0, 2, "y"), seg(1, 3, "z")}
	tokens := []transcript.AlignmentToken{tok("w1", 0.2, 0.8), tok("w2", 1.0, 1.9), tok("w3", 2.1, 2.6)}

	got, taken := refine(segments, tokens)
	// the first segment claims everything centred in [-0.3, 2.3]
	assert.Equal(t, []int{0, 1}, taken[0])
	assert.Equal(t, 0.2, got[0].Start)
	assert.Equal(t, 1.9, got[0].End)
	// nothing left for the duplicate, so it keeps its own bounds
	assert.Empty(t, taken[1])
	assert.Equal(t, 0.0, got[1].Start)
	assert.Equal(t, 2.0, got[1].End)
	assert.Equal(t, []int{2}, taken[2])
	assert.Equal(t, 2.1, got[2].Start)
	assert.Equal(t, 2.6, got[2].End)
}

func TestRefineConsumesEachTokenAtMostOnce(t *testing.T) {
	segments := []transcript.Segment{
		seg(0, 3, "a"), seg(1, 4, "b"), seg(2, 6, "c"), seg(2, 6, "d"), seg(5, 9, "e"), seg(8, 20, "f"),
	}
	var tokens []transcript.AlignmentToken
	for i := 0; i < 40; i++ {
		start := float64(i) * 0.5
		tokens = append(tokens, tok("w", start, start+0.4))
	}

	_, taken := refine(segments, tokens)
	seen := make(map[int]int)
	for si, idx := range taken {
		for _, j := range idx {
			prev, dup := seen[j]
			assert.False(t, dup, "token %d used by segments %d and %d", j, prev, si)
			seen[j] = si
		}
	}
	assert.NotEmpty(t, seen)
}

func TestRefineKeepsBoundariesWithoutCandidates(t *testing.T) {
	segments := []transcript.Segment{seg(20, 25, "late")}
	got := Refine(segments, []transcript.AlignmentToken{tok("early", 0, 1)})
	assert.Equal(t, 20.0, got[0].Start)
	assert.Equal(t, 25.0, got[0].End)
}

func TestRefineNeverInvertsBoundaries(t *testing.T) {
	segments := []transcript.Segment{seg(0, 0.5, "a"), seg(0.5, 3, "b"), seg(2.5, 2.6, "c"), seg(10, 12, "d")}
	tokens := []transcript.AlignmentToken{
		tok("1", 0.05, 0.4), tok("2", 0.45, 1.2), tok("3", 1.3, 2.2),
		tok("4", 2.4, 2.7), tok("5", 10.1, 10.9), tok("6", 11.0, 11.8),
	}
	for _, s := range Refine(segments, tokens) {
		assert.Greater(t, s.End, s.Start)
	}
}

func TestRefineFiltersMalformedTokens(t *testing.T) {
	segments := []transcript.Segment{seg(0, 5, "a")}
	tokens := []transcript.AlignmentToken{
		tok("nan", math.NaN(), 1),
		tok("inverted", 3, 2),
		tok("inf", 1, math.Inf(1)),
		tok("ok", 1, 2),
	}
	got := Refine(segments, tokens)
	assert.Equal(t, 1.0, got[0].Start)
	assert.Equal(t, 2.0, got[0].End)
}

func TestRefineSortsTokens(t *testing.T) {
	segments := []transcript.Segment{seg(0, 4, "a")}
	tokens := []transcript.AlignmentToken{tok("late", 3, 3.5), tok("early", 0.5, 1)}
	got := Refine(segments, tokens)
	assert.Equal(t, 0.5, got[0].Start)
	assert.Equal(t, 3.5, got[0].End)
}

func TestTolerance(t *testing.T) {
	assert.Equal(t, 0.3, Tolerance(1))
	assert.InDelta(t, 0.75, Tolerance(5), 1e-9)
	assert.Equal(t, 2.0, Tolerance(60))
}

func TestAttachOverlappingWords(t *testing.T) {
	segments := []transcript.Segment{seg(0, 2, "a"), seg(2, 4, "b"), seg(10, 11, "c")}
	tokens := []transcript.AlignmentToken{tok(" hello ", 0.1, 0.9), tok("world", 1.9, 2.1), tok("again", 3, 3.9)}

	got := Attach(segments, tokens)
	require.Len(t, got[0].Words, 2)
	assert.Equal(t, "hello", got[0].Words[0].Word)
	assert.Equal(t, 0.1, got[0].Words[0].Start)
	require.Len(t, got[1].Words, 2)
	assert.Equal(t, "world", got[1].Words[0].Word, "tokens may be shared under attach")
	assert.Nil(t, got[2].Words)
	assert.Equal(t, 0.0, got[0].Start, "boundaries untouched")
}

func TestAttachIsIdempotent(t *testing.T) {
	segments := []transcript.Segment{seg(0, 2, "a"), seg(2, 4, "b")}
	tokens := []transcript.AlignmentToken{tok("x", 0.1, 0.9), tok("y", 1.9, 2.1), tok("z", 3, 3.9)}

	once := Attach(segments, tokens)
	twice := Attach(once, tokens)
	assert.Equal(t, once, twice)
}

func TestNoOpOnEmptyInputs(t *testing.T) {
	segments := []transcript.Segment{seg(1, 2, "a")}
	assert.Equal(t, segments, Refine(segments, nil))
	assert.Equal(t, segments, Attach(segments, []transcript.AlignmentToken{}))
	assert.Nil(t, Refine(nil, []transcript.AlignmentToken{tok("x", 0, 1)}))
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyRefine, p)

	p, err = ParsePolicy("Attach")
	require.NoError(t, err)
	assert.Equal(t, PolicyAttach, p)

	_, err = ParsePolicy("merge")
	assert.Error(t, err)
}

func TestApplyDispatches(t *testing.T) {
	segments := []transcript.Segment{seg(0, 2, "a")}
	tokens := []transcript.AlignmentToken{tok("x", 0.5, 1.5)}

	assert.NotNil(t, Apply(PolicyAttach, segments, tokens)[0].Words)
	refined := Apply(PolicyRefine, segments, tokens)[0]
	assert.Nil(t, refined.Words)
	assert.Equal(t, 0.5, refined.Start)
}
