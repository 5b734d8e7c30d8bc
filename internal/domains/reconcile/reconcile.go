// Package reconcile fuses segment-level semantic output with word-level
// acoustic timestamps. All functions are pure: inputs are never mutated and
// no state survives a call.
package reconcile

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
)

type Policy string

const (
	// PolicyAttach lists every overlapping token as the segment's words.
	PolicyAttach Policy = "attach"
	// PolicyRefine snaps segment boundaries to acoustic evidence, using each
	// token at most once. Words stay null.
	PolicyRefine Policy = "refine"

	DefaultPolicy = PolicyRefine
)

const (
	AttachPadding = 0.15
	toleranceRate = 0.15
	minTolerance  = 0.3
	maxTolerance  = 2.0
)

func ParsePolicy(raw string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return DefaultPolicy, nil
	case PolicyAttach:
		return PolicyAttach, nil
	case PolicyRefine:
		return PolicyRefine, nil
	}
	return "", fmt.Errorf("unknown reconcile policy %q", raw)
}

// Apply runs the selected policy.
func Apply(policy Policy, segments []transcript.Segment, tokens []transcript.AlignmentToken) []transcript.Segment {
	if policy == PolicyAttach {
		return Attach(segments, tokens)
	}
	return Refine(segments, tokens)
}

// Attach gives every segment the tokens overlapping [start-0.15, end+0.15].
// A token may land on more than one segment. Segments with no match keep
// words null.
func Attach(segments []transcript.Segment, tokens []transcript.AlignmentToken) []transcript.Segment {
	out := cloneSegments(segments)
	valid := validTokens(tokens)
	if len(out) == 0 || len(valid) == 0 {
		return out
	}

	for i := range out {
		lo, hi := out[i].Start-AttachPadding, out[i].End+AttachPadding
		var words []transcript.Word
		for _, tok := range valid {
			if tok.Start < hi && tok.End > lo {
				words = append(words, transcript.Word{
					Word:  strings.TrimSpace(tok.Word),
					Start: tok.Start,
					End:   tok.End,
				})
			}
		}
		out[i].Words = words
	}
	return out
}

// Tolerance is the search slack around a segment of duration d.
func Tolerance(d float64) float64 {
	return math.Min(math.Max(d*toleranceRate, minTolerance), maxTolerance)
}

// Refine snaps each segment to the span of the unconsumed tokens centred in
// its tolerance window, in segment order. A token is a candidate when its
// midpoint lies in [start-tol, end+tol]; grazing overlap alone is not
// enough, so adjacent turns do not steal each other's first or last word.
// Segments are not re-sorted or de-overlapped afterwards.
func Refine(segments []transcript.Segment, tokens []transcript.AlignmentToken) []transcript.Segment {
	out, _ := refine(segments, tokens)
	return out
}

// refine also reports, per segment, the indexes into the sorted valid
// token list it consumed.
func refine(segments []transcript.Segment, tokens []transcript.AlignmentToken) ([]transcript.Segment, [][]int) {
	out := cloneSegments(segments)
	valid := validTokens(tokens)
	if len(out) == 0 || len(valid) == 0 {
		return out, nil
	}

	consumed := make([]bool, len(valid))
	taken := make([][]int, len(out))
	for i := range out {
		seg := &out[i]
		tol := Tolerance(seg.End - seg.Start)
		lo, hi := seg.Start-tol, seg.End+tol

		start, end := math.Inf(1), math.Inf(-1)
		for j, tok := range valid {
			if consumed[j] {
				continue
			}
			if tok.Start > hi {
				break
			}
			mid := (tok.Start + tok.End) / 2
			if mid < lo || mid > hi {
				continue
			}
			consumed[j] = true
			taken[i] = append(taken[i], j)
			start = math.Min(start, tok.Start)
			end = math.Max(end, tok.End)
		}
		if len(taken[i]) > 0 {
			seg.Start, seg.End = start, end
		}
		seg.Words = nil
	}
	return out, taken
}

// validTokens drops tokens with non-finite or inverted timestamps and
// returns the rest sorted by start.
func validTokens(tokens []transcript.AlignmentToken) []transcript.AlignmentToken {
	out := make([]transcript.AlignmentToken, 0, len(tokens))
	for _, t := range tokens {
		if !finite(t.Start) || !finite(t.End) || t.End <= t.Start {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func cloneSegments(in []transcript.Segment) []transcript.Segment {
	if in == nil {
		return nil
	}
	out := make([]transcript.Segment, len(in))
	for i, s := range in {
		out[i] = s
		if s.Words != nil {
			out[i].Words = append([]transcript.Word(nil), s.Words...)
		}
		if s.Languages != nil {
			out[i].Languages = append([]transcript.Language(nil), s.Languages...)
		}
	}
	return out
}
