package aligner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
)

type (
	verboseResult struct {
		Text     string    `json:"text"`
		Language string    `json:"language"`
		Words    []word    `json:"words"`
		Segments []segment `json:"segments"`
	}

	segment struct {
		Text  string          `json:"text"`
		Start decimal.Decimal `json:"start"`
		End   decimal.Decimal `json:"end"`
		Words []word          `json:"words"`
	}

	word struct {
		Text  string           `json:"word"`
		Start *decimal.Decimal `json:"start"`
		End   *decimal.Decimal `json:"end"`
	}
)

// decodeTokens reads a verbose transcription body. Top-level words win;
// otherwise the per-segment word lists are flattened. Words without both
// timings are dropped.
func decodeTokens(body []byte) ([]transcript.AlignmentToken, error) {
	var res verboseResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decoding alignment response: %w", err)
	}

	words := res.Words
	if len(words) == 0 {
		for _, s := range res.Segments {
			words = append(words, s.Words...)
		}
	}

	tokens := make([]transcript.AlignmentToken, 0, len(words))
	for _, w := range words {
		if w.Start == nil || w.End == nil {
			continue
		}
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}
		tokens = append(tokens, transcript.AlignmentToken{
			Word:  text,
			Start: toSeconds(*w.Start),
			End:   toSeconds(*w.End),
		})
	}
	return tokens, nil
}

var thousand = decimal.NewFromInt(1000)

// toSeconds rounds a wire timestamp to whole milliseconds on the decimal
// text the service sent, so values like 0.1235 round up as written.
func toSeconds(d decimal.Decimal) float64 {
	ms := d.Mul(thousand).Round(0)
	return ms.Div(thousand).InexactFloat64()
}
