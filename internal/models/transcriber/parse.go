package transcriber

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
)

var (
	ErrUnparsable    = errors.New("response is not valid JSON")
	ErrMissingFields = errors.New("response is missing required fields")

	fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
)

// timestamp accepts "MM:SS", "HH:MM:SS" or a bare number of seconds.
type timestamp float64

func (t *timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = timestamp(transcript.ParseTimestamp(s))
		return nil
	}
	if f, err := strconv.ParseFloat(string(b), 64); err == nil {
		*t = timestamp(transcript.ParseTimestamp(strconv.FormatFloat(f, 'f', -1, 64)))
		return nil
	}
	*t = 0
	return nil
}

type rawLanguage struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type rawSegment struct {
	Speaker        string        `json:"speaker"`
	TimestampStart timestamp     `json:"timestamp_start"`
	TimestampEnd   timestamp     `json:"timestamp_end"`
	Content        string        `json:"content"`
	Languages      []rawLanguage `json:"languages"`
	Language       string        `json:"language"`
	LanguageCode   string        `json:"language_code"`
	Translation    *string       `json:"translation"`
	Emotion        string        `json:"emotion"`
}

type rawResponse struct {
	Summary          *string      `json:"summary"`
	DetectedEmotions []string     `json:"detected_emotions"`
	SpeakerCount     int          `json:"speaker_count"`
	Segments         []rawSegment `json:"segments"`
}

// ParseResponse decodes the model's JSON body into a draft. A body that is
// not JSON is searched for a fenced json block. summary and segments must
// be present; per-segment fields are lenient and normalized.
func ParseResponse(text string) (*transcript.Draft, error) {
	body := []byte(strings.TrimSpace(text))
	if !json.Valid(body) {
		m := fencedJSON.FindSubmatch(body)
		if m == nil || !json.Valid(m[1]) {
			return nil, ErrUnparsable
		}
		body = m[1]
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	var missing []string
	for _, field := range []string{"summary", "segments"} {
		if _, ok := top[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}

	var raw rawResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}

	segments := make([]transcript.Segment, 0, len(raw.Segments))
	for _, rs := range raw.Segments {
		seg := transcript.Segment{
			Speaker:      rs.Speaker,
			Start:        float64(rs.TimestampStart),
			End:          float64(rs.TimestampEnd),
			Text:         rs.Content,
			Language:     rs.Language,
			LanguageCode: rs.LanguageCode,
			Emotion:      transcript.Emotion(rs.Emotion),
			Translation:  rs.Translation,
		}
		for _, l := range rs.Languages {
			if l.Code == "" && l.Name == "" {
				continue
			}
			seg.Languages = append(seg.Languages, transcript.Language{Name: l.Name, Code: l.Code})
		}
		transcript.NormalizeSegment(&seg)
		segments = append(segments, seg)
	}

	draft := &transcript.Draft{
		DetectedEmotions:  raw.DetectedEmotions,
		SpeakerCount:      raw.SpeakerCount,
		Segments:          segments,
		DetectedLanguages: transcript.DetectLanguages(segments),
	}
	if raw.Summary != nil && strings.TrimSpace(*raw.Summary) != "" {
		draft.Summary = raw.Summary
	}
	return draft, nil
}
