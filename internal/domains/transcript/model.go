package transcript

import (
	"time"
)

type Emotion string

const (
	EmotionHappy   Emotion = "happy"
	EmotionSad     Emotion = "sad"
	EmotionAngry   Emotion = "angry"
	EmotionNeutral Emotion = "neutral"
)

func (e Emotion) Valid() bool {
	switch e {
	case EmotionHappy, EmotionSad, EmotionAngry, EmotionNeutral:
		return true
	}
	return false
}

// Language is one entry of a segment's language list, primary first.
// @Description Language tag attached to a segment
type Language struct {
	Name string `json:"name" example:"Yoruba"`
	Code string `json:"code" example:"yo"`
}

// DetectedLanguage is one entry of the transcript-level language union.
// @Description Language detected anywhere in the transcript
type DetectedLanguage struct {
	Code     string `json:"code" example:"en"`
	Language string `json:"language" example:"English"`
}

// Word is a display token owned by exactly one segment.
// @Description Word-level timing attached to a segment
type Word struct {
	Word  string  `json:"word" example:"hello"`
	Start float64 `json:"start" example:"0.12"`
	End   float64 `json:"end" example:"0.48"`
}

// Segment is one speaker turn or phrase.
// @Description Semantically coherent transcript span
type Segment struct {
	Speaker      string     `json:"speaker" example:"Speaker 1"`
	Start        float64    `json:"start" example:"0"`
	End          float64    `json:"end" example:"4.2"`
	Text         string     `json:"text" example:"Good morning everyone"`
	Language     string     `json:"language,omitempty" example:"English"`
	LanguageCode string     `json:"language_code,omitempty" example:"en"`
	Languages    []Language `json:"languages"`
	Emotion      Emotion    `json:"emotion" example:"neutral"`
	Translation  *string    `json:"translation"`
	Words        []Word     `json:"words"`
}

// Duration is end minus start in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Transcript is the record a job produces and the history API serves.
// @Description Time-aligned, speaker- and language-annotated transcript
type Transcript struct {
	ID                string             `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	FileName          string             `json:"file_name" example:"interview.wav"`
	CreatedAt         time.Time          `json:"created_at" example:"2024-01-01T12:00:00Z"`
	Summary           *string            `json:"summary"`
	DetectedLanguages []DetectedLanguage `json:"detected_languages"`
	AudioKey          *string            `json:"audio_key"`
	AudioHash         string             `json:"audio_hash,omitempty"`
	Segments          []Segment          `json:"segments"`
}

// Summary is the list view of a transcript, without segments.
// @Description Transcript header returned by the history listing
type Summary struct {
	ID                string             `json:"id"`
	FileName          string             `json:"file_name"`
	CreatedAt         time.Time          `json:"created_at"`
	Summary           *string            `json:"summary"`
	DetectedLanguages []DetectedLanguage `json:"detected_languages"`
	AudioKey          *string            `json:"audio_key"`
	SegmentCount      int                `json:"segment_count"`
}

func (t *Transcript) ToSummary() Summary {
	return Summary{
		ID:                t.ID,
		FileName:          t.FileName,
		CreatedAt:         t.CreatedAt,
		Summary:           t.Summary,
		DetectedLanguages: t.DetectedLanguages,
		AudioKey:          t.AudioKey,
		SegmentCount:      len(t.Segments),
	}
}

// AudioInput is one uploaded file.
type AudioInput struct {
	Data     []byte
	FileName string
	MimeType string
}

func (a AudioInput) Size() int64 {
	return int64(len(a.Data))
}

// Hints steer the primary service. Zero values mean "not given".
type Hints struct {
	Language     string `json:"language,omitempty" form:"language"`
	SpeakerCount int    `json:"speaker_count,omitempty" form:"speaker_count"`
	Orthography  string `json:"orthography,omitempty" form:"orthography"`
}

// AlignmentToken is an acoustic word timestamp from the alignment service.
type AlignmentToken struct {
	Word  string
	Start float64
	End   float64
}

// Draft is what the primary service returns before a job assigns
// identity and storage references.
type Draft struct {
	Summary           *string
	DetectedLanguages []DetectedLanguage
	DetectedEmotions  []string
	SpeakerCount      int
	Segments          []Segment
}

// UpdateRequest is the operator edit path for a stored transcript.
// @Description Fields that can be edited on a stored transcript
type UpdateRequest struct {
	FileName          *string             `json:"file_name,omitempty" example:"renamed.wav"`
	Summary           *string             `json:"summary,omitempty"`
	DetectedLanguages *[]DetectedLanguage `json:"detected_languages,omitempty"`
	Segments          *[]Segment          `json:"segments,omitempty"`
}
