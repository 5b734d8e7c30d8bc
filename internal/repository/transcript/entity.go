package transcript

import (
	"time"

	"github.com/xpanvictor/omniscribe/internal/database/dbtypes"
	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
)

// TranscriptEntity is the header row; segments live in their own table.
type TranscriptEntity struct {
	ID                string                                      `gorm:"primaryKey;type:char(36);not null"`
	ScopeKey          string                                      `gorm:"column:scope_key;type:varchar(191);index;not null"`
	FileName          string                                      `gorm:"column:file_name;type:varchar(255);not null"`
	Summary           *string                                     `gorm:"type:text"`
	DetectedLanguages dbtypes.JSON[[]transcript.DetectedLanguage] `gorm:"column:detected_languages"`
	AudioKey          *string                                     `gorm:"column:audio_key;type:varchar(255)"`
	AudioHash         string                                      `gorm:"column:audio_hash;type:char(64)"`
	CreatedAt         time.Time                                   `gorm:"index"`
	UpdatedAt         time.Time                                   `gorm:"autoUpdateTime(3)"`

	Segments []SegmentEntity `gorm:"foreignKey:TranscriptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (TranscriptEntity) TableName() string {
	return "transcripts"
}

// SegmentEntity is one segment row. Position keeps the response order.
type SegmentEntity struct {
	ID           uint                                `gorm:"primaryKey;autoIncrement"`
	TranscriptID string                              `gorm:"column:transcript_id;type:char(36);index;not null"`
	Position     int                                 `gorm:"column:position;not null"`
	Speaker      string                              `gorm:"type:varchar(128)"`
	StartSec     float64                             `gorm:"column:start_sec"`
	EndSec       float64                             `gorm:"column:end_sec"`
	Text         string                              `gorm:"type:text"`
	LanguageCode string                              `gorm:"column:language_code;type:varchar(35)"`
	Languages    dbtypes.JSON[[]transcript.Language] `gorm:"column:languages"`
	Emotion      string                              `gorm:"type:varchar(16)"`
	Translation  *string                             `gorm:"type:text"`
	Words        dbtypes.JSON[[]transcript.Word]     `gorm:"column:words"`
}

func (SegmentEntity) TableName() string {
	return "transcript_segments"
}

func (e *TranscriptEntity) FromDomain(t *transcript.Transcript, scopeKey string) {
	e.ID = t.ID
	e.ScopeKey = scopeKey
	e.FileName = t.FileName
	e.Summary = t.Summary
	e.DetectedLanguages = dbtypes.NewJSON(t.DetectedLanguages)
	e.AudioKey = t.AudioKey
	e.AudioHash = t.AudioHash
	e.CreatedAt = t.CreatedAt

	e.Segments = make([]SegmentEntity, len(t.Segments))
	for i, s := range t.Segments {
		e.Segments[i] = SegmentEntity{
			TranscriptID: t.ID,
			Position:     i,
			Speaker:      s.Speaker,
			StartSec:     s.Start,
			EndSec:       s.End,
			Text:         s.Text,
			LanguageCode: s.LanguageCode,
			Languages:    dbtypes.NewJSON(s.Languages),
			Emotion:      string(s.Emotion),
			Translation:  s.Translation,
			Words:        dbtypes.NewJSON(s.Words),
		}
	}
}

func (e *TranscriptEntity) ToDomain() *transcript.Transcript {
	t := &transcript.Transcript{
		ID:                e.ID,
		FileName:          e.FileName,
		CreatedAt:         e.CreatedAt.UTC(),
		Summary:           e.Summary,
		DetectedLanguages: e.DetectedLanguages.V,
		AudioKey:          e.AudioKey,
		AudioHash:         e.AudioHash,
		Segments:          make([]transcript.Segment, len(e.Segments)),
	}
	if t.DetectedLanguages == nil {
		t.DetectedLanguages = []transcript.DetectedLanguage{}
	}
	for i, s := range e.Segments {
		seg := transcript.Segment{
			Speaker:      s.Speaker,
			Start:        s.StartSec,
			End:          s.EndSec,
			Text:         s.Text,
			LanguageCode: s.LanguageCode,
			Languages:    s.Languages.V,
			Emotion:      transcript.Emotion(s.Emotion),
			Translation:  s.Translation,
			Words:        s.Words.V,
		}
		if len(seg.Languages) > 0 {
			seg.Language = seg.Languages[0].Name
		}
		if seg.Languages == nil {
			seg.Languages = []transcript.Language{}
		}
		if len(seg.Words) == 0 {
			seg.Words = nil
		}
		t.Segments[i] = seg
	}
	return t
}

func NewTranscriptEntityFromDomain(t *transcript.Transcript, scopeKey string) *TranscriptEntity {
	entity := &TranscriptEntity{}
	entity.FromDomain(t, scopeKey)
	return entity
}

// summaryRow is the list projection with a segment count subquery.
type summaryRow struct {
	ID                string
	FileName          string
	CreatedAt         time.Time
	Summary           *string
	DetectedLanguages dbtypes.JSON[[]transcript.DetectedLanguage]
	AudioKey          *string
	SegmentCount      int
}

func (r summaryRow) toDomain() transcript.Summary {
	langs := r.DetectedLanguages.V
	if langs == nil {
		langs = []transcript.DetectedLanguage{}
	}
	return transcript.Summary{
		ID:                r.ID,
		FileName:          r.FileName,
		CreatedAt:         r.CreatedAt.UTC(),
		Summary:           r.Summary,
		DetectedLanguages: langs,
		AudioKey:          r.AudioKey,
		SegmentCount:      r.SegmentCount,
	}
}
