package transcript

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const segmentBatchSize = 100

type GormTranscriptRepo struct {
	db *gorm.DB
}

// Put implements transcript.Repository. The header is upserted and the
// segment rows are replaced inside one transaction.
func (g *GormTranscriptRepo) Put(ctx context.Context, t *transcript.Transcript, scopeKey string) (*transcript.Transcript, error) {
	if t == nil || t.ID == "" {
		return nil, fmt.Errorf("%w: missing id", transcript.ErrInvalidTranscript)
	}
	entity := NewTranscriptEntityFromDomain(t, scopeKey)
	segments := entity.Segments
	entity.Segments = nil

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing TranscriptEntity
		err := tx.Select("id", "scope_key", "created_at").Where("id = ?", t.ID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if entity.CreatedAt.IsZero() {
				entity.CreatedAt = time.Now().UTC()
			}
			if err := tx.Omit(clause.Associations).Create(entity).Error; err != nil {
				return fmt.Errorf("failed to create transcript: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to look up transcript: %w", err)
		case existing.ScopeKey != scopeKey:
			return transcript.ErrTranscriptNotFound
		default:
			entity.CreatedAt = existing.CreatedAt
			if err := tx.Omit(clause.Associations).Save(entity).Error; err != nil {
				return fmt.Errorf("failed to update transcript: %w", err)
			}
		}

		if err := tx.Where("transcript_id = ?", t.ID).Delete(&SegmentEntity{}).Error; err != nil {
			return fmt.Errorf("failed to clear segments: %w", err)
		}
		if len(segments) > 0 {
			if err := tx.CreateInBatches(segments, segmentBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert segments: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entity.Segments = segments
	return entity.ToDomain(), nil
}

// Get implements transcript.Repository
func (g *GormTranscriptRepo) Get(ctx context.Context, id, scopeKey string) (*transcript.Transcript, error) {
	var entity TranscriptEntity
	err := g.db.WithContext(ctx).
		Preload("Segments", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ? AND scope_key = ?", id, scopeKey).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, transcript.ErrTranscriptNotFound
		}
		return nil, fmt.Errorf("failed to get transcript: %w", err)
	}
	return entity.ToDomain(), nil
}

// List implements transcript.Repository
func (g *GormTranscriptRepo) List(ctx context.Context, scopeKey string) ([]transcript.Summary, error) {
	var rows []summaryRow
	err := g.db.WithContext(ctx).
		Model(&TranscriptEntity{}).
		Select("id, file_name, created_at, summary, detected_languages, audio_key, "+
			"(SELECT COUNT(*) FROM transcript_segments WHERE transcript_segments.transcript_id = transcripts.id) AS segment_count").
		Where("scope_key = ?", scopeKey).
		Order("created_at DESC").
		Order("id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}

	out := make([]transcript.Summary, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

// Delete implements transcript.Repository
func (g *GormTranscriptRepo) Delete(ctx context.Context, id, scopeKey string) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND scope_key = ?", id, scopeKey).Delete(&TranscriptEntity{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete transcript: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return transcript.ErrTranscriptNotFound
		}
		if err := tx.Where("transcript_id = ?", id).Delete(&SegmentEntity{}).Error; err != nil {
			return fmt.Errorf("failed to delete segments: %w", err)
		}
		return nil
	})
}

func NewGormTranscriptRepo(db *gorm.DB) transcript.Repository {
	return &GormTranscriptRepo{db: db}
}
