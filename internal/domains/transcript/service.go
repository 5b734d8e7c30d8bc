package transcript

import (
	"context"
	"errors"
	"fmt"

	"github.com/xpanvictor/omniscribe/pkg/Logger"
)

// Service is the history path: everything that touches a transcript after
// the pipeline has persisted it.
type Service interface {
	List(ctx context.Context, scopeKey string) ([]Summary, error)
	Get(ctx context.Context, id, scopeKey string) (*Transcript, error)
	Update(ctx context.Context, id, scopeKey string, req UpdateRequest) (*Transcript, error)
	Delete(ctx context.Context, id, scopeKey string) error
	Audio(ctx context.Context, id, scopeKey string) (*Blob, error)
}

type historyService struct {
	repo   Repository
	audio  AudioStore
	logger *Logger.Logger
}

// NewService builds the history service. Either store may be nil, in which
// case the operations that need it return ErrStoreUnavailable.
func NewService(repo Repository, audio AudioStore, logger *Logger.Logger) Service {
	return &historyService{repo: repo, audio: audio, logger: logger}
}

func (s *historyService) List(ctx context.Context, scopeKey string) ([]Summary, error) {
	if s.repo == nil {
		return []Summary{}, nil
	}
	items, err := s.repo.List(ctx, scopeKey)
	if err != nil {
		s.logger.Errorf("error listing transcripts: %v", err)
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}
	return items, nil
}

func (s *historyService) Get(ctx context.Context, id, scopeKey string) (*Transcript, error) {
	if s.repo == nil {
		return nil, ErrStoreUnavailable
	}
	return s.repo.Get(ctx, id, scopeKey)
}

func (s *historyService) Update(ctx context.Context, id, scopeKey string, req UpdateRequest) (*Transcript, error) {
	if s.repo == nil {
		return nil, ErrStoreUnavailable
	}
	t, err := s.repo.Get(ctx, id, scopeKey)
	if err != nil {
		return nil, err
	}

	if req.FileName != nil {
		if *req.FileName == "" {
			return nil, fmt.Errorf("%w: file_name must not be empty", ErrInvalidTranscript)
		}
		t.FileName = *req.FileName
	}
	if req.Summary != nil {
		if *req.Summary == "" {
			t.Summary = nil
		} else {
			summary := *req.Summary
			t.Summary = &summary
		}
	}
	if req.Segments != nil {
		segments := make([]Segment, len(*req.Segments))
		copy(segments, *req.Segments)
		for i := range segments {
			segments[i].Languages = append([]Language(nil), segments[i].Languages...)
			segments[i].Words = append([]Word(nil), segments[i].Words...)
			NormalizeSegment(&segments[i])
		}
		t.Segments = segments
	}
	if req.DetectedLanguages != nil {
		t.DetectedLanguages = DedupeDetected(*req.DetectedLanguages)
	} else if req.Segments != nil {
		t.DetectedLanguages = DetectLanguages(t.Segments)
	}

	updated, err := s.repo.Put(ctx, t, scopeKey)
	if err != nil {
		s.logger.Errorf("error updating transcript %s: %v", id, err)
		return nil, fmt.Errorf("failed to update transcript: %w", err)
	}
	s.logger.Infof("transcript updated: %s", id)
	return updated, nil
}

func (s *historyService) Delete(ctx context.Context, id, scopeKey string) error {
	if s.repo == nil {
		return ErrStoreUnavailable
	}
	t, err := s.repo.Get(ctx, id, scopeKey)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, scopeKey); err != nil {
		return err
	}
	if s.audio != nil && t.AudioKey != nil {
		if err := s.audio.Delete(ctx, *t.AudioKey); err != nil && !errors.Is(err, ErrAudioNotFound) {
			s.logger.Warnf("transcript %s deleted but audio %s was not: %v", id, *t.AudioKey, err)
		}
	}
	s.logger.Infof("transcript deleted: %s", id)
	return nil
}

func (s *historyService) Audio(ctx context.Context, id, scopeKey string) (*Blob, error) {
	if s.repo == nil || s.audio == nil {
		return nil, ErrStoreUnavailable
	}
	t, err := s.repo.Get(ctx, id, scopeKey)
	if err != nil {
		return nil, err
	}
	if t.AudioKey == nil {
		return nil, ErrAudioNotFound
	}
	return s.audio.Get(ctx, *t.AudioKey)
}
