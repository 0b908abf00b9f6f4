package service

import (
	"context"
	"errors"

	"github.com/eventcast/eventcast-backend/internal/common"
	"github.com/eventcast/eventcast-backend/internal/domain"
	"github.com/eventcast/eventcast-backend/internal/repository"
	pkglogger "github.com/eventcast/eventcast-backend/pkg/logger"
	"github.com/eventcast/eventcast-backend/pkg/taskqueue"
	"gorm.io/gorm"
)

// ChapterService timestamped annotations on an event's timeline
type ChapterService interface {
	List(ctx context.Context, slug string) ([]*domain.ChapterResponse, error)
	// Save upserts the chapter at the request's timestamp, or
	// soft-deletes it when the delete flag is set. Thumbnail
	// generation for the chapter is dispatched fire-and-forget.
	Save(ctx context.Context, slug string, req *domain.ChapterSaveRequest, userID string) error
}

type chapterService struct {
	txm        repository.TxManager
	events     repository.EventRepository
	chapters   repository.ChapterRepository
	dispatcher taskqueue.Dispatcher
}

// NewChapterService creates a new ChapterService
func NewChapterService(
	txm repository.TxManager,
	events repository.EventRepository,
	chapters repository.ChapterRepository,
	dispatcher taskqueue.Dispatcher,
) ChapterService {
	return &chapterService{
		txm:        txm,
		events:     events,
		chapters:   chapters,
		dispatcher: dispatcher,
	}
}

func (s *chapterService) List(ctx context.Context, slug string) ([]*domain.ChapterResponse, error) {
	event, err := s.events.FindBySlug(slug)
	if err != nil {
		return nil, err
	}

	chapters, err := s.chapters.FindActiveByEvent(event.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.ChapterResponse, len(chapters))
	for i := range chapters {
		responses[i] = chapters[i].ToResponse()
	}
	return responses, nil
}

func (s *chapterService) Save(ctx context.Context, slug string, req *domain.ChapterSaveRequest, userID string) error {
	var chapterID uint
	err := s.txm.Do(func(tx *gorm.DB) error {
		events := s.events.WithTx(tx)
		chapters := s.chapters.WithTx(tx)

		event, err := events.FindBySlug(slug)
		if err != nil {
			return err
		}
		// chapters only make sense on a timeline with a known length
		if !event.IsScheduled() {
			return common.ErrForbidden
		}

		if req.Delete {
			chapter, err := chapters.FindByEventAndTimestamp(event.ID, req.Timestamp)
			if err != nil {
				return err
			}
			chapter.IsActive = false
			return chapters.Save(chapter)
		}

		chapter, err := chapters.FindByEventAndTimestamp(event.ID, req.Timestamp)
		switch {
		case err == nil:
			chapter.Text = req.Text
			chapter.UserID = userID
			chapter.IsActive = true
			if err := chapters.Save(chapter); err != nil {
				return err
			}
		case errors.Is(err, common.ErrChapterNotFound):
			chapter = &domain.Chapter{
				EventID:   event.ID,
				Timestamp: req.Timestamp,
				Text:      req.Text,
				UserID:    userID,
				IsActive:  true,
			}
			if err := chapters.Create(chapter); err != nil {
				return err
			}
		default:
			return err
		}

		chapterID = chapter.ID
		return nil
	})
	if err != nil {
		return err
	}

	if chapterID != 0 && s.dispatcher != nil {
		if err := s.dispatcher.DispatchChapterImages(ctx, chapterID); err != nil {
			// background work only; the chapter itself is saved
			pkglogger.GetLogger().Warn().Err(err).
				Uint("chapter_id", chapterID).
				Msg("failed to dispatch chapter image job")
		}
	}
	return nil
}
