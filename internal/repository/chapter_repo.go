package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/eventcast/eventcast-backend/internal/common"
	"github.com/eventcast/eventcast-backend/internal/domain"
)

// ChapterRepository chapter data access
type ChapterRepository interface {
	WithTx(tx *gorm.DB) ChapterRepository

	FindActiveByEvent(eventID uint) ([]domain.Chapter, error)
	FindByEventAndTimestamp(eventID uint, timestamp int) (*domain.Chapter, error)
	Create(chapter *domain.Chapter) error
	Save(chapter *domain.Chapter) error
}

type chapterRepository struct {
	db *gorm.DB
}

// NewChapterRepository creates a new ChapterRepository
func NewChapterRepository(db *gorm.DB) ChapterRepository {
	return &chapterRepository{db: db}
}

func (r *chapterRepository) WithTx(tx *gorm.DB) ChapterRepository {
	if tx == nil {
		return r
	}
	return &chapterRepository{db: tx}
}

func (r *chapterRepository) FindActiveByEvent(eventID uint) ([]domain.Chapter, error) {
	var chapters []domain.Chapter
	err := r.db.Where("event_id = ? AND is_active = ?", eventID, true).
		Order("timestamp ASC").
		Find(&chapters).Error
	return chapters, err
}

func (r *chapterRepository) FindByEventAndTimestamp(eventID uint, timestamp int) (*domain.Chapter, error) {
	var chapter domain.Chapter
	err := r.db.Where("event_id = ? AND timestamp = ?", eventID, timestamp).
		First(&chapter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrChapterNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (r *chapterRepository) Create(chapter *domain.Chapter) error {
	return r.db.Create(chapter).Error
}

func (r *chapterRepository) Save(chapter *domain.Chapter) error {
	return r.db.Save(chapter).Error
}
