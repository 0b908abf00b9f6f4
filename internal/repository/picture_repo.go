package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/eventcast/eventcast-backend/internal/common"
	"github.com/eventcast/eventcast-backend/internal/domain"
)

// PictureRepository picture data access
type PictureRepository interface {
	WithTx(tx *gorm.DB) PictureRepository

	FindByID(id uint) (*domain.Picture, error)
	// LatestFrame returns the most recently modified picture captured
	// at the given timestamp, or ErrPictureNotFound when no frame
	// exists yet.
	LatestFrame(eventID uint, timestamp int) (*domain.Picture, error)
	Create(picture *domain.Picture) error
}

type pictureRepository struct {
	db *gorm.DB
}

// NewPictureRepository creates a new PictureRepository
func NewPictureRepository(db *gorm.DB) PictureRepository {
	return &pictureRepository{db: db}
}

func (r *pictureRepository) WithTx(tx *gorm.DB) PictureRepository {
	if tx == nil {
		return r
	}
	return &pictureRepository{db: tx}
}

func (r *pictureRepository) FindByID(id uint) (*domain.Picture, error) {
	var picture domain.Picture
	err := r.db.First(&picture, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrPictureNotFound
	}
	if err != nil {
		return nil, err
	}
	return &picture, nil
}

func (r *pictureRepository) LatestFrame(eventID uint, timestamp int) (*domain.Picture, error) {
	var picture domain.Picture
	err := r.db.Where("event_id = ? AND timestamp = ?", eventID, timestamp).
		Order("modified DESC").
		First(&picture).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrPictureNotFound
	}
	if err != nil {
		return nil, err
	}
	return &picture, nil
}

func (r *pictureRepository) Create(picture *domain.Picture) error {
	return r.db.Create(picture).Error
}
