package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/eventcast/eventcast-backend/internal/common"
	"github.com/eventcast/eventcast-backend/internal/domain"
)

// TagRepository tag data access
type TagRepository interface {
	WithTx(tx *gorm.DB) TagRepository

	FindByIDs(ids []uint) ([]domain.Tag, error)
	// FindByNameFold matches case-insensitively. When several tags
	// collide on casing the one with the lowest id wins, so repeated
	// lookups always resolve the same way.
	FindByNameFold(name string) (*domain.Tag, error)
	Create(tag *domain.Tag) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) WithTx(tx *gorm.DB) TagRepository {
	if tx == nil {
		return r
	}
	return &tagRepository{db: tx}
}

func (r *tagRepository) FindByIDs(ids []uint) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []domain.Tag
	err := r.db.Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}

func (r *tagRepository) FindByNameFold(name string) (*domain.Tag, error) {
	var tag domain.Tag
	err := r.db.
		Where("LOWER(name) = ?", strings.ToLower(name)).
		Order("id").
		First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) Create(tag *domain.Tag) error {
	return r.db.Create(tag).Error
}
