package repository

import (
	"gorm.io/gorm"

	"github.com/eventcast/eventcast-backend/internal/domain"
)

// ChannelRepository channel data access
type ChannelRepository interface {
	WithTx(tx *gorm.DB) ChannelRepository

	FindByIDs(ids []uint) ([]domain.Channel, error)
}

type channelRepository struct {
	db *gorm.DB
}

// NewChannelRepository creates a new ChannelRepository
func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &channelRepository{db: db}
}

func (r *channelRepository) WithTx(tx *gorm.DB) ChannelRepository {
	if tx == nil {
		return r
	}
	return &channelRepository{db: tx}
}

func (r *channelRepository) FindByIDs(ids []uint) ([]domain.Channel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var channels []domain.Channel
	err := r.db.Where("id IN ?", ids).Find(&channels).Error
	return channels, err
}
