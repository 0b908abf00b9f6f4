package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/eventcast/eventcast-backend/internal/common"
	"github.com/eventcast/eventcast-backend/internal/domain"
)

// EventRepository event data access
type EventRepository interface {
	// WithTx returns a copy bound to the given transaction
	WithTx(tx *gorm.DB) EventRepository

	FindBySlug(slug string) (*domain.Event, error)
	Save(event *domain.Event) error

	// Fresh relation reads, used for conflict detection inside a
	// transaction. These never serve from a preloaded struct.
	TagIDs(eventID uint) ([]uint, error)
	ChannelIDs(eventID uint) ([]uint, error)

	ReplaceTags(event *domain.Event, tags []domain.Tag) error
	ReplaceChannels(event *domain.Event, channels []domain.Channel) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) WithTx(tx *gorm.DB) EventRepository {
	if tx == nil {
		return r
	}
	return &eventRepository{db: tx}
}

// FindBySlug loads an event with its relations
func (r *eventRepository) FindBySlug(slug string) (*domain.Event, error) {
	var event domain.Event
	err := r.db.
		Preload("Tags").
		Preload("Channels").
		Preload("Picture").
		Where("slug = ?", slug).
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Save persists scalar columns only; relations are replaced explicitly
func (r *eventRepository) Save(event *domain.Event) error {
	return r.db.Omit("Tags", "Channels", "Picture").Save(event).Error
}

func (r *eventRepository) TagIDs(eventID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Table("event_tags").
		Where("event_id = ?", eventID).
		Pluck("tag_id", &ids).Error
	return ids, err
}

func (r *eventRepository) ChannelIDs(eventID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Table("event_channels").
		Where("event_id = ?", eventID).
		Pluck("channel_id", &ids).Error
	return ids, err
}

func (r *eventRepository) ReplaceTags(event *domain.Event, tags []domain.Tag) error {
	return r.db.Model(event).Association("Tags").Replace(tags)
}

func (r *eventRepository) ReplaceChannels(event *domain.Event, channels []domain.Channel) error {
	return r.db.Model(event).Association("Channels").Replace(channels)
}
