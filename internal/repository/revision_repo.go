package repository

import (
	"errors"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/eventcast/eventcast-backend/internal/common"
	"github.com/eventcast/eventcast-backend/internal/domain"
)

// RevisionRepository append-only event revision log
type RevisionRepository interface {
	WithTx(tx *gorm.DB) RevisionRepository

	// CreateFromEvent snapshots the event as it is in the database
	// right now. userID is nil for synthesized baselines.
	CreateFromEvent(event *domain.Event, userID *string) (*domain.EventRevision, error)

	FindByEvent(eventID uint) ([]*domain.EventRevision, error)
	FindByEventAndID(eventID, id uint) (*domain.EventRevision, error)
	// PreviousOf returns the revision immediately before rev for the
	// same event; ErrRevisionNotFound when rev is the earliest.
	PreviousOf(rev *domain.EventRevision) (*domain.EventRevision, error)
	Count(eventID uint) (int64, error)
	// Delete retracts a speculative baseline. The only mutation the
	// log ever sees after a row is written.
	Delete(rev *domain.EventRevision) error
}

type revisionRepository struct {
	db *gorm.DB
}

// NewRevisionRepository creates a new RevisionRepository
func NewRevisionRepository(db *gorm.DB) RevisionRepository {
	return &revisionRepository{db: db}
}

func (r *revisionRepository) WithTx(tx *gorm.DB) RevisionRepository {
	if tx == nil {
		return r
	}
	return &revisionRepository{db: tx}
}

func (r *revisionRepository) CreateFromEvent(event *domain.Event, userID *string) (*domain.EventRevision, error) {
	tags, err := r.relationNames(event.ID, "tags", "event_tags", "tag_id")
	if err != nil {
		return nil, err
	}
	channels, err := r.relationNames(event.ID, "channels", "event_channels", "channel_id")
	if err != nil {
		return nil, err
	}

	rev := &domain.EventRevision{
		EventID:          event.ID,
		UserID:           userID,
		Title:            event.Title,
		Description:      event.Description,
		ShortDescription: event.ShortDescription,
		CallInfo:         event.CallInfo,
		AdditionalLinks:  event.AdditionalLinks,
		PlaceholderImg:   event.PlaceholderImg,
		PictureID:        event.PictureID,
		Tags:             tags,
		Channels:         channels,
	}
	if err := r.db.Create(rev).Error; err != nil {
		return nil, err
	}
	return rev, nil
}

// relationNames reads the relation's names fresh and freezes them as
// a sorted comma-joined string
func (r *revisionRepository) relationNames(eventID uint, table, joinTable, joinCol string) (string, error) {
	var names []string
	err := r.db.Table(table).
		Joins("JOIN "+joinTable+" ON "+joinTable+"."+joinCol+" = "+table+".id").
		Where(joinTable+".event_id = ?", eventID).
		Pluck(table+".name", &names).Error
	if err != nil {
		return "", err
	}
	sort.Strings(names)
	return strings.Join(names, ", "), nil
}

func (r *revisionRepository) FindByEvent(eventID uint) ([]*domain.EventRevision, error) {
	var revisions []*domain.EventRevision
	err := r.db.Where("event_id = ?", eventID).
		Order("created_at DESC, id DESC").
		Find(&revisions).Error
	return revisions, err
}

func (r *revisionRepository) FindByEventAndID(eventID, id uint) (*domain.EventRevision, error) {
	var rev domain.EventRevision
	err := r.db.Where("event_id = ? AND id = ?", eventID, id).First(&rev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrRevisionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *revisionRepository) PreviousOf(rev *domain.EventRevision) (*domain.EventRevision, error) {
	var prev domain.EventRevision
	err := r.db.Where(
		"event_id = ? AND (created_at < ? OR (created_at = ? AND id < ?))",
		rev.EventID, rev.CreatedAt, rev.CreatedAt, rev.ID,
	).
		Order("created_at DESC, id DESC").
		First(&prev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrRevisionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &prev, nil
}

func (r *revisionRepository) Count(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.EventRevision{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

func (r *revisionRepository) Delete(rev *domain.EventRevision) error {
	return r.db.Delete(rev).Error
}
