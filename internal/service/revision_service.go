package service

import (
	"context"

	"github.com/eventcast/eventcast-backend/internal/domain"
	"github.com/eventcast/eventcast-backend/internal/repository"
)

// RevisionService revision history and comparison
type RevisionService interface {
	ListRevisions(ctx context.Context, slug string) ([]*domain.RevisionSummary, error)

	// DiffRevisions compares a revision against the revision
	// immediately before it, or against the live event when
	// againstCurrent is set. Only the fixed editable field list is
	// ever compared.
	DiffRevisions(ctx context.Context, slug string, revisionID uint, againstCurrent bool) ([]domain.FieldDifference, error)
}

type revisionService struct {
	events    repository.EventRepository
	revisions repository.RevisionRepository
}

// NewRevisionService creates a new RevisionService
func NewRevisionService(events repository.EventRepository, revisions repository.RevisionRepository) RevisionService {
	return &revisionService{events: events, revisions: revisions}
}

func (s *revisionService) ListRevisions(ctx context.Context, slug string) ([]*domain.RevisionSummary, error) {
	event, err := s.events.FindBySlug(slug)
	if err != nil {
		return nil, err
	}

	revisions, err := s.revisions.FindByEvent(event.ID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.RevisionSummary, len(revisions))
	for i, rev := range revisions {
		summaries[i] = rev.ToSummary()
	}
	return summaries, nil
}

func (s *revisionService) DiffRevisions(ctx context.Context, slug string, revisionID uint, againstCurrent bool) ([]domain.FieldDifference, error) {
	event, err := s.events.FindBySlug(slug)
	if err != nil {
		return nil, err
	}

	revision, err := s.revisions.FindByEventAndID(event.ID, revisionID)
	if err != nil {
		return nil, err
	}

	// the "before" side: the preceding revision, or the live event
	// when comparing a revision against current state
	var before func(desc *fieldDescriptor) string
	if againstCurrent {
		before = func(desc *fieldDescriptor) string { return desc.fromEvent(event) }
	} else {
		previous, err := s.revisions.PreviousOf(revision)
		if err != nil {
			return nil, err
		}
		before = func(desc *fieldDescriptor) string { return desc.fromRevision(previous) }
	}

	var differences []domain.FieldDifference
	for i := range fieldTable {
		desc := &fieldTable[i]
		if desc.Kind == kindExcluded {
			continue
		}
		b := before(desc)
		a := desc.fromRevision(revision)
		if b == a {
			continue
		}
		differences = append(differences, domain.FieldDifference{
			Key:    desc.Key,
			Label:  desc.Label,
			Before: b,
			After:  a,
		})
	}
	return differences, nil
}
