package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"gorm.io/gorm"

	"github.com/eventcast/eventcast-backend/internal/common"
	"github.com/eventcast/eventcast-backend/internal/domain"
	"github.com/eventcast/eventcast-backend/internal/repository"
	pkglogger "github.com/eventcast/eventcast-backend/pkg/logger"
	"github.com/eventcast/eventcast-backend/pkg/storage"
)

// Uploader stores an uploaded blob and returns where it lives.
// Satisfied by pkg/storage.S3Client.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*storage.UploadResult, error)
}

// EditService optimistic-concurrency editing of events
type EditService interface {
	// EditForm builds the edit view-model: the event, the baseline
	// snapshot the client must echo back on submit, and the revision
	// history.
	EditForm(ctx context.Context, slug string) (*domain.EventEditForm, error)

	// SubmitEdit runs one edit submission inside a single database
	// transaction and reports one of three outcomes: conflict (per
	// field), changed, or no-op. A conflict outcome rolls everything
	// back, including the synthesized baseline revision.
	SubmitEdit(ctx context.Context, slug string, req *domain.EventEditRequest, userID string) (*domain.EditResult, error)
}

type editService struct {
	txm       repository.TxManager
	events    repository.EventRepository
	tags      repository.TagRepository
	channels  repository.ChannelRepository
	pictures  repository.PictureRepository
	revisions repository.RevisionRepository
	uploader  Uploader
}

// NewEditService creates a new EditService
func NewEditService(
	txm repository.TxManager,
	events repository.EventRepository,
	tags repository.TagRepository,
	channels repository.ChannelRepository,
	pictures repository.PictureRepository,
	revisions repository.RevisionRepository,
	uploader Uploader,
) EditService {
	return &editService{
		txm:       txm,
		events:    events,
		tags:      tags,
		channels:  channels,
		pictures:  pictures,
		revisions: revisions,
		uploader:  uploader,
	}
}

// errEditConflict forces the transaction to roll back when the
// outcome is CONFLICT; it never escapes SubmitEdit
var errEditConflict = errors.New("edit conflict")

func (s *editService) EditForm(ctx context.Context, slug string) (*domain.EventEditForm, error) {
	event, err := s.events.FindBySlug(slug)
	if err != nil {
		return nil, err
	}

	baseline := BuildSnapshot(event)
	previous, err := json.Marshal(baseline)
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

	return &domain.EventEditForm{
		Event:        event,
		Baseline:     baseline,
		Previous:     string(previous),
		Revisions:    summaries,
		ThumbnailURL: baseline.ThumbnailURL,
	}, nil
}

func (s *editService) SubmitEdit(ctx context.Context, slug string, req *domain.EventEditRequest, userID string) (*domain.EditResult, error) {
	var baseline domain.EventSnapshot
	if err := json.Unmarshal([]byte(req.Previous), &baseline); err != nil {
		return nil, common.ErrInvalidBaseline
	}

	// a new upload replaces the placeholder, so any picture selection
	// in the same submission is discarded
	if req.PlaceholderImg != nil {
		req.Picture = nil
	}

	var result domain.EditResult
	err := s.txm.Do(func(tx *gorm.DB) error {
		events := s.events.WithTx(tx)
		revisions := s.revisions.WithTx(tx)

		// authoritative state, re-read inside the transaction
		event, err := events.FindBySlug(slug)
		if err != nil {
			return err
		}
		if baseline.EventID != event.ID {
			return common.ErrInvalidBaseline
		}

		// history always needs a "before" anchor: the first edit of an
		// event synthesizes an unauthored baseline revision
		var baseRevision *domain.EventRevision
		count, err := revisions.Count(event.ID)
		if err != nil {
			return err
		}
		if count == 0 {
			baseRevision, err = revisions.CreateFromEvent(event, nil)
			if err != nil {
				return err
			}
		}

		ec := &editContext{
			ctx:      ctx,
			event:    event,
			req:      req,
			baseline: &baseline,
			events:   events,
			tags:     s.tags.WithTx(tx),
			channels: s.channels.WithTx(tx),
			pictures: s.pictures.WithTx(tx),
			uploader: s.uploader,
		}

		// phase 1: read-only resolution of every field. Conflicts are
		// accumulated, never short-circuited, so the client sees the
		// full set in one round-trip.
		changes := domain.ChangeSet{}
		var conflicts []string
		var applies []func() error
		for i := range fieldTable {
			desc := &fieldTable[i]
			if desc.Kind == kindExcluded {
				continue
			}
			res, err := desc.resolve(ec)
			if err != nil {
				return err
			}
			if !res.changed {
				continue
			}
			changes[desc.Key] = *res.change
			if res.conflict {
				// only fields the client tried to change can conflict
				conflicts = append(conflicts, desc.Key)
				continue
			}
			applies = append(applies, res.apply)
		}

		if len(conflicts) > 0 {
			result = domain.EditResult{
				Outcome:           domain.OutcomeConflict,
				ConflictingFields: conflicts,
			}
			return errEditConflict
		}

		if len(changes) == 0 {
			// no-op: retract the baseline synthesized above so history
			// is not polluted with an empty revision
			if baseRevision != nil {
				if err := revisions.Delete(baseRevision); err != nil {
					return err
				}
			}
			result = domain.EditResult{Outcome: domain.OutcomeNoop}
			return nil
		}

		// phase 2: apply mutations, still inside the same transaction
		for _, apply := range applies {
			if err := apply(); err != nil {
				return err
			}
		}
		if ec.eventDirty {
			if err := events.Save(event); err != nil {
				return err
			}
		}

		rev, err := revisions.CreateFromEvent(event, &userID)
		if err != nil {
			return err
		}
		result = domain.EditResult{
			Outcome:  domain.OutcomeChanged,
			Changes:  changes,
			Revision: rev.ToSummary(),
		}
		return nil
	})

	if err != nil && !errors.Is(err, errEditConflict) {
		return nil, err
	}

	pkglogger.GetLogger().Info().
		Str("event_slug", slug).
		Str("user_id", userID).
		Str("outcome", string(result.Outcome)).
		Strs("conflicts", result.ConflictingFields).
		Msg("event edit submitted")

	return &result, nil
}
