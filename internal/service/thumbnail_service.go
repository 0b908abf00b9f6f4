package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventcast/eventcast-backend/internal/common"
	"github.com/eventcast/eventcast-backend/internal/domain"
	"github.com/eventcast/eventcast-backend/internal/repository"
	"github.com/eventcast/eventcast-backend/pkg/cache"
	pkglogger "github.com/eventcast/eventcast-backend/pkg/logger"
	"github.com/eventcast/eventcast-backend/pkg/taskqueue"
)

// Frame timeline layout: one candidate frame every interval, capped
// so very long events do not explode the strip
const (
	timenailInterval  = 30  // seconds between frames
	timenailMaxFrames = 100 // cap per event
	fetchBatchSize    = 10  // frames per background fetch job
)

// ImageComparer scores the visual similarity of two stored images
// (0..100). Implementations live outside this service; a nil comparer
// disables scoring and frames report no similarity.
type ImageComparer interface {
	Similarity(ctx context.Context, fileA, fileB string) (float64, error)
}

// ThumbnailService frame thumbnails with similarity detection
type ThumbnailService interface {
	// Thumbnails returns the frame strip for an event: one thumbnail
	// per timeline slot with its similarity to the previous frame,
	// plus the count of slots with no frame yet. Missing frames are
	// dispatched for background capture, deduplicated by a short
	// advisory lock.
	Thumbnails(ctx context.Context, slug string) (*domain.ThumbnailsResponse, error)
}

type thumbnailService struct {
	events     repository.EventRepository
	pictures   repository.PictureRepository
	cache      cache.Service
	comparer   ImageComparer
	dispatcher taskqueue.Dispatcher
}

// NewThumbnailService creates a new ThumbnailService
func NewThumbnailService(
	events repository.EventRepository,
	pictures repository.PictureRepository,
	cacheService cache.Service,
	comparer ImageComparer,
	dispatcher taskqueue.Dispatcher,
) ThumbnailService {
	return &thumbnailService{
		events:     events,
		pictures:   pictures,
		cache:      cacheService,
		comparer:   comparer,
		dispatcher: dispatcher,
	}
}

func (s *thumbnailService) Thumbnails(ctx context.Context, slug string) (*domain.ThumbnailsResponse, error) {
	event, err := s.events.FindBySlug(slug)
	if err != nil {
		return nil, err
	}

	resp := &domain.ThumbnailsResponse{Pictures: []domain.ThumbnailFrame{}}
	var fetch []int
	var prev *domain.Picture

	for _, at := range timenailTimestamps(event.Duration) {
		picture, err := s.pictures.LatestFrame(event.ID, at)
		if errors.Is(err, common.ErrPictureNotFound) {
			resp.Missing++
			s.scheduleFetch(ctx, event.ID, at, &fetch)
			continue
		}
		if err != nil {
			return nil, err
		}

		similarity, err := s.similarity(ctx, prev, picture)
		if err != nil {
			return nil, err
		}
		prev = picture

		resp.Pictures = append(resp.Pictures, domain.ThumbnailFrame{
			At: at,
			Thumbnail: domain.ThumbnailInfo{
				URL:    resizeURL(picture.File, frameThumbWidth, frameThumbHeight),
				Width:  frameThumbWidth,
				Height: frameThumbHeight,
			},
			Similarity: similarity,
		})
	}

	// fan the missing frames out in small batches so one worker never
	// bites off an entire event
	for i := 0; i < len(fetch); i += fetchBatchSize {
		end := i + fetchBatchSize
		if end > len(fetch) {
			end = len(fetch)
		}
		if err := s.dispatcher.DispatchTimestampPictures(ctx, event.ID, fetch[i:end]); err != nil {
			pkglogger.GetLogger().Warn().Err(err).
				Uint("event_id", event.ID).
				Msg("failed to dispatch frame fetch job")
		}
	}

	return resp, nil
}

// scheduleFetch marks a missing frame for background capture unless
// another request already holds the advisory lock for it. The lock is
// best-effort dedup only; duplicate fetches are wasteful, not wrong.
func (s *thumbnailService) scheduleFetch(ctx context.Context, eventID uint, at int, fetch *[]int) {
	key := fmt.Sprintf("%d-%d", eventID, at)
	acquired, err := s.cache.AcquireLock(ctx, key, cache.TTLFetchLock)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("lock", key).Msg("fetch lock check failed")
		return
	}
	if acquired {
		*fetch = append(*fetch, at)
	}
}

// similarity scores a frame against the previous one, memoized in the
// cache keyed by both modification times so a re-captured frame gets
// a fresh score.
func (s *thumbnailService) similarity(ctx context.Context, prev, current *domain.Picture) (*float64, error) {
	if prev == nil || s.comparer == nil {
		return nil, nil
	}

	key := fmt.Sprintf("%d%d", prev.Modified.UnixNano(), current.Modified.UnixNano())
	if score, ok, err := s.cache.GetSimilarity(ctx, key); err != nil {
		return nil, err
	} else if ok {
		return &score, nil
	}

	score, err := s.comparer.Similarity(ctx, prev.File, current.File)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetSimilarity(ctx, key, score); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("failed to memoize similarity score")
	}
	return &score, nil
}

// timenailTimestamps lays out the candidate frame timeline: one slot
// every timenailInterval seconds, starting one interval in, capped at
// timenailMaxFrames. Unknown duration yields no slots.
func timenailTimestamps(duration int) []int {
	var out []int
	for at := timenailInterval; at < duration && len(out) < timenailMaxFrames; at += timenailInterval {
		out = append(out, at)
	}
	return out
}
