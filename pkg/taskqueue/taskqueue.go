package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	pkglogger "github.com/eventcast/eventcast-backend/pkg/logger"
)

// Job types consumed by the media worker fleet
const (
	JobChapterImages     = "chapter_images"
	JobTimestampPictures = "timestamp_pictures"
)

// QueueKey is the Redis list the workers BRPOP from
const QueueKey = "eventcast:tasks"

// Job is a fire-and-forget unit of background work
type Job struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`

	ChapterID  uint  `json:"chapter_id,omitempty"`
	EventID    uint  `json:"event_id,omitempty"`
	Timestamps []int `json:"timestamps,omitempty"`
}

// Dispatcher enqueues background jobs without waiting for results
type Dispatcher interface {
	DispatchChapterImages(ctx context.Context, chapterID uint) error
	DispatchTimestampPictures(ctx context.Context, eventID uint, timestamps []int) error
}

// redisDispatcher pushes JSON jobs onto a Redis list
type redisDispatcher struct {
	client *redis.Client
}

// NewRedisDispatcher creates a Redis-backed job dispatcher
func NewRedisDispatcher(client *redis.Client) Dispatcher {
	return &redisDispatcher{client: client}
}

func (d *redisDispatcher) enqueue(ctx context.Context, job *Job) error {
	if d.client == nil {
		// no Redis, background work is skipped
		pkglogger.GetLogger().Warn().
			Str("job_type", job.Type).
			Msg("task queue unavailable, job dropped")
		return nil
	}

	job.ID = uuid.New().String()
	job.CreatedAt = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("task marshal failed: %w", err)
	}

	if err := d.client.LPush(ctx, QueueKey, data).Err(); err != nil {
		return fmt.Errorf("task enqueue failed: %w", err)
	}

	pkglogger.GetLogger().Debug().
		Str("job_id", job.ID).
		Str("job_type", job.Type).
		Msg("job enqueued")
	return nil
}

// DispatchChapterImages enqueues thumbnail generation for a chapter
func (d *redisDispatcher) DispatchChapterImages(ctx context.Context, chapterID uint) error {
	return d.enqueue(ctx, &Job{
		Type:      JobChapterImages,
		ChapterID: chapterID,
	})
}

// DispatchTimestampPictures enqueues frame capture for missing timestamps
func (d *redisDispatcher) DispatchTimestampPictures(ctx context.Context, eventID uint, timestamps []int) error {
	return d.enqueue(ctx, &Job{
		Type:       JobTimestampPictures,
		EventID:    eventID,
		Timestamps: timestamps,
	})
}
