package service

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/eventcast/eventcast-backend/internal/domain"
	"github.com/eventcast/eventcast-backend/internal/repository"
	pkglogger "github.com/eventcast/eventcast-backend/pkg/logger"
	"github.com/eventcast/eventcast-backend/pkg/storage"
)

func TestMain(m *testing.M) {
	pkglogger.InitStructured("test")
	os.Exit(m.Run())
}

// --- Fake TxManager ---

// fakeTxManager runs the callback without a real transaction. Rollback
// cannot be observed here; tests assert it indirectly by checking that
// no mutating repository call was recorded after a conflict.
type fakeTxManager struct{}

func (fakeTxManager) Do(fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// --- Mock EventRepository ---

type mockEventRepo struct {
	mock.Mock
}

func (m *mockEventRepo) WithTx(tx *gorm.DB) repository.EventRepository { return m }

func (m *mockEventRepo) FindBySlug(slug string) (*domain.Event, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *mockEventRepo) Save(event *domain.Event) error {
	return m.Called(event).Error(0)
}

func (m *mockEventRepo) TagIDs(eventID uint) ([]uint, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *mockEventRepo) ChannelIDs(eventID uint) ([]uint, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *mockEventRepo) ReplaceTags(event *domain.Event, tags []domain.Tag) error {
	return m.Called(event, tags).Error(0)
}

func (m *mockEventRepo) ReplaceChannels(event *domain.Event, channels []domain.Channel) error {
	return m.Called(event, channels).Error(0)
}

// --- Mock TagRepository ---

type mockTagRepo struct {
	mock.Mock
}

func (m *mockTagRepo) WithTx(tx *gorm.DB) repository.TagRepository { return m }

func (m *mockTagRepo) FindByIDs(ids []uint) ([]domain.Tag, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tag), args.Error(1)
}

func (m *mockTagRepo) FindByNameFold(name string) (*domain.Tag, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tag), args.Error(1)
}

func (m *mockTagRepo) Create(tag *domain.Tag) error {
	return m.Called(tag).Error(0)
}

// --- Mock ChannelRepository ---

type mockChannelRepo struct {
	mock.Mock
}

func (m *mockChannelRepo) WithTx(tx *gorm.DB) repository.ChannelRepository { return m }

func (m *mockChannelRepo) FindByIDs(ids []uint) ([]domain.Channel, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Channel), args.Error(1)
}

// --- Mock PictureRepository ---

type mockPictureRepo struct {
	mock.Mock
}

func (m *mockPictureRepo) WithTx(tx *gorm.DB) repository.PictureRepository { return m }

func (m *mockPictureRepo) FindByID(id uint) (*domain.Picture, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Picture), args.Error(1)
}

func (m *mockPictureRepo) LatestFrame(eventID uint, timestamp int) (*domain.Picture, error) {
	args := m.Called(eventID, timestamp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Picture), args.Error(1)
}

func (m *mockPictureRepo) Create(picture *domain.Picture) error {
	return m.Called(picture).Error(0)
}

// --- Mock RevisionRepository ---

type mockRevisionRepo struct {
	mock.Mock
}

func (m *mockRevisionRepo) WithTx(tx *gorm.DB) repository.RevisionRepository { return m }

func (m *mockRevisionRepo) CreateFromEvent(event *domain.Event, userID *string) (*domain.EventRevision, error) {
	args := m.Called(event, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventRevision), args.Error(1)
}

func (m *mockRevisionRepo) FindByEvent(eventID uint) ([]*domain.EventRevision, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EventRevision), args.Error(1)
}

func (m *mockRevisionRepo) FindByEventAndID(eventID, id uint) (*domain.EventRevision, error) {
	args := m.Called(eventID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventRevision), args.Error(1)
}

func (m *mockRevisionRepo) PreviousOf(rev *domain.EventRevision) (*domain.EventRevision, error) {
	args := m.Called(rev)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventRevision), args.Error(1)
}

func (m *mockRevisionRepo) Count(eventID uint) (int64, error) {
	args := m.Called(eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRevisionRepo) Delete(rev *domain.EventRevision) error {
	return m.Called(rev).Error(0)
}

// --- Mock ChapterRepository ---

type mockChapterRepo struct {
	mock.Mock
}

func (m *mockChapterRepo) WithTx(tx *gorm.DB) repository.ChapterRepository { return m }

func (m *mockChapterRepo) FindActiveByEvent(eventID uint) ([]domain.Chapter, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Chapter), args.Error(1)
}

func (m *mockChapterRepo) FindByEventAndTimestamp(eventID uint, timestamp int) (*domain.Chapter, error) {
	args := m.Called(eventID, timestamp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chapter), args.Error(1)
}

func (m *mockChapterRepo) Create(chapter *domain.Chapter) error {
	return m.Called(chapter).Error(0)
}

func (m *mockChapterRepo) Save(chapter *domain.Chapter) error {
	return m.Called(chapter).Error(0)
}

// --- Mock cache.Service ---

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	return m.Called(ctx, key, dest).Error(0)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *mockCache) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) GetSimilarity(ctx context.Context, key string) (float64, bool, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

func (m *mockCache) SetSimilarity(ctx context.Context, key string, score float64) error {
	return m.Called(ctx, key, score).Error(0)
}

func (m *mockCache) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) IsAvailable() bool { return true }

func (m *mockCache) Ping(ctx context.Context) error { return nil }

// --- Mock taskqueue.Dispatcher ---

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) DispatchChapterImages(ctx context.Context, chapterID uint) error {
	return m.Called(ctx, chapterID).Error(0)
}

func (m *mockDispatcher) DispatchTimestampPictures(ctx context.Context, eventID uint, timestamps []int) error {
	return m.Called(ctx, eventID, timestamps).Error(0)
}

// --- Mock ImageComparer ---

type mockComparer struct {
	mock.Mock
}

func (m *mockComparer) Similarity(ctx context.Context, fileA, fileB string) (float64, error) {
	args := m.Called(ctx, fileA, fileB)
	return args.Get(0).(float64), args.Error(1)
}

// --- Mock Uploader ---

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*storage.UploadResult, error) {
	args := m.Called(ctx, key, body, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}
