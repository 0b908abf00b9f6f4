package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eventcast/eventcast-backend/internal/common"
	"github.com/eventcast/eventcast-backend/internal/domain"
)

// --- Mock EditService ---

type mockEditService struct {
	mock.Mock
}

func (m *mockEditService) EditForm(ctx context.Context, slug string) (*domain.EventEditForm, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventEditForm), args.Error(1)
}

func (m *mockEditService) SubmitEdit(ctx context.Context, slug string, req *domain.EventEditRequest, userID string) (*domain.EditResult, error) {
	args := m.Called(ctx, slug, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EditResult), args.Error(1)
}

func setupEditRouter(svc *mockEditService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewEventEditHandler(svc)

	r := gin.New()
	// stand-in for the JWT middleware
	r.Use(func(c *gin.Context) {
		c.Set("userID", "editor1")
		c.Set("isActive", true)
	})
	r.GET("/api/v1/events/:slug/edit", h.EditForm)
	r.POST("/api/v1/events/:slug/edit", h.SubmitEdit)
	return r
}

func validForm() url.Values {
	return url.Values{
		"title":    {"Launch Party"},
		"channels": {"1"},
		"tags":     {"launch", "video"},
		"previous": {`{"event_id":7,"title":"Launch Party","channels":[1],"tags":[1,2]}`},
	}
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// --- Tests ---

func TestEditForm_OK(t *testing.T) {
	svc := new(mockEditService)
	r := setupEditRouter(svc)

	form := &domain.EventEditForm{
		Event:    &domain.Event{ID: 7, Slug: "launch-party"},
		Baseline: &domain.EventSnapshot{EventID: 7},
		Previous: `{"event_id":7}`,
	}
	svc.On("EditForm", mock.Anything, "launch-party").Return(form, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/launch-party/edit", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp common.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Data)
}

func TestEditForm_NotFound(t *testing.T) {
	svc := new(mockEditService)
	r := setupEditRouter(svc)

	svc.On("EditForm", mock.Anything, "gone").Return(nil, common.ErrEventNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/gone/edit", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitEdit_OK(t *testing.T) {
	svc := new(mockEditService)
	r := setupEditRouter(svc)

	result := &domain.EditResult{
		Outcome: domain.OutcomeChanged,
		Changes: domain.ChangeSet{"title": {From: "Old", To: "Launch Party"}},
	}
	svc.On("SubmitEdit", mock.Anything, "launch-party",
		mock.MatchedBy(func(req *domain.EventEditRequest) bool {
			return req.Title == "Launch Party" && len(req.Tags) == 2
		}), "editor1").Return(result, nil)

	w := postForm(r, "/api/v1/events/launch-party/edit", validForm())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"outcome":"changed"`)
}

func TestSubmitEdit_Conflict(t *testing.T) {
	svc := new(mockEditService)
	r := setupEditRouter(svc)

	result := &domain.EditResult{
		Outcome:           domain.OutcomeConflict,
		ConflictingFields: []string{"title"},
	}
	svc.On("SubmitEdit", mock.Anything, "launch-party", mock.Anything, "editor1").
		Return(result, nil)

	w := postForm(r, "/api/v1/events/launch-party/edit", validForm())

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"conflicting_fields":["title"]`)
}

func TestSubmitEdit_ValidationFailure(t *testing.T) {
	svc := new(mockEditService)
	r := setupEditRouter(svc)

	form := validForm()
	form.Set("title", "   ")
	form.Del("channels")

	w := postForm(r, "/api/v1/events/launch-party/edit", form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	assert.Contains(t, w.Body.String(), `"title"`)
	assert.Contains(t, w.Body.String(), `"channels"`)
	svc.AssertNotCalled(t, "SubmitEdit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitEdit_InvalidBaseline(t *testing.T) {
	svc := new(mockEditService)
	r := setupEditRouter(svc)

	svc.On("SubmitEdit", mock.Anything, "launch-party", mock.Anything, "editor1").
		Return(nil, common.ErrInvalidBaseline)

	w := postForm(r, "/api/v1/events/launch-party/edit", validForm())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitEdit_EventNotFound(t *testing.T) {
	svc := new(mockEditService)
	r := setupEditRouter(svc)

	svc.On("SubmitEdit", mock.Anything, "gone", mock.Anything, "editor1").
		Return(nil, common.ErrEventNotFound)

	w := postForm(r, "/api/v1/events/gone/edit", validForm())

	assert.Equal(t, http.StatusNotFound, w.Code)
}
