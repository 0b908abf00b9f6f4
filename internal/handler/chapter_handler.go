package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/eventcast/eventcast-backend/internal/common"
	"github.com/eventcast/eventcast-backend/internal/domain"
	"github.com/eventcast/eventcast-backend/internal/middleware"
	"github.com/eventcast/eventcast-backend/internal/service"
)

// ChapterHandler handles HTTP requests for event chapters
type ChapterHandler struct {
	service service.ChapterService
}

// NewChapterHandler creates a new ChapterHandler
func NewChapterHandler(service service.ChapterService) *ChapterHandler {
	return &ChapterHandler{service: service}
}

// ListChapters godoc
// @Summary      List active chapters
// @Tags         chapters
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path      string  true  "Event slug"
// @Success      200  {object}  common.APIResponse{data=[]domain.ChapterResponse}
// @Failure      404  {object}  common.APIResponse
// @Router       /events/{slug}/chapters [get]
func (h *ChapterHandler) ListChapters(c *gin.Context) {
	slug := c.Param("slug")

	chapters, err := h.service.List(c.Request.Context(), slug)
	if errors.Is(err, common.ErrEventNotFound) {
		common.ErrorResponse(c, 404, "Event not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to list chapters", err)
		return
	}

	common.SuccessResponse(c, chapters, nil)
}

// SaveChapter godoc
// @Summary      Create, update or delete a chapter
// @Description  Upserts the chapter at the given timestamp; with delete=true the chapter is deactivated instead
// @Tags         chapters
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug     path      string                     true  "Event slug"
// @Param        request  body      domain.ChapterSaveRequest  true  "Chapter payload"
// @Success      200  {object}  common.APIResponse
// @Failure      400  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse  "event has no timeline yet"
// @Failure      404  {object}  common.APIResponse
// @Router       /events/{slug}/chapters [post]
func (h *ChapterHandler) SaveChapter(c *gin.Context) {
	slug := c.Param("slug")

	var req domain.ChapterSaveRequest
	if err := c.ShouldBind(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	userID := middleware.GetUserID(c)

	err := h.service.Save(c.Request.Context(), slug, &req, userID)
	switch {
	case errors.Is(err, common.ErrEventNotFound), errors.Is(err, common.ErrChapterNotFound):
		common.ErrorResponse(c, 404, err.Error(), err)
		return
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, 403, "Chapters can only be edited on scheduled events", err)
		return
	case err != nil:
		common.ErrorResponse(c, 500, "Failed to save chapter", err)
		return
	}

	common.SuccessResponse(c, gin.H{"ok": true}, nil)
}
