package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/eventcast/eventcast-backend/internal/common"
	"github.com/eventcast/eventcast-backend/internal/service"
	"github.com/eventcast/eventcast-backend/pkg/ginutil"
)

// RevisionHandler handles HTTP requests for revision history
type RevisionHandler struct {
	service service.RevisionService
}

// NewRevisionHandler creates a new RevisionHandler
func NewRevisionHandler(service service.RevisionService) *RevisionHandler {
	return &RevisionHandler{service: service}
}

// ListRevisions godoc
// @Summary      List event revisions
// @Description  Revision history for an event, newest first
// @Tags         revisions
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path      string  true  "Event slug"
// @Success      200  {object}  common.APIResponse{data=[]domain.RevisionSummary}
// @Failure      404  {object}  common.APIResponse
// @Router       /events/{slug}/revisions [get]
func (h *RevisionHandler) ListRevisions(c *gin.Context) {
	slug := c.Param("slug")

	revisions, err := h.service.ListRevisions(c.Request.Context(), slug)
	if errors.Is(err, common.ErrEventNotFound) {
		common.ErrorResponse(c, 404, "Event not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to list revisions", err)
		return
	}

	common.SuccessResponse(c, revisions, &common.Meta{
		EventSlug: slug,
		Total:     int64(len(revisions)),
	})
}

// DiffPrevious godoc
// @Summary      Compare a revision with the one before it
// @Tags         revisions
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path      string  true  "Event slug"
// @Param        id    path      int     true  "Revision ID"
// @Success      200  {object}  common.APIResponse{data=[]domain.FieldDifference}
// @Failure      404  {object}  common.APIResponse  "unknown revision, or the revision is the earliest"
// @Router       /events/{slug}/revisions/{id} [get]
func (h *RevisionHandler) DiffPrevious(c *gin.Context) {
	h.diff(c, false)
}

// DiffCurrent godoc
// @Summary      Compare a revision with the current event state
// @Tags         revisions
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path      string  true  "Event slug"
// @Param        id    path      int     true  "Revision ID"
// @Success      200  {object}  common.APIResponse{data=[]domain.FieldDifference}
// @Failure      404  {object}  common.APIResponse
// @Router       /events/{slug}/revisions/{id}/difference [get]
func (h *RevisionHandler) DiffCurrent(c *gin.Context) {
	h.diff(c, true)
}

func (h *RevisionHandler) diff(c *gin.Context, againstCurrent bool) {
	slug := c.Param("slug")
	id, err := ginutil.ParamInt(c, "id")
	if err != nil || id < 1 {
		common.ErrorResponse(c, 400, "Invalid revision ID", err)
		return
	}

	differences, err := h.service.DiffRevisions(c.Request.Context(), slug, uint(id), againstCurrent)
	if errors.Is(err, common.ErrEventNotFound) || errors.Is(err, common.ErrRevisionNotFound) {
		common.ErrorResponse(c, 404, err.Error(), err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to compare revisions", err)
		return
	}

	common.SuccessResponse(c, differences, nil)
}
