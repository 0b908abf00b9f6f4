package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventcast/eventcast-backend/internal/common"
	"github.com/eventcast/eventcast-backend/internal/domain"
	"github.com/eventcast/eventcast-backend/internal/middleware"
	"github.com/eventcast/eventcast-backend/internal/service"
)

// EventEditHandler handles HTTP requests for event editing
type EventEditHandler struct {
	service service.EditService
}

// NewEventEditHandler creates a new EventEditHandler
func NewEventEditHandler(service service.EditService) *EventEditHandler {
	return &EventEditHandler{service: service}
}

// EditForm godoc
// @Summary      Load the event edit form
// @Description  Returns the event, the baseline snapshot to echo back on submit, and the revision history
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path      string  true  "Event slug"
// @Success      200  {object}  common.APIResponse{data=domain.EventEditForm}
// @Failure      404  {object}  common.APIResponse
// @Router       /events/{slug}/edit [get]
func (h *EventEditHandler) EditForm(c *gin.Context) {
	slug := c.Param("slug")

	form, err := h.service.EditForm(c.Request.Context(), slug)
	if errors.Is(err, common.ErrEventNotFound) {
		common.ErrorResponse(c, 404, "Event not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to load edit form", err)
		return
	}

	common.SuccessResponse(c, form, nil)
}

// SubmitEdit godoc
// @Summary      Submit an event edit
// @Description  Applies the submitted fields against the client's baseline snapshot. Concurrent edits of the same field are reported per-field as a conflict instead of a blanket failure.
// @Tags         events
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        slug      path      string  true  "Event slug"
// @Param        previous  formData  string  true  "Baseline snapshot JSON as served by the edit form"
// @Success      200  {object}  common.APIResponse{data=domain.EditResult}  "outcome changed or noop"
// @Failure      400  {object}  common.APIResponse  "validation failure"
// @Failure      404  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse{data=domain.EditResult}  "outcome conflict with conflicting_fields"
// @Router       /events/{slug}/edit [post]
func (h *EventEditHandler) SubmitEdit(c *gin.Context) {
	slug := c.Param("slug")

	var req domain.EventEditRequest
	if err := c.ShouldBind(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}
	if file, err := c.FormFile("placeholder_img"); err == nil {
		req.PlaceholderImg = file
	}

	// structural validation ends the request before any database work
	if fieldErrs := req.Validate(); fieldErrs != nil {
		common.ValidationErrorResponse(c, fieldErrs)
		return
	}

	userID := middleware.GetUserID(c)

	result, err := h.service.SubmitEdit(c.Request.Context(), slug, &req, userID)
	switch {
	case errors.Is(err, common.ErrEventNotFound),
		errors.Is(err, common.ErrChannelNotFound),
		errors.Is(err, common.ErrPictureNotFound):
		common.ErrorResponse(c, 404, err.Error(), err)
		return
	case errors.Is(err, common.ErrInvalidBaseline):
		common.ErrorResponse(c, 400, "Baseline snapshot does not match this event", err)
		return
	case err != nil:
		common.ErrorResponse(c, 500, "Failed to submit edit", err)
		return
	}

	middleware.CountEditOutcome(string(result.Outcome))

	if result.Outcome == domain.OutcomeConflict {
		c.JSON(http.StatusConflict, common.APIResponse{Data: result})
		return
	}
	common.SuccessResponse(c, result, nil)
}
