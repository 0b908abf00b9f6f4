package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/eventcast/eventcast-backend/internal/common"
	"github.com/eventcast/eventcast-backend/internal/service"
)

// ThumbnailHandler handles HTTP requests for chapter frame thumbnails
type ThumbnailHandler struct {
	service service.ThumbnailService
}

// NewThumbnailHandler creates a new ThumbnailHandler
func NewThumbnailHandler(service service.ThumbnailService) *ThumbnailHandler {
	return &ThumbnailHandler{service: service}
}

// Thumbnails godoc
// @Summary      Frame thumbnail strip for the chapter editor
// @Description  One thumbnail per timeline slot with similarity to the previous frame; missing frames are dispatched for background capture
// @Tags         chapters
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path      string  true  "Event slug"
// @Success      200  {object}  common.APIResponse{data=domain.ThumbnailsResponse}
// @Failure      404  {object}  common.APIResponse
// @Router       /events/{slug}/chapters/thumbnails [get]
func (h *ThumbnailHandler) Thumbnails(c *gin.Context) {
	slug := c.Param("slug")

	resp, err := h.service.Thumbnails(c.Request.Context(), slug)
	if errors.Is(err, common.ErrEventNotFound) {
		common.ErrorResponse(c, 404, "Event not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to build thumbnails", err)
		return
	}

	// the response drives an editor polling loop; never cache it
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	common.SuccessResponse(c, resp, nil)
}
