package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/eventcast/eventcast-backend/internal/handler"
	"github.com/eventcast/eventcast-backend/internal/middleware"
	"github.com/eventcast/eventcast-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	editHandler *handler.EventEditHandler,
	revisionHandler *handler.RevisionHandler,
	chapterHandler *handler.ChapterHandler,
	thumbnailHandler *handler.ThumbnailHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1")

	// All edit surfaces require an authenticated, active account
	events := api.Group("/events/:slug",
		middleware.JWTAuth(jwtManager),
		middleware.RequireActiveUser(),
	)

	events.GET("/edit", editHandler.EditForm)
	events.POST("/edit", editHandler.SubmitEdit)

	events.GET("/revisions", revisionHandler.ListRevisions)
	events.GET("/revisions/:id", revisionHandler.DiffPrevious)
	events.GET("/revisions/:id/difference", revisionHandler.DiffCurrent)

	events.GET("/chapters", chapterHandler.ListChapters)
	events.POST("/chapters", chapterHandler.SaveChapter)
	events.GET("/chapters/thumbnails", thumbnailHandler.Thumbnails)
}
