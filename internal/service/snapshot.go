package service

import (
	"fmt"

	"github.com/eventcast/eventcast-backend/internal/domain"
)

// Thumbnail sizes rendered by the CDN image proxy
const (
	editThumbWidth  = 121
	editThumbHeight = 68

	frameThumbWidth  = 160
	frameThumbHeight = 90
)

// BuildSnapshot projects an event into the serializable snapshot of
// its editable fields. Pure function of the (preloaded) event struct;
// relation order follows the relation's iteration order and carries
// no meaning for equality.
func BuildSnapshot(event *domain.Event) *domain.EventSnapshot {
	snap := &domain.EventSnapshot{
		EventID:          event.ID,
		Title:            event.Title,
		Description:      event.Description,
		ShortDescription: event.ShortDescription,
		CallInfo:         event.CallInfo,
		AdditionalLinks:  event.AdditionalLinks,
		Picture:          event.PictureID,
		Channels:         make([]uint, len(event.Channels)),
		Tags:             make([]uint, len(event.Tags)),
	}
	for i, ch := range event.Channels {
		snap.Channels[i] = ch.ID
	}
	for i, t := range event.Tags {
		snap.Tags[i] = t.ID
	}

	if event.PlaceholderImg != "" {
		url := event.PlaceholderImg
		snap.PlaceholderImg = &url

		file := event.PlaceholderImg
		if event.Picture != nil {
			file = event.Picture.File
		}
		snap.ThumbnailURL = resizeURL(file, editThumbWidth, editThumbHeight)
	}

	return snap
}

// resizeURL builds a CDN image-proxy URL for a stored file. Actual
// resizing and cropping happen at the edge, not in this process.
func resizeURL(file string, width, height int) string {
	return fmt.Sprintf("%s?width=%d&height=%d&crop=center", file, width, height)
}
