package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventcast/eventcast-backend/internal/domain"
)

func TestBuildSnapshot(t *testing.T) {
	picID := uint(5)
	event := &domain.Event{
		ID:               7,
		Title:            "Launch Party",
		Description:      "The big launch.",
		ShortDescription: "Launch",
		CallInfo:         "dial 1234",
		AdditionalLinks:  "https://example.com",
		PictureID:        &picID,
		PlaceholderImg:   "placeholders/launch.png",
		Tags:             []domain.Tag{{ID: 1, Name: "launch"}, {ID: 2, Name: "video"}},
		Channels:         []domain.Channel{{ID: 1, Name: "Main"}},
	}

	snap := BuildSnapshot(event)

	assert.Equal(t, uint(7), snap.EventID)
	assert.Equal(t, "Launch Party", snap.Title)
	assert.Equal(t, []uint{1, 2}, snap.Tags)
	assert.Equal(t, []uint{1}, snap.Channels)
	require.NotNil(t, snap.Picture)
	assert.Equal(t, picID, *snap.Picture)
	require.NotNil(t, snap.PlaceholderImg)
	assert.Equal(t, "placeholders/launch.png", *snap.PlaceholderImg)
	assert.Equal(t, "placeholders/launch.png?width=121&height=68&crop=center", snap.ThumbnailURL)
}

func TestBuildSnapshot_PictureFileWinsForThumbnail(t *testing.T) {
	event := &domain.Event{
		ID:             7,
		PlaceholderImg: "placeholders/launch.png",
		Picture:        &domain.Picture{ID: 5, File: "gallery/cover.png"},
	}

	snap := BuildSnapshot(event)
	assert.Equal(t, "gallery/cover.png?width=121&height=68&crop=center", snap.ThumbnailURL)
}

func TestBuildSnapshot_Empty(t *testing.T) {
	snap := BuildSnapshot(&domain.Event{ID: 7})

	assert.Nil(t, snap.Picture)
	assert.Nil(t, snap.PlaceholderImg)
	assert.Empty(t, snap.ThumbnailURL)
	assert.Empty(t, snap.Tags)
	assert.Empty(t, snap.Channels)
}

func TestResizeURL(t *testing.T) {
	assert.Equal(t,
		"frames/7-30.png?width=160&height=90&crop=center",
		resizeURL("frames/7-30.png", frameThumbWidth, frameThumbHeight))
}
