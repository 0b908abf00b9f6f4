package common

import "errors"

// Business logic errors
var (
	ErrForbidden = errors.New("forbidden")

	// Event errors
	ErrEventNotFound   = errors.New("event not found")
	ErrChannelNotFound = errors.New("channel not found")
	ErrTagNotFound     = errors.New("tag not found")
	ErrPictureNotFound = errors.New("picture not found")

	// Revision errors
	ErrRevisionNotFound = errors.New("revision not found")

	// Chapter errors
	ErrChapterNotFound = errors.New("chapter not found")

	// Edit errors
	ErrInvalidBaseline = errors.New("invalid baseline snapshot")
)
