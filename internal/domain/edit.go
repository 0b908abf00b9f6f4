package domain

import (
	"mime/multipart"
	"strings"
)

// EventSnapshot is the serializable projection of an event's editable
// fields. It is shown to the client when editing starts and echoed
// back verbatim as the baseline the client asserts was current.
// Relation fields are flattened to identifier lists; iteration order
// is not significant for equality, only for display.
type EventSnapshot struct {
	EventID          uint    `json:"event_id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	ShortDescription string  `json:"short_description"`
	Channels         []uint  `json:"channels"`
	Tags             []uint  `json:"tags"`
	CallInfo         string  `json:"call_info"`
	AdditionalLinks  string  `json:"additional_links"`
	Picture          *uint   `json:"picture"`
	PlaceholderImg   *string `json:"placeholder_img,omitempty"`
	ThumbnailURL     string  `json:"thumbnail_url,omitempty"`
}

// EditOutcome the three terminal states of an edit transaction
type EditOutcome string

const (
	OutcomeConflict EditOutcome = "conflict"
	OutcomeChanged  EditOutcome = "changed"
	OutcomeNoop     EditOutcome = "noop"
)

// FieldChange a before/after pair for one changed field.
// Scalar fields carry raw values; relation fields carry sorted,
// comma-joined label lists.
type FieldChange struct {
	From interface{} `json:"from"`
	To   interface{} `json:"to"`
}

// ChangeSet fields whose submitted value differs from baseline
type ChangeSet map[string]FieldChange

// EditResult outcome of one edit submission
type EditResult struct {
	Outcome           EditOutcome      `json:"outcome"`
	ConflictingFields []string         `json:"conflicting_fields,omitempty"`
	Changes           ChangeSet        `json:"changes,omitempty"`
	Revision          *RevisionSummary `json:"revision,omitempty"`
}

// EventEditRequest one edit submission: new field values plus the
// baseline snapshot the client loaded (serialized JSON in Previous)
type EventEditRequest struct {
	Title            string   `form:"title" json:"title"`
	Description      string   `form:"description" json:"description"`
	ShortDescription string   `form:"short_description" json:"short_description"`
	CallInfo         string   `form:"call_info" json:"call_info"`
	AdditionalLinks  string   `form:"additional_links" json:"additional_links"`
	Channels         []uint   `form:"channels" json:"channels"`
	Tags             []string `form:"tags" json:"tags"` // tag names, not ids
	Picture          *uint    `form:"picture" json:"picture"`
	Previous         string   `form:"previous" json:"previous"`

	// bound from multipart by the handler, never from JSON
	PlaceholderImg *multipart.FileHeader `form:"placeholder_img" json:"-"`
}

// Validate runs structural checks and returns per-field errors.
// Runs before any database work.
func (r *EventEditRequest) Validate() map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(r.Title) == "" {
		errs["title"] = "title is required"
	} else if len(r.Title) > 200 {
		errs["title"] = "title must be at most 200 characters"
	}
	if len(r.Channels) == 0 {
		errs["channels"] = "at least one channel is required"
	}
	for _, name := range r.Tags {
		if strings.TrimSpace(name) == "" {
			errs["tags"] = "tag names must not be blank"
			break
		}
	}
	if strings.TrimSpace(r.Previous) == "" {
		errs["previous"] = "baseline snapshot is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// EventEditForm view-model for the edit screen: the event, the
// baseline the client must echo back, and the revision history
type EventEditForm struct {
	Event        *Event             `json:"event"`
	Baseline     *EventSnapshot     `json:"baseline"`
	Previous     string             `json:"previous"` // serialized baseline for round-trip
	Revisions    []*RevisionSummary `json:"revisions"`
	ThumbnailURL string             `json:"thumbnail_url,omitempty"`
}
