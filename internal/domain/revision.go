package domain

import "time"

// EventRevision is an immutable snapshot of an event's editable fields
// at one point in time. Rows are append-only: a revision is never
// updated after creation, only deleted (exactly once) when it was
// synthesized as a baseline and the edit turned out to be a no-op.
//
// Tags and Channels are frozen as sorted comma-joined names so a
// historical revision renders the same labels the diff showed, even
// after the live tags or channels are renamed or removed.
type EventRevision struct {
	ID               uint      `gorm:"column:id;primaryKey" json:"id"`
	EventID          uint      `gorm:"column:event_id;index" json:"event_id"`
	UserID           *string   `gorm:"column:user_id;size:100" json:"user_id"` // nil for synthesized baselines
	Title            string    `gorm:"column:title;size:200" json:"title"`
	Description      string    `gorm:"column:description;type:text" json:"description"`
	ShortDescription string    `gorm:"column:short_description;type:text" json:"short_description"`
	CallInfo         string    `gorm:"column:call_info;type:text" json:"call_info"`
	AdditionalLinks  string    `gorm:"column:additional_links;type:text" json:"additional_links"`
	PlaceholderImg   string    `gorm:"column:placeholder_img;size:500" json:"placeholder_img"`
	PictureID        *uint     `gorm:"column:picture_id" json:"picture_id"`
	Tags             string    `gorm:"column:tags;type:text" json:"tags"`
	Channels         string    `gorm:"column:channels;type:text" json:"channels"`
	CreatedAt        time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (EventRevision) TableName() string {
	return "event_revisions"
}

// RevisionSummary list row for revision history display
type RevisionSummary struct {
	ID        uint      `json:"id"`
	UserID    *string   `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ToSummary converts a revision to its history-list form
func (r *EventRevision) ToSummary() *RevisionSummary {
	return &RevisionSummary{
		ID:        r.ID,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
	}
}

// FieldDifference one changed field in a revision comparison
type FieldDifference struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Before string `json:"before"`
	After  string `json:"after"`
}
