package domain

import "time"

// Chapter is a timestamped annotation on an event's video timeline.
// One chapter per (event, timestamp); edits overwrite text and author.
type Chapter struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	EventID   uint      `gorm:"column:event_id;uniqueIndex:idx_event_timestamp" json:"event_id"`
	Timestamp int       `gorm:"column:timestamp;uniqueIndex:idx_event_timestamp" json:"timestamp"`
	Text      string    `gorm:"column:text;size:500" json:"text"`
	UserID    string    `gorm:"column:user_id;size:100" json:"user_id"`
	IsActive  bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Chapter) TableName() string {
	return "chapters"
}

// ChapterSaveRequest upsert payload for a chapter
type ChapterSaveRequest struct {
	Timestamp int    `json:"timestamp" form:"timestamp" binding:"min=0"`
	Text      string `json:"text" form:"text"`
	Delete    bool   `json:"delete,omitempty" form:"delete"`
}

// ChapterResponse chapter with author echo for display
type ChapterResponse struct {
	Timestamp int       `json:"timestamp"`
	Text      string    `json:"text"`
	UserID    string    `json:"user_id"`
	Modified  time.Time `json:"modified"`
}

// ToResponse converts a Chapter to its display form
func (c *Chapter) ToResponse() *ChapterResponse {
	return &ChapterResponse{
		Timestamp: c.Timestamp,
		Text:      c.Text,
		UserID:    c.UserID,
		Modified:  c.UpdatedAt,
	}
}
