package domain

import "time"

// Picture is a stored video frame or gallery image.
// Frame pictures carry the timestamp (seconds into the video) they
// were captured at; the newest picture per (event, timestamp) wins.
type Picture struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	EventID   *uint     `gorm:"column:event_id;index" json:"event_id"`
	Timestamp *int      `gorm:"column:timestamp" json:"timestamp"`
	File      string    `gorm:"column:file;size:500" json:"file"` // object store URL
	Notes     string    `gorm:"column:notes;size:100" json:"notes"`
	Modified  time.Time `gorm:"column:modified;autoUpdateTime" json:"modified"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Picture) TableName() string {
	return "pictures"
}
