package domain

import "time"

// Event represents an editable media event record
type Event struct {
	ID               uint      `gorm:"column:id;primaryKey" json:"id"`
	Slug             string    `gorm:"column:slug;uniqueIndex;size:215" json:"slug"`
	Title            string    `gorm:"column:title;size:200" json:"title"`
	Description      string    `gorm:"column:description;type:text" json:"description"`
	ShortDescription string    `gorm:"column:short_description;type:text" json:"short_description"`
	CallInfo         string    `gorm:"column:call_info;type:text" json:"call_info"`
	AdditionalLinks  string    `gorm:"column:additional_links;type:text" json:"additional_links"`
	Duration         int       `gorm:"column:duration" json:"duration"` // seconds, 0 when unknown
	PictureID        *uint     `gorm:"column:picture_id" json:"picture_id"`
	Picture          *Picture  `gorm:"foreignKey:PictureID" json:"picture,omitempty"`
	PlaceholderImg   string    `gorm:"column:placeholder_img;size:500" json:"placeholder_img"`
	Tags             []Tag     `gorm:"many2many:event_tags" json:"tags,omitempty"`
	Channels         []Channel `gorm:"many2many:event_channels" json:"channels,omitempty"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

// IsScheduled reports whether the event has a known video duration,
// i.e. chapters can be placed on its timeline
func (e *Event) IsScheduled() bool {
	return e.Duration > 0
}
