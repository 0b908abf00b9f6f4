package domain

// Channel groups events into a browsable category
type Channel struct {
	ID   uint   `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name;size:200" json:"name"`
	Slug string `gorm:"column:slug;uniqueIndex;size:100" json:"slug"`
}

func (Channel) TableName() string {
	return "channels"
}
