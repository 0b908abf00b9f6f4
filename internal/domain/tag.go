package domain

// Tag is identity-by-name; matching against submitted names is
// case-insensitive but the stored casing is preserved
type Tag struct {
	ID   uint   `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name;size:100;index" json:"name"`
}

func (Tag) TableName() string {
	return "tags"
}
