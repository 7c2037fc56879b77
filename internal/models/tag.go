package models

// Tag is a free-form, case-sensitive label attached to posts by title.
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Title string `gorm:"size:50;not null;uniqueIndex" json:"title"`
}
