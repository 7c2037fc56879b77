package models

// Category groups posts. Titles are unique across active and retired rows.
type Category struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"size:50;not null;uniqueIndex" json:"title"`
	IsActive bool   `gorm:"not null;default:true;index" json:"-"`
}
