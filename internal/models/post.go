// Package models contains data structures for the application's domain models.
package models

import "time"

// TimeOfDay buckets a meetup into a part of the day.
type TimeOfDay int

const (
	Morning TimeOfDay = iota
	Afternoon
	Evening
)

// Valid reports whether t is one of the defined buckets.
func (t TimeOfDay) Valid() bool {
	return t >= Morning && t <= Evening
}

// Field limits shared by validation and the schema.
const (
	MaxTitleLength    = 50
	MaxLocationLength = 255
)

// Post is a meetup announcement.
type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:50;not null" json:"title"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Location    string     `gorm:"size:255;not null" json:"location"`
	Capacity    int        `gorm:"not null" json:"capacity"`
	Date        Date       `gorm:"type:date;not null;index" json:"date"`
	TimeOfDay   TimeOfDay  `gorm:"not null" json:"timeOfDay"`
	IsActive    bool       `gorm:"not null;default:true;index" json:"-"`
	CreatedDate time.Time  `gorm:"autoCreateTime;index" json:"createdDate"`
	AuthorID    *uint      `gorm:"index" json:"author"`
	Author      *User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`
	CategoryID  *uint      `gorm:"index" json:"-"`
	Category    *Category  `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category"`
	Tags        []Tag      `gorm:"many2many:post_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Comments    []*Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	// Likes is not persisted; computed at query time
	Likes int64 `gorm:"->;-:migration" json:"likes"`
}

// OwnedBy applies the ownership rule: posts without an author are open to any
// authenticated caller.
func (p *Post) OwnedBy(userID uint) bool {
	return p.AuthorID == nil || *p.AuthorID == userID
}
