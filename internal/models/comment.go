package models

import "time"

// Comment is a reply on a post, optionally threaded one level under another comment.
type Comment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	IsActive        bool      `gorm:"not null;default:true;index" json:"isActive"`
	CreatedDate     time.Time `gorm:"autoCreateTime" json:"createdDate"`
	PostID          uint      `gorm:"not null;index" json:"post"`
	ParentCommentID *uint     `gorm:"index" json:"parentComment"`
	ParentComment   *Comment  `gorm:"foreignKey:ParentCommentID;constraint:OnDelete:RESTRICT" json:"-"`
	AuthorID        *uint     `gorm:"index" json:"author"`
	Author          *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`
}

// OwnedBy mirrors Post.OwnedBy.
func (c *Comment) OwnedBy(userID uint) bool {
	return c.AuthorID == nil || *c.AuthorID == userID
}
