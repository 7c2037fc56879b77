package models

import "time"

// User is an email-keyed member account.
type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Email           string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	FirstName       string    `gorm:"size:50;not null" json:"firstName"`
	LastName        string    `gorm:"size:50;not null" json:"lastName"`
	Password        string    `gorm:"size:255;not null" json:"-"`
	IsActive        bool      `gorm:"not null;default:true" json:"isActive"`
	IsStaff         bool      `gorm:"not null" json:"isStaff"`
	Verified        bool      `gorm:"not null" json:"verified"`
	VerificationKey *string   `gorm:"size:64;uniqueIndex" json:"-"`
	DateJoined      time.Time `gorm:"autoCreateTime" json:"dateJoined"`
}
