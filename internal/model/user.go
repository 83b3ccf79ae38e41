package model

import "time"

// User ids are opaque UUID strings assigned by the services at creation.
// Username and email uniqueness is enforced at the storage level so that
// concurrent duplicate registrations cannot both slip past the existence check.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:128;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	IsApproved   bool      `gorm:"not null;default:false" json:"is_approved"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}
