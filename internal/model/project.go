package model

import "time"

const DailyUnchecked = "UNCHECKED"

// Project names are unique per owner, not globally; the composite unique
// index backs the check-then-act duplicate test in the service.
type Project struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	OwnerID  string `gorm:"size:36;not null;uniqueIndex:idx_owner_name" json:"owner_id"`
	Name     string `gorm:"size:128;not null;uniqueIndex:idx_owner_name" json:"name"`
	Twitter  string `gorm:"size:255" json:"twitter"`
	Discord  string `gorm:"size:255" json:"discord"`
	Telegram string `gorm:"size:255" json:"telegram"`
	Wallet   string `gorm:"size:255" json:"wallet"`
	Email    string `gorm:"size:255" json:"email"`
	Github   string `gorm:"size:255" json:"github"`
	Website  string `gorm:"size:255" json:"website"`
	Notes    string `gorm:"type:text" json:"notes"`

	Tags []string `gorm:"serializer:json" json:"tags"`

	Daily      string    `gorm:"size:32;not null;default:UNCHECKED" json:"daily"`
	LastUpdate time.Time `json:"last_update"`
}
