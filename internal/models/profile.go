package models

import (
	"time"
)

type Profile struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	UserID  uint    `gorm:"not null;index" json:"user_id"`
	User    *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Name    string  `gorm:"size:120;not null" json:"name"`
	AltName *string `gorm:"size:120" json:"alt_name,omitempty"` // private label, never rendered publicly
	Slug    string  `gorm:"unique;not null;size:20;index" json:"slug"`
	Bio     string  `gorm:"type:text" json:"bio"`

	// Display order of profile links, stored as a JSON array of
	// ProfileLink ids. Empty means natural (insertion) order. Readers
	// must tolerate stale ids; see services.OrderedProfileLinks.
	LinkOrder string    `gorm:"type:text" json:"link_order"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	Links []ProfileLink `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"links,omitempty"`
}

type ProfileLink struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProfileID   uint      `gorm:"not null;index" json:"profile_id"`
	Title       string    `gorm:"size:120;not null" json:"title"`
	URL         string    `gorm:"not null;type:text" json:"url"`
	Description string    `gorm:"type:text" json:"description"`
	BgColor     string    `gorm:"size:9" json:"bg_color"`
	FgColor     string    `gorm:"size:9" json:"fg_color"`
	IconURL     string    `gorm:"type:text" json:"icon_url"`
	Visible     bool      `gorm:"default:true" json:"visible"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}
