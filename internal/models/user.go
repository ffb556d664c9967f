package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	Username     *string   `gorm:"unique;size:80" json:"username,omitempty"` // public handle, nil until setup completes
	Email        string    `gorm:"unique;not null;size:120" json:"email"`
	PasswordHash string    `gorm:"not null;size:255" json:"-"`
	APIKey       string    `gorm:"unique;index;size:36" json:"api_key"`
	IsAdmin      bool      `gorm:"default:false" json:"is_admin"`
	SpyPixel     bool      `gorm:"default:false" json:"spy_pixel"`
	RequireSetup bool      `gorm:"default:true" json:"require_setup"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	Links    []Link    `gorm:"foreignKey:UserID" json:"links,omitempty"`
	Profiles []Profile `gorm:"foreignKey:UserID" json:"profiles,omitempty"`
}
