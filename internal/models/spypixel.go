package models

import (
	"time"
)

type SpyPixel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Slug      string    `gorm:"unique;not null;size:20;index" json:"slug"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}
