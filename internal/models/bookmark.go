package models

import (
	"time"
)

type BookmarkFolder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Color     string    `gorm:"size:9" json:"color"`
	ParentID  *uint     `gorm:"index" json:"parent_id"` // nil marks the per-user root
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	Bookmarks  []Bookmark       `gorm:"foreignKey:FolderID" json:"bookmarks,omitempty"`
	Subfolders []BookmarkFolder `gorm:"foreignKey:ParentID" json:"subfolders,omitempty"`
}

type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FolderID  uint      `gorm:"not null;index" json:"folder_id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	URL       string    `gorm:"not null;type:text" json:"url"`
	Color     string    `gorm:"size:9" json:"color"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}
