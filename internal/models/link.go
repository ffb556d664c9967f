package models

import (
	"time"
)

type Link struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Name        string    `gorm:"size:120;not null" json:"name"`
	Slug        string    `gorm:"unique;not null;size:20;index" json:"slug"`
	URL         string    `gorm:"not null;type:text" json:"url"`
	ClicksCount int       `gorm:"column:clicks;default:0" json:"clicks_count"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName overrides the table name used by Link to `links`
func (Link) TableName() string {
	return "links"
}
