package models

import (
	"time"
)

// Click target kinds. One table serves link redirects, profile page
// views and spy pixel hits.
const (
	ClickTargetLink    = "link"
	ClickTargetProfile = "profile"
	ClickTargetPixel   = "pixel"
)

type Click struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TargetType string    `gorm:"size:20;not null;index:idx_clicks_target" json:"target_type"`
	TargetID   uint      `gorm:"not null;index:idx_clicks_target" json:"target_id"`
	Timestamp  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"timestamp"`
	IPAddress  string    `gorm:"size:45" json:"ip_address,omitempty"`
	Country    string    `gorm:"size:100;default:'Unknown'" json:"country"`
	Region     string    `gorm:"size:100" json:"region"`
	City       string    `gorm:"size:100" json:"city"`
	Browser    string    `gorm:"size:50" json:"browser"`
	OS         string    `gorm:"size:100" json:"os"`
	DeviceType string    `gorm:"size:50" json:"device_type"`
	UserAgent  string    `gorm:"size:255" json:"user_agent"` // raw User-Agent
	Referrer   string    `gorm:"size:255;default:'Direct'" json:"referrer"`
}
