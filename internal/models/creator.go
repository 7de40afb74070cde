package models

import (
	"time"
)

// Creator represents the authoring account behind collected content,
// deduplicated per (platform, platform_id)
type Creator struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	Platform      Platform  `gorm:"uniqueIndex:idx_creators_platform_native;not null" json:"platform"`
	PlatformID    string    `gorm:"uniqueIndex:idx_creators_platform_native;not null" json:"platform_id"`
	Username      string    `gorm:"not null" json:"username"`
	DisplayName   string    `json:"display_name"`
	FollowerCount *int64    `json:"follower_count"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
