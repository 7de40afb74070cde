package models

import (
	"time"
)

// Content represents one unit of collected material normalized into the
// unified schema. Rows are write-once: (platform, platform_id) is the dedup
// key and an existing row is never updated after insert.
type Content struct {
	ID                 string      `gorm:"primaryKey" json:"id"`
	Platform           Platform    `gorm:"uniqueIndex:idx_content_platform_native;index:idx_content_platform_published;not null" json:"platform"`
	PlatformID         string      `gorm:"uniqueIndex:idx_content_platform_native;not null" json:"platform_id"`
	CreatorID          *string     `gorm:"index" json:"creator_id"`
	ContentType        ContentType `gorm:"not null" json:"content_type"`
	TextContent        string      `gorm:"type:text" json:"text_content"`
	EngagementLikes    int64       `gorm:"default:0" json:"engagement_likes"`
	EngagementComments int64       `gorm:"default:0" json:"engagement_comments"`
	EngagementShares   int64       `gorm:"default:0" json:"engagement_shares"`
	// Views stays null when the platform does not report it, which is
	// distinct from a reported zero.
	EngagementViews *int64     `json:"engagement_views"`
	PublishedAt     *time.Time `gorm:"index:idx_content_platform_published" json:"published_at"`
	CollectedAt     time.Time  `gorm:"autoCreateTime;index" json:"collected_at"`
}

// ContentTopic links content to an extracted topic with the extraction
// confidence. Re-extraction replaces the row for a given (content, topic).
type ContentTopic struct {
	ContentID  string  `gorm:"primaryKey" json:"content_id"`
	TopicID    string  `gorm:"primaryKey" json:"topic_id"`
	Confidence float64 `gorm:"not null" json:"confidence"`
}

// TopicCooccurrence counts how many content items matched both topics.
// TopicAID is always the lexicographically smaller id so (A,B) and (B,A)
// share one row. Frequencies only ever grow.
type TopicCooccurrence struct {
	TopicAID  string    `gorm:"primaryKey;column:topic_a_id" json:"topic_a_id"`
	TopicBID  string    `gorm:"primaryKey;column:topic_b_id" json:"topic_b_id"`
	Frequency int64     `gorm:"default:1" json:"frequency"`
	LastSeen  time.Time `json:"last_seen"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
