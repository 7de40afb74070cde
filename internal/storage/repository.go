package storage

import (
	"context"
	"errors"
	"time"

	"github.com/trendr-agent/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// Repository defines the interface for data persistence
type Repository interface {
	// Creator operations
	GetCreatorByPlatformID(ctx context.Context, platform models.Platform, platformID string) (*models.Creator, error)
	CreateCreator(ctx context.Context, creator *models.Creator) error
	UpdateCreatorProfile(ctx context.Context, id string, displayName string, followerCount *int64) error

	// Content operations. CreateContent returns ErrDuplicate when the
	// (platform, platform_id) uniqueness invariant is violated.
	GetContentByPlatformID(ctx context.Context, platform models.Platform, platformID string) (*models.Content, error)
	CreateContent(ctx context.Context, content *models.Content) error
	ListContent(ctx context.Context, filter ContentFilter) ([]*models.Content, error)
	ListContentByTopic(ctx context.Context, topicID string, limit int) ([]*models.Content, error)

	// Topic operations
	CreateTopic(ctx context.Context, topic *models.Topic) error
	GetTopicBySlug(ctx context.Context, slug string) (*models.Topic, error)
	ListTopics(ctx context.Context) ([]*models.Topic, error)
	ListTopicsWithCounts(ctx context.Context, limit, offset int) ([]*TopicWithCount, error)

	// Topic link operations. Replace semantics keyed by (content, topic).
	ReplaceContentTopic(ctx context.Context, contentID, topicID string, confidence float64) error

	// Co-occurrence operations. IncrementCooccurrence is an atomic
	// increment-or-insert on the canonical (topic_a_id, topic_b_id) key.
	IncrementCooccurrence(ctx context.Context, topicAID, topicBID string) error
	TopCooccurrences(ctx context.Context, limit int) ([]*models.TopicCooccurrence, error)

	// Aggregates
	DashboardStats(ctx context.Context) (*DashboardStats, error)

	// Maintenance
	Migrate() error
	SeedDefaultTopics(ctx context.Context) (int, error)
	Close() error
}

// ContentFilter defines filtering options for content listings
type ContentFilter struct {
	Platform *models.Platform
	Since    *time.Time
	Limit    int
	Offset   int
}

// TopicWithCount pairs a topic with the number of content items linked to it
type TopicWithCount struct {
	models.Topic
	ContentCount int64 `json:"content_count"`
}

// TopicCount is a topic name with its linked content count
type TopicCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// DashboardStats holds aggregate counters for the dashboard view
type DashboardStats struct {
	TotalContent     int64        `json:"total_content"`
	TotalTopics      int64        `json:"total_topics"`
	TotalCreators    int64        `json:"total_creators"`
	ContentLast7Days int64        `json:"content_last_7_days"`
	TopTopics        []TopicCount `json:"top_topics"`
}

// DefaultContentFilter returns a filter with sensible defaults
func DefaultContentFilter() ContentFilter {
	return ContentFilter{Limit: 50}
}
