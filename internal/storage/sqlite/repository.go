package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/trendr-agent/internal/models"
	"github.com/trendr-agent/internal/storage"
)

// Repository implements storage.Repository using SQLite
type Repository struct {
	db *gorm.DB
}

// New creates a new SQLite repository
func New(dsn string) (*Repository, error) {
	// Ensure directory exists
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Repository{db: db}, nil
}

// Migrate runs database migrations
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(
		&models.Creator{},
		&models.Topic{},
		&models.Content{},
		&models.ContentTopic{},
		&models.TopicCooccurrence{},
	)
}

// Close closes the database connection
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translateErr maps gorm errors onto the storage sentinels
func translateErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return storage.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return storage.ErrDuplicate
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return storage.ErrDuplicate
	}
	return err
}

// Creator operations

func (r *Repository) GetCreatorByPlatformID(ctx context.Context, platform models.Platform, platformID string) (*models.Creator, error) {
	var creator models.Creator
	err := r.db.WithContext(ctx).
		Where("platform = ? AND platform_id = ?", platform, platformID).
		First(&creator).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &creator, nil
}

func (r *Repository) CreateCreator(ctx context.Context, creator *models.Creator) error {
	return translateErr(r.db.WithContext(ctx).Create(creator).Error)
}

func (r *Repository) UpdateCreatorProfile(ctx context.Context, id string, displayName string, followerCount *int64) error {
	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if displayName != "" {
		updates["display_name"] = displayName
	}
	if followerCount != nil {
		updates["follower_count"] = *followerCount
	}
	return translateErr(r.db.WithContext(ctx).
		Model(&models.Creator{}).
		Where("id = ?", id).
		Updates(updates).Error)
}

// Content operations

func (r *Repository) GetContentByPlatformID(ctx context.Context, platform models.Platform, platformID string) (*models.Content, error) {
	var content models.Content
	err := r.db.WithContext(ctx).
		Where("platform = ? AND platform_id = ?", platform, platformID).
		First(&content).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &content, nil
}

func (r *Repository) CreateContent(ctx context.Context, content *models.Content) error {
	return translateErr(r.db.WithContext(ctx).Create(content).Error)
}

func (r *Repository) ListContent(ctx context.Context, filter storage.ContentFilter) ([]*models.Content, error) {
	var content []*models.Content
	query := r.db.WithContext(ctx).Model(&models.Content{})

	if filter.Platform != nil {
		query = query.Where("platform = ?", *filter.Platform)
	}
	if filter.Since != nil {
		query = query.Where("collected_at > ?", *filter.Since)
	}

	query = query.Order("collected_at DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Find(&content).Error; err != nil {
		return nil, translateErr(err)
	}
	return content, nil
}

func (r *Repository) ListContentByTopic(ctx context.Context, topicID string, limit int) ([]*models.Content, error) {
	var content []*models.Content
	err := r.db.WithContext(ctx).
		Model(&models.Content{}).
		Joins("JOIN content_topics ct ON contents.id = ct.content_id").
		Where("ct.topic_id = ?", topicID).
		Order("contents.collected_at DESC").
		Limit(limit).
		Find(&content).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return content, nil
}

// Topic operations

func (r *Repository) CreateTopic(ctx context.Context, topic *models.Topic) error {
	return translateErr(r.db.WithContext(ctx).Create(topic).Error)
}

func (r *Repository) GetTopicBySlug(ctx context.Context, slug string) (*models.Topic, error) {
	var topic models.Topic
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&topic).Error; err != nil {
		return nil, translateErr(err)
	}
	return &topic, nil
}

func (r *Repository) ListTopics(ctx context.Context) ([]*models.Topic, error) {
	var topics []*models.Topic
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&topics).Error; err != nil {
		return nil, translateErr(err)
	}
	return topics, nil
}

func (r *Repository) ListTopicsWithCounts(ctx context.Context, limit, offset int) ([]*storage.TopicWithCount, error) {
	var topics []*storage.TopicWithCount
	err := r.db.WithContext(ctx).
		Model(&models.Topic{}).
		Select("topics.*, COUNT(ct.content_id) AS content_count").
		Joins("LEFT JOIN content_topics ct ON topics.id = ct.topic_id").
		Group("topics.id").
		Order("content_count DESC").
		Limit(limit).
		Offset(offset).
		Find(&topics).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return topics, nil
}

// Topic link operations

func (r *Repository) ReplaceContentTopic(ctx context.Context, contentID, topicID string, confidence float64) error {
	link := models.ContentTopic{
		ContentID:  contentID,
		TopicID:    topicID,
		Confidence: confidence,
	}
	return translateErr(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "content_id"}, {Name: "topic_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"confidence": confidence}),
		}).
		Create(&link).Error)
}

// Co-occurrence operations

func (r *Repository) IncrementCooccurrence(ctx context.Context, topicAID, topicBID string) error {
	now := time.Now().UTC()
	pair := models.TopicCooccurrence{
		TopicAID:  topicAID,
		TopicBID:  topicBID,
		Frequency: 1,
		LastSeen:  now,
	}
	return translateErr(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "topic_a_id"}, {Name: "topic_b_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"frequency": gorm.Expr("frequency + 1"),
				"last_seen": now,
			}),
		}).
		Create(&pair).Error)
}

func (r *Repository) TopCooccurrences(ctx context.Context, limit int) ([]*models.TopicCooccurrence, error) {
	var pairs []*models.TopicCooccurrence
	err := r.db.WithContext(ctx).
		Order("frequency DESC").
		Limit(limit).
		Find(&pairs).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return pairs, nil
}

// Aggregates

func (r *Repository) DashboardStats(ctx context.Context) (*storage.DashboardStats, error) {
	stats := &storage.DashboardStats{}
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Content{}).Count(&stats.TotalContent).Error; err != nil {
		return nil, translateErr(err)
	}
	if err := db.Model(&models.Topic{}).Count(&stats.TotalTopics).Error; err != nil {
		return nil, translateErr(err)
	}
	if err := db.Model(&models.Creator{}).Count(&stats.TotalCreators).Error; err != nil {
		return nil, translateErr(err)
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	if err := db.Model(&models.Content{}).
		Where("collected_at > ?", weekAgo).
		Count(&stats.ContentLast7Days).Error; err != nil {
		return nil, translateErr(err)
	}

	err := db.Model(&models.Topic{}).
		Select("topics.name AS name, COUNT(ct.content_id) AS count").
		Joins("JOIN content_topics ct ON topics.id = ct.topic_id").
		Group("topics.id").
		Order("count DESC").
		Limit(10).
		Scan(&stats.TopTopics).Error
	if err != nil {
		return nil, translateErr(err)
	}

	return stats, nil
}
