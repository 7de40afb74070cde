package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trendr-agent/internal/models"
	"github.com/trendr-agent/internal/platform"
	"github.com/trendr-agent/internal/storage"
	"github.com/trendr-agent/internal/topics"
	"github.com/trendr-agent/pkg/logger"
)

// Store is the slice of the content store that ingestion needs
type Store interface {
	GetContentByPlatformID(ctx context.Context, platform models.Platform, platformID string) (*models.Content, error)
	CreateContent(ctx context.Context, content *models.Content) error
	GetCreatorByPlatformID(ctx context.Context, platform models.Platform, platformID string) (*models.Creator, error)
	CreateCreator(ctx context.Context, creator *models.Creator) error
	UpdateCreatorProfile(ctx context.Context, id string, displayName string, followerCount *int64) error
	ReplaceContentTopic(ctx context.Context, contentID, topicID string, confidence float64) error
}

// Ingestor turns raw platform items into durable Content and Creator state,
// exactly once per (platform, platform_id). All platforms share this logic;
// adapters only supply fetching and normalization.
type Ingestor struct {
	store     Store
	extractor *topics.Extractor
	tracker   *topics.CooccurrenceTracker
	log       *logger.Logger
}

// NewIngestor creates a new shared ingestor
func NewIngestor(store Store, extractor *topics.Extractor, tracker *topics.CooccurrenceTracker, log *logger.Logger) *Ingestor {
	return &Ingestor{
		store:     store,
		extractor: extractor,
		tracker:   tracker,
		log:       log.WithComponent("ingest"),
	}
}

// IngestResult reports what one ingestion produced
type IngestResult struct {
	NewItem      bool
	TopicsLinked int
}

// Ingest processes one raw item: dedup check, creator upsert, content
// insert, topic extraction, topic links, co-occurrence update. A previously
// seen item returns a zero result with no error. An error after the content
// insert still reports NewItem so callers count the item as collected.
func (ing *Ingestor) Ingest(ctx context.Context, p models.Platform, item platform.RawItem) (IngestResult, error) {
	var res IngestResult

	_, err := ing.store.GetContentByPlatformID(ctx, p, item.PlatformID)
	if err == nil {
		// Already collected
		return res, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return res, fmt.Errorf("dedup lookup: %w", err)
	}

	creatorID, err := ing.resolveCreator(ctx, p, item.Author)
	if err != nil {
		return res, fmt.Errorf("resolve creator: %w", err)
	}

	content := &models.Content{
		ID:                 uuid.NewString(),
		Platform:           p,
		PlatformID:         item.PlatformID,
		CreatorID:          creatorID,
		ContentType:        item.ContentType,
		TextContent:        normalizeText(item.Title, item.Body),
		EngagementLikes:    item.Likes,
		EngagementComments: item.Comments,
		EngagementShares:   item.Shares,
		EngagementViews:    item.Views,
		PublishedAt:        toUTC(item.PublishedAt),
		CollectedAt:        time.Now().UTC(),
	}

	if err := ing.store.CreateContent(ctx, content); err != nil {
		return res, fmt.Errorf("insert content %s/%s: %w", p, item.PlatformID, err)
	}
	res.NewItem = true

	extracted, err := ing.extractor.Extract(ctx, content.TextContent)
	if err != nil {
		return res, fmt.Errorf("extract topics: %w", err)
	}

	for _, t := range extracted {
		if err := ing.store.ReplaceContentTopic(ctx, content.ID, t.TopicID, t.Confidence); err != nil {
			return res, fmt.Errorf("link topic %s: %w", t.TopicID, err)
		}
		res.TopicsLinked++
	}

	if len(extracted) > 1 {
		ids := make([]string, len(extracted))
		for i, t := range extracted {
			ids[i] = t.TopicID
		}
		if err := ing.tracker.Record(ctx, ids); err != nil {
			return res, fmt.Errorf("update co-occurrences: %w", err)
		}
	}

	return res, nil
}

// resolveCreator looks up or creates the creator row for an item's author.
// When the payload carries fresh profile metadata, an existing row's mutable
// fields are refreshed. Returns nil when the item has no author identity.
func (ing *Ingestor) resolveCreator(ctx context.Context, p models.Platform, author platform.RawAuthor) (*string, error) {
	if author.PlatformID == "" {
		return nil, nil
	}

	existing, err := ing.store.GetCreatorByPlatformID(ctx, p, author.PlatformID)
	if err == nil {
		if author.ProfileFresh {
			if err := ing.store.UpdateCreatorProfile(ctx, existing.ID, author.DisplayName, author.FollowerCount); err != nil {
				return nil, fmt.Errorf("refresh creator profile: %w", err)
			}
		}
		return &existing.ID, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("creator lookup: %w", err)
	}

	creator := &models.Creator{
		ID:            uuid.NewString(),
		Platform:      p,
		PlatformID:    author.PlatformID,
		Username:      author.Username,
		DisplayName:   author.DisplayName,
		FollowerCount: author.FollowerCount,
	}
	if creator.Username == "" {
		creator.Username = author.PlatformID
	}

	if err := ing.store.CreateCreator(ctx, creator); err != nil {
		return nil, fmt.Errorf("create creator: %w", err)
	}

	return &creator.ID, nil
}

// normalizeText joins the primary and secondary text fields. An absent
// secondary field leaves no trailing gap.
func normalizeText(title, body string) string {
	return strings.TrimSpace(title + "\n\n" + body)
}

func toUTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
