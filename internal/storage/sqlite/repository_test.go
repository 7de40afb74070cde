package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendr-agent/internal/models"
	"github.com/trendr-agent/internal/storage"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	repo, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, repo.Migrate())
	t.Cleanup(func() { repo.Close() })

	return repo
}

func newContent(p models.Platform, platformID, text string) *models.Content {
	return &models.Content{
		ID:          uuid.NewString(),
		Platform:    p,
		PlatformID:  platformID,
		ContentType: models.ContentTypePost,
		TextContent: text,
		CollectedAt: time.Now().UTC(),
	}
}

func TestSeedDefaultTopicsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.SeedDefaultTopics(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(defaultTopics), created)

	created, err = repo.SeedDefaultTopics(ctx)
	require.NoError(t, err)
	assert.Zero(t, created, "a non-empty taxonomy must not be re-seeded")

	topics, err := repo.ListTopics(ctx)
	require.NoError(t, err)
	assert.Len(t, topics, len(defaultTopics))

	// Keywords survive the JSON round trip
	crypto, err := repo.GetTopicBySlug(ctx, "cryptocurrency")
	require.NoError(t, err)
	assert.Contains(t, []string(crypto.Keywords), "bitcoin")
}

func TestContentUniquePerPlatform(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateContent(ctx, newContent(models.PlatformReddit, "abc", "first")))

	err := repo.CreateContent(ctx, newContent(models.PlatformReddit, "abc", "second"))
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	// Same native id on a different platform is fine
	require.NoError(t, repo.CreateContent(ctx, newContent(models.PlatformX, "abc", "third")))
}

func TestGetContentByPlatformID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetContentByPlatformID(ctx, models.PlatformReddit, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, repo.CreateContent(ctx, newContent(models.PlatformReddit, "hit", "text")))

	got, err := repo.GetContentByPlatformID(ctx, models.PlatformReddit, "hit")
	require.NoError(t, err)
	assert.Equal(t, "text", got.TextContent)
}

func TestCreatorLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	creator := &models.Creator{
		ID:         uuid.NewString(),
		Platform:   models.PlatformX,
		PlatformID: "u-1",
		Username:   "poster",
	}
	require.NoError(t, repo.CreateCreator(ctx, creator))

	err := repo.CreateCreator(ctx, &models.Creator{
		ID: uuid.NewString(), Platform: models.PlatformX, PlatformID: "u-1", Username: "other",
	})
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	followers := int64(500)
	require.NoError(t, repo.UpdateCreatorProfile(ctx, creator.ID, "Poster Prime", &followers))

	got, err := repo.GetCreatorByPlatformID(ctx, models.PlatformX, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Poster Prime", got.DisplayName)
	require.NotNil(t, got.FollowerCount)
	assert.Equal(t, int64(500), *got.FollowerCount)
	assert.Equal(t, "poster", got.Username, "username is immutable on refresh")
}

func TestReplaceContentTopicUpserts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	content := newContent(models.PlatformReddit, "c-1", "bitcoin")
	require.NoError(t, repo.CreateContent(ctx, content))

	topic := &models.Topic{ID: uuid.NewString(), Name: "Cryptocurrency", Slug: "cryptocurrency"}
	require.NoError(t, repo.CreateTopic(ctx, topic))

	require.NoError(t, repo.ReplaceContentTopic(ctx, content.ID, topic.ID, 0.2))
	require.NoError(t, repo.ReplaceContentTopic(ctx, content.ID, topic.ID, 0.6))

	// Re-tagging replaces the link rather than duplicating it
	linked, err := repo.ListContentByTopic(ctx, topic.ID, 10)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, content.ID, linked[0].ID)
}

func TestIncrementCooccurrence(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.IncrementCooccurrence(ctx, "t-a", "t-b"))
	require.NoError(t, repo.IncrementCooccurrence(ctx, "t-a", "t-b"))
	require.NoError(t, repo.IncrementCooccurrence(ctx, "t-a", "t-c"))

	pairs, err := repo.TopCooccurrences(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	assert.Equal(t, "t-a", pairs[0].TopicAID)
	assert.Equal(t, "t-b", pairs[0].TopicBID)
	assert.Equal(t, int64(2), pairs[0].Frequency)
	assert.Equal(t, int64(1), pairs[1].Frequency)
	assert.WithinDuration(t, time.Now().UTC(), pairs[0].LastSeen, time.Minute)
}

func TestListContentFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	old := newContent(models.PlatformReddit, "old", "old post")
	old.CollectedAt = time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, repo.CreateContent(ctx, old))

	require.NoError(t, repo.CreateContent(ctx, newContent(models.PlatformReddit, "new", "new post")))
	require.NoError(t, repo.CreateContent(ctx, newContent(models.PlatformX, "tweet", "a tweet")))

	// Platform filter
	p := models.PlatformReddit
	filter := storage.DefaultContentFilter()
	filter.Platform = &p

	got, err := repo.ListContent(ctx, filter)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].PlatformID, "newest first")

	// Since filter
	since := time.Now().UTC().Add(-time.Hour)
	filter = storage.DefaultContentFilter()
	filter.Since = &since

	got, err = repo.ListContent(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Limit
	filter = storage.DefaultContentFilter()
	filter.Limit = 1

	got, err = repo.ListContent(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestListTopicsWithCounts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	busy := &models.Topic{ID: uuid.NewString(), Name: "Busy", Slug: "busy"}
	quiet := &models.Topic{ID: uuid.NewString(), Name: "Quiet", Slug: "quiet"}
	require.NoError(t, repo.CreateTopic(ctx, busy))
	require.NoError(t, repo.CreateTopic(ctx, quiet))

	for _, pid := range []string{"c-1", "c-2"} {
		content := newContent(models.PlatformReddit, pid, "text")
		require.NoError(t, repo.CreateContent(ctx, content))
		require.NoError(t, repo.ReplaceContentTopic(ctx, content.ID, busy.ID, 0.2))
	}

	rows, err := repo.ListTopicsWithCounts(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Busy", rows[0].Name)
	assert.Equal(t, int64(2), rows[0].ContentCount)
	assert.Equal(t, int64(0), rows[1].ContentCount)
}

func TestDashboardStats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.SeedDefaultTopics(ctx)
	require.NoError(t, err)

	creator := &models.Creator{ID: uuid.NewString(), Platform: models.PlatformReddit, PlatformID: "u-1", Username: "u"}
	require.NoError(t, repo.CreateCreator(ctx, creator))

	recent := newContent(models.PlatformReddit, "recent", "bitcoin")
	require.NoError(t, repo.CreateContent(ctx, recent))

	stale := newContent(models.PlatformReddit, "stale", "old")
	stale.CollectedAt = time.Now().UTC().AddDate(0, 0, -30)
	require.NoError(t, repo.CreateContent(ctx, stale))

	crypto, err := repo.GetTopicBySlug(ctx, "cryptocurrency")
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceContentTopic(ctx, recent.ID, crypto.ID, 0.2))

	stats, err := repo.DashboardStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalContent)
	assert.Equal(t, int64(1), stats.ContentLast7Days)
	assert.Equal(t, int64(1), stats.TotalCreators)
	assert.Equal(t, int64(len(defaultTopics)), stats.TotalTopics)
	require.Len(t, stats.TopTopics, 1)
	assert.Equal(t, "Cryptocurrency", stats.TopTopics[0].Name)
	assert.Equal(t, int64(1), stats.TopTopics[0].Count)
}
