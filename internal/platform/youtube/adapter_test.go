package youtube

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	youtubeapi "google.golang.org/api/youtube/v3"

	"github.com/trendr-agent/internal/models"
)

func TestToRawItemFullVideo(t *testing.T) {
	item := toRawItem(&youtubeapi.Video{
		Id: "vid-1",
		Snippet: &youtubeapi.VideoSnippet{
			Title:        "Passive income explained",
			Description:  "Everything about passive income",
			ChannelId:    "chan-1",
			ChannelTitle: "Finance Channel",
			PublishedAt:  "2026-03-01T12:00:00Z",
		},
		Statistics: &youtubeapi.VideoStatistics{
			ViewCount:    15000,
			LikeCount:    300,
			CommentCount: 45,
		},
	})

	assert.Equal(t, "vid-1", item.PlatformID)
	assert.Equal(t, models.ContentTypeVideo, item.ContentType)
	assert.Equal(t, "Passive income explained", item.Title)
	assert.Equal(t, "Everything about passive income", item.Body)
	assert.Equal(t, "chan-1", item.Author.PlatformID)
	assert.Equal(t, "Finance Channel", item.Author.Username)
	assert.Equal(t, int64(300), item.Likes)
	assert.Equal(t, int64(45), item.Comments)
	require.NotNil(t, item.Views)
	assert.Equal(t, int64(15000), *item.Views)
	require.NotNil(t, item.PublishedAt)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), *item.PublishedAt)
}

func TestToRawItemMissingParts(t *testing.T) {
	item := toRawItem(&youtubeapi.Video{Id: "vid-2"})

	assert.Equal(t, "vid-2", item.PlatformID)
	assert.Empty(t, item.Author.PlatformID)
	assert.Nil(t, item.Views, "no statistics part means views unknown, not zero")
	assert.Nil(t, item.PublishedAt)
	assert.Zero(t, item.Likes)
}
