package youtube

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"github.com/trendr-agent/internal/config"
	"github.com/trendr-agent/internal/models"
	"github.com/trendr-agent/internal/platform"
	"github.com/trendr-agent/pkg/logger"
)

const (
	// searchPageSize is the number of videos fetched per search query
	searchPageSize = 25

	// detailsBatchSize is the Videos.List id limit per request
	detailsBatchSize = 50
)

// Adapter collects videos matching search queries via the YouTube Data API.
// Targets are search query strings.
type Adapter struct {
	svc *youtubeapi.Service
	log *logger.Logger
}

// New creates a YouTube adapter backed by an API key. Extra options are
// forwarded to the service constructor so tests can point it at a fake
// endpoint.
func New(ctx context.Context, cfg config.YouTubeConfig, log *logger.Logger, opts ...option.ClientOption) (*Adapter, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	svc, err := youtubeapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &Adapter{
		svc: svc,
		log: log.WithPlatform(string(models.PlatformYouTube)),
	}, nil
}

// Platform returns models.PlatformYouTube
func (a *Adapter) Platform() models.Platform {
	return models.PlatformYouTube
}

// TestConnection issues a minimal search to verify the API key
func (a *Adapter) TestConnection(ctx context.Context) error {
	_, err := a.svc.Search.List([]string{"id"}).
		Context(ctx).
		Q("test").
		Type("video").
		MaxResults(1).
		Do()
	if err != nil {
		return fmt.Errorf("youtube connection test: %w", err)
	}
	return nil
}

// FetchPage searches for videos matching the query, then loads their
// snippets and statistics in batches.
func (a *Adapter) FetchPage(ctx context.Context, target string) ([]platform.RawItem, error) {
	search, err := a.svc.Search.List([]string{"id"}).
		Context(ctx).
		Q(target).
		Type("video").
		Order("relevance").
		MaxResults(searchPageSize).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", target, err)
	}

	ids := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	items := make([]platform.RawItem, 0, len(ids))
	for start := 0; start < len(ids); start += detailsBatchSize {
		end := start + detailsBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		videos, err := a.svc.Videos.List([]string{"snippet", "statistics"}).
			Context(ctx).
			Id(ids[start:end]...).
			Do()
		if err != nil {
			a.log.Warn().Err(err).Str("query", target).Msg("Failed to load video details batch")
			continue
		}

		for _, v := range videos.Items {
			items = append(items, toRawItem(v))
		}
	}

	a.log.Debug().Str("query", target).Int("videos", len(items)).Msg("Fetched search page")
	return items, nil
}

// toRawItem normalizes a video. Views stay nil when the statistics part is
// absent so unreported counts are distinguishable from zero.
func toRawItem(v *youtubeapi.Video) platform.RawItem {
	item := platform.RawItem{
		PlatformID:  v.Id,
		ContentType: models.ContentTypeVideo,
	}

	if v.Snippet != nil {
		item.Title = v.Snippet.Title
		item.Body = v.Snippet.Description
		item.Author = platform.RawAuthor{
			PlatformID:  v.Snippet.ChannelId,
			Username:    v.Snippet.ChannelTitle,
			DisplayName: v.Snippet.ChannelTitle,
		}
		if ts, err := time.Parse(time.RFC3339, v.Snippet.PublishedAt); err == nil {
			ts = ts.UTC()
			item.PublishedAt = &ts
		}
	}

	if v.Statistics != nil {
		item.Likes = int64(v.Statistics.LikeCount)
		item.Comments = int64(v.Statistics.CommentCount)
		views := int64(v.Statistics.ViewCount)
		item.Views = &views
	}

	return item
}

var _ platform.Adapter = (*Adapter)(nil)
