package rss

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/trendr-agent/internal/models"
	"github.com/trendr-agent/internal/platform"
	"github.com/trendr-agent/pkg/logger"
)

// pageSize caps how many entries are taken per feed
const pageSize = 25

// Adapter collects entries from RSS and Atom feeds. Targets are feed URLs,
// and the feed itself is recorded as the creator since item-level authors
// are unreliable across feeds.
type Adapter struct {
	parser *gofeed.Parser
	log    *logger.Logger
}

// New creates an RSS adapter
func New(log *logger.Logger) *Adapter {
	return &Adapter{
		parser: gofeed.NewParser(),
		log:    log.WithPlatform(string(models.PlatformRSS)),
	}
}

// Platform returns models.PlatformRSS
func (a *Adapter) Platform() models.Platform {
	return models.PlatformRSS
}

// TestConnection is a no-op since feeds carry no credentials
func (a *Adapter) TestConnection(ctx context.Context) error {
	return nil
}

// FetchPage parses a feed and returns its entries
func (a *Adapter) FetchPage(ctx context.Context, target string) ([]platform.RawItem, error) {
	feed, err := a.parser.ParseURLWithContext(target, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", target, err)
	}

	author := platform.RawAuthor{
		PlatformID:  target,
		Username:    feed.Title,
		DisplayName: feed.Title,
	}

	entries := feed.Items
	if len(entries) > pageSize {
		entries = entries[:pageSize]
	}

	items := make([]platform.RawItem, 0, len(entries))
	for _, entry := range entries {
		platformID := entry.GUID
		if platformID == "" {
			platformID = entry.Link
		}
		if platformID == "" {
			continue
		}

		var publishedAt *time.Time
		if entry.PublishedParsed != nil {
			ts := entry.PublishedParsed.UTC()
			publishedAt = &ts
		}

		items = append(items, platform.RawItem{
			PlatformID:  platformID,
			ContentType: models.ContentTypePost,
			Author:      author,
			Title:       cleanText(entry.Title),
			Body:        cleanText(entry.Description),
			PublishedAt: publishedAt,
		})
	}

	a.log.Debug().Str("feed", target).Int("entries", len(items)).Msg("Fetched feed")
	return items, nil
}

// cleanText removes HTML tags and extra whitespace
func cleanText(text string) string {
	var result strings.Builder
	inTag := false
	for _, r := range text {
		switch {
		case r == '<':
			inTag = true
			result.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}

var _ platform.Adapter = (*Adapter)(nil)
