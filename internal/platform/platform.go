package platform

import (
	"context"
	"time"

	"github.com/trendr-agent/internal/models"
)

// RawAuthor carries the author/channel identity shipped with a raw item.
// FollowerCount is nil when the platform payload omits it. ProfileFresh
// marks payloads where the profile metadata is current as of this fetch,
// so an existing creator row should be refreshed from it.
type RawAuthor struct {
	PlatformID    string
	Username      string
	DisplayName   string
	FollowerCount *int64
	ProfileFresh  bool
}

// RawItem is one platform item normalized just enough for ingestion: the
// platform-native id, author identity, the raw text fields, and whatever
// engagement counters the platform reports.
type RawItem struct {
	PlatformID  string
	ContentType models.ContentType
	Author      RawAuthor
	Title       string
	Body        string
	Likes       int64
	Comments    int64
	Shares      int64
	// Views is nil when the platform does not report view counts, which is
	// distinct from a reported zero.
	Views       *int64
	PublishedAt *time.Time
}

// Adapter is the per-platform capability the collection pipeline consumes:
// each platform supplies only fetching and normalization, the shared
// ingestion handles everything after that.
type Adapter interface {
	// Platform returns the platform this adapter collects from
	Platform() models.Platform

	// TestConnection verifies the configured credentials work
	TestConnection(ctx context.Context) error

	// FetchPage retrieves one page of items for a search target
	// (a subreddit name, search query, or feed URL)
	FetchPage(ctx context.Context, target string) ([]RawItem, error)
}
