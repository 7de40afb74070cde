package rss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendr-agent/internal/models"
	"github.com/trendr-agent/pkg/logger"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Finance Blog</title>
    <link>https://example.com</link>
    <item>
      <title>Bitcoin &amp; the market</title>
      <description>&lt;p&gt;crypto is &lt;b&gt;wild&lt;/b&gt; this week&lt;/p&gt;</description>
      <link>https://example.com/post-1</link>
      <guid>guid-1</guid>
      <pubDate>Sun, 01 Mar 2026 12:00:00 GMT</pubDate>
    </item>
    <item>
      <title>No GUID here</title>
      <description>plain text</description>
      <link>https://example.com/post-2</link>
    </item>
  </channel>
</rss>`

func newTestAdapter() *Adapter {
	return New(logger.New(logger.Config{Level: "error", Format: "console", Output: "stdout"}))
}

func TestFetchPageParsesFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(feedXML))
	}))
	defer srv.Close()

	a := newTestAdapter()

	items, err := a.FetchPage(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "guid-1", first.PlatformID)
	assert.Equal(t, models.ContentTypePost, first.ContentType)
	assert.Equal(t, "Bitcoin & the market", first.Title)
	assert.Equal(t, "crypto is wild this week", first.Body, "markup stripped")
	require.NotNil(t, first.PublishedAt)
	assert.Zero(t, first.Likes, "feeds carry no engagement")
	assert.Nil(t, first.Views)

	// The feed itself is the creator
	assert.Equal(t, srv.URL, first.Author.PlatformID)
	assert.Equal(t, "Finance Blog", first.Author.Username)
	assert.False(t, first.Author.ProfileFresh)

	// Missing GUID falls back to the link
	assert.Equal(t, "https://example.com/post-2", items[1].PlatformID)
	assert.Nil(t, items[1].PublishedAt)
}

func TestFetchPageUnreachableFeed(t *testing.T) {
	a := newTestAdapter()

	_, err := a.FetchPage(context.Background(), "http://127.0.0.1:1/feed.xml")
	assert.Error(t, err)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "one two three", cleanText("<p>one</p> two   <br/>three"))
	assert.Equal(t, "plain", cleanText("plain"))
	assert.Equal(t, "", cleanText("<div></div>"))
}
