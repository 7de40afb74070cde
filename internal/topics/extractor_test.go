package topics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendr-agent/internal/models"
	"github.com/trendr-agent/pkg/logger"
)

type staticCatalog struct {
	topics []*models.Topic
	err    error
}

func (c *staticCatalog) ListTopics(ctx context.Context) ([]*models.Topic, error) {
	return c.topics, c.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "console", Output: "stdout"})
}

func topic(id, name string, keywords ...string) *models.Topic {
	return &models.Topic{ID: id, Name: name, Slug: models.Slugify(name), Keywords: keywords}
}

func TestExtractConfidenceScaling(t *testing.T) {
	catalog := &staticCatalog{topics: []*models.Topic{
		topic("t-crypto", "Cryptocurrency", "bitcoin", "crypto"),
	}}
	e := NewExtractor(catalog, testLogger())

	tests := []struct {
		name       string
		text       string
		mentions   int
		confidence float64
	}{
		{"single mention", "bitcoin hit a new high", 1, 0.2},
		{"two mentions", "Bitcoin to the moon! crypto is wild", 2, 0.4},
		{"three mentions", "bitcoin bitcoin crypto", 3, 0.6},
		{"saturates at one", "crypto crypto crypto crypto crypto crypto", 6, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Extract(context.Background(), tt.text)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.mentions, got[0].Mentions)
			assert.InDelta(t, tt.confidence, got[0].Confidence, 1e-9)
		})
	}
}

func TestExtractWholeWordOnly(t *testing.T) {
	catalog := &staticCatalog{topics: []*models.Topic{
		topic("t-ai", "Artificial Intelligence", "ai"),
	}}
	e := NewExtractor(catalog, testLogger())

	// "ai" inside other words must not count
	got, err := e.Extract(context.Background(), "he said the main gains were claimed")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = e.Extract(context.Background(), "AI will change everything")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t-ai", got[0].TopicID)
}

func TestExtractCaseInsensitive(t *testing.T) {
	catalog := &staticCatalog{topics: []*models.Topic{
		topic("t-re", "Real Estate", "real estate"),
	}}
	e := NewExtractor(catalog, testLogger())

	got, err := e.Extract(context.Background(), "REAL ESTATE prices and Real Estate agents")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Mentions)
}

func TestExtractOrderedByConfidence(t *testing.T) {
	catalog := &staticCatalog{topics: []*models.Topic{
		topic("t-stocks", "Stocks & Investing", "stock"),
		topic("t-crypto", "Cryptocurrency", "crypto"),
	}}
	e := NewExtractor(catalog, testLogger())

	got, err := e.Extract(context.Background(), "crypto crypto crypto and one stock")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t-crypto", got[0].TopicID)
	assert.Equal(t, "t-stocks", got[1].TopicID)
	assert.Greater(t, got[0].Confidence, got[1].Confidence)
}

func TestExtractCapsAtFiveTopics(t *testing.T) {
	var topics []*models.Topic
	text := ""
	for i := 0; i < 7; i++ {
		kw := fmt.Sprintf("keyword%d", i)
		topics = append(topics, topic(fmt.Sprintf("t-%d", i), fmt.Sprintf("Topic %d", i), kw))
		text += kw + " "
	}
	e := NewExtractor(&staticCatalog{topics: topics}, testLogger())

	got, err := e.Extract(context.Background(), text)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestExtractCatalogError(t *testing.T) {
	boom := errors.New("db gone")
	e := NewExtractor(&staticCatalog{err: boom}, testLogger())

	got, err := e.Extract(context.Background(), "bitcoin")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}

func TestExtractNoMatches(t *testing.T) {
	catalog := &staticCatalog{topics: []*models.Topic{
		topic("t-crypto", "Cryptocurrency", "bitcoin"),
	}}
	e := NewExtractor(catalog, testLogger())

	got, err := e.Extract(context.Background(), "nothing relevant here")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCountWholeWordPhrases(t *testing.T) {
	assert.Equal(t, 1, countWholeWord("my side hustle pays rent", "side hustle"))
	assert.Equal(t, 0, countWholeWord("sidehustle pays rent", "side hustle"))
	assert.Equal(t, 2, countWholeWord("gym now, gym later", "gym"))
}
