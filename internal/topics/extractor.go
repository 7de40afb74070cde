package topics

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/trendr-agent/internal/models"
	"github.com/trendr-agent/pkg/logger"
)

const (
	// confidencePerMention is the score contributed by each keyword hit;
	// confidence saturates at 1.0 from five hits onward.
	confidencePerMention = 0.2

	// maxTopicsPerContent caps how many topics one content item can link to.
	maxTopicsPerContent = 5
)

// ExtractedTopic is one classification result for a piece of text
type ExtractedTopic struct {
	TopicID    string  `json:"topic_id"`
	TopicName  string  `json:"topic_name"`
	Confidence float64 `json:"confidence"`
	Mentions   int     `json:"mentions"`
}

// Catalog supplies the topic taxonomy used for classification
type Catalog interface {
	ListTopics(ctx context.Context) ([]*models.Topic, error)
}

// Extractor classifies free text against the topic catalog by whole-word
// keyword matching. The catalog is loaded fresh on every call.
type Extractor struct {
	catalog Catalog
	log     *logger.Logger
}

// NewExtractor creates a new extractor backed by the given catalog
func NewExtractor(catalog Catalog, log *logger.Logger) *Extractor {
	return &Extractor{
		catalog: catalog,
		log:     log.WithComponent("extractor"),
	}
}

// Extract returns up to five topics matched in text, ordered by confidence
// descending. A catalog load failure is returned as an error, never as an
// empty result.
func (e *Extractor) Extract(ctx context.Context, text string) ([]ExtractedTopic, error) {
	catalog, err := e.catalog.ListTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("load topic catalog: %w", err)
	}

	normalized := strings.ToLower(text)
	var extracted []ExtractedTopic

	for _, topic := range catalog {
		mentions := 0
		for _, keyword := range topic.Keywords {
			mentions += countWholeWord(normalized, keyword)
		}
		if mentions == 0 {
			continue
		}

		extracted = append(extracted, ExtractedTopic{
			TopicID:    topic.ID,
			TopicName:  topic.Name,
			Confidence: math.Min(float64(mentions)*confidencePerMention, 1.0),
			Mentions:   mentions,
		})
	}

	// Stable sort keeps catalog order among equal confidences, so results
	// are deterministic for a given catalog iteration order.
	sort.SliceStable(extracted, func(i, j int) bool {
		return extracted[i].Confidence > extracted[j].Confidence
	})

	if len(extracted) > maxTopicsPerContent {
		extracted = extracted[:maxTopicsPerContent]
	}

	return extracted, nil
}

// countWholeWord counts occurrences of keyword as a complete token in text.
// Text must already be lower-cased.
func countWholeWord(text, keyword string) int {
	pattern := `\b` + regexp.QuoteMeta(strings.ToLower(keyword)) + `\b`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0
	}
	return len(re.FindAllStringIndex(text, -1))
}
