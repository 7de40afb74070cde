package topics

import (
	"context"
	"fmt"
	"sync"
)

// PairStore persists co-occurrence counters with atomic increment-or-insert
// semantics on the canonical pair key.
type PairStore interface {
	IncrementCooccurrence(ctx context.Context, topicAID, topicBID string) error
}

// CooccurrenceTracker maintains the undirected weighted topic graph: edge
// weight is the number of content items in which both topics were matched.
type CooccurrenceTracker struct {
	store PairStore

	// mu serializes pair updates when ingestions run concurrently.
	mu sync.Mutex
}

// NewCooccurrenceTracker creates a tracker backed by the given store
func NewCooccurrenceTracker(store PairStore) *CooccurrenceTracker {
	return &CooccurrenceTracker{store: store}
}

// Record increments the counter for every unordered pair in topicIDs.
// Pairs are keyed with the lexicographically smaller id first so (A,B) and
// (B,A) always hit the same row. Fewer than two ids is a no-op.
func (t *CooccurrenceTracker) Record(ctx context.Context, topicIDs []string) error {
	if len(topicIDs) < 2 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for i := 0; i < len(topicIDs); i++ {
		for j := i + 1; j < len(topicIDs); j++ {
			a, b := canonicalPair(topicIDs[i], topicIDs[j])
			if a == b {
				continue
			}
			if err := t.store.IncrementCooccurrence(ctx, a, b); err != nil {
				return fmt.Errorf("record co-occurrence (%s, %s): %w", a, b, err)
			}
		}
	}

	return nil
}

// canonicalPair orders two topic ids with the lexicographically smaller first
func canonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
