package models

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"
)

// StringSlice is a custom type for storing string arrays in JSON
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return nil
}

// Topic is a taxonomy node with the keyword set used for classification
type Topic struct {
	ID            string      `gorm:"primaryKey" json:"id"`
	Name          string      `gorm:"uniqueIndex;not null" json:"name"`
	Slug          string      `gorm:"uniqueIndex;not null" json:"slug"`
	ParentTopicID *string     `json:"parent_topic_id"`
	Aliases       StringSlice `gorm:"type:json" json:"aliases"`
	Keywords      StringSlice `gorm:"type:json" json:"keywords"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

// Slugify converts a topic name into its URL-safe slug form:
// lower-cased, non-alphanumeric runs collapsed to single dashes.
func Slugify(name string) string {
	lowered := strings.ToLower(name)
	mapped := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, lowered)

	parts := make([]string, 0)
	for _, p := range strings.Split(mapped, "-") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "-")
}
