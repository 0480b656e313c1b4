// Package domain holds the types shared by the scrape pipeline, the source store and the API.
package domain

import "time"

// SourceKind identifies how a source's feed URL is derived.
type SourceKind string

const (
	// SourceKindRSS sources carry a literal feed URL.
	SourceKindRSS SourceKind = "rss"
	// SourceKindGoogleNews sources carry a search query turned into a Google News RSS URL.
	SourceKindGoogleNews SourceKind = "google_news"
)

// Valid reports whether k is a known kind.
func (k SourceKind) Valid() bool {
	return k == SourceKindRSS || k == SourceKindGoogleNews
}

// SourceConfig describes one news source. Only FeedURL or Query is meaningful,
// depending on Kind.
type SourceConfig struct {
	ID        string     `db:"id"         json:"id"                  yaml:"id"`
	Name      string     `db:"name"       json:"name"                yaml:"name"`
	Kind      SourceKind `db:"kind"       json:"kind"                yaml:"kind"`
	FeedURL   string     `db:"feed_url"   json:"feedUrl,omitempty"   yaml:"feed_url"`
	Query     string     `db:"query"      json:"query,omitempty"     yaml:"query"`
	Enabled   bool       `db:"enabled"    json:"enabled"             yaml:"enabled"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt,omitzero"  yaml:"-"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt,omitzero"  yaml:"-"`
}
