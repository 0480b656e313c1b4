// Package sources turns source configurations into feed URLs and provides the
// built-in source list.
package sources

import (
	"net/url"
	"strings"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/domain"
)

// DefaultGoogleNewsQuery is used when a google_news source has a blank query.
const DefaultGoogleNewsQuery = "startup"

const (
	googleNewsSearchURL = "https://news.google.com/rss/search"
	googleNewsLocale    = "&hl=en-US&gl=US&ceid=US:en"
)

// GoogleNewsRSSURL builds the Google News RSS search URL for query.
func GoogleNewsRSSURL(query string) string {
	if strings.TrimSpace(query) == "" {
		query = DefaultGoogleNewsQuery
	}

	return googleNewsSearchURL + "?q=" + url.QueryEscape(query) + googleNewsLocale
}

// Resolve returns the feed URL for cfg. The boolean is false when the kind is
// unknown or an rss source has no URL.
func Resolve(cfg domain.SourceConfig) (string, bool) {
	switch cfg.Kind {
	case domain.SourceKindRSS:
		if strings.TrimSpace(cfg.FeedURL) == "" {
			return "", false
		}
		return cfg.FeedURL, true
	case domain.SourceKindGoogleNews:
		return GoogleNewsRSSURL(cfg.Query), true
	default:
		return "", false
	}
}

// Enabled returns the enabled sources of list, preserving order.
func Enabled(list []domain.SourceConfig) []domain.SourceConfig {
	out := make([]domain.SourceConfig, 0, len(list))
	for _, s := range list {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}
