// Package feed retrieves RSS, Atom and JSON feeds and maps their entries to articles.
package feed

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/domain"
	"github.com/mmcdole/gofeed"
)

// httpPrefix marks GUIDs usable as links.
const httpPrefix = "http"

// maxSnippetRunes bounds the plain-text snippet kept per entry.
const maxSnippetRunes = 500

// Parse parses a feed body into articles stamped with sourceName. Entries
// without a usable link are skipped. An empty feed returns a non-nil empty slice.
func Parse(body, sourceName string) ([]domain.Article, error) {
	parsed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	articles := make([]domain.Article, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		link := extractLink(entry)
		if link == "" {
			continue
		}

		articles = append(articles, domain.Article{
			Title:       strings.TrimSpace(entry.Title),
			Link:        link,
			PublishedAt: publishedAt(entry),
			Snippet:     snippet(entry),
			SourceName:  sourceName,
		})
	}

	return articles, nil
}

// extractLink prefers the entry link and falls back to the GUID. Only http(s)
// values are usable.
func extractLink(entry *gofeed.Item) string {
	for _, candidate := range []string{entry.Link, entry.GUID} {
		candidate = strings.TrimSpace(candidate)
		if strings.HasPrefix(candidate, httpPrefix) {
			return candidate
		}
	}

	return ""
}

// publishedAt prefers the published date and falls back to the updated date.
func publishedAt(entry *gofeed.Item) *time.Time {
	for _, t := range []*time.Time{entry.PublishedParsed, entry.UpdatedParsed} {
		if t != nil && !t.IsZero() {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}

// snippet returns the entry's description (or content) as plain text.
func snippet(entry *gofeed.Item) string {
	raw := entry.Description
	if strings.TrimSpace(raw) == "" {
		raw = entry.Content
	}
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	text := raw
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
		text = doc.Text()
	}

	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) > maxSnippetRunes {
		text = string([]rune(text)[:maxSnippetRunes])
	}

	return text
}
