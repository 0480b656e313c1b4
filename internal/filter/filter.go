// Package filter narrows parsed articles by publish date and region keywords.
package filter

import (
	"strings"
	"time"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/domain"
)

// Params are the filters applied to every source's articles in a run.
type Params struct {
	// From is the inclusive lower bound. Nil disables the date filter.
	From *time.Time
	// Regions are lowercase substrings; empty accepts everything.
	Regions []string
}

// dateLayouts are tried in order when parsing a boundary.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseDate parses an ISO-8601 date or timestamp. Zone-less values are UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// NewParams builds Params from raw request values. An unparsable date is
// reported through ok=false and leaves From nil.
func NewParams(fromDateISO string, regions []string) (params Params, ok bool) {
	params.Regions = normalizeRegions(regions)

	if strings.TrimSpace(fromDateISO) == "" {
		return params, true
	}

	from, parsed := ParseDate(fromDateISO)
	if !parsed {
		return params, false
	}
	params.From = &from

	return params, true
}

func normalizeRegions(regions []string) []string {
	out := make([]string, 0, len(regions))
	for _, r := range regions {
		r = strings.ToLower(strings.TrimSpace(r))
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}

// Apply returns the articles passing both filters, preserving order.
func Apply(articles []domain.Article, p Params) []domain.Article {
	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if IsAfter(a.PublishedAt, p.From) && MatchesRegions(a, p.Regions) {
			out = append(out, a)
		}
	}
	return out
}

// IsAfter reports whether published is on or after from. A missing value on
// either side passes.
func IsAfter(published, from *time.Time) bool {
	if published == nil || from == nil {
		return true
	}
	return !published.Before(*from)
}

// MatchesRegions reports whether the article's title or snippet contains any
// of regions, case-insensitively. Regions must already be lowercase.
func MatchesRegions(a domain.Article, regions []string) bool {
	if len(regions) == 0 {
		return true
	}

	haystack := strings.ToLower(a.Title + " " + a.Snippet)
	for _, r := range regions {
		if strings.Contains(haystack, r) {
			return true
		}
	}
	return false
}
