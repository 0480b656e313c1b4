// Package enrich derives company, website, founder-search and email hints for
// a single article under the shared concurrency limiter.
package enrich

import (
	"context"
	"strings"
	"time"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/domain"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/extract"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/fetcher"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/limiter"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/logger"
)

// Observer receives per-article outcomes. Used for metrics.
type Observer interface {
	EnrichmentCompleted(elapsed time.Duration, result domain.EnrichedResult)
}

// Enricher runs the per-article enrichment steps.
type Enricher struct {
	pages      fetcher.Getter
	limiter    *limiter.Limiter
	publishers []string
	logger     logger.Logger
	observer   Observer
}

// New creates an Enricher. publisherDomains are hosts never accepted as a
// company website; observer may be nil.
func New(
	pages fetcher.Getter,
	lim *limiter.Limiter,
	publisherDomains []string,
	log logger.Logger,
	observer Observer,
) *Enricher {
	publishers := make([]string, 0, len(publisherDomains))
	for _, d := range publisherDomains {
		if d = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "www."); d != "" {
			publishers = append(publishers, d)
		}
	}

	return &Enricher{
		pages:      pages,
		limiter:    lim,
		publishers: publishers,
		logger:     log,
		observer:   observer,
	}
}

// Enrich produces one result for a. feedHost is the host of the feed the
// article came from. Every step degrades independently; Enrich never fails.
// The limiter slot is held for all network work of the article.
func (e *Enricher) Enrich(ctx context.Context, feedHost string, a domain.Article) domain.EnrichedResult {
	start := time.Now()
	result := domain.NewEnrichedResult(a)

	if names := extract.CompanyNames(a.Title + ". " + a.Snippet); len(names) > 0 {
		result.CompanyName = names[0]
		result.FounderSearchURL = extract.FounderSearchURL(names[0])
	}

	err := e.limiter.Do(ctx, func(ctx context.Context) {
		articleHTML := e.fetchPage(ctx, a.Link, "article")

		result.Website = e.resolveWebsite(articleHTML, feedHost, a.Link)

		homeHTML := articleHTML
		if result.Website != a.Link {
			homeHTML = e.fetchPage(ctx, result.Website, "website")
		}

		result.Emails = extract.Emails(homeHTML)
	})
	if err != nil {
		e.logger.Debug("Enrichment skipped",
			logger.String("article_url", a.Link),
			logger.Error(err),
		)
	}

	if e.observer != nil {
		e.observer.EnrichmentCompleted(time.Since(start), result)
	}

	return result
}

// fetchPage returns the page body or "" on any failure.
func (e *Enricher) fetchPage(ctx context.Context, url, kind string) string {
	if url == "" {
		return ""
	}

	body, err := e.pages.Get(ctx, url)
	if err != nil {
		e.logger.Debug("Page fetch failed",
			logger.String("kind", kind),
			logger.String("url", url),
			logger.Error(err),
		)
		return ""
	}

	return body
}

// resolveWebsite picks the first external URL in the article HTML unless it
// points at the feed's host or a publisher domain, falling back to the article link.
func (e *Enricher) resolveWebsite(articleHTML, feedHost, articleLink string) string {
	candidate := extract.FirstExternalURL(articleHTML)
	if candidate == "" || e.isPublisher(extract.Host(candidate), feedHost) {
		return articleLink
	}
	return candidate
}

func (e *Enricher) isPublisher(host, feedHost string) bool {
	if host == "" {
		return true
	}

	feedHost = strings.TrimPrefix(strings.ToLower(feedHost), "www.")
	if feedHost != "" && host == feedHost {
		return true
	}

	for _, p := range e.publishers {
		if host == p || strings.HasSuffix(host, "."+p) {
			return true
		}
	}
	return false
}
