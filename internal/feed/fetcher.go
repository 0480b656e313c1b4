package feed

import (
	"context"
	"time"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/domain"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/fetcher"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/logger"
)

// Observer receives feed outcomes. Used for metrics.
type Observer interface {
	FeedFetched(sourceName string, articles int, elapsed time.Duration)
	FeedFailed(sourceName string, errType ErrorType)
}

// Fetcher retrieves and parses feeds.
type Fetcher struct {
	getter   fetcher.Getter
	logger   logger.Logger
	observer Observer
}

// NewFetcher creates a Fetcher. observer may be nil.
func NewFetcher(getter fetcher.Getter, log logger.Logger, observer Observer) *Fetcher {
	return &Fetcher{getter: getter, logger: log, observer: observer}
}

// Fetch downloads feedURL and parses it. Failures are returned as *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, feedURL, sourceName string) ([]domain.Article, error) {
	body, err := f.getter.Get(ctx, feedURL)
	if err != nil {
		return nil, classifyFetchError(err, feedURL)
	}

	articles, err := Parse(body, sourceName)
	if err != nil {
		return nil, &FetchError{Type: ErrTypeParse, URL: feedURL, Cause: err}
	}

	return articles, nil
}

// FetchArticles is Fetch for the pipeline: any failure is logged and yields an
// empty list so sibling sources are unaffected.
func (f *Fetcher) FetchArticles(ctx context.Context, feedURL, sourceName string) []domain.Article {
	start := time.Now()

	articles, err := f.Fetch(ctx, feedURL, sourceName)
	if err != nil {
		errType := ErrorTypeOf(err)
		f.logger.Warn("Feed fetch failed",
			logger.String("source", sourceName),
			logger.String("feed_url", feedURL),
			logger.String("error_type", string(errType)),
			logger.Error(err),
		)
		if f.observer != nil {
			f.observer.FeedFailed(sourceName, errType)
		}
		return []domain.Article{}
	}

	elapsed := time.Since(start)
	f.logger.Debug("Feed fetched",
		logger.String("source", sourceName),
		logger.Int("articles", len(articles)),
		logger.Duration("duration", elapsed),
	)
	if f.observer != nil {
		f.observer.FeedFetched(sourceName, len(articles), elapsed)
	}

	return articles
}
