// Package scrape orchestrates a run: resolve sources, fetch and filter feeds,
// enrich articles under the shared limiter, then deduplicate.
package scrape

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/domain"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/extract"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/filter"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/logger"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/sources"
)

// Reasons recorded when a source contributes nothing.
const (
	ReasonUnresolvable = "unresolvable"
	ReasonPanic        = "panic"
)

// FeedSource fetches a feed's articles, returning an empty list on failure.
type FeedSource interface {
	FetchArticles(ctx context.Context, feedURL, sourceName string) []domain.Article
}

// ArticleEnricher enriches one article. It must never fail.
type ArticleEnricher interface {
	Enrich(ctx context.Context, feedHost string, a domain.Article) domain.EnrichedResult
}

// Recorder receives run-level outcomes. A nil *metrics.Metrics satisfies it.
type Recorder interface {
	RunCompleted(elapsed time.Duration, results int)
	SourceFailed(reason string)
	ArticlesDropped(n int)
}

// Pipeline runs scrapes. It is safe for concurrent use.
type Pipeline struct {
	feeds    FeedSource
	enricher ArticleEnricher
	recorder Recorder
	logger   logger.Logger
}

// NewPipeline creates a Pipeline. recorder may be nil.
func NewPipeline(feeds FeedSource, enricher ArticleEnricher, recorder Recorder, log logger.Logger) *Pipeline {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Pipeline{feeds: feeds, enricher: enricher, recorder: recorder, logger: log}
}

// Run scrapes the enabled members of list. It always returns a non-nil slice;
// failing sources contribute nothing.
func (p *Pipeline) Run(ctx context.Context, list []domain.SourceConfig, params filter.Params) []domain.EnrichedResult {
	start := time.Now()
	enabled := sources.Enabled(list)
	log := p.logger.With(logger.String("run_id", uuid.New().String()))

	log.Info("Scrape run started",
		logger.Int("sources", len(enabled)),
		logger.Int("disabled_sources", len(list)-len(enabled)),
		logger.Strings("regions", params.Regions),
	)

	perSource := make([][]domain.EnrichedResult, len(enabled))

	var wg sync.WaitGroup
	for i, src := range enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			perSource[i] = p.runSource(ctx, src, params, log.With(logger.String("source", src.Name)))
		}()
	}
	wg.Wait()

	results := Dedupe(perSource)
	elapsed := time.Since(start)
	p.recorder.RunCompleted(elapsed, len(results))

	log.Info("Scrape run finished",
		logger.Int("results", len(results)),
		logger.Duration("duration", elapsed),
	)

	return results
}

// runSource processes one source. Any panic in the source or its articles
// discards the whole source.
func (p *Pipeline) runSource(
	ctx context.Context,
	src domain.SourceConfig,
	params filter.Params,
	log logger.Logger,
) (results []domain.EnrichedResult) {
	defer func() {
		if r := recover(); r != nil {
			results = p.sourcePanicked(log, fmt.Sprint(r))
		}
	}()

	feedURL, ok := sources.Resolve(src)
	if !ok {
		log.Warn("Source could not be resolved", logger.String("kind", string(src.Kind)))
		p.recorder.SourceFailed(ReasonUnresolvable)
		return []domain.EnrichedResult{}
	}

	articles := p.feeds.FetchArticles(ctx, feedURL, src.Name)
	kept := filter.Apply(articles, params)
	p.recorder.ArticlesDropped(len(articles) - len(kept))

	log.Debug("Feed filtered",
		logger.Int("articles", len(articles)),
		logger.Int("kept", len(kept)),
	)

	feedHost := extract.Host(feedURL)
	results = make([]domain.EnrichedResult, len(kept))

	var (
		wg       sync.WaitGroup
		panicked atomic.Pointer[string]
	)
	for j, a := range kept {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					msg := fmt.Sprint(r)
					panicked.CompareAndSwap(nil, &msg)
				}
			}()
			results[j] = p.enricher.Enrich(ctx, feedHost, a)
		}()
	}
	wg.Wait()

	if msg := panicked.Load(); msg != nil {
		return p.sourcePanicked(log, *msg)
	}

	return results
}

func (p *Pipeline) sourcePanicked(log logger.Logger, msg string) []domain.EnrichedResult {
	log.Error("Source failed", logger.Error(fmt.Errorf("panic: %s", msg)))
	p.recorder.SourceFailed(ReasonPanic)
	return []domain.EnrichedResult{}
}

type nopRecorder struct{}

func (nopRecorder) RunCompleted(time.Duration, int) {}
func (nopRecorder) SourceFailed(string)             {}
func (nopRecorder) ArticlesDropped(int)             {}
