package scrape

import (
	"context"
	"time"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/domain"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/filter"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/logger"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/sources"
)

// SourceProvider supplies the sources used when a request carries none.
type SourceProvider interface {
	ListSources(ctx context.Context) ([]domain.SourceConfig, error)
}

// StaticSources is a fixed SourceProvider.
type StaticSources []domain.SourceConfig

// ListSources returns a copy of the list.
func (s StaticSources) ListSources(context.Context) ([]domain.SourceConfig, error) {
	return append([]domain.SourceConfig(nil), s...), nil
}

// Service adapts scrape requests to pipeline runs.
type Service struct {
	pipeline   *Pipeline
	provider   SourceProvider
	runTimeout time.Duration
	logger     logger.Logger
}

// NewService creates a Service. A nil provider uses the built-in defaults.
func NewService(pipeline *Pipeline, provider SourceProvider, runTimeout time.Duration, log logger.Logger) *Service {
	if provider == nil {
		provider = StaticSources(sources.Defaults())
	}
	return &Service{pipeline: pipeline, provider: provider, runTimeout: runTimeout, logger: log}
}

// Scrape runs one request. It never fails: bad input degrades to defaults.
func (s *Service) Scrape(ctx context.Context, req domain.ScrapeRequest) domain.ScrapeResponse {
	params, ok := filter.NewParams(req.FromDateISO, req.Regions)
	if !ok {
		s.logger.Warn("Ignoring unparsable date boundary",
			logger.String("from_date", req.FromDateISO),
		)
	}

	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	return domain.ScrapeResponse{
		Results: s.pipeline.Run(ctx, s.resolveSources(ctx, req.Sources), params),
	}
}

// resolveSources returns the request's sources, or the provider's when the
// request has none. Provider errors fall back to the built-in defaults.
func (s *Service) resolveSources(ctx context.Context, requested []domain.SourceConfig) []domain.SourceConfig {
	if len(requested) > 0 {
		return requested
	}

	list, err := s.provider.ListSources(ctx)
	if err != nil {
		s.logger.Error("Load sources failed, using built-in defaults", logger.Error(err))
		return sources.Defaults()
	}

	return list
}
