package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/logger"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/retry"
)

// ErrBodyTooLarge is returned when a response exceeds Config.MaxBodyBytes.
var ErrBodyTooLarge = errors.New("response body exceeds limit")

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// Config controls outbound fetches.
type Config struct {
	Timeout       time.Duration
	UserAgent     string
	MaxBodyBytes  int64
	RetryAttempts int
	RetryDelay    time.Duration
}

// Getter fetches a URL body. Implemented by *Fetcher and by test fakes.
type Getter interface {
	Get(ctx context.Context, url string) (string, error)
}

// Fetcher is the production Getter.
type Fetcher struct {
	client *http.Client
	cfg    Config
	logger logger.Logger
}

// New creates a Fetcher. A nil client gets NewHTTPClient().
func New(client *http.Client, cfg Config, log logger.Logger) *Fetcher {
	if client == nil {
		client = NewHTTPClient()
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Fetcher{client: client, cfg: cfg, logger: log}
}

// Get returns the body of url. Each attempt runs under its own Config.Timeout;
// network errors, 429 and 5xx responses are retried.
func (f *Fetcher) Get(ctx context.Context, url string) (string, error) {
	var body string

	err := retry.Do(ctx, retry.Config{
		MaxAttempts:  f.cfg.RetryAttempts,
		InitialDelay: f.cfg.RetryDelay,
	}, func(ctx context.Context) error {
		b, getErr := f.getOnce(ctx, url)
		if getErr != nil {
			f.logger.Debug("Fetch attempt failed",
				logger.String("url", url),
				logger.Error(getErr),
			)
			return getErr
		}
		body = b
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}

	return body, nil
}

func (f *Fetcher) getOnce(ctx context.Context, url string) (string, error) {
	if f.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}

	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/rss+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		statusErr := &StatusError{StatusCode: resp.StatusCode, URL: url}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return "", &retry.Transient{Err: statusErr}
		}
		return "", statusErr
	}

	return readBody(resp.Body, f.cfg.MaxBodyBytes)
}

func readBody(r io.Reader, limit int64) (string, error) {
	if limit <= 0 {
		raw, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read body: %w", err)
		}
		return string(raw), nil
	}

	raw, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(raw)) > limit {
		return "", ErrBodyTooLarge
	}

	return string(raw), nil
}
