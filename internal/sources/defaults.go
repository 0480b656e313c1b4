package sources

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/domain"
	"gopkg.in/yaml.v3"
)

// Validation errors returned by Validate.
var (
	ErrNameRequired    = errors.New("source name is required")
	ErrUnknownKind     = errors.New("source kind must be rss or google_news")
	ErrFeedURLRequired = errors.New("rss source requires an absolute http(s) feed URL")
)

// Defaults returns the built-in source list used when a caller supplies none.
func Defaults() []domain.SourceConfig {
	return []domain.SourceConfig{
		{
			ID:      "techcrunch-startups",
			Name:    "TechCrunch Startups",
			Kind:    domain.SourceKindRSS,
			FeedURL: "https://techcrunch.com/category/startups/feed/",
			Enabled: true,
		},
		{
			ID:      "google-news-startup-funding",
			Name:    "Google News: startup funding",
			Kind:    domain.SourceKindGoogleNews,
			Query:   "startup raises seed round",
			Enabled: true,
		},
		{
			ID:      "google-news-series-a",
			Name:    "Google News: Series A",
			Kind:    domain.SourceKindGoogleNews,
			Query:   "startup series A funding",
			Enabled: true,
		},
		{
			ID:      "e27",
			Name:    "e27",
			Kind:    domain.SourceKindRSS,
			FeedURL: "https://e27.co/index_wp/feed/",
			Enabled: false,
		},
	}
}

type sourcesFile struct {
	Sources []domain.SourceConfig `yaml:"sources"`
}

// LoadFile reads a YAML sources file of the form `sources: [...]`. Every entry
// is validated; the first invalid entry fails the load.
func LoadFile(path string) ([]domain.SourceConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var file sourcesFile
	if unmarshalErr := yaml.Unmarshal(raw, &file); unmarshalErr != nil {
		return nil, fmt.Errorf("parse sources file %s: %w", path, unmarshalErr)
	}

	for i := range file.Sources {
		if file.Sources[i].ID == "" {
			file.Sources[i].ID = slug(file.Sources[i].Name)
		}
		if validateErr := Validate(file.Sources[i]); validateErr != nil {
			return nil, fmt.Errorf("source %d (%s): %w", i, file.Sources[i].Name, validateErr)
		}
	}

	return file.Sources, nil
}

// Validate checks that cfg can be resolved to a feed URL.
func Validate(cfg domain.SourceConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return ErrNameRequired
	}
	if !cfg.Kind.Valid() {
		return ErrUnknownKind
	}
	if cfg.Kind == domain.SourceKindRSS {
		u, err := url.Parse(cfg.FeedURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrFeedURLRequired
		}
	}
	return nil
}

func slug(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
	return strings.Join(fields, "-")
}
