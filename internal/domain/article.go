package domain

import "time"

// Article is a single feed entry after parsing. PublishedAt is nil when the
// feed carried no usable date.
type Article struct {
	Title       string
	Link        string
	PublishedAt *time.Time
	Snippet     string
	SourceName  string
}

// EnrichedResult is an article plus the best-effort fields derived from it.
// Empty strings mean the field could not be derived.
type EnrichedResult struct {
	ArticleTitle     string     `json:"articleTitle"`
	ArticleURL       string     `json:"articleUrl"`
	SourceName       string     `json:"sourceName"`
	PublishedAt      *time.Time `json:"publishedAt,omitempty"`
	CompanyName      string     `json:"companyName,omitempty"`
	Website          string     `json:"website,omitempty"`
	FounderSearchURL string     `json:"founderSearchUrl,omitempty"`
	Emails           []string   `json:"emails"`
}

// NewEnrichedResult seeds a result with the article's own fields.
func NewEnrichedResult(a Article) EnrichedResult {
	return EnrichedResult{
		ArticleTitle: a.Title,
		ArticleURL:   a.Link,
		SourceName:   a.SourceName,
		PublishedAt:  a.PublishedAt,
		Emails:       []string{},
	}
}

// ScrapeRequest is the caller's input to a run.
type ScrapeRequest struct {
	Sources     []SourceConfig `json:"sources,omitempty"`
	FromDateISO string         `json:"fromDateISO"`
	Regions     []string       `json:"regions,omitempty"`
}

// ScrapeResponse wraps the deduplicated results of a run.
type ScrapeResponse struct {
	Results []EnrichedResult `json:"results"`
}
