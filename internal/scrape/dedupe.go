package scrape

import "github.com/jonesrussell/north-cloud/startup-scout/internal/domain"

// Dedupe flattens perSource in source order then article order and keeps the
// first result for each article URL.
func Dedupe(perSource [][]domain.EnrichedResult) []domain.EnrichedResult {
	total := 0
	for _, list := range perSource {
		total += len(list)
	}

	seen := make(map[string]struct{}, total)
	out := make([]domain.EnrichedResult, 0, total)

	for _, list := range perSource {
		for _, r := range list {
			if _, dup := seen[r.ArticleURL]; dup {
				continue
			}
			seen[r.ArticleURL] = struct{}{}
			out = append(out, r)
		}
	}

	return out
}
