package filter_test

import (
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/domain"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(t time.Time) *time.Time { return &t }

func TestIsAfter(t *testing.T) {
	t.Parallel()

	boundary := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		published *time.Time
		from      *time.Time
		want      bool
	}{
		{name: "equal to boundary is included", published: ptr(boundary), from: ptr(boundary), want: true},
		{name: "after boundary", published: ptr(boundary.Add(time.Hour)), from: ptr(boundary), want: true},
		{name: "before boundary", published: ptr(boundary.Add(-time.Second)), from: ptr(boundary), want: false},
		{name: "missing date with boundary", published: nil, from: ptr(boundary), want: true},
		{name: "missing date without boundary", published: nil, from: nil, want: true},
		{name: "no boundary", published: ptr(boundary.AddDate(-10, 0, 0)), from: nil, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, filter.IsAfter(tt.published, tt.from))
		})
	}
}

func TestMatchesRegions(t *testing.T) {
	t.Parallel()

	singapore := domain.Article{Title: "Singapore fintech raises $5M"}
	berlin := domain.Article{Title: "Berlin robotics startup", Snippet: "A hardware play"}
	snippetOnly := domain.Article{Title: "Payments app expands", Snippet: "now live in SINGAPORE and Jakarta"}

	assert.True(t, filter.MatchesRegions(singapore, nil))
	assert.True(t, filter.MatchesRegions(berlin, []string{}))
	assert.True(t, filter.MatchesRegions(singapore, []string{"singapore"}))
	assert.False(t, filter.MatchesRegions(berlin, []string{"singapore"}))
	assert.True(t, filter.MatchesRegions(snippetOnly, []string{"singapore"}))
	// Substring, not word boundary.
	assert.True(t, filter.MatchesRegions(domain.Article{Title: "Singaporean founders"}, []string{"singapore"}))
}

func TestNewParams(t *testing.T) {
	t.Parallel()

	p, ok := filter.NewParams("2024-01-01", []string{" Singapore ", "", "SEA"})
	require.True(t, ok)
	require.NotNil(t, p.From)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *p.From)
	assert.Equal(t, []string{"singapore", "sea"}, p.Regions)

	p, ok = filter.NewParams("2024-01-01T10:30:00+08:00", nil)
	require.True(t, ok)
	assert.True(t, p.From.Equal(time.Date(2024, 1, 1, 2, 30, 0, 0, time.UTC)))

	p, ok = filter.NewParams("", nil)
	assert.True(t, ok)
	assert.Nil(t, p.From)

	p, ok = filter.NewParams("last tuesday", nil)
	assert.False(t, ok)
	assert.Nil(t, p.From)
}

func TestApply(t *testing.T) {
	t.Parallel()

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	articles := []domain.Article{
		{Title: "Old Singapore news", Link: "https://x/1", PublishedAt: ptr(from.AddDate(0, 0, -1))},
		{Title: "Singapore boundary", Link: "https://x/2", PublishedAt: ptr(from)},
		{Title: "Undated Singapore", Link: "https://x/3"},
		{Title: "Fresh Berlin", Link: "https://x/4", PublishedAt: ptr(from.AddDate(0, 0, 1))},
	}

	got := filter.Apply(articles, filter.Params{From: &from, Regions: []string{"singapore"}})
	require.Len(t, got, 2)
	assert.Equal(t, "https://x/2", got[0].Link)
	assert.Equal(t, "https://x/3", got[1].Link)

	assert.Len(t, filter.Apply(articles, filter.Params{}), 4)
}
