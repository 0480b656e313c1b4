package sources_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	cmdsources "github.com/jonesrussell/north-cloud/startup-scout/cmd/sources"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/domain"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/sources"
)

func TestRenderTable_ResolvesFeedURLs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cmdsources.RenderTable(&buf, sources.Defaults())

	out := buf.String()
	assert.Contains(t, out, "techcrunch-startups")
	assert.Contains(t, out, "https://techcrunch.com/category/startups/feed/")
	assert.Contains(t, out, "https://news.google.com/rss/search?q=")
}

func TestRenderTable_MarksUnresolvable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cmdsources.RenderTable(&buf, []domain.SourceConfig{
		{ID: "broken", Name: "Broken", Kind: domain.SourceKindRSS},
	})

	assert.Contains(t, buf.String(), "(unresolvable)")
}
