package extract_test

import (
	"testing"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/extract"
	"github.com/stretchr/testify/assert"
)

func TestCompanyNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "single leading name", text: "Acme raises seed. ", want: []string{"Acme"}},
		{
			name: "multi word name and stop words",
			text: "Exclusive: Blue Harbor Robotics lands $12M Series A from Sequoia Capital.",
			want: []string{"Blue Harbor Robotics", "Sequoia"},
		},
		{name: "possessive", text: "Nimbus's founders bet on edge AI", want: []string{"Nimbus"}},
		{name: "dedupes in first-seen order", text: "Orbit hires. Orbit expands to Lagos", want: []string{"Orbit", "Lagos"}},
		{name: "no capitals", text: "a quiet week for funding", want: nil},
		{name: "only stop words", text: "The Startup Raises Funding", want: nil},
		{name: "empty", text: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, extract.CompanyNames(tt.text))
		})
	}
}

func TestFirstExternalURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "og url wins over canonical",
			html: `<html><head><link rel="canonical" href="https://b.example/x">` +
				`<meta property="og:url" content="https://a.example/"></head></html>`,
			want: "https://a.example/",
		},
		{
			name: "canonical",
			html: `<html><head><link rel="canonical" href="https://acme.io/"></head></html>`,
			want: "https://acme.io/",
		},
		{
			name: "relative og url skipped",
			html: `<html><head><meta property="og:url" content="/about">` +
				`<meta name="twitter:url" content="https://acme.io/about"></head></html>`,
			want: "https://acme.io/about",
		},
		{name: "no metadata", html: `<html><body><p>hi</p></body></html>`, want: ""},
		{name: "empty", html: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, extract.FirstExternalURL(tt.html))
		})
	}
}

func TestEmails(t *testing.T) {
	t.Parallel()

	html := `<a href="mailto:hello@acme.io">hello@acme.io</a>
		<img src="/img/logo@2x.png"> Contact press@acme.io or jobs@acme.co.uk`

	got := extract.Emails(html)
	assert.Equal(t, []string{"hello@acme.io", "hello@acme.io", "press@acme.io", "jobs@acme.co.uk"}, got)
	assert.Empty(t, extract.Emails("no addresses here"))
	assert.NotNil(t, extract.Emails(""))
}

func TestFounderSearchURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"https://www.google.com/search?q=Blue+Harbor+founder+linkedin",
		extract.FounderSearchURL("Blue Harbor"),
	)
	assert.Empty(t, extract.FounderSearchURL("  "))
}

func TestHost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "news.google.com", extract.Host("https://news.google.com/rss/articles/x"))
	assert.Equal(t, "acme.io", extract.Host("https://WWW.Acme.io/about"))
	assert.Empty(t, extract.Host("::not a url"))
}
