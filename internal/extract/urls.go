package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// urlSelectors are checked in order; each names an element and the attribute holding the URL.
var urlSelectors = []struct {
	selector string
	attr     string
}{
	{"meta[property='og:url']", "content"},
	{"link[rel='canonical']", "href"},
	{"meta[name='twitter:url']", "content"},
	{"meta[property='twitter:url']", "content"},
}

// FirstExternalURL returns the first absolute http(s) URL declared by the page's
// og:url, canonical, or twitter:url metadata. Malformed HTML yields "".
func FirstExternalURL(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	for _, s := range urlSelectors {
		var found string
		doc.Find(s.selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if v, ok := sel.Attr(s.attr); ok && IsAbsoluteHTTP(v) {
				found = strings.TrimSpace(v)
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}

	return ""
}

// IsAbsoluteHTTP reports whether raw parses as an http or https URL with a host.
func IsAbsoluteHTTP(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Host returns the lowercased host of raw without a leading "www.", or "" when unparsable.
func Host(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

const founderSearchBase = "https://www.google.com/search?q="

// FounderSearchURL builds a search link for "<company> founder linkedin", or ""
// when company is blank.
func FounderSearchURL(company string) string {
	company = strings.TrimSpace(company)
	if company == "" {
		return ""
	}
	return founderSearchBase + url.QueryEscape(company+" founder linkedin")
}
