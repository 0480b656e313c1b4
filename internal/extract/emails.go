package extract

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// assetSuffixes catch retina asset names like "logo@2x.png" that look like addresses.
var assetSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".css", ".js"}

// Emails returns every address-like string in html in the order found.
// Duplicates are kept.
func Emails(html string) []string {
	matches := emailPattern.FindAllString(html, -1)

	emails := make([]string, 0, len(matches))
	for _, m := range matches {
		if isAsset(m) {
			continue
		}
		emails = append(emails, m)
	}

	return emails
}

func isAsset(match string) bool {
	lower := strings.ToLower(match)
	for _, suffix := range assetSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
