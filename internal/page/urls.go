package page

import (
	"fmt"
	"net/url"
	"strings"

	"mvdan.cc/xurls/v2"
)

// FindURLs returns the distinct http(s) URLs in text, in order of appearance.
func FindURLs(text string) ([]string, error) {
	httpURLRe, err := xurls.StrictMatchingScheme(`https?://`)
	if err != nil {
		return nil, fmt.Errorf("create regexp: %w", err)
	}

	matches := httpURLRe.FindAllString(text, -1)

	urls := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))

	for _, m := range matches {
		canonical := CanonicalURL(m)
		if _, ok := seen[canonical]; ok {
			continue
		}

		seen[canonical] = struct{}{}
		urls = append(urls, canonical)
	}

	return urls, nil
}

// CanonicalURL trims raw and drops its fragment. Unparsable input is returned trimmed.
func CanonicalURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}

	u.Fragment = ""
	u.RawFragment = ""

	return u.String()
}
