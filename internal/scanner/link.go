package scanner

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveLink turns href into an absolute URL using the page it was found on.
func ResolveLink(pageURL, href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", fmt.Errorf("empty link on %s", pageURL)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid page url %s: %w", pageURL, err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid link %s: %w", href, err)
	}

	resolved := base.ResolveReference(ref)
	if !resolved.IsAbs() {
		return "", fmt.Errorf("link %s on %s is not absolute", href, pageURL)
	}
	return resolved.String(), nil
}
