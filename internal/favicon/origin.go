// Package favicon resolves, downloads and stores the favicon of a page.
package favicon

import (
	"fmt"

	whatwg "github.com/nlnwa/whatwg-url/url"
)

// Origin is the scheme and host (with any non-default port) of a page.
type Origin struct {
	Scheme string
	Host   string
}

// ParseOrigin parses pageURL with WHATWG rules and returns its origin.
func ParseOrigin(pageURL string) (Origin, error) {
	u, err := whatwg.Parse(pageURL)
	if err != nil {
		return Origin{}, fmt.Errorf("parse %q: %w", pageURL, err)
	}
	if u.Hostname() == "" {
		return Origin{}, fmt.Errorf("url %q has no host", pageURL)
	}
	return Origin{Scheme: u.Scheme(), Host: u.Host()}, nil
}

func (o Origin) String() string {
	return o.Scheme + "://" + o.Host
}

// IndexKey is the favicons.url value icons of this origin are stored under.
func (o Origin) IndexKey() string {
	return o.String() + "/favicon.ico"
}
