package favicon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxManifestBytes bounds how much of a web app manifest is decoded.
const maxManifestBytes = 1 << 20

// Discoverer lists the icons a host advertises.
type Discoverer interface {
	Discover(ctx context.Context, host string) ([]Icon, error)
}

// HTMLDiscoverer reads icons from the <link> tags of a host's home page and
// from the web app manifest it links to.
type HTMLDiscoverer struct {
	Client *Client
	// Scheme of the home page request. Defaults to https.
	Scheme string
	Logger *slog.Logger
}

// Discover fetches the home page of host and returns its icons in document
// order, followed by the manifest icons. A page without icons yields an empty
// slice and no error.
func (d *HTMLDiscoverer) Discover(ctx context.Context, host string) ([]Icon, error) {
	scheme := d.Scheme
	if scheme == "" {
		scheme = "https"
	}

	home := scheme + "://" + host + "/"
	resp, err := d.Client.Get(ctx, home)
	if err != nil {
		return nil, fmt.Errorf("fetch home page: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, home); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse home page: %w", err)
	}

	base := resp.Request.URL
	icons := []Icon{}
	var manifest *url.URL

	doc.Find("link[rel][href]").Each(func(i int, s *goquery.Selection) {
		rel, _ := s.Attr("rel")
		href, _ := s.Attr("href")

		link, err := base.Parse(strings.TrimSpace(href))
		if err != nil {
			d.logger().Warn("skip unparsable link", "host", host, "href", href, "error", err)
			return
		}

		switch {
		case isIconRel(rel):
			icons = append(icons, Icon{
				Src:   link.String(),
				Sizes: s.AttrOr("sizes", ""),
				Type:  s.AttrOr("type", ""),
				Rel:   rel,
			})
		case hasRelToken(rel, "manifest") && manifest == nil:
			manifest = link
		}
	})

	if manifest != nil {
		extra, err := d.manifestIcons(ctx, manifest)
		if err != nil {
			d.logger().Warn("ignore web app manifest", "host", host, "manifest", manifest.String(), "error", err)
		} else {
			icons = append(icons, extra...)
		}
	}

	return icons, nil
}

func (d *HTMLDiscoverer) manifestIcons(ctx context.Context, manifest *url.URL) ([]Icon, error) {
	resp, err := d.Client.Get(ctx, manifest.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, manifest.String()); err != nil {
		return nil, err
	}

	var m struct {
		Icons []Icon `json:"icons"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxManifestBytes)).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	icons := make([]Icon, 0, len(m.Icons))
	for _, icon := range m.Icons {
		src, err := resp.Request.URL.Parse(strings.TrimSpace(icon.Src))
		if err != nil || icon.Src == "" {
			continue
		}
		icon.Src = src.String()
		icon.Rel = "manifest"
		icons = append(icons, icon)
	}
	return icons, nil
}

func (d *HTMLDiscoverer) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

func isIconRel(rel string) bool {
	for _, token := range strings.Fields(strings.ToLower(rel)) {
		if token == "icon" || strings.HasPrefix(token, "apple-touch-icon") {
			return true
		}
	}
	return false
}

func hasRelToken(rel, want string) bool {
	for _, token := range strings.Fields(strings.ToLower(rel)) {
		if token == want {
			return true
		}
	}
	return false
}
