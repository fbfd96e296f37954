package favicon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const homePage = `<!DOCTYPE html>
<html lang="en">
	<head>
	<meta charset="utf-8">
	<title>Tested!</title>
	<link rel="stylesheet" href="style.css">
	<link rel="shortcut icon" href="/favicon.ico">
	<link rel="icon" type="image/png" sizes="32x32" href="/static/icon-32.png">
	<link rel="apple-touch-icon-precomposed" sizes="180x180" href="apple.png">
	<link rel="manifest" href="/site.webmanifest">
	</head>
	<body>blablabla</body>
</html>`

const manifest = `{"name":"Tested","icons":[{"src":"/android-192.png","sizes":"192x192","type":"image/png"},{"src":""}]}`

func newDiscoverer(t *testing.T, handler http.Handler) (*HTMLDiscoverer, string) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	d := &HTMLDiscoverer{
		Client: NewClient(nil, rate.Inf, 5*time.Second, "historygen-test"),
		Scheme: "http",
	}
	return d, strings.TrimPrefix(server.URL, "http://")
}

func TestDiscover_LinksAndManifest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(homePage))
	})
	mux.HandleFunc("/site.webmanifest", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/manifest+json")
		w.Write([]byte(manifest))
	})
	d, host := newDiscoverer(t, mux)
	base := "http://" + host

	icons, err := d.Discover(context.Background(), host)
	require.NoError(t, err)
	assert.Equal(t, []Icon{
		{Src: base + "/favicon.ico", Rel: "shortcut icon"},
		{Src: base + "/static/icon-32.png", Sizes: "32x32", Type: "image/png", Rel: "icon"},
		{Src: base + "/apple.png", Sizes: "180x180", Rel: "apple-touch-icon-precomposed"},
		{Src: base + "/android-192.png", Sizes: "192x192", Type: "image/png", Rel: "manifest"},
	}, icons)

	c, ok := SelectCandidate(icons)
	require.True(t, ok)
	assert.Equal(t, Candidate{URL: base + "/static/icon-32.png", Size: 32}, c)
}

func TestDiscover_NoIcons(t *testing.T) {
	d, host := newDiscoverer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>bare</title></head><body></body></html>`))
	}))

	icons, err := d.Discover(context.Background(), host)
	require.NoError(t, err)
	assert.Empty(t, icons)
}

func TestDiscover_BrokenManifestKeepsLinks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<link rel="icon" href="/i.png"><link rel="manifest" href="/m.json">`))
	})
	mux.HandleFunc("/m.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})
	d, host := newDiscoverer(t, mux)

	icons, err := d.Discover(context.Background(), host)
	require.NoError(t, err)
	require.Len(t, icons, 1)
	assert.Equal(t, "http://"+host+"/i.png", icons[0].Src)
}

func TestDiscover_BadStatus(t *testing.T) {
	d, host := newDiscoverer(t, http.NotFoundHandler())

	_, err := d.Discover(context.Background(), host)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestDiscover_Unreachable(t *testing.T) {
	d := &HTMLDiscoverer{Client: NewClient(nil, rate.Inf, time.Second, ""), Scheme: "http"}
	_, err := d.Discover(context.Background(), "127.0.0.1:1")
	assert.Error(t, err)
}

func TestIsIconRel(t *testing.T) {
	assert.True(t, isIconRel("icon"))
	assert.True(t, isIconRel("Shortcut Icon"))
	assert.True(t, isIconRel("apple-touch-icon"))
	assert.True(t, isIconRel("apple-touch-icon-precomposed"))
	assert.False(t, isIconRel("stylesheet"))
	assert.False(t, isIconRel("mask-icon"))
}
