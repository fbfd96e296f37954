package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/runnerr0/historygen/internal/config"
	"github.com/runnerr0/historygen/internal/favicon"
	"github.com/runnerr0/historygen/internal/storage"
)

const sampleCSV = `url,title
https://example.com,Example
https://example.com/docs,Example Docs
https://test.org,Test
`

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// setupWorkspace writes a config file, a sample url list and both templates
// under a temp dir. It returns the config path and the config it holds.
func setupWorkspace(t *testing.T, favicons bool) (string, *config.Config) {
	t.Helper()
	root := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Paths.DataDir = filepath.Join(root, "data")
	cfg.Paths.TemplatesDir = filepath.Join(root, "data", "templates")
	cfg.Paths.OutputDir = filepath.Join(root, "output")
	cfg.Generator.NumberOfURLs = 2
	cfg.Generator.URLFiles = []string{"sample"}
	cfg.Favicons.Enabled = favicons
	cfg.Logging.Level = "error"

	require.NoError(t, os.MkdirAll(cfg.Paths.URLsDir(), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Paths.URLsDir(), "sample.csv"), []byte(sampleCSV), 0644))
	require.NoError(t, storage.BuildTemplate(cfg.Paths.HistoryTemplate(), storage.KindHistory, false))
	require.NoError(t, storage.BuildTemplate(cfg.Paths.FaviconsTemplate(), storage.KindFavicons, false))

	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	cfgPath := filepath.Join(root, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, data, 0644))

	return cfgPath, cfg
}

// resetOutputs copies the templates into place.
func resetOutputs(t *testing.T, cfgPath string) {
	t.Helper()
	captureOutput(t, func() {
		require.NoError(t, RunWithArgs(context.Background(), "test", []string{"--config", cfgPath, "reset", "--force"}))
	})
}

type stubDiscoverer struct {
	icons []favicon.Icon
}

func (s stubDiscoverer) Discover(ctx context.Context, host string) ([]favicon.Icon, error) {
	return s.icons, nil
}

type stubFetcher struct{}

func (stubFetcher) Download(ctx context.Context, src, dir string) ([]byte, error) {
	return []byte("\x89PNG\r\n\x1a\nfake"), nil
}

func pngIcons() stubDiscoverer {
	return stubDiscoverer{icons: []favicon.Icon{
		{Src: "https://example.com/favicon.ico", Rel: "icon"},
		{Src: "https://example.com/icon-32.png", Sizes: "32x32", Type: "image/png", Rel: "icon"},
	}}
}
