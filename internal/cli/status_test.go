package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/historygen/internal/generate"
)

func TestStatus_EmptyOutputs(t *testing.T) {
	cfgPath, _ := setupWorkspace(t, false)
	resetOutputs(t, cfgPath)

	cmd := &StatusCommand{globals: &GlobalFlags{Config: cfgPath}, version: "dev"}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.Execute(nil))
	})

	assert.Contains(t, output, "historygen Status")
	assert.Contains(t, output, "Version:       dev")
	assert.Contains(t, output, "schema v56")
	assert.Contains(t, output, "schema v8")
	assert.Contains(t, output, "URLs:          0")
	assert.NotContains(t, output, "Oldest:")
	assert.NotContains(t, output, "Top Domains:")
}

func TestStatus_WithData(t *testing.T) {
	cfgPath, _ := setupWorkspace(t, true)
	cmd := &GenerateCommand{
		Count:   3,
		globals: &GlobalFlags{Config: cfgPath},
		ctx:     context.Background(),
		options: generate.Options{Discoverer: pngIcons(), Fetcher: stubFetcher{}},
	}
	captureOutput(t, func() { require.NoError(t, cmd.Execute(nil)) })

	status := &StatusCommand{globals: &GlobalFlags{Config: cfgPath}, version: "dev"}
	output := captureOutput(t, func() {
		require.NoError(t, status.Execute(nil))
	})

	assert.Contains(t, output, "URLs:          3")
	assert.Contains(t, output, "Visits:        3")
	assert.Contains(t, output, "Icons:         2")
	assert.Contains(t, output, "Mappings:      3")
	assert.Contains(t, output, "Oldest:")
	assert.Contains(t, output, "Top Domains:")
	assert.Regexp(t, `example\.com\s+2`, output)
}

func TestStatus_JSONOutput(t *testing.T) {
	cfgPath, cfg := setupWorkspace(t, false)
	captureOutput(t, func() {
		require.NoError(t, RunWithArgs(context.Background(), "test", []string{"--config", cfgPath, "generate"}))
	})

	output := captureOutput(t, func() {
		require.NoError(t, RunWithArgs(context.Background(), "0.2.0", []string{"--config", cfgPath, "--json", "status"}))
	})

	var got statusJSON
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, "0.2.0", got.Version)
	assert.Equal(t, cfg.Paths.HistoryOutput(), got.History.Path)
	assert.Equal(t, 56, got.History.SchemaVersion)
	assert.Equal(t, 8, got.Favicons.SchemaVersion)
	assert.Equal(t, int64(2), got.History.URLs)
	assert.Equal(t, int64(2), got.History.Visits)
	assert.NotEmpty(t, got.History.OldestVisit)
	assert.Positive(t, got.History.SizeBytes)
	assert.Zero(t, got.Favicons.Icons)
}

func TestStatus_Markdown(t *testing.T) {
	cfgPath, _ := setupWorkspace(t, false)
	captureOutput(t, func() {
		require.NoError(t, RunWithArgs(context.Background(), "test", []string{"--config", cfgPath, "generate"}))
	})

	cmd := &StatusCommand{Markdown: true, globals: &GlobalFlags{Config: cfgPath}, version: "dev"}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.Execute(nil))
	})

	assert.Contains(t, output, "# historygen Status")
	assert.Contains(t, output, "## History")
	assert.Contains(t, output, "## Favicons")
	assert.Contains(t, output, "## Top Domains")
	assert.Contains(t, output, "Schema Version")
	assert.Contains(t, output, "|")
}

func TestStatus_JSONAndMarkdownExclusive(t *testing.T) {
	cmd := &StatusCommand{Markdown: true, globals: &GlobalFlags{JSON: true}}
	err := cmd.Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestStatus_MissingOutputs(t *testing.T) {
	cfgPath, _ := setupWorkspace(t, false)
	cmd := &StatusCommand{globals: &GlobalFlags{Config: cfgPath}}

	err := cmd.Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run generate or reset first")
}
