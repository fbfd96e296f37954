package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/historygen/internal/storage"
)

func setupListStore(t *testing.T) *storage.HistoryStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "History")
	require.NoError(t, storage.BuildTemplate(path, storage.KindHistory, false))

	db, err := storage.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := storage.NewHistoryStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func seedListEntries(t *testing.T, store *storage.HistoryStore) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	entries := []struct {
		url, title string
		ts         time.Time
	}{
		{"https://go.dev/doc/", "Go Documentation", now.Add(-1 * time.Hour)},
		{"https://blog.example.com/sqlite-tips", "SQLite Tips", now.Add(-48 * time.Hour)},
		{"https://github.com/golang/go", "Go Programming Language", now.Add(-2 * time.Hour)},
		{"https://news.ycombinator.com/", "Hacker News", now.Add(-72 * time.Hour)},
		{"https://docs.python.org/3/", "Python 3 Docs", now.Add(-96 * time.Hour)},
	}

	for _, e := range entries {
		_, err := store.AddURL(ctx, e.url, e.title, e.ts)
		require.NoError(t, err)
	}
}

// --- parseDuration tests ---

func TestParseDuration_Days(t *testing.T) {
	d, err := parseDuration("7d")
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, d)
}

func TestParseDuration_Hours(t *testing.T) {
	d, err := parseDuration("24h")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, d)
}

func TestParseDuration_Weeks(t *testing.T) {
	d, err := parseDuration("2w")
	require.NoError(t, err)
	assert.Equal(t, 14*24*time.Hour, d)
}

func TestParseDuration_MinutesAndSeconds(t *testing.T) {
	d, err := parseDuration("90m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	d, err = parseDuration("45s")
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, d)
}

func TestParseDuration_InvalidFormat(t *testing.T) {
	_, err := parseDuration("abc")
	assert.Error(t, err)
}

func TestParseDuration_Negative(t *testing.T) {
	_, err := parseDuration("-3d")
	assert.Error(t, err)
}

func TestParseDuration_Empty(t *testing.T) {
	_, err := parseDuration("")
	assert.Error(t, err)
}

// --- List integration tests ---

func TestList_NewestFirst(t *testing.T) {
	store := setupListStore(t)
	seedListEntries(t, store)

	cmd := &ListCommand{Limit: 10, globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, nil))
	})

	assert.Contains(t, output, "Found 5 entries")
	first := strings.Index(output, "Go Documentation")
	second := strings.Index(output, "Go Programming Language")
	last := strings.Index(output, "Python 3 Docs")
	require.True(t, first >= 0 && second >= 0 && last >= 0)
	assert.Less(t, first, second)
	assert.Less(t, second, last)
}

func TestList_Keyword(t *testing.T) {
	store := setupListStore(t)
	seedListEntries(t, store)

	cmd := &ListCommand{Limit: 10, globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, []string{"SQLite"}))
	})

	assert.Contains(t, output, `Found 1 entry for "SQLite"`)
	assert.Contains(t, output, "blog.example.com")
}

func TestList_NoResults(t *testing.T) {
	store := setupListStore(t)
	seedListEntries(t, store)

	cmd := &ListCommand{Limit: 10, globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, []string{"nonexistentterm12345"}))
	})

	assert.Contains(t, output, "No history found")
}

func TestList_DomainFilter(t *testing.T) {
	store := setupListStore(t)
	seedListEntries(t, store)

	cmd := &ListCommand{Domain: "go.dev", Limit: 10, globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, nil))
	})

	assert.Contains(t, output, "Go Documentation")
	assert.NotContains(t, output, "Go Programming Language")
}

func TestList_TimeRange(t *testing.T) {
	store := setupListStore(t)
	seedListEntries(t, store)

	cmd := &ListCommand{Since: "3h", Limit: 10, globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, nil))
	})

	assert.Contains(t, output, "Found 2 entries")
	assert.NotContains(t, output, "Hacker News")

	cmd = &ListCommand{Until: "50h", Limit: 10, globals: &GlobalFlags{}}
	output = captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, nil))
	})

	assert.Contains(t, output, "Hacker News")
	assert.NotContains(t, output, "SQLite Tips")
}

func TestList_InvalidSince(t *testing.T) {
	store := setupListStore(t)
	cmd := &ListCommand{Since: "yesterday", globals: &GlobalFlags{}}

	err := cmd.executeWithStore(store, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--since")
}

func TestList_JSONOutput(t *testing.T) {
	store := setupListStore(t)
	seedListEntries(t, store)

	cmd := &ListCommand{Limit: 10, globals: &GlobalFlags{JSON: true}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, []string{"Go"}))
	})

	var got jsonListOutput
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, "Go", got.Query)
	assert.Equal(t, 2, got.Count)
	require.Len(t, got.Results, 2)
	assert.Equal(t, "https://go.dev/doc/", got.Results[0].URL)
	assert.Equal(t, 1, got.Results[0].VisitCount)
	assert.NotEmpty(t, got.Results[0].LastVisitTime)
}

func TestList_Pagination(t *testing.T) {
	store := setupListStore(t)
	seedListEntries(t, store)

	cmd := &ListCommand{Limit: 2, Offset: 2, globals: &GlobalFlags{JSON: true}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, nil))
	})

	var got jsonListOutput
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	require.Len(t, got.Results, 2)
	assert.Equal(t, "SQLite Tips", got.Results[0].Title)
	assert.Equal(t, "Hacker News", got.Results[1].Title)
}

func TestList_ThroughConfig(t *testing.T) {
	cfgPath, _ := setupWorkspace(t, false)
	captureOutput(t, func() {
		require.NoError(t, RunWithArgs(context.Background(), "test", []string{"--config", cfgPath, "generate"}))
	})

	output := captureOutput(t, func() {
		require.NoError(t, RunWithArgs(context.Background(), "test", []string{"--config", cfgPath, "list"}))
	})
	assert.Contains(t, output, "Found 2 entries")
}
