package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepare_CopiesTemplates(t *testing.T) {
	dir := t.TempDir()
	histTmpl := filepath.Join(dir, "templates", "History")
	favTmpl := filepath.Join(dir, "templates", "Favicons")
	require.NoError(t, BuildTemplate(histTmpl, KindHistory, false))
	require.NoError(t, BuildTemplate(favTmpl, KindFavicons, false))

	histOut := filepath.Join(dir, "output", "History")
	favOut := filepath.Join(dir, "output", "Favicons")
	require.NoError(t, Prepare(
		Target{Template: histTmpl, Output: histOut},
		Target{Template: favTmpl, Output: favOut},
	))

	want, err := os.ReadFile(histTmpl)
	require.NoError(t, err)
	got, err := os.ReadFile(histOut)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	db, err := Open(favOut)
	require.NoError(t, err)
	defer db.Close()
	assert.True(t, tableExists(t, db, "table", "favicon_bitmaps"))
}

func TestPrepare_ReplacesStaleOutput(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "History.template")
	require.NoError(t, BuildTemplate(tmpl, KindHistory, false))

	out := filepath.Join(dir, "History")
	require.NoError(t, os.WriteFile(out, []byte("stale"), 0644))
	require.NoError(t, os.WriteFile(out+"-journal", []byte("stale"), 0644))
	require.NoError(t, os.WriteFile(out+"-wal", []byte("stale"), 0644))

	require.NoError(t, Prepare(Target{Template: tmpl, Output: out}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(data))
	assert.NoFileExists(t, out+"-journal")
	assert.NoFileExists(t, out+"-wal")
}

func TestPrepare_MissingTemplate(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "History")
	require.NoError(t, os.WriteFile(out, []byte("previous run"), 0644))

	err := Prepare(Target{Template: filepath.Join(dir, "nope"), Output: out})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous run", string(data), "output is untouched when the template is missing")
}

func TestPrepare_TemplateIsDirectory(t *testing.T) {
	dir := t.TempDir()
	err := Prepare(Target{Template: dir, Output: filepath.Join(dir, "out")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestRemoveDatabase_Missing(t *testing.T) {
	assert.NoError(t, RemoveDatabase(filepath.Join(t.TempDir(), "History")))
}

func TestBuildTemplate_RefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "History")
	require.NoError(t, BuildTemplate(path, KindHistory, false))

	err := BuildTemplate(path, KindHistory, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTemplateExists))

	require.NoError(t, BuildTemplate(path, KindHistory, true))
}

func TestBuildTemplate_WritesMeta(t *testing.T) {
	dir := t.TempDir()

	for _, tc := range []struct {
		kind    Kind
		version string
		compat  string
	}{
		{KindHistory, "56", "16"},
		{KindFavicons, "8", "7"},
	} {
		t.Run(tc.kind.String(), func(t *testing.T) {
			path := filepath.Join(dir, tc.kind.String())
			require.NoError(t, BuildTemplate(path, tc.kind, false))

			db, err := Open(path)
			require.NoError(t, err)
			defer db.Close()

			assert.Equal(t, tc.version, metaValue(t, db, "version"))
			assert.Equal(t, tc.compat, metaValue(t, db, "last_compatible_version"))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "History", KindHistory.String())
	assert.Equal(t, "Favicons", KindFavicons.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}
