package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Target pairs a template database with the output path it is copied to.
type Target struct {
	Template string
	Output   string
}

// sidecarSuffixes are the SQLite files that may sit next to a database.
var sidecarSuffixes = []string{"-journal", "-wal", "-shm"}

// Prepare gives every target a fresh copy of its template: any existing
// output (and its journal files) is removed first. A missing template is an
// error and leaves later targets untouched.
func Prepare(targets ...Target) error {
	for _, t := range targets {
		if err := prepareOne(t); err != nil {
			return err
		}
	}
	return nil
}

func prepareOne(t Target) error {
	info, err := os.Stat(t.Template)
	if err != nil {
		return fmt.Errorf("template %s: %w", t.Template, err)
	}
	if info.IsDir() {
		return fmt.Errorf("template %s is a directory", t.Template)
	}

	if err := RemoveDatabase(t.Output); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(t.Output), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if err := copyFile(t.Template, t.Output); err != nil {
		return fmt.Errorf("copy %s to %s: %w", t.Template, t.Output, err)
	}
	return nil
}

// RemoveDatabase deletes a database file and its sidecars if they exist.
func RemoveDatabase(path string) error {
	for _, p := range append([]string{path}, sidecarPaths(path)...) {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}

func sidecarPaths(path string) []string {
	paths := make([]string, len(sidecarSuffixes))
	for i, s := range sidecarSuffixes {
		paths[i] = path + s
	}
	return paths
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Kind selects which Chromium schema a template holds.
type Kind int

const (
	KindHistory Kind = iota
	KindFavicons
)

func (k Kind) String() string {
	switch k {
	case KindHistory:
		return "History"
	case KindFavicons:
		return "Favicons"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ErrTemplateExists is returned by BuildTemplate when the file exists and
// overwriting was not requested.
var ErrTemplateExists = errors.New("template already exists")

// BuildTemplate writes an empty database with the schema of kind to path.
func BuildTemplate(path string, kind Kind, force bool) error {
	if _, err := os.Stat(path); err == nil {
		if !force {
			return fmt.Errorf("%s: %w", path, ErrTemplateExists)
		}
		if err := RemoveDatabase(path); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create template directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("open template: %w", err)
	}
	defer db.Close()

	var runner *MigrationRunner
	switch kind {
	case KindHistory:
		runner = NewHistoryMigrationRunner(db)
	case KindFavicons:
		runner = NewFaviconsMigrationRunner(db)
	default:
		return fmt.Errorf("unknown template kind %s", kind)
	}

	if err := runner.Run(); err != nil {
		return fmt.Errorf("build %s template: %w", kind, err)
	}
	return nil
}
