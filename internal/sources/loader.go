// Package sources loads the url/title lists the generator samples from.
package sources

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one row of a URL list.
type Entry struct {
	URL   string
	Title string
}

var (
	// ErrMissingColumn is returned when a CSV header lacks url or title.
	ErrMissingColumn = errors.New("missing column")
	// ErrBlankURL is returned for a row whose url cell is empty.
	ErrBlankURL = errors.New("blank url")
)

// Loader resolves list names against Dir.
type Loader struct {
	Dir string
}

// Path returns the file a list name refers to. Names ending in .csv or
// containing a path separator are taken as paths; anything else is looked up
// as <Dir>/<name>.csv.
func (l Loader) Path(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".csv") || strings.ContainsRune(name, filepath.Separator) || strings.Contains(name, "/") {
		return name
	}
	return filepath.Join(l.Dir, name+".csv")
}

// Load reads every named list and concatenates the rows in the order given.
func (l Loader) Load(names ...string) ([]Entry, error) {
	var entries []Entry
	for _, name := range names {
		path := l.Path(name)
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open url list: %w", err)
		}
		rows, err := Read(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		entries = append(entries, rows...)
	}
	return entries, nil
}

// Read parses one CSV document with a url,title header.
func Read(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file: %w", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	urlCol, titleCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "url":
			urlCol = i
		case "title":
			titleCol = i
		}
	}
	if urlCol < 0 {
		return nil, fmt.Errorf("url: %w", ErrMissingColumn)
	}
	if titleCol < 0 {
		return nil, fmt.Errorf("title: %w", ErrMissingColumn)
	}

	var entries []Entry
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		line, _ := cr.FieldPos(0)
		u := strings.TrimSpace(record[urlCol])
		if u == "" {
			return nil, fmt.Errorf("line %d: %w", line, ErrBlankURL)
		}
		entries = append(entries, Entry{URL: u, Title: record[titleCol]})
	}
	return entries, nil
}
