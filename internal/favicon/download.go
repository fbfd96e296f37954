package favicon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// maxIconBytes bounds a single favicon download.
const maxIconBytes = 4 << 20

var errEmptyImage = errors.New("empty image")

// Fetcher downloads an icon image.
type Fetcher interface {
	Download(ctx context.Context, src, dir string) ([]byte, error)
}

// Download streams src into a uniquely named file in dir, reads it back and
// removes the file before returning, whatever the outcome.
func (c *Client) Download(ctx context.Context, src, dir string) ([]byte, error) {
	resp, err := c.Get(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("fetch icon: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, src); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, "favicon-"+uuid.NewString()+".png")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(path)
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(resp.Body, maxIconBytes))
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", src, errEmptyImage)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind %s: %w", path, err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
