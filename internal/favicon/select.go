package favicon

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultSize is assumed for a PNG icon that does not declare its size.
const DefaultSize = 16

// Icon is a favicon advertised by a site, either by a <link> tag or by its
// web app manifest.
type Icon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes,omitempty"`
	Type  string `json:"type,omitempty"`
	Rel   string `json:"rel,omitempty"`
}

// Candidate is the icon chosen for download and the square size it is stored at.
type Candidate struct {
	URL  string
	Size int
}

// SelectCandidate walks icons in order and keeps the latest PNG. It stops at
// the first PNG declaring a size of 16 or 32. ok is false when no PNG exists.
func SelectCandidate(icons []Icon) (c Candidate, ok bool) {
	for _, icon := range icons {
		if !isPNG(icon) {
			continue
		}

		size, declared := parseSize(icon.Sizes)
		c = Candidate{URL: icon.Src, Size: size}
		ok = true

		if declared && (size == 16 || size == 32) {
			break
		}
	}
	return c, ok
}

func isPNG(icon Icon) bool {
	if strings.EqualFold(strings.TrimSpace(icon.Type), "image/png") {
		return true
	}
	path := icon.Src
	if u, err := url.Parse(icon.Src); err == nil {
		path = u.Path
	}
	return strings.HasSuffix(strings.ToLower(path), ".png")
}

// parseSize reads the leading integer of a sizes attribute ("32x32 64x64"
// gives 32). Missing or unparsable values fall back to DefaultSize.
func parseSize(sizes string) (int, bool) {
	s := strings.TrimSpace(sizes)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return DefaultSize, false
	}
	return n, true
}
