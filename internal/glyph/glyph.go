// Package glyph answers whether a Unicode code point can be rendered by
// at least one font in a configured set. Fonts are parsed once at load
// time; per-character checks are pure cmap lookups.
package glyph

import (
	"fmt"
	"os"

	"golang.org/x/image/font/sfnt"
)

// Coverage reports whether a rune has a glyph in at least one font.
// The cleaning filter depends only on this interface so tests can
// substitute a synthetic oracle.
type Coverage interface {
	Renderable(r rune) bool
}

// FontSet is a Coverage backed by parsed TTF/OTF font resources.
type FontSet struct {
	fonts []*sfnt.Font
}

// Load parses the font files at the given paths. An unreadable or
// corrupt font is a configuration error and fails the whole load.
func Load(paths ...string) (*FontSet, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("at least one font is required")
	}
	set := &FontSet{fonts: make([]*sfnt.Font, 0, len(paths))}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", path, err)
		}
		f, err := sfnt.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", path, err)
		}
		set.fonts = append(set.fonts, f)
	}
	return set, nil
}

// NewFromBytes builds a FontSet from already-loaded font data.
func NewFromBytes(fonts ...[]byte) (*FontSet, error) {
	if len(fonts) == 0 {
		return nil, fmt.Errorf("at least one font is required")
	}
	set := &FontSet{fonts: make([]*sfnt.Font, 0, len(fonts))}
	for i, data := range fonts {
		f, err := sfnt.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font #%d: %w", i, err)
		}
		set.fonts = append(set.fonts, f)
	}
	return set, nil
}

// Renderable returns true iff at least one font in the set maps r to a
// real glyph. A font whose character map cannot resolve the rune
// contributes no coverage.
func (s *FontSet) Renderable(r rune) bool {
	var buf sfnt.Buffer
	for _, f := range s.fonts {
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil {
			continue
		}
		if idx != 0 {
			return true
		}
	}
	return false
}
