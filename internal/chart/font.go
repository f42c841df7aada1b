package chart

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// DefaultFontSize is used when no size is configured.
const DefaultFontSize = 13

// systemFonts are tried in order by FindFace.
var systemFonts = []string{
	// Linux
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	// macOS
	"/System/Library/Fonts/Helvetica.ttc",
	"/Library/Fonts/Arial Unicode.ttf",
	// Windows
	"C:\\Windows\\Fonts\\arial.ttf",
	"C:\\Windows\\Fonts\\segoeui.ttf",
}

// LoadFace loads a TrueType/OpenType font or collection from path.
func LoadFace(path string, size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultFontSize
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}
	opts := &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull}

	// Try parsing as font collection first
	if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
		if fnt, err := coll.Font(0); err == nil {
			if face, err := opentype.NewFace(fnt, opts); err == nil {
				return face, nil
			}
		}
	}

	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", path, err)
	}
	face, err := opentype.NewFace(fnt, opts)
	if err != nil {
		return nil, fmt.Errorf("creating face for %s: %w", path, err)
	}
	return face, nil
}

// FindFace loads path if set, otherwise the first system font that parses.
// It always returns a usable face, falling back to the built-in bitmap
// face; the error reports why an explicit path could not be used.
func FindFace(path string, size float64) (font.Face, error) {
	var pathErr error
	if path != "" {
		face, err := LoadFace(path, size)
		if err == nil {
			return face, nil
		}
		pathErr = err
	}
	for _, p := range systemFonts {
		if face, err := LoadFace(p, size); err == nil {
			return face, pathErr
		}
	}
	return basicfont.Face7x13, pathErr
}
