// Package raster adapts font files to the sdfont core: it rasterizes
// glyphs into alpha bitmaps via golang.org/x/image and turns them into
// quantized SDF glyph records.
//
// The package deliberately depends on a narrow rasterizer surface — parse
// a face, look up a codepoint, get an alpha mask plus metrics — and keeps
// everything SDF-related in the sdfont root package.
package raster

import (
	"fmt"
	"image"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/sdfont"
)

// Config holds glyph generation parameters.
type Config struct {
	// Size is the nominal glyph size in px (at 72 dpi).
	// Default: 24, the conventional size for map renderer fontstacks.
	Size int

	// Buffer is the padding in px around each glyph bitmap, giving the
	// distance field room to extend past the outline.
	// Default: 3
	Buffer int

	// Radius is how far from the outline distances are recorded, in px.
	// Default: 8
	Radius int

	// Cutoff is the fraction of the byte range that encodes negative
	// (inside-shape) distances. Must be in (0, 1).
	// Default: 0.25
	Cutoff float64
}

// DefaultConfig returns the conventional fontstack generation parameters.
func DefaultConfig() Config {
	return Config{
		Size:   24,
		Buffer: 3,
		Radius: 8,
		Cutoff: 0.25,
	}
}

// Validate checks if the configuration is valid and returns an error if not.
func (c *Config) Validate() error {
	if c.Size < 1 {
		return &ConfigError{Field: "Size", Reason: "must be at least 1"}
	}
	if c.Size > 1024 {
		return &ConfigError{Field: "Size", Reason: "must be at most 1024"}
	}
	if c.Buffer < 0 {
		return &ConfigError{Field: "Buffer", Reason: "must be non-negative"}
	}
	if c.Radius < 1 {
		return &ConfigError{Field: "Radius", Reason: "must be at least 1"}
	}
	if c.Cutoff <= 0 || c.Cutoff >= 1 {
		return &ConfigError{Field: "Cutoff", Reason: "must be in (0, 1)"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "raster: invalid config." + e.Field + ": " + e.Reason
}

// Face is one font face opened for SDF glyph generation at a fixed size.
//
// A Face is not safe for concurrent use: the underlying rasterizer and the
// sfnt lookup buffer carry mutable state. Use one Face per goroutine.
type Face struct {
	font     *sfnt.Font
	face     font.Face
	buf      sfnt.Buffer
	name     string
	ascender int32
}

// Name returns the face's family name, with the subfamily (style) appended
// when the font carries one, e.g. "Open Sans Light Italic".
func (f *Face) Name() string { return f.name }

// OpenFonts opens every face in a font file (.ttf, .otf or .ttc) at the
// configured size. Collections yield one Face per member font.
func OpenFonts(path string, cfg Config) ([]*Face, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("raster: reading %s: %w", path, err)
	}

	// ParseCollection handles plain single-font files as a one-member
	// collection, so one code path covers ttf, otf and ttc.
	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("raster: parsing %s: %w", path, err)
	}

	faces := make([]*Face, 0, coll.NumFonts())
	for i := 0; i < coll.NumFonts(); i++ {
		f, err := coll.Font(i)
		if err != nil {
			return nil, fmt.Errorf("raster: loading face %d of %s: %w", i, path, err)
		}
		face, err := newFace(f, cfg)
		if err != nil {
			return nil, fmt.Errorf("raster: face %d of %s: %w", i, path, err)
		}
		faces = append(faces, face)
	}
	return faces, nil
}

func newFace(f *sfnt.Font, cfg Config) (*Face, error) {
	var buf sfnt.Buffer

	name, err := faceName(f, &buf)
	if err != nil {
		return nil, err
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(cfg.Size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("creating rasterizer: %w", err)
	}

	metrics := face.Metrics()
	if metrics.Ascent == 0 && metrics.Height == 0 {
		return nil, sdfont.ErrMissingSizeMetrics
	}

	return &Face{
		font:     f,
		face:     face,
		name:     name,
		ascender: int32(metrics.Ascent >> 6),
	}, nil
}

// faceName assembles "<family> <subfamily>" from the name table; a missing
// subfamily is fine, a missing family is not.
func faceName(f *sfnt.Font, buf *sfnt.Buffer) (string, error) {
	family, err := f.Name(buf, sfnt.NameIDFamily)
	if err != nil {
		return "", sdfont.ErrMissingFamilyName
	}
	if sub, err := f.Name(buf, sfnt.NameIDSubfamily); err == nil && sub != "" {
		return family + " " + sub, nil
	}
	return family, nil
}

// glyphIndex reports whether the face covers the codepoint.
func (f *Face) glyphIndex(r rune) (sfnt.GlyphIndex, error) {
	idx, err := f.font.GlyphIndex(&f.buf, r)
	if err != nil {
		return 0, fmt.Errorf("raster: glyph lookup U+%04X: %w", r, err)
	}
	return idx, nil
}

// rasterize renders the glyph's alpha mask at the face's size.
// The dot sits at the origin, so dr.Min encodes the bearings.
func (f *Face) rasterize(r rune) (alpha []byte, width, height int, left, top int32, advance uint32, err error) {
	dr, mask, maskp, adv, ok := f.face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return nil, 0, 0, 0, 0, 0, fmt.Errorf("raster: rasterizing U+%04X: glyph unavailable", r)
	}

	width = dr.Dx()
	height = dr.Dy()
	alpha = extractAlpha(mask, maskp, width, height)
	return alpha, width, height, int32(dr.Min.X), int32(-dr.Min.Y), uint32(adv >> 6), nil
}

// extractAlpha copies a width x height block starting at maskp out of the
// rasterizer's mask image into a tight buffer.
func extractAlpha(mask image.Image, maskp image.Point, width, height int) []byte {
	alpha := make([]byte, width*height)

	// The opentype rasterizer hands back *image.Alpha; copy rows directly.
	if m, ok := mask.(*image.Alpha); ok {
		for y := 0; y < height; y++ {
			off := m.PixOffset(maskp.X, maskp.Y+y)
			copy(alpha[y*width:(y+1)*width], m.Pix[off:off+width])
		}
		return alpha
	}

	// Generic fallback for other mask implementations.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			_, _, _, a := mask.At(maskp.X+x, maskp.Y+y).RGBA()
			alpha[y*width+x] = byte(a >> 8)
		}
	}
	return alpha
}
