package raster

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/sdfont"
	"github.com/gogpu/sdfont/glyphs"
)

// Metrics is the layout data the rasterizer reports for one glyph.
// All values are in px; bearings follow the usual font conventions and can
// be negative.
type Metrics struct {
	// Width and Height are the unbuffered bitmap dimensions.
	Width, Height int

	// LeftBearing is the horizontal offset from the origin to the left
	// edge of the bitmap.
	LeftBearing int32

	// TopBearing is the vertical offset from the baseline to the top edge
	// of the bitmap.
	TopBearing int32

	// Advance is the horizontal advance.
	Advance uint32

	// Ascender is the face's typographic ascender.
	Ascender int32
}

// SDFGlyph is a rendered but not yet quantized glyph: the raw distance
// field plus the metrics needed to build a wire record from it.
type SDFGlyph struct {
	SDF     []float64
	Metrics Metrics
}

// RenderSDF rasterizes one codepoint and computes its signed distance
// field, padded by buffer px and recorded out to radius px.
//
// A codepoint the face does not cover yields [sdfont.ErrGlyphNotPresent];
// callers rendering a range treat that as "skip", not "abort".
func (f *Face) RenderSDF(r rune, buffer, radius int) (*SDFGlyph, error) {
	idx, err := f.glyphIndex(r)
	if err != nil {
		return nil, err
	}
	if idx == 0 {
		return nil, sdfont.ErrGlyphNotPresent
	}

	alpha, width, height, left, top, advance, err := f.rasterize(r)
	if err != nil {
		return nil, err
	}

	bitmap, err := sdfont.NewBitmapGlyphUnbuffered(alpha, width, height, buffer)
	if err != nil {
		return nil, err
	}

	return &SDFGlyph{
		SDF: bitmap.RenderSDF(radius),
		Metrics: Metrics{
			Width:       width,
			Height:      height,
			LeftBearing: left,
			TopBearing:  top,
			Advance:     advance,
			Ascender:    f.ascender,
		},
	}, nil
}

// RenderGlyph renders one codepoint into a quantized wire record.
func RenderGlyph(f *Face, r rune, cfg Config) (glyphs.Glyph, error) {
	sg, err := f.RenderSDF(r, cfg.Buffer, cfg.Radius)
	if err != nil {
		return glyphs.Glyph{}, err
	}

	bitmap, err := sdfont.ClampToBytes(sg.SDF, cfg.Cutoff)
	if err != nil {
		return glyphs.Glyph{}, err
	}

	return glyphs.Glyph{
		ID:      uint32(r),
		Bitmap:  bitmap,
		Width:   uint32(sg.Metrics.Width),
		Height:  uint32(sg.Metrics.Height),
		Left:    sg.Metrics.LeftBearing,
		Top:     sg.Metrics.TopBearing - sg.Metrics.Ascender,
		Advance: sg.Metrics.Advance,
	}, nil
}

// GlyphRange renders an inclusive codepoint range for one face into a
// fontstack. Codepoints the face does not cover are skipped; any other
// per-glyph failure aborts the range.
func GlyphRange(f *Face, start, end uint32, cfg Config) (glyphs.Fontstack, error) {
	stack := glyphs.Fontstack{
		Name:  f.Name(),
		Range: glyphs.FormatRange(start, end),
	}

	for code := start; code <= end; code++ {
		glyph, err := RenderGlyph(f, rune(code), cfg)
		if err != nil {
			if errors.Is(err, sdfont.ErrGlyphNotPresent) {
				continue
			}
			return glyphs.Fontstack{}, fmt.Errorf("raster: glyph U+%04X of %s: %w", code, f.Name(), err)
		}
		stack.Glyphs = append(stack.Glyphs, glyph)
	}

	sdfont.Logger().Debug("rendered range",
		slog.String("face", f.Name()),
		slog.String("range", stack.Range),
		slog.Int("glyphs", len(stack.Glyphs)))

	return stack, nil
}

// FontStacks renders one codepoint range of every face in a font file,
// producing the per-range Glyphs message the .pbf storage convention
// expects: one Fontstack per face.
func FontStacks(path string, start, end uint32, cfg Config) (*glyphs.Glyphs, error) {
	faces, err := OpenFonts(path, cfg)
	if err != nil {
		return nil, err
	}

	var result glyphs.Glyphs
	for _, f := range faces {
		stack, err := GlyphRange(f, start, end, cfg)
		if err != nil {
			return nil, err
		}
		result.Stacks = append(result.Stacks, stack)
	}
	return &result, nil
}
