package sdfont

// BitmapGlyph is a rendered glyph bitmap holding only the alpha channel,
// flattened row-major into a 1D buffer, with a uniform buffer of padding
// pixels on every side.
//
// The padding gives the distance transform room to record distances just
// outside the glyph outline before they are clamped. Most font rasterizers
// produce tight (unpadded) bitmaps; use [NewBitmapGlyphUnbuffered] to add
// the padding during construction.
//
// A BitmapGlyph is immutable after construction.
type BitmapGlyph struct {
	// alpha is the buffered bitmap, (width+2*buffer)*(height+2*buffer) bytes.
	alpha []byte

	// width is the unbuffered glyph width in px.
	width int

	// height is the unbuffered glyph height in px.
	height int

	// buffer is the padding in px on each side.
	buffer int
}

// NewBitmapGlyph creates a bitmap from data that is already padded.
//
// The alpha length must equal (width + 2*buffer) * (height + 2*buffer);
// otherwise a *DimensionError is returned. If you have a tight bitmap
// straight from a rasterizer, use [NewBitmapGlyphUnbuffered] instead.
func NewBitmapGlyph(alpha []byte, width, height, buffer int) (*BitmapGlyph, error) {
	expected := (width + 2*buffer) * (height + 2*buffer)
	if len(alpha) != expected {
		return nil, &DimensionError{
			Formula:  "(width + 2*buffer) * (height + 2*buffer)",
			Expected: expected,
			Actual:   len(alpha),
		}
	}

	return &BitmapGlyph{
		alpha:  alpha,
		width:  width,
		height: height,
		buffer: buffer,
	}, nil
}

// NewBitmapGlyphUnbuffered creates a bitmap from tight rasterizer output,
// copying it into a zero-initialized buffer with `buffer` px of padding on
// every side.
//
// The alpha length must equal width * height; otherwise a *DimensionError
// is returned.
func NewBitmapGlyphUnbuffered(alpha []byte, width, height, buffer int) (*BitmapGlyph, error) {
	if len(alpha) != width*height {
		return nil, &DimensionError{
			Formula:  "width * height",
			Expected: width * height,
			Actual:   len(alpha),
		}
	}

	stride := width + 2*buffer
	buffered := make([]byte, stride*(height+2*buffer))
	for y := 0; y < height; y++ {
		copy(buffered[(y+buffer)*stride+buffer:], alpha[y*width:(y+1)*width])
	}

	return &BitmapGlyph{
		alpha:  buffered,
		width:  width,
		height: height,
		buffer: buffer,
	}, nil
}

// Width returns the unbuffered glyph width in px.
func (b *BitmapGlyph) Width() int { return b.width }

// Height returns the unbuffered glyph height in px.
func (b *BitmapGlyph) Height() int { return b.height }

// Buffer returns the padding in px on each side.
func (b *BitmapGlyph) Buffer() int { return b.buffer }

// Alpha returns the padded alpha buffer. The returned slice is shared with
// the bitmap and must not be modified.
func (b *BitmapGlyph) Alpha() []byte { return b.alpha }
