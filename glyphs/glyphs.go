// Package glyphs provides the SDF glyph wire model, its binary codec, the
// on-disk .pbf storage conventions, and fontstack combination.
//
// The wire format is the protobuf-based fontstack convention consumed by
// map renderers: a Glyphs message holds one or more named Fontstacks, each
// covering an inclusive codepoint range and carrying the quantized SDF
// bitmap plus layout metrics for every glyph it contains. Files hold one
// 256-codepoint range each, stored as
// <font_root>/<font_name>/<start>-<end>.pbf.
package glyphs

// Glyph is a single glyph record: a quantized SDF bitmap plus the layout
// metrics a renderer needs to place it.
type Glyph struct {
	// ID is the Unicode codepoint.
	ID uint32

	// Bitmap is the quantized SDF, row-major, one byte per pixel of the
	// padded bitmap. A nil and an empty bitmap are equivalent on the wire.
	Bitmap []byte

	// Width is the unbuffered glyph width in px.
	Width uint32

	// Height is the unbuffered glyph height in px.
	Height uint32

	// Left is the left bearing in px.
	Left int32

	// Top is the top bearing minus the face ascender, in px.
	Top int32

	// Advance is the horizontal advance in px.
	Advance uint32
}

// Fontstack is a named collection of glyphs covering a codepoint range.
//
// After combination every ID is unique within the stack and Range spans the
// min and max retained IDs. Glyph order is generation order; lookups go by
// ID, so order matters only for byte-for-byte reproducibility.
type Fontstack struct {
	// Name is the font family plus style, or a comma-joined list of them
	// for a combined stack.
	Name string

	// Range is "<start>-<end>", inclusive codepoint bounds.
	Range string

	// Glyphs holds the glyph records in generation or merge order.
	Glyphs []Glyph
}

// Glyphs is the top-level wire entity: an ordered sequence of fontstacks.
// A single .pbf file conventionally holds one Fontstack per face of a font
// for one 256-codepoint range.
type Glyphs struct {
	Stacks []Fontstack
}
