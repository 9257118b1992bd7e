package sdfont

import (
	"errors"
	"strconv"
)

// Sentinel errors for the sdfont package and its sub-packages.
var (
	// ErrGlyphNotPresent is returned when a font face has no glyph for a
	// codepoint. Range-rendering loops treat this as "skip", not "abort".
	ErrGlyphNotPresent = errors.New("sdfont: glyph not present in face")

	// ErrMissingSizeMetrics is returned when a font face does not carry the
	// vertical metrics needed to position glyphs.
	ErrMissingSizeMetrics = errors.New("sdfont: missing size metrics")

	// ErrMissingFamilyName is returned when a font face has no family name
	// record, which is required to name its fontstack.
	ErrMissingFamilyName = errors.New("sdfont: font family name is not set")
)

// DimensionError reports an alpha buffer whose length does not match the
// dimensions it was declared with.
type DimensionError struct {
	// Formula describes the expected relationship, e.g.
	// "(width + 2*buffer) * (height + 2*buffer)".
	Formula string

	// Expected is the byte length the formula yields.
	Expected int

	// Actual is the byte length that was provided.
	Actual int
}

func (e *DimensionError) Error() string {
	return "sdfont: invalid bitmap dimensions: data length must equal " +
		e.Formula + " = " + strconv.Itoa(e.Expected) + ", got " + strconv.Itoa(e.Actual)
}

// CutoffError reports a quantization cutoff outside the open interval (0, 1).
type CutoffError struct {
	Cutoff float64
}

func (e *CutoffError) Error() string {
	return "sdfont: cutoff must be in (0, 1), got " +
		strconv.FormatFloat(e.Cutoff, 'g', -1, 64)
}
