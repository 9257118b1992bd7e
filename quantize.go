package sdfont

import "math"

// ClampToBytes compresses a signed distance field into one byte per pixel.
//
// The top cutoff fraction of the byte range encodes negative values (points
// inside the glyph); the remainder encodes zero and positive values. The
// mapping is byte = 255 - 255*(v + cutoff), saturated to [0, 255] rather
// than wrapped, so out-of-range field values clamp instead of overflowing.
//
// cutoff must be strictly between 0 and 1; otherwise a *CutoffError is
// returned.
func ClampToBytes(sdf []float64, cutoff float64) ([]byte, error) {
	if cutoff <= 0 || cutoff >= 1 {
		return nil, &CutoffError{Cutoff: cutoff}
	}

	out := make([]byte, len(sdf))
	for i, v := range sdf {
		b := math.Round(255 - 255*(v+cutoff))
		switch {
		case b < 0:
			out[i] = 0
		case b > 255:
			out[i] = 255
		default:
			out[i] = byte(b)
		}
	}
	return out, nil
}
