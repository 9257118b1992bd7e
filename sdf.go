package sdfont

import "math"

// RenderSDF computes a signed distance field for the bitmap, recording
// distances out to radius pixels from the 50% alpha boundary (the rest is
// clamped). The result has one value per padded pixel, in row-major order,
// in the closed range [-1, 1] normalized to units of radius. Negative
// values are inside the shape.
//
// A zero-size bitmap produces an empty field, not an error.
func (b *BitmapGlyph) RenderSDF(radius int) []float64 {
	// Two squared-distance fields: one measuring distance to the shape from
	// the outside, one from the inside. math.MaxFloat64 marks pixels that
	// are perfectly outside (resp. inside); it dominates every finite cost
	// in the transform without overflowing.
	outer := make([]float64, len(b.alpha))
	inner := make([]float64, len(b.alpha))
	for i, a := range b.alpha {
		if a == 0 {
			outer[i] = math.MaxFloat64
		} else {
			// Alpha below 50% counts as progressively further outside.
			d := math.Max(0, 0.5-float64(a)/255)
			outer[i] = d * d
		}

		if a == 255 {
			inner[i] = math.MaxFloat64
		} else {
			// Alpha above 50% counts as progressively further inside.
			d := math.Max(0, float64(a)/255-0.5)
			inner[i] = d * d
		}
	}

	width := b.width + 2*b.buffer
	height := b.height + 2*b.buffer

	// The 2D squared Euclidean distance transform is separable: transform
	// every column, then every row of the column-transformed result
	// (Felzenszwalb & Huttenlocher, section 3).
	for col := 0; col < width; col++ {
		distanceTransform(outer, col, width, height)
		distanceTransform(inner, col, width, height)
	}
	for row := 0; row < height; row++ {
		distanceTransform(outer, row*width, 1, width)
		distanceTransform(inner, row*width, 1, width)
	}

	sdf := make([]float64, len(b.alpha))
	for i := range sdf {
		d := (math.Sqrt(outer[i]) - math.Sqrt(inner[i])) / float64(radius)
		sdf[i] = math.Min(1, math.Max(-1, d))
	}
	return sdf
}

// distanceTransform runs the O(n) one-dimensional squared Euclidean
// distance transform of Felzenszwalb & Huttenlocher over a line of size
// samples, read from grid starting at offset with the given stride, and
// writes the result back in place.
//
// For each index q it computes min over all p of (q-p)^2 + f(p), by
// maintaining the lower envelope of the parabolas rooted at each sample:
// v holds the apex indices of the active parabolas and z the boundaries
// between their regions of dominance.
func distanceTransform(grid []float64, offset, stride, size int) {
	if size == 0 {
		return
	}

	f := make([]float64, size)
	for i, src := 0, offset; i < size; i, src = i+1, src+stride {
		f[i] = grid[src]
	}

	v := make([]int, size)
	z := make([]float64, size+1)
	k := 0
	z[0] = math.Inf(-1)
	z[1] = math.Inf(1)

	for q := 1; q < size; q++ {
		var s float64
		for {
			// Intersection of the parabola rooted at q with the one rooted
			// at the current top apex v[k].
			s = ((f[q] + float64(q*q)) - (f[v[k]] + float64(v[k]*v[k]))) /
				float64(2*q-2*v[k])
			if s <= z[k] {
				// The top parabola is dominated everywhere; drop it.
				k--
				continue
			}
			k++
			v[k] = q
			z[k] = s
			z[k+1] = math.Inf(1)
			break
		}
	}

	k = 0
	for q := 0; q < size; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		d := float64(q - v[k])
		grid[offset+q*stride] = d*d + f[v[k]]
	}
}
