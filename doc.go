// Package sdfont converts rasterized glyph bitmaps into signed distance
// fields (SDF) for GPU text rendering, and works with them in the PBF
// fontstack format used by map renderers.
//
// # Overview
//
// The root package is the numeric core: it turns a padded single-channel
// alpha bitmap into a normalized signed distance field using an exact O(n)
// Euclidean distance transform, and quantizes the field into one byte per
// pixel. The approach works from raster bitmaps rather than vector
// outlines, in the manner popularized by Valve's alpha-tested
// magnification paper and Mapbox's TinySDF.
//
// Sub-packages build the tooling around the core:
//
//   - glyphs: the Glyph/Fontstack/Glyphs wire model, its binary codec,
//     .pbf storage conventions, and fontstack combination.
//   - raster: a font rasterizer adapter over golang.org/x/image that
//     renders SDF glyph records straight from .ttf/.otf/.ttc files.
//   - cmd/pbfglyphs: a batch CLI that converts a directory of fonts into
//     PBF glyph ranges and optionally merges fonts into combined stacks.
//
// # Quick Start
//
//	bitmap, err := sdfont.NewBitmapGlyphUnbuffered(alpha, w, h, 3)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sdf := bitmap.RenderSDF(8)
//	encoded, err := sdfont.ClampToBytes(sdf, 0.25)
//
// The conventional parameters for map rendering are a 3 px buffer, an
// 8 px radius and a 0.25 cutoff.
//
// # References
//
// - Felzenszwalb & Huttenlocher, "Distance Transforms of Sampled Functions"
// - TinySDF: https://github.com/mapbox/tiny-sdf
package sdfont
