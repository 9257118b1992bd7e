package glyphs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gogpu/sdfont"
)

// ErrNoFonts is returned by CombineStack when the font list is empty.
var ErrNoFonts = errors.New("glyphs: no fonts to combine")

// Combine flattens a list of Glyphs collections into a single Glyphs with
// exactly one Fontstack. The input order is the order of precedence: when
// the same glyph ID occurs in several stacks, the first occurrence wins.
//
// The combined stack is named after every input stack encountered, joined
// with ", ", including stacks that contributed no glyphs. Its range spans
// the minimum and maximum retained IDs.
//
// Combine returns nil when the inputs hold no glyphs at all. Callers that
// need an empty placeholder stack must construct it themselves (or use
// [CombineStack], which does).
func Combine(in []*Glyphs) *Glyphs {
	var combined Fontstack
	seen := make(map[uint32]struct{})
	named := false
	var start, end uint32

	for _, g := range in {
		if g == nil {
			continue
		}
		for _, stack := range g.Stacks {
			if named {
				combined.Name += ", " + stack.Name
			} else {
				combined.Name = stack.Name
				named = true
			}

			for _, glyph := range stack.Glyphs {
				if _, ok := seen[glyph.ID]; ok {
					continue
				}
				seen[glyph.ID] = struct{}{}
				if len(combined.Glyphs) == 0 || glyph.ID < start {
					start = glyph.ID
				}
				if len(combined.Glyphs) == 0 || glyph.ID > end {
					end = glyph.ID
				}
				combined.Glyphs = append(combined.Glyphs, glyph)
			}
		}
	}

	if len(combined.Glyphs) == 0 {
		return nil
	}

	combined.Range = FormatRange(start, end)
	return &Glyphs{Stacks: []Fontstack{combined}}
}

// FormatRange formats inclusive codepoint bounds as "<start>-<end>".
func FormatRange(start, end uint32) string {
	return strconv.FormatUint(uint64(start), 10) + "-" + strconv.FormatUint(uint64(end), 10)
}

// CombineStack loads one codepoint range of every named font under root, in
// priority order, and combines them into a single named stack.
//
// Fonts whose range file does not exist simply contribute nothing; any
// other load failure aborts the combination. When the whole range is empty
// the result still carries one glyph-less Fontstack with the stack name and
// the nominal "<start>-<end>" range.
//
// The loader may be nil, in which case ranges are read from disk directly.
// Loads for the individual fonts run concurrently; results are combined in
// the given font order regardless of completion order.
func CombineStack(ctx context.Context, loader RangeLoader, root string, fonts []string, stackName string, start, end uint32) (*Glyphs, error) {
	if len(fonts) == 0 {
		return nil, ErrNoFonts
	}
	if loader == nil {
		loader = LoadRange
	}

	type result struct {
		g   *Glyphs
		err error
	}

	results := make([]result, len(fonts))
	done := make(chan int)
	for i, font := range fonts {
		i, font := i, font
		go func() {
			g, err := loader(ctx, root, font, start, end)
			results[i] = result{g, err}
			done <- i
		}()
	}
	for range fonts {
		<-done
	}

	loaded := make([]*Glyphs, 0, len(fonts))
	for i, r := range results {
		if r.err != nil {
			if IsNotFound(r.err) {
				sdfont.Logger().Debug("range not covered",
					slog.String("font", fonts[i]),
					slog.String("range", FormatRange(start, end)))
				continue
			}
			return nil, fmt.Errorf("loading %s %s: %w", fonts[i], FormatRange(start, end), r.err)
		}
		loaded = append(loaded, r.g)
	}

	if combined := Combine(loaded); combined != nil {
		return combined, nil
	}

	// Range not covered by any font: synthesize the empty named stack.
	return &Glyphs{Stacks: []Fontstack{{
		Name:  stackName,
		Range: FormatRange(start, end),
	}}}, nil
}
