// Command pbfglyphs batch-converts a directory of fonts into SDF glyphs
// in the PBF fontstack format used by map renderers.
//
// Each font found in FONT_DIR is rendered into OUT_DIR/<font name>/ as 256
// files of 256 codepoints each, covering U+0000 through U+FFFF. Existing
// range files are skipped unless -overwrite is given (only the file name is
// inspected, not its content).
//
// With -combinations, a JSON object of the form
//
//	{"New Font Name": ["Font 1", "Font 2"]}
//
// additionally merges the named fonts (in order of precedence) into
// combined stacks under OUT_DIR/<new font name>/.
//
// Usage:
//
//	pbfglyphs [flags] FONT_DIR OUT_DIR
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pterm/pterm"

	"github.com/gogpu/sdfont"
	"github.com/gogpu/sdfont/cache"
	"github.com/gogpu/sdfont/glyphs"
	"github.com/gogpu/sdfont/raster"
)

// maxCodepoint bounds the generated ranges: 256 chunks of 256 codepoints.
const maxCodepoint = 65536

// rangeSize is the fontstack storage convention's chunk width.
const rangeSize = 256

func main() {
	if err := run(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run() error {
	var (
		combinations = flag.String("combinations", "", "path to a JSON object mapping combined stack names to ordered font name lists")
		overwrite    = flag.Bool("overwrite", false, "overwrite existing glyph ranges instead of skipping them")
		jobs         = flag.Int("jobs", runtime.NumCPU(), "number of fonts to convert in parallel")
		verbose      = flag.Bool("v", false, "enable debug logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: pbfglyphs [flags] FONT_DIR OUT_DIR\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	fontDir := flag.Arg(0)
	outDir := flag.Arg(1)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	sdfont.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	fonts, err := scanFonts(fontDir)
	if err != nil {
		return err
	}
	if len(fonts) == 0 {
		pterm.Warning.Printf("no font files (.otf/.ttf/.ttc) found in %s\n", fontDir)
	}

	stats := convertFonts(fonts, outDir, *jobs, *overwrite, raster.DefaultConfig())

	if rendered := stats.GlyphsRendered.Load(); rendered > 0 {
		perGlyph := stats.Elapsed / time.Duration(rendered)
		pterm.Success.Printf("Rendered %d glyph(s) across %d font(s) in %v (%v/glyph)\n",
			rendered, stats.FontsProcessed.Load(), stats.Elapsed.Round(time.Millisecond), perGlyph)
	}
	if skipped := stats.RangesSkipped.Load(); skipped > 0 {
		pterm.Info.Printf("Skipped %d existing range file(s)\n", skipped)
	}
	if failed := stats.FontsFailed.Load(); failed > 0 {
		pterm.Warning.Printf("%d font(s) failed to convert\n", failed)
	}

	if *combinations != "" {
		if err := combineAll(context.Background(), *combinations, outDir, *jobs); err != nil {
			return err
		}
	}
	return nil
}

// scanFonts lists the font files directly inside dir, in name order.
func scanFonts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading font directory: %w", err)
	}

	var fonts []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".otf", ".ttf", ".ttc":
			fonts = append(fonts, filepath.Join(dir, e.Name()))
		}
	}
	return fonts, nil
}

// BuildStats accumulates conversion totals. The counters are atomic so
// worker goroutines can update them concurrently; the final values are an
// explicit result rather than process-global state.
type BuildStats struct {
	GlyphsRendered atomic.Uint64
	RangesSkipped  atomic.Uint64
	FontsProcessed atomic.Uint64
	FontsFailed    atomic.Uint64
	Elapsed        time.Duration
}

// convertFonts renders every font with a pool of worker goroutines, one
// font per job. Each worker opens its own faces, so no rasterizer state is
// shared across goroutines.
func convertFonts(fonts []string, outDir string, jobs int, overwrite bool, cfg raster.Config) *BuildStats {
	if jobs < 1 {
		jobs = 1
	}

	stats := &BuildStats{}
	start := time.Now()

	work := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range work {
				if err := convertFont(path, outDir, overwrite, cfg, stats); err != nil {
					stats.FontsFailed.Add(1)
					pterm.Error.Printf("%s: %v\n", path, err)
					continue
				}
				stats.FontsProcessed.Add(1)
			}
		}()
	}

	for _, path := range fonts {
		work <- path
	}
	close(work)
	wg.Wait()

	stats.Elapsed = time.Since(start)
	return stats
}

// convertFont renders all 256-codepoint ranges of one font file.
func convertFont(path, outDir string, overwrite bool, cfg raster.Config, stats *BuildStats) error {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	pterm.Info.Printf("Processing %s\n", path)

	// Open every face once; re-parsing per range would dominate runtime.
	faces, err := raster.OpenFonts(path, cfg)
	if err != nil {
		return err
	}

	log := sdfont.Logger().With(slog.String("font", stem))
	var rendered, skipped uint64

	for start := uint32(0); start < maxCodepoint; start += rangeSize {
		end := start + rangeSize - 1
		outPath := glyphs.PathFor(outDir, stem, start, end)

		if !overwrite {
			if _, err := os.Stat(outPath); err == nil {
				skipped += rangeSize
				continue
			}
		}

		var msg glyphs.Glyphs
		for _, face := range faces {
			stack, err := raster.GlyphRange(face, start, end, cfg)
			if err != nil {
				return err
			}
			rendered += uint64(len(stack.Glyphs))
			msg.Stacks = append(msg.Stacks, stack)
		}

		if err := glyphs.Save(outPath, &msg); err != nil {
			return err
		}
	}

	if skipped > 0 {
		log.Info("skipped existing ranges", slog.Uint64("codepoints", skipped))
	}
	if skipped != maxCodepoint {
		pterm.Info.Printf("Found %d valid glyphs across %d face(s) in %s\n",
			rendered, len(faces), path)
	}

	stats.GlyphsRendered.Add(rendered)
	stats.RangesSkipped.Add(skipped / rangeSize)
	return nil
}

// combineAll merges fonts into combined stacks per the combination spec, a
// JSON object mapping each new stack name to its fonts in precedence order.
func combineAll(ctx context.Context, specPath, outDir string, jobs int) error {
	data, err := os.ReadFile(specPath)
	if err != nil {
		return fmt.Errorf("reading combination spec: %w", err)
	}
	var spec map[string][]string
	if err := json.Unmarshal(data, &spec); err != nil {
		return fmt.Errorf("parsing combination spec: %w", err)
	}

	// Ranges of fonts shared between stacks are decoded once and reused.
	ranges := cache.NewSharded[string, loadResult](cache.DefaultCapacity, cache.StringHasher)
	loader := func(ctx context.Context, root, font string, start, end uint32) (*glyphs.Glyphs, error) {
		key := font + "/" + glyphs.FormatRange(start, end)
		res := ranges.GetOrCreate(key, func() loadResult {
			g, err := glyphs.LoadRange(ctx, root, font, start, end)
			return loadResult{g, err}
		})
		return res.g, res.err
	}

	// Deterministic stack order regardless of map iteration.
	names := make([]string, 0, len(spec))
	for name := range spec {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		combined, err := combineStack(ctx, loader, outDir, name, spec[name], jobs)
		if err != nil {
			return fmt.Errorf("combining %q: %w", name, err)
		}
		pterm.Success.Printf("Combined %d glyphs from [%s] into %s\n",
			combined, strings.Join(spec[name], ", "), name)
	}

	st := ranges.Stats()
	sdfont.Logger().Debug("combination cache",
		slog.Uint64("hits", st.Hits),
		slog.Uint64("misses", st.Misses))
	return nil
}

type loadResult struct {
	g   *glyphs.Glyphs
	err error
}

// combineStack merges one named stack across the whole codepoint space,
// combining up to jobs ranges concurrently. It returns the number of
// glyphs in the combined stack.
func combineStack(ctx context.Context, loader glyphs.RangeLoader, outDir, name string, fonts []string, jobs int) (uint64, error) {
	if jobs < 1 {
		jobs = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		sem      = make(chan struct{}, jobs)
		total    atomic.Uint64
		firstErr error
		errOnce  sync.Once
	)

	for start := uint32(0); start < maxCodepoint; start += rangeSize {
		start := start
		end := start + rangeSize - 1

		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			combined, err := glyphs.CombineStack(ctx, loader, outDir, fonts, name, start, end)
			if err == nil {
				total.Add(uint64(len(combined.Stacks[0].Glyphs)))
				err = glyphs.Save(glyphs.PathFor(outDir, name, start, end), combined)
			}
			if err != nil {
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
			}
		}()
	}

	wg.Wait()
	if firstErr != nil {
		return 0, firstErr
	}
	return total.Load(), nil
}
