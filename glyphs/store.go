package glyphs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// RangeLoader loads one codepoint range of one font. It exists so the
// combination driver can interpose a cache in front of [LoadRange].
type RangeLoader func(ctx context.Context, root, fontName string, start, end uint32) (*Glyphs, error)

// PathFor returns the conventional location of one font's codepoint range:
// <root>/<fontName>/<start>-<end>.pbf.
func PathFor(root, fontName string, start, end uint32) string {
	return filepath.Join(root, fontName, FormatRange(start, end)+".pbf")
}

// Load reads and decodes a single .pbf file.
//
// A missing file is reported via fs.ErrNotExist in the error chain (see
// [IsNotFound]); malformed content is reported as a *DecodeError.
func Load(path string) (*Glyphs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("glyphs: reading %s: %w", path, err)
	}
	g, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("glyphs: decoding %s: %w", path, err)
	}
	return g, nil
}

// LoadRange loads one codepoint range of one font from the conventional
// path under root. It honors context cancellation between ranges; the read
// itself is a single blocking file operation.
func LoadRange(ctx context.Context, root, fontName string, start, end uint32) (*Glyphs, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Load(PathFor(root, fontName, start, end))
}

// IsNotFound reports whether err means the range file does not exist, as
// opposed to being unreadable or malformed.
func IsNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Save encodes the message and writes it to path atomically: the bytes go
// to a temporary file in the same directory which is then renamed over the
// destination, so readers never observe a partial file. Parent directories
// are created as needed.
func Save(path string, g *Glyphs) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("glyphs: creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("glyphs: creating temp file: %w", err)
	}

	_, werr := tmp.Write(Marshal(g))
	cerr := tmp.Close()
	if werr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("glyphs: writing %s: %w", path, werr)
	}
	if cerr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("glyphs: writing %s: %w", path, cerr)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("glyphs: replacing %s: %w", path, err)
	}
	return nil
}
