package sdfont

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewBitmapGlyph(t *testing.T) {
	tests := []struct {
		name    string
		alpha   []byte
		width   int
		height  int
		buffer  int
		wantErr bool
	}{
		{"empty", nil, 0, 0, 0, false},
		{"empty buffered", make([]byte, 36), 0, 0, 3, false},
		{"tight 2x2", []byte{1, 2, 3, 4}, 2, 2, 0, false},
		{"buffered 1x1", make([]byte, 9), 1, 1, 1, false},
		{"too short", make([]byte, 8), 1, 1, 1, true},
		{"too long", make([]byte, 10), 1, 1, 1, true},
		{"tight data with buffer declared", []byte{1, 2, 3, 4}, 2, 2, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBitmapGlyph(tt.alpha, tt.width, tt.height, tt.buffer)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewBitmapGlyph() expected error, got nil")
				}
				var dimErr *DimensionError
				if !errors.As(err, &dimErr) {
					t.Errorf("error = %v, want *DimensionError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBitmapGlyph() error: %v", err)
			}
			if b.Width() != tt.width || b.Height() != tt.height || b.Buffer() != tt.buffer {
				t.Errorf("dims = %d/%d/%d, want %d/%d/%d",
					b.Width(), b.Height(), b.Buffer(), tt.width, tt.height, tt.buffer)
			}
		})
	}
}

func TestNewBitmapGlyphUnbuffered(t *testing.T) {
	// A 2x2 bitmap with a 1 px buffer must land centered in a 4x4 buffer.
	alpha := []byte{10, 20, 30, 40}
	b, err := NewBitmapGlyphUnbuffered(alpha, 2, 2, 1)
	if err != nil {
		t.Fatalf("NewBitmapGlyphUnbuffered() error: %v", err)
	}

	want := []byte{
		0, 0, 0, 0,
		0, 10, 20, 0,
		0, 30, 40, 0,
		0, 0, 0, 0,
	}
	if !bytes.Equal(b.Alpha(), want) {
		t.Errorf("Alpha() = %v, want %v", b.Alpha(), want)
	}
}

func TestNewBitmapGlyphUnbufferedDimensionMismatch(t *testing.T) {
	_, err := NewBitmapGlyphUnbuffered([]byte{1, 2, 3}, 2, 2, 1)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var dimErr *DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("error = %v, want *DimensionError", err)
	}
	if dimErr.Expected != 4 || dimErr.Actual != 3 {
		t.Errorf("DimensionError = %d/%d, want 4/3", dimErr.Expected, dimErr.Actual)
	}
}

func TestBitmapGlyphDoesNotPad(t *testing.T) {
	// The pre-padded constructor must never silently re-center or truncate.
	alpha := make([]byte, 25)
	b, err := NewBitmapGlyph(alpha, 3, 3, 1)
	if err != nil {
		t.Fatalf("NewBitmapGlyph() error: %v", err)
	}
	if len(b.Alpha()) != 25 {
		t.Errorf("len(Alpha()) = %d, want 25", len(b.Alpha()))
	}
}
