package glyphs

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"google.golang.org/protobuf/encoding/protowire"
)

func sampleGlyphs() *Glyphs {
	return &Glyphs{Stacks: []Fontstack{
		{
			Name:  "Open Sans Light",
			Range: "0-255",
			Glyphs: []Glyph{
				{ID: 65, Bitmap: []byte{1, 2, 3}, Width: 14, Height: 18, Left: 1, Top: -3, Advance: 15},
				{ID: 66, Bitmap: []byte{9, 8, 7, 6}, Width: 13, Height: 18, Left: 2, Top: -3, Advance: 16},
			},
		},
		{
			Name:  "Open Sans Light Italic",
			Range: "0-255",
		},
	}}
}

func TestMarshalRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   *Glyphs
	}{
		{"empty message", &Glyphs{}},
		{"empty stack", &Glyphs{Stacks: []Fontstack{{Name: "A", Range: "0-255"}}}},
		{"zero-value stack", &Glyphs{Stacks: []Fontstack{{}}}},
		{"full message", sampleGlyphs()},
		{
			"negative bearings",
			&Glyphs{Stacks: []Fontstack{{
				Name:  "N",
				Range: "32-32",
				Glyphs: []Glyph{
					{ID: 32, Width: 0, Height: 0, Left: -7, Top: -21, Advance: 6},
				},
			}}},
		},
		{
			"extreme values",
			&Glyphs{Stacks: []Fontstack{{
				Name:  "X",
				Range: "65535-65535",
				Glyphs: []Glyph{
					{ID: 65535, Bitmap: make([]byte, 1024), Width: 1 << 30, Height: 1 << 30,
						Left: -1 << 31, Top: 1<<31 - 1, Advance: 1<<32 - 1},
				},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := Marshal(tt.in)
			dec, err := Unmarshal(enc)
			if err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if diff := cmp.Diff(tt.in, dec, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarshalDeterministic(t *testing.T) {
	a := Marshal(sampleGlyphs())
	b := Marshal(sampleGlyphs())
	if string(a) != string(b) {
		t.Error("Marshal() is not deterministic for equal inputs")
	}
}

func TestUnmarshalTruncated(t *testing.T) {
	enc := Marshal(&Glyphs{Stacks: []Fontstack{sampleGlyphs().Stacks[0]}})

	// Every strict prefix of a single-stack message cuts a field in half
	// somewhere, so all of them must fail cleanly.
	for i := 1; i < len(enc); i++ {
		g, err := Unmarshal(enc[:i])
		if err == nil {
			t.Fatalf("Unmarshal(enc[:%d]) succeeded on truncated input", i)
		}
		if g != nil {
			t.Fatalf("Unmarshal(enc[:%d]) returned partial message alongside error", i)
		}
		var decErr *DecodeError
		if !errors.As(err, &decErr) {
			t.Fatalf("Unmarshal(enc[:%d]) error = %v, want *DecodeError", i, err)
		}
	}
}

func TestUnmarshalEmpty(t *testing.T) {
	g, err := Unmarshal(nil)
	if err != nil {
		t.Fatalf("Unmarshal(nil) error: %v", err)
	}
	if len(g.Stacks) != 0 {
		t.Errorf("Unmarshal(nil) stacks = %d, want 0", len(g.Stacks))
	}
}

func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	// A stack message with an extra field 15 appended; decoding must keep
	// the known fields and ignore the rest.
	var stack []byte
	stack = protowire.AppendTag(stack, stackNameField, protowire.BytesType)
	stack = protowire.AppendString(stack, "A")
	stack = protowire.AppendTag(stack, stackRangeField, protowire.BytesType)
	stack = protowire.AppendString(stack, "0-255")
	stack = protowire.AppendTag(stack, 15, protowire.VarintType)
	stack = protowire.AppendVarint(stack, 12345)

	var msg []byte
	msg = protowire.AppendTag(msg, glyphsStacksField, protowire.BytesType)
	msg = protowire.AppendBytes(msg, stack)

	g, err := Unmarshal(msg)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if len(g.Stacks) != 1 || g.Stacks[0].Name != "A" || g.Stacks[0].Range != "0-255" {
		t.Errorf("Unmarshal() = %+v, want single stack A 0-255", g)
	}
}

func TestUnmarshalGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"bare continuation byte", []byte{0x80}},
		{"length past end", []byte{0x0a, 0xff, 0x01, 0x00}},
		{"zero field number", []byte{0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Unmarshal(tt.data)
			if err == nil {
				t.Fatal("Unmarshal() expected error, got nil")
			}
			if g != nil {
				t.Error("Unmarshal() returned message alongside error")
			}
		})
	}
}
