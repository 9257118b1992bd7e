package glyphs

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Wire field numbers, per the fontstack .pbf schema.
const (
	glyphsStacksField = 1

	stackNameField   = 1
	stackRangeField  = 2
	stackGlyphsField = 3

	glyphIDField      = 1
	glyphBitmapField  = 2
	glyphWidthField   = 3
	glyphHeightField  = 4
	glyphLeftField    = 5
	glyphTopField     = 6
	glyphAdvanceField = 7
)

// DecodeError reports malformed wire bytes. Unmarshal never returns a
// partially-populated message alongside a DecodeError.
type DecodeError struct {
	// Offset is the byte offset at which decoding failed, relative to the
	// start of the innermost message being decoded.
	Offset int

	// Err is the underlying cause, when one exists.
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("glyphs: malformed message at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("glyphs: malformed message at offset %d", e.Offset)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Marshal serializes the message to its wire form.
//
// Every field of every present message is emitted, including zero values,
// so that Unmarshal(Marshal(g)) reproduces g exactly.
func Marshal(g *Glyphs) []byte {
	var b []byte
	for i := range g.Stacks {
		b = protowire.AppendTag(b, glyphsStacksField, protowire.BytesType)
		b = protowire.AppendBytes(b, appendFontstack(nil, &g.Stacks[i]))
	}
	return b
}

func appendFontstack(b []byte, s *Fontstack) []byte {
	b = protowire.AppendTag(b, stackNameField, protowire.BytesType)
	b = protowire.AppendString(b, s.Name)
	b = protowire.AppendTag(b, stackRangeField, protowire.BytesType)
	b = protowire.AppendString(b, s.Range)
	for i := range s.Glyphs {
		b = protowire.AppendTag(b, stackGlyphsField, protowire.BytesType)
		b = protowire.AppendBytes(b, appendGlyph(nil, &s.Glyphs[i]))
	}
	return b
}

func appendGlyph(b []byte, g *Glyph) []byte {
	b = protowire.AppendTag(b, glyphIDField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(g.ID))
	b = protowire.AppendTag(b, glyphBitmapField, protowire.BytesType)
	b = protowire.AppendBytes(b, g.Bitmap)
	b = protowire.AppendTag(b, glyphWidthField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(g.Width))
	b = protowire.AppendTag(b, glyphHeightField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(g.Height))
	b = protowire.AppendTag(b, glyphLeftField, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(g.Left)))
	b = protowire.AppendTag(b, glyphTopField, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(g.Top)))
	b = protowire.AppendTag(b, glyphAdvanceField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(g.Advance))
	return b
}

// Unmarshal parses a Glyphs message from its wire form.
//
// Unknown fields are skipped for forward compatibility. Malformed input
// yields a *DecodeError and a nil message, never a partial one.
func Unmarshal(data []byte) (*Glyphs, error) {
	var g Glyphs
	off := 0
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, &DecodeError{Offset: off, Err: protowire.ParseError(n)}
		}
		data = data[n:]
		off += n

		if num == glyphsStacksField && typ == protowire.BytesType {
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, &DecodeError{Offset: off, Err: protowire.ParseError(n)}
			}
			stack, err := unmarshalFontstack(v)
			if err != nil {
				return nil, err
			}
			g.Stacks = append(g.Stacks, *stack)
			data = data[n:]
			off += n
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return nil, &DecodeError{Offset: off, Err: protowire.ParseError(n)}
		}
		data = data[n:]
		off += n
	}
	return &g, nil
}

func unmarshalFontstack(data []byte) (*Fontstack, error) {
	var s Fontstack
	off := 0
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, &DecodeError{Offset: off, Err: protowire.ParseError(n)}
		}
		data = data[n:]
		off += n

		switch {
		case num == stackNameField && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return nil, &DecodeError{Offset: off, Err: protowire.ParseError(m)}
			}
			s.Name = v
			data = data[m:]
			off += m

		case num == stackRangeField && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return nil, &DecodeError{Offset: off, Err: protowire.ParseError(m)}
			}
			s.Range = v
			data = data[m:]
			off += m

		case num == stackGlyphsField && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return nil, &DecodeError{Offset: off, Err: protowire.ParseError(m)}
			}
			glyph, err := unmarshalGlyph(v)
			if err != nil {
				return nil, err
			}
			s.Glyphs = append(s.Glyphs, *glyph)
			data = data[m:]
			off += m

		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return nil, &DecodeError{Offset: off, Err: protowire.ParseError(m)}
			}
			data = data[m:]
			off += m
		}
	}
	return &s, nil
}

func unmarshalGlyph(data []byte) (*Glyph, error) {
	var g Glyph
	off := 0
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, &DecodeError{Offset: off, Err: protowire.ParseError(n)}
		}
		data = data[n:]
		off += n

		switch {
		case num == glyphBitmapField && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return nil, &DecodeError{Offset: off, Err: protowire.ParseError(m)}
			}
			// Copy out of the input buffer; an empty bitmap decodes as nil.
			g.Bitmap = append([]byte(nil), v...)
			data = data[m:]
			off += m

		case typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, &DecodeError{Offset: off, Err: protowire.ParseError(m)}
			}
			switch num {
			case glyphIDField:
				g.ID = uint32(v)
			case glyphWidthField:
				g.Width = uint32(v)
			case glyphHeightField:
				g.Height = uint32(v)
			case glyphLeftField:
				g.Left = int32(protowire.DecodeZigZag(v))
			case glyphTopField:
				g.Top = int32(protowire.DecodeZigZag(v))
			case glyphAdvanceField:
				g.Advance = uint32(v)
			}
			data = data[m:]
			off += m

		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return nil, &DecodeError{Offset: off, Err: protowire.ParseError(m)}
			}
			data = data[m:]
			off += m
		}
	}
	return &g, nil
}
