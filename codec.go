package plot

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/plot/internal/buffer"
)

// coder walks the fields of a record in one direction. Each record has a
// single code method that is run with an encoding coder when recording and
// a decoding coder when replaying, so both directions always agree on the
// field order and sizes.
type coder struct {
	buf    *buffer.Buffer
	decode bool
}

func (c *coder) u8(p *uint8) {
	if c.decode {
		*p = c.buf.ReadUint8()
		return
	}
	c.buf.WriteUint8(*p)
}

func (c *coder) i8(p *int8) {
	if c.decode {
		*p = c.buf.ReadInt8()
		return
	}
	c.buf.WriteInt8(*p)
}

func (c *coder) u16(p *uint16) {
	if c.decode {
		*p = c.buf.ReadUint16()
		return
	}
	c.buf.WriteUint16(*p)
}

func (c *coder) i32(p *int32) {
	if c.decode {
		*p = c.buf.ReadInt32()
		return
	}
	c.buf.WriteInt32(*p)
}

func (c *coder) u32(p *uint32) {
	if c.decode {
		*p = c.buf.ReadUint32()
		return
	}
	c.buf.WriteUint32(*p)
}

func (c *coder) f64(p *float64) {
	if c.decode {
		*p = c.buf.ReadFloat64()
		return
	}
	c.buf.WriteFloat64(*p)
}

// f64s codes a fixed-size float array as a single field.
func (c *coder) f64s(p []float64) {
	if c.decode {
		raw := c.buf.View(8 * len(p))
		if raw == nil {
			return
		}
		for i := range p {
			p[i] = math.Float64frombits(binary.NativeEndian.Uint64(raw[8*i:]))
		}
		return
	}
	raw := make([]byte, 8*len(p))
	for i, v := range p {
		binary.NativeEndian.PutUint64(raw[8*i:], math.Float64bits(v))
	}
	c.buf.Write(raw)
}

// count codes an element count that precedes one or more arrays.
// When encoding, n is the value to write.
func (c *coder) count(n int) int {
	v := int32(n)
	c.i32(&v)
	return int(v)
}

// int16View codes n coordinates. Decoding returns a view into the live
// buffer, valid only for the current replay step.
func (c *coder) int16View(p *[]int16, n int) {
	if c.decode {
		*p = c.buf.Int16View(n)
		return
	}
	c.buf.WriteInt16s((*p)[:n])
}

// int16s codes n coordinates, copying on decode.
func (c *coder) int16s(p *[]int16, n int) {
	if c.decode {
		*p = c.buf.ReadInt16s(n)
		return
	}
	c.buf.WriteInt16s((*p)[:n])
}

func (c *coder) u16s(p *[]uint16, n int) {
	if c.decode {
		*p = c.buf.ReadUint16s(n)
		return
	}
	c.buf.WriteUint16s((*p)[:n])
}

func (c *coder) u32s(p *[]uint32, n int) {
	if c.decode {
		*p = c.buf.ReadUint32s(n)
		return
	}
	c.buf.WriteUint32s((*p)[:n])
}

// colors codes a palette as one field of colorRecordSize byte entries.
// Palettes outlive the replay step, so decoding always copies.
func (c *coder) colors(p *[]Color, n int) {
	if c.decode {
		if n < 0 {
			c.buf.View(-1)
			return
		}
		raw := c.buf.View(n * colorRecordSize)
		if raw == nil {
			*p = nil
			return
		}
		out := make([]Color, n)
		for i := range out {
			e := raw[i*colorRecordSize:]
			out[i] = Color{
				R: e[0], G: e[1], B: e[2],
				A: math.Float64frombits(binary.NativeEndian.Uint64(e[4:])),
			}
		}
		*p = out
		return
	}
	raw := make([]byte, n*colorRecordSize)
	for i, col := range (*p)[:n] {
		e := raw[i*colorRecordSize:]
		e[0], e[1], e[2] = col.R, col.G, col.B
		binary.NativeEndian.PutUint64(e[4:], math.Float64bits(col.A))
	}
	c.buf.Write(raw)
}

// hasSubOp reports whether records with opcode op carry a sub-op byte.
func hasSubOp(op Opcode) bool {
	return op == OpChangeState || op == OpEscape
}

// encodeRecord appends r to buf: opcode, sub-op if any, then the payload.
func encodeRecord(buf *buffer.Buffer, r Record) {
	op := r.Opcode()
	buf.WriteOpcode(uint8(op))
	if hasSubOp(op) {
		buf.WriteUint8(r.subOp())
	}
	r.code(&coder{buf: buf})
}

// recordKey indexes the decode table.
type recordKey struct {
	op  Opcode
	sub uint8
}

// recordTable maps every decodable opcode and sub-op to a constructor for
// the record that knows its payload shape.
var recordTable = map[recordKey]func() Record{
	{OpInitialize, 0}: func() Record { return &InitRecord{} },
	{OpBOP, 0}:        func() Record { return &BOPRecord{} },
	{OpBOP0, 0}:       func() Record { return &BOPRecord{} },
	{OpEOP, 0}:        func() Record { return &EOPRecord{} },
	{OpLine, 0}:       func() Record { return &LineRecord{} },
	{OpPolyline, 0}:   func() Record { return &PolylineRecord{} },

	{OpChangeState, uint8(StateWidth)}:  func() Record { return &WidthState{} },
	{OpChangeState, uint8(StateColor0)}: func() Record { return &Color0State{} },
	{OpChangeState, uint8(StateColor1)}: func() Record { return &Color1State{} },
	{OpChangeState, uint8(StateFill)}:   func() Record { return &FillState{} },
	{OpChangeState, uint8(StateCmap0)}:  func() Record { return &CmapState{Cmap: 0} },
	{OpChangeState, uint8(StateCmap1)}:  func() Record { return &CmapState{Cmap: 1} },
	{OpChangeState, uint8(StateChar)}:   func() Record { return &CharState{} },
	{OpChangeState, uint8(StateSymbol)}: func() Record { return &SymbolState{} },

	{OpEscape, uint8(EscFill)}:           func() Record { return &FillEscape{} },
	{OpEscape, uint8(EscWindow)}:         func() Record { return &WindowEscape{} },
	{OpEscape, uint8(EscImage)}:          func() Record { return &ImageEscape{} },
	{OpEscape, uint8(EscHasText)}:        func() Record { return &TextEscape{} },
	{OpEscape, uint8(EscBeginText)}:      func() Record { return &UnicodeTextEscape{Op: EscBeginText} },
	{OpEscape, uint8(EscTextChar)}:       func() Record { return &UnicodeTextEscape{Op: EscTextChar} },
	{OpEscape, uint8(EscControlChar)}:    func() Record { return &UnicodeTextEscape{Op: EscControlChar} },
	{OpEscape, uint8(EscEndText)}:        func() Record { return &UnicodeTextEscape{Op: EscEndText} },
	{OpEscape, uint8(EscClear)}:          func() Record { return &SimpleEscape{Op: EscClear} },
	{OpEscape, uint8(EscStartRasterize)}: func() Record { return &SimpleEscape{Op: EscStartRasterize} },
	{OpEscape, uint8(EscEndRasterize)}:   func() Record { return &SimpleEscape{Op: EscEndRasterize} },
}

// decodeRecord reads the body of a record whose opcode has already been
// consumed. It reports a *CorruptError for unknown sub-ops and short or
// malformed payloads.
func decodeRecord(buf *buffer.Buffer, op Opcode, offset int, prev Opcode) (Record, error) {
	var sub uint8
	if hasSubOp(op) {
		sub = buf.ReadUint8()
	}
	if err := buf.ReadErr(); err != nil {
		return nil, &CorruptError{Offset: offset, Opcode: op, Previous: prev, Reason: "truncated sub-op"}
	}
	newRecord, ok := recordTable[recordKey{op, sub}]
	if !ok {
		reason := "unrecognized command"
		switch op {
		case OpChangeState:
			reason = "unrecognized state op " + StateOp(sub).String()
		case OpEscape:
			reason = "unrecognized escape op " + EscapeOp(sub).String()
		}
		return nil, &CorruptError{Offset: offset, Opcode: op, Previous: prev, Reason: reason}
	}
	r := newRecord()
	r.code(&coder{buf: buf, decode: true})
	if err := buf.ReadErr(); err != nil {
		return nil, &CorruptError{Offset: offset, Opcode: op, Previous: prev, Reason: "truncated payload: " + err.Error()}
	}
	return r, nil
}
