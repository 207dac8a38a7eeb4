package buffer

import (
	"encoding/binary"
	"math"
)

// Multi-byte fields are stored in host byte order. Buffers are not meant
// to be moved between machines of different endianness.
var order = binary.NativeEndian

// WriteOpcode stores a one-byte opcode and advances top by Align so the
// next opcode read stays aligned.
func (b *Buffer) WriteOpcode(c byte) {
	if !b.Reserve(1) {
		return
	}
	b.data[b.top] = c
	b.data[b.top+1] = 0
	b.top += Align
}

// Write copies p at top and advances top by Pad(len(p)).
func (b *Buffer) Write(p []byte) {
	dst := b.alloc(len(p))
	copy(dst, p)
}

// alloc reserves n bytes, advances top by Pad(n) and returns the n bytes
// to fill in. Padding is zeroed so that equal records encode to equal
// bytes. It returns nil if the reservation failed.
func (b *Buffer) alloc(n int) []byte {
	if !b.Reserve(n) {
		return nil
	}
	p := b.data[b.top : b.top+n]
	if pad := Pad(n); pad > n {
		b.data[b.top+n] = 0
		b.top += pad
	} else {
		b.top += n
	}
	return p
}

// WriteUint8 writes a single byte field. It occupies a full aligned slot.
func (b *Buffer) WriteUint8(v uint8) {
	if p := b.alloc(1); p != nil {
		p[0] = v
	}
}

// WriteInt8 writes a signed single byte field.
func (b *Buffer) WriteInt8(v int8) {
	b.WriteUint8(uint8(v))
}

// WriteUint16 writes a 16-bit field.
func (b *Buffer) WriteUint16(v uint16) {
	if p := b.alloc(2); p != nil {
		order.PutUint16(p, v)
	}
}

// WriteInt32 writes a 32-bit signed field.
func (b *Buffer) WriteInt32(v int32) {
	b.WriteUint32(uint32(v))
}

// WriteUint32 writes a 32-bit field.
func (b *Buffer) WriteUint32(v uint32) {
	if p := b.alloc(4); p != nil {
		order.PutUint32(p, v)
	}
}

// WriteFloat64 writes a 64-bit float field.
func (b *Buffer) WriteFloat64(v float64) {
	if p := b.alloc(8); p != nil {
		order.PutUint64(p, math.Float64bits(v))
	}
}

// WriteInt16s writes an array of 16-bit values as one field.
func (b *Buffer) WriteInt16s(v []int16) {
	p := b.alloc(2 * len(v))
	if p == nil {
		return
	}
	for i, x := range v {
		order.PutUint16(p[2*i:], uint16(x))
	}
}

// WriteUint16s writes an array of unsigned 16-bit values as one field.
func (b *Buffer) WriteUint16s(v []uint16) {
	p := b.alloc(2 * len(v))
	if p == nil {
		return
	}
	for i, x := range v {
		order.PutUint16(p[2*i:], x)
	}
}

// WriteUint32s writes an array of 32-bit values as one field.
func (b *Buffer) WriteUint32s(v []uint32) {
	p := b.alloc(4 * len(v))
	if p == nil {
		return
	}
	for i, x := range v {
		order.PutUint32(p[4*i:], x)
	}
}
