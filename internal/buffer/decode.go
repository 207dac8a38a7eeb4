package buffer

import (
	"math"
	"unsafe"
)

// ReadOpcode returns the opcode at readPos and advances readPos by Align.
// It reports false once readPos has reached top or after a read error. A
// trailing byte shorter than Align is a short read.
func (b *Buffer) ReadOpcode() (byte, bool) {
	if b.rerr != nil || b.readPos >= b.top {
		return 0, false
	}
	if b.readPos+Align > b.top {
		// A stray byte after the last whole record.
		b.rerr = ErrShortRead
		return 0, false
	}
	c := b.data[b.readPos]
	b.readPos += Align
	return c, true
}

// View returns the next n bytes without copying and advances readPos by
// Pad(n). The slice aliases the live buffer: it must not be retained past
// the current replay step, since a later write may reallocate the storage.
// On a short read it returns nil and the error is sticky until Rewind.
func (b *Buffer) View(n int) []byte {
	if b.rerr != nil {
		return nil
	}
	if n < 0 || b.readPos+n > b.top {
		b.rerr = ErrShortRead
		return nil
	}
	p := b.data[b.readPos : b.readPos+n : b.readPos+n]
	b.readPos += Pad(n)
	if b.readPos > b.top {
		b.readPos = b.top
	}
	return p
}

// Read copies the next n bytes and advances readPos by Pad(n).
func (b *Buffer) Read(n int) []byte {
	p := b.View(n)
	if p == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, p)
	return out
}

// ReadUint8 reads a single byte field.
func (b *Buffer) ReadUint8() uint8 {
	if p := b.View(1); p != nil {
		return p[0]
	}
	return 0
}

// ReadInt8 reads a signed single byte field.
func (b *Buffer) ReadInt8() int8 {
	return int8(b.ReadUint8())
}

// ReadUint16 reads a 16-bit field.
func (b *Buffer) ReadUint16() uint16 {
	if p := b.View(2); p != nil {
		return order.Uint16(p)
	}
	return 0
}

// ReadInt32 reads a 32-bit signed field.
func (b *Buffer) ReadInt32() int32 {
	return int32(b.ReadUint32())
}

// ReadUint32 reads a 32-bit field.
func (b *Buffer) ReadUint32() uint32 {
	if p := b.View(4); p != nil {
		return order.Uint32(p)
	}
	return 0
}

// ReadFloat64 reads a 64-bit float field.
func (b *Buffer) ReadFloat64() float64 {
	if p := b.View(8); p != nil {
		return math.Float64frombits(order.Uint64(p))
	}
	return 0
}

// Int16View returns the next n 16-bit values as a slice aliasing the
// buffer. The same lifetime rule as View applies. Field offsets are always
// even and the storage comes from make, so the view is correctly aligned.
func (b *Buffer) Int16View(n int) []int16 {
	if n < 0 {
		b.fail()
		return nil
	}
	p := b.View(2 * n)
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*int16)(unsafe.Pointer(&p[0])), n) //nolint:gosec // aligned, host order
}

// ReadInt16s copies the next n 16-bit values.
func (b *Buffer) ReadInt16s(n int) []int16 {
	v := b.Int16View(n)
	if v == nil {
		return nil
	}
	out := make([]int16, n)
	copy(out, v)
	return out
}

// ReadUint16s copies the next n unsigned 16-bit values.
func (b *Buffer) ReadUint16s(n int) []uint16 {
	if n < 0 {
		b.fail()
		return nil
	}
	p := b.View(2 * n)
	if p == nil || n == 0 {
		return nil
	}
	out := make([]uint16, n)
	for i := range out {
		out[i] = order.Uint16(p[2*i:])
	}
	return out
}

// ReadUint32s copies the next n 32-bit values.
func (b *Buffer) ReadUint32s(n int) []uint32 {
	if n < 0 {
		b.fail()
		return nil
	}
	p := b.View(4 * n)
	if p == nil || n == 0 {
		return nil
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = order.Uint32(p[4*i:])
	}
	return out
}

func (b *Buffer) fail() {
	if b.rerr == nil {
		b.rerr = ErrShortRead
	}
}
