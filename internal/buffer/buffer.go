// Package buffer implements the growable byte store behind a plot stream.
//
// A Buffer holds a contiguous byte region with a write cursor (top) and a
// read cursor (readPos). Records are appended at top and consumed from
// readPos. Every field write advances the cursor by an even number of bytes
// so that opcode reads always land on a 2-byte boundary.
//
// Invariant: 0 <= readPos <= top <= Cap().
//
// Buffer is not safe for concurrent use.
package buffer

import (
	"errors"
	"log/slog"
)

// DefaultGrow is the initial capacity and the growth increment of a Buffer.
const DefaultGrow = 128 * 1024

// Align is the alignment unit in bytes.
const Align = 2

// Sentinel errors for the buffer package.
var (
	// ErrBufferFull is returned when a reservation would exceed the
	// configured maximum size. It stands in for an allocation failure.
	ErrBufferFull = errors.New("buffer: maximum size exceeded")

	// ErrShortRead is returned when a read would cross the write cursor.
	ErrShortRead = errors.New("buffer: read past top")
)

// Pad returns the cursor advance for a field of n bytes.
//
// The formula n + n%Align is only a round-up for Align == 2; it is kept in
// this form because the recorded layout depends on it.
func Pad(n int) int {
	return n + n%Align
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithGrow sets the initial capacity and growth increment.
// Values <= 0 are ignored.
func WithGrow(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.grow = n
		}
	}
}

// WithMaxSize caps the capacity the buffer may grow to.
// Zero means unlimited.
func WithMaxSize(n int) Option {
	return func(b *Buffer) {
		if n >= 0 {
			b.maxSize = n
		}
	}
}

// WithLogger sets the logger used for growth diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(b *Buffer) {
		b.logger = l
	}
}

// Buffer is the growable byte store. The zero value is not usable; call New.
type Buffer struct {
	data    []byte // len(data) is the capacity
	top     int
	readPos int
	grow    int
	maxSize int
	grows   int
	err     error // sticky write error
	rerr    error // sticky read error, cleared by Rewind
	logger  *slog.Logger
}

// New creates an unallocated Buffer. Call Init before writing.
func New(opts ...Option) *Buffer {
	b := &Buffer{grow: DefaultGrow}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.New(slog.DiscardHandler)
	}
	return b
}

// Init allocates the initial capacity if the buffer has no storage yet.
// The first allocation never exceeds the maximum size.
// On an allocated buffer it only moves top back to zero; capacity and the
// bytes beyond top are left alone.
func (b *Buffer) Init() {
	b.err, b.rerr = nil, nil
	if b.data == nil {
		size := b.grow
		if b.maxSize > 0 && size > b.maxSize {
			size = b.maxSize
		}
		b.data = make([]byte, size)
		b.top = 0
		b.readPos = 0
		return
	}
	b.top = 0
}

// Allocated reports whether the buffer owns storage.
func (b *Buffer) Allocated() bool { return b.data != nil }

// Top returns the write cursor.
func (b *Buffer) Top() int { return b.top }

// ReadPos returns the read cursor.
func (b *Buffer) ReadPos() int { return b.readPos }

// Cap returns the allocated size in bytes.
func (b *Buffer) Cap() int { return len(b.data) }

// GrowIncrement returns the growth increment in bytes.
func (b *Buffer) GrowIncrement() int { return b.grow }

// Grows returns how many times the storage has been reallocated.
func (b *Buffer) Grows() int { return b.grows }

// Err returns the first write error, if any.
func (b *Buffer) Err() error { return b.err }

// ReadErr returns the first read error since the last Rewind, if any.
func (b *Buffer) ReadErr() error { return b.rerr }

// ClearErr forgets a sticky write error.
func (b *Buffer) ClearErr() { b.err = nil }

// ResetTop discards everything written so far.
func (b *Buffer) ResetTop() {
	b.top = 0
	b.readPos = 0
	b.rerr = nil
}

// Truncate drops everything written at or after off. It is used to roll
// back a partially written record.
func (b *Buffer) Truncate(off int) {
	if off < 0 || off >= b.top {
		return
	}
	b.top = off
	if b.readPos > b.top {
		b.readPos = b.top
	}
}

// Seek moves the read cursor to off, clamped to [0, top]. The read error
// is left alone.
func (b *Buffer) Seek(off int) {
	b.readPos = min(max(off, 0), b.top)
}

// Rewind moves the read cursor to the start of the buffer.
func (b *Buffer) Rewind() {
	b.readPos = 0
	b.rerr = nil
}

// Bytes returns the used portion [0, top). The slice aliases the buffer
// and is only valid until the next write.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.top]
}

// Reserve makes room for n more bytes at top. When top+n reaches the
// capacity the buffer is reallocated once, to the smallest multiple of the
// growth increment that covers the request. It reports false if the
// maximum size would be exceeded; the error is then sticky.
func (b *Buffer) Reserve(n int) bool {
	if b.err != nil {
		return false
	}
	required := b.top + n
	if required < len(b.data) {
		return true
	}
	size := len(b.data) + b.grow*((required-len(b.data))/b.grow+1)
	if b.maxSize > 0 && size > b.maxSize {
		b.err = ErrBufferFull
		b.logger.Warn("buffer: grow refused",
			slog.Int("size", size), slog.Int("max", b.maxSize))
		return false
	}
	data := make([]byte, size)
	copy(data, b.data[:b.top])
	b.data = data
	b.grows++
	b.logger.Debug("buffer: growing", slog.Int("kb", size/1024))
	return true
}

// Detach hands the storage and both cursors to the caller and leaves the
// buffer unallocated.
func (b *Buffer) Detach() (data []byte, top, readPos int) {
	data, top, readPos = b.data, b.top, b.readPos
	b.data, b.top, b.readPos = nil, 0, 0
	b.err, b.rerr = nil, nil
	return data, top, readPos
}

// Attach installs storage owned by the caller as the live buffer.
// Ownership of data passes to the buffer.
func (b *Buffer) Attach(data []byte, top, readPos int) {
	if top > len(data) {
		top = len(data)
	}
	if readPos > top {
		readPos = top
	}
	b.data, b.top, b.readPos = data, top, readPos
	b.err, b.rerr = nil, nil
}
