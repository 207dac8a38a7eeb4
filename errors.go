package plot

import (
	"errors"
	"fmt"
)

// Sentinel errors for the plot package.
var (
	// ErrCorrupt reports a buffer that cannot be decoded: an unrecognized
	// opcode or sub-op, or a record that runs past the end of the buffer.
	// Replay stops at the first corruption since the format has no way to
	// resynchronize.
	ErrCorrupt = errors.New("plot: corrupt command buffer")

	// ErrInvalidColorIndex reports a colour index outside the palette.
	ErrInvalidColorIndex = errors.New("plot: invalid color map entry")

	// ErrInvalidState is returned when restoring or switching to a saved
	// state that is nil or not valid.
	ErrInvalidState = errors.New("plot: invalid saved state")

	// ErrNotWriting is returned by SaveState when the stream is not
	// recording.
	ErrNotWriting = errors.New("plot: stream is not recording")

	// ErrBufferFull is returned when the buffer may not grow any further.
	ErrBufferFull = errors.New("plot: buffer full")
)

// CorruptError describes where decoding failed.
type CorruptError struct {
	// Offset is the read position of the offending opcode.
	Offset int
	// Opcode is the opcode being decoded.
	Opcode Opcode
	// Previous is the opcode decoded before it, zero at the start.
	Previous Opcode
	// Reason says what was wrong with the record.
	Reason string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("plot: corrupt command buffer at offset %d: %s (opcode %d, previous %d)",
		e.Offset, e.Reason, uint8(e.Opcode), uint8(e.Previous))
}

// Unwrap returns ErrCorrupt.
func (e *CorruptError) Unwrap() error { return ErrCorrupt }

// ColorIndexError is reported when a recorded colour change refers to a
// palette entry that does not exist. Only that state change is aborted.
type ColorIndexError struct {
	Cmap  int
	Index int
	Len   int
}

func (e *ColorIndexError) Error() string {
	return fmt.Sprintf("plot: invalid color map entry: cmap%d[%d] (palette has %d colors)",
		e.Cmap, e.Index, e.Len)
}

// Unwrap returns ErrInvalidColorIndex.
func (e *ColorIndexError) Unwrap() error { return ErrInvalidColorIndex }
