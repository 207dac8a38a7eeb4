package plot

import "log/slog"

// SavedState is a copy of a stream's buffer taken by SaveState. It can be
// installed back with RestoreState or SwitchState, which hand its bytes to
// the stream and leave the SavedState invalid.
type SavedState struct {
	valid   bool
	data    []byte
	top     int
	readPos int
}

// NewSavedState wraps recorded bytes, for example read from an archive,
// as a valid saved state. The first top bytes of data are the buffer
// content; ownership of data passes to the state.
func NewSavedState(data []byte, top int) *SavedState {
	if top < 0 || top > len(data) {
		top = len(data)
	}
	return &SavedState{valid: true, data: data, top: top}
}

// Valid reports whether the state holds a complete copy that can be
// restored.
func (st *SavedState) Valid() bool { return st != nil && st.valid }

// Size returns the number of bytes allocated for the state.
func (st *SavedState) Size() int {
	if st == nil {
		return 0
	}
	return cap(st.data)
}

// Top returns the number of recorded bytes.
func (st *SavedState) Top() int { return st.top }

// ReadPos returns the saved read cursor.
func (st *SavedState) ReadPos() int { return st.readPos }

// Bytes returns the recorded bytes. The slice aliases the state.
func (st *SavedState) Bytes() []byte { return st.data[:st.top] }

// Clone returns an independent copy of the state.
func (st *SavedState) Clone() *SavedState {
	data := make([]byte, st.top)
	copy(data, st.data[:st.top])
	return &SavedState{valid: st.valid, data: data, top: st.top, readPos: st.readPos}
}

// SaveState copies the recorded part of the buffer into a saved state.
// If prev is not nil its storage is reused when it is large enough, and
// prev is returned. The copy starts with its read cursor at zero.
//
// SaveState fails with ErrNotWriting if the stream is not recording.
func (s *Stream) SaveState(prev *SavedState) (*SavedState, error) {
	if !s.writing {
		s.logger.Warn("plot: save state refused, stream is not recording")
		return nil, ErrNotWriting
	}

	// Nothing may be recorded or replayed into the buffer during the copy.
	s.writing, s.reading = false, true
	defer func() { s.writing, s.reading = true, false }()

	st := prev
	if st == nil {
		st = &SavedState{}
	}
	st.valid = false

	top := s.buf.Top()
	if cap(st.data) < top {
		st.data = make([]byte, top)
	}
	st.data = st.data[:top]
	copy(st.data, s.buf.Bytes())
	st.top = top
	st.readPos = 0

	st.valid = true
	return st, nil
}

// RestoreState installs st as the stream's buffer without copying it.
// st is consumed: it no longer owns its bytes and becomes invalid.
func (s *Stream) RestoreState(st *SavedState) error {
	if !st.Valid() {
		s.logger.Warn("plot: restore of an invalid saved state")
		return ErrInvalidState
	}
	s.buf.Attach(st.data[:cap(st.data)], st.top, st.readPos)
	*st = SavedState{}
	return nil
}

// SwitchState installs st as the stream's buffer and returns the buffer
// it replaces as a new saved state. st is consumed as by RestoreState.
//
// It returns (nil, ErrInvalidState) and leaves the stream unchanged if st
// is nil or invalid.
func (s *Stream) SwitchState(st *SavedState) (*SavedState, error) {
	if !st.Valid() {
		s.logger.Warn("plot: switch to an invalid saved state")
		return nil, ErrInvalidState
	}
	data, top, readPos := s.buf.Detach()
	prev := &SavedState{valid: true, data: data, top: top, readPos: readPos}
	s.buf.Attach(st.data[:cap(st.data)], st.top, st.readPos)
	*st = SavedState{}
	s.logger.Debug("plot: switched saved state",
		slog.Int("saved", prev.top), slog.Int("installed", s.buf.Top()))
	return prev, nil
}
