package plot

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/gogpu/plot/internal/buffer"
)

// Stream is a plot context. It owns a command buffer and the graphics
// state that recording reads and replay rewrites.
//
// A Stream starts with recording disabled; call Init to enable it. Drawing
// methods always update the stream state and append a record while
// recording is enabled.
//
// Stream is not safe for concurrent use.
type Stream struct {
	buf     *buffer.Buffer
	writing bool
	reading bool
	logger  *slog.Logger

	width   int32
	curcmap int // colormap the current color came from
	icol0   int // cmap0 index, or -1 for a direct color
	icol1   int
	color   Color
	pattern int
	cmap0   []Color
	cmap1   []Color

	chrdef, chrht float64
	symdef, symht float64

	// Text state, updated by Text and UnicodeText.
	diorot float64
	clip   ClipBox
	fci    uint32

	windows []Window
}

// NewStream creates a stream with an unallocated buffer.
//
// Example:
//
//	s := plot.NewStream()
//	s.Init()
//	s.BeginPage()
//	s.Line(0, 0, 100, 100)
//	s.EndPage()
//	err := s.Replay(dev)
func NewStream(opts ...Option) *Stream {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	logger := Logger()
	bopts := []buffer.Option{buffer.WithLogger(logger), buffer.WithMaxSize(o.maxSize)}
	if o.grow > 0 {
		bopts = append(bopts, buffer.WithGrow(o.grow))
	}

	s := &Stream{
		buf:    buffer.New(bopts...),
		logger: logger,
		width:  1,
		cmap0:  o.cmap0,
		cmap1:  o.cmap1,
		chrdef: 1,
		chrht:  1,
		symdef: 1,
		symht:  1,
	}
	if len(s.cmap0) > 1 {
		s.icol0 = 1
	}
	if len(s.cmap0) > s.icol0 {
		s.color = s.cmap0[s.icol0]
	}
	return s
}

// Init allocates the buffer, or discards its content if it already has
// storage, and enables recording.
func (s *Stream) Init() {
	s.buf.Init()
	s.reading = false
	s.writing = true
}

// SetWriting turns recording on or off. It does not touch the buffer.
func (s *Stream) SetWriting(on bool) { s.writing = on }

// Writing reports whether drawing calls are being recorded.
func (s *Stream) Writing() bool { return s.writing }

// Reading reports whether the stream is being replayed.
func (s *Stream) Reading() bool { return s.reading }

// Record appends r to the buffer. It does nothing while recording is
// disabled, which includes the whole of a replay.
//
// If the buffer cannot grow, the partial record is rolled back and the
// error, wrapping ErrBufferFull, stays sticky until the next Init or BeginPage.
func (s *Stream) Record(r Record) error {
	if !s.writing {
		return nil
	}
	if err := s.Err(); err != nil {
		return err
	}
	if err := r.check(); err != nil {
		return err
	}
	mark := s.buf.Top()
	encodeRecord(s.buf, r)
	if err := s.Err(); err != nil {
		s.buf.Truncate(mark)
		return err
	}
	return nil
}

// Err returns the sticky recording error, if any.
func (s *Stream) Err() error {
	err := s.buf.Err()
	if err == nil {
		return nil
	}
	if errors.Is(err, buffer.ErrBufferFull) {
		return fmt.Errorf("%w: %w", ErrBufferFull, err)
	}
	return err
}

// Top returns the number of buffered bytes.
func (s *Stream) Top() int { return s.buf.Top() }

// Cap returns the allocated buffer size in bytes.
func (s *Stream) Cap() int { return s.buf.Cap() }

// Grows returns how many times the buffer has been reallocated.
func (s *Stream) Grows() int { return s.buf.Grows() }

// --------------------------------------------------------------------------
// Pages
// --------------------------------------------------------------------------

// BeginPage starts a new page. Everything recorded before is discarded,
// then the palettes, the current color and the pen width are recorded so
// that the page replays correctly on its own.
func (s *Stream) BeginPage() error {
	s.windows = s.windows[:0]
	if !s.writing {
		return nil
	}
	s.buf.ResetTop()
	s.buf.ClearErr()
	records := []Record{
		&BOPRecord{},
		&CmapState{Cmap: 0, Colors: s.cmap0},
		&CmapState{Cmap: 1, Colors: s.cmap1},
		s.color0Record(),
		&WidthState{Width: s.width},
	}
	for _, r := range records {
		if err := s.Record(r); err != nil {
			return err
		}
	}
	return nil
}

// EndPage ends the current page.
func (s *Stream) EndPage() error {
	return s.Record(&EOPRecord{})
}

// --------------------------------------------------------------------------
// Drawing
// --------------------------------------------------------------------------

// Line records a line segment in device coordinates.
func (s *Stream) Line(x1, y1, x2, y2 int16) error {
	return s.Record(&LineRecord{X1: x1, Y1: y1, X2: x2, Y2: y2})
}

// Polyline records connected line segments. x and y must have the same
// length.
func (s *Stream) Polyline(x, y []int16) error {
	return s.Record(&PolylineRecord{X: x, Y: y})
}

// Fill records a filled polygon.
func (s *Stream) Fill(x, y []int16) error {
	return s.Record(&FillEscape{X: x, Y: y})
}

// SetWindow adds a plot window to the current page.
func (s *Stream) SetWindow(w Window) error {
	s.windows = append(s.windows, w)
	return s.Record(&WindowEscape{Window: w})
}

// Image records an image. The arrays are copied into the buffer.
func (s *Stream) Image(im *Image) error {
	return s.Record(&ImageEscape{Image: *im})
}

// Text records a whole string for devices that render text themselves.
func (s *Stream) Text(t *Text) error {
	s.setText(t)
	return s.Record(&TextEscape{Text: *t})
}

// UnicodeText records one step of character-at-a-time text output.
func (s *Stream) UnicodeText(r *UnicodeTextEscape) error {
	s.setText(&r.Text)
	return s.Record(r)
}

// Clear records a request to clear the current subpage.
func (s *Stream) Clear() error {
	return s.Record(&SimpleEscape{Op: EscClear})
}

// StartRasterize records the start of a section that devices may
// rasterize.
func (s *Stream) StartRasterize() error {
	return s.Record(&SimpleEscape{Op: EscStartRasterize})
}

// EndRasterize records the end of a rasterized section.
func (s *Stream) EndRasterize() error {
	return s.Record(&SimpleEscape{Op: EscEndRasterize})
}

func (s *Stream) setText(t *Text) {
	s.chrht = t.Height
	s.diorot = t.Rotation
	s.clip = t.Clip
	s.fci = t.FCI
}

// --------------------------------------------------------------------------
// State
// --------------------------------------------------------------------------

// SetWidth sets the pen width.
func (s *Stream) SetWidth(w int32) error {
	s.width = w
	return s.Record(&WidthState{Width: w})
}

// SetColor0 selects a cmap0 entry as the current color.
func (s *Stream) SetColor0(i int) error {
	if i < 0 || i >= len(s.cmap0) || i > math.MaxInt8 {
		return &ColorIndexError{Cmap: 0, Index: i, Len: len(s.cmap0)}
	}
	s.icol0 = i
	s.curcmap = 0
	s.color = s.cmap0[i]
	return s.Record(s.color0Record())
}

// SetColor0RGB sets a direct current color. Only the RGB components are
// recorded; the color replays as opaque.
func (s *Stream) SetColor0RGB(c Color) error {
	s.icol0 = int(RGBColor)
	s.curcmap = 0
	s.color = c
	return s.Record(s.color0Record())
}

// SetColor1 selects a cmap1 entry as the current color.
func (s *Stream) SetColor1(i int) error {
	if i < 0 || i >= len(s.cmap1) || i > math.MaxUint8 {
		return &ColorIndexError{Cmap: 1, Index: i, Len: len(s.cmap1)}
	}
	s.icol1 = i
	s.curcmap = 1
	s.color = s.cmap1[i]
	return s.Record(&Color1State{Index: uint8(i)})
}

// SetFillPattern selects the area fill pattern. Zero is a solid fill.
func (s *Stream) SetFillPattern(p int) error {
	if p < 0 || p > math.MaxUint8 {
		return fmt.Errorf("plot: fill pattern %d out of range", p)
	}
	s.pattern = p
	return s.Record(&FillState{Pattern: uint8(p)})
}

// SetCmap0 replaces the cmap0 palette. The slice is copied.
func (s *Stream) SetCmap0(colors []Color) error {
	s.cmap0 = append([]Color(nil), colors...)
	return s.Record(&CmapState{Cmap: 0, Colors: s.cmap0})
}

// SetCmap1 replaces the cmap1 palette. The slice is copied.
func (s *Stream) SetCmap1(colors []Color) error {
	s.cmap1 = append([]Color(nil), colors...)
	return s.Record(&CmapState{Cmap: 1, Colors: s.cmap1})
}

// SetCharSize sets the default and the scaled character height in mm.
func (s *Stream) SetCharSize(def, height float64) error {
	s.chrdef, s.chrht = def, height
	return s.Record(&CharState{Default: def, Height: height})
}

// SetSymbolSize sets the default and the scaled symbol height in mm.
func (s *Stream) SetSymbolSize(def, height float64) error {
	s.symdef, s.symht = def, height
	return s.Record(&SymbolState{Default: def, Height: height})
}

func (s *Stream) color0Record() *Color0State {
	if s.icol0 == int(RGBColor) {
		return &Color0State{Index: RGBColor, R: s.color.R, G: s.color.G, B: s.color.B}
	}
	return &Color0State{Index: int8(s.icol0)}
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// Width returns the pen width.
func (s *Stream) Width() int32 { return s.width }

// Color returns the current color.
func (s *Stream) Color() Color { return s.color }

// ColorIndex returns the colormap the current color was selected from and
// its index there. The index is RGBColor for a direct cmap0 color.
func (s *Stream) ColorIndex() (cmap, index int) {
	if s.curcmap == 1 {
		return 1, s.icol1
	}
	return 0, s.icol0
}

// FillPattern returns the area fill pattern.
func (s *Stream) FillPattern() int { return s.pattern }

// Cmap0 returns a copy of the cmap0 palette.
func (s *Stream) Cmap0() []Color { return append([]Color(nil), s.cmap0...) }

// Cmap1 returns a copy of the cmap1 palette.
func (s *Stream) Cmap1() []Color { return append([]Color(nil), s.cmap1...) }

// CharSize returns the default and scaled character height.
func (s *Stream) CharSize() (def, height float64) { return s.chrdef, s.chrht }

// SymbolSize returns the default and scaled symbol height.
func (s *Stream) SymbolSize() (def, height float64) { return s.symdef, s.symht }

// Rotation returns the device orientation rotation of the last text.
func (s *Stream) Rotation() float64 { return s.diorot }

// Clip returns the clip box of the last text.
func (s *Stream) Clip() ClipBox { return s.clip }

// FCI returns the font characterization integer of the last text.
func (s *Stream) FCI() uint32 { return s.fci }

// Windows returns a copy of the plot windows defined on the current page.
func (s *Stream) Windows() []Window { return append([]Window(nil), s.windows...) }
