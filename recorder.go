package plot

// RecorderDevice is a Device that records everything it is given into
// another stream. Replaying a stream into a RecorderDevice copies the plot,
// for example to hand it to a second output while the first keeps its own
// buffer.
//
// The first recording error is kept and reported by Err; later calls are
// ignored.
type RecorderDevice struct {
	target *Stream
	err    error
}

// NewRecorderDevice creates a device recording into target. The target
// must be recording (see Stream.Init).
func NewRecorderDevice(target *Stream) *RecorderDevice {
	return &RecorderDevice{target: target}
}

// Err returns the first recording error.
func (d *RecorderDevice) Err() error { return d.err }

func (d *RecorderDevice) do(fn func() error) {
	if d.err != nil {
		return
	}
	d.err = fn()
}

// Init records a device initialization.
func (d *RecorderDevice) Init() {
	d.do(func() error { return d.target.Record(&InitRecord{}) })
}

// BeginPage discards the target's buffer and records a page start. The
// state that follows in the source buffer is recorded as it arrives.
func (d *RecorderDevice) BeginPage() {
	d.do(func() error {
		t := d.target
		t.windows = t.windows[:0]
		if t.writing {
			t.buf.ResetTop()
			t.buf.ClearErr()
		}
		return t.Record(&BOPRecord{})
	})
}

// EndPage records a page end.
func (d *RecorderDevice) EndPage() {
	d.do(d.target.EndPage)
}

// Line records a segment.
func (d *RecorderDevice) Line(x1, y1, x2, y2 int16) {
	d.do(func() error { return d.target.Line(x1, y1, x2, y2) })
}

// Polyline records connected segments.
func (d *RecorderDevice) Polyline(x, y []int16) {
	d.do(func() error { return d.target.Polyline(x, y) })
}

// Fill records a polygon fill.
func (d *RecorderDevice) Fill(x, y []int16) {
	d.do(func() error { return d.target.Fill(x, y) })
}

// SetWidth records a pen width change.
func (d *RecorderDevice) SetWidth(width int32) {
	d.do(func() error { return d.target.SetWidth(width) })
}

// SetColor records a color change by palette index, or as a direct color
// for index RGBColor.
func (d *RecorderDevice) SetColor(cmap, index int, c Color) {
	d.do(func() error {
		switch {
		case cmap == 1:
			return d.target.SetColor1(index)
		case index == int(RGBColor):
			return d.target.SetColor0RGB(c)
		default:
			return d.target.SetColor0(index)
		}
	})
}

// SetFillPattern records a fill pattern change.
func (d *RecorderDevice) SetFillPattern(pattern int) {
	d.do(func() error { return d.target.SetFillPattern(pattern) })
}

// SetColorMap records a palette.
func (d *RecorderDevice) SetColorMap(cmap int, colors []Color) {
	d.do(func() error {
		if cmap == 1 {
			return d.target.SetCmap1(colors)
		}
		return d.target.SetCmap0(colors)
	})
}

// SetWindow records a plot window.
func (d *RecorderDevice) SetWindow(w Window) {
	d.do(func() error { return d.target.SetWindow(w) })
}

// Image records an image.
func (d *RecorderDevice) Image(im *Image) {
	d.do(func() error { return d.target.Image(im) })
}

// Text records a string.
func (d *RecorderDevice) Text(t *Text) {
	d.do(func() error { return d.target.Text(t) })
}

// UnicodeText records a character-at-a-time text step.
func (d *RecorderDevice) UnicodeText(r *UnicodeTextEscape) {
	d.do(func() error { return d.target.UnicodeText(r) })
}

// SetCharSize records a character size change.
func (d *RecorderDevice) SetCharSize(def, height float64) {
	d.do(func() error { return d.target.SetCharSize(def, height) })
}

// SetSymbolSize records a symbol size change.
func (d *RecorderDevice) SetSymbolSize(def, height float64) {
	d.do(func() error { return d.target.SetSymbolSize(def, height) })
}

// Escape records a payload-free escape.
func (d *RecorderDevice) Escape(op EscapeOp) {
	d.do(func() error { return d.target.Record(&SimpleEscape{Op: op}) })
}

var (
	_ Device       = (*RecorderDevice)(nil)
	_ WindowDevice = (*RecorderDevice)(nil)
	_ ImageDevice  = (*RecorderDevice)(nil)
	_ TextDevice   = (*RecorderDevice)(nil)
	_ SizeDevice   = (*RecorderDevice)(nil)
	_ EscapeDevice = (*RecorderDevice)(nil)
)
