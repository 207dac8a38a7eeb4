package plot

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// RGBColor is the Color0State index that marks a direct RGB color instead
// of a cmap0 entry.
const RGBColor int8 = -1

// errRecordShape is wrapped by errors returned for records whose arrays do
// not agree with their counts.
var errRecordShape = errors.New("plot: malformed record")

// Record is a single buffered command. The set of records is closed: each
// type knows its opcode, its sub-op and how to walk its payload.
//
// Records produced by replay may hold coordinate slices that alias the
// live buffer; see Device.
type Record interface {
	// Opcode returns the record's opcode.
	Opcode() Opcode

	subOp() uint8
	code(c *coder)
	check() error
}

// noSub is embedded by records without a sub-op.
type noSub struct{}

func (noSub) subOp() uint8 { return 0 }

// --------------------------------------------------------------------------
// Page and line records
// --------------------------------------------------------------------------

// InitRecord marks device initialization.
type InitRecord struct{ noSub }

func (*InitRecord) Opcode() Opcode { return OpInitialize }
func (*InitRecord) code(*coder)    {}
func (*InitRecord) check() error   { return nil }

// BOPRecord begins a page.
type BOPRecord struct{ noSub }

func (*BOPRecord) Opcode() Opcode { return OpBOP }
func (*BOPRecord) code(*coder)    {}
func (*BOPRecord) check() error   { return nil }

// EOPRecord ends a page.
type EOPRecord struct{ noSub }

func (*EOPRecord) Opcode() Opcode { return OpEOP }
func (*EOPRecord) code(*coder)    {}
func (*EOPRecord) check() error   { return nil }

// LineRecord is a line segment in device coordinates.
// It is stored as the x pair followed by the y pair.
type LineRecord struct {
	noSub
	X1, Y1, X2, Y2 int16
}

func (*LineRecord) Opcode() Opcode { return OpLine }
func (*LineRecord) check() error   { return nil }

func (r *LineRecord) code(c *coder) {
	xs := []int16{r.X1, r.X2}
	ys := []int16{r.Y1, r.Y2}
	c.int16View(&xs, 2)
	c.int16View(&ys, 2)
	if c.decode && len(xs) == 2 && len(ys) == 2 {
		r.X1, r.X2 = xs[0], xs[1]
		r.Y1, r.Y2 = ys[0], ys[1]
	}
}

// PolylineRecord is a sequence of connected points.
type PolylineRecord struct {
	noSub
	X, Y []int16
}

func (*PolylineRecord) Opcode() Opcode { return OpPolyline }
func (r *PolylineRecord) check() error { return checkPoints(r.X, r.Y) }

func (r *PolylineRecord) code(c *coder) {
	n := c.count(len(r.X))
	c.int16View(&r.X, n)
	c.int16View(&r.Y, n)
}

func checkPoints(x, y []int16) error {
	if len(x) != len(y) {
		return errors.Join(errRecordShape, errors.New("x and y lengths differ"))
	}
	return nil
}

// --------------------------------------------------------------------------
// State records
// --------------------------------------------------------------------------

// WidthState sets the pen width.
type WidthState struct {
	Width int32
}

func (*WidthState) Opcode() Opcode  { return OpChangeState }
func (*WidthState) subOp() uint8    { return uint8(StateWidth) }
func (*WidthState) check() error    { return nil }
func (r *WidthState) code(c *coder) { c.i32(&r.Width) }

// Color0State selects a cmap0 entry, or a direct color when Index is
// RGBColor.
type Color0State struct {
	Index   int8
	R, G, B uint8
}

func (*Color0State) Opcode() Opcode { return OpChangeState }
func (*Color0State) subOp() uint8   { return uint8(StateColor0) }
func (*Color0State) check() error   { return nil }

func (r *Color0State) code(c *coder) {
	c.i8(&r.Index)
	if r.Index == RGBColor {
		c.u8(&r.R)
		c.u8(&r.G)
		c.u8(&r.B)
	}
}

// Color1State selects a cmap1 entry.
type Color1State struct {
	Index uint8
}

func (*Color1State) Opcode() Opcode  { return OpChangeState }
func (*Color1State) subOp() uint8    { return uint8(StateColor1) }
func (*Color1State) check() error    { return nil }
func (r *Color1State) code(c *coder) { c.u8(&r.Index) }

// FillState selects the area fill pattern.
type FillState struct {
	Pattern uint8
}

func (*FillState) Opcode() Opcode  { return OpChangeState }
func (*FillState) subOp() uint8    { return uint8(StateFill) }
func (*FillState) check() error    { return nil }
func (r *FillState) code(c *coder) { c.u8(&r.Pattern) }

// CmapState carries a whole palette. Cmap is 0 or 1.
type CmapState struct {
	Cmap   int
	Colors []Color
}

func (*CmapState) Opcode() Opcode { return OpChangeState }

func (r *CmapState) subOp() uint8 {
	if r.Cmap == 1 {
		return uint8(StateCmap1)
	}
	return uint8(StateCmap0)
}

func (r *CmapState) check() error {
	if r.Cmap != 0 && r.Cmap != 1 {
		return errors.Join(errRecordShape, errors.New("cmap must be 0 or 1"))
	}
	return nil
}

func (r *CmapState) code(c *coder) {
	n := c.count(len(r.Colors))
	c.colors(&r.Colors, n)
}

// CharState sets the default and scaled character height.
type CharState struct {
	Default, Height float64
}

func (*CharState) Opcode() Opcode { return OpChangeState }
func (*CharState) subOp() uint8   { return uint8(StateChar) }
func (*CharState) check() error   { return nil }

func (r *CharState) code(c *coder) {
	c.f64(&r.Default)
	c.f64(&r.Height)
}

// SymbolState sets the default and scaled symbol height.
type SymbolState struct {
	Default, Height float64
}

func (*SymbolState) Opcode() Opcode { return OpChangeState }
func (*SymbolState) subOp() uint8   { return uint8(StateSymbol) }
func (*SymbolState) check() error   { return nil }

func (r *SymbolState) code(c *coder) {
	c.f64(&r.Default)
	c.f64(&r.Height)
}

// --------------------------------------------------------------------------
// Escape records
// --------------------------------------------------------------------------

// FillEscape fills a polygon.
type FillEscape struct {
	X, Y []int16
}

func (*FillEscape) Opcode() Opcode { return OpEscape }
func (*FillEscape) subOp() uint8   { return uint8(EscFill) }
func (r *FillEscape) check() error { return checkPoints(r.X, r.Y) }

func (r *FillEscape) code(c *coder) {
	n := c.count(len(r.X))
	c.int16View(&r.X, n)
	c.int16View(&r.Y, n)
}

// Window maps a rectangle of relative device coordinates to world
// coordinates.
type Window struct {
	DXMin, DXMax, DYMin, DYMax float64
	WXMin, WXMax, WYMin, WYMax float64
}

// WindowEscape records a plot window.
type WindowEscape struct {
	Window Window
}

func (*WindowEscape) Opcode() Opcode { return OpEscape }
func (*WindowEscape) subOp() uint8   { return uint8(EscWindow) }
func (*WindowEscape) check() error   { return nil }

func (r *WindowEscape) code(c *coder) {
	w := &r.Window
	c.f64(&w.DXMin)
	c.f64(&w.DXMax)
	c.f64(&w.DYMin)
	c.f64(&w.DYMax)
	c.f64(&w.WXMin)
	c.f64(&w.WXMax)
	c.f64(&w.WYMin)
	c.f64(&w.WYMax)
}

// Image is a grid of NX by NY device coordinates with one z value per
// cell. X and Y hold NX*NY corners, Z holds (NX-1)*(NY-1) cells.
type Image struct {
	NX, NY     int32
	XMin, YMin float64
	DX, DY     float64
	ZMin, ZMax uint16
	X, Y       []int16
	Z          []uint16
}

// Points returns the number of corners.
func (im *Image) Points() int { return int(im.NX) * int(im.NY) }

// Cells returns the number of z cells.
func (im *Image) Cells() int { return int(im.NX-1) * int(im.NY-1) }

// ImageEscape records an image. Its arrays are copied on replay.
type ImageEscape struct {
	Image Image
}

func (*ImageEscape) Opcode() Opcode { return OpEscape }
func (*ImageEscape) subOp() uint8   { return uint8(EscImage) }

func (r *ImageEscape) check() error {
	im := &r.Image
	if im.NX < 1 || im.NY < 1 {
		return errors.Join(errRecordShape, errors.New("image needs at least one point per axis"))
	}
	if len(im.X) != im.Points() || len(im.Y) != im.Points() || len(im.Z) != im.Cells() {
		return errors.Join(errRecordShape, errors.New("image arrays do not match dimensions"))
	}
	return nil
}

func (r *ImageEscape) code(c *coder) {
	im := &r.Image
	c.i32(&im.NX)
	c.i32(&im.NY)
	c.f64(&im.XMin)
	c.f64(&im.YMin)
	c.f64(&im.DX)
	c.f64(&im.DY)
	c.u16(&im.ZMin)
	c.u16(&im.ZMax)
	if c.decode && (im.NX < 1 || im.NY < 1) {
		c.buf.View(-1)
		return
	}
	c.int16s(&im.X, im.Points())
	c.int16s(&im.Y, im.Points())
	c.u16s(&im.Z, im.Cells())
}

// ClipBox is a clip rectangle in device coordinates.
type ClipBox struct {
	XMin, XMax, YMin, YMax float64
}

// Text is a string handed to a device that renders its own text.
type Text struct {
	FCI      uint32  // font characterization integer
	Height   float64 // character height
	Rotation float64 // device orientation rotation
	Clip     ClipBox
	Base     int32
	Just     float64 // justification, 0 left to 1 right
	Xform    [4]float64
	X, Y     int32 // reference point in device coordinates
	RefX     int32
	RefY     int32
	Unicode  []uint32 // code points; values with the high bit set are FCI changes
}

// fciMarker flags font change entries in a unicode array.
const fciMarker = 0x80000000

// String returns the printable characters of the text in NFC form.
func (t *Text) String() string {
	var sb strings.Builder
	for _, cp := range t.Unicode {
		if cp&fciMarker != 0 {
			continue
		}
		sb.WriteRune(rune(cp))
	}
	return norm.NFC.String(sb.String())
}

// codeHeader walks the fields shared by every text record.
func (t *Text) codeHeader(c *coder) {
	c.u32(&t.FCI)
	c.f64(&t.Height)
	c.f64(&t.Rotation)
	c.f64(&t.Clip.XMin)
	c.f64(&t.Clip.XMax)
	c.f64(&t.Clip.YMin)
	c.f64(&t.Clip.YMax)
	c.i32(&t.Base)
	c.f64(&t.Just)
	c.f64s(t.Xform[:])
	c.i32(&t.X)
	c.i32(&t.Y)
	c.i32(&t.RefX)
	c.i32(&t.RefY)
}

// TextEscape records a whole string for devices with their own text
// rendering. The code points are copied on replay.
type TextEscape struct {
	Text Text
}

func (*TextEscape) Opcode() Opcode { return OpEscape }
func (*TextEscape) subOp() uint8   { return uint8(EscHasText) }
func (*TextEscape) check() error   { return nil }

func (r *TextEscape) code(c *coder) {
	r.Text.codeHeader(c)
	n := c.count(len(r.Text.Unicode))
	c.u32s(&r.Text.Unicode, n)
}

// UnicodeTextEscape is one step of the character-at-a-time text path.
// Only counters are recorded, not the characters themselves.
type UnicodeTextEscape struct {
	Op         EscapeOp
	Text       Text
	NFCI       uint32
	NChar      uint32
	NCtrlChar  int32
	UnicodeLen int32
}

func (*UnicodeTextEscape) Opcode() Opcode { return OpEscape }
func (r *UnicodeTextEscape) subOp() uint8 { return uint8(r.Op) }

func (r *UnicodeTextEscape) check() error {
	switch r.Op {
	case EscBeginText, EscTextChar, EscControlChar, EscEndText:
		return nil
	}
	return errors.Join(errRecordShape, errors.New("not a unicode text op: "+r.Op.String()))
}

func (r *UnicodeTextEscape) code(c *coder) {
	r.Text.codeHeader(c)
	c.u32(&r.NFCI)
	c.u32(&r.NChar)
	c.i32(&r.NCtrlChar)
	c.i32(&r.UnicodeLen)
}

// SimpleEscape is an escape without payload: Clear, StartRasterize or
// EndRasterize.
type SimpleEscape struct {
	Op EscapeOp
}

func (*SimpleEscape) Opcode() Opcode { return OpEscape }
func (r *SimpleEscape) subOp() uint8 { return uint8(r.Op) }
func (*SimpleEscape) code(*coder)    {}

func (r *SimpleEscape) check() error {
	switch r.Op {
	case EscClear, EscStartRasterize, EscEndRasterize:
		return nil
	}
	return errors.Join(errRecordShape, errors.New("escape op has a payload: "+r.Op.String()))
}
