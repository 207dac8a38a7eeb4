package plot

import (
	"fmt"
	"strings"
)

// mockDevice logs every call it receives as a short line of text and
// implements all optional device interfaces.
type mockDevice struct {
	calls []string

	// onLine, if set, runs inside Line.
	onLine func()
}

func (d *mockDevice) log(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *mockDevice) Init()                      { d.log("init") }
func (d *mockDevice) BeginPage()                 { d.log("bop") }
func (d *mockDevice) EndPage()                   { d.log("eop") }
func (d *mockDevice) Polyline(x, y []int16)      { d.log("polyline %v %v", x, y) }
func (d *mockDevice) Fill(x, y []int16)          { d.log("fill %v %v", x, y) }
func (d *mockDevice) SetWidth(width int32)       { d.log("width %d", width) }
func (d *mockDevice) SetFillPattern(p int)       { d.log("pattern %d", p) }
func (d *mockDevice) SetWindow(w Window)         { d.log("window %v", w) }
func (d *mockDevice) Text(t *Text)               { d.log("text %q", t.String()) }
func (d *mockDevice) Escape(op EscapeOp)         { d.log("escape %s", op) }
func (d *mockDevice) SetCharSize(a, b float64)   { d.log("char %g %g", a, b) }
func (d *mockDevice) SetSymbolSize(a, b float64) { d.log("symbol %g %g", a, b) }

func (d *mockDevice) Line(x1, y1, x2, y2 int16) {
	d.log("line %d %d %d %d", x1, y1, x2, y2)
	if d.onLine != nil {
		d.onLine()
	}
}

func (d *mockDevice) SetColor(cmap, index int, c Color) {
	d.log("color %d %d %d,%d,%d", cmap, index, c.R, c.G, c.B)
}

func (d *mockDevice) SetColorMap(cmap int, colors []Color) {
	d.log("cmap %d %d", cmap, len(colors))
}

func (d *mockDevice) Image(im *Image) {
	d.log("image %dx%d", im.NX, im.NY)
}

func (d *mockDevice) UnicodeText(r *UnicodeTextEscape) {
	d.log("utext %s", r.Op)
}

func (d *mockDevice) String() string { return strings.Join(d.calls, "\n") }

// coreDevice exposes only the Device methods of the wrapped device.
type coreDevice struct {
	Device
}

var (
	_ Device       = (*mockDevice)(nil)
	_ WindowDevice = (*mockDevice)(nil)
	_ ImageDevice  = (*mockDevice)(nil)
	_ TextDevice   = (*mockDevice)(nil)
	_ SizeDevice   = (*mockDevice)(nil)
	_ EscapeDevice = (*mockDevice)(nil)
)
