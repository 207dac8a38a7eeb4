// Package trace provides a plot device that writes one line of text per
// device call. It is used to inspect what a stream replays.
package trace

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gogpu/plot"
)

func init() {
	plot.Register("trace", func() (plot.Device, error) {
		return New(os.Stdout), nil
	})
}

// Device writes every call it receives to a writer.
type Device struct {
	w     io.Writer
	calls int
	err   error
}

// Ensure Device implements the optional device interfaces.
var (
	_ plot.Device       = (*Device)(nil)
	_ plot.WindowDevice = (*Device)(nil)
	_ plot.ImageDevice  = (*Device)(nil)
	_ plot.TextDevice   = (*Device)(nil)
	_ plot.SizeDevice   = (*Device)(nil)
	_ plot.EscapeDevice = (*Device)(nil)
)

// New creates a device writing to w.
func New(w io.Writer) *Device {
	return &Device{w: w}
}

// Calls returns the number of calls written.
func (d *Device) Calls() int { return d.calls }

// Err returns the first write error. Nothing is written after it.
func (d *Device) Err() error { return d.err }

func (d *Device) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	d.calls++
	_, d.err = fmt.Fprintf(d.w, format+"\n", args...)
}

func (d *Device) Init()      { d.printf("init") }
func (d *Device) BeginPage() { d.printf("bop") }
func (d *Device) EndPage()   { d.printf("eop") }

func (d *Device) Line(x1, y1, x2, y2 int16) {
	d.printf("line %d %d %d %d", x1, y1, x2, y2)
}

func (d *Device) Polyline(x, y []int16) {
	d.printf("polyline n=%d %s", len(x), points(x, y))
}

func (d *Device) Fill(x, y []int16) {
	d.printf("fill n=%d %s", len(x), points(x, y))
}

func (d *Device) SetWidth(width int32) { d.printf("width %d", width) }

func (d *Device) SetColor(cmap, index int, c plot.Color) {
	idx := strconv.Itoa(index)
	if index == int(plot.RGBColor) {
		idx = "rgb"
	}
	d.printf("color cmap%d[%s] #%02x%02x%02x a=%g", cmap, idx, c.R, c.G, c.B, c.A)
}

func (d *Device) SetFillPattern(pattern int) { d.printf("pattern %d", pattern) }

func (d *Device) SetColorMap(cmap int, colors []plot.Color) {
	d.printf("cmap%d n=%d", cmap, len(colors))
}

func (d *Device) SetWindow(w plot.Window) {
	d.printf("window device=[%g %g %g %g] world=[%g %g %g %g]",
		w.DXMin, w.DXMax, w.DYMin, w.DYMax, w.WXMin, w.WXMax, w.WYMin, w.WYMax)
}

func (d *Device) Image(im *plot.Image) {
	d.printf("image %dx%d z=[%d %d]", im.NX, im.NY, im.ZMin, im.ZMax)
}

func (d *Device) Text(t *plot.Text) {
	d.printf("text %q at %d %d just=%g", t.String(), t.X, t.Y, t.Just)
}

func (d *Device) UnicodeText(r *plot.UnicodeTextEscape) {
	d.printf("utext %v chars=%d", r.Op, r.NChar)
}

func (d *Device) SetCharSize(def, height float64) {
	d.printf("char %g %g", def, height)
}

func (d *Device) SetSymbolSize(def, height float64) {
	d.printf("symbol %g %g", def, height)
}

func (d *Device) Escape(op plot.EscapeOp) { d.printf("escape %v", op) }

// points formats up to four points followed by an ellipsis.
func points(x, y []int16) string {
	const maxShown = 4
	b := make([]byte, 0, 64)
	for i := range x {
		if i == maxShown {
			b = append(b, " ..."...)
			break
		}
		if i > 0 {
			b = append(b, ' ')
		}
		b = fmt.Appendf(b, "(%d,%d)", x[i], y[i])
	}
	return string(b)
}
