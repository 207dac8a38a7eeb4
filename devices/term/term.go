// Package term provides a plot device that draws replayed streams as
// character cells on a terminal screen using tcell.
//
// Segments are rasterized to cells with Bresenham's algorithm and drawn
// with a glyph chosen from their slope. Polygons are filled with a block
// glyph, text is written cell by cell honoring East Asian wide runes.
package term

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/gogpu/plot"
)

// newScreen creates the screen used by registry-created devices.
var newScreen = tcell.NewScreen

func init() {
	plot.Register("term", func() (plot.Device, error) {
		s, err := newScreen()
		if err != nil {
			return nil, err
		}
		if err := s.Init(); err != nil {
			return nil, err
		}
		return New(s), nil
	})
}

// DefaultExtent is the largest device coordinate on each axis.
const DefaultExtent = 32767

// FillRune is the glyph used for filled polygons and images.
const FillRune = '█'

// Device draws plot commands on a tcell.Screen.
type Device struct {
	screen tcell.Screen
	extent float64
	style  tcell.Style
	cmap1  []plot.Color
	pages  int
}

// Ensure Device implements the optional device interfaces.
var (
	_ plot.Device       = (*Device)(nil)
	_ plot.ImageDevice  = (*Device)(nil)
	_ plot.TextDevice   = (*Device)(nil)
	_ plot.EscapeDevice = (*Device)(nil)
)

// Option configures a Device.
type Option func(*Device)

// WithExtent sets the largest device coordinate. Default DefaultExtent.
func WithExtent(extent int) Option {
	return func(d *Device) {
		if extent > 0 {
			d.extent = float64(extent)
		}
	}
}

// New creates a device drawing on an initialized screen.
func New(screen tcell.Screen, opts ...Option) *Device {
	d := &Device{
		screen: screen,
		extent: DefaultExtent,
		style:  tcell.StyleDefault,
		cmap1:  plot.DefaultCmap1(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Close restores the terminal.
func (d *Device) Close() { d.screen.Fini() }

// Screen returns the screen drawn on.
func (d *Device) Screen() tcell.Screen { return d.screen }

// WaitKey blocks until a key is pressed or the screen is finalized.
func (d *Device) WaitKey() {
	for {
		switch d.screen.PollEvent().(type) {
		case nil, *tcell.EventKey:
			return
		}
	}
}

// Pages returns the number of pages shown so far.
func (d *Device) Pages() int { return d.pages }

// Init clears the screen.
func (d *Device) Init() { d.screen.Clear() }

// BeginPage clears the screen.
func (d *Device) BeginPage() { d.screen.Clear() }

// EndPage shows the page.
func (d *Device) EndPage() {
	d.pages++
	d.screen.Show()
}

// Line draws a segment.
func (d *Device) Line(x1, y1, x2, y2 int16) {
	d.segment(d.cell(x1, y1), d.cell(x2, y2))
}

// Polyline draws connected segments.
func (d *Device) Polyline(x, y []int16) {
	for i := 1; i < len(x); i++ {
		d.segment(d.cell(x[i-1], y[i-1]), d.cell(x[i], y[i]))
	}
	if len(x) == 1 {
		c := d.cell(x[0], y[0])
		d.put(c.x, c.y, '.', d.style)
	}
}

// Fill fills every cell whose center lies inside the polygon.
func (d *Device) Fill(x, y []int16) {
	if len(x) < 3 {
		return
	}
	pts := make([]point, len(x))
	for i := range x {
		pts[i] = d.cellf(float64(x[i]), float64(y[i]))
	}
	d.fillPolygon(pts, d.style)
}

// SetWidth is ignored; every segment is one cell wide.
func (d *Device) SetWidth(int32) {}

// SetColor sets the foreground color.
func (d *Device) SetColor(_, _ int, c plot.Color) {
	d.style = tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

// SetFillPattern is ignored; fills are solid.
func (d *Device) SetFillPattern(int) {}

// SetColorMap keeps cmap1 for images.
func (d *Device) SetColorMap(cmap int, colors []plot.Color) {
	if cmap == 1 {
		d.cmap1 = append(d.cmap1[:0], colors...)
	}
}

// Image fills each cell of the image in its cmap1 color.
func (d *Device) Image(im *plot.Image) {
	if len(d.cmap1) == 0 {
		return
	}
	ny := int(im.NY)
	span := float64(im.ZMax) - float64(im.ZMin)
	for i := 0; i < int(im.NX)-1; i++ {
		for j := 0; j < ny-1; j++ {
			z := im.Z[i*(ny-1)+j]
			if z < im.ZMin || z > im.ZMax {
				continue
			}
			frac := 0.0
			if span > 0 {
				frac = (float64(z) - float64(im.ZMin)) / span
			}
			c := d.cmap1[int(frac*float64(len(d.cmap1)-1)+0.5)]
			style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))

			var pts []point
			for _, k := range [4]int{i*ny + j, (i+1)*ny + j, (i+1)*ny + j + 1, i*ny + j + 1} {
				pts = append(pts, d.cellf(float64(im.X[k]), float64(im.Y[k])))
			}
			d.fillPolygon(pts, style)
		}
	}
}

// Text writes a string starting at its reference point. Justification
// shifts the start left by the justified share of the string width.
func (d *Device) Text(t *plot.Text) {
	d.text(t)
}

// UnicodeText draws the code points of r.Text when character-at-a-time
// output ends. Recorded steps keep only their counters, so a replayed
// stream draws nothing here; replayable text goes through Text.
func (d *Device) UnicodeText(r *plot.UnicodeTextEscape) {
	if r.Op == plot.EscEndText {
		d.text(&r.Text)
	}
}

// Escape handles the payload free escapes. Clear clears the screen.
func (d *Device) Escape(op plot.EscapeOp) {
	if op == plot.EscClear {
		d.screen.Clear()
	}
}

func (d *Device) text(t *plot.Text) {
	s := t.String()
	if s == "" {
		return
	}
	p := d.cellf(float64(t.X), float64(t.Y))
	x := int(math.Round(p.x - t.Just*float64(runewidth.StringWidth(s))))
	y := int(math.Round(p.y))
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		d.put(x, y, r, d.style)
		x += w
	}
}

type point struct{ x, y float64 }

type cellPos struct{ x, y int }

// cellf maps device coordinates to fractional cell coordinates, y down.
func (d *Device) cellf(x, y float64) point {
	w, h := d.screen.Size()
	return point{
		x: x * float64(w-1) / d.extent,
		y: float64(h-1) - y*float64(h-1)/d.extent,
	}
}

func (d *Device) cell(x, y int16) cellPos {
	p := d.cellf(float64(x), float64(y))
	return cellPos{int(math.Round(p.x)), int(math.Round(p.y))}
}

// segment draws a Bresenham line between two cells.
func (d *Device) segment(a, b cellPos) {
	glyph := slopeRune(b.x-a.x, b.y-a.y)
	dx := abs(b.x - a.x)
	dy := -abs(b.y - a.y)
	sx, sy := 1, 1
	if a.x > b.x {
		sx = -1
	}
	if a.y > b.y {
		sy = -1
	}
	err := dx + dy
	x, y := a.x, a.y
	for {
		d.put(x, y, glyph, d.style)
		if x == b.x && y == b.y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// slopeRune picks a glyph for a segment direction in cell space, y down.
func slopeRune(dx, dy int) rune {
	switch {
	case dx == 0 && dy == 0:
		return '.'
	case abs(dy)*2 <= abs(dx):
		return '-'
	case abs(dx)*2 <= abs(dy):
		return '|'
	case (dx > 0) == (dy > 0):
		return '\\'
	}
	return '/'
}

// fillPolygon fills the cells whose centers are inside pts by the even-odd
// rule.
func (d *Device) fillPolygon(pts []point, style tcell.Style) {
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		minY = math.Min(minY, p.y)
		maxY = math.Max(maxY, p.y)
	}
	w, _ := d.screen.Size()
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		cy := float64(y)
		for x := 0; x < w; x++ {
			if inside(pts, float64(x), cy) {
				d.put(x, y, FillRune, style)
			}
		}
	}
}

func inside(pts []point, x, y float64) bool {
	in := false
	j := len(pts) - 1
	for i := range pts {
		pi, pj := pts[i], pts[j]
		if (pi.y > y) != (pj.y > y) && x <= (pj.x-pi.x)*(y-pi.y)/(pj.y-pi.y)+pi.x {
			in = !in
		}
		j = i
	}
	return in
}

func (d *Device) put(x, y int, r rune, style tcell.Style) {
	w, h := d.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	d.screen.SetContent(x, y, r, nil, style)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
