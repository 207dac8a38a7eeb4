// Package raster provides a plot device that renders replayed streams to
// pixel images using gg.Context.
//
// Device coordinates run from 0 to the configured extent on both axes with
// y pointing up, as recorded by plot streams. They are scaled to the image
// size on replay.
//
// # Supported Features
//
//   - Lines, polylines and solid polygon fills
//   - Pen width and cmap0/cmap1 colors
//   - Images, with z values mapped through cmap1
//   - Text, drawn with the Go Regular font
//   - PNG, BMP and TIFF output
//
// # Limitations
//
// Fill patterns other than solid are drawn solid. Text rotation and shear
// are ignored.
//
// # Example
//
//	// Import to register the device
//	import _ "github.com/gogpu/plot/devices/raster"
//
//	// Create via registry
//	dev, _ := plot.NewDevice("raster")
//
//	// Or create directly
//	dev, _ := raster.New(raster.WithSize(800, 600))
//
//	// Replay a stream
//	stream.Replay(dev)
//
//	// Get output
//	dev.SaveFile("plot.png")
package raster

import (
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/bmp"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/tiff"

	"github.com/gogpu/plot"
)

func init() {
	plot.Register("raster", func() (plot.Device, error) {
		return New()
	})
}

// DefaultExtent is the largest device coordinate on each axis.
const DefaultExtent = 32767

// Format is an image output format.
type Format int

const (
	PNG Format = iota
	BMP
	TIFF
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat returns the format named by s, which may be a file name.
func ParseFormat(s string) (Format, error) {
	if ext := filepath.Ext(s); ext != "" {
		s = ext[1:]
	}
	switch strings.ToLower(s) {
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return 0, fmt.Errorf("raster: unknown image format %q", s)
}

// PageFunc is called with every finished page. The image is only valid
// until the next page begins.
type PageFunc func(page int, img image.Image) error

// Device renders plot commands into a gg.Context.
type Device struct {
	ctx        *gg.Context
	width      int
	height     int
	extent     float64
	dpmm       float64
	background plot.Color

	source *text.FontSource
	faces  map[int]text.Face

	cmap0   []plot.Color
	cmap1   []plot.Color
	color   plot.Color
	pattern int
	chrht   float64

	page   int
	onPage PageFunc
	err    error
}

// Ensure Device implements the optional device interfaces.
var (
	_ plot.Device       = (*Device)(nil)
	_ plot.ImageDevice  = (*Device)(nil)
	_ plot.TextDevice   = (*Device)(nil)
	_ plot.SizeDevice   = (*Device)(nil)
	_ plot.EscapeDevice = (*Device)(nil)
)

// Option configures a Device.
type Option func(*Device)

// WithSize sets the image size in pixels. Default 800x600.
func WithSize(width, height int) Option {
	return func(d *Device) {
		if width > 0 && height > 0 {
			d.width, d.height = width, height
		}
	}
}

// WithExtent sets the largest device coordinate. Default DefaultExtent.
func WithExtent(extent int) Option {
	return func(d *Device) {
		if extent > 0 {
			d.extent = float64(extent)
		}
	}
}

// WithResolution sets the pixels per millimetre used to size text.
// Default 4.
func WithResolution(dpmm float64) Option {
	return func(d *Device) {
		if dpmm > 0 {
			d.dpmm = dpmm
		}
	}
}

// WithBackground sets the color pages are cleared to. Default white.
func WithBackground(c plot.Color) Option {
	return func(d *Device) {
		d.background = c
	}
}

// WithPageFunc sets a callback run at the end of every page.
func WithPageFunc(fn PageFunc) Option {
	return func(d *Device) {
		d.onPage = fn
	}
}

// New creates a raster device.
func New(opts ...Option) (*Device, error) {
	d := &Device{
		width:      800,
		height:     600,
		extent:     DefaultExtent,
		dpmm:       4,
		background: plot.RGB(255, 255, 255),
		faces:      make(map[int]text.Face),
		cmap0:      plot.DefaultCmap0(),
		cmap1:      plot.DefaultCmap1(),
		color:      plot.RGB(0, 0, 0),
		chrht:      4,
	}
	for _, opt := range opts {
		opt(d)
	}
	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("raster: load font: %w", err)
	}
	d.source = source
	d.ctx = gg.NewContext(d.width, d.height)
	d.clear()
	return d, nil
}

// Close releases the rendering context.
func (d *Device) Close() error {
	return d.ctx.Close()
}

// Err returns the first drawing error.
func (d *Device) Err() error { return d.err }

// Width returns the image width.
func (d *Device) Width() int { return d.width }

// Height returns the image height.
func (d *Device) Height() int { return d.height }

// Pages returns the number of pages finished so far.
func (d *Device) Pages() int { return d.page }

// Picture returns the current page.
func (d *Device) Picture() image.Image { return d.ctx.Image() }

// Encode writes the current page in format f.
func (d *Device) Encode(w io.Writer, f Format) error {
	switch f {
	case PNG:
		return d.ctx.EncodePNG(w)
	case BMP:
		return bmp.Encode(w, d.ctx.Image())
	case TIFF:
		return tiff.Encode(w, d.ctx.Image(), &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("raster: unsupported format %v", f)
}

// SaveFile writes the current page to path. The format follows the file
// extension.
func (d *Device) SaveFile(path string) (err error) {
	f, err := ParseFormat(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return d.Encode(out, f)
}

// Init does nothing; the context is ready when the device is created.
func (d *Device) Init() {}

// BeginPage clears the image.
func (d *Device) BeginPage() {
	d.clear()
}

// EndPage counts the page and hands it to the page callback.
func (d *Device) EndPage() {
	d.page++
	plot.Logger().Debug("raster: page done", "page", d.page)
	if d.onPage != nil && d.err == nil {
		d.err = d.onPage(d.page, d.ctx.Image())
	}
}

// Line strokes a segment.
func (d *Device) Line(x1, y1, x2, y2 int16) {
	d.ctx.ClearPath()
	d.ctx.MoveTo(d.px(x1), d.py(y1))
	d.ctx.LineTo(d.px(x2), d.py(y2))
	d.stroke()
}

// Polyline strokes connected segments.
func (d *Device) Polyline(x, y []int16) {
	if len(x) == 0 {
		return
	}
	d.ctx.ClearPath()
	d.path(x, y)
	d.stroke()
}

// Fill fills a polygon.
func (d *Device) Fill(x, y []int16) {
	if len(x) < 3 {
		return
	}
	d.ctx.ClearPath()
	d.path(x, y)
	d.ctx.ClosePath()
	d.fill()
}

// SetWidth sets the pen width in pixels. Widths below one draw one pixel
// wide.
func (d *Device) SetWidth(width int32) {
	d.ctx.SetLineWidth(math.Max(1, float64(width)))
}

// SetColor sets the pen and fill color.
func (d *Device) SetColor(_, _ int, c plot.Color) {
	d.color = c
	d.ctx.SetRGBA(c.Float())
}

// SetFillPattern records the pattern; every pattern is filled solid.
func (d *Device) SetFillPattern(pattern int) {
	d.pattern = pattern
}

// SetColorMap replaces a palette. The cmap1 palette colors images.
func (d *Device) SetColorMap(cmap int, colors []plot.Color) {
	if cmap == 0 {
		d.cmap0 = append(d.cmap0[:0], colors...)
		return
	}
	d.cmap1 = append(d.cmap1[:0], colors...)
}

// SetCharSize sets the text height in millimetres.
func (d *Device) SetCharSize(_, height float64) {
	if height > 0 {
		d.chrht = height
	}
}

// SetSymbolSize is ignored; symbols arrive as strokes.
func (d *Device) SetSymbolSize(_, _ float64) {}

// Image draws every cell whose z value lies in [ZMin, ZMax] as a polygon
// colored from cmap1.
func (d *Device) Image(im *plot.Image) {
	if len(d.cmap1) == 0 {
		return
	}
	saved := d.color
	defer d.SetColor(1, 0, saved)

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
			idx := int(frac*float64(len(d.cmap1)-1) + 0.5)
			d.ctx.SetRGBA(d.cmap1[idx].Float())

			corners := [4]int{i*ny + j, (i+1)*ny + j, (i+1)*ny + j + 1, i*ny + j + 1}
			d.ctx.ClearPath()
			for k, c := range corners {
				if k == 0 {
					d.ctx.MoveTo(d.px(im.X[c]), d.py(im.Y[c]))
					continue
				}
				d.ctx.LineTo(d.px(im.X[c]), d.py(im.Y[c]))
			}
			d.ctx.ClosePath()
			d.fill()
		}
	}
}

// Text draws a string at its reference point.
func (d *Device) Text(t *plot.Text) {
	d.drawText(t)
}

// UnicodeText draws the code points of r.Text when character-at-a-time
// output ends. Recorded steps keep only their counters, so a replayed
// stream draws nothing here; replayable text goes through Text.
func (d *Device) UnicodeText(r *plot.UnicodeTextEscape) {
	if r.Op == plot.EscEndText {
		d.drawText(&r.Text)
	}
}

// Escape handles the payload free escapes. Clear repaints the background.
func (d *Device) Escape(op plot.EscapeOp) {
	if op == plot.EscClear {
		d.clear()
	}
}

func (d *Device) drawText(t *plot.Text) {
	s := t.String()
	if s == "" {
		return
	}
	d.ctx.SetFont(d.face(d.chrht))
	d.ctx.DrawStringAnchored(s, d.pxf(float64(t.X)), d.pyf(float64(t.Y)), t.Just, 0)
}

// face returns a cached face for a character height in millimetres.
func (d *Device) face(height float64) text.Face {
	size := max(1, int(height*d.dpmm+0.5))
	f, ok := d.faces[size]
	if !ok {
		f = d.source.Face(float64(size))
		d.faces[size] = f
	}
	return f
}

func (d *Device) clear() {
	r, g, b, a := d.background.Float()
	d.ctx.ClearWithColor(gg.RGBA2(r, g, b, a))
	d.ctx.SetRGBA(d.color.Float())
}

func (d *Device) path(x, y []int16) {
	d.ctx.MoveTo(d.px(x[0]), d.py(y[0]))
	for i := 1; i < len(x); i++ {
		d.ctx.LineTo(d.px(x[i]), d.py(y[i]))
	}
}

func (d *Device) stroke() {
	if err := d.ctx.Stroke(); err != nil && d.err == nil {
		d.err = err
	}
}

func (d *Device) fill() {
	if err := d.ctx.Fill(); err != nil && d.err == nil {
		d.err = err
	}
}

func (d *Device) px(x int16) float64 { return d.pxf(float64(x)) }
func (d *Device) py(y int16) float64 { return d.pyf(float64(y)) }

func (d *Device) pxf(x float64) float64 { return x * float64(d.width) / d.extent }
func (d *Device) pyf(y float64) float64 { return float64(d.height) - y*float64(d.height)/d.extent }
