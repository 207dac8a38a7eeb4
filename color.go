package plot

import "image/color"

// Color is a palette entry: 8-bit red, green and blue plus a floating
// point alpha in [0, 1].
type Color struct {
	R, G, B uint8
	A       float64
}

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// NRGBA converts the color to a non-premultiplied image/color value.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(clamp01(c.A)*255 + 0.5)}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// Float returns the components scaled to [0, 1].
func (c Color) Float() (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, clamp01(c.A)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// colorRecordSize is the encoded size of one palette entry:
// r, g, b, one zero byte, then a float64 alpha.
const colorRecordSize = 12

// DefaultCmap0 returns the 16 color cmap0 palette every stream starts with.
func DefaultCmap0() []Color {
	return []Color{
		RGB(0, 0, 0),       // black
		RGB(255, 0, 0),     // red
		RGB(255, 255, 0),   // yellow
		RGB(0, 255, 0),     // green
		RGB(127, 255, 212), // aquamarine
		RGB(255, 192, 203), // pink
		RGB(245, 222, 179), // wheat
		RGB(190, 190, 190), // grey
		RGB(165, 42, 42),   // brown
		RGB(0, 0, 255),     // blue
		RGB(138, 43, 226),  // blue violet
		RGB(0, 255, 255),   // cyan
		RGB(64, 224, 208),  // turquoise
		RGB(255, 0, 255),   // magenta
		RGB(250, 128, 114), // salmon
		RGB(255, 255, 255), // white
	}
}

// DefaultCmap1 returns the continuous cmap1 palette every stream starts
// with: a 128 step ramp from black to white.
func DefaultCmap1() []Color {
	const n = 128
	out := make([]Color, n)
	for i := range out {
		v := uint8(i * 255 / (n - 1))
		out[i] = RGB(v, v, v)
	}
	return out
}
