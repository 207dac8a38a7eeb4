package plot

// Device is an output target for replay. Replay calls these methods in
// buffer order.
//
// Coordinate slices passed to a Device alias the stream's buffer and are
// only valid for the duration of the call. Copy them to keep them.
//
// Devices with more capabilities implement the optional interfaces
// WindowDevice, ImageDevice, TextDevice, SizeDevice and EscapeDevice.
// Records whose interface a device does not implement are skipped.
type Device interface {
	// Init is called for a recorded device initialization.
	Init()

	// BeginPage starts a new page.
	BeginPage()

	// EndPage finishes the current page.
	EndPage()

	// Line draws a segment in device coordinates.
	Line(x1, y1, x2, y2 int16)

	// Polyline draws connected segments through the points.
	Polyline(x, y []int16)

	// Fill fills the polygon through the points.
	Fill(x, y []int16)

	// SetWidth sets the pen width.
	SetWidth(width int32)

	// SetColor sets the current color. cmap and index say where the color
	// came from; index is RGBColor for a direct cmap0 color.
	SetColor(cmap, index int, c Color)

	// SetFillPattern selects the area fill pattern; zero is solid.
	SetFillPattern(pattern int)

	// SetColorMap replaces palette cmap (0 or 1).
	SetColorMap(cmap int, colors []Color)
}

// WindowDevice receives plot window definitions.
type WindowDevice interface {
	SetWindow(w Window)
}

// ImageDevice draws images.
type ImageDevice interface {
	Image(im *Image)
}

// TextDevice renders text itself instead of relying on stroked fonts.
type TextDevice interface {
	// Text draws a whole string.
	Text(t *Text)

	// UnicodeText receives one step of character-at-a-time output.
	UnicodeText(r *UnicodeTextEscape)
}

// SizeDevice is told about character and symbol size changes.
type SizeDevice interface {
	SetCharSize(def, height float64)
	SetSymbolSize(def, height float64)
}

// EscapeDevice handles the escapes without payload: EscClear,
// EscStartRasterize and EscEndRasterize.
type EscapeDevice interface {
	Escape(op EscapeOp)
}
