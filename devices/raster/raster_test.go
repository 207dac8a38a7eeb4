package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/plot"
)

func newDevice(t *testing.T, opts ...Option) *Device {
	t.Helper()
	d, err := New(append([]Option{WithSize(100, 100), WithExtent(1000)}, opts...)...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func isWhite(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff
}

func TestDeviceRegistration(t *testing.T) {
	if !plot.IsRegistered("raster") {
		t.Fatal("raster device not registered")
	}
	dev, err := plot.NewDevice("raster")
	if err != nil {
		t.Fatalf("failed to create raster device: %v", err)
	}
	if _, ok := dev.(*Device); !ok {
		t.Fatalf("device is %T, want *raster.Device", dev)
	}
}

func TestDeviceDimensions(t *testing.T) {
	d := newDevice(t)
	if d.Width() != 100 || d.Height() != 100 {
		t.Errorf("size = %dx%d, want 100x100", d.Width(), d.Height())
	}
	bounds := d.Picture().Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Errorf("Image bounds = %v, want 100x100", bounds)
	}
	if !isWhite(d.Picture().At(50, 50)) {
		t.Error("new page is not cleared to the background")
	}
}

func TestReplayedLineIsDrawn(t *testing.T) {
	s := plot.NewStream()
	s.Init()
	s.BeginPage()
	s.SetColor0(0)
	s.SetWidth(4)
	s.Line(0, 500, 1000, 500)
	s.EndPage()

	d := newDevice(t)
	if err := s.Replay(d); err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if err := d.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}

	img := d.Picture()
	for _, x := range []int{10, 50, 90} {
		if isWhite(img.At(x, 50)) {
			t.Errorf("pixel (%d, 50) not drawn", x)
		}
	}
	if !isWhite(img.At(50, 10)) || !isWhite(img.At(50, 90)) {
		t.Error("pixels away from the line were drawn")
	}
	if d.Pages() != 1 {
		t.Errorf("Pages() = %d, want 1", d.Pages())
	}
}

func TestFillAndClear(t *testing.T) {
	d := newDevice(t)
	d.SetColor(0, 1, plot.RGB(255, 0, 0))
	d.Fill([]int16{100, 900, 900, 100}, []int16{100, 100, 900, 900})

	r, g, b, _ := d.Picture().At(50, 50).RGBA()
	if r != 0xffff || g != 0 || b != 0 {
		t.Errorf("fill center = %d %d %d, want red", r, g, b)
	}

	d.Escape(plot.EscClear)
	if !isWhite(d.Picture().At(50, 50)) {
		t.Error("Clear did not repaint the background")
	}
}

func TestImageUsesCmap1(t *testing.T) {
	d := newDevice(t)
	d.SetColorMap(1, []plot.Color{plot.RGB(0, 0, 255), plot.RGB(0, 255, 0)})
	d.SetColor(0, 1, plot.RGB(255, 0, 0))

	im := &plot.Image{
		NX: 2, NY: 2, ZMin: 0, ZMax: 10,
		X: []int16{0, 0, 1000, 1000},
		Y: []int16{0, 1000, 0, 1000},
		Z: []uint16{10},
	}
	d.Image(im)

	r, g, b, _ := d.Picture().At(50, 50).RGBA()
	if r != 0 || g != 0xffff || b != 0 {
		t.Errorf("image cell = %d %d %d, want green", r, g, b)
	}
	if d.color != plot.RGB(255, 0, 0) {
		t.Error("Image did not restore the pen color")
	}

	// Out of range cells are left alone.
	d.Escape(plot.EscClear)
	im.Z[0] = 11
	d.Image(im)
	if !isWhite(d.Picture().At(50, 50)) {
		t.Error("cell above ZMax was drawn")
	}
}

func TestPageFunc(t *testing.T) {
	var pages []int
	d := newDevice(t, WithPageFunc(func(page int, img image.Image) error {
		pages = append(pages, page)
		return nil
	}))

	s := plot.NewStream()
	s.Init()
	for range 3 {
		s.Line(0, 0, 10, 10)
		s.EndPage()
	}
	if err := s.Replay(d); err != nil {
		t.Fatal(err)
	}
	if len(pages) != 3 || pages[2] != 3 {
		t.Errorf("pages = %v, want [1 2 3]", pages)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"png", PNG, false},
		{"out/plot.PNG", PNG, false},
		{"bmp", BMP, false},
		{"plot.tif", TIFF, false},
		{"tiff", TIFF, false},
		{"plot.svg", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncodeFormats(t *testing.T) {
	d := newDevice(t)
	d.SetColor(0, 0, plot.RGB(0, 0, 0))
	d.Line(0, 0, 1000, 1000)

	decoders := map[Format]func(*bytes.Buffer) (image.Image, error){
		PNG:  func(b *bytes.Buffer) (image.Image, error) { return png.Decode(b) },
		BMP:  func(b *bytes.Buffer) (image.Image, error) { return bmp.Decode(b) },
		TIFF: func(b *bytes.Buffer) (image.Image, error) { return tiff.Decode(bytes.NewReader(b.Bytes())) },
	}
	for f, decode := range decoders {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := d.Encode(&buf, f); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			img, err := decode(&buf)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if img.Bounds().Dx() != 100 {
				t.Errorf("decoded width = %d", img.Bounds().Dx())
			}
		})
	}
}

func TestSaveFile(t *testing.T) {
	d := newDevice(t)
	if err := d.SaveFile(t.TempDir() + "/page.bmp"); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	if err := d.SaveFile(t.TempDir() + "/page.gif"); err == nil {
		t.Error("expected error for unknown extension")
	}
}
