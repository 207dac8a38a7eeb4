package plot

import (
	"bytes"
	"testing"
)

// recordSamplePage records one page using every kind of record.
func recordSamplePage(t *testing.T, s *Stream) {
	t.Helper()
	tx := sampleText()
	im := &Image{
		NX: 3, NY: 2, XMin: 1, YMin: 2, DX: 0.5, DY: 0.25, ZMin: 1, ZMax: 9,
		X: []int16{0, 5, 10, 0, 5, 10}, Y: []int16{0, 0, 0, 8, 8, 8}, Z: []uint16{1, 9},
	}
	steps := []func() error{
		func() error { return s.SetCmap0([]Color{RGB(0, 0, 0), RGB(10, 20, 30), {R: 1, G: 2, B: 3, A: 0.5}}) },
		func() error { return s.SetWidth(2) },
		s.BeginPage,
		func() error { return s.SetWindow(Window{0, 1, 0, 1, -10, 10, -5, 5}) },
		func() error { return s.SetColor0(2) },
		func() error { return s.Line(0, 0, 100, 50) },
		func() error { return s.Polyline([]int16{1, 2, 3}, []int16{3, 2, 1}) },
		func() error { return s.SetColor0RGB(RGB(200, 100, 50)) },
		func() error { return s.SetFillPattern(1) },
		func() error { return s.Fill([]int16{0, 9, 9, 0}, []int16{0, 0, 9, 9}) },
		func() error { return s.SetColor1(64) },
		func() error { return s.Image(im) },
		func() error { return s.SetCharSize(3, 4.5) },
		func() error { return s.SetSymbolSize(2, 2) },
		func() error { return s.Text(&tx) },
		func() error {
			return s.UnicodeText(&UnicodeTextEscape{Op: EscBeginText, Text: tx, NFCI: 1, NChar: 5, UnicodeLen: 5})
		},
		s.Clear,
		s.StartRasterize,
		s.EndRasterize,
		s.EndPage,
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func TestRecorderDeviceCopiesBuffer(t *testing.T) {
	src := newRecordingStream(t)
	recordSamplePage(t, src)

	dst := newRecordingStream(t)
	rec := NewRecorderDevice(dst)
	if err := src.Replay(rec); err != nil {
		t.Fatalf("Replay() = %v", err)
	}
	if err := rec.Err(); err != nil {
		t.Fatalf("RecorderDevice.Err() = %v", err)
	}
	if !bytes.Equal(dst.buf.Bytes(), src.buf.Bytes()) {
		t.Errorf("copied buffer differs: %d bytes vs %d", dst.Top(), src.Top())
	}
	if dst.Color() != src.Color() || dst.Width() != src.Width() {
		t.Error("copied stream state differs")
	}
}

func TestRecorderDeviceStopsAtFirstError(t *testing.T) {
	src := newRecordingStream(t)
	src.Record(&Color0State{Index: 1})
	src.Line(0, 0, 1, 1)

	// The target only knows one color, so index 1 is rejected.
	dst := newRecordingStream(t, WithCmap0([]Color{RGB(0, 0, 0)}))
	rec := NewRecorderDevice(dst)
	if err := src.Replay(rec); err != nil {
		t.Fatal(err)
	}
	if rec.Err() == nil {
		t.Fatal("expected a recording error")
	}
	if dst.Top() != 0 {
		t.Errorf("recorded %d bytes after the error", dst.Top())
	}
}
