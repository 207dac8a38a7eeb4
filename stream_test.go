package plot

import (
	"errors"
	"reflect"
	"testing"
)

func newRecordingStream(t *testing.T, opts ...Option) *Stream {
	t.Helper()
	s := NewStream(opts...)
	s.Init()
	if !s.Writing() {
		t.Fatal("stream not recording after Init")
	}
	return s
}

func TestStreamNotRecordingBeforeInit(t *testing.T) {
	s := NewStream()
	if err := s.Line(0, 0, 1, 1); err != nil {
		t.Fatalf("Line() = %v", err)
	}
	if s.Top() != 0 || s.Cap() != 0 {
		t.Errorf("Top() = %d, Cap() = %d before Init, want 0, 0", s.Top(), s.Cap())
	}
}

func TestStreamInitIsIdempotent(t *testing.T) {
	s := newRecordingStream(t)
	s.Line(0, 0, 5, 5)
	capBefore := s.Cap()
	s.Init()
	if s.Top() != 0 {
		t.Errorf("Top() = %d after second Init, want 0", s.Top())
	}
	if s.Cap() != capBefore {
		t.Errorf("Cap() = %d after second Init, want %d", s.Cap(), capBefore)
	}
}

func TestBeginPageRecordsCurrentState(t *testing.T) {
	s := newRecordingStream(t)
	s.Line(1, 2, 3, 4) // discarded by BeginPage
	if err := s.SetWidth(3); err != nil {
		t.Fatal(err)
	}
	if err := s.SetColor0(9); err != nil {
		t.Fatal(err)
	}
	if err := s.BeginPage(); err != nil {
		t.Fatalf("BeginPage() = %v", err)
	}

	dev := &mockDevice{}
	if err := s.Replay(dev); err != nil {
		t.Fatalf("Replay() = %v", err)
	}
	want := []string{
		"bop",
		"cmap 0 16",
		"cmap 1 128",
		"color 0 9 0,0,255",
		"width 3",
	}
	if !reflect.DeepEqual(dev.calls, want) {
		t.Errorf("replayed:\n%s\nwant:\n%v", dev, want)
	}
}

func TestBeginPageRecordsDirectColor(t *testing.T) {
	s := newRecordingStream(t)
	s.SetColor0RGB(RGB(1, 2, 3))
	s.BeginPage()

	dev := &mockDevice{}
	if err := s.Replay(dev); err != nil {
		t.Fatalf("Replay() = %v", err)
	}
	if got := dev.calls[3]; got != "color 0 -1 1,2,3" {
		t.Errorf("color call = %q", got)
	}
}

func TestSetColorValidatesIndex(t *testing.T) {
	tests := []struct {
		name string
		set  func(s *Stream) error
		cmap int
	}{
		{"cmap0 negative", func(s *Stream) error { return s.SetColor0(-1) }, 0},
		{"cmap0 past end", func(s *Stream) error { return s.SetColor0(16) }, 0},
		{"cmap1 past end", func(s *Stream) error { return s.SetColor1(128) }, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newRecordingStream(t)
			before := s.Color()
			err := tt.set(s)
			if !errors.Is(err, ErrInvalidColorIndex) {
				t.Fatalf("err = %v, want ErrInvalidColorIndex", err)
			}
			var ce *ColorIndexError
			if !errors.As(err, &ce) || ce.Cmap != tt.cmap {
				t.Errorf("err = %#v, want cmap %d", err, tt.cmap)
			}
			if s.Top() != 0 {
				t.Errorf("rejected color change was recorded: Top() = %d", s.Top())
			}
			if s.Color() != before {
				t.Error("rejected color change modified the stream")
			}
		})
	}
}

func TestSetColorUpdatesState(t *testing.T) {
	s := newRecordingStream(t)
	if err := s.SetColor1(127); err != nil {
		t.Fatal(err)
	}
	if cmap, i := s.ColorIndex(); cmap != 1 || i != 127 {
		t.Errorf("ColorIndex() = %d, %d", cmap, i)
	}
	if s.Color() != RGB(255, 255, 255) {
		t.Errorf("Color() = %+v", s.Color())
	}
	if err := s.SetColor0(4); err != nil {
		t.Fatal(err)
	}
	if cmap, i := s.ColorIndex(); cmap != 0 || i != 4 {
		t.Errorf("ColorIndex() = %d, %d", cmap, i)
	}
}

func TestCustomPalettes(t *testing.T) {
	pal := []Color{RGB(1, 1, 1), RGB(2, 2, 2), RGB(3, 3, 3)}
	s := NewStream(WithCmap0(pal), WithCmap1(pal[:1]))
	pal[0] = RGB(9, 9, 9)

	if got := s.Cmap0(); len(got) != 3 || got[0] != RGB(1, 1, 1) {
		t.Errorf("Cmap0() = %v", got)
	}
	if got := s.Cmap1(); len(got) != 1 {
		t.Errorf("Cmap1() = %v", got)
	}
	if s.Color() != RGB(2, 2, 2) {
		t.Errorf("initial color = %+v, want cmap0[1]", s.Color())
	}
}

func TestSetFillPatternRange(t *testing.T) {
	s := newRecordingStream(t)
	if err := s.SetFillPattern(256); err == nil {
		t.Error("SetFillPattern(256) should fail")
	}
	if err := s.SetFillPattern(3); err != nil {
		t.Fatal(err)
	}
	if s.FillPattern() != 3 {
		t.Errorf("FillPattern() = %d", s.FillPattern())
	}
}

func TestTextUpdatesStreamState(t *testing.T) {
	s := newRecordingStream(t)
	tx := sampleText()
	if err := s.Text(&tx); err != nil {
		t.Fatal(err)
	}
	if _, ht := s.CharSize(); ht != tx.Height {
		t.Errorf("chrht = %v, want %v", ht, tx.Height)
	}
	if s.Rotation() != tx.Rotation || s.Clip() != tx.Clip || s.FCI() != tx.FCI {
		t.Errorf("text state = %v %v %#x", s.Rotation(), s.Clip(), s.FCI())
	}
}

func TestWindowsResetByBeginPage(t *testing.T) {
	s := newRecordingStream(t)
	s.SetWindow(Window{WXMax: 1})
	s.SetWindow(Window{WXMax: 2})
	if n := len(s.Windows()); n != 2 {
		t.Fatalf("len(Windows()) = %d, want 2", n)
	}
	s.BeginPage()
	if n := len(s.Windows()); n != 0 {
		t.Errorf("len(Windows()) = %d after BeginPage, want 0", n)
	}
}

func TestRecordRejectsMalformed(t *testing.T) {
	s := newRecordingStream(t)
	if err := s.Polyline([]int16{1, 2}, []int16{1}); err == nil {
		t.Error("Polyline with mismatched lengths should fail")
	}
	if s.Top() != 0 {
		t.Errorf("malformed record was written: Top() = %d", s.Top())
	}
}

func TestBufferFullRollsBack(t *testing.T) {
	s := newRecordingStream(t, WithGrow(64), WithMaxSize(4096))
	if err := s.Line(1, 1, 2, 2); err != nil {
		t.Fatal(err)
	}
	top := s.Top()

	x := make([]int16, 5000)
	err := s.Polyline(x, x)
	if !errors.Is(err, ErrBufferFull) {
		t.Fatalf("Polyline() = %v, want ErrBufferFull", err)
	}
	if s.Top() != top {
		t.Errorf("Top() = %d, want %d: partial record left behind", s.Top(), top)
	}
	if err := s.Line(3, 3, 4, 4); !errors.Is(err, ErrBufferFull) {
		t.Errorf("error not sticky: %v", err)
	}

	// What was recorded before the failure still replays.
	dev := &mockDevice{}
	if err := s.Replay(dev); err != nil {
		t.Fatalf("Replay() = %v", err)
	}
	if !reflect.DeepEqual(dev.calls, []string{"line 1 1 2 2"}) {
		t.Errorf("replayed %v", dev.calls)
	}

	// A new page starts over.
	if err := s.BeginPage(); err != nil {
		t.Errorf("BeginPage() = %v", err)
	}
}

func TestGrowthKeepsContent(t *testing.T) {
	s := newRecordingStream(t, WithGrow(32))
	for i := range int16(50) {
		if err := s.Line(i, i, i+1, i+1); err != nil {
			t.Fatal(err)
		}
	}
	if s.Grows() == 0 {
		t.Fatal("expected the buffer to grow")
	}
	if s.Cap()%32 != 0 {
		t.Errorf("Cap() = %d is not a multiple of the growth increment", s.Cap())
	}

	dev := &mockDevice{}
	if err := s.Replay(dev); err != nil {
		t.Fatalf("Replay() = %v", err)
	}
	if len(dev.calls) != 50 || dev.calls[49] != "line 49 49 50 50" {
		t.Errorf("replayed %d calls, last %q", len(dev.calls), dev.calls[len(dev.calls)-1])
	}
}
