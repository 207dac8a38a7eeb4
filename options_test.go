package plot

import (
	"errors"
	"testing"
)

// TestNewStreamDefault tests the defaults a stream starts with.
func TestNewStreamDefault(t *testing.T) {
	s := NewStream()
	s.Init()

	if s.Cap() != DefaultGrow {
		t.Errorf("Cap() = %d, want %d", s.Cap(), DefaultGrow)
	}
	if len(s.Cmap0()) != 16 || len(s.Cmap1()) != 128 {
		t.Errorf("palettes = %d, %d entries", len(s.Cmap0()), len(s.Cmap1()))
	}
	if cmap, idx := s.ColorIndex(); cmap != 0 || idx != 1 {
		t.Errorf("ColorIndex() = %d, %d; want 0, 1", cmap, idx)
	}
	if s.Color() != DefaultCmap0()[1] {
		t.Errorf("Color() = %v, want cmap0[1]", s.Color())
	}
	if s.Width() != 1 {
		t.Errorf("Width() = %d, want 1", s.Width())
	}
}

// TestWithGrow tests the growth increment option.
func TestWithGrow(t *testing.T) {
	tests := []struct {
		name string
		grow int
		want int
	}{
		{"custom", 256, 256},
		{"zero keeps default", 0, DefaultGrow},
		{"negative keeps default", -5, DefaultGrow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStream(WithGrow(tt.grow))
			s.Init()
			if s.Cap() != tt.want {
				t.Errorf("Cap() = %d, want %d", s.Cap(), tt.want)
			}
		})
	}
}

// TestWithMaxSize tests that recording stops at the size limit.
func TestWithMaxSize(t *testing.T) {
	s := NewStream(WithGrow(16), WithMaxSize(32))
	s.Init()

	var err error
	for range 10 {
		if err = s.Line(1, 2, 3, 4); err != nil {
			break
		}
	}
	if !errors.Is(err, ErrBufferFull) {
		t.Fatalf("Line() = %v, want ErrBufferFull", err)
	}
	if s.Cap() > 32 {
		t.Errorf("Cap() = %d, beyond the limit", s.Cap())
	}
	if s.Top()%10 != 0 {
		t.Errorf("Top() = %d, not a whole number of line records", s.Top())
	}
}

// TestWithMaxSizeBelowGrow tests that the first allocation honors a limit
// smaller than the growth increment.
func TestWithMaxSizeBelowGrow(t *testing.T) {
	s := NewStream(WithMaxSize(64))
	s.Init()
	if s.Cap() != 64 {
		t.Fatalf("Cap() = %d, want 64", s.Cap())
	}

	var err error
	for range 20 {
		if err = s.Line(1, 2, 3, 4); err != nil {
			break
		}
	}
	if !errors.Is(err, ErrBufferFull) {
		t.Fatalf("Line() = %v, want ErrBufferFull", err)
	}
	if s.Cap() != 64 || s.Top() > 64 {
		t.Errorf("Cap() = %d, Top() = %d past the limit", s.Cap(), s.Top())
	}
}

// TestWithCmapCopies tests that palette options copy their argument.
func TestWithCmapCopies(t *testing.T) {
	c0 := []Color{RGB(1, 1, 1), RGB(2, 2, 2)}
	c1 := []Color{RGB(3, 3, 3)}
	s := NewStream(WithCmap0(c0), WithCmap1(c1))
	c0[1] = RGB(9, 9, 9)
	c1[0] = RGB(9, 9, 9)

	if got := s.Cmap0(); got[1] != RGB(2, 2, 2) {
		t.Errorf("cmap0 changed with the caller's slice: %v", got)
	}
	if got := s.Cmap1(); got[0] != RGB(3, 3, 3) {
		t.Errorf("cmap1 changed with the caller's slice: %v", got)
	}

	// A single color palette leaves the pen on entry 0.
	one := NewStream(WithCmap0([]Color{RGB(7, 7, 7)}))
	if _, idx := one.ColorIndex(); idx != 0 {
		t.Errorf("ColorIndex() = %d, want 0", idx)
	}
}
