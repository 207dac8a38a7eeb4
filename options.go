package plot

import "github.com/gogpu/plot/internal/buffer"

// DefaultGrow is the initial buffer size and growth increment of a stream.
const DefaultGrow = buffer.DefaultGrow

// Option configures a Stream during creation.
//
// Example:
//
//	// 1 MiB growth steps, never more than 64 MiB
//	s := plot.NewStream(plot.WithGrow(1<<20), plot.WithMaxSize(64<<20))
type Option func(*streamOptions)

// streamOptions holds optional configuration for Stream creation.
type streamOptions struct {
	grow    int
	maxSize int
	cmap0   []Color
	cmap1   []Color
}

// defaultOptions returns the default stream options.
func defaultOptions() streamOptions {
	return streamOptions{
		grow:  0, // buffer default
		cmap0: DefaultCmap0(),
		cmap1: DefaultCmap1(),
	}
}

// WithGrow sets the initial buffer size and the increment the buffer grows
// by. Values <= 0 keep the default of 128 KiB.
func WithGrow(n int) Option {
	return func(o *streamOptions) {
		o.grow = n
	}
}

// WithMaxSize caps the size the buffer may grow to, including its first
// allocation. Recording past the cap fails with ErrBufferFull and leaves
// the content recorded so far intact. Zero means unlimited.
func WithMaxSize(n int) Option {
	return func(o *streamOptions) {
		o.maxSize = n
	}
}

// WithCmap0 sets the initial cmap0 palette. The slice is copied.
func WithCmap0(colors []Color) Option {
	return func(o *streamOptions) {
		o.cmap0 = append([]Color(nil), colors...)
	}
}

// WithCmap1 sets the initial cmap1 palette. The slice is copied.
func WithCmap1(colors []Color) Option {
	return func(o *streamOptions) {
		o.cmap1 = append([]Color(nil), colors...)
	}
}
