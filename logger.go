package plot

import (
	"log/slog"
	"sync/atomic"
)

// silent is the default logger. Its handler reports every level as
// disabled, so log calls on the recording path cost no formatting.
var silent = slog.New(slog.DiscardHandler)

// current holds the logger handed to new streams, stores and devices.
var current atomic.Pointer[slog.Logger]

func init() { current.Store(silent) }

// SetLogger sets the logger used by plot, its devices and the archive.
// Streams take the logger when they are created, so call SetLogger before
// NewStream. A nil logger makes plot silent again, which is the default.
//
// Levels:
//   - [slog.LevelDebug]: buffer growth, obsolete opcodes, replay start and end
//   - [slog.LevelWarn]: aborted colour changes, refused snapshot operations,
//     corrupt buffers
//
// Example:
//
//	plot.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger { return current.Load() }
