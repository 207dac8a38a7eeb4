package plot

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger should not be enabled for %v", level)
		}
	}
}

func TestSetLoggerNilRestoresSilent(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(slog.Default())
	SetLogger(nil)

	l := Logger()
	if l == nil {
		t.Fatal("SetLogger(nil) should set nop logger, not nil")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should produce a disabled logger")
	}
}

// captureLogs installs a debug-level text logger for the test and returns
// the buffer it writes to.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
	return &buf
}

func TestStreamLogsBufferGrowth(t *testing.T) {
	logs := captureLogs(t)

	s := NewStream(WithGrow(16))
	s.Init()
	if err := s.Polyline(make([]int16, 10), make([]int16, 10)); err != nil {
		t.Fatalf("Polyline() = %v", err)
	}
	if !strings.Contains(logs.String(), "buffer: growing") {
		t.Errorf("expected growth message, got: %s", logs.String())
	}
}

func TestReplayLogsObsoleteCommand(t *testing.T) {
	logs := captureLogs(t)

	s := NewStream()
	s.Init()
	s.buf.WriteOpcode(uint8(OpNewWidth))
	if err := s.Replay(&mockDevice{}); err != nil {
		t.Fatalf("Replay() = %v", err)
	}
	out := logs.String()
	if !strings.Contains(out, "obsolete") || !strings.Contains(out, "NewWidth") {
		t.Errorf("expected obsolete command message, got: %s", out)
	}
}

func TestLoggerConcurrentAccess(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var wg sync.WaitGroup
	const goroutines = 100

	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l := Logger()
			if l == nil {
				t.Error("Logger() returned nil during concurrent access")
			}
			l.Debug("concurrent read")
		}()
	}
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			SetLogger(slog.Default())
			SetLogger(nil)
		}()
	}

	wg.Wait()
}

func BenchmarkLoggerDisabledLog(b *testing.B) {
	l := Logger()
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("message", "key", "value")
	}
}
