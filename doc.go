// Package plot provides a record and replay buffer for plot commands.
//
// # Overview
//
// A Stream records graphics primitives (lines, polylines, fills, state
// changes, text, images) into an append-only binary buffer and replays
// them to any Device, for example to redraw a window after it was resized
// or to send the same plot to a second output.
//
// # Quick Start
//
//	import "github.com/gogpu/plot"
//
//	s := plot.NewStream()
//	s.Init()
//
//	s.BeginPage()
//	s.SetColor0(2)
//	s.Polyline([]int16{0, 100, 200}, []int16{0, 50, 0})
//	s.EndPage()
//
//	// Replay to a registered device
//	dev, err := plot.NewDevice("raster")
//	if err != nil {
//	    return err
//	}
//	err = s.Replay(dev)
//
// # Buffer Format
//
// Each record is a one byte opcode followed, for state changes and
// escapes, by a one byte sub-op and then the payload fields. Every field
// starts on a 2 byte boundary. Multi-byte values are stored in host byte
// order, so a buffer is only meaningful on the machine that wrote it.
//
// The buffer is not self-delimiting: a record whose opcode or sub-op is
// unknown cannot be skipped, and Replay stops with ErrCorrupt.
//
// # Saved States
//
// SaveState copies the recorded bytes into a SavedState. RestoreState and
// SwitchState install a saved state as the live buffer, which lets several
// plots share a single stream.
//
// # Devices
//
// Devices implement the Device interface and optionally WindowDevice,
// ImageDevice, TextDevice, SizeDevice and EscapeDevice. Device packages
// register themselves by name (see Register); importing the package for
// its side effect makes the device available to NewDevice:
//
//	import _ "github.com/gogpu/plot/devices/raster"
//
// The module ships "raster" (images through gg), "term" (terminal cells
// through tcell) and "trace" (a text line per call). Saved states can be
// archived with the store/sqlstore package.
//
// # Logging
//
// The package is silent by default. Use SetLogger to receive buffer
// growth, replay and snapshot diagnostics through log/slog.
package plot
