package plot

import (
	"errors"
	"log/slog"
)

// Replay decodes the buffer from the start and drives dev with every
// record, updating the stream state as it goes. Recording is suspended
// for the duration and restored afterwards, so drawing calls a device
// makes back into this stream are not recorded twice.
//
// Replay stops at the first corrupt record and returns a *CorruptError.
// A color change that refers to a missing palette entry is skipped; such
// errors are joined and returned once the whole buffer has been replayed.
//
// A device may replay the same stream again from one of its callbacks;
// the outer replay then carries on with the record after the callback.
//
// Replaying a stream without a buffer does nothing.
func (s *Stream) Replay(dev Device) error {
	writing, reading := s.writing, s.reading
	s.writing = false
	s.reading = true
	// A replay started from a device callback walks the buffer from the
	// start; the outer walk resumes where it was.
	resume := s.buf.ReadPos()
	defer func() {
		if reading {
			s.buf.Seek(resume)
		}
		s.reading = reading
		s.writing = writing
	}()

	if !s.buf.Allocated() {
		return nil
	}

	s.buf.Rewind()
	s.logger.Debug("plot: replay start", slog.Int("bytes", s.buf.Top()))

	var (
		aborted []error
		prev    Opcode
		records int
	)
	for {
		offset := s.buf.ReadPos()
		c, ok := s.buf.ReadOpcode()
		if !ok {
			if s.buf.ReadErr() != nil {
				err := &CorruptError{Offset: offset, Previous: prev, Reason: "truncated opcode"}
				s.logger.Warn("plot: replay aborted", slog.Any("err", err))
				return err
			}
			break
		}
		op := Opcode(c)
		if op.Obsolete() {
			s.logger.Debug("plot: skipping obsolete command",
				slog.String("op", op.String()), slog.Int("offset", offset))
			prev = op
			continue
		}

		r, err := decodeRecord(s.buf, op, offset, prev)
		if err != nil {
			s.logger.Warn("plot: replay aborted", slog.Any("err", err))
			return err
		}
		if err := s.apply(dev, r); err != nil {
			s.logger.Warn("plot: state change skipped",
				slog.Int("offset", offset), slog.Any("err", err))
			aborted = append(aborted, err)
		}
		prev = op
		records++
	}

	s.logger.Debug("plot: replay done", slog.Int("records", records))
	return errors.Join(aborted...)
}

// apply updates the stream with r and forwards it to dev.
func (s *Stream) apply(dev Device, r Record) error {
	switch r := r.(type) {
	case *InitRecord:
		dev.Init()
	case *BOPRecord:
		s.windows = s.windows[:0]
		dev.BeginPage()
	case *EOPRecord:
		dev.EndPage()
	case *LineRecord:
		dev.Line(r.X1, r.Y1, r.X2, r.Y2)
	case *PolylineRecord:
		dev.Polyline(r.X, r.Y)

	case *WidthState:
		s.width = r.Width
		dev.SetWidth(r.Width)
	case *Color0State:
		return s.applyColor0(dev, r)
	case *Color1State:
		i := int(r.Index)
		if i >= len(s.cmap1) {
			return &ColorIndexError{Cmap: 1, Index: i, Len: len(s.cmap1)}
		}
		s.icol1 = i
		s.curcmap = 1
		s.color = s.cmap1[i]
		dev.SetColor(1, i, s.color)
	case *FillState:
		s.pattern = int(r.Pattern)
		dev.SetFillPattern(s.pattern)
	case *CmapState:
		if r.Cmap == 1 {
			s.cmap1 = r.Colors
		} else {
			s.cmap0 = r.Colors
		}
		dev.SetColorMap(r.Cmap, r.Colors)
	case *CharState:
		s.chrdef, s.chrht = r.Default, r.Height
		if d, ok := dev.(SizeDevice); ok {
			d.SetCharSize(r.Default, r.Height)
		}
	case *SymbolState:
		s.symdef, s.symht = r.Default, r.Height
		if d, ok := dev.(SizeDevice); ok {
			d.SetSymbolSize(r.Default, r.Height)
		}

	case *FillEscape:
		dev.Fill(r.X, r.Y)
	case *WindowEscape:
		s.windows = append(s.windows, r.Window)
		if d, ok := dev.(WindowDevice); ok {
			d.SetWindow(r.Window)
		}
	case *ImageEscape:
		if d, ok := dev.(ImageDevice); ok {
			d.Image(&r.Image)
		}
	case *TextEscape:
		s.setText(&r.Text)
		if d, ok := dev.(TextDevice); ok {
			d.Text(&r.Text)
		}
	case *UnicodeTextEscape:
		s.setText(&r.Text)
		if d, ok := dev.(TextDevice); ok {
			d.UnicodeText(r)
		}
	case *SimpleEscape:
		if d, ok := dev.(EscapeDevice); ok {
			d.Escape(r.Op)
		}
	}
	return nil
}

func (s *Stream) applyColor0(dev Device, r *Color0State) error {
	i := int(r.Index)
	switch {
	case r.Index == RGBColor:
		s.color = RGB(r.R, r.G, r.B)
	case i >= 0 && i < len(s.cmap0):
		s.color = s.cmap0[i]
	default:
		return &ColorIndexError{Cmap: 0, Index: i, Len: len(s.cmap0)}
	}
	s.icol0 = i
	s.curcmap = 0
	dev.SetColor(0, i, s.color)
	return nil
}
