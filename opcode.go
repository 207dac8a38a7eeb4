package plot

import "strconv"

// Opcode identifies the shape and meaning of a buffered record.
// The values match the plot metafile command codes.
type Opcode uint8

const (
	OpInitialize  Opcode = 1  // device initialization
	OpEOP         Opcode = 5  // end of page
	OpBOP         Opcode = 6  // begin page
	OpLine        Opcode = 9  // single line segment
	OpEscape      Opcode = 11 // escape function, see EscapeOp
	OpPolyline    Opcode = 13 // connected line segments
	OpChangeState Opcode = 15 // stream state change, see StateOp
	OpBOP0        Opcode = 16 // begin first page, replayed as OpBOP

	// Obsolete commands. Replay logs and skips them.
	OpSwitchToText  Opcode = 3  // replaced by OpEscape
	OpSwitchToGraph Opcode = 4  // replaced by OpEscape
	OpNewColor      Opcode = 7  // replaced by OpChangeState
	OpNewWidth      Opcode = 8  // replaced by OpChangeState
	OpAdvance       Opcode = 12 // replaced by OpBOP/OpEOP
	OpNewColor1     Opcode = 14 // replaced by OpChangeState
)

var opcodeNames = map[Opcode]string{
	OpInitialize:    "Initialize",
	OpEOP:           "EOP",
	OpBOP:           "BOP",
	OpLine:          "Line",
	OpEscape:        "Escape",
	OpPolyline:      "Polyline",
	OpChangeState:   "ChangeState",
	OpBOP0:          "BOP0",
	OpSwitchToText:  "SwitchToText",
	OpSwitchToGraph: "SwitchToGraph",
	OpNewColor:      "NewColor",
	OpNewWidth:      "NewWidth",
	OpAdvance:       "Advance",
	OpNewColor1:     "NewColor1",
}

// String returns the opcode name, or its number if unknown.
func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return "Opcode(" + strconv.Itoa(int(o)) + ")"
}

// Obsolete reports whether o is a retired command that replay tolerates.
func (o Opcode) Obsolete() bool {
	switch o {
	case OpSwitchToText, OpSwitchToGraph, OpNewColor, OpNewWidth, OpAdvance, OpNewColor1:
		return true
	}
	return false
}

// StateOp selects the stream state carried by an OpChangeState record.
type StateOp uint8

const (
	StateWidth  StateOp = 1  // pen width
	StateColor0 StateOp = 2  // cmap0 color index or direct RGB
	StateColor1 StateOp = 3  // cmap1 color index
	StateFill   StateOp = 4  // fill pattern
	StateCmap0  StateOp = 5  // whole cmap0 palette
	StateCmap1  StateOp = 6  // whole cmap1 palette
	StateChar   StateOp = 15 // character default and scaled height
	StateSymbol StateOp = 16 // symbol default and scaled height
)

var stateOpNames = map[StateOp]string{
	StateWidth:  "Width",
	StateColor0: "Color0",
	StateColor1: "Color1",
	StateFill:   "Fill",
	StateCmap0:  "Cmap0",
	StateCmap1:  "Cmap1",
	StateChar:   "Char",
	StateSymbol: "Symbol",
}

// String returns the state op name.
func (s StateOp) String() string {
	if name, ok := stateOpNames[s]; ok {
		return name
	}
	return "StateOp(" + strconv.Itoa(int(s)) + ")"
}

// EscapeOp selects the function carried by an OpEscape record.
type EscapeOp uint8

const (
	EscFill           EscapeOp = 9  // fill polygon
	EscWindow         EscapeOp = 14 // set plot window parameters
	EscClear          EscapeOp = 18 // clear background
	EscHasText        EscapeOp = 20 // device-rendered text
	EscImage          EscapeOp = 21 // image
	EscBeginText      EscapeOp = 28 // start of a unicode text string
	EscTextChar       EscapeOp = 29 // unicode text character
	EscControlChar    EscapeOp = 30 // unicode text control character
	EscEndText        EscapeOp = 31 // end of a unicode text string
	EscStartRasterize EscapeOp = 32 // begin rasterized section
	EscEndRasterize   EscapeOp = 33 // end rasterized section
)

var escapeOpNames = map[EscapeOp]string{
	EscFill:           "Fill",
	EscWindow:         "Window",
	EscClear:          "Clear",
	EscHasText:        "HasText",
	EscImage:          "Image",
	EscBeginText:      "BeginText",
	EscTextChar:       "TextChar",
	EscControlChar:    "ControlChar",
	EscEndText:        "EndText",
	EscStartRasterize: "StartRasterize",
	EscEndRasterize:   "EndRasterize",
}

// String returns the escape op name.
func (e EscapeOp) String() string {
	if name, ok := escapeOpNames[e]; ok {
		return name
	}
	return "EscapeOp(" + strconv.Itoa(int(e)) + ")"
}
