package editor

import "github.com/KennethOlivas/zen-draw-sub000/element"

// Tool is what the next pointer-down does.
type Tool int

const (
	ToolSelect Tool = iota
	ToolHand
	ToolRectangle
	ToolEllipse
	ToolDiamond
	ToolLine
	ToolArrow
	ToolFreehand
	ToolText
	ToolEraser
)

var toolNames = map[Tool]string{
	ToolSelect:    "select",
	ToolHand:      "hand",
	ToolRectangle: "rectangle",
	ToolEllipse:   "ellipse",
	ToolDiamond:   "diamond",
	ToolLine:      "line",
	ToolArrow:     "arrow",
	ToolFreehand:  "freehand",
	ToolText:      "text",
	ToolEraser:    "eraser",
}

func (t Tool) String() string {
	if n, ok := toolNames[t]; ok {
		return n
	}
	return "unknown"
}

// ParseTool maps a tool name back to its value.
func ParseTool(name string) (Tool, bool) {
	for t, n := range toolNames {
		if n == name {
			return t, true
		}
	}
	return ToolSelect, false
}

// shapeKind is the element kind a drawing tool creates.
func (t Tool) shapeKind() (element.Kind, bool) {
	switch t {
	case ToolRectangle:
		return element.KindRectangle, true
	case ToolEllipse:
		return element.KindEllipse, true
	case ToolDiamond:
		return element.KindDiamond, true
	case ToolLine:
		return element.KindLine, true
	case ToolArrow:
		return element.KindArrow, true
	case ToolFreehand:
		return element.KindFreehand, true
	}
	return "", false
}

// draws reports whether t creates new elements.
func (t Tool) draws() bool {
	_, ok := t.shapeKind()
	return ok || t == ToolText
}

func (t Tool) connects() bool {
	return t == ToolLine || t == ToolArrow
}

// toolKeys are the single-letter shortcuts, active while no text field has focus.
var toolKeys = map[string]Tool{
	"v": ToolSelect,
	"1": ToolSelect,
	"h": ToolHand,
	"r": ToolRectangle,
	"o": ToolEllipse,
	"d": ToolDiamond,
	"l": ToolLine,
	"a": ToolArrow,
	"p": ToolFreehand,
	"t": ToolText,
	"e": ToolEraser,
}

// Mode is the gesture in progress. Exactly one is active at a time.
type Mode int

const (
	ModeIdle Mode = iota
	ModeMarquee
	ModeMove
	ModeResize
	ModeDraw
	ModeTextEdit
	ModePan
	ModeErase
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeMarquee:
		return "MARQUEE"
	case ModeMove:
		return "MOVE"
	case ModeResize:
		return "RESIZE"
	case ModeDraw:
		return "DRAW"
	case ModeTextEdit:
		return "TEXT"
	case ModePan:
		return "PAN"
	case ModeErase:
		return "ERASE"
	default:
		return "UNKNOWN"
	}
}

type GridMode string

const (
	GridLines GridMode = "lines"
	GridMesh  GridMode = "mesh"
)

// GridConfig controls grid display and snapping.
type GridConfig struct {
	Size float64  `yaml:"size" json:"size"`
	Snap bool     `yaml:"snap" json:"snap"`
	Mode GridMode `yaml:"mode" json:"mode"`
}

func DefaultGrid() GridConfig {
	return GridConfig{Size: 20, Mode: GridLines}
}

// Effective is the snapping step: mesh mode snaps to the quarter subdivision.
func (g GridConfig) Effective() float64 {
	if g.Mode == GridMesh {
		return g.Size / 4
	}
	return g.Size
}
