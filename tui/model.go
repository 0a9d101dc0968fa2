// Package tui hosts the editor in a terminal. Mouse and key events from
// bubbletea become editor pointer and key events; each frame rasterises the
// scene into character cells.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/flanksource/commons/logger"

	"github.com/KennethOlivas/zen-draw-sub000/autosave"
	"github.com/KennethOlivas/zen-draw-sub000/document"
	"github.com/KennethOlivas/zen-draw-sub000/editor"
	"github.com/KennethOlivas/zen-draw-sub000/geometry"
)

var log = logger.GetLogger("tui")

const (
	doubleClickTime = 400 * time.Millisecond
	wheelStep       = 3 * CellHeight
	zoomFactor      = 1.1
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("236"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

type Options struct {
	// Filename is where ctrl+s writes the drawing when Save is nil.
	Filename      string
	Autosave      *autosave.Saver
	Confirmations bool
	// Save replaces the file save, for example to write a stored project.
	Save func(ed *editor.Editor) error
}

type Model struct {
	ed   *editor.Editor
	opts Options

	width, height int
	help          bool
	confirmQuit   bool
	dirty         bool

	pressed   bool
	lastClick time.Time
	lastCell  [2]int
	now       func() time.Time

	message string
	err     string
}

func New(ed *editor.Editor, opts Options) *Model {
	m := &Model{ed: ed, opts: opts, now: time.Now}
	ed.OnChange(m.changed)
	return m
}

// Run drives the editor until the user quits, then flushes the autosave.
func Run(ed *editor.Editor, opts Options) error {
	p := tea.NewProgram(
		New(ed, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	if opts.Autosave != nil {
		if ferr := opts.Autosave.Flush(); ferr != nil {
			log.Errorf("final autosave: %v", ferr)
		}
	}
	return err
}

func (m *Model) changed() {
	m.dirty = true
	if m.opts.Autosave == nil {
		return
	}
	if err := m.opts.Autosave.Schedule(m.ed.Document()); err != nil {
		log.Errorf("autosave: %v", err)
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) canvasHeight() int {
	return max(m.height-1, 1)
}

func (m *Model) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, editor.ErrReadOnly):
		m.err = "view only"
	default:
		m.err = err.Error()
	}
}

func (m *Model) save() {
	var err error
	if m.opts.Save != nil {
		err = m.opts.Save(m.ed)
	} else if m.opts.Filename != "" {
		err = document.WriteFile(m.opts.Filename, m.ed.Document())
	} else {
		err = fmt.Errorf("no file to save to")
	}
	if err != nil {
		m.err = err.Error()
		return
	}
	m.dirty = false
	m.message = "saved"
	if m.opts.Filename != "" && m.opts.Save == nil {
		m.message = "saved " + m.opts.Filename
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	screen := cellCenter(msg.X, msg.Y)
	mods := editor.Modifiers{Shift: msg.Shift, Alt: msg.Alt, Ctrl: msg.Ctrl}
	if msg.Y >= m.canvasHeight() && !m.pressed {
		return
	}

	switch msg.Type {
	case tea.MouseLeft:
		if m.pressed {
			m.report(m.ed.PointerMove(screen, mods))
			return
		}
		m.pressed = true
		m.message, m.err = "", ""
		m.report(m.ed.PointerDown(screen, mods))
	case tea.MouseMotion:
		m.report(m.ed.PointerMove(screen, mods))
	case tea.MouseRelease:
		if !m.pressed {
			return
		}
		m.pressed = false
		m.report(m.ed.PointerUp(screen, mods))
		now, cell := m.now(), [2]int{msg.X, msg.Y}
		if cell == m.lastCell && now.Sub(m.lastClick) < doubleClickTime {
			m.report(m.ed.DoubleClick(screen))
			m.lastClick = time.Time{}
			return
		}
		m.lastClick, m.lastCell = now, cell
	case tea.MouseWheelUp:
		m.ed.Wheel(screen, 0, -wheelStep, mods)
	case tea.MouseWheelDown:
		m.ed.Wheel(screen, 0, wheelStep, mods)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if m.confirmQuit {
		m.confirmQuit = false
		if key == "y" {
			return tea.Quit
		}
		return nil
	}
	if m.help {
		m.help = false
		return nil
	}
	m.message, m.err = "", ""

	if m.ed.TextEdit() != nil {
		m.textKey(msg)
		return nil
	}

	switch key {
	case "q", "ctrl+q":
		if m.opts.Confirmations && m.dirty {
			m.confirmQuit = true
			return nil
		}
		return tea.Quit
	case "?":
		m.help = true
	case "ctrl+s":
		m.save()
	case "g":
		g := m.ed.Grid()
		g.Snap = !g.Snap
		m.ed.SetGrid(g)
	case "+", "=":
		m.zoom(zoomFactor)
	case "-", "_":
		m.zoom(1 / zoomFactor)
	case "[", "]", "{", "}":
		name, shift := key, false
		switch key {
		case "{":
			name, shift = "[", true
		case "}":
			name, shift = "]", true
		}
		m.report(m.ed.KeyDown(editor.Key{Name: name, Modifiers: editor.Modifiers{Ctrl: true, Shift: shift}}))
	case "0":
		m.report(m.ed.KeyDown(editor.Key{Name: "0", Modifiers: editor.Modifiers{Ctrl: true}}))
	case "up", "down", "left", "right", "shift+up", "shift+down", "shift+left", "shift+right":
		m.pan(key)
	default:
		if k, ok := editorKey(msg); ok {
			m.report(m.ed.KeyDown(k))
		}
	}
	return nil
}

func (m *Model) textKey(msg tea.KeyMsg) {
	switch {
	case msg.Type == tea.KeyRunes && len(msg.Runes) > 1:
		m.ed.TextInput(string(msg.Runes))
	case msg.Type == tea.KeyEnter && msg.Alt:
		m.report(m.ed.KeyDown(editor.Key{Name: "enter", Modifiers: editor.Modifiers{Shift: true}}))
	default:
		if k, ok := editorKey(msg); ok {
			m.report(m.ed.KeyDown(k))
		}
	}
}

// editorKey translates a terminal key into the editor's key names.
func editorKey(msg tea.KeyMsg) (editor.Key, bool) {
	mods := editor.Modifiers{Alt: msg.Alt}
	switch msg.Type {
	case tea.KeyRunes:
		return editor.Key{Name: string(msg.Runes), Modifiers: mods}, true
	case tea.KeySpace:
		return editor.Key{Name: "space", Modifiers: mods}, true
	case tea.KeyEnter:
		return editor.Key{Name: "enter", Modifiers: mods}, true
	case tea.KeyEsc:
		return editor.Key{Name: "escape", Modifiers: mods}, true
	case tea.KeyBackspace:
		return editor.Key{Name: "backspace", Modifiers: mods}, true
	case tea.KeyDelete:
		return editor.Key{Name: "delete", Modifiers: mods}, true
	}
	if name, ok := strings.CutPrefix(msg.String(), "ctrl+"); ok {
		mods.Ctrl = true
		return editor.Key{Name: name, Modifiers: mods}, true
	}
	return editor.Key{}, false
}

// pan scrolls one cell per arrow press, two with shift.
func (m *Model) pan(key string) {
	speed := 1.0
	if strings.HasPrefix(key, "shift+") {
		speed = 2
	}
	v := m.ed.Viewport()
	switch strings.TrimPrefix(key, "shift+") {
	case "left":
		v.Pan.X += speed * CellWidth
	case "right":
		v.Pan.X -= speed * CellWidth
	case "up":
		v.Pan.Y += speed * CellHeight
	case "down":
		v.Pan.Y -= speed * CellHeight
	}
	m.ed.SetViewport(v)
}

func (m *Model) zoom(factor float64) {
	center := geometry.Pt(float64(m.width)*CellWidth/2, float64(m.canvasHeight())*CellHeight/2)
	m.ed.ZoomAt(m.ed.Viewport().Zoom*factor, center)
}

func (m *Model) View() string {
	if m.help {
		return helpView()
	}
	var b strings.Builder
	b.WriteString(rasterize(m.ed, m.width, m.canvasHeight()).String())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m *Model) statusLine() string {
	if m.confirmQuit {
		return statusStyle.Render("Mode: CONFIRM | Quit with unsaved changes? (y/n)")
	}
	parts := []string{
		fmt.Sprintf("Mode: %s", m.ed.Mode()),
		fmt.Sprintf("Tool: %s", m.ed.Tool()),
		fmt.Sprintf("Zoom: %d%%", int(m.ed.Viewport().Zoom*100+0.5)),
		fmt.Sprintf("%d elements", len(m.ed.Elements())),
	}
	if n := len(m.ed.Selected()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	if m.ed.Grid().Snap {
		parts = append(parts, "snap")
	}
	if !m.ed.CanEdit() {
		parts = append(parts, "VIEW ONLY")
	}
	if m.dirty {
		parts = append(parts, "modified")
	}
	line := statusStyle.Render(strings.Join(parts, " | "))
	switch {
	case m.err != "":
		line += " " + errorStyle.Render("ERROR: "+m.err)
	case m.message != "":
		line += " " + okStyle.Render(m.message)
	default:
		line += " ? for help | q to quit"
	}
	return line
}

func helpView() string {
	lines := []string{
		"Zen Draw Help",
		"=============",
		"",
		"Tools:",
		"------",
		"  v / 1   select        h   hand (pan)",
		"  r       rectangle     o   ellipse",
		"  d       diamond       l   line",
		"  a       arrow         p   freehand",
		"  t       text          e   eraser",
		"",
		"Mouse:",
		"------",
		"  drag            draw, move, resize or marquee select",
		"  shift+click     add to / remove from selection",
		"  double click    edit text",
		"  wheel           pan; ctrl+wheel zooms",
		"",
		"Keys:",
		"-----",
		"  ctrl+z / ctrl+y   undo / redo",
		"  ctrl+c / ctrl+x / ctrl+v   copy / cut / paste",
		"  ctrl+d            duplicate",
		"  ctrl+a            select all",
		"  delete            delete selection",
		"  [ ] { }           send backward / forward / to back / to front",
		"  arrows            pan (shift = faster)",
		"  + - 0             zoom in / out / reset",
		"  g                 toggle grid snapping",
		"  ctrl+s            save",
		"  esc               clear selection, cancel text",
		"  q                 quit",
		"",
		"Press any key to return",
	}
	return strings.Join(lines, "\n")
}
