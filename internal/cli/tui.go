package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/startpage/pkg/anim"
	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/drag"
	"github.com/matzehuels/startpage/pkg/store"
	"github.com/matzehuels/startpage/pkg/surface"
)

// frameInterval paces timers and animations.
const frameInterval = 33 * time.Millisecond

// statusLines are reserved below the page.
const statusLines = 2

var (
	statusBarStyle = lipgloss.NewStyle().Foreground(colorGray)
	statusKeyStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	statusErrStyle = lipgloss.NewStyle().Foreground(colorRed)
)

type tickMsg time.Time

// reloadMsg carries a page changed on disk by another writer.
type reloadMsg struct {
	doc *document.Document
	err error
}

// =============================================================================
// EditorModel - Drag-and-drop page editor
// =============================================================================

// EditorModel is the bubbletea model of the terminal page editor. Mouse
// press, motion and release drive the drag controller; one terminal cell
// spans CellWidth by CellHeight layout units.
type EditorModel struct {
	ctx      context.Context
	key      string
	store    store.Store
	ctrl     *drag.Controller
	tree     *surface.Tree
	loop     *drag.Loop
	timeline *anim.Timeline
	logger   *log.Logger
	cfg      EditorConfig
	now      func() time.Time

	source  drag.Source
	reloads chan reloadMsg
	pending *document.Document

	width, height int
	dragged       string
	seen          uuid.UUID
	status        string
	err           error
}

// editorDeps are the collaborators of an EditorModel.
type editorDeps struct {
	Key      string
	Store    store.Store
	Ctrl     *drag.Controller
	Tree     *surface.Tree
	Loop     *drag.Loop
	Timeline *anim.Timeline
	Logger   *log.Logger
	Config   EditorConfig
	Now      func() time.Time
}

func newEditorModel(ctx context.Context, d editorDeps) *EditorModel {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	m := &EditorModel{
		ctx:      ctx,
		key:      d.Key,
		store:    d.Store,
		ctrl:     d.Ctrl,
		tree:     d.Tree,
		loop:     d.Loop,
		timeline: d.Timeline,
		logger:   d.Logger,
		cfg:      d.Config,
		now:      d.Now,
		source:   drag.SourcePointer,
		status:   "drag tiles with the mouse",
	}
	if d.Config.Touch {
		m.source = drag.SourceTouch
	}
	return m
}

// watch subscribes the editor to external changes of a file-backed page.
// Other backends are not watched.
func (m *EditorModel) watch(ctx context.Context) error {
	inst, ok := m.store.(*store.Instrumented)
	if !ok {
		return nil
	}
	fs, ok := inst.Unwrap().(*store.FileStore)
	if !ok {
		return nil
	}
	m.reloads = make(chan reloadMsg, 1)
	// The latest change wins when the editor has not caught up.
	return fs.Watch(ctx, m.key, func(doc *document.Document, err error) {
		msg := reloadMsg{doc: doc, err: err}
		for {
			select {
			case m.reloads <- msg:
				return
			default:
			}
			select {
			case <-m.reloads:
			default:
			}
		}
	})
}

func (m *EditorModel) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.waitReload())
}

func (m *EditorModel) tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *EditorModel) waitReload() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	ch := m.reloads
	return func() tea.Msg { return <-ch }
}

func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(tea.MouseEvent(msg))

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.tree.Resize(float64(msg.Width)*m.cfg.CellWidth, float64(max(msg.Height-statusLines, 1))*m.cfg.CellHeight)

	case tickMsg:
		m.loop.RunDue(time.Time(msg))
		m.loop.Flush()
		m.observe()
		return m, m.tick()

	case reloadMsg:
		m.handleReload(msg)
		return m, m.waitReload()
	}
	return m, nil
}

func (m *EditorModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case "e":
		if m.ctrl.Session() != nil {
			return nil
		}
		if m.tree.Editing() {
			m.tree.StopEdit()
			m.status = "edit mode off"
		} else {
			m.tree.StartEdit()
			m.status = "edit mode on"
		}
	case "t":
		if m.ctrl.Session() != nil {
			return nil
		}
		if m.source == drag.SourceTouch {
			m.source = drag.SourcePointer
		} else {
			m.source = drag.SourceTouch
		}
		m.status = "gestures use " + m.source.String() + " semantics"
	case "r":
		doc, err := store.LoadOrNew(m.ctx, m.store, m.key)
		if err != nil {
			m.err = err
			return nil
		}
		m.handleReload(reloadMsg{doc: doc})
	case "up", "k":
		m.tree.ScrollTo(m.tree.ScrollY - m.cfg.CellHeight)
	case "down", "j":
		m.tree.ScrollTo(m.tree.ScrollY + m.cfg.CellHeight)
	case "pgup":
		m.tree.ScrollTo(m.tree.ScrollY - m.tree.Viewport.H)
	case "pgdown":
		m.tree.ScrollTo(m.tree.ScrollY + m.tree.Viewport.H)
	}
	return nil
}

// units maps a terminal cell to the layout point at its centre.
func (m *EditorModel) units(cx, cy int) (x, y float64) {
	return (float64(cx) + 0.5) * m.cfg.CellWidth, (float64(cy) + 0.5) * m.cfg.CellHeight
}

func (m *EditorModel) handleMouse(ev tea.MouseEvent) {
	x, y := m.units(ev.X, ev.Y)
	switch {
	case ev.Button == tea.MouseButtonWheelUp:
		m.tree.ScrollTo(m.tree.ScrollY - 3*m.cfg.CellHeight)
	case ev.Button == tea.MouseButtonWheelDown:
		m.tree.ScrollTo(m.tree.ScrollY + 3*m.cfg.CellHeight)
	case ev.Action == tea.MouseActionPress && ev.Button == tea.MouseButtonLeft:
		m.press(x, y)
	case ev.Action == tea.MouseActionMotion:
		m.motion(x, y)
	case ev.Action == tea.MouseActionRelease:
		m.release(x, y)
	}
}

func (m *EditorModel) press(x, y float64) {
	target := m.tree.HitTest(x, y)
	if target.Role != surface.RoleTile {
		return
	}
	m.err = nil
	if err := m.ctrl.DragStart(drag.Event{X: x, Y: y, Target: target, Source: m.source}); err != nil {
		m.err = err
		return
	}
	m.dragged = target.Item.Name
	// The frame after the grab is the layout pass the marker waits for.
	m.loop.Flush()
}

func (m *EditorModel) motion(x, y float64) {
	if m.ctrl.Session() == nil {
		return
	}
	ev := drag.Event{X: x, Y: y, Source: m.source}
	if m.source == drag.SourceTouch {
		m.ctrl.UpdateDrag(ev, nil)
		return
	}
	ev.Target = m.tree.HitTest(x, y)
	m.ctrl.DragOver(ev)
}

func (m *EditorModel) release(x, y float64) {
	s := m.ctrl.Session()
	if s == nil {
		return
	}
	ev := drag.Event{X: x, Y: y, Source: m.source}
	if m.source == drag.SourcePointer {
		ev.Target = s.Node
	}
	if err := m.ctrl.EndDrag(m.ctx, ev); err != nil {
		m.err = err
	}
	m.observe()
}

// observe reports a newly finished gesture and applies a reload that
// arrived during it.
func (m *EditorModel) observe() {
	if m.ctrl.Session() != nil {
		return
	}
	if res := m.ctrl.LastResult(); res.Session != uuid.Nil && res.Session != m.seen {
		m.seen = res.Session
		m.status = describeResult(m.dragged, res)
		m.logger.Debug("gesture finished", "outcome", res.Outcome, "from", res.From, "to", res.To, "duration", res.Duration)
	}
	if m.pending != nil {
		doc := m.pending
		m.pending = nil
		m.handleReload(reloadMsg{doc: doc})
	}
}

func (m *EditorModel) handleReload(msg reloadMsg) {
	switch {
	case msg.err != nil:
		m.err = msg.err
	case m.ctrl.Session() != nil:
		m.pending = msg.doc
	default:
		if err := m.ctrl.Reset(msg.doc); err != nil {
			m.err = err
			return
		}
		m.timeline.Reset()
		m.status = "page reloaded"
	}
}

func describeResult(name string, res drag.Result) string {
	switch res.Outcome {
	case drag.OutcomeMoved:
		return fmt.Sprintf("moved %s to %d.%d", name, res.To.Container, res.To.Item)
	case drag.OutcomeNewGroup:
		return fmt.Sprintf("%s starts group %d", name, res.To.Container)
	case drag.OutcomeDeleted:
		return "deleted " + name
	}
	return "drag of " + name + " cancelled"
}

func (m *EditorModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	rows := max(m.height-statusLines, 1)
	cv := newCanvas(m.width, rows, m.cfg.CellWidth, m.cfg.CellHeight, m.tree.Style.BackgroundColor)
	paintTree(cv, m.tree, m.timeline, m.now())

	var b strings.Builder
	b.WriteString(cv.String())
	b.WriteByte('\n')
	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(StyleDim.Render("drag tiles · e edit · t touch/pointer · r reload · ↑/↓ scroll · q quit"))
	return b.String()
}

func (m *EditorModel) statusLine() string {
	mode := "view"
	if m.tree.Editing() {
		mode = "edit"
	}
	parts := []string{
		statusKeyStyle.Render(m.key),
		mode,
		m.source.String(),
		m.ctrl.State().String(),
	}
	line := statusBarStyle.Render(strings.Join(parts, " · "))
	if m.err != nil {
		return line + "  " + statusErrStyle.Render(m.err.Error())
	}
	return line + "  " + StyleValue.Render(m.status)
}
