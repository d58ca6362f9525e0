package cli

import (
	"context"
	"io"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/startpage/pkg/anim"
	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/drag"
	"github.com/matzehuels/startpage/pkg/kind"
	"github.com/matzehuels/startpage/pkg/store"
	"github.com/matzehuels/startpage/pkg/surface"
)

func testPage(names ...string) *document.Document {
	doc := document.New()
	group := kind.Shortcut{}.Default()
	for _, n := range names {
		group.Content = append(group.Content, document.Item{Name: n, Link: "https://" + strings.ToLower(n) + ".example"})
	}
	doc.Elements = []document.Container{group, kind.InsertionPoint{}.Default()}
	return doc
}

func pageNames(doc *document.Document) [][]string {
	var out [][]string
	for _, c := range doc.Elements {
		row := []string{}
		for _, it := range c.Content {
			row = append(row, it.Name)
		}
		out = append(out, row)
	}
	return out
}

// newTestEditor mounts doc in edit mode on an 80x24 terminal.
func newTestEditor(t *testing.T, s store.Store, doc *document.Document, touch bool) *EditorModel {
	t.Helper()
	cfg := DefaultConfig().Editor
	cfg.Touch = touch

	tree := surface.NewTree(80*cfg.CellWidth, 22*cfg.CellHeight)
	kinds := kind.DefaultRegistry()
	if err := tree.Mount(doc, kinds.Resolve); err != nil {
		t.Fatal(err)
	}
	tree.StartEdit()

	clock := time.Unix(0, 0)
	now := func() time.Time { return clock }
	loop := drag.NewLoop(now)
	timeline := anim.NewTimeline(now)
	logger := newLogger(io.Discard, log.DebugLevel)
	ctrl, err := drag.NewController(drag.Config{
		Tree:      tree,
		Document:  doc,
		Store:     s,
		Key:       "home",
		Scheduler: loop,
		Kinds:     kinds,
		Player:    timeline,
		Logger:    logger,
		Now:       now,
	})
	if err != nil {
		t.Fatal(err)
	}
	m := newEditorModel(context.Background(), editorDeps{
		Key:      "home",
		Store:    s,
		Ctrl:     ctrl,
		Tree:     tree,
		Loop:     loop,
		Timeline: timeline,
		Logger:   logger,
		Config:   cfg,
		Now:      now,
	})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func mouse(m *EditorModel, action tea.MouseAction, x, y int) {
	m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
}

func TestEditorPointerDragWithinGroup(t *testing.T) {
	s := store.NewMemoryStore()
	m := newTestEditor(t, s, testPage("A", "B", "C", "D"), false)

	// A sits at cell (23,4); the gap right of D at column 60.
	mouse(m, tea.MouseActionPress, 23, 4)
	if m.ctrl.State() != drag.StateDragging {
		t.Fatalf("state after press = %s", m.ctrl.State())
	}
	mouse(m, tea.MouseActionMotion, 60, 4)
	mouse(m, tea.MouseActionRelease, 60, 4)

	if m.err != nil {
		t.Fatalf("editor error: %v", m.err)
	}
	want := [][]string{{"B", "C", "D", "A"}, {}}
	stored, _ := s.Load(context.Background(), "home")
	if got := pageNames(stored); !reflect.DeepEqual(got, want) {
		t.Errorf("stored = %v, want %v", got, want)
	}
	if m.status != "moved A to 0.3" {
		t.Errorf("status = %q", m.status)
	}
}

func TestEditorTouchDropOnSentinelStartsGroup(t *testing.T) {
	s := store.NewMemoryStore()
	m := newTestEditor(t, s, testPage("A", "B", "C", "D"), true)

	mouse(m, tea.MouseActionPress, 23, 4)
	// Edit mode adds a second row for the affordance; the sentinel strip
	// then starts at y=375.
	mouse(m, tea.MouseActionMotion, 30, 19)
	mouse(m, tea.MouseActionRelease, 30, 19)

	if m.err != nil {
		t.Fatalf("editor error: %v", m.err)
	}
	want := [][]string{{"B", "C", "D"}, {"A"}, {}}
	if got := pageNames(m.ctrl.Document()); !reflect.DeepEqual(got, want) {
		t.Errorf("document = %v, want %v", got, want)
	}
	if res := m.ctrl.LastResult(); res.Outcome != drag.OutcomeNewGroup {
		t.Errorf("outcome = %s", res.Outcome)
	}
}

func TestEditorPressOutsideTilesIsIgnored(t *testing.T) {
	m := newTestEditor(t, store.NewMemoryStore(), testPage("A"), false)
	mouse(m, tea.MouseActionPress, 2, 2)
	if m.ctrl.Session() != nil {
		t.Error("press on the page background started a drag")
	}
	mouse(m, tea.MouseActionRelease, 2, 2)
	if m.err != nil {
		t.Errorf("release without drag reported %v", m.err)
	}
}

func TestEditorKeys(t *testing.T) {
	m := newTestEditor(t, store.NewMemoryStore(), testPage("A"), false)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if m.tree.Editing() {
		t.Error("e did not leave edit mode")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	if m.source != drag.SourceTouch {
		t.Error("t did not switch to touch")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("q returned no command")
	}
}

func TestEditorReload(t *testing.T) {
	m := newTestEditor(t, store.NewMemoryStore(), testPage("A", "B"), false)

	m.Update(reloadMsg{doc: testPage("X")})
	if got := pageNames(m.ctrl.Document()); !reflect.DeepEqual(got, [][]string{{"X"}, {}}) {
		t.Fatalf("document after reload = %v", got)
	}
	if m.tree.FindTile("X") == nil {
		t.Fatal("surface not remounted")
	}

	// A reload during a gesture waits for the gesture to end.
	mouse(m, tea.MouseActionPress, 23, 4)
	m.Update(reloadMsg{doc: testPage("Y")})
	if m.tree.FindTile("Y") != nil {
		t.Fatal("reload applied mid-gesture")
	}
	mouse(m, tea.MouseActionRelease, 23, 4)
	if m.tree.FindTile("Y") == nil {
		t.Error("deferred reload not applied after the gesture")
	}
}

func TestEditorWatchesFileStore(t *testing.T) {
	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := store.Instrument(fs, store.BackendFile, nil)
	m := newTestEditor(t, s, testPage("A"), false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := m.watch(ctx); err != nil {
		t.Fatal(err)
	}
	data, _ := testPage("Z").Marshal()
	if err := os.WriteFile(fs.Path("home"), data, 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case msg := <-m.reloads:
			if msg.err != nil {
				continue
			}
			m.Update(msg)
			if m.tree.FindTile("Z") == nil {
				t.Error("watched change not mounted")
			}
			return
		case <-deadline:
			t.Fatal("no reload from file watcher")
		}
	}
}

func TestEditorView(t *testing.T) {
	m := newTestEditor(t, store.NewMemoryStore(), testPage("Alpha"), false)
	view := m.View()
	for _, want := range []string{"home", "edit", "pointer", "idle"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
