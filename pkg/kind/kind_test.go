package kind

import (
	"testing"

	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/errors"
	"github.com/matzehuels/startpage/pkg/surface"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	tags := r.Tags()
	if len(tags) != 2 || tags[0] != document.TypeShortcut || tags[1] != document.TypeInsertionPoint {
		t.Errorf("Tags() = %v", tags)
	}
	if _, err := r.Lookup("Weather"); !errors.Is(err, errors.ErrCodeUnknownKind) {
		t.Errorf("Lookup unknown = %v, want UNKNOWN_KIND", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	if _, err := NewRegistry(Shortcut{}, Shortcut{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("duplicate register = %v, want INVALID_INPUT", err)
	}
}

func TestCheck(t *testing.T) {
	r := DefaultRegistry()
	doc := document.New()
	doc.Elements = []document.Container{Shortcut{}.Default(), {Type: "Clock"}}
	if err := r.Check(doc); !errors.Is(err, errors.ErrCodeUnknownKind) {
		t.Errorf("Check = %v, want UNKNOWN_KIND", err)
	}
	doc.Elements = doc.Elements[:1]
	if err := r.Check(doc); err != nil {
		t.Errorf("Check = %v", err)
	}
}

func TestShortcutDefault(t *testing.T) {
	c := Shortcut{}.Default()
	if c.Type != document.TypeShortcut || c.Styles.Cols != 4 || c.Styles.BackgroundColor != "#2d2d38" {
		t.Errorf("Default() = %+v", c)
	}
	if c.Content == nil || len(c.Content) != 0 {
		t.Errorf("Default content = %#v, want empty list", c.Content)
	}
	c.Content = append(c.Content, document.Item{Name: "x"})
	if len(Shortcut{}.Default().Content) != 0 {
		t.Error("Default must return a fresh container")
	}
}

func TestShortcutLoadContainerFillsDefaults(t *testing.T) {
	tree := surface.NewTree(800, 600)
	n := Shortcut{}.LoadContainer(tree, document.Container{
		Type:    document.TypeShortcut,
		Content: []document.Item{{Name: "a"}, {Name: "b"}},
	})
	if n.Role != surface.RoleContainer || n.Styles.Cols != document.DefaultCols {
		t.Errorf("container = %v styles %+v", n, n.Styles)
	}
	if got := len(n.Tiles()); got != 2 {
		t.Errorf("tiles = %d, want 2", got)
	}
}

func TestShortcutStartEditIdempotent(t *testing.T) {
	tree := surface.NewTree(800, 600)
	n := Shortcut{}.LoadContainer(tree, Shortcut{}.Default())
	Shortcut{}.StartEdit(n)
	Shortcut{}.StartEdit(n)

	count := 0
	for _, c := range n.Children() {
		if c.Role == surface.RoleAffordance {
			count++
		}
	}
	if count != 1 {
		t.Errorf("affordances = %d, want 1", count)
	}
}

func TestInsertionPointIsSentinel(t *testing.T) {
	tree := surface.NewTree(800, 600)
	n := InsertionPoint{}.LoadContainer(tree, InsertionPoint{}.Default())
	if n.Role != surface.RoleSentinel || !n.CreatesGroup() || !n.Backed() {
		t.Errorf("insertion point node = %v", n)
	}
	if !(InsertionPoint{}).Default().Sentinel() {
		t.Error("default insertion point must be a sentinel")
	}
}
