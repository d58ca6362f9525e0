package kind

import (
	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/surface"
)

// AddShortcutLabel is the caption of the edit-mode affordance.
const AddShortcutLabel = "Add Shortcut"

// Shortcut is the link-tile grid kind.
type Shortcut struct{}

// Tag implements Kind.
func (Shortcut) Tag() string { return document.TypeShortcut }

// Default implements Kind.
func (Shortcut) Default() document.Container {
	return document.Container{
		Type: document.TypeShortcut,
		Styles: document.ContainerStyles{
			Cols:            document.DefaultCols,
			BackgroundColor: document.DefaultContainerBackground,
		},
		Content: []document.Item{},
	}
}

// LoadContainer implements Kind.
func (s Shortcut) LoadContainer(t *surface.Tree, c document.Container) *surface.Node {
	styles := c.Styles
	if styles.Cols <= 0 {
		styles.Cols = document.DefaultCols
	}
	if styles.BackgroundColor == "" {
		styles.BackgroundColor = document.DefaultContainerBackground
	}
	n := t.NewContainer(document.TypeShortcut, styles)
	for _, it := range c.Content {
		n.AppendTile(s.CreateElement(t, it))
	}
	return n
}

// CreateElement implements Kind.
func (Shortcut) CreateElement(t *surface.Tree, it document.Item) *surface.Node {
	return t.NewTile(it)
}

// StartEdit makes the container a drop target and appends the
// "Add Shortcut" affordance.
func (Shortcut) StartEdit(n *surface.Node) {
	n.AddClass(surface.ClassDragContainer)
	for _, c := range n.Children() {
		if c.Role == surface.RoleAffordance {
			return
		}
	}
	n.AppendChild(n.Tree().NewAffordance(AddShortcutLabel))
}

// StopEdit implements Kind.
func (Shortcut) StopEdit(n *surface.Node) {
	n.RemoveClass(surface.ClassDragContainer)
	for _, c := range n.Children() {
		if c.Role == surface.RoleAffordance {
			c.Remove()
		}
	}
}

var _ Kind = Shortcut{}
