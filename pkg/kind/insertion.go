package kind

import (
	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/surface"
)

// InsertionPoint is the sentinel kind: an empty drop zone that survives
// pruning.
type InsertionPoint struct{}

// Tag implements Kind.
func (InsertionPoint) Tag() string { return document.TypeInsertionPoint }

// Default implements Kind.
func (InsertionPoint) Default() document.Container {
	return document.Container{Type: document.TypeInsertionPoint, Content: []document.Item{}}
}

// LoadContainer implements Kind. Sentinels never render content.
func (InsertionPoint) LoadContainer(t *surface.Tree, c document.Container) *surface.Node {
	return t.NewContainer(document.TypeInsertionPoint, c.Styles)
}

// CreateElement implements Kind.
func (InsertionPoint) CreateElement(t *surface.Tree, it document.Item) *surface.Node {
	return t.NewTile(it)
}

// StartEdit implements Kind.
func (InsertionPoint) StartEdit(n *surface.Node) { n.AddClass(surface.ClassDragContainer) }

// StopEdit implements Kind.
func (InsertionPoint) StopEdit(n *surface.Node) { n.RemoveClass(surface.ClassDragContainer) }

var _ Kind = InsertionPoint{}
