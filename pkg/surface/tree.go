package surface

import (
	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/errors"
	"github.com/matzehuels/startpage/pkg/layout"
)

// Kind is the part of a container kind the surface needs to mount and
// toggle edit mode.
type Kind interface {
	// Tag is the document type tag the kind renders.
	Tag() string
	// LoadContainer builds the container node, tiles included.
	LoadContainer(t *Tree, c document.Container) *Node
	// StartEdit decorates a mounted container for edit mode.
	StartEdit(n *Node)
	// StopEdit undoes StartEdit.
	StopEdit(n *Node)
}

// Resolver looks up the kind for a type tag.
type Resolver func(tag string) (Kind, error)

// Tree is a mounted page.
type Tree struct {
	Body       *Node
	DeleteZone *Node

	// Viewport is the visible area. Width drives the grid, height bounds
	// scrolling.
	Viewport struct{ W, H float64 }
	// ScrollY is the vertical scroll offset of the viewport.
	ScrollY float64
	Metrics Metrics
	Style   document.Style

	resolve Resolver
	editing bool
	nextID  int
	dirty   bool
	height  float64
}

// NewTree returns an empty tree for a viewport of w by h units.
func NewTree(w, h float64) *Tree {
	t := &Tree{Metrics: DefaultMetrics(), Style: document.New().Style}
	t.Viewport.W, t.Viewport.H = w, h
	t.Body = t.newNode(RoleBody)
	t.Body.tree = t
	t.DeleteZone = t.newNode(RoleDeleteZone)
	t.DeleteZone.Label = "Delete"
	t.Body.AppendChild(t.DeleteZone)
	t.dirty = true
	return t
}

func (t *Tree) newNode(r Role) *Node {
	t.nextID++
	return &Node{ID: t.nextID, Role: r, Opacity: 1, tree: t}
}

func (t *Tree) invalidate() {
	if t != nil {
		t.dirty = true
	}
}

// NewTile returns a detached draggable tile for it.
func (t *Tree) NewTile(it document.Item) *Node {
	n := t.newNode(RoleTile)
	n.Item = it
	n.AddClass(ClassDraggable)
	return n
}

// NewContainer returns a detached container node. Containers of the
// sentinel kind get RoleSentinel.
func (t *Tree) NewContainer(tag string, styles document.ContainerStyles) *Node {
	r := RoleContainer
	if tag == document.TypeInsertionPoint {
		r = RoleSentinel
	}
	n := t.newNode(r)
	n.Kind = tag
	n.Styles = styles
	return n
}

// NewSpacer returns a detached create-new-group strip. It accepts drops
// only while the tree is in edit mode.
func (t *Tree) NewSpacer() *Node {
	n := t.newNode(RoleSpacer)
	n.AddClass(ClassCreateContainer)
	if t.editing {
		n.AddClass(ClassDragContainer)
	}
	return n
}

// NewAffordance returns a detached non-draggable action tile.
func (t *Tree) NewAffordance(label string) *Node {
	n := t.newNode(RoleAffordance)
	n.Label = label
	return n
}

// NewClone returns a drag image of src attached to the body, fixed at
// src's current viewport position.
func (t *Tree) NewClone(src *Node) *Node {
	r := src.ClientRect()
	n := t.newNode(RoleClone)
	n.Item = src.Item
	n.Fixed = &r
	n.AddClass(ClassClone)
	t.Body.AppendChild(n)
	return n
}

// MoveFixed repositions a fixed node to viewport point (x, y).
func (n *Node) MoveFixed(x, y float64) {
	if n.Fixed == nil {
		return
	}
	n.Fixed.X, n.Fixed.Y = x, y
}

// ─── mounting ─────────────────────────────────────────────────

// Mount replaces the page content with doc, keeping the scroll offset
// where the new content allows it. Every container type must resolve; on
// error the tree is left empty.
func (t *Tree) Mount(doc *document.Document, resolve Resolver) error {
	t.clear()
	t.resolve = resolve
	if doc == nil {
		return nil
	}
	t.Style = doc.Style

	kinds := make([]Kind, len(doc.Elements))
	for i, c := range doc.Elements {
		k, err := resolve(c.Type)
		if err != nil {
			return errors.Wrap(errors.ErrCodeUnknownKind, err, "mount element %d", i)
		}
		kinds[i] = k
	}
	for i, c := range doc.Elements {
		n := kinds[i].LoadContainer(t, c)
		t.Body.InsertBefore(n, t.DeleteZone)
		if !n.CreatesGroup() {
			t.Body.InsertBefore(t.NewSpacer(), t.DeleteZone)
		}
		if t.editing {
			kinds[i].StartEdit(n)
		}
	}
	t.ScrollTo(t.ScrollY)
	return nil
}

func (t *Tree) clear() {
	for _, c := range t.Body.Children() {
		if c != t.DeleteZone {
			c.Remove()
		}
	}
}

// Kind resolves the kind of a mounted container node.
func (t *Tree) Kind(n *Node) (Kind, error) {
	if t.resolve == nil {
		return nil, errors.New(errors.ErrCodeUnknownKind, "tree has no kind resolver")
	}
	return t.resolve(n.Kind)
}

// ─── edit mode ────────────────────────────────────────────────

// Editing reports whether edit mode is on.
func (t *Tree) Editing() bool { return t.editing }

// StartEdit turns on edit mode: spacers accept drops and every container
// gets its kind's edit decoration.
func (t *Tree) StartEdit() {
	if t.editing {
		return
	}
	t.editing = true
	t.Body.AddClass(ClassEditMode)
	t.eachBlock(func(n *Node, k Kind) { k.StartEdit(n) }, func(s *Node) { s.AddClass(ClassDragContainer) })
}

// StopEdit turns edit mode off.
func (t *Tree) StopEdit() {
	if !t.editing {
		return
	}
	t.editing = false
	t.Body.RemoveClass(ClassEditMode)
	t.eachBlock(func(n *Node, k Kind) { k.StopEdit(n) }, func(s *Node) { s.RemoveClass(ClassDragContainer) })
}

func (t *Tree) eachBlock(container func(*Node, Kind), spacer func(*Node)) {
	for _, c := range t.Body.children {
		switch {
		case c.Role == RoleSpacer:
			spacer(c)
		case c.Backed():
			if k, err := t.Kind(c); err == nil {
				container(c, k)
			}
		}
	}
	t.invalidate()
}

// ─── document mapping ─────────────────────────────────────────

// Backed returns the body children that mirror document elements, in
// document order.
func (t *Tree) Backed() []*Node {
	var out []*Node
	for _, c := range t.Body.children {
		if c.Backed() {
			out = append(out, c)
		}
	}
	return out
}

// BackedBefore counts the document-backed body children in front of n.
func (t *Tree) BackedBefore(n *Node) int {
	count := 0
	for _, c := range t.Body.children {
		if c == n {
			return count
		}
		if c.Backed() {
			count++
		}
	}
	return count
}

// Position maps a container node and one of its tiles to document
// indices. A nil tile yields Item -1.
func (t *Tree) Position(container, tile *Node) (document.Position, error) {
	if container == nil || !container.Backed() || container.parent != t.Body {
		return document.Position{}, errors.New(errors.ErrCodeNotFound, "%v is not a mounted container", container)
	}
	pos := document.Position{Container: t.BackedBefore(container), Item: -1}
	if tile == nil {
		return pos, nil
	}
	for i, c := range container.Tiles() {
		if c == tile {
			pos.Item = i
			return pos, nil
		}
	}
	return document.Position{}, errors.New(errors.ErrCodeNotFound, "%v is not a tile of %v", tile, container)
}

// Prune removes every empty regular container together with its paired
// spacer and returns the document indices the containers had.
func (t *Tree) Prune() []int {
	var removed []int
	idx := 0
	for _, c := range t.Body.Children() {
		if !c.Backed() {
			continue
		}
		if c.Role == RoleContainer && len(c.Tiles()) == 0 {
			if s := c.NextSibling(); s != nil && s.Role == RoleSpacer && len(s.children) == 0 {
				s.Remove()
			}
			c.Remove()
			removed = append(removed, idx)
		}
		idx++
	}
	return removed
}

// Contents returns the items of every mounted container in document
// order, the shape the document's elements must have.
func (t *Tree) Contents() [][]document.Item {
	var out [][]document.Item
	for _, c := range t.Backed() {
		items := []document.Item{}
		for _, tile := range c.Tiles() {
			items = append(items, tile.Item)
		}
		out = append(out, items)
	}
	return out
}

// FindTile returns the first tile whose item is named name.
func (t *Tree) FindTile(name string) *Node {
	for _, c := range t.Body.children {
		for _, tile := range c.Tiles() {
			if tile.Item.Name == name {
				return tile
			}
		}
	}
	return nil
}

// Marked returns the first node carrying class, depth first.
func (t *Tree) Marked(class string) *Node {
	var walk func(*Node) *Node
	walk = func(n *Node) *Node {
		if n.HasClass(class) {
			return n
		}
		for _, c := range n.children {
			if m := walk(c); m != nil {
				return m
			}
		}
		return nil
	}
	return walk(t.Body)
}

// ─── scrolling ────────────────────────────────────────────────

// ContentHeight is the height of the laid out page.
func (t *Tree) ContentHeight() float64 {
	t.ensureLayout()
	return t.height
}

// ScrollTo sets the scroll offset, clamped to the content.
func (t *Tree) ScrollTo(y float64) {
	limit := t.ContentHeight() - t.Viewport.H
	if y > limit {
		y = limit
	}
	if y < 0 {
		y = 0
	}
	t.ScrollY = y
}

// Resize changes the viewport.
func (t *Tree) Resize(w, h float64) {
	t.Viewport.W, t.Viewport.H = w, h
	t.invalidate()
	t.ScrollTo(t.ScrollY)
}

// HitTest returns the deepest node under viewport point (x, y). Clones are
// transparent to hits. It returns the body when nothing else matches.
func (t *Tree) HitTest(x, y float64) *Node {
	t.ensureLayout()
	for _, c := range t.Body.children {
		if c.Role == RoleDeleteZone && c.ClientRect().Contains(x, y) {
			return c
		}
	}
	dy := y + t.ScrollY
	for _, c := range t.Body.children {
		if c.Fixed != nil || !c.rect.Contains(x, dy) {
			continue
		}
		for _, child := range c.children {
			if child.Role != RoleClone && child.rect.Contains(x, dy) {
				return child
			}
		}
		return c
	}
	return t.Body
}

// Rects returns the box of every laid out node, for renderers.
func (t *Tree) Rects() map[*Node]layout.Rect {
	t.ensureLayout()
	out := make(map[*Node]layout.Rect)
	var walk func(*Node)
	walk = func(n *Node) {
		for _, c := range n.children {
			out[c] = c.Bounds()
			walk(c)
		}
	}
	walk(t.Body)
	return out
}
