package surface

import (
	"fmt"
	"slices"

	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/layout"
)

// Role is the structural kind of a node.
type Role int

const (
	RoleBody Role = iota
	RoleContainer
	RoleSentinel
	RoleSpacer
	RoleTile
	RoleAffordance
	RoleDeleteZone
	RoleClone
)

var roleNames = [...]string{"body", "container", "sentinel", "spacer", "tile", "affordance", "delete", "clone"}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Marker classes.
const (
	ClassDragging        = "dragging"
	ClassStartedDragging = "started_dragging"
	ClassDragContainer   = "drag_container"
	ClassCreateContainer = "drag_create_container"
	ClassDraggable       = "draggable_element"
	ClassClone           = "dragging_clone"
	ClassEditMode        = "edit_mode"
)

// Node is one element of the surface.
type Node struct {
	ID   int
	Role Role

	// Kind is the container kind tag for containers and sentinels.
	Kind string
	// Styles are the display parameters of a container.
	Styles document.ContainerStyles
	// Item is the tile payload.
	Item document.Item
	// Label is the text of affordance tiles.
	Label string

	// Opacity of the node, 1 when opaque.
	Opacity float64

	// Fixed nodes are positioned at Fixed in viewport coordinates.
	Fixed *layout.Rect

	tree     *Tree
	parent   *Node
	children []*Node
	classes  map[string]bool
	rect     layout.Rect
}

func (n *Node) String() string {
	switch n.Role {
	case RoleTile, RoleClone:
		return fmt.Sprintf("%s#%d(%s)", n.Role, n.ID, n.Item.Name)
	case RoleContainer, RoleSentinel:
		return fmt.Sprintf("%s#%d(%s)", n.Role, n.ID, n.Kind)
	default:
		return fmt.Sprintf("%s#%d", n.Role, n.ID)
	}
}

// Tree returns the tree the node belongs to.
func (n *Node) Tree() *Tree { return n.tree }

// Parent returns the parent node, nil when detached or for the body.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Tiles returns the draggable tile children in order.
func (n *Node) Tiles() []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Role == RoleTile {
			out = append(out, c)
		}
	}
	return out
}

// TilesExcept returns the tile children other than skip.
func (n *Node) TilesExcept(skip *Node) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Role == RoleTile && c != skip {
			out = append(out, c)
		}
	}
	return out
}

// Index returns the position of n among its parent's children, or -1.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	return slices.Index(n.parent.children, n)
}

// NextSibling returns the node after n in its parent, or nil.
func (n *Node) NextSibling() *Node {
	i := n.Index()
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[i+1]
}

// PrevSibling returns the node before n in its parent, or nil.
func (n *Node) PrevSibling() *Node {
	i := n.Index()
	if i <= 0 {
		return nil
	}
	return n.parent.children[i-1]
}

// ─── classes ──────────────────────────────────────────────────

// AddClass sets a marker class.
func (n *Node) AddClass(names ...string) {
	if n.classes == nil {
		n.classes = make(map[string]bool)
	}
	for _, c := range names {
		n.classes[c] = true
	}
}

// RemoveClass clears a marker class.
func (n *Node) RemoveClass(names ...string) {
	for _, c := range names {
		delete(n.classes, c)
	}
}

// HasClass reports whether a marker class is set.
func (n *Node) HasClass(name string) bool { return n.classes[name] }

// Closest returns the nearest node, starting with n itself and walking up
// the parents, for which match returns true.
func (n *Node) Closest(match func(*Node) bool) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if match(cur) {
			return cur
		}
	}
	return nil
}

// DropTarget reports whether the node accepts dropped tiles.
func (n *Node) DropTarget() bool {
	return n.Role == RoleDeleteZone || n.HasClass(ClassDragContainer)
}

// CreatesGroup reports whether dropping here wraps the tile in a new
// container.
func (n *Node) CreatesGroup() bool {
	return n.Role == RoleSpacer || n.Role == RoleSentinel
}

// Backed reports whether the node mirrors a document element.
func (n *Node) Backed() bool {
	return n.Role == RoleContainer || n.Role == RoleSentinel
}

// ─── structure ────────────────────────────────────────────────

// AppendChild moves child to the end of n's children.
func (n *Node) AppendChild(child *Node) {
	child.detach()
	child.parent = n
	n.children = append(n.children, child)
	n.tree.invalidate()
}

// AppendTile appends child after the last tile, keeping affordances last.
func (n *Node) AppendTile(child *Node) {
	child.detach()
	at := len(n.children)
	for i, c := range n.children {
		if c.Role == RoleAffordance {
			at = i
			break
		}
	}
	child.parent = n
	n.children = slices.Insert(n.children, at, child)
	n.tree.invalidate()
}

// InsertBefore moves child in front of ref. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) error {
	if ref == nil {
		n.AppendChild(child)
		return nil
	}
	if ref.parent != n {
		return fmt.Errorf("insert %s: reference %s is not a child of %s", child, ref, n)
	}
	if child == ref {
		return nil
	}
	child.detach()
	i := slices.Index(n.children, ref)
	child.parent = n
	n.children = slices.Insert(n.children, i, child)
	n.tree.invalidate()
	return nil
}

// InsertAfter moves child behind ref.
func (n *Node) InsertAfter(child, ref *Node) error {
	if ref.parent != n {
		return fmt.Errorf("insert %s: reference %s is not a child of %s", child, ref, n)
	}
	if child == ref {
		return nil
	}
	next := ref.NextSibling()
	if next == child {
		return nil
	}
	return n.InsertBefore(child, next)
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	n.detach()
	n.tree.invalidate()
}

func (n *Node) detach() {
	if n.parent == nil {
		return
	}
	p := n.parent
	if i := slices.Index(p.children, n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = nil
}

// ─── geometry ─────────────────────────────────────────────────

// Bounds returns the node's box in document coordinates, reflowing the
// tree first when it is dirty. It implements layout.Element.
func (n *Node) Bounds() layout.Rect {
	n.tree.ensureLayout()
	if n.Fixed != nil {
		return n.Fixed.Translate(0, n.tree.ScrollY)
	}
	return n.rect
}

// ClientRect returns the node's box in viewport coordinates.
func (n *Node) ClientRect() layout.Rect {
	return n.Bounds().Translate(0, -n.tree.ScrollY)
}

var _ layout.Element = (*Node)(nil)
