package drag

import (
	"slices"

	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/errors"
	"github.com/matzehuels/startpage/pkg/surface"
)

// commit applies the drop to the document. Destination indices are read
// from the surface before anything is pruned, when document-backed
// containers still map one to one onto document elements; both sides are
// pruned afterwards.
func (c *Controller) commit(s *Session) (Result, error) {
	node := s.Node
	parent := node.Parent()
	res := Result{Session: s.ID, From: s.Origin}

	switch {
	case parent == nil:
		return res, errors.New(errors.ErrCodeInternal, "dragged tile %v is detached", node)

	case parent.Role == surface.RoleDeleteZone:
		if _, err := c.doc.RemoveItem(s.Origin); err != nil {
			return res, err
		}
		node.Remove()
		res.Outcome = OutcomeDeleted
		res.To = document.Position{Container: -1, Item: -1}

	case parent.CreatesGroup():
		to, err := c.newGroup(s, parent)
		if err != nil {
			return res, err
		}
		res.Outcome = OutcomeNewGroup
		res.To = to

	case parent.Backed():
		to, err := c.tree.Position(parent, node)
		if err != nil {
			return res, err
		}
		it, err := c.doc.RemoveItem(s.Origin)
		if err != nil {
			return res, err
		}
		if err := c.doc.InsertItem(to, it); err != nil {
			return res, err
		}
		res.Outcome = OutcomeMoved
		res.To = to

	default:
		return res, errors.New(errors.ErrCodeInternal, "dragged tile %v ended in %v", node, parent)
	}

	res.Pruned = c.doc.Prune()
	if got := c.tree.Prune(); !slices.Equal(got, res.Pruned) {
		c.logger.Error("surface and document pruned differently, remounting",
			"surface", got, "document", res.Pruned)
		if err := c.tree.Mount(c.doc, c.kinds.Resolve); err != nil {
			return res, err
		}
	}
	if res.To.Container >= 0 {
		for _, i := range res.Pruned {
			if i < res.To.Container {
				res.To.Container--
			}
		}
	}
	return res, nil
}

// newGroup wraps the dragged tile in a fresh container of the origin's
// kind. The group takes the drop zone's place: after a spacer, or in front
// of a sentinel.
func (c *Controller) newGroup(s *Session, zone *surface.Node) (document.Position, error) {
	k, err := c.kinds.Lookup(s.OriginKind)
	if err != nil {
		return document.Position{}, err
	}
	idx := c.tree.BackedBefore(zone)

	it, err := c.doc.RemoveItem(s.Origin)
	if err != nil {
		return document.Position{}, err
	}
	group := k.Default()
	group.Content = []document.Item{it}
	if err := c.doc.InsertContainer(idx, group); err != nil {
		return document.Position{}, err
	}

	n := k.LoadContainer(c.tree, k.Default())
	n.AppendTile(s.Node)
	body := c.tree.Body
	if zone.Role == surface.RoleSpacer {
		_ = body.InsertAfter(n, zone)
	} else {
		_ = body.InsertBefore(n, zone)
	}
	_ = body.InsertAfter(c.tree.NewSpacer(), n)
	if c.tree.Editing() {
		k.StartEdit(n)
	}
	return document.Position{Container: idx, Item: 0}, nil
}
