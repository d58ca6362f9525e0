package drag

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/startpage/pkg/anim"
	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/errors"
	"github.com/matzehuels/startpage/pkg/kind"
	"github.com/matzehuels/startpage/pkg/layout"
	"github.com/matzehuels/startpage/pkg/observability"
	"github.com/matzehuels/startpage/pkg/surface"
)

const (
	// Debounce is the pointer travel, exclusive, on either axis below which
	// an update is ignored.
	Debounce = 5.0

	// RetryDelay is the wait before EndDrag looks for the dragged tile
	// again.
	RetryDelay = 100 * time.Millisecond

	// MaxEndRetries bounds the EndDrag retries before the gesture is
	// aborted.
	MaxEndRetries = 10

	// TouchOpacity is the clone opacity during touch gestures.
	TouchOpacity = 0.7
)

// Saver persists a committed document.
type Saver interface {
	Save(ctx context.Context, key string, doc *document.Document) error
}

// Config wires a Controller.
type Config struct {
	// Tree is the mounted surface. Required.
	Tree *surface.Tree
	// Document is the document the tree was mounted from. Required. The
	// controller mutates it in place on commit.
	Document *document.Document
	// Store receives exactly one Save per commit. Required.
	Store Saver
	// Key names the document in Store.
	Key string
	// Scheduler runs deferred work. Required.
	Scheduler Scheduler

	// Kinds resolves container kinds; nil uses kind.DefaultRegistry.
	Kinds *kind.Registry
	// Player plays displacement animations; nil discards them.
	Player anim.Player
	// Logger receives debug traces; nil uses log.Default.
	Logger *log.Logger
	// Now reads the clock; nil uses time.Now.
	Now func() time.Time
}

// Controller drives drag gestures over a surface and commits them to the
// document.
type Controller struct {
	tree   *surface.Tree
	doc    *document.Document
	store  Saver
	key    string
	sched  Scheduler
	kinds  *kind.Registry
	player anim.Player
	logger *log.Logger
	now    func() time.Time

	state   State
	session *Session
	last    Result
}

// NewController validates cfg and returns an idle controller.
func NewController(cfg Config) (*Controller, error) {
	switch {
	case cfg.Tree == nil:
		return nil, errors.New(errors.ErrCodeInvalidInput, "drag controller needs a surface")
	case cfg.Document == nil:
		return nil, errors.New(errors.ErrCodeInvalidInput, "drag controller needs a document")
	case cfg.Store == nil:
		return nil, errors.New(errors.ErrCodeInvalidInput, "drag controller needs a store")
	case cfg.Scheduler == nil:
		return nil, errors.New(errors.ErrCodeInvalidInput, "drag controller needs a scheduler")
	}
	if cfg.Kinds == nil {
		cfg.Kinds = kind.DefaultRegistry()
	}
	if cfg.Player == nil {
		cfg.Player = anim.NopPlayer{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Controller{
		tree:   cfg.Tree,
		doc:    cfg.Document,
		store:  cfg.Store,
		key:    cfg.Key,
		sched:  cfg.Scheduler,
		kinds:  cfg.Kinds,
		player: cfg.Player,
		logger: cfg.Logger,
		now:    cfg.Now,
	}, nil
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Session returns the gesture in progress, or nil when idle.
func (c *Controller) Session() *Session { return c.session }

// LastResult returns the outcome of the most recent finished gesture.
func (c *Controller) LastResult() Result { return c.last }

// Document returns the document the controller commits to.
func (c *Controller) Document() *document.Document { return c.doc }

// Reset swaps in a new document and remounts the surface. It fails while
// a gesture is in progress.
func (c *Controller) Reset(doc *document.Document) error {
	if c.session != nil {
		return errors.New(errors.ErrCodeDragInProgress, "cannot reload page %q during a drag", c.key)
	}
	if doc == nil {
		return errors.New(errors.ErrCodeInvalidInput, "document cannot be nil")
	}
	c.doc = doc
	return c.tree.Mount(doc, c.kinds.Resolve)
}

// GetPosition maps a container node and one of its tiles to document
// indices; a nil tile yields Item -1.
func (c *Controller) GetPosition(container, tile *surface.Node) (document.Position, error) {
	return c.tree.Position(container, tile)
}

// =============================================================================
// Begin
// =============================================================================

// BeginDrag starts a gesture on tile. ev is the grab point.
func (c *Controller) BeginDrag(tile *surface.Node, ev Event) error {
	if c.session != nil {
		return errors.New(errors.ErrCodeDragInProgress, "drag %s already in progress", c.session.short())
	}
	if tile == nil || tile.Role != surface.RoleTile {
		return errors.New(errors.ErrCodeInvalidInput, "%v is not a draggable tile", tile)
	}
	container := tile.Parent()
	origin, err := c.tree.Position(container, tile)
	if err != nil {
		return err
	}

	r := tile.ClientRect()
	s := &Session{
		ID:         uuid.New(),
		Node:       tile,
		Origin:     origin,
		OriginKind: container.Kind,
		Source:     ev.Source,
		Started:    c.now(),
		OffsetX:    ev.X - r.X,
		OffsetY:    ev.Y - r.Y,
		LastX:      ev.X,
		LastY:      ev.Y,
	}
	s.Clone = c.tree.NewClone(tile)
	if ev.Source == SourceTouch {
		s.Clone.Opacity = TouchOpacity
	} else {
		s.DragImage = true
	}
	c.tree.Body.AddClass(surface.ClassStartedDragging)

	c.session = s
	c.state = StateGrabbed
	c.sched.AfterLayout(func() {
		if c.session != s || c.state != StateGrabbed {
			return
		}
		tile.AddClass(surface.ClassDragging)
		c.state = StateDragging
	})

	c.logger.Debug("drag started",
		"session", s.short(),
		"item", tile.Item.Name,
		"container", origin.Container,
		"index", origin.Item,
		"source", ev.Source)
	observability.Drag().OnDragStart(context.Background(), s.ID.String(), origin.Container, origin.Item)
	return nil
}

// DragStart adapts a raw start event whose target is the grabbed tile.
func (c *Controller) DragStart(ev Event) error {
	return c.BeginDrag(ev.Target, ev)
}

// =============================================================================
// Update
// =============================================================================

// UpdateDrag moves the dragged tile towards ev. candidate is the drop
// container under the pointer for pointer gestures; touch gestures
// resolve it by hit-testing. It reports whether the tile changed place.
func (c *Controller) UpdateDrag(ev Event, candidate *surface.Node) bool {
	s := c.session
	if s == nil || c.state != StateDragging {
		return false
	}
	if math.Abs(ev.X-s.LastX) <= Debounce && math.Abs(ev.Y-s.LastY) <= Debounce {
		return false
	}
	s.LastX, s.LastY = ev.X, ev.Y

	// The clone follows the pointer in both modes; for pointer gestures it
	// stands in for the platform drag image.
	s.Clone.MoveFixed(ev.X-s.OffsetX, ev.Y-s.OffsetY)

	if s.Source == SourceTouch {
		candidate = c.tree.HitTest(ev.X, ev.Y).Closest((*surface.Node).DropTarget)
	}
	if candidate == nil || !candidate.DropTarget() {
		return false
	}

	moved := c.place(s.Node, candidate, ev)
	c.logger.Debug("drag update",
		"session", s.short(),
		"x", ev.X, "y", ev.Y,
		"target", candidate,
		"moved", moved)
	observability.Drag().OnDragUpdate(context.Background(), s.ID.String(), moved)
	return moved
}

// DragOver adapts a raw move event: the candidate is the closest drop
// container of the event target.
func (c *Controller) DragOver(ev Event) bool {
	var candidate *surface.Node
	if ev.Target != nil {
		candidate = ev.Target.Closest((*surface.Node).DropTarget)
	}
	return c.UpdateDrag(ev, candidate)
}

// place moves node inside candidate and animates displaced siblings.
func (c *Controller) place(node, candidate *surface.Node, ev Event) bool {
	oldParent := node.Parent()
	oldIndex := node.Index()

	subjects := candidate.TilesExcept(node)
	if oldParent != nil && oldParent != candidate {
		subjects = append(subjects, oldParent.TilesExcept(node)...)
	}
	before := anim.Capture(subjects)

	siblings := candidate.TilesExcept(node)
	switch {
	case len(siblings) == 0, candidate.Role == surface.RoleDeleteZone, candidate.CreatesGroup():
		candidate.AppendTile(node)
	default:
		c.insertByRows(node, candidate, siblings, ev)
	}

	if node.Parent() == oldParent && node.Index() == oldIndex {
		return false
	}
	c.player.Play(anim.Plan(before, subjects))
	return true
}

// insertByRows puts node before the nearest right neighbour in the row
// closest to the pointer, or after the row's last tile.
func (c *Controller) insertByRows(node, candidate *surface.Node, siblings []*surface.Node, ev Event) {
	elems := make([]layout.Element, len(siblings))
	for i, n := range siblings {
		elems[i] = n
	}
	idx := layout.BuildRows(elems, node)

	row := idx.Nearest(ev.Y + c.tree.ScrollY)
	if row == nil {
		candidate.AppendTile(node)
		return
	}
	if anchor := row.Anchor(ev.X); anchor != nil {
		_ = candidate.InsertBefore(node, anchor.(*surface.Node))
		return
	}
	last := row.Last().(*surface.Node)
	if last == siblings[len(siblings)-1] {
		candidate.AppendTile(node)
		return
	}
	_ = candidate.InsertAfter(node, last)
}

// =============================================================================
// End
// =============================================================================

// EndDrag finishes the gesture. The dragged tile is the event target when
// it is the session's tile, otherwise the tile carrying the dragging
// marker. When neither resolves the end is retried after RetryDelay; after
// MaxEndRetries the gesture is aborted and the surface rebuilt from the
// unchanged document.
func (c *Controller) EndDrag(ctx context.Context, ev Event) error {
	s := c.session
	if s == nil {
		return errors.New(errors.ErrCodeNoDrag, "no drag in progress")
	}

	target := ev.Target
	if target != s.Node {
		target = c.tree.Marked(surface.ClassDragging)
	}
	if target == nil {
		return c.retryEnd(ctx, s, ev)
	}

	c.state = StateCommitting
	c.cleanup(s)

	res, err := c.commit(s)
	if err != nil {
		c.logger.Error("drag commit failed, restoring page", "session", s.short(), "err", err)
		return c.abort(ctx, s, err)
	}

	if err := c.store.Save(ctx, c.key, c.doc); err != nil {
		err = errors.Wrap(errors.ErrCodeStorage, err, "save page %q", c.key)
		c.finish(ctx, s, res, err)
		return err
	}
	c.finish(ctx, s, res, nil)
	return nil
}

// DragEnd adapts a raw end event.
func (c *Controller) DragEnd(ctx context.Context, ev Event) error {
	return c.EndDrag(ctx, ev)
}

func (c *Controller) retryEnd(ctx context.Context, s *Session, ev Event) error {
	if s.retries >= MaxEndRetries {
		err := errors.New(errors.ErrCodeNoDragTarget, "dragged tile not found after %d retries", s.retries)
		c.logger.Warn("drag end unresolved, aborting", "session", s.short(), "retries", s.retries)
		c.cleanup(s)
		return c.abort(ctx, s, err)
	}
	s.retries++
	c.logger.Debug("drag end deferred", "session", s.short(), "attempt", s.retries)
	observability.Drag().OnEndRetry(ctx, s.ID.String(), s.retries)

	ev.Target = nil
	c.sched.After(RetryDelay, func() {
		if c.session != s {
			return
		}
		if err := c.EndDrag(ctx, ev); err != nil {
			c.logger.Warn("deferred drag end failed", "session", s.short(), "err", err)
		}
	})
	return nil
}

// cleanup removes every gesture marker and the clone.
func (c *Controller) cleanup(s *Session) {
	c.tree.Body.RemoveClass(surface.ClassStartedDragging)
	s.Node.RemoveClass(surface.ClassDragging)
	if s.Clone != nil {
		s.Clone.Remove()
	}
}

// abort drops the session and rebuilds the surface from the document. It
// returns cause.
func (c *Controller) abort(ctx context.Context, s *Session, cause error) error {
	if err := c.tree.Mount(c.doc, c.kinds.Resolve); err != nil {
		c.logger.Error("remount after aborted drag failed", "err", err)
	}
	res := Result{
		Session: s.ID,
		Outcome: OutcomeAborted,
		From:    s.Origin,
		To:      document.Position{Container: -1, Item: -1},
	}
	c.finish(ctx, s, res, cause)
	return cause
}

func (c *Controller) finish(ctx context.Context, s *Session, res Result, err error) {
	res.Duration = c.now().Sub(s.Started)
	c.session = nil
	c.state = StateIdle
	c.last = res

	if err == nil {
		c.logger.Debug("drag committed",
			"session", s.short(),
			"outcome", res.Outcome,
			"from", res.From,
			"to", res.To,
			"pruned", len(res.Pruned))
	}
	observability.Drag().OnDragEnd(ctx, s.ID.String(), res.Outcome.String(), res.Duration, err)
}
