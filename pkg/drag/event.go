package drag

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/surface"
)

// Source is the input device of a gesture.
type Source int

const (
	// SourcePointer is a mouse or pen. The front end reports the element
	// under the pointer as the event target.
	SourcePointer Source = iota
	// SourceTouch is a touch screen. Targets are resolved by hit-testing
	// the pointer position and the clone follows the finger.
	SourceTouch
)

func (s Source) String() string {
	if s == SourceTouch {
		return "touch"
	}
	return "pointer"
}

// State is the controller state.
type State int

const (
	StateIdle State = iota
	StateGrabbed
	StateDragging
	StateCommitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGrabbed:
		return "grabbed"
	case StateDragging:
		return "dragging"
	case StateCommitting:
		return "committing"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Event is a pointer or touch sample. X and Y are viewport coordinates.
type Event struct {
	X, Y   float64
	Target *surface.Node
	Source Source
}

// Session is the state of the gesture in progress.
type Session struct {
	ID uuid.UUID

	// Node is the tile being dragged.
	Node *surface.Node
	// Origin is where the tile was in the document when grabbed.
	Origin document.Position
	// OriginKind is the type tag of the origin container.
	OriginKind string
	// Clone is the drag image.
	Clone *surface.Node
	// DragImage is set for pointer gestures, where the clone is the
	// registered drag image rather than a finger-following overlay.
	DragImage bool
	Source    Source
	Started   time.Time

	// OffsetX and OffsetY are the pointer position inside the tile at grab.
	OffsetX, OffsetY float64
	// LastX and LastY are the last pointer position that passed the
	// debounce.
	LastX, LastY float64

	retries int
}

func (s *Session) short() string { return s.ID.String()[:8] }

// Outcome classifies a finished gesture.
type Outcome int

const (
	OutcomeMoved Outcome = iota
	OutcomeNewGroup
	OutcomeDeleted
	OutcomeAborted
)

var outcomeNames = [...]string{"moved", "new_group", "deleted", "aborted"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result describes a finished gesture.
type Result struct {
	Session uuid.UUID
	Outcome Outcome
	// From is the origin position in the document before the commit.
	From document.Position
	// To is the tile's position in the document after the commit. It is
	// {-1, -1} for deletions and aborts.
	To document.Position
	// Pruned lists the element indices removed as empty, in the numbering
	// before pruning.
	Pruned   []int
	Duration time.Duration
}
