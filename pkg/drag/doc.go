// Package drag implements the drag-and-drop controller of the start page.
//
// # State machine
//
// A [Controller] owns at most one [Session] and moves through four states:
//
//	Idle ──BeginDrag──▶ Grabbed ──(after layout)──▶ Dragging
//	  ▲                                                │
//	  └──────────── Committing ◀──────EndDrag──────────┘
//
// BeginDrag captures where the tile came from, spawns a drag clone and
// marks the body. The "dragging" marker on the tile itself is deferred to
// the end of the current tick through [Scheduler.AfterLayout] so the drag
// image is taken from the unmarked tile; that deferral is what moves the
// session from Grabbed to Dragging.
//
// # Placement
//
// Every accepted pointer move (debounced to moves of more than 5 units on
// either axis) resolves a candidate drop container and moves the dragged
// tile inside it: empty containers, the delete zone and create-new-group
// zones simply receive the tile as their last child; grid containers are
// clustered into rows with [layout.BuildRows] and the tile goes in front
// of the nearest tile to the right of the pointer in the nearest row.
// Siblings that were pushed aside animate from their old place.
//
// # Commit
//
// EndDrag classifies the drop by the tile's final parent, applies the same
// change to the document, prunes empty containers from both the surface
// and the document and saves the document exactly once. When the dragged
// tile cannot be found, EndDrag retries after [RetryDelay] up to
// [MaxEndRetries] times and then aborts, rebuilding the surface from the
// unchanged document.
//
// # Concurrency
//
// A Controller is not safe for concurrent use. All deferred work goes
// through the [Scheduler]; [Loop] is a single-threaded implementation that
// runs posted tasks when the owner calls [Loop.Flush] and [Loop.RunDue].
package drag
