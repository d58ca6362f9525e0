package anim

import (
	"time"

	"github.com/matzehuels/startpage/pkg/layout"
)

// Player receives transitions once the surface mutation they animate has
// completed. Play must not block.
type Player interface {
	Play(ts []Transition)
}

// NopPlayer discards transitions.
type NopPlayer struct{}

// Play does nothing.
func (NopPlayer) Play([]Transition) {}

// Timeline is a Player that keeps running transitions so a renderer can
// sample per-element offsets each frame. A new transition for an element
// replaces the running one, starting from the element's current offset.
// Timeline is not safe for concurrent use.
type Timeline struct {
	now     func() time.Time
	running map[layout.Element]entry
}

type entry struct {
	t     Transition
	start time.Time
}

// NewTimeline returns a timeline reading the clock from now; nil uses
// time.Now.
func NewTimeline(now func() time.Time) *Timeline {
	if now == nil {
		now = time.Now
	}
	return &Timeline{now: now, running: make(map[layout.Element]entry)}
}

// Play starts the transitions at the current time.
func (tl *Timeline) Play(ts []Transition) {
	at := tl.now()
	for _, t := range ts {
		if prev, ok := tl.running[t.Target]; ok {
			dx, dy := prev.t.Offset(at.Sub(prev.start))
			t.DX += dx
			t.DY += dy
		}
		tl.running[t.Target] = entry{t: t, start: at}
	}
}

// Offset returns the translate of e at instant at.
func (tl *Timeline) Offset(e layout.Element, at time.Time) (dx, dy float64) {
	r, ok := tl.running[e]
	if !ok {
		return 0, 0
	}
	return r.t.Offset(at.Sub(r.start))
}

// Active reports whether any transition is still running at instant at,
// dropping the finished ones.
func (tl *Timeline) Active(at time.Time) bool {
	for e, r := range tl.running {
		if r.t.Done(at.Sub(r.start)) {
			delete(tl.running, e)
		}
	}
	return len(tl.running) > 0
}

// Reset drops every running transition.
func (tl *Timeline) Reset() {
	clear(tl.running)
}

var (
	_ Player = (*Timeline)(nil)
	_ Player = NopPlayer{}
)
