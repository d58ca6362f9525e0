// Package anim plays the displacement animation of tiles pushed aside by a
// drag.
//
// The animation never feeds back into layout. Boxes are captured before a
// surface mutation with [Capture]; after the mutation [Plan] compares them
// with the new boxes and yields one [Transition] per tile that moved. Each
// transition runs a relative translate from the old visual offset to zero,
// so the tile appears to slide from where it was into where the layout has
// already put it:
//
//	before := anim.Capture(siblings)
//	container.InsertBefore(dragged, anchor)
//	player.Play(anim.Plan(before, siblings))
package anim

import (
	"math"
	"time"

	"github.com/matzehuels/startpage/pkg/layout"
)

// Duration is the length of a displacement transition.
const Duration = 200 * time.Millisecond

// Snapshot maps elements to the box they occupied at capture time.
type Snapshot map[layout.Element]layout.Rect

// Capture records the current box of every element.
func Capture[E layout.Element](elements []E) Snapshot {
	s := make(Snapshot, len(elements))
	for _, e := range elements {
		s[e] = e.Bounds()
	}
	return s
}

// Transition is a relative translate from (DX, DY) back to the origin.
type Transition struct {
	Target   layout.Element
	DX, DY   float64
	Duration time.Duration
	Easing   Easing
}

// Plan returns transitions for every element whose box moved since before.
// Elements missing from before are skipped.
func Plan[E layout.Element](before Snapshot, elements []E) []Transition {
	var out []Transition
	for _, e := range elements {
		old, ok := before[e]
		if !ok {
			continue
		}
		now := e.Bounds()
		dx, dy := old.X-now.X, old.Y-now.Y
		if dx == 0 && dy == 0 {
			continue
		}
		out = append(out, Transition{Target: e, DX: dx, DY: dy, Duration: Duration, Easing: EaseInOut})
	}
	return out
}

// Offset returns the translate to apply elapsed into the transition.
func (t Transition) Offset(elapsed time.Duration) (dx, dy float64) {
	if elapsed >= t.Duration || t.Duration <= 0 {
		return 0, 0
	}
	if elapsed < 0 {
		elapsed = 0
	}
	ease := t.Easing
	if ease == nil {
		ease = Linear
	}
	remain := 1 - ease(float64(elapsed)/float64(t.Duration))
	return t.DX * remain, t.DY * remain
}

// Done reports whether the transition has finished at elapsed.
func (t Transition) Done(elapsed time.Duration) bool {
	return elapsed >= t.Duration
}

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(p float64) float64

// Linear is the identity easing.
func Linear(p float64) float64 { return p }

// EaseInOut is the CSS "ease-in-out" timing function.
var EaseInOut = CubicBezier(0.42, 0, 0.58, 1)

// CubicBezier returns the CSS cubic-bezier timing function with control
// points (x1, y1) and (x2, y2).
func CubicBezier(x1, y1, x2, y2 float64) Easing {
	cx := 3 * x1
	bx := 3*(x2-x1) - cx
	ax := 1 - cx - bx
	cy := 3 * y1
	by := 3*(y2-y1) - cy
	ay := 1 - cy - by

	sampleX := func(t float64) float64 { return ((ax*t+bx)*t + cx) * t }
	sampleY := func(t float64) float64 { return ((ay*t+by)*t + cy) * t }
	slopeX := func(t float64) float64 { return (3*ax*t+2*bx)*t + cx }

	return func(p float64) float64 {
		if p <= 0 {
			return 0
		}
		if p >= 1 {
			return 1
		}
		// Newton first, bisection when the slope flattens.
		t := p
		for i := 0; i < 8; i++ {
			x := sampleX(t) - p
			if math.Abs(x) < 1e-7 {
				return sampleY(t)
			}
			d := slopeX(t)
			if math.Abs(d) < 1e-6 {
				break
			}
			t -= x / d
		}
		lo, hi := 0.0, 1.0
		t = p
		for i := 0; i < 32; i++ {
			x := sampleX(t)
			if math.Abs(x-p) < 1e-7 {
				break
			}
			if x < p {
				lo = t
			} else {
				hi = t
			}
			t = (lo + hi) / 2
		}
		return sampleY(t)
	}
}
