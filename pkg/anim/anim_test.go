package anim

import (
	"math"
	"testing"
	"time"

	"github.com/matzehuels/startpage/pkg/layout"
)

type box struct{ r layout.Rect }

func (b *box) Bounds() layout.Rect { return b.r }

func TestPlanOnlyMovedElements(t *testing.T) {
	a := &box{layout.Rect{X: 0, Y: 0, W: 10, H: 10}}
	b := &box{layout.Rect{X: 20, Y: 0, W: 10, H: 10}}
	boxes := []*box{a, b}

	before := Capture(boxes)
	b.r = b.r.Translate(30, 40)

	ts := Plan(before, boxes)
	if len(ts) != 1 {
		t.Fatalf("got %d transitions, want 1", len(ts))
	}
	tr := ts[0]
	if tr.Target != b {
		t.Errorf("Target = %v, want b", tr.Target)
	}
	if tr.DX != -30 || tr.DY != -40 {
		t.Errorf("delta = (%v, %v), want (-30, -40)", tr.DX, tr.DY)
	}
	if tr.Duration != 200*time.Millisecond {
		t.Errorf("Duration = %v, want 200ms", tr.Duration)
	}
}

func TestPlanSkipsUncaptured(t *testing.T) {
	a := &box{layout.Rect{W: 10, H: 10}}
	if ts := Plan(Snapshot{}, []*box{a}); len(ts) != 0 {
		t.Errorf("got %d transitions for an uncaptured element", len(ts))
	}
}

func TestTransitionOffset(t *testing.T) {
	tr := Transition{DX: -100, DY: 50, Duration: Duration, Easing: EaseInOut}

	tests := []struct {
		name    string
		elapsed time.Duration
		wantDX  float64
	}{
		{"start", 0, -100},
		{"before start", -time.Second, -100},
		{"midpoint", Duration / 2, -50},
		{"end", Duration, 0},
		{"after end", time.Second, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx, _ := tr.Offset(tt.elapsed)
			if math.Abs(dx-tt.wantDX) > 1e-3 {
				t.Errorf("Offset(%v) dx = %v, want %v", tt.elapsed, dx, tt.wantDX)
			}
		})
	}
}

func TestEaseInOut(t *testing.T) {
	if EaseInOut(0) != 0 || EaseInOut(1) != 1 {
		t.Error("endpoints must be fixed")
	}
	if got := EaseInOut(0.5); math.Abs(got-0.5) > 1e-4 {
		t.Errorf("EaseInOut(0.5) = %v, want 0.5 (symmetric curve)", got)
	}
	if EaseInOut(0.1) >= 0.1 {
		t.Error("ease-in-out should start slower than linear")
	}
	if EaseInOut(0.9) <= 0.9 {
		t.Error("ease-in-out should end slower than linear")
	}
	prev := 0.0
	for p := 0.01; p < 1; p += 0.01 {
		v := EaseInOut(p)
		if v < prev {
			t.Fatalf("EaseInOut not monotonic at %v", p)
		}
		prev = v
	}
}

func TestTimeline(t *testing.T) {
	now := time.Unix(0, 0)
	tl := NewTimeline(func() time.Time { return now })
	a := &box{}

	tl.Play([]Transition{{Target: a, DX: 10, Duration: Duration, Easing: Linear}})

	if dx, _ := tl.Offset(a, now); dx != 10 {
		t.Errorf("offset at start = %v, want 10", dx)
	}
	if dx, _ := tl.Offset(a, now.Add(Duration/2)); dx != 5 {
		t.Errorf("offset at half = %v, want 5", dx)
	}
	if !tl.Active(now.Add(Duration / 2)) {
		t.Error("timeline should be active mid-transition")
	}

	// Retarget halfway: the new transition starts from the current offset.
	now = now.Add(Duration / 2)
	tl.Play([]Transition{{Target: a, DX: 10, Duration: Duration, Easing: Linear}})
	if dx, _ := tl.Offset(a, now); dx != 15 {
		t.Errorf("offset after retarget = %v, want 15", dx)
	}

	if tl.Active(now.Add(Duration)) {
		t.Error("timeline should be idle after the last transition ends")
	}
	if dx, _ := tl.Offset(a, now); dx != 0 {
		t.Errorf("finished transitions must be dropped, got offset %v", dx)
	}
}
