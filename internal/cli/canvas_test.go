package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/startpage/pkg/kind"
	"github.com/matzehuels/startpage/pkg/layout"
	"github.com/matzehuels/startpage/pkg/surface"
)

func TestCanvasSpanClips(t *testing.T) {
	cv := newCanvas(10, 5, 10, 20, "#000000")
	tests := []struct {
		r              layout.Rect
		x0, y0, x1, y1 int
	}{
		{layout.Rect{X: 0, Y: 0, W: 100, H: 100}, 0, 0, 10, 5},
		{layout.Rect{X: 15, Y: 30, W: 20, H: 20}, 1, 1, 4, 3},
		{layout.Rect{X: -50, Y: -50, W: 20, H: 20}, 0, 0, 0, 0},
		{layout.Rect{X: 95, Y: 95, W: 100, H: 100}, 9, 4, 10, 5},
	}
	for _, tt := range tests {
		x0, y0, x1, y1 := cv.span(tt.r)
		if x0 != tt.x0 || y0 != tt.y0 || x1 != tt.x1 || y1 != tt.y1 {
			t.Errorf("span(%+v) = %d,%d,%d,%d want %d,%d,%d,%d", tt.r, x0, y0, x1, y1, tt.x0, tt.y0, tt.x1, tt.y1)
		}
	}
}

func TestCanvasText(t *testing.T) {
	cv := newCanvas(8, 2, 10, 20, "#000000")
	r := layout.Rect{W: 80, H: 40}
	cv.text(r, 0, "hi", paintText, false)
	cv.text(r, -1, "a long label", paintText, false)

	lines := strings.Split(cv.Plain(), "\n")
	if lines[0] != "   hi   " {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "a long… " {
		t.Errorf("line 1 = %q", lines[1])
	}
	if cv.String() == "" {
		t.Error("styled render is empty")
	}
}

func TestPaintTree(t *testing.T) {
	tree := surface.NewTree(800, 440)
	if err := tree.Mount(testPage("Alpha", "Beta"), kind.DefaultRegistry().Resolve); err != nil {
		t.Fatal(err)
	}

	cv := newCanvas(80, 22, 10, 20, tree.Style.BackgroundColor)
	paintTree(cv, tree, nil, time.Time{})
	plain := cv.Plain()
	for _, want := range []string{"Alpha", "Beta"} {
		if !strings.Contains(plain, want) {
			t.Errorf("canvas missing %q", want)
		}
	}
	if strings.Contains(plain, "Delete") {
		t.Error("delete zone painted outside edit mode")
	}

	tree.StartEdit()
	cv = newCanvas(80, 22, 10, 20, tree.Style.BackgroundColor)
	paintTree(cv, tree, nil, time.Time{})
	plain = cv.Plain()
	for _, want := range []string{"Delete", "new group", "+"} {
		if !strings.Contains(plain, want) {
			t.Errorf("edit canvas missing %q", want)
		}
	}
}
