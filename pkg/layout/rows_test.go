package layout

import (
	"testing"
)

// box is a fixed-geometry Element.
type box struct {
	name string
	r    Rect
}

func (b *box) Bounds() Rect { return b.r }

// tile builds a 10x10 box centred on (cx, cy).
func tile(name string, cx, cy float64) *box {
	return &box{name: name, r: Rect{X: cx - 5, Y: cy - 5, W: 10, H: 10}}
}

func elems(bs ...*box) []Element {
	out := make([]Element, len(bs))
	for i, b := range bs {
		out[i] = b
	}
	return out
}

func memberNames(r Row) []string {
	out := make([]string, len(r.Members))
	for i, m := range r.Members {
		out[i] = m.Element.(*box).name
	}
	return out
}

func TestBuildRowsClustering(t *testing.T) {
	a, b, c := tile("a", 0, 10), tile("b", 20, 13), tile("c", 40, 20)

	idx := BuildRows(elems(a, b, c), nil)

	if len(idx.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(idx.Rows))
	}
	if got := memberNames(idx.Rows[0]); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("row 0 = %v, want [a b]", got)
	}
	if got := memberNames(idx.Rows[1]); len(got) != 1 || got[0] != "c" {
		t.Errorf("row 1 = %v, want [c]", got)
	}
	if idx.Rows[0].Center != 10 {
		t.Errorf("row 0 centre = %v, want 10 (first member, not averaged)", idx.Rows[0].Center)
	}
	if idx.DraggedRow != -1 {
		t.Errorf("DraggedRow = %d, want -1", idx.DraggedRow)
	}
}

func TestBuildRowsToleranceIsExclusive(t *testing.T) {
	tests := []struct {
		name    string
		dy      float64
		sameRow bool
	}{
		{"identical", 0, true},
		{"just inside", 4.99, true},
		{"at tolerance", 5, false},
		{"outside", 12, false},
		{"negative inside", -4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := BuildRows(elems(tile("a", 0, 100), tile("b", 20, 100+tt.dy)), nil)
			if got := len(idx.Rows) == 1; got != tt.sameRow {
				t.Errorf("same row = %v, want %v", got, tt.sameRow)
			}
		})
	}
}

func TestBuildRowsDiscoveryOrder(t *testing.T) {
	idx := BuildRows(elems(tile("low", 0, 200), tile("high", 0, 50)), nil)
	if idx.Rows[0].Center != 200 || idx.Rows[1].Center != 50 {
		t.Errorf("rows not in discovery order: %v, %v", idx.Rows[0].Center, idx.Rows[1].Center)
	}
}

func TestBuildRowsDraggedNotMember(t *testing.T) {
	a, b, d := tile("a", 0, 10), tile("b", 20, 10), tile("d", 40, 11)

	idx := BuildRows(elems(a, d, b), d)

	if len(idx.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(idx.Rows))
	}
	if got := memberNames(idx.Rows[0]); len(got) != 2 {
		t.Errorf("members = %v, dragged element must not be listed", got)
	}
	if idx.DraggedRow != 0 {
		t.Errorf("DraggedRow = %d, want 0", idx.DraggedRow)
	}
}

func TestBuildRowsDraggedAlone(t *testing.T) {
	d := tile("d", 0, 10)

	idx := BuildRows(nil, d)

	if len(idx.Rows) != 1 || len(idx.Rows[0].Members) != 0 {
		t.Fatalf("rows = %+v, want one empty row", idx.Rows)
	}
	if idx.Nearest(10) != nil {
		t.Error("Nearest() must ignore rows without members")
	}
}

func TestBuildRowsFresh(t *testing.T) {
	a := tile("a", 0, 10)
	first := BuildRows(elems(a), nil)
	a.r = a.r.Translate(0, 100)
	second := BuildRows(elems(a), nil)

	if first.Rows[0].Center == second.Rows[0].Center {
		t.Error("BuildRows() must measure current geometry every call")
	}
}

func TestNearest(t *testing.T) {
	idx := BuildRows(elems(tile("a", 0, 10), tile("b", 0, 60), tile("c", 0, 110)), nil)

	tests := []struct {
		y    float64
		want float64
	}{
		{0, 10},
		{34, 10},
		{36, 60},
		{500, 110},
		{35, 10}, // tie goes to the first row
	}
	for _, tt := range tests {
		if got := idx.Nearest(tt.y); got == nil || got.Center != tt.want {
			t.Errorf("Nearest(%v) = %v, want row at %v", tt.y, got, tt.want)
		}
	}
}

func TestAnchorNearestRight(t *testing.T) {
	a, b, c := tile("a", 50, 10), tile("b", 150, 10), tile("c", 250, 10)
	row := BuildRows(elems(a, b, c), nil).Nearest(10)

	tests := []struct {
		name string
		x    float64
		want Element
	}{
		{"between a and b", 120, b},
		{"left of everything", 0, a},
		{"exactly on a centre", 150, c},
		{"right of everything", 300, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := row.Anchor(tt.x); got != tt.want {
				t.Errorf("Anchor(%v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}
	if row.Last() != c {
		t.Errorf("Last() = %v, want c", row.Last())
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 10, H: 10}
	if !r.Contains(10, 10) || !r.Contains(19.9, 19.9) {
		t.Error("Contains() should include the top-left edge")
	}
	if r.Contains(20, 15) || r.Contains(15, 20) {
		t.Error("Contains() should exclude the right and bottom edges")
	}
	if r.CenterX() != 15 || r.CenterY() != 15 {
		t.Errorf("centre = (%v, %v), want (15, 15)", r.CenterX(), r.CenterY())
	}
}
