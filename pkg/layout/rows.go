package layout

import "math"

// RowTolerance is the maximum distance, exclusive, between the vertical
// centres of two tiles in the same row.
const RowTolerance = 5.0

// Element is anything with a rendered box measured in document flow
// coordinates (offset from the top of the page, not from the viewport).
type Element interface {
	Bounds() Rect
}

// Member is one tile of a row together with its horizontal centre.
type Member struct {
	Element Element
	Center  float64
}

// Row is a group of tiles sharing a vertical centre.
type Row struct {
	Center  float64
	Members []Member
}

// Index is the row structure of one container at one instant.
type Index struct {
	Rows []Row

	// DraggedRow is the row the dragged element falls into, or -1 when no
	// dragged element was given.
	DraggedRow int
}

// BuildRows clusters children into rows by vertical centre.
//
// dragged may be nil. When it is set it is placed into a row with the same
// rule but never listed as a member; if it matches no existing row a
// member-less row is created for it. Children equal to dragged are skipped.
func BuildRows(children []Element, dragged Element) Index {
	idx := Index{DraggedRow: -1}

	for _, el := range children {
		if dragged != nil && el == dragged {
			continue
		}
		b := el.Bounds()
		i := idx.rowFor(b.CenterY())
		idx.Rows[i].Members = append(idx.Rows[i].Members, Member{Element: el, Center: b.CenterX()})
	}

	if dragged != nil {
		idx.DraggedRow = idx.rowFor(dragged.Bounds().CenterY())
	}
	return idx
}

// rowFor returns the index of the first row within tolerance of center,
// opening a new row when none qualifies.
func (idx *Index) rowFor(center float64) int {
	for i, r := range idx.Rows {
		if math.Abs(r.Center-center) < RowTolerance {
			return i
		}
	}
	idx.Rows = append(idx.Rows, Row{Center: center})
	return len(idx.Rows) - 1
}

// Nearest returns the populated row whose centre is closest to y, or nil
// when no row has members. Ties go to the row discovered first.
func (idx Index) Nearest(y float64) *Row {
	var best *Row
	bestDist := math.Inf(1)
	for i := range idx.Rows {
		r := &idx.Rows[i]
		if len(r.Members) == 0 {
			continue
		}
		if d := math.Abs(y - r.Center); d < bestDist {
			bestDist = d
			best = r
		}
	}
	return best
}

// Anchor returns the member with the smallest centre strictly greater than
// x: the tile the dragged one should be inserted before. It returns nil
// when the pointer is right of every member.
func (r *Row) Anchor(x float64) Element {
	var best Element
	bestDist := math.Inf(1)
	for _, m := range r.Members {
		d := m.Center - x
		if d > 0 && d < bestDist {
			bestDist = d
			best = m.Element
		}
	}
	return best
}

// Last returns the last member in discovery order, or nil for an empty row.
func (r *Row) Last() Element {
	if len(r.Members) == 0 {
		return nil
	}
	return r.Members[len(r.Members)-1].Element
}
