// Package layout builds the row index used to place a dragged tile.
//
// # Overview
//
// Tiles inside a container wrap into visual rows. Which row a tile sits in
// is a geometric fact, not a data-model fact: it depends on the rendered
// column count, the tile width and the viewport. [BuildRows] therefore
// measures the current geometry of every tile and clusters them by their
// vertical centre:
//
//	idx := layout.BuildRows(children, dragged)
//	row := idx.Nearest(pointerY + scrollY)
//	if anchor := row.Anchor(pointerX); anchor != nil {
//	    // insert before anchor
//	}
//
// # Clustering
//
// A tile joins the first existing row whose centre lies strictly within
// [RowTolerance] of its own centre; otherwise it opens a new row. Rows are
// kept in discovery order. The row centre is the centre of the tile that
// opened it and is never averaged, so with centres {10, 13, 20} the rows
// are {10, 13} and {20}.
//
// # Freshness
//
// An [Index] is a snapshot. Container contents change between drag ticks,
// so callers build a new index each tick instead of patching an old one.
package layout
