package surface

import (
	"math"

	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/layout"
)

// Metrics are the spacing constants of the flow engine, in layout units.
type Metrics struct {
	// Margin separates blocks from each other and from the page edge.
	Margin float64
	// Padding is the inner padding of containers.
	Padding float64
	// Gap separates grid cells.
	Gap float64
	// ColumnWidth is the width a grid column gets per unit of "cols" when
	// the container does not fix a tile width.
	ColumnWidth float64
	// LabelHeight is added below the square logo of each tile.
	LabelHeight float64
	// SpacerHeight is the height of an empty spacer or sentinel.
	SpacerHeight float64
	// DeleteZone is the fixed size of the delete zone in the top right
	// corner of the viewport.
	DeleteZone struct{ W, H float64 }
}

// DefaultMetrics mirrors the shortcut widget's stylesheet.
func DefaultMetrics() Metrics {
	m := Metrics{
		Margin:       20,
		Padding:      20,
		Gap:          30,
		ColumnWidth:  100,
		LabelHeight:  25,
		SpacerHeight: 40,
	}
	m.DeleteZone.W, m.DeleteZone.H = 100, 60
	return m
}

func (t *Tree) ensureLayout() {
	if t == nil || !t.dirty {
		return
	}
	t.dirty = false
	t.reflow()
}

// reflow stacks blocks vertically and fills each block's grid row by row.
func (t *Tree) reflow() {
	m := t.Metrics
	avail := math.Max(t.Viewport.W-2*m.Margin, 0)
	y := m.Margin

	for _, c := range t.Body.children {
		switch c.Role {
		case RoleDeleteZone:
			c.Fixed = &layout.Rect{
				X: t.Viewport.W - m.DeleteZone.W - m.Margin/2,
				Y: m.Margin / 2,
				W: m.DeleteZone.W,
				H: m.DeleteZone.H,
			}
			continue
		case RoleClone:
			continue
		case RoleContainer:
			y += t.flowGrid(c, m.Margin, y, avail) + m.Margin
		case RoleSpacer, RoleSentinel:
			y += t.flowStrip(c, m.Margin, y, avail) + m.Margin
		}
	}
	t.height = y
	t.Body.rect = layout.Rect{W: t.Viewport.W, H: math.Max(y, t.Viewport.H)}
}

// flowGrid lays out a container and returns its height.
func (t *Tree) flowGrid(c *Node, x0, y0, avail float64) float64 {
	m := t.Metrics
	cols := c.Styles.Cols
	if cols <= 0 {
		cols = document.DefaultCols
	}
	gaps := float64(cols-1) * m.Gap

	gridW := float64(cols) * m.ColumnWidth
	if c.Styles.Width > 0 {
		gridW = float64(cols)*c.Styles.Width + gaps
	}
	gridW = math.Min(gridW, math.Max(avail-2*m.Padding, 0))
	cw := math.Max((gridW-gaps)/float64(cols), 1)
	th := cw + m.LabelHeight

	outerW := gridW + 2*m.Padding
	x := x0 + (avail-outerW)/2
	i := 0
	for _, child := range c.children {
		if child.Fixed != nil {
			continue
		}
		col, row := i%cols, i/cols
		child.rect = layout.Rect{
			X: x + m.Padding + float64(col)*(cw+m.Gap),
			Y: y0 + m.Padding + float64(row)*(th+m.Gap),
			W: cw,
			H: th,
		}
		i++
	}
	rows := (i + cols - 1) / cols
	h := 2 * m.Padding
	if rows > 0 {
		h += float64(rows)*th + float64(rows-1)*m.Gap
	}
	c.rect = layout.Rect{X: x, Y: y0, W: outerW, H: h}
	return h
}

// flowStrip lays out a spacer or sentinel: a full-width strip whose
// children sit in a single row.
func (t *Tree) flowStrip(c *Node, x0, y0, avail float64) float64 {
	m := t.Metrics
	cw := m.ColumnWidth
	th := cw + m.LabelHeight
	n := 0
	for _, child := range c.children {
		if child.Fixed != nil {
			continue
		}
		child.rect = layout.Rect{
			X: x0 + m.Padding + float64(n)*(cw+m.Gap),
			Y: y0 + m.Padding,
			W: cw,
			H: th,
		}
		n++
	}
	h := m.SpacerHeight
	if n > 0 {
		h = math.Max(h, th+2*m.Padding)
	}
	c.rect = layout.Rect{X: x0, Y: y0, W: avail, H: h}
	return h
}
