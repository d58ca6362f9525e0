package cli

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/startpage/pkg/anim"
	"github.com/matzehuels/startpage/pkg/layout"
	"github.com/matzehuels/startpage/pkg/surface"
)

// Editor palette, hex so container colours from documents mix in.
const (
	paintTile        = "#3a3a4a"
	paintPlaceholder = "#24242e"
	paintAffordance  = "#30304a"
	paintClone       = "#5f87d7"
	paintCloneTouch  = "#4a68a8"
	paintDelete      = "#6e2a33"
	paintDeleteHot   = "#c0394b"
	paintSlot        = "#585870"
	paintText        = "#e6e6f0"
	paintMuted       = "#8a8aa0"
)

type cell struct {
	r      rune
	fg, bg string
	bold   bool
}

// canvas rasterises a surface onto terminal cells. One cell spans cw by
// ch layout units.
type canvas struct {
	w, h   int
	cw, ch float64
	cells  []cell
}

func newCanvas(w, h int, cw, ch float64, bg string) *canvas {
	cv := &canvas{w: max(w, 0), h: max(h, 0), cw: cw, ch: ch}
	cv.cells = make([]cell, cv.w*cv.h)
	for i := range cv.cells {
		cv.cells[i] = cell{r: ' ', fg: paintText, bg: bg}
	}
	return cv
}

// span converts a viewport rect to a clipped cell range, end exclusive.
func (cv *canvas) span(r layout.Rect) (x0, y0, x1, y1 int) {
	x0 = clampInt(int(math.Floor(r.X/cv.cw)), 0, cv.w)
	y0 = clampInt(int(math.Floor(r.Y/cv.ch)), 0, cv.h)
	x1 = clampInt(int(math.Ceil((r.X+r.W)/cv.cw)), 0, cv.w)
	y1 = clampInt(int(math.Ceil((r.Y+r.H)/cv.ch)), 0, cv.h)
	return
}

func (cv *canvas) at(x, y int) *cell { return &cv.cells[y*cv.w+x] }

func (cv *canvas) fill(r layout.Rect, bg string) {
	x0, y0, x1, y1 := cv.span(r)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			*cv.at(x, y) = cell{r: ' ', fg: paintText, bg: bg}
		}
	}
}

// outline draws a dashed frame in fg over whatever is underneath.
func (cv *canvas) outline(r layout.Rect, fg string) {
	x0, y0, x1, y1 := cv.span(r)
	if x1-x0 < 2 || y1-y0 < 1 {
		return
	}
	for x := x0; x < x1; x++ {
		cv.at(x, y0).r, cv.at(x, y0).fg = '╌', fg
		cv.at(x, y1-1).r, cv.at(x, y1-1).fg = '╌', fg
	}
	for y := y0; y < y1; y++ {
		cv.at(x0, y).r, cv.at(x0, y).fg = '╎', fg
		cv.at(x1-1, y).r, cv.at(x1-1, y).fg = '╎', fg
	}
}

// text writes s centred on cell row line of r; negative lines count from
// the bottom.
func (cv *canvas) text(r layout.Rect, line int, s, fg string, bold bool) {
	x0, y0, x1, y1 := cv.span(r)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	y := y0 + line
	if line < 0 {
		y = y1 + line
	}
	if y < y0 || y >= y1 {
		return
	}
	runes := []rune(truncate(s, x1-x0))
	start := x0 + (x1-x0-len(runes))/2
	for i, ch := range runes {
		c := cv.at(start+i, y)
		c.r, c.fg, c.bold = ch, fg, bold
	}
}

// Plain returns the canvas text without styling.
func (cv *canvas) Plain() string {
	var b strings.Builder
	for y := 0; y < cv.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < cv.w; x++ {
			b.WriteRune(cv.at(x, y).r)
		}
	}
	return b.String()
}

// String renders the canvas, styling runs of equal cells together.
func (cv *canvas) String() string {
	type key struct {
		fg, bg string
		bold   bool
	}
	styles := make(map[key]lipgloss.Style)
	style := func(k key) lipgloss.Style {
		s, ok := styles[k]
		if !ok {
			s = lipgloss.NewStyle().Foreground(lipgloss.Color(k.fg)).Background(lipgloss.Color(k.bg)).Bold(k.bold)
			styles[k] = s
		}
		return s
	}

	var b strings.Builder
	for y := 0; y < cv.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		var cur key
		for x := 0; x < cv.w; x++ {
			c := cv.at(x, y)
			k := key{c.fg, c.bg, c.bold}
			if x > 0 && k != cur {
				b.WriteString(style(cur).Render(run.String()))
				run.Reset()
			}
			cur = k
			run.WriteRune(c.r)
		}
		if run.Len() > 0 {
			b.WriteString(style(cur).Render(run.String()))
		}
	}
	return b.String()
}

// paintTree draws tree as seen through its viewport, shifting tiles by
// their running displacement animation.
func paintTree(cv *canvas, tree *surface.Tree, tl *anim.Timeline, at time.Time) {
	dragging := tree.Body.HasClass(surface.ClassStartedDragging)
	var clone *surface.Node

	for _, block := range tree.Body.Children() {
		switch block.Role {
		case surface.RoleClone:
			clone = block
			continue
		case surface.RoleDeleteZone:
			continue
		case surface.RoleContainer:
			cv.fill(block.ClientRect(), block.Styles.BackgroundColor)
		case surface.RoleSpacer, surface.RoleSentinel:
			if block.HasClass(surface.ClassDragContainer) {
				cv.outline(block.ClientRect(), paintSlot)
				if len(block.Tiles()) == 0 {
					cv.text(block.ClientRect(), 0, " new group ", paintMuted, false)
				}
			}
		}
		for _, child := range block.Children() {
			paintNode(cv, child, tl, at)
		}
	}

	if dragging || tree.Editing() {
		dz := tree.DeleteZone
		bg := paintDelete
		if len(dz.Tiles()) > 0 {
			bg = paintDeleteHot
		}
		cv.fill(dz.ClientRect(), bg)
		cv.text(dz.ClientRect(), 0, dz.Label, paintText, true)
	}

	if clone != nil {
		bg := paintClone
		if clone.Opacity < 1 {
			bg = paintCloneTouch
		}
		r := clone.ClientRect()
		cv.fill(r, bg)
		cv.text(r, 0, initial(clone.Item.Name), paintText, true)
		cv.text(r, -1, clone.Item.Name, paintText, false)
	}
}

func paintNode(cv *canvas, n *surface.Node, tl *anim.Timeline, at time.Time) {
	r := n.ClientRect()
	if tl != nil {
		dx, dy := tl.Offset(n, at)
		r = r.Translate(dx, dy)
	}
	switch n.Role {
	case surface.RoleTile:
		if n.HasClass(surface.ClassDragging) {
			cv.fill(r, paintPlaceholder)
			cv.text(r, -1, n.Item.Name, paintMuted, false)
			return
		}
		cv.fill(r, paintTile)
		cv.text(r, 0, initial(n.Item.Name), paintText, true)
		cv.text(r, -1, n.Item.Name, paintText, false)
	case surface.RoleAffordance:
		cv.fill(r, paintAffordance)
		cv.text(r, 0, "+", paintMuted, true)
		cv.text(r, -1, n.Label, paintMuted, false)
	}
}

func initial(name string) string {
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "?"
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
