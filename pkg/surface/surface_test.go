package surface_test

import (
	"testing"

	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/errors"
	"github.com/matzehuels/startpage/pkg/kind"
	"github.com/matzehuels/startpage/pkg/surface"
)

func items(names ...string) []document.Item {
	out := make([]document.Item, len(names))
	for i, n := range names {
		out[i] = document.Item{Name: n, Link: "https://" + n + ".example"}
	}
	return out
}

func testDoc() *document.Document {
	doc := document.New()
	doc.Elements = []document.Container{
		{Type: document.TypeShortcut, Styles: document.ContainerStyles{Cols: 4}, Content: items("a", "b", "c", "d", "e")},
		{Type: document.TypeShortcut, Styles: document.ContainerStyles{Cols: 2}, Content: items("f")},
		{Type: document.TypeInsertionPoint, Content: []document.Item{}},
	}
	return doc
}

func mount(t *testing.T) *surface.Tree {
	t.Helper()
	tree := surface.NewTree(800, 600)
	if err := tree.Mount(testDoc(), kind.DefaultRegistry().Resolve); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return tree
}

func roles(n *surface.Node) []surface.Role {
	var out []surface.Role
	for _, c := range n.Children() {
		out = append(out, c.Role)
	}
	return out
}

func TestMountStructure(t *testing.T) {
	tree := mount(t)

	want := []surface.Role{
		surface.RoleContainer, surface.RoleSpacer,
		surface.RoleContainer, surface.RoleSpacer,
		surface.RoleSentinel, surface.RoleDeleteZone,
	}
	got := roles(tree.Body)
	if len(got) != len(want) {
		t.Fatalf("body roles = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("body child %d = %v, want %v", i, got[i], want[i])
		}
	}

	contents := tree.Contents()
	if len(contents) != 3 || len(contents[0]) != 5 || len(contents[1]) != 1 || len(contents[2]) != 0 {
		t.Errorf("Contents shape mismatch: %v", contents)
	}
}

func TestMountUnknownKindLeavesTreeEmpty(t *testing.T) {
	tree := mount(t)
	doc := testDoc()
	doc.Elements[1].Type = "Weather"

	err := tree.Mount(doc, kind.DefaultRegistry().Resolve)
	if !errors.Is(err, errors.ErrCodeUnknownKind) {
		t.Fatalf("Mount error = %v, want UNKNOWN_KIND", err)
	}
	if n := len(tree.Backed()); n != 0 {
		t.Errorf("tree has %d containers after failed mount, want 0", n)
	}
	if tree.DeleteZone.Parent() != tree.Body {
		t.Error("delete zone must survive remounts")
	}
}

func TestGridGeometry(t *testing.T) {
	tree := mount(t)
	c := tree.Backed()[0]
	tiles := c.Tiles()

	// 4 columns of 100 units, minus three 30-unit gaps, centred in 760.
	cb := c.Bounds()
	if cb.W != 440 || cb.X != 180 || cb.Y != 20 {
		t.Errorf("container bounds = %+v", cb)
	}
	first := tiles[0].Bounds()
	if first.X != 200 || first.Y != 40 || first.W != 77.5 || first.H != 102.5 {
		t.Errorf("first tile bounds = %+v", first)
	}
	for i := 1; i < 4; i++ {
		if tiles[i].Bounds().CenterY() != first.CenterY() {
			t.Errorf("tile %d not in the first row", i)
		}
		if tiles[i].Bounds().X <= tiles[i-1].Bounds().X {
			t.Errorf("tile %d not right of tile %d", i, i-1)
		}
	}
	wrapped := tiles[4].Bounds()
	if wrapped.X != first.X || wrapped.Y != first.Y+102.5+30 {
		t.Errorf("fifth tile bounds = %+v, want second row first column", wrapped)
	}
	if cb.H != 20+102.5+30+102.5+20 {
		t.Errorf("container height = %v", cb.H)
	}
}

func TestGeometryFollowsMutation(t *testing.T) {
	tree := mount(t)
	c := tree.Backed()[0]
	tiles := c.Tiles()
	before := tiles[1].Bounds()

	c.InsertBefore(tiles[4], tiles[0])

	if got := tiles[0].Bounds(); got != before {
		t.Errorf("tile a bounds = %+v, want %+v after shifting right", got, before)
	}
}

func TestHitTest(t *testing.T) {
	tree := mount(t)
	c := tree.Backed()[0]
	a := c.Tiles()[0]
	ab := a.Bounds()

	tests := []struct {
		name string
		x, y float64
		want *surface.Node
	}{
		{"tile", ab.CenterX(), ab.CenterY(), a},
		{"container padding", c.Bounds().X + 5, c.Bounds().Y + 5, c},
		{"delete zone", 700, 20, tree.DeleteZone},
		{"outside everything", 5, 5, tree.Body},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tree.HitTest(tt.x, tt.y); got != tt.want {
				t.Errorf("HitTest(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestHitTestIgnoresClone(t *testing.T) {
	tree := mount(t)
	a := tree.FindTile("a")
	clone := tree.NewClone(a)
	r := a.ClientRect()

	if got := tree.HitTest(r.CenterX(), r.CenterY()); got != a {
		t.Errorf("HitTest under clone = %v, want %v", got, a)
	}
	if clone.Bounds() != a.Bounds() {
		t.Errorf("clone bounds = %+v, want %+v", clone.Bounds(), a.Bounds())
	}
}

func TestHitTestScrolled(t *testing.T) {
	tree := surface.NewTree(800, 100)
	if err := tree.Mount(testDoc(), kind.DefaultRegistry().Resolve); err != nil {
		t.Fatal(err)
	}
	f := tree.FindTile("f")
	tree.ScrollTo(f.Bounds().Y - 10)
	r := f.ClientRect()
	if r.Y != 10 {
		t.Fatalf("client Y = %v, want 10", r.Y)
	}
	if got := tree.HitTest(r.CenterX(), r.CenterY()); got != f {
		t.Errorf("HitTest = %v, want %v", got, f)
	}
}

func TestScrollToClamps(t *testing.T) {
	tree := surface.NewTree(800, 100)
	if err := tree.Mount(testDoc(), kind.DefaultRegistry().Resolve); err != nil {
		t.Fatal(err)
	}
	tree.ScrollTo(-50)
	if tree.ScrollY != 0 {
		t.Errorf("ScrollY = %v, want 0", tree.ScrollY)
	}
	tree.ScrollTo(1e9)
	if want := tree.ContentHeight() - 100; tree.ScrollY != want {
		t.Errorf("ScrollY = %v, want %v", tree.ScrollY, want)
	}
}

func TestPosition(t *testing.T) {
	tree := mount(t)
	backed := tree.Backed()
	f := tree.FindTile("f")

	pos, err := tree.Position(backed[1], f)
	if err != nil {
		t.Fatal(err)
	}
	if pos != (document.Position{Container: 1, Item: 0}) {
		t.Errorf("Position = %+v", pos)
	}

	pos, err = tree.Position(backed[2], nil)
	if err != nil || pos != (document.Position{Container: 2, Item: -1}) {
		t.Errorf("Position(sentinel, nil) = %+v, %v", pos, err)
	}

	if _, err := tree.Position(backed[0], f); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("foreign tile error = %v, want NOT_FOUND", err)
	}
	spacer := backed[0].NextSibling()
	if _, err := tree.Position(spacer, nil); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("spacer error = %v, want NOT_FOUND", err)
	}
}

func TestPruneRemovesPairedSpacer(t *testing.T) {
	tree := mount(t)
	second := tree.Backed()[1]
	tree.FindTile("f").Remove()

	removed := tree.Prune()
	if len(removed) != 1 || removed[0] != 1 {
		t.Fatalf("Prune removed %v, want [1]", removed)
	}
	want := []surface.Role{surface.RoleContainer, surface.RoleSpacer, surface.RoleSentinel, surface.RoleDeleteZone}
	got := roles(tree.Body)
	if len(got) != len(want) {
		t.Fatalf("body roles = %v, want %v", got, want)
	}
	if second.Parent() != nil {
		t.Error("pruned container still attached")
	}
}

func TestEditMode(t *testing.T) {
	tree := mount(t)
	c := tree.Backed()[0]
	spacer := c.NextSibling()

	if spacer.DropTarget() || c.DropTarget() {
		t.Fatal("nothing but the delete zone accepts drops outside edit mode")
	}

	tree.StartEdit()
	if !tree.Body.HasClass(surface.ClassEditMode) {
		t.Error("body missing edit marker")
	}
	if !spacer.DropTarget() || !c.DropTarget() || !tree.Backed()[2].DropTarget() {
		t.Error("spacers and containers must accept drops in edit mode")
	}
	kids := c.Children()
	last := kids[len(kids)-1]
	if last.Role != surface.RoleAffordance || last.Label != kind.AddShortcutLabel {
		t.Fatalf("last child = %v, want the add affordance", last)
	}

	// Appended tiles go in front of the affordance.
	c.AppendTile(tree.FindTile("f"))
	kids = c.Children()
	if kids[len(kids)-1] != last || kids[len(kids)-2].Item.Name != "f" {
		t.Errorf("AppendTile broke affordance order: %v", kids)
	}

	tree.StopEdit()
	if spacer.DropTarget() {
		t.Error("spacer still accepts drops after StopEdit")
	}
	for _, k := range c.Children() {
		if k.Role == surface.RoleAffordance {
			t.Error("affordance survived StopEdit")
		}
	}
}

func TestClosest(t *testing.T) {
	tree := mount(t)
	tree.StartEdit()
	a := tree.FindTile("a")

	if got := a.Closest((*surface.Node).DropTarget); got != tree.Backed()[0] {
		t.Errorf("Closest drop target = %v", got)
	}
	if got := tree.Body.Closest((*surface.Node).DropTarget); got != nil {
		t.Errorf("body has drop target ancestor %v", got)
	}
}
