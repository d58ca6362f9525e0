package document

import (
	"reflect"
	"testing"

	"github.com/matzehuels/startpage/pkg/errors"
)

func items(names ...string) []Item {
	out := make([]Item, len(names))
	for i, n := range names {
		out[i] = Item{Name: n, Link: "https://" + n + ".example", Logo: "img/" + n + ".svg"}
	}
	return out
}

func names(c Container) []string {
	out := make([]string, len(c.Content))
	for i, it := range c.Content {
		out[i] = it.Name
	}
	return out
}

func shortcut(content ...string) Container {
	return Container{
		Type:    TypeShortcut,
		Styles:  ContainerStyles{Cols: DefaultCols, BackgroundColor: DefaultContainerBackground},
		Content: items(content...),
	}
}

func TestParse(t *testing.T) {
	data := []byte(`{"style":{"backgroundColor":"#000"},"elements":[{"type":"Shortcut","styles":{"cols":3,"backgroundColor":"#111"},"content":[{"name":"a","link":"https://a","logo":"a.png"}]},{"type":"Shortcut","styles":{"cols":4}}]}`)

	d, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(d.Elements) != 2 {
		t.Fatalf("got %d elements, want 2", len(d.Elements))
	}
	if d.Elements[0].Styles.Cols != 3 {
		t.Errorf("Cols = %d, want 3", d.Elements[0].Styles.Cols)
	}
	if d.Elements[1].Content == nil {
		t.Error("missing content should normalize to an empty slice")
	}
}

func TestParseCorrupt(t *testing.T) {
	_, err := Parse([]byte(`{"elements": [`))
	if !errors.Is(err, errors.ErrCodeCorrupt) {
		t.Fatalf("Parse() error = %v, want CORRUPT", err)
	}
}

func TestMarshalRoundTripKeepsEmptyLists(t *testing.T) {
	data, err := New().Marshal()
	if err != nil {
		t.Fatal(err)
	}
	want := `{"style":{"backgroundColor":"#1e1e28","color":"#ffffff"},"elements":[]}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestClone(t *testing.T) {
	d := &Document{Elements: []Container{shortcut("a", "b")}}
	c := d.Clone()
	c.Elements[0].Content[0].Name = "changed"
	if d.Elements[0].Content[0].Name != "a" {
		t.Error("Clone() shares content with the original")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr bool
	}{
		{"empty", New(), false},
		{"nil", nil, true},
		{"missing type", &Document{Elements: []Container{{}}}, true},
		{"negative cols", &Document{Elements: []Container{{Type: TypeShortcut, Styles: ContainerStyles{Cols: -1}}}}, true},
		{"sentinel with items", &Document{Elements: []Container{{Type: TypeInsertionPoint, Content: items("x")}}}, true},
		{"valid", &Document{Elements: []Container{shortcut("a"), {Type: TypeInsertionPoint}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.doc.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPruneKeepsSentinel(t *testing.T) {
	d := &Document{Elements: []Container{
		shortcut(),
		shortcut("a"),
		{Type: TypeInsertionPoint, Content: []Item{}},
		shortcut(),
	}}

	removed := d.Prune()

	if !reflect.DeepEqual(removed, []int{0, 3}) {
		t.Errorf("Prune() removed %v, want [0 3]", removed)
	}
	if len(d.Elements) != 2 {
		t.Fatalf("got %d elements, want 2", len(d.Elements))
	}
	if !d.Elements[1].Sentinel() {
		t.Error("sentinel container was pruned")
	}
}

func TestMoveSameContainer(t *testing.T) {
	d := &Document{Elements: []Container{shortcut("A", "B", "C")}}

	if err := d.Move(Position{0, 0}, Position{0, 2}); err != nil {
		t.Fatalf("Move() error: %v", err)
	}
	if got := names(d.Elements[0]); !reflect.DeepEqual(got, []string{"B", "C", "A"}) {
		t.Errorf("content = %v, want [B C A]", got)
	}
}

func TestMoveAcrossEmptiesOrigin(t *testing.T) {
	d := &Document{Elements: []Container{shortcut("A"), shortcut("B")}}

	if err := d.Move(Position{0, 0}, Position{1, 1}); err != nil {
		t.Fatalf("Move() error: %v", err)
	}
	if len(d.Elements) != 1 {
		t.Fatalf("got %d elements, want 1", len(d.Elements))
	}
	if got := names(d.Elements[0]); !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Errorf("content = %v, want [B A]", got)
	}
}

func TestMoveRejectsBadPositions(t *testing.T) {
	tests := []struct {
		name     string
		from, to Position
	}{
		{"origin container", Position{5, 0}, Position{0, 0}},
		{"origin item", Position{0, 9}, Position{0, 0}},
		{"destination container", Position{0, 0}, Position{7, 0}},
		{"destination item", Position{0, 0}, Position{1, 3}},
		{"same container past end", Position{0, 0}, Position{0, 2}},
		{"sentinel destination", Position{0, 0}, Position{2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Document{Elements: []Container{shortcut("A", "B"), shortcut("C"), {Type: TypeInsertionPoint, Content: []Item{}}}}
			before := d.Clone()
			err := d.Move(tt.from, tt.to)
			if !errors.Is(err, errors.ErrCodeInvalidPosition) {
				t.Fatalf("Move() error = %v, want INVALID_POSITION", err)
			}
			if !reflect.DeepEqual(d, before) {
				t.Error("failed Move() mutated the document")
			}
		})
	}
}

func TestMoveToNewGroup(t *testing.T) {
	d := &Document{Elements: []Container{shortcut("A"), shortcut("B", "C")}}

	err := d.MoveToNewGroup(Position{1, 1}, 1, shortcut())
	if err != nil {
		t.Fatalf("MoveToNewGroup() error: %v", err)
	}
	got := [][]string{names(d.Elements[0]), names(d.Elements[1]), names(d.Elements[2])}
	want := [][]string{{"A"}, {"C"}, {"B"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("elements = %v, want %v", got, want)
	}
}

func TestMoveToNewGroupPrunesOrigin(t *testing.T) {
	d := &Document{Elements: []Container{shortcut("A"), shortcut("B")}}

	if err := d.MoveToNewGroup(Position{0, 0}, 2, shortcut()); err != nil {
		t.Fatalf("MoveToNewGroup() error: %v", err)
	}
	if len(d.Elements) != 2 || names(d.Elements[1])[0] != "A" {
		t.Errorf("elements = %+v", d.Elements)
	}
}

func TestDelete(t *testing.T) {
	d := &Document{Elements: []Container{shortcut("A"), shortcut("B", "C")}}

	if err := d.Delete(Position{0, 0}); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if len(d.Elements) != 1 || d.ItemCount() != 2 {
		t.Errorf("after Delete: %d elements, %d items", len(d.Elements), d.ItemCount())
	}
}

func TestAppendItem(t *testing.T) {
	d := &Document{Elements: []Container{shortcut("A"), {Type: TypeInsertionPoint}}}

	if err := d.AppendItem(0, Item{Name: "B"}); err != nil {
		t.Fatalf("AppendItem() error: %v", err)
	}
	if got := names(d.Elements[0]); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("content = %v", got)
	}
	if err := d.AppendItem(1, Item{Name: "C"}); err == nil {
		t.Error("AppendItem() into an insertion point should fail")
	}
	if err := d.AppendItem(4, Item{Name: "C"}); err == nil {
		t.Error("AppendItem() out of range should fail")
	}
}
