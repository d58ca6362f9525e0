package document

import (
	"encoding/json"
	"slices"

	"github.com/matzehuels/startpage/pkg/errors"
)

// Container type tags known to this package.
const (
	// TypeShortcut is the tile-grid container kind.
	TypeShortcut = "Shortcut"

	// TypeInsertionPoint is the sentinel drop-zone kind. It is never pruned.
	TypeInsertionPoint = "InsertionPoint"
)

// Default colours used when a document or container omits them.
const (
	DefaultBackground          = "#1e1e28"
	DefaultForeground          = "#ffffff"
	DefaultContainerBackground = "#2d2d38"
	DefaultCols                = 4
)

// Document is the persisted user configuration for one page.
type Document struct {
	Style    Style       `json:"style"`
	Elements []Container `json:"elements"`
}

// Style is the page-level colour pair.
type Style struct {
	BackgroundColor string `json:"backgroundColor"`
	Color           string `json:"color,omitempty"`
}

// Container is one visual group of tiles.
type Container struct {
	Type    string          `json:"type"`
	Styles  ContainerStyles `json:"styles"`
	Content []Item          `json:"content"`
}

// ContainerStyles are the display parameters of a container.
// Width is the tile width in layout units; zero lets the grid derive it.
type ContainerStyles struct {
	Cols            int     `json:"cols"`
	Width           float64 `json:"width,omitempty"`
	BackgroundColor string  `json:"backgroundColor"`
}

// Item is one draggable shortcut tile.
type Item struct {
	Name string `json:"name"`
	Link string `json:"link"`
	Logo string `json:"logo"`
}

// New returns an empty document with default page colours.
func New() *Document {
	return &Document{
		Style:    Style{BackgroundColor: DefaultBackground, Color: DefaultForeground},
		Elements: []Container{},
	}
}

// Sentinel reports whether the container is a persistent drop zone.
func (c Container) Sentinel() bool {
	return c.Type == TypeInsertionPoint
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{Style: d.Style, Elements: make([]Container, len(d.Elements))}
	for i, c := range d.Elements {
		c.Content = slices.Clone(c.Content)
		if c.Content == nil {
			c.Content = []Item{}
		}
		out.Elements[i] = c
	}
	return out
}

// Parse decodes a stored document. Unparsable input yields ErrCodeCorrupt.
func Parse(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCorrupt, err, "parse document")
	}
	d.normalize()
	return &d, nil
}

// Marshal encodes the document for storage.
func (d *Document) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// normalize fills in nil slices so the JSON form never carries null lists.
func (d *Document) normalize() {
	if d.Elements == nil {
		d.Elements = []Container{}
	}
	for i := range d.Elements {
		if d.Elements[i].Content == nil {
			d.Elements[i].Content = []Item{}
		}
	}
}

// Validate checks structural rules that the drag engine relies on.
func (d *Document) Validate() error {
	if d == nil {
		return errors.New(errors.ErrCodeInvalidDocument, "document is nil")
	}
	for i, c := range d.Elements {
		if c.Type == "" {
			return errors.New(errors.ErrCodeInvalidDocument, "container %d has no type", i)
		}
		if c.Styles.Cols < 0 {
			return errors.New(errors.ErrCodeInvalidDocument, "container %d has negative column count", i)
		}
		if c.Sentinel() && len(c.Content) > 0 {
			return errors.New(errors.ErrCodeInvalidDocument, "insertion point %d cannot hold items", i)
		}
	}
	return nil
}

// ItemCount returns the number of tiles over all containers.
func (d *Document) ItemCount() int {
	n := 0
	for _, c := range d.Elements {
		n += len(c.Content)
	}
	return n
}
