package document

import (
	"slices"

	"github.com/matzehuels/startpage/pkg/errors"
)

// Position addresses a tile by container index and item index.
// Item is -1 when the position names a container only.
type Position struct {
	Container int `json:"container_index"`
	Item      int `json:"item_index"`
}

// Item returns the tile at pos.
func (d *Document) Item(pos Position) (Item, error) {
	if err := d.checkItem(pos, false); err != nil {
		return Item{}, err
	}
	return d.Elements[pos.Container].Content[pos.Item], nil
}

// RemoveItem splices the tile at pos out of its container and returns it.
// The container is left in place even when it becomes empty; call Prune.
func (d *Document) RemoveItem(pos Position) (Item, error) {
	if err := d.checkItem(pos, false); err != nil {
		return Item{}, err
	}
	c := &d.Elements[pos.Container]
	it := c.Content[pos.Item]
	c.Content = slices.Delete(c.Content, pos.Item, pos.Item+1)
	return it, nil
}

// InsertItem splices it into the container at pos.Container before index
// pos.Item. pos.Item may equal the content length to append.
func (d *Document) InsertItem(pos Position, it Item) error {
	if err := d.checkItem(pos, true); err != nil {
		return err
	}
	c := &d.Elements[pos.Container]
	if c.Sentinel() {
		return errors.New(errors.ErrCodeInvalidPosition, "container %d is an insertion point", pos.Container)
	}
	c.Content = slices.Insert(c.Content, pos.Item, it)
	return nil
}

// AppendItem adds it as the last tile of container ci.
func (d *Document) AppendItem(ci int, it Item) error {
	if ci < 0 || ci >= len(d.Elements) {
		return errors.New(errors.ErrCodeInvalidPosition, "container %d out of range (have %d)", ci, len(d.Elements))
	}
	return d.InsertItem(Position{Container: ci, Item: len(d.Elements[ci].Content)}, it)
}

// InsertContainer splices c into the element list before index idx.
func (d *Document) InsertContainer(idx int, c Container) error {
	if idx < 0 || idx > len(d.Elements) {
		return errors.New(errors.ErrCodeInvalidPosition, "container index %d out of range (have %d)", idx, len(d.Elements))
	}
	if c.Content == nil {
		c.Content = []Item{}
	}
	d.Elements = slices.Insert(d.Elements, idx, c)
	return nil
}

// Prune removes every empty container that is not a sentinel and returns
// the indices it removed, in ascending order of their original position.
func (d *Document) Prune() []int {
	var removed []int
	kept := d.Elements[:0]
	for i, c := range d.Elements {
		if len(c.Content) == 0 && !c.Sentinel() {
			removed = append(removed, i)
			continue
		}
		kept = append(kept, c)
	}
	d.Elements = kept
	return removed
}

// Move relocates the tile at from. to.Container indexes the element list as
// it is before the move; to.Item is the tile's final index inside the
// destination. Emptied containers are pruned afterwards, matching what a
// drag commit does.
func (d *Document) Move(from, to Position) error {
	if _, err := d.Item(from); err != nil {
		return err
	}
	if to.Container < 0 || to.Container >= len(d.Elements) {
		return errors.New(errors.ErrCodeInvalidPosition, "destination container %d out of range", to.Container)
	}
	if d.Elements[to.Container].Sentinel() {
		return errors.New(errors.ErrCodeInvalidPosition, "container %d is an insertion point", to.Container)
	}
	dst := len(d.Elements[to.Container].Content)
	if to.Container == from.Container {
		dst--
	}
	if to.Item < 0 || to.Item > dst {
		return errors.New(errors.ErrCodeInvalidPosition, "destination item %d out of range (max %d)", to.Item, dst)
	}

	it, err := d.RemoveItem(from)
	if err != nil {
		return err
	}
	if err := d.InsertItem(to, it); err != nil {
		return err
	}
	d.Prune()
	return nil
}

// MoveToNewGroup wraps the tile at from into c and inserts c before element
// index idx, where idx refers to the element list before the move.
func (d *Document) MoveToNewGroup(from Position, idx int, c Container) error {
	if _, err := d.Item(from); err != nil {
		return err
	}
	if idx < 0 || idx > len(d.Elements) {
		return errors.New(errors.ErrCodeInvalidPosition, "container index %d out of range (have %d)", idx, len(d.Elements))
	}
	it, _ := d.RemoveItem(from)
	c.Content = []Item{it}
	if err := d.InsertContainer(idx, c); err != nil {
		return err
	}
	d.Prune()
	return nil
}

// Delete removes the tile at from and prunes emptied containers.
func (d *Document) Delete(from Position) error {
	if _, err := d.RemoveItem(from); err != nil {
		return err
	}
	d.Prune()
	return nil
}

func (d *Document) checkItem(pos Position, inserting bool) error {
	if pos.Container < 0 || pos.Container >= len(d.Elements) {
		return errors.New(errors.ErrCodeInvalidPosition, "container %d out of range (have %d)", pos.Container, len(d.Elements))
	}
	n := len(d.Elements[pos.Container].Content)
	if inserting {
		n++
	}
	if pos.Item < 0 || pos.Item >= n {
		return errors.New(errors.ErrCodeInvalidPosition, "item %d out of range in container %d", pos.Item, pos.Container)
	}
	return nil
}
