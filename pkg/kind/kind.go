package kind

import (
	"slices"

	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/errors"
	"github.com/matzehuels/startpage/pkg/surface"
)

// Kind is a container type.
type Kind interface {
	surface.Kind

	// Default returns a fresh, empty container of this kind with default
	// styling.
	Default() document.Container

	// CreateElement renders one item as a detached tile.
	CreateElement(t *surface.Tree, it document.Item) *surface.Node
}

// Registry maps type tags to kinds. The zero value is not usable; call
// NewRegistry.
type Registry struct {
	kinds map[string]Kind
	order []string
}

// NewRegistry returns a registry holding kinds.
func NewRegistry(kinds ...Kind) (*Registry, error) {
	r := &Registry{kinds: make(map[string]Kind)}
	for _, k := range kinds {
		if err := r.Register(k); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry returns a registry with the built-in kinds.
func DefaultRegistry() *Registry {
	r, _ := NewRegistry(Shortcut{}, InsertionPoint{})
	return r
}

// Register adds k. Tags must be unique.
func (r *Registry) Register(k Kind) error {
	tag := k.Tag()
	if tag == "" {
		return errors.New(errors.ErrCodeInvalidInput, "kind tag cannot be empty")
	}
	if _, ok := r.kinds[tag]; ok {
		return errors.New(errors.ErrCodeInvalidInput, "kind %q already registered", tag)
	}
	r.kinds[tag] = k
	r.order = append(r.order, tag)
	return nil
}

// Lookup returns the kind registered for tag.
func (r *Registry) Lookup(tag string) (Kind, error) {
	k, ok := r.kinds[tag]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownKind, "unknown container type %q", tag)
	}
	return k, nil
}

// Resolve is Lookup narrowed to what the surface needs; pass it to
// surface.Tree.Mount.
func (r *Registry) Resolve(tag string) (surface.Kind, error) {
	k, err := r.Lookup(tag)
	if err != nil {
		return nil, err
	}
	return k, nil
}

// Tags returns the registered tags in registration order.
func (r *Registry) Tags() []string { return slices.Clone(r.order) }

// Check verifies that every container type in doc is registered.
func (r *Registry) Check(doc *document.Document) error {
	for i, c := range doc.Elements {
		if _, err := r.Lookup(c.Type); err != nil {
			return errors.Wrap(errors.ErrCodeUnknownKind, err, "element %d", i)
		}
	}
	return nil
}
