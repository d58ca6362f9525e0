// Package kind defines container kinds and the registry mapping document
// type tags to them.
//
// A [Kind] knows how to render one container type onto a surface, how to
// render a single item of it, what a fresh container of the type looks
// like, and how to decorate its containers for edit mode. Two kinds are
// built in:
//
//   - [Shortcut]: a grid of link tiles. In edit mode it gains a trailing
//     "Add Shortcut" affordance.
//   - [InsertionPoint]: an empty sentinel drop zone that is never pruned.
//     Dropping a tile on it creates a new group in front of it.
//
// Use [DefaultRegistry] for both, or [NewRegistry] to register custom
// kinds:
//
//	reg := kind.DefaultRegistry()
//	if err := tree.Mount(doc, reg.Resolve); err != nil {
//		return err
//	}
package kind
