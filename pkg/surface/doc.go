// Package surface is the headless rendering surface the drag engine works on.
//
// # Overview
//
// A [Tree] mirrors the structure of a rendered start page:
//
//	body
//	├── container (Shortcut)      document element 0
//	│   ├── tile                  item 0
//	│   ├── tile                  item 1
//	│   └── affordance            "Add Shortcut", edit mode only
//	├── spacer                    create-new-group zone paired with element 0
//	├── container (InsertionPoint) document element 1, sentinel
//	├── delete zone               fixed position
//	└── clone                     fixed position, drag image
//
// Geometry is computed by a grid flow engine modelled on the shortcut
// widget's stylesheet: containers stack vertically, tiles fill a
// column grid row by row, spacers are thin full-width strips. Layout is
// lazy: any structural change marks the tree dirty and the next call to
// [Node.Bounds] reflows the whole tree.
//
// # Coordinates
//
// [Node.Bounds] reports document-flow coordinates (offset from the top of
// the page). Pointer events carry viewport coordinates; add [Tree.ScrollY]
// to convert. Fixed nodes (delete zone, clone) are positioned in viewport
// coordinates and reported in document coordinates like everything else.
//
// # Markers
//
// Classes play the role of CSS classes: [ClassDragging] marks the tile
// being dragged, [ClassStartedDragging] marks the body for the duration of
// a gesture, [ClassDragContainer] marks nodes that accept drops.
package surface
