// Package pkg provides the core libraries of the startpage editor.
//
// # Overview
//
// A start page is a JSON document of containers holding link tiles. The
// editor mounts the document onto a headless surface, lets the user drag
// tiles between containers, into new groups or onto the delete zone, and
// persists the result after every drop. The pkg directory is organized
// into three areas:
//
//  1. Model: [document] (page format and edits) and [errors] (codes and
//     validation)
//  2. Surface: [surface] (node tree and flow layout), [layout] (row
//     grouping), [kind] (container kinds) and [anim] (move transitions)
//  3. Runtime: [drag] (gesture state machine and scheduler), [store]
//     (persistence backends) and [observability] (hooks)
//
// # Architecture
//
// The data flow of one gesture:
//
//	store.Store (load)
//	     ↓
//	document.Document
//	     ↓
//	surface.Tree (Mount with kind.Registry)
//	     ↓
//	drag.Controller (BeginDrag → DragOver / UpdateDrag → EndDrag)
//	     ↓
//	document edit + store.Store (save)
//
// # Quick Start
//
//	s, _ := store.Open(ctx, store.Config{Backend: store.BackendFile}, nil)
//	doc, _ := store.LoadOrNew(ctx, s, "home")
//
//	kinds := kind.DefaultRegistry()
//	tree := surface.NewTree(1280, 800)
//	_ = tree.Mount(doc, kinds.Resolve)
//	tree.StartEdit()
//
//	ctrl, _ := drag.NewController(drag.Config{
//	    Tree:      tree,
//	    Document:  doc,
//	    Store:     s,
//	    Key:       "home",
//	    Scheduler: drag.NewLoop(nil),
//	    Kinds:     kinds,
//	})
//
// Feed pointer or touch events to the controller and flush the scheduler
// after each one so deferred layout work runs.
//
// # Testing
//
//	go test ./pkg/...
//	STARTPAGE_REDIS_ADDR=localhost:6379 go test ./pkg/store/
//	STARTPAGE_MONGO_URI=mongodb://localhost:27017 go test ./pkg/store/
package pkg
