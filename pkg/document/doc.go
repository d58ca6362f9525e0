// Package document defines the persisted start page configuration.
//
// # Overview
//
// A [Document] is the single JSON blob stored per page key. It carries the
// page colours and an ordered list of [Container] groups, each holding an
// ordered list of [Item] tiles:
//
//	{
//	  "style": {"backgroundColor": "#1e1e28", "color": "#ffffff"},
//	  "elements": [
//	    {"type": "Shortcut",
//	     "styles": {"cols": 4, "backgroundColor": "#2d2d38"},
//	     "content": [{"name": "Mail", "link": "https://mail.example", "logo": "img/mail.svg"}]}
//	  ]
//	}
//
// # Identity
//
// Items have no identifier. A tile is addressed by its [Position], the pair
// of container index and item index. Positions captured before a mutation
// are only valid until the next structural change; callers that hold a
// position across a mutation must re-derive it.
//
// # Pruning
//
// Containers whose content becomes empty are removed by [Document.Prune],
// except containers of the sentinel type [TypeInsertionPoint], which mark
// a persistent drop zone and survive while empty.
package document
