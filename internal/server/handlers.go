package server

import (
	"net/http"
	"time"

	"github.com/matzehuels/startpage/pkg/buildinfo"
	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/errors"
	"github.com/matzehuels/startpage/pkg/store"
)

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status  string         `json:"status"`
	Uptime  string         `json:"uptime"`
	Backend string         `json:"backend,omitempty"`
	Build   buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status: "healthy",
		Uptime: time.Since(s.started).Round(time.Second).String(),
		Build:  buildinfo.Get(),
	}
	if inst, ok := s.store.(*store.Instrumented); ok {
		resp.Backend = inst.Backend()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	key := keyFrom(r.Context())
	doc, err := s.store.Load(r.Context(), key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if doc == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "page %q not found", key))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handlePutPage(w http.ResponseWriter, r *http.Request) {
	key := keyFrom(r.Context())
	var doc document.Document
	if err := decodeBody(w, r, &doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.check(&doc); err != nil {
		s.writeError(w, r, err)
		return
	}

	l := s.lock(key)
	l.Lock()
	defer l.Unlock()
	if err := s.store.Save(r.Context(), key, &doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveRequest is the body of POST /api/1/pages/{key}/move. Exactly one
// destination is used: Delete, then NewGroupAt, then To.
type MoveRequest struct {
	From document.Position `json:"from"`
	To   document.Position `json:"to"`
	// NewGroupAt wraps the tile into a new group inserted before this
	// container index.
	NewGroupAt *int `json:"new_group_at,omitempty"`
	// Delete removes the tile.
	Delete bool `json:"delete,omitempty"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(doc *document.Document) error {
		switch {
		case req.Delete:
			return doc.Delete(req.From)
		case req.NewGroupAt != nil:
			sc, err := s.kinds.Lookup(document.TypeShortcut)
			if err != nil {
				return err
			}
			return doc.MoveToNewGroup(req.From, *req.NewGroupAt, sc.Default())
		}
		return doc.Move(req.From, req.To)
	})
}

// AddItemRequest is the body of POST /api/1/pages/{key}/items.
type AddItemRequest struct {
	document.Item
	// Container is the destination container index.
	Container int `json:"container_index"`
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateItemName(req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateURL(req.Link); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(doc *document.Document) error {
		return doc.AppendItem(req.Container, req.Item)
	})
}

// mutate loads the page, applies fn and saves the result, answering with
// the updated document.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*document.Document) error) {
	ctx := r.Context()
	key := keyFrom(ctx)

	l := s.lock(key)
	l.Lock()
	defer l.Unlock()

	doc, err := s.store.Load(ctx, key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if doc == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "page %q not found", key))
		return
	}
	if err := fn(doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.check(doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Save(ctx, key, doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) check(doc *document.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	return s.kinds.Check(doc)
}
