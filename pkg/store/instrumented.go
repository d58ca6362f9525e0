package store

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/observability"
)

// Instrumented wraps a Store with debug logging and store hooks.
type Instrumented struct {
	Store
	backend string
	logger  *log.Logger
}

// Instrument wraps s. A nil logger uses log.Default.
func Instrument(s Store, backend string, logger *log.Logger) *Instrumented {
	if logger == nil {
		logger = log.Default()
	}
	return &Instrumented{Store: s, backend: backend, logger: logger}
}

// Backend returns the backend name.
func (s *Instrumented) Backend() string { return s.backend }

// Unwrap returns the wrapped store.
func (s *Instrumented) Unwrap() Store { return s.Store }

// Load implements Store.
func (s *Instrumented) Load(ctx context.Context, key string) (*document.Document, error) {
	start := time.Now()
	doc, err := s.Store.Load(ctx, key)
	elapsed := time.Since(start)

	observability.Store().OnLoad(ctx, s.backend, key, doc != nil, elapsed, err)
	if err != nil {
		s.logger.Debug("load failed", "backend", s.backend, "key", key, "err", err)
	} else {
		s.logger.Debug("loaded page", "backend", s.backend, "key", key, "found", doc != nil, "duration", elapsed)
	}
	return doc, err
}

// Save implements Store.
func (s *Instrumented) Save(ctx context.Context, key string, doc *document.Document) error {
	size := 0
	if doc != nil {
		if data, err := doc.Marshal(); err == nil {
			size = len(data)
		}
	}
	start := time.Now()
	err := s.Store.Save(ctx, key, doc)
	elapsed := time.Since(start)

	observability.Store().OnSave(ctx, s.backend, key, size, elapsed, err)
	if err != nil {
		s.logger.Debug("save failed", "backend", s.backend, "key", key, "err", err)
	} else {
		s.logger.Debug("saved page", "backend", s.backend, "key", key, "bytes", size, "duration", elapsed)
	}
	return err
}

var _ Store = (*Instrumented)(nil)
