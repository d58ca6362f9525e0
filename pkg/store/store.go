// Package store persists start page documents.
//
// A [Store] maps a page key to one [document.Document]. Backends:
//
//   - [FileStore]: one JSON file per key, with change notifications via
//     [FileStore.Watch]. The default for the CLI.
//   - [MemoryStore]: process-local, for tests and throwaway servers.
//   - [RedisStore]: one string value per key.
//   - [MongoStore]: one document per key in a collection.
//   - [SQLStore]: one row per key in SQLite, PostgreSQL or MySQL.
//
// Every backend stores the document's JSON encoding, so documents can be
// moved between backends byte for byte. Load reports a missing key as
// (nil, nil) and an unparsable value as an error with code CORRUPT.
//
// Use [Open] to build a backend from configuration and [Instrument] to
// emit store hooks and debug logs around it.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/errors"
)

// Store loads and saves documents by page key.
type Store interface {
	// Load returns the document stored under key, or nil when there is
	// none.
	Load(ctx context.Context, key string) (*document.Document, error)

	// Save replaces the document stored under key.
	Save(ctx context.Context, key string, doc *document.Document) error

	// Close releases backend resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
)

// Backends lists every backend Open understands.
var Backends = []string{BackendFile, BackendMemory, BackendRedis, BackendMongo, BackendSQLite, BackendPostgres, BackendMySQL}

// Config selects and configures a backend.
type Config struct {
	// Backend is one of the Backend* names. Empty means file.
	Backend string `toml:"backend"`

	// Dir is the FileStore directory.
	Dir string `toml:"dir"`

	// DSN is the data source name of SQL backends. For sqlite it is a file
	// path.
	DSN string `toml:"dsn"`

	// Redis connection.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// MongoURI and MongoDatabase locate the MongoDB collection.
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`

	// Prefix namespaces keys in shared backends (redis key prefix, mongo
	// collection, SQL table).
	Prefix string `toml:"prefix"`
}

// Open builds the configured backend wrapped with instrumentation.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (Store, error) {
	s, err := open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	backend := cfg.Backend
	if backend == "" {
		backend = BackendFile
	}
	return Instrument(s, backend, logger), nil
}

func open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendFile:
		return NewFileStore(cfg.Dir)
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStore(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.Prefix,
		})
	case BackendMongo:
		return NewMongoStore(ctx, MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.Prefix,
		})
	case BackendSQLite, BackendPostgres, BackendMySQL:
		return NewSQLStore(ctx, Dialect(strings.ToLower(cfg.Backend)), cfg.DSN, cfg.Prefix)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unknown store backend %q (want one of %s)",
		cfg.Backend, strings.Join(Backends, ", "))
}

// LoadOrNew loads the document under key, falling back to an empty
// document when the key is absent.
func LoadOrNew(ctx context.Context, s Store, key string) (*document.Document, error) {
	doc, err := s.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = document.New()
	}
	return doc, nil
}

// IsCorrupt reports whether err marks an unparsable stored document.
func IsCorrupt(err error) bool {
	return errors.Is(err, errors.ErrCodeCorrupt)
}

func decode(backend, key string, data []byte) (*document.Document, error) {
	doc, err := document.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCorrupt, err, "%s: page %q", backend, key)
	}
	return doc, nil
}

func encode(doc *document.Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document cannot be nil")
	}
	data, err := doc.Marshal()
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

func storageErr(backend string, err error, op, key string) error {
	return errors.Wrap(errors.ErrCodeStorage, err, "%s: %s page %q", backend, op, key)
}
