package store

import (
	"context"
	"database/sql"
	goerrors "errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/errors"
)

// Dialect is a SQL backend flavour.
type Dialect string

const (
	DialectSQLite   Dialect = BackendSQLite
	DialectPostgres Dialect = BackendPostgres
	DialectMySQL    Dialect = BackendMySQL
)

// driver returns the database/sql driver name registered for d.
func (d Dialect) driver() string {
	if d == DialectSQLite {
		return "sqlite"
	}
	return string(d)
}

var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// SQLStore keeps one row per page.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	table   string

	loadQuery string
	saveQuery string
}

// NewSQLStore opens dsn with the dialect's driver and creates the pages
// table if needed. prefix names the table; empty uses "startpage_pages".
func NewSQLStore(ctx context.Context, dialect Dialect, dsn, prefix string) (*SQLStore, error) {
	switch dialect {
	case DialectSQLite, DialectPostgres, DialectMySQL:
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported SQL dialect %q", dialect)
	}
	if dsn == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s store needs a DSN", dialect)
	}
	table := DefaultPrefix + "_pages"
	if prefix != "" {
		table = prefix + "_pages"
	}
	if !tableNameRegex.MatchString(table) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid table name %q", table)
	}
	if dialect == DialectSQLite {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open(dialect.driver(), dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open %s", dialect)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	err = retry(ctx, connectAttempts, connectDelay, func() error {
		return transient(db.PingContext(ctx))
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect %s", dialect)
	}

	s := &SQLStore{db: db, dialect: dialect, table: table}
	s.loadQuery, s.saveQuery = s.queries()
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	body := "TEXT"
	if s.dialect == DialectMySQL {
		body = "MEDIUMTEXT"
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	page_key VARCHAR(128) NOT NULL PRIMARY KEY,
	body %s NOT NULL,
	updated_at BIGINT NOT NULL
)`, s.table, body)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "%s: create table %s", s.dialect, s.table)
	}
	return nil
}

// queries builds the per-dialect select and upsert statements.
func (s *SQLStore) queries() (load, save string) {
	switch s.dialect {
	case DialectPostgres:
		load = fmt.Sprintf(`SELECT body FROM %s WHERE page_key = $1`, s.table)
		save = fmt.Sprintf(`INSERT INTO %s (page_key, body, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (page_key) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`, s.table)
	case DialectMySQL:
		load = fmt.Sprintf("SELECT body FROM %s WHERE page_key = ?", s.table)
		save = fmt.Sprintf(`INSERT INTO %s (page_key, body, updated_at) VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE body = VALUES(body), updated_at = VALUES(updated_at)`, s.table)
	default:
		load = fmt.Sprintf("SELECT body FROM %s WHERE page_key = ?", s.table)
		save = fmt.Sprintf(`INSERT INTO %s (page_key, body, updated_at) VALUES (?, ?, ?)
ON CONFLICT (page_key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`, s.table)
	}
	return load, save
}

// Load implements Store.
func (s *SQLStore) Load(ctx context.Context, key string) (*document.Document, error) {
	if err := errors.ValidatePageKey(key); err != nil {
		return nil, err
	}
	var body string
	err := s.db.QueryRowContext(ctx, s.loadQuery, key).Scan(&body)
	if goerrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(string(s.dialect), err, "select", key)
	}
	return decode(string(s.dialect), key, []byte(body))
}

// Save implements Store.
func (s *SQLStore) Save(ctx context.Context, key string, doc *document.Document) error {
	if err := errors.ValidatePageKey(key); err != nil {
		return err
	}
	data, err := encode(doc)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.saveQuery, key, string(data), time.Now().UnixMilli()); err != nil {
		return storageErr(string(s.dialect), err, "upsert", key)
	}
	return nil
}

// Close implements Store.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLStore)(nil)
