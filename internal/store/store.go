package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/peerexam/internal/queryir"
	"github.com/roach88/peerexam/internal/querysql"
	"github.com/roach88/peerexam/internal/record"
)

//go:embed schema_sqlite.sql
var schemaSQLite string

//go:embed schema_postgres.sql
var schemaPostgres string

// Schema version tracking (SQLite only, via PRAGMA user_version):
// 0 - Initial tables
// 1 - Added lookup indexes for the derived queries
const currentSchemaVersion = 1

// Store is the row storage contract the entity layer is written against.
//
// Every method is a single atomic unit. Check-then-act sequences (find, then
// insert or update) must run inside Atomic.
type Store interface {
	// Insert adds a row and returns its surrogate id.
	Insert(ctx context.Context, table string, fields record.Fields) (int64, error)

	// Update overwrites the given columns of the row with surrogate id id.
	Update(ctx context.Context, table string, id int64, fields record.Fields) error

	// FindOne returns the first row matching where (lowest id first).
	// found is false when nothing matches; that is not an error.
	FindOne(ctx context.Context, table string, where queryir.Predicate) (row record.Row, found bool, err error)

	// FindAll returns every row matching where, sorted by order and then id.
	// Returns an empty slice (not nil) when nothing matches.
	FindAll(ctx context.Context, table string, where queryir.Predicate, order ...queryir.Order) ([]record.Row, error)

	// Count returns the number of rows matching where.
	Count(ctx context.Context, table string, where queryir.Predicate) (int, error)

	// Atomic runs fn in one transaction, mutually exclusive with every other
	// Atomic call holding the same lockKey. fn must use the Store it is
	// handed, not the receiver. Nested calls join the outer transaction.
	Atomic(ctx context.Context, lockKey string, fn func(ctx context.Context, tx Store) error) error
}

// Config selects the backend and its connection.
type Config struct {
	// Driver is "sqlite3" (default) or "pgx".
	Driver string

	// DSN is the file path for SQLite or the connection string for PostgreSQL.
	DSN string

	// MaxOpenConns applies to PostgreSQL only; SQLite always uses one
	// connection. Zero means 10.
	MaxOpenConns int
}

// querier is the subset shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLStore implements Store over database/sql for SQLite or PostgreSQL.
//
// SQLite runs with a single pooled connection and BEGIN IMMEDIATE
// transactions, so writers are serialized both within the process and
// across processes sharing the file. PostgreSQL serializes Atomic callers
// with transaction-scoped advisory locks derived from the lock key.
type SQLStore struct {
	db       *sql.DB
	q        querier
	tx       *sql.Tx
	dialect  querysql.Dialect
	compiler *querysql.SQLCompiler
	metrics  *Metrics
}

var _ Store = (*SQLStore)(nil)

// Option configures an SQLStore.
type Option func(*SQLStore)

// WithMetrics records operation counts and latencies into m.
func WithMetrics(m *Metrics) Option {
	return func(s *SQLStore) { s.metrics = m }
}

// Open connects to the configured database, applies pragmas (SQLite) and the
// schema, and runs pending migrations.
//
// The SQLite database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - IMMEDIATE transactions so check-then-act runs hold the write lock
//
// This function is idempotent - safe to call multiple times on one database.
func Open(ctx context.Context, cfg Config, opts ...Option) (*SQLStore, error) {
	if cfg.Driver == "" {
		cfg.Driver = querysql.SQLite.Name
	}
	dialect, err := querysql.DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("open database: empty DSN")
	}

	dsn := cfg.DSN
	if dialect == querysql.SQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(dialect.Name, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dialect == querysql.SQLite {
		// SQLite only supports one writer at a time, so limit connections
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		if err := applyPragmas(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragmas: %w", err)
		}
	} else {
		maxOpen := cfg.MaxOpenConns
		if maxOpen <= 0 {
			maxOpen = 10
		}
		db.SetMaxOpenConns(maxOpen)
	}

	if err := applySchema(ctx, db, dialect); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s := &SQLStore{
		db:       db,
		q:        db,
		dialect:  dialect,
		compiler: querysql.NewSQLCompiler(dialect),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Store methods when available.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Dialect reports which backend this store talks to.
func (s *SQLStore) Dialect() querysql.Dialect {
	return s.dialect
}

// sqliteDSN requests IMMEDIATE transactions unless the caller already chose
// a locking mode.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_txlock=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_txlock=immediate"
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(ctx context.Context, db *sql.DB, dialect querysql.Dialect) error {
	schema := schemaSQLite
	if dialect == querysql.Postgres {
		schema = schemaPostgres
	}

	for _, stmt := range splitStatements(schema) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema: %w", err)
		}
	}

	if dialect != querysql.SQLite {
		return nil
	}
	if err := runMigrations(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// splitStatements breaks a schema file into single statements. The schema
// files hold DDL only, with no semicolons inside literals.
func splitStatements(schema string) []string {
	var stmts []string
	for _, part := range strings.Split(schema, ";") {
		if stmt := strings.TrimSpace(stripComments(part)); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func stripComments(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(ctx, db); err != nil {
			return err
		}
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the indexes behind nthQuestion, allAnswers, nReviews and
// allReviews. CREATE INDEX IF NOT EXISTS keeps it safe to rerun.
func migrateToV1(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_userquestions_exam_user ON userquestions(examid, userid)`,
		`CREATE INDEX IF NOT EXISTS idx_userquestions_user ON userquestions(userid)`,
		`CREATE INDEX IF NOT EXISTS idx_userreviews_user ON userreviews(userid)`,
		`CREATE INDEX IF NOT EXISTS idx_userreviews_userquestion ON userreviews(userquestionid)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *SQLStore) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
