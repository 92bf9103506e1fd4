package provider

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ZaguanLabs/glosa"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // Register the "sqlite" driver
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Dialect identifies the SQL flavor of a term store.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect maps a driver name to a dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3", "":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported term store driver %q", driver)
	}
}

// OpenSQLite opens a SQLite term store. The pool is limited to a single
// connection, which keeps ":memory:" databases shared across calls.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// OpenPostgres opens a PostgreSQL term store through pgx.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if _, ok := cfg.RuntimeParams["application_name"]; !ok {
		cfg.RuntimeParams["application_name"] = glosa.UserAgent()
	}

	db := stdlib.OpenDB(*cfg)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}

// Open opens a term store for the given dialect.
func Open(ctx context.Context, dialect Dialect, dsn string) (*sql.DB, error) {
	switch dialect {
	case DialectSQLite:
		return OpenSQLite(dsn)
	case DialectPostgres:
		return OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

// SQLProvider loads terms from the terms and term_aliases tables.
type SQLProvider struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

// SQLOption configures a SQLProvider.
type SQLOption func(*SQLProvider)

// WithSQLLogger sets the logger.
func WithSQLLogger(logger *slog.Logger) SQLOption {
	return func(p *SQLProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewSQLProvider creates a provider over an open database.
func NewSQLProvider(db *sql.DB, dialect Dialect, opts ...SQLOption) *SQLProvider {
	p := &SQLProvider{
		db:      db,
		dialect: dialect,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// rebind rewrites ? placeholders for the provider's dialect.
func (p *SQLProvider) rebind(query string) string {
	if p.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// InitSchema creates the term tables if they do not exist.
func (p *SQLProvider) InitSchema(ctx context.Context) error {
	data, err := schemaFS.ReadFile("schema/" + string(p.dialect) + ".sql")
	if err != nil {
		return fmt.Errorf("no schema for dialect %q: %w", p.dialect, err)
	}

	for _, stmt := range strings.Split(string(data), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	p.logger.Debug("term store schema ready", slog.String("dialect", string(p.dialect)))
	return nil
}

const loadTermsQuery = `
	SELECT t.id, t.term, t.translation, a.alias
	FROM terms t
	LEFT JOIN term_aliases a ON a.term_id = t.id
	ORDER BY t.id, a.alias`

// LoadAllTerms reads every term with its aliases, in insertion order.
func (p *SQLProvider) LoadAllTerms(ctx context.Context) ([]DictionaryEntry, error) {
	rows, err := p.db.QueryContext(ctx, loadTermsQuery)
	if err != nil {
		return nil, &glosa.DictionaryLoadError{Message: "querying terms", Cause: err, Retryable: true}
	}
	defer rows.Close()

	entries := []DictionaryEntry{}
	lastID := int64(-1)
	for rows.Next() {
		var (
			id          int64
			term        string
			translation string
			alias       sql.NullString
		)
		if err := rows.Scan(&id, &term, &translation, &alias); err != nil {
			return nil, &glosa.DictionaryLoadError{Message: "scanning terms", Cause: err}
		}

		if id != lastID {
			entries = append(entries, DictionaryEntry{Term: term, Translation: translation})
			lastID = id
		}
		if alias.Valid {
			last := &entries[len(entries)-1]
			last.Aliases = append(last.Aliases, alias.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &glosa.DictionaryLoadError{Message: "reading terms", Cause: err, Retryable: true}
	}

	p.logger.Debug("loaded terms", slog.Int("count", len(entries)))
	return entries, nil
}

// Upsert inserts or updates entries in a single transaction. An existing
// term gets the new translation and its aliases are replaced.
func (p *SQLProvider) Upsert(ctx context.Context, entries []DictionaryEntry) (err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	upsertTerm := p.rebind(`INSERT INTO terms (term, translation) VALUES (?, ?)
		ON CONFLICT (term) DO UPDATE SET translation = excluded.translation`)
	selectID := p.rebind(`SELECT id FROM terms WHERE term = ?`)
	deleteAliases := p.rebind(`DELETE FROM term_aliases WHERE term_id = ?`)
	insertAlias := p.rebind(`INSERT INTO term_aliases (term_id, alias) VALUES (?, ?)
		ON CONFLICT DO NOTHING`)

	for _, e := range entries {
		term := strings.TrimSpace(e.Term)
		if term == "" {
			continue
		}

		if _, err = tx.ExecContext(ctx, upsertTerm, term, e.Translation); err != nil {
			return fmt.Errorf("failed to upsert term %q: %w", term, err)
		}

		var id int64
		if err = tx.QueryRowContext(ctx, selectID, term).Scan(&id); err != nil {
			return fmt.Errorf("failed to read id of term %q: %w", term, err)
		}

		if _, err = tx.ExecContext(ctx, deleteAliases, id); err != nil {
			return fmt.Errorf("failed to clear aliases of %q: %w", term, err)
		}
		for _, alias := range e.Aliases {
			if strings.TrimSpace(alias) == "" {
				continue
			}
			if _, err = tx.ExecContext(ctx, insertAlias, id, alias); err != nil {
				return fmt.Errorf("failed to add alias %q: %w", alias, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit terms: %w", err)
	}

	p.logger.Debug("upserted terms", slog.Int("count", len(entries)))
	return nil
}

var _ TermProvider = (*SQLProvider)(nil)
