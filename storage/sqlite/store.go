// Package sqlite implements storage.CorpusRepository on a SQLite
// blog_articles table, the layout used by the original article loader.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/poiesic/switchboard/core"
	"github.com/poiesic/switchboard/storage"
)

const schema = `CREATE TABLE IF NOT EXISTS blog_articles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL UNIQUE,
	content TEXT NOT NULL,
	summary TEXT,
	keywords TEXT,
	source_url TEXT,
	date TEXT,
	embedding TEXT
)`

const selectColumns = `SELECT id, title, content, summary, keywords, source_url, date, embedding FROM blog_articles`

// driverName is the sqlite3 driver with the ulower function registered.
const driverName = "sqlite3_switchboard"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("ulower", strings.ToLower, true)
		},
	})
}

// Store keeps chunks in the blog_articles table.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ storage.CorpusRepository = (*Store)(nil)

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open(driverName, path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// A single connection serializes writers instead of failing with SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "sqlite"),
	}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ScanAll returns every article in insertion order.
func (s *Store) ScanAll(ctx context.Context) ([]*core.Chunk, error) {
	return s.query(ctx, selectColumns+` ORDER BY id`)
}

// LexicalMatch returns articles whose title, content or keywords contain
// pattern, ignoring case.
//
// SQLite's LIKE and lower() fold ASCII only, so matching uses the
// Unicode-aware ulower function registered on every connection. The
// comma-joined keywords column is confirmed per keyword with
// core.Chunk.MatchesText.
func (s *Store) LexicalMatch(ctx context.Context, pattern string) ([]*core.Chunk, error) {
	needle := strings.ToLower(pattern)
	candidates, err := s.query(ctx,
		selectColumns+` WHERE instr(ulower(title), ?) > 0 OR instr(ulower(content), ?) > 0 OR instr(ulower(COALESCE(keywords, '')), ?) > 0 ORDER BY id`,
		needle, needle, needle)
	if err != nil {
		return nil, err
	}

	matches := candidates[:0]
	for _, c := range candidates {
		if c.MatchesText(pattern) {
			matches = append(matches, c)
		}
	}
	return matches, nil
}

// AddChunks inserts new articles. IDs are assigned by the table.
func (s *Store) AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	for _, chunk := range chunks {
		if err := core.ValidateChunk(chunk); err != nil {
			return nil, err
		}
	}

	ids := make([]core.ID, len(chunks))
	keywords := make([][]string, len(chunks))
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for i, chunk := range chunks {
			keywords[i] = core.NormalizeKeywords(chunk.Keywords)
			embedding, err := storage.EncodeEmbedding(chunk.Embedding)
			if err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx,
				`INSERT INTO blog_articles (title, content, summary, keywords, source_url, date, embedding) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				chunk.Title, chunk.Content, chunk.Summary, joinKeywords(keywords[i]),
				chunk.SourceURL, formatDate(chunk.Date), embedding)
			if err != nil {
				return mapError(err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			ids[i] = core.ID(id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// IDs are only handed out once the transaction has committed
	for i, chunk := range chunks {
		chunk.ID = ids[i]
		chunk.Keywords = keywords[i]
	}
	return chunks, nil
}

// UpdateChunks replaces existing articles by ID.
func (s *Store) UpdateChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, chunk := range chunks {
			embedding, err := storage.EncodeEmbedding(chunk.Embedding)
			if err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx,
				`UPDATE blog_articles SET title = ?, content = ?, summary = ?, keywords = ?, source_url = ?, date = ?, embedding = ? WHERE id = ?`,
				chunk.Title, chunk.Content, chunk.Summary, joinKeywords(chunk.Keywords),
				chunk.SourceURL, formatDate(chunk.Date), embedding, int64(chunk.ID))
			if err != nil {
				return mapError(err)
			}
			if err := requireRow(res); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// GetChunk retrieves a single article by ID.
func (s *Store) GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error) {
	return s.queryOne(ctx, selectColumns+` WHERE id = ?`, int64(id))
}

// FindByTitle retrieves the article with the exact title.
func (s *Store) FindByTitle(ctx context.Context, title string) (*core.Chunk, error) {
	return s.queryOne(ctx, selectColumns+` WHERE title = ?`, title)
}

// Enrich replaces the summary and keywords of the article with title.
func (s *Store) Enrich(ctx context.Context, title, summary string, keywords []string) (*core.Chunk, error) {
	keywords = core.NormalizeKeywords(keywords)
	res, err := s.db.ExecContext(ctx,
		`UPDATE blog_articles SET summary = ?, keywords = ? WHERE title = ?`,
		summary, joinKeywords(keywords), title)
	if err != nil {
		return nil, err
	}
	if err := requireRow(res); err != nil {
		return nil, err
	}
	return s.FindByTitle(ctx, title)
}

// DeleteChunks removes articles by ID.
func (s *Store) DeleteChunks(ctx context.Context, ids ...core.ID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			res, err := tx.ExecContext(ctx, `DELETE FROM blog_articles WHERE id = ?`, int64(id))
			if err != nil {
				return err
			}
			if err := requireRow(res); err != nil {
				return err
			}
		}
		return nil
	})
}

// Count returns the number of stored articles.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM blog_articles`).Scan(&n)
	return n, err
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]*core.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	chunks := make([]*core.Chunk, 0)
	for rows.Next() {
		chunk, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

func (s *Store) queryOne(ctx context.Context, query string, args ...any) (*core.Chunk, error) {
	chunk, err := s.scan(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	return chunk, err
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scan(row scanner) (*core.Chunk, error) {
	var (
		id                                         int64
		title, content                             string
		summary, keywords, sourceURL, date, vector sql.NullString
	)
	if err := row.Scan(&id, &title, &content, &summary, &keywords, &sourceURL, &date, &vector); err != nil {
		return nil, err
	}

	chunk := &core.Chunk{
		ID:        core.ID(id),
		Title:     title,
		Content:   content,
		Summary:   summary.String,
		Keywords:  splitKeywords(keywords.String),
		SourceURL: sourceURL.String,
	}
	if date.String != "" {
		if t, err := time.Parse(time.RFC3339, date.String); err == nil {
			chunk.Date = t
		} else {
			s.logger.Warn("ignoring unparseable article date", "id", id, "date", date.String)
		}
	}

	embedding, err := storage.DecodeEmbedding(vector.String)
	if err != nil {
		s.logger.Warn("skipping malformed embedding", "id", id, "title", title, "err", err)
	} else {
		chunk.Embedding = embedding
	}
	return chunk, nil
}

func mapError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%w: %w", storage.ErrDuplicateKey, err)
	}
	return err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func joinKeywords(keywords []string) string {
	return strings.Join(keywords, ",")
}

func splitKeywords(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return core.NormalizeKeywords(strings.Split(s, ","))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
