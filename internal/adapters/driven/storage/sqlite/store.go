package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/inkwell-labs/inkwell-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
	"github.com/inkwell-labs/inkwell-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides the document
// store, outline provider, and search index through wrapper types
// sharing one database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.inkwell/data/inkwell.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".inkwell", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "inkwell.db")

	// WAL for concurrent readers during an apply.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// OutlineStore returns an OutlineProvider interface backed by this store.
func (s *Store) OutlineStore() driven.OutlineProvider {
	return &outlineStore{store: s}
}

// SearchIndex returns a SearchIndex interface backed by the FTS table.
func (s *Store) SearchIndex() driven.SearchIndex {
	return &searchIndex{store: s}
}

// migrate applies any pending .up.sql migrations in version order.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// --- DocumentStore ---

// Ensure documentStore implements the interface.
var _ driven.DocumentStore = (*documentStore)(nil)

type documentStore struct {
	store *Store
}

// Save stores a new document with its blocks and FTS entries.
func (d *documentStore) Save(ctx context.Context, doc *domain.Document) error {
	var exists int
	err := d.store.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM documents WHERE id = ?", doc.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking document: %w", err)
	}
	if exists > 0 {
		return domain.ErrAlreadyExists
	}

	tx, err := d.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		"INSERT INTO documents (id, title, base_version, last_modified) VALUES (?, ?, ?, ?)",
		doc.ID, doc.Title, doc.BaseVersion, doc.LastModified.UnixNano())
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}

	if err := insertBlocks(ctx, tx, doc); err != nil {
		return err
	}

	return tx.Commit()
}

// Get retrieves a document with its blocks in position order.
func (d *documentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	var doc domain.Document
	var lastModified int64
	err := d.store.db.QueryRowContext(ctx,
		"SELECT id, title, base_version, last_modified FROM documents WHERE id = ?", id).
		Scan(&doc.ID, &doc.Title, &doc.BaseVersion, &lastModified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDocNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying document: %w", err)
	}
	doc.LastModified = time.Unix(0, lastModified)

	rows, err := d.store.db.QueryContext(ctx,
		"SELECT id, type, level, text, hash FROM blocks WHERE document_id = ? ORDER BY position", id)
	if err != nil {
		return nil, fmt.Errorf("querying blocks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var blk domain.Block
		if err := rows.Scan(&blk.ID, &blk.Type, &blk.Level, &blk.Text, &blk.Hash); err != nil {
			return nil, fmt.Errorf("scanning block: %w", err)
		}
		doc.Blocks = append(doc.Blocks, blk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating blocks: %w", err)
	}

	return &doc, nil
}

// ReplaceBlocks commits a new block sequence and version for an
// existing document, refreshing the FTS index in the same transaction.
func (d *documentStore) ReplaceBlocks(ctx context.Context, doc *domain.Document) error {
	tx, err := d.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		"UPDATE documents SET base_version = ?, last_modified = ? WHERE id = ?",
		doc.BaseVersion, doc.LastModified.UnixNano(), doc.ID)
	if err != nil {
		return fmt.Errorf("updating document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if affected == 0 {
		return domain.ErrDocNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM blocks WHERE document_id = ?", doc.ID); err != nil {
		return fmt.Errorf("clearing blocks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM blocks_fts WHERE document_id = ?", doc.ID); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}

	if err := insertBlocks(ctx, tx, doc); err != nil {
		return err
	}

	return tx.Commit()
}

// List returns all documents with their blocks, ordered by ID.
func (d *documentStore) List(ctx context.Context) ([]domain.Document, error) {
	rows, err := d.store.db.QueryContext(ctx, "SELECT id FROM documents ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning document id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	docs := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := d.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// Delete removes a document, its blocks, and its index entries.
func (d *documentStore) Delete(ctx context.Context, id string) error {
	tx, err := d.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM blocks_fts WHERE document_id = ?", id); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	return tx.Commit()
}

// insertBlocks writes a document's blocks and FTS rows inside tx.
func insertBlocks(ctx context.Context, tx *sql.Tx, doc *domain.Document) error {
	for i := range doc.Blocks {
		blk := &doc.Blocks[i]
		_, err := tx.ExecContext(ctx,
			"INSERT INTO blocks (id, document_id, position, type, level, text, hash) VALUES (?, ?, ?, ?, ?, ?, ?)",
			blk.ID, doc.ID, i, string(blk.Type), blk.Level, blk.Text, blk.Hash)
		if err != nil {
			return fmt.Errorf("inserting block %s: %w", blk.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO blocks_fts (block_id, document_id, text) VALUES (?, ?, ?)",
			blk.ID, doc.ID, blk.Text)
		if err != nil {
			return fmt.Errorf("indexing block %s: %w", blk.ID, err)
		}
	}
	return nil
}

// --- OutlineProvider ---

// Ensure outlineStore implements the interface.
var _ driven.OutlineProvider = (*outlineStore)(nil)

type outlineStore struct {
	store *Store
}

// GetOutline returns the outline for a document, or (nil, nil).
func (o *outlineStore) GetOutline(ctx context.Context, docID string) (*domain.Outline, error) {
	var outline domain.Outline
	err := o.store.db.QueryRowContext(ctx,
		"SELECT goal, conflict, outcome, clock, crucible FROM outlines WHERE document_id = ?", docID).
		Scan(&outline.Goal, &outline.Conflict, &outline.Outcome, &outline.Clock, &outline.Crucible)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying outline: %w", err)
	}
	return &outline, nil
}

// SetOutline records or replaces the outline for a document.
func (o *outlineStore) SetOutline(ctx context.Context, docID string, outline *domain.Outline) error {
	if outline == nil {
		_, err := o.store.db.ExecContext(ctx, "DELETE FROM outlines WHERE document_id = ?", docID)
		return err
	}
	_, err := o.store.db.ExecContext(ctx, `
		INSERT INTO outlines (document_id, goal, conflict, outcome, clock, crucible)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			goal = excluded.goal, conflict = excluded.conflict,
			outcome = excluded.outcome, clock = excluded.clock,
			crucible = excluded.crucible`,
		docID, outline.Goal, outline.Conflict, outline.Outcome, outline.Clock, outline.Crucible)
	if err != nil {
		return fmt.Errorf("saving outline: %w", err)
	}
	return nil
}

// --- SearchIndex ---

// Ensure searchIndex implements the interface.
var _ driven.SearchIndex = (*searchIndex)(nil)

type searchIndex struct {
	store *Store
}

// SearchInDocument ranks the document's blocks against the query using
// bm25 over the FTS table. Scores are negated bm25, so higher is
// better; ties break on block position for stable ordering.
func (x *searchIndex) SearchInDocument(ctx context.Context, docID, query string, limit int) ([]driven.BlockHit, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := x.store.db.QueryContext(ctx, `
		SELECT f.block_id, -bm25(blocks_fts) AS score
		FROM blocks_fts f
		JOIN blocks b ON b.id = f.block_id
		WHERE blocks_fts MATCH ? AND f.document_id = ?
		ORDER BY score DESC, b.position
		LIMIT ?`,
		match, docID, limit)
	if err != nil {
		return nil, fmt.Errorf("searching blocks: %w", err)
	}
	defer rows.Close()

	var hits []driven.BlockHit
	for rows.Next() {
		var hit driven.BlockHit
		if err := rows.Scan(&hit.BlockID, &hit.Score); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hits: %w", err)
	}

	return hits, nil
}

// Close is a no-op; the owning Store closes the database.
func (x *searchIndex) Close() error {
	return nil
}

// ftsQuery converts a free-text query into a safe FTS5 expression:
// each term quoted, terms joined with OR so any match scores.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return ""
	}
	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " OR ")
}
