package kbstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/insightqa/insightqa/internal/domain/kbModel"
	"github.com/insightqa/insightqa/pkg/logger_i"
)

// ErrNotFound is returned when a knowledge base or document lookup finds no
// matching row.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS knowledge_bases (
	kb_id      TEXT PRIMARY KEY,
	kb_name    TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS documents (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	kb_id           TEXT NOT NULL REFERENCES knowledge_bases(kb_id) ON DELETE CASCADE,
	filename        TEXT NOT NULL,
	storage_path    TEXT NOT NULL,
	mime_type       TEXT NOT NULL,
	role            TEXT NOT NULL,
	is_html         INTEGER NOT NULL DEFAULT 0,
	is_primary_html INTEGER NOT NULL DEFAULT 0,
	uploaded_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_kb_id ON documents(kb_id);
`

// Store is the SQLite-backed registry of knowledge bases and their document
// rows. Vector payloads live in the vector store; this only tracks what was
// uploaded, where it is on disk and which HTML file is the UI under test.
type Store struct {
	db     *sql.DB
	logger *logger_i.Logger
}

// NewStore opens (and if needed creates) the registry database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "registry.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db, logger: logger_i.NewLogger("KB Store")}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateKnowledgeBase(ctx context.Context, kb kbModel.KnowledgeBase) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO knowledge_bases (kb_id, kb_name, created_at) VALUES (?, ?, ?)`,
		kb.Id, kb.Name, kb.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting knowledge base: %w", err)
	}
	return nil
}

func (s *Store) GetKnowledgeBase(ctx context.Context, id string) (kbModel.KnowledgeBase, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT kb_id, kb_name, created_at FROM knowledge_bases WHERE kb_id = ?`, id)
	return scanKnowledgeBase(row)
}

func (s *Store) ListKnowledgeBases(ctx context.Context) ([]kbModel.KnowledgeBase, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kb_id, kb_name, created_at FROM knowledge_bases ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing knowledge bases: %w", err)
	}
	defer rows.Close()

	var kbs []kbModel.KnowledgeBase
	for rows.Next() {
		kb, err := scanKnowledgeBase(rows)
		if err != nil {
			return nil, err
		}
		kbs = append(kbs, kb)
	}
	return kbs, rows.Err()
}

func (s *Store) RenameKnowledgeBase(ctx context.Context, id string, newName string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE knowledge_bases SET kb_name = ? WHERE kb_id = ?`, newName, id)
	if err != nil {
		return fmt.Errorf("renaming knowledge base: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) AddDocument(ctx context.Context, doc kbModel.Document) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (kb_id, filename, storage_path, mime_type, role, is_html, is_primary_html, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.KbId, doc.Filename, doc.StoragePath, doc.MimeType, string(doc.Role),
		boolToInt(doc.IsHTML), boolToInt(doc.IsPrimaryHTML),
		doc.UploadedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

func (s *Store) ListDocuments(ctx context.Context, kbId string) ([]kbModel.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kb_id, filename, storage_path, mime_type, role, is_html, is_primary_html, uploaded_at
		 FROM documents WHERE kb_id = ? ORDER BY id`, kbId)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []kbModel.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// ListAllDocuments returns every document row grouped by knowledge base, in
// insertion order within each. One query, for listings that span all bases.
func (s *Store) ListAllDocuments(ctx context.Context) ([]kbModel.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kb_id, filename, storage_path, mime_type, role, is_html, is_primary_html, uploaded_at
		 FROM documents ORDER BY kb_id, id`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []kbModel.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// FindHTMLDocument resolves the HTML file the script engine should load. With
// an empty filename the primary HTML document of the knowledge base wins.
func (s *Store) FindHTMLDocument(ctx context.Context, kbId string, filename string) (kbModel.Document, error) {
	var row *sql.Row
	if filename == "" {
		row = s.db.QueryRowContext(ctx,
			`SELECT id, kb_id, filename, storage_path, mime_type, role, is_html, is_primary_html, uploaded_at
			 FROM documents WHERE kb_id = ? AND is_html = 1
			 ORDER BY is_primary_html DESC, id LIMIT 1`, kbId)
	} else {
		row = s.db.QueryRowContext(ctx,
			`SELECT id, kb_id, filename, storage_path, mime_type, role, is_html, is_primary_html, uploaded_at
			 FROM documents WHERE kb_id = ? AND is_html = 1 AND filename = ? LIMIT 1`, kbId, filename)
	}
	return scanDocument(row)
}

// DeleteKnowledgeBase removes the registry rows for one knowledge base.
// Callers must have already removed the vectors and stored files so that a
// failure here leaves the entry discoverable for a retry.
func (s *Store) DeleteKnowledgeBase(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM knowledge_bases WHERE kb_id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting knowledge base: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanKnowledgeBase(row scannable) (kbModel.KnowledgeBase, error) {
	var kb kbModel.KnowledgeBase
	var createdAt string
	err := row.Scan(&kb.Id, &kb.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return kbModel.KnowledgeBase{}, ErrNotFound
	}
	if err != nil {
		return kbModel.KnowledgeBase{}, fmt.Errorf("scanning knowledge base: %w", err)
	}
	kb.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return kbModel.KnowledgeBase{}, fmt.Errorf("parsing created_at: %w", err)
	}
	return kb, nil
}

func scanDocument(row scannable) (kbModel.Document, error) {
	var doc kbModel.Document
	var role, uploadedAt string
	var isHTML, isPrimary int
	err := row.Scan(&doc.Id, &doc.KbId, &doc.Filename, &doc.StoragePath, &doc.MimeType,
		&role, &isHTML, &isPrimary, &uploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return kbModel.Document{}, ErrNotFound
	}
	if err != nil {
		return kbModel.Document{}, fmt.Errorf("scanning document: %w", err)
	}
	doc.Role = kbModel.DocumentRole(role)
	doc.IsHTML = isHTML != 0
	doc.IsPrimaryHTML = isPrimary != 0
	doc.UploadedAt, err = time.Parse(time.RFC3339Nano, uploadedAt)
	if err != nil {
		return kbModel.Document{}, fmt.Errorf("parsing uploaded_at: %w", err)
	}
	return doc, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
