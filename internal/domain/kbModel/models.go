package kbModel

import (
	"context"
	"time"
)

type DocumentRole string

const (
	// RoleMain marks the UI under test: the first HTML file uploaded into a
	// knowledge base. Everything else is RoleSupport (specs, docs).
	RoleMain    DocumentRole = "main"
	RoleSupport DocumentRole = "support"
)

// KnowledgeBase is one named grouping of documents, created by a single
// ingestion call and never appended to afterwards.
type KnowledgeBase struct {
	Id        string    `json:"kb_id"`
	Name      string    `json:"kb_name"`
	CreatedAt time.Time `json:"created_at"`
}

type Document struct {
	Id            int64        `json:"-"`
	KbId          string       `json:"-"`
	Filename      string       `json:"filename"`
	StoragePath   string       `json:"path"`
	MimeType      string       `json:"-"`
	Role          DocumentRole `json:"role"`
	IsHTML        bool         `json:"is_html"`
	IsPrimaryHTML bool         `json:"is_primary_html"`
	UploadedAt    time.Time    `json:"-"`
}

// Registry is the persistence contract for knowledge bases and their
// documents. The generation engines depend on FindHTMLDocument resolving to a
// stored file path.
type Registry interface {
	CreateKnowledgeBase(ctx context.Context, kb KnowledgeBase) error
	GetKnowledgeBase(ctx context.Context, id string) (KnowledgeBase, error)
	ListKnowledgeBases(ctx context.Context) ([]KnowledgeBase, error)
	RenameKnowledgeBase(ctx context.Context, id string, newName string) error
	AddDocument(ctx context.Context, doc Document) error
	ListDocuments(ctx context.Context, kbId string) ([]Document, error)
	ListAllDocuments(ctx context.Context) ([]Document, error)
	FindHTMLDocument(ctx context.Context, kbId string, filename string) (Document, error)
	DeleteKnowledgeBase(ctx context.Context, id string) error
}
