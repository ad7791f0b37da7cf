package rag_test

import (
	"context"

	"github.com/insightqa/insightqa/internal/data/kbstore"
	"github.com/insightqa/insightqa/internal/domain/kbModel"
	"github.com/insightqa/insightqa/internal/domain/ragModel"
	"github.com/insightqa/insightqa/internal/rag/llm"
	"github.com/insightqa/insightqa/internal/rag/vectorDB"
)

// MockRegistry implements kbModel.Registry backed by in-memory maps.
type MockRegistry struct {
	KBs       map[string]kbModel.KnowledgeBase
	Docs      map[string][]kbModel.Document
	OnDelete  func(ctx context.Context, id string) error
	DeleteLog *[]string
}

func NewMockRegistry() *MockRegistry {
	return &MockRegistry{
		KBs:  make(map[string]kbModel.KnowledgeBase),
		Docs: make(map[string][]kbModel.Document),
	}
}

func (m *MockRegistry) CreateKnowledgeBase(ctx context.Context, kb kbModel.KnowledgeBase) error {
	m.KBs[kb.Id] = kb
	return nil
}

func (m *MockRegistry) GetKnowledgeBase(ctx context.Context, id string) (kbModel.KnowledgeBase, error) {
	kb, ok := m.KBs[id]
	if !ok {
		return kbModel.KnowledgeBase{}, kbstore.ErrNotFound
	}
	return kb, nil
}

func (m *MockRegistry) ListKnowledgeBases(ctx context.Context) ([]kbModel.KnowledgeBase, error) {
	var out []kbModel.KnowledgeBase
	for _, kb := range m.KBs {
		out = append(out, kb)
	}
	return out, nil
}

func (m *MockRegistry) RenameKnowledgeBase(ctx context.Context, id string, newName string) error {
	kb, ok := m.KBs[id]
	if !ok {
		return kbstore.ErrNotFound
	}
	kb.Name = newName
	m.KBs[id] = kb
	return nil
}

func (m *MockRegistry) AddDocument(ctx context.Context, doc kbModel.Document) error {
	m.Docs[doc.KbId] = append(m.Docs[doc.KbId], doc)
	return nil
}

func (m *MockRegistry) ListDocuments(ctx context.Context, kbId string) ([]kbModel.Document, error) {
	return m.Docs[kbId], nil
}

func (m *MockRegistry) ListAllDocuments(ctx context.Context) ([]kbModel.Document, error) {
	var out []kbModel.Document
	for _, docs := range m.Docs {
		out = append(out, docs...)
	}
	return out, nil
}

func (m *MockRegistry) FindHTMLDocument(ctx context.Context, kbId string, filename string) (kbModel.Document, error) {
	for _, doc := range m.Docs[kbId] {
		if !doc.IsHTML {
			continue
		}
		if filename == "" && doc.IsPrimaryHTML {
			return doc, nil
		}
		if filename != "" && doc.Filename == filename {
			return doc, nil
		}
	}
	return kbModel.Document{}, kbstore.ErrNotFound
}

func (m *MockRegistry) DeleteKnowledgeBase(ctx context.Context, id string) error {
	if m.DeleteLog != nil {
		*m.DeleteLog = append(*m.DeleteLog, "registry")
	}
	if m.OnDelete != nil {
		return m.OnDelete(ctx, id)
	}
	if _, ok := m.KBs[id]; !ok {
		return kbstore.ErrNotFound
	}
	delete(m.KBs, id)
	delete(m.Docs, id)
	return nil
}

// MockFileStore implements storage.FileStore without touching disk.
type MockFileStore struct {
	Saved     map[string][]byte
	OnRemove  func(kbId string) error
	DeleteLog *[]string
}

func NewMockFileStore() *MockFileStore {
	return &MockFileStore{Saved: make(map[string][]byte)}
}

func (m *MockFileStore) Save(kbId string, filename string, data []byte) (string, error) {
	path := "/assets/" + kbId + "/" + filename
	m.Saved[path] = data
	return path, nil
}

func (m *MockFileStore) RemoveNamespace(kbId string) error {
	if m.DeleteLog != nil {
		*m.DeleteLog = append(*m.DeleteLog, "files")
	}
	if m.OnRemove != nil {
		return m.OnRemove(kbId)
	}
	return nil
}

// MockVectorDB implements vectorDB.DataProcessor
type MockVectorDB struct {
	OnQuery     func(ctx context.Context, collection string, vector []float32, topK uint64, filter *vectorDB.Filter) ([]ragModel.ScoredChunk, error)
	OnUpsert    func(ctx context.Context, collection string, chunks []ragModel.DocChunk, vectors [][]float32) error
	OnDelete    func(ctx context.Context, collection string, filter *vectorDB.Filter) error
	LastFilter  *vectorDB.Filter
	LastChunks  []ragModel.DocChunk
	LastVectors [][]float32
	DeleteLog   *[]string
}

func (m *MockVectorDB) EnsureCollection(ctx context.Context, collection string) error {
	return nil
}

func (m *MockVectorDB) UpsertBatch(ctx context.Context, collection string, chunks []ragModel.DocChunk, vectors [][]float32) error {
	m.LastChunks = chunks
	m.LastVectors = vectors
	if m.OnUpsert != nil {
		return m.OnUpsert(ctx, collection, chunks, vectors)
	}
	return nil
}

func (m *MockVectorDB) Query(ctx context.Context, collection string, vector []float32, topK uint64, filter *vectorDB.Filter) ([]ragModel.ScoredChunk, error) {
	m.LastFilter = filter
	if m.OnQuery != nil {
		return m.OnQuery(ctx, collection, vector, topK, filter)
	}
	return nil, nil
}

func (m *MockVectorDB) Delete(ctx context.Context, collection string, filter *vectorDB.Filter) error {
	m.LastFilter = filter
	if m.DeleteLog != nil {
		*m.DeleteLog = append(*m.DeleteLog, "vectors")
	}
	if m.OnDelete != nil {
		return m.OnDelete(ctx, collection, filter)
	}
	return nil
}

// MockEmbedder implements embedding.Embedder
type MockEmbedder struct {
	OnEmbedTexts func(ctx context.Context, texts []string) ([][]float32, error)
	BatchSizes   []int
}

func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1}, nil
}

func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.BatchSizes = append(m.BatchSizes, len(texts))
	if m.OnEmbedTexts != nil {
		return m.OnEmbedTexts(ctx, texts)
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{float32(i)}
	}
	return out, nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	Replies []string
	Errs    []error
	Calls   int
}

func (m *MockLLM) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	i := m.Calls
	m.Calls++
	if i < len(m.Errs) && m.Errs[i] != nil {
		return "", m.Errs[i]
	}
	if i < len(m.Replies) {
		return m.Replies[i], nil
	}
	return "[]", nil
}
