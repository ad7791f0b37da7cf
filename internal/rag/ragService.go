package rag

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/insightqa/insightqa/internal/adapter/utils"
	"github.com/insightqa/insightqa/internal/config"
	"github.com/insightqa/insightqa/internal/data/kbstore"
	"github.com/insightqa/insightqa/internal/domain/kbModel"
	"github.com/insightqa/insightqa/internal/domain/ragModel"
	"github.com/insightqa/insightqa/internal/metrics"
	"github.com/insightqa/insightqa/internal/rag/chunker"
	"github.com/insightqa/insightqa/internal/rag/embedding"
	"github.com/insightqa/insightqa/internal/rag/llm"
	"github.com/insightqa/insightqa/internal/rag/parser"
	"github.com/insightqa/insightqa/internal/rag/scope"
	"github.com/insightqa/insightqa/internal/rag/scriptgen"
	"github.com/insightqa/insightqa/internal/rag/testcases"
	"github.com/insightqa/insightqa/internal/rag/vectorDB"
	"github.com/insightqa/insightqa/internal/storage"
	"github.com/insightqa/insightqa/pkg/logger_i"
)

// UploadedFile is one multipart upload already read into memory.
type UploadedFile struct {
	Filename string
	Data     []byte
}

// DocumentSummary reports what happened to one uploaded file during ingestion.
type DocumentSummary struct {
	Filename string               `json:"filename"`
	Role     kbModel.DocumentRole `json:"role"`
	Chunks   int                  `json:"chunks"`
}

// KBListing is one knowledge base with its documents, as returned by the
// listing operation.
type KBListing struct {
	KnowledgeBase kbModel.KnowledgeBase
	Documents     []kbModel.Document
}

// IngestSummary is the synchronous result of building one knowledge base.
type IngestSummary struct {
	KbId          string            `json:"kb_id"`
	KbName        string            `json:"kb_name"`
	Documents     []DocumentSummary `json:"documents"`
	ChunksIndexed int               `json:"chunks_indexed"`
}

// ScopeError rejects a request before any generation work starts: unknown
// knowledge base, missing HTML document, invalid input. Handlers map Status
// straight onto the HTTP response.
type ScopeError struct {
	Status  int
	Message string
}

func (e *ScopeError) Error() string {
	return e.Message
}

func IsScopeError(err error) bool {
	var se *ScopeError
	return errors.As(err, &se)
}

// Service is the public contract the HTTP handlers depend on. It owns the
// full pipeline behind each operation so callers never see the vector store,
// the embedder or the model directly.
type Service interface {
	IngestKnowledgeBase(ctx context.Context, name string, files []UploadedFile) (IngestSummary, error)
	GenerateTestCases(ctx context.Context, req testcases.Request) (ragModel.TestCaseOutcome, error)
	GenerateScript(ctx context.Context, kbId string, testcase ragModel.TestCase, htmlFilename string) (ragModel.ScriptOutcome, error)
	ListKnowledgeBases(ctx context.Context) ([]KBListing, error)
	ViewKnowledgeBase(ctx context.Context, kbId string) (kbModel.KnowledgeBase, []kbModel.Document, error)
	RenameKnowledgeBase(ctx context.Context, kbId string, newName string) error
	DeleteKnowledgeBase(ctx context.Context, kbId string) error
}

type service struct {
	registry     kbModel.Registry
	files        storage.FileStore
	vectorDB     vectorDB.DataProcessor
	embedder     embedding.Embedder
	testEngine   *testcases.Engine
	scriptEngine *scriptgen.Engine
	collection   string
	logger       *logger_i.Logger
}

// NewService wires the pipeline. The same provider drives both engines.
func NewService(registry kbModel.Registry, files storage.FileStore, vector vectorDB.DataProcessor, em embedding.Embedder, provider llm.Provider, model string) Service {
	return &service{
		registry:     registry,
		files:        files,
		vectorDB:     vector,
		embedder:     em,
		testEngine:   testcases.NewEngine(vector, em, provider, config.ChunkCollectionName, model),
		scriptEngine: scriptgen.NewEngine(provider),
		collection:   config.ChunkCollectionName,
		logger:       logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) IngestKnowledgeBase(ctx context.Context, name string, files []UploadedFile) (IngestSummary, error) {
	start := time.Now()
	defer func() { metrics.CaptureOperationMetrics("ingest", time.Since(start)) }()

	if strings.TrimSpace(name) == "" {
		return IngestSummary{}, &ScopeError{Status: http.StatusBadRequest, Message: "knowledge base name is required"}
	}
	if len(files) == 0 {
		return IngestSummary{}, &ScopeError{Status: http.StatusBadRequest, Message: "at least one file is required"}
	}

	ingestCtx, cancel := context.WithTimeout(ctx, config.IngestTimeout)
	defer cancel()

	kbId := utils.GetNewUUID()
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "kbId", kbId)

	if err := s.vectorDB.EnsureCollection(ingestCtx, s.collection); err != nil {
		return IngestSummary{}, fmt.Errorf("ensuring collection: %w", err)
	}
	if err := s.registry.CreateKnowledgeBase(ingestCtx, kbModel.KnowledgeBase{
		Id:        kbId,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return IngestSummary{}, fmt.Errorf("registering knowledge base: %w", err)
	}

	summary := IngestSummary{KbId: kbId, KbName: name}
	var allChunks []ragModel.DocChunk
	primaryAssigned := false

	for _, file := range files {
		doc, chunks, err := s.ingestOneFile(ingestCtx, log, kbId, file, &primaryAssigned)
		if err != nil {
			return IngestSummary{}, err
		}
		summary.Documents = append(summary.Documents, DocumentSummary{
			Filename: doc.Filename,
			Role:     doc.Role,
			Chunks:   len(chunks),
		})
		allChunks = append(allChunks, chunks...)
	}

	if err := s.indexChunks(ingestCtx, allChunks); err != nil {
		return IngestSummary{}, err
	}
	summary.ChunksIndexed = len(allChunks)
	metrics.CountChunksIndexed(len(allChunks))

	log.Info("Knowledge base ingested", "documents", len(files), "chunks", len(allChunks))
	return summary, nil
}

// ingestOneFile stores the upload, registers the document row and returns its
// chunks. The first HTML file of the knowledge base becomes the UI under test.
func (s *service) ingestOneFile(ctx context.Context, log *logger_i.Logger, kbId string, file UploadedFile, primaryAssigned *bool) (kbModel.Document, []ragModel.DocChunk, error) {
	filename := filepath.Base(file.Filename)
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return kbModel.Document{}, nil, &ScopeError{Status: http.StatusBadRequest, Message: "file without a usable name"}
	}

	storedPath, err := s.files.Save(kbId, filename, file.Data)
	if err != nil {
		return kbModel.Document{}, nil, fmt.Errorf("storing %s: %w", filename, err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	isHTML := ext == ".html" || ext == ".htm"

	doc := kbModel.Document{
		KbId:        kbId,
		Filename:    filename,
		StoragePath: storedPath,
		MimeType:    mimeType(ext),
		Role:        kbModel.RoleSupport,
		IsHTML:      isHTML,
		UploadedAt:  time.Now().UTC(),
	}
	if isHTML && !*primaryAssigned {
		doc.Role = kbModel.RoleMain
		doc.IsPrimaryHTML = true
		*primaryAssigned = true
	}

	if err := s.registry.AddDocument(ctx, doc); err != nil {
		return kbModel.Document{}, nil, fmt.Errorf("registering %s: %w", filename, err)
	}

	text := parser.Parse(storedPath, file.Data)
	if strings.TrimSpace(text) == "" {
		log.Warn("Document produced no text", "filename", filename)
		return doc, nil, nil
	}

	var chunks []ragModel.DocChunk
	for i, piece := range chunker.Split(text, config.ChunkWindow, config.ChunkOverlap) {
		meta, err := ragModel.NewChunkMetadata(kbId, filename, i, doc.Role)
		if err != nil {
			return kbModel.Document{}, nil, fmt.Errorf("chunk metadata for %s: %w", filename, err)
		}
		chunks = append(chunks, ragModel.DocChunk{
			ChunkId: utils.GetNewUUID(),
			Content: piece.Text,
			Meta:    meta,
		})
	}
	return doc, chunks, nil
}

// indexChunks embeds in bounded batches and upserts everything. Vector order
// is kept aligned with chunk order throughout.
func (s *service) indexChunks(ctx context.Context, chunks []ragModel.DocChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	vectors := make([][]float32, 0, len(chunks))
	for lo := 0; lo < len(chunks); lo += config.EmbeddingBatchSize {
		hi := lo + config.EmbeddingBatchSize
		if hi > len(chunks) {
			hi = len(chunks)
		}
		texts := make([]string, 0, hi-lo)
		for _, c := range chunks[lo:hi] {
			texts = append(texts, c.Content)
		}

		start := time.Now()
		batch, err := s.embedder.EmbedTexts(ctx, texts)
		metrics.CaptureExecutionMetrics("embedding", time.Since(start))
		if err != nil {
			return fmt.Errorf("embedding batch: %w", err)
		}
		vectors = append(vectors, batch...)
	}

	if err := s.vectorDB.UpsertBatch(ctx, s.collection, chunks, vectors); err != nil {
		return fmt.Errorf("upserting chunks: %w", err)
	}
	return nil
}

func (s *service) GenerateTestCases(ctx context.Context, req testcases.Request) (ragModel.TestCaseOutcome, error) {
	start := time.Now()
	defer func() { metrics.CaptureOperationMetrics("generate_testcases", time.Since(start)) }()

	if strings.TrimSpace(req.Query) == "" {
		return ragModel.TestCaseOutcome{}, &ScopeError{Status: http.StatusBadRequest, Message: "query is required"}
	}
	if _, err := s.registry.GetKnowledgeBase(ctx, req.KbId); err != nil {
		return ragModel.TestCaseOutcome{}, s.registryScopeError(err, "knowledge base not found")
	}

	genCtx, cancel := context.WithTimeout(ctx, config.GenerationTimeout)
	defer cancel()

	outcome := s.testEngine.Generate(genCtx, req)
	metrics.CountGenerationOutcome("testcases", string(outcome.Status))
	return outcome, nil
}

func (s *service) GenerateScript(ctx context.Context, kbId string, testcase ragModel.TestCase, htmlFilename string) (ragModel.ScriptOutcome, error) {
	start := time.Now()
	defer func() { metrics.CaptureOperationMetrics("generate_script", time.Since(start)) }()

	if _, err := s.registry.GetKnowledgeBase(ctx, kbId); err != nil {
		return ragModel.ScriptOutcome{}, s.registryScopeError(err, "knowledge base not found")
	}
	htmlDoc, err := s.registry.FindHTMLDocument(ctx, kbId, htmlFilename)
	if err != nil {
		return ragModel.ScriptOutcome{}, s.registryScopeError(err, "no matching HTML document in knowledge base")
	}

	genCtx, cancel := context.WithTimeout(ctx, config.GenerationTimeout)
	defer cancel()

	outcome := s.scriptEngine.Generate(genCtx, testcase, htmlDoc.StoragePath)
	metrics.CountGenerationOutcome("script", string(outcome.Status))
	return outcome, nil
}

func (s *service) ListKnowledgeBases(ctx context.Context) ([]KBListing, error) {
	kbs, err := s.registry.ListKnowledgeBases(ctx)
	if err != nil {
		return nil, err
	}
	docs, err := s.registry.ListAllDocuments(ctx)
	if err != nil {
		return nil, err
	}

	byKb := make(map[string][]kbModel.Document, len(kbs))
	for _, doc := range docs {
		byKb[doc.KbId] = append(byKb[doc.KbId], doc)
	}

	listings := make([]KBListing, 0, len(kbs))
	for _, kb := range kbs {
		listings = append(listings, KBListing{KnowledgeBase: kb, Documents: byKb[kb.Id]})
	}
	return listings, nil
}

func (s *service) ViewKnowledgeBase(ctx context.Context, kbId string) (kbModel.KnowledgeBase, []kbModel.Document, error) {
	kb, err := s.registry.GetKnowledgeBase(ctx, kbId)
	if err != nil {
		return kbModel.KnowledgeBase{}, nil, s.registryScopeError(err, "knowledge base not found")
	}
	docs, err := s.registry.ListDocuments(ctx, kbId)
	if err != nil {
		return kbModel.KnowledgeBase{}, nil, err
	}
	return kb, docs, nil
}

func (s *service) RenameKnowledgeBase(ctx context.Context, kbId string, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return &ScopeError{Status: http.StatusBadRequest, Message: "new name is required"}
	}
	if err := s.registry.RenameKnowledgeBase(ctx, kbId, newName); err != nil {
		return s.registryScopeError(err, "knowledge base not found")
	}
	return nil
}

// DeleteKnowledgeBase tears a knowledge base down from the outside in:
// vectors, then stored files, then the registry entry. The entry goes last so
// a partial failure leaves the id listable and the delete retryable.
func (s *service) DeleteKnowledgeBase(ctx context.Context, kbId string) error {
	start := time.Now()
	defer func() { metrics.CaptureOperationMetrics("delete_kb", time.Since(start)) }()

	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "kbId", kbId)

	if _, err := s.registry.GetKnowledgeBase(ctx, kbId); err != nil {
		return s.registryScopeError(err, "knowledge base not found")
	}

	if err := s.vectorDB.Delete(ctx, s.collection, scope.Build(kbId, nil)); err != nil {
		return fmt.Errorf("deleting vectors: %w", err)
	}
	if err := s.files.RemoveNamespace(kbId); err != nil {
		return fmt.Errorf("removing stored files: %w", err)
	}
	if err := s.registry.DeleteKnowledgeBase(ctx, kbId); err != nil {
		return fmt.Errorf("removing registry entry: %w", err)
	}

	log.Info("Knowledge base deleted")
	return nil
}

func (s *service) registryScopeError(err error, message string) error {
	if errors.Is(err, kbstore.ErrNotFound) {
		return &ScopeError{Status: http.StatusNotFound, Message: message}
	}
	return err
}

func mimeType(ext string) string {
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
