package vectorDB

import (
	"context"

	"github.com/insightqa/insightqa/internal/domain/ragModel"
)

// Payload field names chunks are indexed under. Filters match against these.
const (
	FieldKbId           = "kb_id"
	FieldDocRole        = "doc_role"
	FieldSourceDocument = "source_document"
	FieldChunkIndex     = "chunk_index"
	FieldContent        = "content"
)

type Equals struct {
	Field string
	Value string
}

// Clause is either a single equality or an OR-group of equalities, never
// both.
type Clause struct {
	Equals *Equals
	AnyOf  []Equals
}

// Filter is a conjunction of clauses. More than one clause is combined under
// a single top-level AND by the store adapter, since the underlying store
// accepts only one top-level operator. A nil *Filter means unfiltered.
type Filter struct {
	Clauses []Clause
}

type DataProcessor interface {
	// EnsureCollection creates the collection when missing; existing
	// collections are left untouched.
	EnsureCollection(ctx context.Context, collection string) error

	// UpsertBatch persists chunks with their embeddings, one vector per
	// chunk in matching order. Empty input is a no-op.
	UpsertBatch(ctx context.Context, collection string, chunks []ragModel.DocChunk, vectors [][]float32) error

	// Query returns at most topK chunks matching filter, nearest first.
	// An empty candidate set yields an empty result, not an error.
	Query(ctx context.Context, collection string, vector []float32, topK uint64, filter *Filter) ([]ragModel.ScoredChunk, error)

	// Delete removes every chunk matching filter. Used for whole
	// knowledge-base teardown.
	Delete(ctx context.Context, collection string, filter *Filter) error
}
