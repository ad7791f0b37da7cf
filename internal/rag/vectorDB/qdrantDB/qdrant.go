package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"github.com/insightqa/insightqa/internal/config"
	"github.com/insightqa/insightqa/internal/domain/kbModel"
	"github.com/insightqa/insightqa/internal/domain/ragModel"
	"github.com/insightqa/insightqa/internal/rag/vectorDB"
	"github.com/insightqa/insightqa/pkg/logger_i"
)

var dimension = uint64(config.EmbeddingOutputDimensionality)

type ClientHolder struct {
	client *qdrant.Client
	logger *logger_i.Logger
}

// NewClient connects to Qdrant. The client is owned by the caller and closed
// when ctx is cancelled; there is no process-wide instance.
func NewClient(ctx context.Context) (*ClientHolder, error) {
	logger := logger_i.NewLogger("Qdrant")

	host := config.QdrantHost
	port := config.QdrantGrpcPort
	if h, p := config.QdrantHostOverride(); h != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			host = h
			port = parsed
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil, err
	}

	holder := &ClientHolder{client: client, logger: logger}
	go holder.closeOnDone(ctx)
	return holder, nil
}

func (db *ClientHolder) closeOnDone(ctx context.Context) {
	<-ctx.Done()
	db.logger.Info("Shutting down Qdrant")
	if err := db.client.Close(); err != nil {
		db.logger.Error("could not close Qdrant: ", "error:", err)
	}
}

func (db *ClientHolder) EnsureCollection(ctx context.Context, collection string) error {
	if collection == "" {
		return errors.New("empty collection name")
	}

	exists, err := db.client.CollectionExists(ctx, collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return db.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, collection string, chunks []ragModel.DocChunk, vectors [][]float32) error {
	if len(chunks) == 0 {
		return nil
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ChunkId),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				vectorDB.FieldContent:        chunk.Content,
				vectorDB.FieldKbId:           chunk.Meta.KbId,
				vectorDB.FieldDocRole:        string(chunk.Meta.DocRole),
				vectorDB.FieldSourceDocument: chunk.Meta.SourceDocument,
				vectorDB.FieldChunkIndex:     chunk.Meta.ChunkIndex,
			}),
		}
	}

	_, err := db.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) Query(ctx context.Context, collection string, vector []float32, topK uint64, filter *vectorDB.Filter) ([]ragModel.ScoredChunk, error) {
	loggr := db.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	result, err := db.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(topK),
		Filter:         toQdrantFilter(filter),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	matches := make([]ragModel.ScoredChunk, 0, len(result))
	for _, hit := range result {
		matches = append(matches, ragModel.ScoredChunk{
			ChunkId: hit.Id.GetUuid(),
			Content: hit.Payload[vectorDB.FieldContent].GetStringValue(),
			Meta: ragModel.ChunkMetadata{
				KbId:           hit.Payload[vectorDB.FieldKbId].GetStringValue(),
				SourceDocument: hit.Payload[vectorDB.FieldSourceDocument].GetStringValue(),
				ChunkIndex:     int(hit.Payload[vectorDB.FieldChunkIndex].GetIntegerValue()),
				DocRole:        kbModel.DocumentRole(hit.Payload[vectorDB.FieldDocRole].GetStringValue()),
			},
			// qdrant reports cosine similarity, callers expect distance
			Distance: 1 - hit.Score,
		})
	}
	return matches, nil
}

func (db *ClientHolder) Delete(ctx context.Context, collection string, filter *vectorDB.Filter) error {
	qf := toQdrantFilter(filter)
	if qf == nil {
		return errors.New("refusing to delete without a filter")
	}

	_, err := db.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points:         qdrant.NewPointsSelectorFilter(qf),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant delete failed: %w", err)
	}
	return nil
}

// toQdrantFilter maps the store-agnostic filter to qdrant's: clauses under a
// single top-level Must, an OR-group as a nested filter with Should.
func toQdrantFilter(f *vectorDB.Filter) *qdrant.Filter {
	if f == nil || len(f.Clauses) == 0 {
		return nil
	}
	must := make([]*qdrant.Condition, 0, len(f.Clauses))
	for _, clause := range f.Clauses {
		if clause.Equals != nil {
			must = append(must, qdrant.NewMatch(clause.Equals.Field, clause.Equals.Value))
			continue
		}
		should := make([]*qdrant.Condition, 0, len(clause.AnyOf))
		for _, eq := range clause.AnyOf {
			should = append(should, qdrant.NewMatch(eq.Field, eq.Value))
		}
		must = append(must, &qdrant.Condition{
			ConditionOneOf: &qdrant.Condition_Filter{
				Filter: &qdrant.Filter{Should: should},
			},
		})
	}
	return &qdrant.Filter{Must: must}
}
