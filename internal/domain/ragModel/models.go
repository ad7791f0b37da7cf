package ragModel

import (
	"fmt"

	"github.com/insightqa/insightqa/internal/domain/kbModel"
)

// ChunkMetadata travels with every indexed chunk and is what retrieval
// filters match against.
type ChunkMetadata struct {
	KbId           string              `json:"kb_id"`
	SourceDocument string              `json:"source_document"`
	ChunkIndex     int                 `json:"chunk_index"`
	DocRole        kbModel.DocumentRole `json:"doc_role"`
}

func NewChunkMetadata(kbId, sourceDocument string, chunkIndex int, role kbModel.DocumentRole) (ChunkMetadata, error) {
	if kbId == "" {
		return ChunkMetadata{}, fmt.Errorf("chunk metadata: empty kb_id")
	}
	if sourceDocument == "" {
		return ChunkMetadata{}, fmt.Errorf("chunk metadata: empty source_document")
	}
	if chunkIndex < 0 {
		return ChunkMetadata{}, fmt.Errorf("chunk metadata: negative chunk_index %d", chunkIndex)
	}
	if role != kbModel.RoleMain && role != kbModel.RoleSupport {
		return ChunkMetadata{}, fmt.Errorf("chunk metadata: unknown role %q", role)
	}
	return ChunkMetadata{
		KbId:           kbId,
		SourceDocument: sourceDocument,
		ChunkIndex:     chunkIndex,
		DocRole:        role,
	}, nil
}

// DocChunk is one bounded text window of a source document, immutable once
// created.
type DocChunk struct {
	ChunkId string        `json:"chunk_id"`
	Content string        `json:"content"`
	Meta    ChunkMetadata `json:"metadata"`
}

// ScoredChunk is one retrieval hit. Distance is the vector distance to the
// query embedding, so results sort nearest first by ascending Distance.
type ScoredChunk struct {
	ChunkId  string        `json:"chunk_id"`
	Content  string        `json:"content"`
	Meta     ChunkMetadata `json:"metadata"`
	Distance float32       `json:"distance"`
}

// TestCase is the structured artifact the test-case engine extracts from the
// model reply. JSON tags match the output contract given to the model.
type TestCase struct {
	TestID         string   `json:"Test_ID"`
	Feature        string   `json:"Feature"`
	TestScenario   string   `json:"Test_Scenario"`
	Steps          []string `json:"Steps"`
	ExpectedResult string   `json:"Expected_Result"`
	Type           string   `json:"Type"`
	GroundedIn     []string `json:"Grounded_In"`
}

type OutcomeStatus string

const (
	OutcomeSuccess  OutcomeStatus = "success"
	OutcomeRepaired OutcomeStatus = "repaired"
	OutcomeFailure  OutcomeStatus = "failure"
)

// TestCaseOutcome is the value-typed result of one generation request. Parse
// and provider failures land here instead of surfacing as errors, and the raw
// model text is always kept for diagnosability.
type TestCaseOutcome struct {
	Status         OutcomeStatus
	TestCases      []TestCase
	RawOutput      string
	RepairedOutput string
	Reason         string
	Retrieved      []ScoredChunk
	Prompt         string
	Model          string
	KbId           string
}

func (o TestCaseOutcome) JSONValid() bool {
	return o.Status == OutcomeSuccess || o.Status == OutcomeRepaired
}

// ScriptOutcome carries the generated automation script. On a failed repair
// the Script field still holds the best-effort code plus a marker comment.
type ScriptOutcome struct {
	Status         OutcomeStatus
	Script         string
	RawOutput      string
	RepairedOutput string
	Reason         string
}
