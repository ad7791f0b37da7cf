package api

import (
	"time"

	"github.com/insightqa/insightqa/internal/domain/ragModel"
)

// requests---------------------

type TestCaseRequest struct {
	KbId     string   `json:"kb_id" validate:"required" example:"9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"`
	Query    string   `json:"query" validate:"required" example:"login form validation"`
	TopK     uint64   `json:"top_k,omitempty" example:"5"`
	DocRoles []string `json:"doc_roles,omitempty" example:"main,support"`
}

type ScriptRequest struct {
	KbId         string            `json:"kb_id" validate:"required"`
	TestCase     ragModel.TestCase `json:"testcase" validate:"required"`
	HTMLFilename string            `json:"html_filename,omitempty" example:"login.html"`
}

type RenameKBRequest struct {
	KbId    string `json:"kb_id" validate:"required"`
	NewName string `json:"new_name" validate:"required"`
}

type DeleteKBRequest struct {
	KbId string `json:"kb_id" validate:"required"`
}

// responses--------------------

type IngestedDocument struct {
	Filename string `json:"filename"`
	Role     string `json:"role"`
	Chunks   int    `json:"chunks"`
}

type IngestResponse struct {
	Status        string             `json:"status"`
	KbId          string             `json:"kb_id"`
	KbName        string             `json:"kb_name"`
	ChunksIndexed int                `json:"chunks_indexed"`
	Documents     []IngestedDocument `json:"documents"`
}

type RetrievedChunk struct {
	Content        string  `json:"content"`
	SourceDocument string  `json:"source_document"`
	ChunkIndex     int     `json:"chunk_index"`
	DocRole        string  `json:"doc_role"`
	Distance       float32 `json:"distance"`
}

type TestCaseResponse struct {
	Model           string              `json:"model,omitempty"`
	KbId            string              `json:"kb_id,omitempty"`
	TestCases       []ragModel.TestCase `json:"testcases,omitempty"`
	RawLLMOutput    string              `json:"raw_llm_output,omitempty"`
	RepairedOutput  string              `json:"repaired_output,omitempty"`
	JSONValid       bool                `json:"json_valid"`
	Error           string              `json:"error,omitempty"`
	RetrievedChunks []RetrievedChunk    `json:"retrieved_chunks"`
	PromptUsed      string              `json:"prompt_used,omitempty"`
}

type ScriptResponse struct {
	Script         string `json:"script"`
	Repaired       bool   `json:"repaired,omitempty"`
	RawLLMOutput   string `json:"raw_llm_output,omitempty"`
	RepairedOutput string `json:"repaired_output,omitempty"`
	Error          string `json:"error,omitempty"`
}

type KBSummary struct {
	KbId      string       `json:"kb_id"`
	KbName    string       `json:"kb_name"`
	CreatedAt time.Time    `json:"created_at"`
	Documents []KBDocument `json:"documents"`
}

type KBListResponse struct {
	KnowledgeBases []KBSummary `json:"knowledge_bases"`
}

type KBDocument struct {
	Filename      string `json:"filename"`
	Role          string `json:"role"`
	IsHTML        bool   `json:"is_html"`
	IsPrimaryHTML bool   `json:"is_primary_html"`
	Path          string `json:"path"`
}

type KBViewResponse struct {
	KbId      string       `json:"kb_id"`
	KbName    string       `json:"kb_name"`
	Documents []KBDocument `json:"documents"`
}

type StatusResponse struct {
	Status string `json:"status"`
	KbId   string `json:"kb_id,omitempty"`
	Name   string `json:"new_name,omitempty"`
}

type ErrorResponse struct {
	Code    int    `json:"code" example:"404"`
	Message string `json:"message" example:"knowledge base not found"`
}
