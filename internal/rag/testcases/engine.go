package testcases

import (
	"context"
	"fmt"
	"time"

	"github.com/insightqa/insightqa/internal/config"
	"github.com/insightqa/insightqa/internal/domain/kbModel"
	"github.com/insightqa/insightqa/internal/domain/ragModel"
	"github.com/insightqa/insightqa/internal/metrics"
	"github.com/insightqa/insightqa/internal/rag/embedding"
	"github.com/insightqa/insightqa/internal/rag/llm"
	"github.com/insightqa/insightqa/internal/rag/scope"
	"github.com/insightqa/insightqa/internal/rag/vectorDB"
	"github.com/insightqa/insightqa/pkg/logger_i"
)

type Request struct {
	KbId  string
	Query string
	TopK  uint64
	Roles []kbModel.DocumentRole
}

// Engine runs one generation request: retrieve, prompt, invoke, parse, and a
// single bounded repair pass. Every failure past the retrieval scope comes
// back as a Failure outcome value, never as an error.
type Engine struct {
	vectorDB   vectorDB.DataProcessor
	embedder   embedding.Embedder
	llm        llm.Provider
	collection string
	model      string
	logger     *logger_i.Logger
}

func NewEngine(vector vectorDB.DataProcessor, em embedding.Embedder, provider llm.Provider, collection, model string) *Engine {
	return &Engine{
		vectorDB:   vector,
		embedder:   em,
		llm:        provider,
		collection: collection,
		model:      model,
		logger:     logger_i.NewLogger("TestCase Engine"),
	}
}

func (e *Engine) Generate(ctx context.Context, req Request) ragModel.TestCaseOutcome {
	log := e.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "kbId", req.KbId)

	topK := req.TopK
	if topK == 0 {
		topK = config.DefaultTopK
	}

	// Retrieve
	queryVector, err := e.timedEmbed(ctx, req.Query)
	if err != nil {
		return e.failure(req, nil, "", "", fmt.Sprintf("Embedding Error: %v", err))
	}

	filter := scope.Build(req.KbId, req.Roles)
	chunks, err := e.timedSearch(ctx, queryVector, topK, filter)
	if err != nil {
		return e.failure(req, nil, "", "", fmt.Sprintf("Vector DB Error: %v", err))
	}
	log.Debug("Retrieved context", "chunks", len(chunks))

	// Prompt-build + invoke
	prompt := buildPrompt(req.Query, chunks)
	raw, err := e.timedChat(ctx, generateMessages(prompt))
	if err != nil {
		return e.failure(req, chunks, prompt, "", fmt.Sprintf("LLM Error: %v", err))
	}

	// Parse
	parsed, parseErr := ExtractTestCases(raw)
	if parseErr == nil {
		return ragModel.TestCaseOutcome{
			Status:    ragModel.OutcomeSuccess,
			TestCases: parsed,
			RawOutput: raw,
			Retrieved: chunks,
			Prompt:    prompt,
			Model:     e.model,
			KbId:      req.KbId,
		}
	}
	log.Warn("Model output failed to parse, attempting repair", "error", parseErr)

	// Repair: exactly one follow-up call, no further loop
	repaired, err := e.timedChat(ctx, repairMessages(raw))
	if err != nil {
		out := e.failure(req, chunks, prompt, "",
			fmt.Sprintf("JSON failed: %v | Repair call failed: %v", parseErr, err))
		out.RawOutput = raw
		return out
	}

	parsedRepaired, repairErr := ExtractTestCases(repaired)
	if repairErr != nil {
		out := e.failure(req, chunks, prompt, repaired,
			fmt.Sprintf("JSON failed twice: %v | Repair failed: %v", parseErr, repairErr))
		out.RawOutput = raw
		return out
	}

	return ragModel.TestCaseOutcome{
		Status:         ragModel.OutcomeRepaired,
		TestCases:      parsedRepaired,
		RawOutput:      raw,
		RepairedOutput: repaired,
		Retrieved:      chunks,
		Prompt:         prompt,
		Model:          e.model,
		KbId:           req.KbId,
	}
}

func (e *Engine) failure(req Request, chunks []ragModel.ScoredChunk, prompt, repaired, reason string) ragModel.TestCaseOutcome {
	e.logger.Error("Generation failed", "kbId", req.KbId, "reason", reason)
	return ragModel.TestCaseOutcome{
		Status:         ragModel.OutcomeFailure,
		Reason:         reason,
		Retrieved:      chunks,
		Prompt:         prompt,
		RepairedOutput: repaired,
		Model:          e.model,
		KbId:           req.KbId,
	}
}

func (e *Engine) timedEmbed(ctx context.Context, query string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()
	return e.embedder.EmbedText(ctx, query)
}

func (e *Engine) timedSearch(ctx context.Context, vector []float32, topK uint64, filter *vectorDB.Filter) ([]ragModel.ScoredChunk, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()
	return e.vectorDB.Query(ctx, e.collection, vector, topK, filter)
}

func (e *Engine) timedChat(ctx context.Context, messages []llm.Message) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()
	return e.llm.Chat(ctx, messages)
}
