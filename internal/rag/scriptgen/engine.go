package scriptgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/insightqa/insightqa/internal/config"
	"github.com/insightqa/insightqa/internal/domain/ragModel"
	"github.com/insightqa/insightqa/internal/metrics"
	"github.com/insightqa/insightqa/internal/rag/llm"
	"github.com/insightqa/insightqa/pkg/logger_i"
)

// Engine turns one test case plus the stored UI document into an automation
// script: build the element-grounded prompt, one model call, fence stripping,
// a structural entry-point check and a single best-effort repair attempt.
type Engine struct {
	llm    llm.Provider
	logger *logger_i.Logger
}

func NewEngine(provider llm.Provider) *Engine {
	return &Engine{
		llm:    provider,
		logger: logger_i.NewLogger("Script Engine"),
	}
}

func (e *Engine) Generate(ctx context.Context, testcase ragModel.TestCase, htmlPath string) ragModel.ScriptOutcome {
	log := e.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "testId", testcase.TestID)

	prompt := buildPrompt(testcase, htmlPath)

	raw, err := e.timedChat(ctx, generateMessages(prompt))
	if err != nil {
		reason := fmt.Sprintf("LLM Error: %v", err)
		log.Error("Script generation failed", "error", err)
		return ragModel.ScriptOutcome{
			Status: ragModel.OutcomeFailure,
			Script: "# " + reason,
			Reason: reason,
		}
	}

	cleaned := cleanCode(raw)
	if strings.Contains(cleaned, entryPointMarker) {
		return ragModel.ScriptOutcome{
			Status:    ragModel.OutcomeSuccess,
			Script:    cleaned,
			RawOutput: raw,
		}
	}
	log.Warn("Generated script has no entry point, attempting repair")

	// Best-effort single retry: the repaired code is returned even if the
	// entry-point check still fails.
	repaired, err := e.timedChat(ctx, repairMessages(cleaned))
	if err != nil {
		reason := fmt.Sprintf("Repair call failed: %v", err)
		log.Error("Script repair failed", "error", err)
		return ragModel.ScriptOutcome{
			Status:    ragModel.OutcomeFailure,
			Script:    "# Failed to generate valid code.\n" + cleaned,
			RawOutput: raw,
			Reason:    reason,
		}
	}

	return ragModel.ScriptOutcome{
		Status:         ragModel.OutcomeRepaired,
		Script:         cleanCode(repaired),
		RawOutput:      raw,
		RepairedOutput: repaired,
	}
}

func (e *Engine) timedChat(ctx context.Context, messages []llm.Message) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()
	return e.llm.Chat(ctx, messages)
}
