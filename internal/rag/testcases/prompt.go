package testcases

import (
	"fmt"
	"strings"

	"github.com/insightqa/insightqa/internal/domain/ragModel"
	"github.com/insightqa/insightqa/internal/rag/llm"
)

const generateSystemPrompt = "You produce ONLY valid JSON arrays. " +
	"No markdown, no explanation, no reasoning."

const repairSystemPrompt = "You ONLY fix JSON. Respond ONLY with valid JSON array."

// buildPrompt enumerates every retrieved chunk tagged with its source
// document, then the user request, then the strict output contract.
func buildPrompt(userQuery string, chunks []ragModel.ScoredChunk) string {
	contextStrs := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		contextStrs = append(contextStrs, fmt.Sprintf(
			"[CONTEXT %d | source_document=%s]\n%s\n", i+1, chunk.Meta.SourceDocument, chunk.Content,
		))
	}
	contextBlock := strings.Join(contextStrs, "\n\n")

	prompt := fmt.Sprintf(`You are a senior QA engineer.

Your job:
Generate ONLY a valid JSON array of software test cases.

STRICT RULES:
- Output MUST be valid JSON.
- Output MUST start with '[' and end with ']'.
- No prose, no explanation, no markdown, no headings.
- Each element must include:
  "Test_ID", "Feature", "Test_Scenario",
  "Steps", "Expected_Result", "Type", "Grounded_In"
- "Test_ID" follows the pattern TC-###.
- "Type" is either "Positive" or "Negative".
- "Grounded_In" lists the source_document names you used.

USER REQUEST:
%s

RETRIEVED CONTEXT:
%s

Now output ONLY the JSON array. If the JSON would be invalid, FIX it first.`, userQuery, contextBlock)

	return strings.TrimSpace(prompt)
}

func generateMessages(prompt string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: generateSystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}
}

func repairMessages(badOutput string) []llm.Message {
	repairPrompt := "Fix the following JSON. " +
		"Output ONLY the corrected JSON array. No explanation.\n\n" + badOutput

	return []llm.Message{
		{Role: llm.RoleSystem, Content: repairSystemPrompt},
		{Role: llm.RoleUser, Content: repairPrompt},
	}
}
