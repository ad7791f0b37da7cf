package scriptgen

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/insightqa/insightqa/internal/domain/ragModel"
	"github.com/insightqa/insightqa/internal/rag/llm"
)

const generateSystemPrompt = "You output ONLY executable Selenium Python code. " +
	"No markdown. No explanation."

const repairSystemPrompt = "You ONLY fix Python code. Output code only."

// entryPointMarker is the routine every generated script must define; its
// presence is the structural validity check.
const entryPointMarker = "def run_test"

func buildPrompt(testcase ragModel.TestCase, htmlPath string) string {
	tcId := testcase.TestID
	if tcId == "" {
		tcId = "TC-UNKNOWN"
	}

	htmlAbs, err := filepath.Abs(htmlPath)
	if err != nil {
		htmlAbs = htmlPath
	}

	steps, _ := json.MarshalIndent(testcase.Steps, "", "  ")
	elements, _ := json.MarshalIndent(ExtractUIElements(htmlPath), "", "  ")

	prompt := fmt.Sprintf(`You are an expert QA automation engineer.

Your job:
Generate a COMPLETE Selenium Python test script for the given test case.

STRICT RULES:
- Use Selenium + webdriver_manager + Chrome.
- ALWAYS prefer:
    By.ID → By.NAME → By.CLASS_NAME → XPath (only last resort).
- The script MUST follow the test steps EXACTLY.
- The script MUST open:
    file://%s
- Use time.sleep(1) between steps.
- The script MUST define a def run_test() entry point.
- RETURN ONLY PYTHON CODE. No explanations. No markdown.

TEST CASE:
ID: %s
Scenario: %s

Steps:
%s

HTML UI ELEMENTS:
%s

Now output ONLY runnable Python code.`, htmlAbs, tcId, testcase.TestScenario, steps, elements)

	return strings.TrimSpace(prompt)
}

func generateMessages(prompt string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: generateSystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}
}

func repairMessages(badCode string) []llm.Message {
	repairPrompt := fmt.Sprintf(`Fix the following Selenium Python code so that it becomes valid and runnable.
Return ONLY the corrected code. No markdown. No comments unless inside code.

Broken code:
%s`, badCode)

	return []llm.Message{
		{Role: llm.RoleSystem, Content: repairSystemPrompt},
		{Role: llm.RoleUser, Content: repairPrompt},
	}
}

// cleanCode strips code-fence markup from a model reply.
func cleanCode(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```python", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}
