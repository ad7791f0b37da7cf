package scriptgen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/insightqa/insightqa/internal/domain/ragModel"
	"github.com/insightqa/insightqa/internal/rag/llm"
)

type mockLLM struct {
	replies []string
	errs    []error
	calls   int
	prompts []string
}

func (m *mockLLM) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	i := m.calls
	m.calls++
	m.prompts = append(m.prompts, messages[len(messages)-1].Content)
	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
	}
	if i < len(m.replies) {
		return m.replies[i], nil
	}
	return "", errors.New("unexpected call")
}

func sampleTestCase() ragModel.TestCase {
	return ragModel.TestCase{
		TestID:         "TC-001",
		Feature:        "Login",
		TestScenario:   "Valid credentials sign the user in",
		Steps:          []string{"Open the page", "Enter username", "Click login"},
		ExpectedResult: "Dashboard is shown",
		Type:           "positive",
	}
}

const validScript = "import time\n\ndef run_test():\n    pass\n"

func TestGenerateSuccess(t *testing.T) {
	provider := &mockLLM{replies: []string{validScript}}
	engine := NewEngine(provider)

	outcome := engine.Generate(context.Background(), sampleTestCase(), "page.html")

	if outcome.Status != ragModel.OutcomeSuccess {
		t.Fatalf("status = %v, want success: %+v", outcome.Status, outcome)
	}
	if outcome.Script != strings.TrimSpace(validScript) {
		t.Errorf("script = %q", outcome.Script)
	}
	if provider.calls != 1 {
		t.Errorf("calls = %d, want 1", provider.calls)
	}
	prompt := provider.prompts[0]
	for _, fragment := range []string{"TC-001", "Valid credentials", "def run_test()", "By.ID"} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}
}

func TestGenerateStripsFences(t *testing.T) {
	provider := &mockLLM{replies: []string{"```python\n" + validScript + "```"}}
	engine := NewEngine(provider)

	outcome := engine.Generate(context.Background(), sampleTestCase(), "page.html")

	if outcome.Status != ragModel.OutcomeSuccess {
		t.Fatalf("status = %v: %+v", outcome.Status, outcome)
	}
	if strings.Contains(outcome.Script, "```") {
		t.Errorf("fences survived: %q", outcome.Script)
	}
}

func TestGenerateRepairedAfterMissingEntryPoint(t *testing.T) {
	provider := &mockLLM{replies: []string{"print('no entry point')", validScript}}
	engine := NewEngine(provider)

	outcome := engine.Generate(context.Background(), sampleTestCase(), "page.html")

	if outcome.Status != ragModel.OutcomeRepaired {
		t.Fatalf("status = %v: %+v", outcome.Status, outcome)
	}
	if outcome.Script != strings.TrimSpace(validScript) {
		t.Errorf("script = %q", outcome.Script)
	}
	if provider.calls != 2 {
		t.Errorf("calls = %d, want exactly 2", provider.calls)
	}
	if !strings.Contains(provider.prompts[1], "print('no entry point')") {
		t.Errorf("repair prompt lacks the broken code: %q", provider.prompts[1])
	}
	if outcome.RawOutput == "" || outcome.RepairedOutput == "" {
		t.Errorf("raw and repaired output must be preserved: %+v", outcome)
	}
}

func TestGenerateRepairedEvenIfStillInvalid(t *testing.T) {
	// The single repair reply is returned as-is, no second round.
	provider := &mockLLM{replies: []string{"nothing useful", "still nothing useful"}}
	engine := NewEngine(provider)

	outcome := engine.Generate(context.Background(), sampleTestCase(), "page.html")

	if outcome.Status != ragModel.OutcomeRepaired {
		t.Fatalf("status = %v: %+v", outcome.Status, outcome)
	}
	if outcome.Script != "still nothing useful" {
		t.Errorf("script = %q", outcome.Script)
	}
	if provider.calls != 2 {
		t.Errorf("calls = %d, want 2", provider.calls)
	}
}

func TestGenerateLLMFailure(t *testing.T) {
	provider := &mockLLM{errs: []error{&llm.LLMError{Provider: "groq", Err: errors.New("boom")}}}
	engine := NewEngine(provider)

	outcome := engine.Generate(context.Background(), sampleTestCase(), "page.html")

	if outcome.Status != ragModel.OutcomeFailure {
		t.Fatalf("status = %v: %+v", outcome.Status, outcome)
	}
	if !strings.HasPrefix(outcome.Script, "# LLM Error:") {
		t.Errorf("script = %q, want LLM error placeholder", outcome.Script)
	}
	if outcome.Reason == "" {
		t.Error("reason must be set")
	}
}

func TestGenerateRepairFailure(t *testing.T) {
	provider := &mockLLM{
		replies: []string{"broken = ["},
		errs:    []error{nil, &llm.LLMError{Provider: "groq", Err: errors.New("boom")}},
	}
	engine := NewEngine(provider)

	outcome := engine.Generate(context.Background(), sampleTestCase(), "page.html")

	if outcome.Status != ragModel.OutcomeFailure {
		t.Fatalf("status = %v: %+v", outcome.Status, outcome)
	}
	if !strings.HasPrefix(outcome.Script, "# Failed to generate valid code.\n") {
		t.Errorf("script = %q", outcome.Script)
	}
	if !strings.Contains(outcome.Script, "broken = [") {
		t.Errorf("script must carry the best-effort code: %q", outcome.Script)
	}
}
