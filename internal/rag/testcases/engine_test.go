package testcases

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/insightqa/insightqa/internal/domain/kbModel"
	"github.com/insightqa/insightqa/internal/domain/ragModel"
	"github.com/insightqa/insightqa/internal/rag/llm"
	"github.com/insightqa/insightqa/internal/rag/vectorDB"
)

type mockEmbedder struct {
	err error
}

func (m *mockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []float32{0.1, 0.2}, nil
}

func (m *mockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{0.1}
	}
	return out, nil
}

type mockVectorDB struct {
	lastFilter *vectorDB.Filter
	lastTopK   uint64
	hits       []ragModel.ScoredChunk
	err        error
}

func (m *mockVectorDB) EnsureCollection(ctx context.Context, collection string) error { return nil }
func (m *mockVectorDB) UpsertBatch(ctx context.Context, collection string, chunks []ragModel.DocChunk, vectors [][]float32) error {
	return nil
}
func (m *mockVectorDB) Delete(ctx context.Context, collection string, filter *vectorDB.Filter) error {
	return nil
}
func (m *mockVectorDB) Query(ctx context.Context, collection string, vector []float32, topK uint64, filter *vectorDB.Filter) ([]ragModel.ScoredChunk, error) {
	m.lastFilter = filter
	m.lastTopK = topK
	return m.hits, m.err
}

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
	var err error
	if i < len(m.errs) {
		err = m.errs[i]
	}
	var reply string
	if i < len(m.replies) {
		reply = m.replies[i]
	}
	return reply, err
}

func sampleHits() []ragModel.ScoredChunk {
	return []ragModel.ScoredChunk{
		{ChunkId: "c1", Content: "login form spec", Meta: ragModel.ChunkMetadata{
			KbId: "kb-1", SourceDocument: "spec.md", ChunkIndex: 0, DocRole: kbModel.RoleSupport,
		}, Distance: 0.1},
	}
}

func TestGenerate_Success(t *testing.T) {
	vec := &mockVectorDB{hits: sampleHits()}
	provider := &mockLLM{replies: []string{`[{"Test_ID":"TC-001","Type":"Positive"}]`}}

	engine := NewEngine(vec, &mockEmbedder{}, provider, "insightqa", "test-model")
	out := engine.Generate(context.Background(), Request{KbId: "kb-1", Query: "login tests", TopK: 3})

	if out.Status != ragModel.OutcomeSuccess {
		t.Fatalf("status = %s, want success (reason: %s)", out.Status, out.Reason)
	}
	if len(out.TestCases) != 1 || out.TestCases[0].TestID != "TC-001" {
		t.Errorf("unexpected test cases: %+v", out.TestCases)
	}
	if out.RawOutput == "" || out.Prompt == "" || len(out.Retrieved) != 1 {
		t.Error("outcome must carry raw output, prompt and retrieved chunks")
	}
	if provider.calls != 1 {
		t.Errorf("expected 1 model call, got %d", provider.calls)
	}
	if vec.lastTopK != 3 {
		t.Errorf("topK not forwarded, got %d", vec.lastTopK)
	}
	if vec.lastFilter == nil || vec.lastFilter.Clauses[0].Equals.Value != "kb-1" {
		t.Errorf("query not scoped to kb: %+v", vec.lastFilter)
	}
}

func TestGenerate_PromptContainsContextAndContract(t *testing.T) {
	vec := &mockVectorDB{hits: sampleHits()}
	provider := &mockLLM{replies: []string{`[]`}}

	engine := NewEngine(vec, &mockEmbedder{}, provider, "insightqa", "test-model")
	out := engine.Generate(context.Background(), Request{KbId: "kb-1", Query: "cover the login flow"})

	for _, want := range []string{
		"source_document=spec.md",
		"login form spec",
		"cover the login flow",
		`"Test_ID", "Feature", "Test_Scenario"`,
	} {
		if !strings.Contains(out.Prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGenerate_RepairedSuccess(t *testing.T) {
	vec := &mockVectorDB{hits: sampleHits()}
	provider := &mockLLM{replies: []string{
		"I think the answer is maybe these cases?",
		`[{"Test_ID":"TC-002"}]`,
	}}

	engine := NewEngine(vec, &mockEmbedder{}, provider, "insightqa", "test-model")
	out := engine.Generate(context.Background(), Request{KbId: "kb-1", Query: "q"})

	if out.Status != ragModel.OutcomeRepaired {
		t.Fatalf("status = %s, want repaired", out.Status)
	}
	if provider.calls != 2 {
		t.Errorf("expected exactly 2 model calls, got %d", provider.calls)
	}
	if out.RawOutput != "I think the answer is maybe these cases?" {
		t.Error("original raw output not preserved")
	}
	if out.RepairedOutput == "" || out.TestCases[0].TestID != "TC-002" {
		t.Error("repaired output not carried through")
	}
	if !strings.Contains(provider.prompts[1], "Fix the following JSON") {
		t.Errorf("repair prompt wrong: %q", provider.prompts[1])
	}
}

func TestGenerate_DoubleParseFailure(t *testing.T) {
	vec := &mockVectorDB{hits: sampleHits()}
	provider := &mockLLM{replies: []string{"still not json", "nope, sorry"}}

	engine := NewEngine(vec, &mockEmbedder{}, provider, "insightqa", "test-model")
	out := engine.Generate(context.Background(), Request{KbId: "kb-1", Query: "q"})

	if out.Status != ragModel.OutcomeFailure {
		t.Fatalf("status = %s, want failure", out.Status)
	}
	if provider.calls != 2 {
		t.Errorf("repair must be attempted exactly once, got %d calls", provider.calls)
	}
	if out.RawOutput != "still not json" || out.RepairedOutput != "nope, sorry" {
		t.Error("both raw and repaired text must be preserved on failure")
	}
	if !strings.Contains(out.Reason, "JSON failed twice") {
		t.Errorf("reason should combine both parse errors: %q", out.Reason)
	}
}

func TestGenerate_LLMTransportFailure(t *testing.T) {
	vec := &mockVectorDB{hits: sampleHits()}
	provider := &mockLLM{errs: []error{&llm.LLMError{Provider: "groq", Err: errors.New("401 unauthorized")}}}

	engine := NewEngine(vec, &mockEmbedder{}, provider, "insightqa", "test-model")
	out := engine.Generate(context.Background(), Request{KbId: "kb-1", Query: "q"})

	if out.Status != ragModel.OutcomeFailure {
		t.Fatalf("status = %s, want failure", out.Status)
	}
	if !strings.Contains(out.Reason, "LLM Error") {
		t.Errorf("reason = %q", out.Reason)
	}
	// chunks and prompt still carried for diagnosis, retrieval not retried
	if len(out.Retrieved) != 1 || out.Prompt == "" {
		t.Error("failure outcome must carry retrieved chunks and prompt")
	}
	if provider.calls != 1 {
		t.Errorf("transport failure must short-circuit, got %d calls", provider.calls)
	}
}

func TestGenerate_EmbeddingFailure(t *testing.T) {
	engine := NewEngine(&mockVectorDB{}, &mockEmbedder{err: errors.New("quota")}, &mockLLM{}, "insightqa", "m")
	out := engine.Generate(context.Background(), Request{KbId: "kb-1", Query: "q"})

	if out.Status != ragModel.OutcomeFailure || !strings.Contains(out.Reason, "Embedding Error") {
		t.Errorf("unexpected outcome: %+v", out)
	}
}

func TestGenerate_DefaultTopK(t *testing.T) {
	vec := &mockVectorDB{hits: nil}
	provider := &mockLLM{replies: []string{`[]`}}

	engine := NewEngine(vec, &mockEmbedder{}, provider, "insightqa", "m")
	engine.Generate(context.Background(), Request{KbId: "kb-1", Query: "q"})

	if vec.lastTopK != 5 {
		t.Errorf("default topK = %d, want 5", vec.lastTopK)
	}
}
