package adapter

import (
	"github.com/insightqa/insightqa/internal/api"
	"github.com/insightqa/insightqa/internal/domain/kbModel"
	"github.com/insightqa/insightqa/internal/domain/ragModel"
	"github.com/insightqa/insightqa/internal/rag"
)

func ToIngestResponse(summary rag.IngestSummary) api.IngestResponse {
	docs := make([]api.IngestedDocument, 0, len(summary.Documents))
	for _, d := range summary.Documents {
		docs = append(docs, api.IngestedDocument{
			Filename: d.Filename,
			Role:     string(d.Role),
			Chunks:   d.Chunks,
		})
	}
	return api.IngestResponse{
		Status:        "ok",
		KbId:          summary.KbId,
		KbName:        summary.KbName,
		ChunksIndexed: summary.ChunksIndexed,
		Documents:     docs,
	}
}

func ToTestCaseResponse(outcome ragModel.TestCaseOutcome) api.TestCaseResponse {
	resp := api.TestCaseResponse{
		Model:           outcome.Model,
		KbId:            outcome.KbId,
		TestCases:       outcome.TestCases,
		RawLLMOutput:    outcome.RawOutput,
		RepairedOutput:  outcome.RepairedOutput,
		JSONValid:       outcome.JSONValid(),
		Error:           outcome.Reason,
		RetrievedChunks: toRetrievedChunks(outcome.Retrieved),
		PromptUsed:      outcome.Prompt,
	}
	return resp
}

func toRetrievedChunks(chunks []ragModel.ScoredChunk) []api.RetrievedChunk {
	out := make([]api.RetrievedChunk, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, api.RetrievedChunk{
			Content:        c.Content,
			SourceDocument: c.Meta.SourceDocument,
			ChunkIndex:     c.Meta.ChunkIndex,
			DocRole:        string(c.Meta.DocRole),
			Distance:       c.Distance,
		})
	}
	return out
}

func ToScriptResponse(outcome ragModel.ScriptOutcome) api.ScriptResponse {
	return api.ScriptResponse{
		Script:         outcome.Script,
		Repaired:       outcome.Status == ragModel.OutcomeRepaired,
		RawLLMOutput:   outcome.RawOutput,
		RepairedOutput: outcome.RepairedOutput,
		Error:          outcome.Reason,
	}
}

func ToKBListResponse(listings []rag.KBListing) api.KBListResponse {
	summaries := make([]api.KBSummary, 0, len(listings))
	for _, l := range listings {
		summaries = append(summaries, api.KBSummary{
			KbId:      l.KnowledgeBase.Id,
			KbName:    l.KnowledgeBase.Name,
			CreatedAt: l.KnowledgeBase.CreatedAt,
			Documents: toKBDocuments(l.Documents),
		})
	}
	return api.KBListResponse{KnowledgeBases: summaries}
}

func ToKBViewResponse(kb kbModel.KnowledgeBase, docs []kbModel.Document) api.KBViewResponse {
	return api.KBViewResponse{KbId: kb.Id, KbName: kb.Name, Documents: toKBDocuments(docs)}
}

func toKBDocuments(docs []kbModel.Document) []api.KBDocument {
	out := make([]api.KBDocument, 0, len(docs))
	for _, d := range docs {
		out = append(out, api.KBDocument{
			Filename:      d.Filename,
			Role:          string(d.Role),
			IsHTML:        d.IsHTML,
			IsPrimaryHTML: d.IsPrimaryHTML,
			Path:          d.StoragePath,
		})
	}
	return out
}

// ToDocRoles maps request role strings onto the domain type, dropping
// anything unknown.
func ToDocRoles(roles []string) []kbModel.DocumentRole {
	var out []kbModel.DocumentRole
	for _, r := range roles {
		switch kbModel.DocumentRole(r) {
		case kbModel.RoleMain, kbModel.RoleSupport:
			out = append(out, kbModel.DocumentRole(r))
		}
	}
	return out
}
