package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/insightqa/insightqa/internal/adapter"
	"github.com/insightqa/insightqa/internal/api"
	"github.com/insightqa/insightqa/internal/rag/testcases"
)

// PostTestCasesHandler godoc
// @Summary      Generate test cases from a knowledge base
// @Description  Retrieves scoped context for the query and asks the model for a JSON array of test cases, repairing malformed output once before giving up.
// @Tags         Agent
// @Accept       json
// @Produce      json
// @Param        request  body      api.TestCaseRequest  true  "Knowledge base, query and optional retrieval settings"
// @Success      200  {object}  api.TestCaseResponse "Outcome including raw model output; json_valid=false signals a generation failure"
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse "Unknown knowledge base"
// @Router       /agent/testcases [post]
func (h *Handlers) PostTestCasesHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logH.Warn("Invalid Context by request", "remote", r.RemoteAddr)
		return
	}

	var requestData api.TestCaseRequest
	if !decodeBody(w, r, &requestData) {
		return
	}

	outcome, err := h.service.GenerateTestCases(r.Context(), testcases.Request{
		KbId:  requestData.KbId,
		Query: requestData.Query,
		TopK:  requestData.TopK,
		Roles: adapter.ToDocRoles(requestData.DocRoles),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToTestCaseResponse(outcome))
}

// PostGenerateScriptHandler godoc
// @Summary      Generate an automation script for one test case
// @Description  Grounds the model on the stored HTML document of the knowledge base and returns a Selenium script. A failed repair still returns the best-effort code behind a marker comment.
// @Tags         Agent
// @Accept       json
// @Produce      json
// @Param        request  body      api.ScriptRequest  true  "Knowledge base, test case and optional HTML filename"
// @Success      200  {object}  api.ScriptResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse "Unknown knowledge base or HTML document"
// @Router       /agent/generate_script [post]
func (h *Handlers) PostGenerateScriptHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logH.Warn("Invalid Context by request", "remote", r.RemoteAddr)
		return
	}

	var requestData api.ScriptRequest
	if !decodeBody(w, r, &requestData) {
		return
	}

	outcome, err := h.service.GenerateScript(r.Context(), requestData.KbId, requestData.TestCase, requestData.HTMLFilename)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToScriptResponse(outcome))
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logH.Error("Couldn't close request body", "error", err)
		}
	}(r.Body)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logH.Warn("Bad request body", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "Bad Request")
		return false
	}
	return true
}
