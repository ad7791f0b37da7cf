package handlers

import (
	"net/http"

	"github.com/insightqa/insightqa/internal/adapter"
	"github.com/insightqa/insightqa/internal/adapter/utils"
	"github.com/insightqa/insightqa/internal/api"
)

func (h *Handlers) GetHealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.StatusResponse{Status: "ok"})
}

// GetKBListHandler godoc
// @Summary      List knowledge bases
// @Tags         Knowledge Bases
// @Produce      json
// @Success      200  {object}  api.KBListResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /kb/list [get]
func (h *Handlers) GetKBListHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	listings, err := h.service.ListKnowledgeBases(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToKBListResponse(listings))
}

// GetKBViewHandler godoc
// @Summary      View one knowledge base and its documents
// @Tags         Knowledge Bases
// @Produce      json
// @Param        kb_id  path      string  true  "Knowledge base id"
// @Success      200  {object}  api.KBViewResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /kb/view/{kb_id} [get]
func (h *Handlers) GetKBViewHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	kbId := utils.GetChiURLParam(r, "kb_id")
	kb, docs, err := h.service.ViewKnowledgeBase(r.Context(), kbId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToKBViewResponse(kb, docs))
}

// PostKBRenameHandler godoc
// @Summary      Rename a knowledge base
// @Tags         Knowledge Bases
// @Accept       json
// @Produce      json
// @Param        request  body      api.RenameKBRequest  true  "Knowledge base id and new name"
// @Success      200  {object}  api.StatusResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /kb/rename [post]
func (h *Handlers) PostKBRenameHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	var requestData api.RenameKBRequest
	if !decodeBody(w, r, &requestData) {
		return
	}

	if err := h.service.RenameKnowledgeBase(r.Context(), requestData.KbId, requestData.NewName); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, api.StatusResponse{
		Status: "ok",
		KbId:   requestData.KbId,
		Name:   requestData.NewName,
	})
}

// PostKBDeleteHandler godoc
// @Summary      Delete a knowledge base
// @Description  Removes the indexed vectors, the stored files and finally the registry entry.
// @Tags         Knowledge Bases
// @Accept       json
// @Produce      json
// @Param        request  body      api.DeleteKBRequest  true  "Knowledge base id"
// @Success      200  {object}  api.StatusResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /kb/delete [post]
func (h *Handlers) PostKBDeleteHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	var requestData api.DeleteKBRequest
	if !decodeBody(w, r, &requestData) {
		return
	}

	if err := h.service.DeleteKnowledgeBase(r.Context(), requestData.KbId); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, api.StatusResponse{Status: "ok", KbId: requestData.KbId})
}
