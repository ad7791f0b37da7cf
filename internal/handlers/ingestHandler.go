package handlers

import (
	"io"
	"net/http"

	"github.com/insightqa/insightqa/internal/adapter"
	"github.com/insightqa/insightqa/internal/config"
	"github.com/insightqa/insightqa/internal/rag"
)

// PostIngestHandler godoc
// @Summary      Create a knowledge base from uploaded documents
// @Description  Accepts a name plus one or more files via multipart/form-data, stores them, and indexes their text for retrieval. The first HTML file becomes the UI under test.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        name   formData  string  true  "Display name of the knowledge base"
// @Param        files  formData  file    true  "Documents to index (html, pdf, txt, md, json, docx, odt, rtf)"
// @Success      200  {object}  api.IngestResponse
// @Failure      400  {object}  api.ErrorResponse "Missing name or files, or upload too large"
// @Failure      500  {object}  api.ErrorResponse
// @Router       /ingest [post]
func (h *Handlers) PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logH.Warn("Invalid Context by request", "remote", r.RemoteAddr)
		return
	}

	if err := r.ParseMultipartForm(config.UploadLimitBytes); err != nil {
		logH.Warn("Bad ingest upload", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logH.Error("Couldn't clean up multipart form", "error", err)
		}
	}()

	name := r.FormValue("name")

	var files []rag.UploadedFile
	for _, header := range r.MultipartForm.File["files"] {
		f, err := header.Open()
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "unreadable upload: "+header.Filename)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "unreadable upload: "+header.Filename)
			return
		}
		files = append(files, rag.UploadedFile{Filename: header.Filename, Data: data})
	}

	summary, err := h.service.IngestKnowledgeBase(r.Context(), name, files)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToIngestResponse(summary))
}
