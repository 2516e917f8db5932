package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"vaachak/pkg/extract"
	"vaachak/pkg/model"
	"vaachak/pkg/pipeline"
)

// SummarizeHandler serves POST /api/summarize.
type SummarizeHandler struct {
	svc     *pipeline.Service
	uploads *UploadHandler
}

// NewSummarizeHandler creates a SummarizeHandler. uploads may be nil when
// the upload endpoint is disabled; then no upload cleanup happens either.
func NewSummarizeHandler(svc *pipeline.Service, uploads *UploadHandler) *SummarizeHandler {
	return &SummarizeHandler{svc: svc, uploads: uploads}
}

func (h *SummarizeHandler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	var req model.ContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	res, err := h.svc.Run(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			slog.Error("Summarize request failed", "error", err)
		} else {
			slog.Info("Summarize request rejected", "error", err)
		}
		writeError(w, status, err.Error())
		return
	}

	// A summarized upload has served its purpose. Failed requests keep
	// the file so the caller can retry with the same path.
	if req.FilePath != "" && h.uploads != nil {
		h.uploads.Discard(req.FilePath)
	}

	writeJSON(w, http.StatusOK, res)
}

// statusFor maps pipeline errors onto HTTP status codes. Caller mistakes
// are 400s, everything else is a 500.
func statusFor(err error) int {
	var langErr *model.UnsupportedLanguageError
	switch {
	case errors.Is(err, extract.ErrMissingInput), errors.As(err, &langErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
