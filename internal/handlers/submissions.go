package handlers

import (
	"CaseTrack/internal/config"
	"CaseTrack/internal/service"
	"CaseTrack/internal/validate"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SubmissionHandler — форма обратной связи и разбор обращений.
type SubmissionHandler struct {
	SubmissionService *service.SubmissionService
	Logger            *zap.SugaredLogger
	Config            *config.Config
}

func NewSubmissionHandler(s *service.SubmissionService, logger *zap.SugaredLogger, cfg *config.Config) *SubmissionHandler {
	return &SubmissionHandler{SubmissionService: s, Logger: logger, Config: cfg}
}

type contactResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Contact принимает сообщение с публичной формы.
func (h *SubmissionHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var in service.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, contactResponse{Error: "invalid request"})
		return
	}
	if _, err := h.SubmissionService.Submit(r.Context(), in); err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, contactResponse{Error: verr.Error()})
			return
		}
		h.Logger.Errorw("Contact: submit failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, contactResponse{Error: "failed to send message"})
		return
	}
	writeJSON(w, http.StatusOK, contactResponse{Success: true})
}

func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.SubmissionService.List(r.Context())
	if err != nil {
		writeServiceError(w, h.Logger, "ListSubmissions", err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

type markReadRequest struct {
	IsRead *bool `json:"is_read"`
}

// MarkRead поддерживает только is_read=true: содержимое обращения неизменяемо.
func (h *SubmissionHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req markReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsRead == nil || !*req.IsRead {
		writeError(w, http.StatusBadRequest, "only {\"is_read\": true} is supported")
		return
	}
	if err := h.SubmissionService.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.Logger, "MarkRead", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SubmissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.SubmissionService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.Logger, "DeleteSubmission", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
