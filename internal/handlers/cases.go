package handlers

import (
	"CaseTrack/internal/config"
	"CaseTrack/internal/lookup"
	"CaseTrack/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CaseHandler — админские операции над делами и JSON-поиск.
type CaseHandler struct {
	CaseService   *service.CaseService
	LookupService *lookup.Service
	Logger        *zap.SugaredLogger
	Config        *config.Config
}

func NewCaseHandler(caseService *service.CaseService, lookupSvc *lookup.Service, logger *zap.SugaredLogger, cfg *config.Config) *CaseHandler {
	return &CaseHandler{CaseService: caseService, LookupService: lookupSvc, Logger: logger, Config: cfg}
}

// Lookup — публичный поиск по номеру: 404 если нет, 500 при сбое хранилища.
func (h *CaseHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	number, err := caseNumberParam(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "case not found")
		return
	}
	c, err := h.LookupService.FindByCaseNumber(r.Context(), number)
	if err != nil {
		if errors.Is(err, lookup.ErrNotFound) {
			writeError(w, http.StatusNotFound, "case not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// caseNumberParam возвращает номер дела из пути. Если в пути были
// экранированные символы (например %2F), chi отдаёт сегмент без декодирования.
func caseNumberParam(r *http.Request) (string, error) {
	v := chi.URLParam(r, "caseNumber")
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}

func (h *CaseHandler) List(w http.ResponseWriter, r *http.Request) {
	cases, err := h.CaseService.List(r.Context())
	if err != nil {
		writeServiceError(w, h.Logger, "ListCases", err)
		return
	}
	writeJSON(w, http.StatusOK, cases)
}

func (h *CaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CaseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.Logger.Warnw("CreateCase: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	c, err := h.CaseService.Insert(r.Context(), in)
	if err != nil {
		writeServiceError(w, h.Logger, "CreateCase", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Update принимает частичное обновление: JSON-объект колонка → значение.
func (h *CaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.Logger.Warnw("UpdateCase: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.CaseService.Update(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		writeServiceError(w, h.Logger, "UpdateCase", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.CaseService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.Logger, "DeleteCase", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
