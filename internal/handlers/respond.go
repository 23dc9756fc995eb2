package handlers

import (
	"CaseTrack/internal/blob"
	"CaseTrack/internal/service"
	"CaseTrack/internal/validate"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError переводит ошибки сервисного слоя в HTTP-статусы.
func writeServiceError(w http.ResponseWriter, logger *zap.SugaredLogger, op string, err error) {
	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, service.ErrNotFound), errors.Is(err, blob.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrConflict), errors.Is(err, blob.ErrExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, blob.ErrInvalidKey):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Errorw(op+": internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
