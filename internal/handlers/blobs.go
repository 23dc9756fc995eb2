package handlers

import (
	"CaseTrack/internal/blob"
	"CaseTrack/internal/config"
	"CaseTrack/internal/pdfcheck"
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BlobHandler — загрузка, удаление и раздача PDF-вложений.
type BlobHandler struct {
	Store  blob.Store
	Logger *zap.SugaredLogger
	Config *config.Config
}

func NewBlobHandler(store blob.Store, logger *zap.SugaredLogger, cfg *config.Config) *BlobHandler {
	return &BlobHandler{Store: store, Logger: logger, Config: cfg}
}

type uploadResponse struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Pages int    `json:"pages"`
}

// Upload принимает тело запроса как PDF целиком.
// С ?no_overwrite=true занятый ключ даёт 409.
func (h *BlobHandler) Upload(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := blob.ValidateKey(key); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !pdfcheck.HasPDFExtension(key) {
		writeError(w, http.StatusBadRequest, "only .pdf keys are accepted")
		return
	}

	limit := int64(h.Config.BlobMaxSizeMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusRequestEntityTooLarge, "file exceeds "+strconv.Itoa(h.Config.BlobMaxSizeMB)+" MB")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	pages, err := pdfcheck.Validate(data)
	if err != nil {
		h.Logger.Warnw("UploadBlob: rejected file", "key", key, "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	noOverwrite, _ := strconv.ParseBool(r.URL.Query().Get("no_overwrite"))
	opts := blob.PutOptions{ContentType: pdfcheck.ContentTypePDF, NoOverwrite: noOverwrite}
	if err := h.Store.Put(r.Context(), key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		writeServiceError(w, h.Logger, "UploadBlob", err)
		return
	}
	h.Logger.Infow("blob stored", "key", key, "size", len(data), "pages", pages)
	writeJSON(w, http.StatusCreated, uploadResponse{Key: key, URL: blob.PublicURL(h.Config.PublicURL, key), Pages: pages})
}

func (h *BlobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		writeServiceError(w, h.Logger, "DeleteBlob", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Serve раздаёт вложение по публичной ссылке.
func (h *BlobHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := blob.ValidateKey(key); err != nil {
		http.NotFound(w, r)
		return
	}
	rc, err := h.Store.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.Logger.Errorw("ServeBlob: store error", "key", key, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", pdfcheck.ContentTypePDF)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Content-Disposition", "inline; filename=\""+key+"\"")
	if _, err := io.Copy(w, rc); err != nil {
		h.Logger.Warnw("ServeBlob: copy interrupted", "key", key, "error", err)
	}
}
