package handlers

import (
	"CaseTrack/internal/blob"
	"CaseTrack/internal/config"
	"CaseTrack/internal/lookup"
	"CaseTrack/internal/middleware"
	"CaseTrack/internal/model"
	"CaseTrack/internal/service"
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// Services — зависимости хендлеров.
type Services struct {
	Users       *service.UserService
	Cases       *service.CaseService
	Submissions *service.SubmissionService
	Blobs       blob.Store
	Revoked     *service.RevocationList
}

// NewHandler разводящий для хендлеров
func NewHandler(svc Services, logger *zap.SugaredLogger, cfg *config.Config) *Handler {
	if svc.Revoked == nil {
		svc.Revoked = service.NewRevocationList(1024, cfg.SessionTTL)
	}

	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(cfg.AuthSecret, svc.Revoked))

	lookupSvc := lookup.NewService(lookup.FinderFunc(func(ctx context.Context, caseNumber string) (*model.Case, error) {
		c, err := svc.Cases.FindByCaseNumber(ctx, caseNumber)
		if errors.Is(err, service.ErrNotFound) {
			return nil, nil
		}
		return c, err
	}), logger)

	// Handlers
	pageHandler := NewPageHandler(lookupSvc, logger, cfg)
	sessionHandler := NewSessionHandler(svc.Users, svc.Revoked, logger, cfg)
	caseHandler := NewCaseHandler(svc.Cases, lookupSvc, logger, cfg)
	submissionHandler := NewSubmissionHandler(svc.Submissions, logger, cfg)
	blobHandler := NewBlobHandler(svc.Blobs, logger, cfg)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public routes
	r.Get("/", pageHandler.Index)
	r.Get("/case/{caseNumber}", pageHandler.Case)
	r.Get("/files/{key}", blobHandler.Serve)
	r.Get("/api/cases/lookup/{caseNumber}", caseHandler.Lookup)
	r.Post("/api/contact", submissionHandler.Contact)

	// Session routes
	r.Post("/api/session", sessionHandler.Login)
	r.Get("/api/session", sessionHandler.Current)
	r.Delete("/api/session", sessionHandler.Logout)

	// Admin routes
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/cases", caseHandler.List)
		r.Post("/cases", caseHandler.Create)
		r.Patch("/cases/{id}", caseHandler.Update)
		r.Delete("/cases/{id}", caseHandler.Delete)

		r.Get("/submissions", submissionHandler.List)
		r.Patch("/submissions/{id}", submissionHandler.MarkRead)
		r.Delete("/submissions/{id}", submissionHandler.Delete)

		r.Put("/blobs/{key}", blobHandler.Upload)
		r.Delete("/blobs/{key}", blobHandler.Delete)
	})

	return &Handler{Router: r}
}
