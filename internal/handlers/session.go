package handlers

import (
	"CaseTrack/internal/config"
	"CaseTrack/internal/middleware"
	"CaseTrack/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// SessionHandler — вход и выход администратора.
type SessionHandler struct {
	UserService *service.UserService
	Revoked     *service.RevocationList
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewSessionHandler(userService *service.UserService, revoked *service.RevocationList, logger *zap.SugaredLogger, cfg *config.Config) *SessionHandler {
	return &SessionHandler{UserService: userService, Revoked: revoked, Logger: logger, Config: cfg}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login проверяет пароль и ставит cookie сессии.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.Logger.Infow("Login: invalid credentials", "email", req.Email)
			writeError(w, http.StatusUnauthorized, "Invalid login credentials")
			return
		}
		h.Logger.Errorw("Login: service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s, err := middleware.SetLoginCookie(w, user.ID, user.Email, h.Config.AuthSecret, h.Config.SessionTTL)
	if err != nil {
		h.Logger.Errorw("Login: failed to issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.Logger.Infow("admin logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, s)
}

// Current возвращает текущую сессию или 401.
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Logout отзывает токен и очищает cookie. Без сессии тоже 204.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if s, ok := middleware.GetSessionFromContext(r.Context()); ok {
		h.Revoked.Revoke(s.TokenID)
		h.Logger.Infow("admin logged out", "user_id", s.UserID)
	}
	middleware.ClearLoginCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
