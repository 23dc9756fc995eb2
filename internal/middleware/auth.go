package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName — имя cookie с JWT администратора.
const CookieName = "auth_token"

type ctxKey struct{}

// Claims — полезная нагрузка токена сессии.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Session — данные сессии, которые WithAuth кладёт в контекст.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RevokedChecker сообщает, отозван ли токен (logout).
type RevokedChecker interface {
	IsRevoked(tokenID string) bool
}

// IssueToken подписывает новый токен.
func IssueToken(userID, email, secret string, ttl time.Duration) (string, Session, error) {
	now := time.Now()
	s := Session{
		UserID:    userID,
		Email:     email,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(ttl).UTC(),
	}
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.TokenID,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", Session{}, err
	}
	return token, s, nil
}

// SetLoginCookie выпускает токен и ставит его в cookie ответа.
func SetLoginCookie(w http.ResponseWriter, userID, email, secret string, ttl time.Duration) (Session, error) {
	token, s, err := IssueToken(userID, email, secret, ttl)
	if err != nil {
		return Session{}, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

// ClearLoginCookie удаляет cookie сессии у клиента.
func ClearLoginCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
}

// ParseToken проверяет подпись и срок действия токена.
func ParseToken(token, secret string) (Session, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Session{}, err
	}
	if !parsed.Valid || claims.Subject == "" {
		return Session{}, errors.New("invalid token")
	}
	s := Session{UserID: claims.Subject, Email: claims.Email, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return s, nil
}

// WithAuth разбирает cookie и кладёт сессию в контекст.
// Запрос без валидного токена проходит дальше анонимным.
func WithAuth(secret string, revoked RevokedChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(CookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			s, err := ParseToken(c.Value, secret)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if revoked != nil && revoked.IsRevoked(s.TokenID) {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, s)))
		})
	}
}

// RequireAuth отвечает 401, если в контексте нет сессии.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext достаёт сессию, положенную WithAuth.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}

// GetUserIDFromContext достаёт id администратора.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	s, ok := GetSessionFromContext(ctx)
	if !ok {
		return "", false
	}
	return s.UserID, true
}
