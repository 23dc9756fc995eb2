// Package session — состояние аутентификации администратора в консоли.
package session

import (
	"CaseTrack/internal/recordstore"
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrLoginRequired возвращает Gate, если администратор не вошёл.
var ErrLoginRequired = errors.New("login required")

type State int

const (
	Unknown State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// Backend — часть контракта хранилища, нужная охраннику.
type Backend interface {
	StartSession(ctx context.Context, identifier, secret string) (*recordstore.Session, error)
	EndSession(ctx context.Context) error
	CurrentSession(ctx context.Context) (*recordstore.Session, error)
	SubscribeSession(fn func(*recordstore.Session)) (unsubscribe func())
}

// Guard — единственный источник истины о состоянии сессии.
type Guard struct {
	backend Backend
	logger  *zap.SugaredLogger

	mu          sync.Mutex
	state       State
	session     *recordstore.Session
	unsubscribe func()
}

func NewGuard(b Backend, logger *zap.SugaredLogger) *Guard {
	return &Guard{backend: b, logger: logger}
}

// Start подписывается на изменения сессии и выполняет первую проверку.
// Ошибка проверки оставляет консоль без входа.
func (g *Guard) Start(ctx context.Context) {
	g.mu.Lock()
	if g.unsubscribe == nil {
		g.unsubscribe = g.backend.SubscribeSession(g.set)
	}
	g.mu.Unlock()

	s, err := g.backend.CurrentSession(ctx)
	if err != nil {
		g.logger.Warnw("session check failed", "error", err)
	}
	g.set(s)
}

// Close снимает подписку.
func (g *Guard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unsubscribe != nil {
		g.unsubscribe()
		g.unsubscribe = nil
	}
}

func (g *Guard) set(s *recordstore.Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = s
	if s != nil {
		g.state = Authenticated
	} else {
		g.state = Unauthenticated
	}
}

func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Guard) IsAuthenticated() bool {
	return g.State() == Authenticated
}

// Session возвращает текущую сессию или nil.
func (g *Guard) Session() *recordstore.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == nil {
		return nil
	}
	s := *g.session
	return &s
}

// Login никогда не возвращает ошибку: false означает, что вход не удался.
func (g *Guard) Login(ctx context.Context, identifier, secret string) bool {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		g.set(nil)
		return false
	}
	s, err := g.backend.StartSession(ctx, identifier, secret)
	if err != nil {
		g.logger.Infow("login failed", "email", identifier, "error", err)
		g.set(nil)
		return false
	}
	g.set(s)
	return true
}

// Logout завершает сессию. Ошибка бэкенда только логируется.
func (g *Guard) Logout(ctx context.Context) {
	if err := g.backend.EndSession(ctx); err != nil {
		g.logger.Warnw("logout failed", "error", err)
	}
	g.set(nil)
}

// Gate выполняет fn только для вошедшего администратора.
func (g *Guard) Gate(fn func() error) error {
	if !g.IsAuthenticated() {
		return ErrLoginRequired
	}
	return fn()
}
