package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// RevocationList хранит отозванные id токенов до истечения их срока жизни.
type RevocationList struct {
	cache *expirable.LRU[string, struct{}]
}

// NewRevocationList: ttl должен быть не меньше времени жизни сессии.
func NewRevocationList(size int, ttl time.Duration) *RevocationList {
	return &RevocationList{cache: expirable.NewLRU[string, struct{}](size, nil, ttl)}
}

func (l *RevocationList) Revoke(tokenID string) {
	if tokenID == "" {
		return
	}
	l.cache.Add(tokenID, struct{}{})
}

func (l *RevocationList) IsRevoked(tokenID string) bool {
	_, ok := l.cache.Get(tokenID)
	return ok
}
