package cache

import (
	"context"
	"sync"

	"github.com/conta-ledger/conta/auth"
	"github.com/conta-ledger/conta/pkg/option"
)

// InMemoryStore keeps a cached token for the lifetime of the process.
type InMemoryStore struct {
	token option.Option[auth.CachedToken]

	mu sync.RWMutex
}

// Read implements auth.TokenStore.
func (s *InMemoryStore) Read(_ context.Context) option.Option[auth.CachedToken] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == nil {
		return option.None[auth.CachedToken]()
	}

	return s.token
}

// Write implements auth.TokenStore.
func (s *InMemoryStore) Write(_ context.Context, token auth.CachedToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = option.Some(token)

	return nil
}
