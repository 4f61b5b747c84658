// apps/go-client/internal/store/memory.go
//
// Persistence for the client's identity tokens (the terminal's cookie jar).
// Defines the Store interface and an in-memory implementation, used in tests
// and whenever durability across restarts is not wanted.
//
// Characteristics:
//   - Tokens are keyed by name; Path mirrors the browser cookie path scope.
//   - Expired tokens read as ErrNotFound and are dropped on access.
//   - Concurrency-safe via RWMutex; Get takes the write lock only to evict.

package store

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned for missing or expired tokens.
var ErrNotFound = errors.New("store: token not found")

// Token is one persisted name/value pair with an expiry horizon.
type Token struct {
	Name    string
	Value   string
	Path    string
	Expires time.Time
}

// Expired reports whether t has passed its expiry at now.
func (t Token) Expired(now time.Time) bool { return !now.Before(t.Expires) }

// Store defines the persistence interface for identity tokens.
type Store interface {
	// Get returns an unexpired token by name.
	Get(ctx context.Context, name string) (Token, error)

	// Set creates or replaces a token.
	Set(ctx context.Context, t Token) error

	// Delete removes a token. Deleting a missing token is not an error.
	Delete(ctx context.Context, name string) error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu     sync.RWMutex
	now    func() time.Time
	tokens map[string]Token
}

// NewMemoryStore constructs a new in-memory Store. A nil now uses time.Now.
func NewMemoryStore(now func() time.Time) Store {
	if now == nil {
		now = time.Now
	}
	return &memory{now: now, tokens: make(map[string]Token)}
}

// Get returns the named token. Expired tokens are evicted and reported as
// ErrNotFound.
func (m *memory) Get(ctx context.Context, name string) (Token, error) {
	m.mu.RLock()
	t, ok := m.tokens[name]
	m.mu.RUnlock()
	if !ok {
		return Token{}, ErrNotFound
	}
	if t.Expired(m.now()) {
		m.mu.Lock()
		delete(m.tokens, name)
		m.mu.Unlock()
		return Token{}, ErrNotFound
	}
	return t, nil
}

// Set inserts or replaces the token keyed by t.Name.
func (m *memory) Set(ctx context.Context, t Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[t.Name] = t
	return nil
}

// Delete removes the named token. Missing tokens are not an error.
func (m *memory) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, name)
	return nil
}
