// apps/go-client/internal/identity/identity.go
//
// Session and user identity on top of a token Store.
// Responsibilities:
//   - wordle_game holds the session id for one day.
//   - wordle_user holds the user id for seven days.
//   - Absent or expired tokens read as "".

// Package identity persists the session id and user id across restarts, in
// the two tokens the browser client kept as cookies.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/wordle/apps/go-client/internal/store"
)

const (
	SessionToken = "wordle_game"
	UserToken    = "wordle_user"

	SessionTTL = 1 * 24 * time.Hour
	UserTTL    = 7 * 24 * time.Hour
)

// Identity reads and writes the two identity tokens. Values are opaque.
type Identity struct {
	st  store.Store
	now func() time.Time
}

// New wraps st. A nil now uses time.Now.
func New(st store.Store, now func() time.Time) *Identity {
	if now == nil {
		now = time.Now
	}
	return &Identity{st: st, now: now}
}

// SessionID returns the persisted session id, or "" if absent or expired.
func (id *Identity) SessionID(ctx context.Context) (string, error) {
	return id.get(ctx, SessionToken)
}

// UserID returns the persisted user id, or "" if absent or expired.
func (id *Identity) UserID(ctx context.Context) (string, error) {
	return id.get(ctx, UserToken)
}

// SetSession stores the session id for ttl.
func (id *Identity) SetSession(ctx context.Context, sessionID string, ttl time.Duration) error {
	return id.set(ctx, SessionToken, sessionID, ttl)
}

// Save stores both ids with their default lifetimes. An empty userID leaves
// the user token untouched.
func (id *Identity) Save(ctx context.Context, sessionID, userID string) error {
	if err := id.set(ctx, SessionToken, sessionID, SessionTTL); err != nil {
		return err
	}
	if userID == "" {
		return nil
	}
	return id.set(ctx, UserToken, userID, UserTTL)
}

// ClearSession forgets the session id only.
func (id *Identity) ClearSession(ctx context.Context) error {
	return id.st.Delete(ctx, SessionToken)
}

// Clear forgets both ids.
func (id *Identity) Clear(ctx context.Context) error {
	return errors.Join(id.st.Delete(ctx, SessionToken), id.st.Delete(ctx, UserToken))
}

func (id *Identity) get(ctx context.Context, name string) (string, error) {
	t, err := id.st.Get(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("identity: read %s: %w", name, err)
	}
	return t.Value, nil
}

func (id *Identity) set(ctx context.Context, name, value string, ttl time.Duration) error {
	err := id.st.Set(ctx, store.Token{Name: name, Value: value, Path: "/", Expires: id.now().Add(ttl)})
	if err != nil {
		return fmt.Errorf("identity: write %s: %w", name, err)
	}
	return nil
}
