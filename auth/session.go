package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/eringen/modernblog/storage"
)

// Keys under which the session is persisted in the storage slot.
const (
	KeyAuthenticated = "isAuthenticated"
	KeyToken         = "sessionToken"
	KeyExpiry        = "sessionExpiry"
)

// Session is the admin's authenticated state. The zero value is anonymous.
type Session struct {
	Authenticated bool      `json:"authenticated"`
	Token         string    `json:"-"`
	ExpiresAt     time.Time `json:"expiresAt,omitzero"`
}

// ValidAt reports whether s is authenticated and not yet expired at now.
func (s Session) ValidAt(now time.Time) bool {
	return s.Authenticated && IsSessionValidAt(s.Token, s.ExpiresAt, now)
}

// IsSessionValid reports whether token is set and expiresAt is in the future.
func IsSessionValid(token string, expiresAt time.Time) bool {
	return IsSessionValidAt(token, expiresAt, time.Now())
}

// IsSessionValidAt is IsSessionValid against an explicit clock.
func IsSessionValidAt(token string, expiresAt time.Time, now time.Time) bool {
	return token != "" && now.Before(expiresAt)
}

// SessionStore persists the single admin session in a storage slot.
type SessionStore struct {
	slot storage.Slot
	now  func() time.Time
}

// NewSessionStore returns a SessionStore writing to slot.
func NewSessionStore(slot storage.Slot) *SessionStore {
	return &SessionStore{slot: slot, now: time.Now}
}

// Save records s as the current session.
func (st *SessionStore) Save(s Session) error {
	if err := st.slot.Set(KeyAuthenticated, strconv.FormatBool(s.Authenticated)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := st.slot.Set(KeyToken, s.Token); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := st.slot.Set(KeyExpiry, strconv.FormatInt(s.ExpiresAt.UnixMilli(), 10)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Restore reads the persisted session. A missing, partial or expired session
// yields the anonymous zero Session; an expired one is also cleared from the
// slot.
func (st *SessionStore) Restore() (Session, error) {
	flag, err := st.get(KeyAuthenticated)
	if err != nil {
		return Session{}, err
	}
	token, err := st.get(KeyToken)
	if err != nil {
		return Session{}, err
	}
	expiry, err := st.get(KeyExpiry)
	if err != nil {
		return Session{}, err
	}
	if flag != "true" || token == "" || expiry == "" {
		return Session{}, nil
	}
	ms, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil {
		return Session{}, st.Clear()
	}
	s := Session{Authenticated: true, Token: token, ExpiresAt: time.UnixMilli(ms)}
	if !s.ValidAt(st.now()) {
		return Session{}, st.Clear()
	}
	return s, nil
}

// Clear removes every session key, returning the store to anonymous.
func (st *SessionStore) Clear() error {
	for _, key := range []string{KeyAuthenticated, KeyToken, KeyExpiry} {
		if err := st.slot.Remove(key); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
	}
	return nil
}

func (st *SessionStore) get(key string) (string, error) {
	v, err := st.slot.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	return v, err
}
