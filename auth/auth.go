// Package auth implements the admin credential check and session lifecycle.
//
// There is exactly one identity. A successful check mints an opaque token
// that expires after SessionTTL; the session is persisted in the storage slot
// so it survives restarts until it expires or the admin logs out.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/eringen/modernblog/delay"
	"github.com/eringen/modernblog/sanitize"
)

const (
	// MinPasswordLength is checked before any hashing takes place.
	MinPasswordLength = 8
	// DefaultLatency is the simulated time a credential check takes.
	DefaultLatency = time.Second
	// DefaultSessionTTL is how long a minted session stays valid.
	DefaultSessionTTL = 24 * time.Hour
)

// ErrInvalidCredentials is returned for every rejected login. It never says
// whether the username or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Credentials is the single admin identity. PasswordHash is either a
// rolling Hash or a bcrypt hash.
type Credentials struct {
	Username     string
	PasswordHash string
}

// DefaultCredentials returns the built-in admin identity (admin / password123).
func DefaultCredentials() Credentials {
	return Credentials{Username: "admin", PasswordHash: Hash("password123")}
}

// Authenticator checks submitted credentials against one fixed identity.
type Authenticator struct {
	creds   Credentials
	latency time.Duration
	ttl     time.Duration
	now     func() time.Time
	hash    func(string) string
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithLatency overrides the simulated check latency.
func WithLatency(d time.Duration) Option {
	return func(a *Authenticator) { a.latency = d }
}

// WithSessionTTL overrides how long minted sessions stay valid.
func WithSessionTTL(d time.Duration) Option {
	return func(a *Authenticator) { a.ttl = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) { a.now = now }
}

// NewAuthenticator returns an Authenticator for creds.
func NewAuthenticator(creds Credentials, opts ...Option) *Authenticator {
	a := &Authenticator{
		creds:   creds,
		latency: DefaultLatency,
		ttl:     DefaultSessionTTL,
		now:     time.Now,
		hash:    Hash,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Check validates username and password and, on success, returns a fresh
// authenticated Session. Malformed usernames and short passwords fail
// immediately; everything else resolves after the configured latency.
// If ctx is cancelled while the check is pending, no session is minted and
// ctx's error is returned.
func (a *Authenticator) Check(ctx context.Context, username, password string) (Session, error) {
	if !sanitize.ValidateInput(username, sanitize.KindUsername) ||
		utf8.RuneCountInString(password) < MinPasswordLength {
		return Session{}, ErrInvalidCredentials
	}

	var (
		session Session
		err     error
	)
	task := delay.Schedule(ctx, a.latency, func() {
		session, err = a.verify(username, password)
	})
	<-task.Done()
	if !task.Fired() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Session{}, ctxErr
		}
		return Session{}, context.Canceled
	}
	return session, err
}

func (a *Authenticator) verify(username, password string) (Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.creds.Username)) == 1
	passOK := a.passwordMatches(a.creds.PasswordHash, password)
	if !userOK || !passOK {
		return Session{}, ErrInvalidCredentials
	}
	now := a.now()
	return Session{
		Authenticated: true,
		Token:         newToken(now),
		ExpiresAt:     now.Add(a.ttl),
	}, nil
}

// newToken joins the base-36 timestamp and a random hex suffix.
func newToken(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 36) + strings.ReplaceAll(uuid.NewString(), "-", "")
}
