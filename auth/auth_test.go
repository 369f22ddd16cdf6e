package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/modernblog/storage"
)

func TestHash(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "0"},
		{"a", "2p"},
		{"ab", "2e9"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Hash(tt.input), "Hash(%q)", tt.input)
	}
	// Long inputs overflow 32 bits; the result must stay non-negative base 36.
	long := Hash("password123password123password123")
	assert.NotEmpty(t, long)
	assert.NotContains(t, long, "-")
	assert.Equal(t, long, Hash("password123password123password123"))
}

func newTestAuthenticator(opts ...Option) *Authenticator {
	opts = append([]Option{WithLatency(time.Millisecond)}, opts...)
	return NewAuthenticator(DefaultCredentials(), opts...)
}

func TestCheckSuccess(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := newTestAuthenticator(WithClock(func() time.Time { return now }))

	s, err := a.Check(context.Background(), "admin", "password123")
	require.NoError(t, err)
	assert.True(t, s.Authenticated)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, now.Add(24*time.Hour), s.ExpiresAt)
	assert.True(t, s.ValidAt(now))
}

func TestCheckTokensAreDistinct(t *testing.T) {
	a := newTestAuthenticator()
	s1, err := a.Check(context.Background(), "admin", "password123")
	require.NoError(t, err)
	s2, err := a.Check(context.Background(), "admin", "password123")
	require.NoError(t, err)
	assert.NotEqual(t, s1.Token, s2.Token)
}

func TestCheckRejectsGenerically(t *testing.T) {
	a := newTestAuthenticator()
	cases := map[string][2]string{
		"wrong password": {"admin", "password124"},
		"wrong username": {"editor", "password123"},
		"bad username":   {"ad min", "password123"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := a.Check(context.Background(), c[0], c[1])
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.False(t, s.Authenticated)
			assert.Empty(t, s.Token)
		})
	}
}

func TestCheckShortPasswordSkipsHashing(t *testing.T) {
	a := newTestAuthenticator(WithLatency(time.Hour))
	hashed := 0
	a.hash = func(s string) string {
		hashed++
		return Hash(s)
	}

	start := time.Now()
	_, err := a.Check(context.Background(), "admin", "short")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Zero(t, hashed)
	assert.Less(t, time.Since(start), time.Second, "short password must not wait for the latency")
}

func TestCheckCancelled(t *testing.T) {
	a := newTestAuthenticator(WithLatency(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	s, err := a.Check(ctx, "admin", "password123")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, s.Authenticated)
}

func TestCheckBcryptCredentials(t *testing.T) {
	hash, err := HashBcrypt("correct horse")
	require.NoError(t, err)
	a := NewAuthenticator(Credentials{Username: "admin", PasswordHash: hash}, WithLatency(0))

	_, err = a.Check(context.Background(), "admin", "correct horse")
	assert.NoError(t, err)
	_, err = a.Check(context.Background(), "admin", "wrong horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIsSessionValid(t *testing.T) {
	now := time.Now()
	assert.True(t, IsSessionValidAt("tok", now.Add(time.Minute), now))
	assert.False(t, IsSessionValidAt("tok", now, now), "expiry equal to now is expired")
	assert.False(t, IsSessionValidAt("", now.Add(time.Minute), now))
	assert.True(t, IsSessionValid("tok", time.Now().Add(time.Hour)))
}

func TestSessionStoreRoundTrip(t *testing.T) {
	slot := storage.NewMemory()
	st := NewSessionStore(slot)
	exp := time.Now().Add(time.Hour).Truncate(time.Millisecond)

	require.NoError(t, st.Save(Session{Authenticated: true, Token: "abc", ExpiresAt: exp}))
	got, err := st.Restore()
	require.NoError(t, err)
	assert.True(t, got.Authenticated)
	assert.Equal(t, "abc", got.Token)
	assert.True(t, exp.Equal(got.ExpiresAt))
}

func TestSessionStoreExpiredIsCleared(t *testing.T) {
	slot := storage.NewMemory()
	st := NewSessionStore(slot)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	require.NoError(t, st.Save(Session{Authenticated: true, Token: "abc", ExpiresAt: now.Add(-time.Millisecond)}))
	got, err := st.Restore()
	require.NoError(t, err)
	assert.False(t, got.Authenticated)
	assert.Empty(t, got.Token)

	for _, key := range []string{KeyAuthenticated, KeyToken, KeyExpiry} {
		_, err := slot.Get(key)
		assert.ErrorIs(t, err, storage.ErrNotFound, key)
	}
}

func TestSessionStoreAnonymousWhenEmpty(t *testing.T) {
	st := NewSessionStore(storage.NewMemory())
	got, err := st.Restore()
	require.NoError(t, err)
	assert.Equal(t, Session{}, got)
}

func TestSessionStoreCorruptExpiry(t *testing.T) {
	slot := storage.NewMemory()
	require.NoError(t, slot.Set(KeyAuthenticated, "true"))
	require.NoError(t, slot.Set(KeyToken, "abc"))
	require.NoError(t, slot.Set(KeyExpiry, "not-a-number"))

	got, err := NewSessionStore(slot).Restore()
	require.NoError(t, err)
	assert.False(t, got.Authenticated)
	_, err = slot.Get(KeyToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
