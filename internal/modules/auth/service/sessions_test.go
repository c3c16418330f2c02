package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auth/internal/modules/auth/domain"
	"auth/internal/platform/security"
)

func TestLogin_TwoLoginsTwoDevices(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	u := e.registerConfirmed(t, "alice", "Secret123!", "alice@example.com")

	p1, err := e.registry.Login(ctx, u, "1.2.3.4", "UA-A")
	require.NoError(t, err)
	p2, err := e.registry.Login(ctx, u, "1.2.3.4", "UA-B")
	require.NoError(t, err)
	require.NotEqual(t, p1.RefreshToken, p2.RefreshToken)

	sessions, err := e.registry.ListSessions(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.NotEqual(t, sessions[0].ID, sessions[1].ID)

	titles := map[string]bool{sessions[0].Title: true, sessions[1].Title: true}
	assert.True(t, titles["UA-A"] && titles["UA-B"])
}

func TestLogin_RowMirrorsTokenClaims(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	u := e.registerConfirmed(t, "bob", "Secret123!", "bob@example.com")

	pair, err := e.registry.Login(ctx, u, "5.6.7.8", "UA")
	require.NoError(t, err)

	claims, err := e.codec.DecodeRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	sess, err := e.sessions.GetSessionByID(ctx, claims.DeviceID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.UserID)
	assert.True(t, sess.LastActive.Equal(claims.LastActive()))
	assert.True(t, sess.ExpiresAt.Equal(claims.Expiration()))
	assert.Equal(t, "5.6.7.8", sess.IP)
	assert.Equal(t, "UA", sess.Title)
}

func TestRefresh_RotatesAndInvalidatesPrevious(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	u := e.registerConfirmed(t, "carol", "Secret123!", "carol@example.com")

	pair, err := e.registry.Login(ctx, u, "1.2.3.4", "UA")
	require.NoError(t, err)

	rotated, err := e.registry.Refresh(ctx, u, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// same device, new window
	oldClaims, err := e.codec.DecodeRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	newClaims, err := e.codec.DecodeRefreshToken(rotated.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, oldClaims.DeviceID, newClaims.DeviceID)

	// re-presenting the superseded token must be rejected as stale
	_, err = e.registry.Refresh(ctx, u, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrStaleToken)

	// the rotated token keeps working
	_, err = e.registry.Refresh(ctx, u, rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_ConcurrentRotationHasOneWinner(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	u := e.registerConfirmed(t, "dave", "Secret123!", "dave@example.com")

	pair, err := e.registry.Login(ctx, u, "1.2.3.4", "UA")
	require.NoError(t, err)

	// simulate the race loser: the row was already advanced by a concurrent
	// rotation presenting the same token
	claims, err := e.codec.DecodeRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	won, err := e.sessions.RefreshSession(ctx, claims.DeviceID, claims.LastActive(),
		claims.LastActive().Add(time.Second), claims.Expiration().Add(time.Second))
	require.NoError(t, err)
	require.True(t, won)

	_, err = e.registry.Refresh(ctx, u, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrStaleToken)
}

func TestRefresh_ForeignUser(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	alice := e.registerConfirmed(t, "alice", "Secret123!", "alice@example.com")
	mallory := e.registerConfirmed(t, "mallory", "Secret123!", "mallory@example.com")

	pair, err := e.registry.Login(ctx, alice, "1.2.3.4", "UA")
	require.NoError(t, err)

	_, err = e.registry.Refresh(ctx, mallory, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefresh_ExpiredToken(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	u := e.registerConfirmed(t, "erin", "Secret123!", "erin@example.com")

	expiredCodec := security.NewJWTManager("test-secret", time.Minute, -time.Minute)
	registry := NewSessionRegistry(e.sessions, expiredCodec)
	pair, err := registry.Login(ctx, u, "1.2.3.4", "UA")
	require.NoError(t, err)

	_, err = registry.Refresh(ctx, u, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrExpired)
}

func TestLogout_DeletesExactlyOneSession(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	u := e.registerConfirmed(t, "frank", "Secret123!", "frank@example.com")

	p1, err := e.registry.Login(ctx, u, "1.2.3.4", "UA-A")
	require.NoError(t, err)
	_, err = e.registry.Login(ctx, u, "1.2.3.4", "UA-B")
	require.NoError(t, err)

	deleted, err := e.registry.Logout(ctx, u.ID, p1.RefreshToken)
	require.NoError(t, err)
	assert.True(t, deleted)

	sessions, err := e.registry.ListSessions(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	// the token no longer resolves to a session
	deleted, err = e.registry.Logout(ctx, u.ID, p1.RefreshToken)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestLogout_ForeignTokenIsRejected(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	alice := e.registerConfirmed(t, "alice", "Secret123!", "alice@example.com")
	mallory := e.registerConfirmed(t, "mallory", "Secret123!", "mallory@example.com")

	pair, err := e.registry.Login(ctx, alice, "1.2.3.4", "UA")
	require.NoError(t, err)

	// a validly-signed foreign token must not terminate another user's session
	_, err = e.registry.Logout(ctx, mallory.ID, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	sessions, err := e.registry.ListSessions(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestLogout_StaleTokenAfterRotation(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	u := e.registerConfirmed(t, "grace", "Secret123!", "grace@example.com")

	pair, err := e.registry.Login(ctx, u, "1.2.3.4", "UA")
	require.NoError(t, err)
	_, err = e.registry.Refresh(ctx, u, pair.RefreshToken)
	require.NoError(t, err)

	_, err = e.registry.Logout(ctx, u.ID, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrStaleToken)
}

func TestTerminateSession(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	alice := e.registerConfirmed(t, "alice", "Secret123!", "alice@example.com")
	mallory := e.registerConfirmed(t, "mallory", "Secret123!", "mallory@example.com")

	pair, err := e.registry.Login(ctx, alice, "1.2.3.4", "UA")
	require.NoError(t, err)
	claims, err := e.codec.DecodeRefreshToken(pair.RefreshToken)
	require.NoError(t, err)

	_, err = e.registry.TerminateSession(ctx, mallory.ID, claims.DeviceID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	deleted, err := e.registry.TerminateSession(ctx, alice.ID, claims.DeviceID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = e.registry.TerminateSession(ctx, alice.ID, claims.DeviceID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestTerminateOtherSessions(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	u := e.registerConfirmed(t, "heidi", "Secret123!", "heidi@example.com")

	current, err := e.registry.Login(ctx, u, "1.2.3.4", "UA-current")
	require.NoError(t, err)
	_, err = e.registry.Login(ctx, u, "1.2.3.4", "UA-2")
	require.NoError(t, err)
	_, err = e.registry.Login(ctx, u, "1.2.3.4", "UA-3")
	require.NoError(t, err)

	n, err := e.registry.TerminateOtherSessions(ctx, u.ID, current.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	sessions, err := e.registry.ListSessions(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "UA-current", sessions[0].Title)
}

func TestPurgeExpired(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	u := e.registerConfirmed(t, "ivan", "Secret123!", "ivan@example.com")

	_, err := e.registry.Login(ctx, u, "1.2.3.4", "UA-live")
	require.NoError(t, err)

	stale := &domain.DeviceSession{
		ID:         "dead-device",
		UserID:     u.ID,
		IP:         "1.2.3.4",
		Title:      "UA-dead",
		LastActive: time.Now().UTC().Add(-2 * time.Hour),
		ExpiresAt:  time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, e.sessions.CreateSession(ctx, stale))

	n, err := e.registry.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = e.sessions.GetSessionByID(ctx, "dead-device")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
