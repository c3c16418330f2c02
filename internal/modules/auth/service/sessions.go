package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"auth/internal/modules/auth/domain"
	"auth/internal/platform/security"
)

// TokenPair bundles a short-lived access token and a device-bound refresh
// token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionRegistry issues, rotates, and terminates per-device sessions. The
// session row is the source of truth; a refresh token is current only while
// its embedded activity window equals the row's.
type SessionRegistry struct {
	sessions domain.DeviceSessionStore
	codec    TokenCodec
}

func NewSessionRegistry(sessions domain.DeviceSessionStore, codec TokenCodec) *SessionRegistry {
	return &SessionRegistry{sessions: sessions, codec: codec}
}

// Login opens a new device session for the user. Every login gets a fresh
// device id, so two logins by the same user always produce two independent
// sessions; there is no per-user session limit.
func (s *SessionRegistry) Login(ctx context.Context, user *domain.User, ip, userAgent string) (*TokenPair, error) {
	deviceID := uuid.New().String()
	access, err := s.codec.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	refresh, claims, err := s.codec.IssueRefreshToken(user.ID, deviceID)
	if err != nil {
		return nil, err
	}
	sess := &domain.DeviceSession{
		ID:         deviceID,
		UserID:     user.ID,
		IP:         ip,
		Title:      userAgent,
		LastActive: claims.LastActive(),
		ExpiresAt:  claims.Expiration(),
	}
	if err := s.sessions.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh rotates both tokens of the device session bound to the presented
// refresh token. The row is advanced with a compare-and-swap on its previous
// activity instant, so of two concurrent rotations with the same token
// exactly one succeeds; the other observes ErrStaleToken.
func (s *SessionRegistry) Refresh(ctx context.Context, user *domain.User, refreshToken string) (*TokenPair, error) {
	_, sess, err := s.validate(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if sess.UserID != user.ID {
		return nil, domain.ErrUnauthorized
	}
	access, err := s.codec.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	refresh, claims, err := s.codec.IssueRefreshToken(user.ID, sess.ID)
	if err != nil {
		return nil, err
	}
	ok, err := s.sessions.RefreshSession(ctx, sess.ID, sess.LastActive, claims.LastActive(), claims.Expiration())
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race against a concurrent rotation or logout.
		return nil, domain.ErrStaleToken
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Logout terminates the device session bound to the presented refresh token
// and reports whether a row was actually deleted. The row must belong to the
// calling user; presenting a foreign but validly-signed token yields
// ErrUnauthorized, a rotated-away token yields ErrStaleToken.
func (s *SessionRegistry) Logout(ctx context.Context, userID, refreshToken string) (bool, error) {
	_, sess, err := s.validate(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrExpired) {
			return false, nil
		}
		return false, err
	}
	if sess.UserID != userID {
		return false, domain.ErrUnauthorized
	}
	return s.sessions.DeleteSession(ctx, sess.ID)
}

// ListSessions returns the user's device sessions that are still inside
// their activity window.
func (s *SessionRegistry) ListSessions(ctx context.Context, userID string) ([]domain.DeviceSession, error) {
	all, err := s.sessions.ListSessionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	active := all[:0]
	for _, sess := range all {
		if now.Before(sess.ExpiresAt) {
			active = append(active, sess)
		}
	}
	return active, nil
}

// TerminateSession deletes one session of the user by device id.
func (s *SessionRegistry) TerminateSession(ctx context.Context, userID, deviceID string) (bool, error) {
	sess, err := s.sessions.GetSessionByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if sess.UserID != userID {
		return false, domain.ErrUnauthorized
	}
	return s.sessions.DeleteSession(ctx, deviceID)
}

// TerminateOtherSessions deletes every session of the user except the one
// bound to the presented refresh token, and returns the number removed.
func (s *SessionRegistry) TerminateOtherSessions(ctx context.Context, userID, refreshToken string) (int, error) {
	_, sess, err := s.validate(ctx, refreshToken)
	if err != nil {
		return 0, err
	}
	if sess.UserID != userID {
		return 0, domain.ErrUnauthorized
	}
	return s.sessions.DeleteOtherSessions(ctx, userID, sess.ID)
}

// PurgeExpired reclaims device rows whose window has closed. Expired rows
// are already inert for refresh and logout; this is housekeeping, safe to
// run at any time.
func (s *SessionRegistry) PurgeExpired(ctx context.Context) (int, error) {
	return s.sessions.PurgeExpired(ctx, time.Now().UTC())
}

// validate resolves a refresh token to its session row and checks that the
// token is still the current one for the device: signature and format,
// row presence, row expiry, activity-window equality, and claim ownership,
// in that order. Every refresh-token-accepting operation goes through here.
func (s *SessionRegistry) validate(ctx context.Context, refreshToken string) (*security.RefreshClaims, *domain.DeviceSession, error) {
	claims, err := s.codec.DecodeRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return nil, nil, domain.ErrExpired
		}
		return nil, nil, domain.ErrUnauthorized
	}
	sess, err := s.sessions.GetSessionByID(ctx, claims.DeviceID)
	if err != nil {
		return nil, nil, err
	}
	if !time.Now().UTC().Before(sess.ExpiresAt) {
		return nil, nil, domain.ErrExpired
	}
	if !claims.LastActive().Equal(sess.LastActive) {
		return nil, nil, domain.ErrStaleToken
	}
	if claims.UserID != sess.UserID {
		return nil, nil, domain.ErrUnauthorized
	}
	return claims, sess, nil
}
