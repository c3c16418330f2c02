package domain

import (
	"context"
	"time"
)

// DeviceSession is one active login for one user on one device. The row is
// the source of truth for the device's refresh token: LastActive and
// ExpiresAt must always equal the claims of the refresh token currently
// considered valid, which is what lets rotation invalidate the previous one.
type DeviceSession struct {
	ID         string // device id, generated fresh on every login
	UserID     string
	IP         string
	Title      string // client descriptor, e.g. user agent
	LastActive time.Time
	ExpiresAt  time.Time
}

type DeviceSessionStore interface {
	CreateSession(ctx context.Context, s *DeviceSession) error
	GetSessionByID(ctx context.Context, deviceID string) (*DeviceSession, error)
	ListSessionsByUser(ctx context.Context, userID string) ([]DeviceSession, error)

	// RefreshSession advances the activity window of one device row, but
	// only if the row still carries prevLastActive. Of two concurrent
	// rotations exactly one observes true; the loser must treat its token
	// as stale.
	RefreshSession(ctx context.Context, deviceID string, prevLastActive, lastActive, expiresAt time.Time) (bool, error)

	// DeleteSession removes the row and reports whether one existed.
	DeleteSession(ctx context.Context, deviceID string) (bool, error)

	// DeleteOtherSessions removes every session of the user except
	// keepDeviceID and returns the number removed.
	DeleteOtherSessions(ctx context.Context, userID, keepDeviceID string) (int, error)

	// PurgeExpired reclaims rows whose window closed at or before now.
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}
