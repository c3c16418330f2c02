package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"auth/internal/modules/auth/domain"
)

type SessionStore struct{ db *pgxpool.Pool }

func NewSessionStore(db *pgxpool.Pool) *SessionStore { return &SessionStore{db: db} }

func (r *SessionStore) CreateSession(ctx context.Context, s *domain.DeviceSession) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO device_sessions (id, user_id, ip, title, last_active, expires_at)
VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.UserID, s.IP, s.Title, s.LastActive, s.ExpiresAt)
	return err
}

func (r *SessionStore) GetSessionByID(ctx context.Context, deviceID string) (*domain.DeviceSession, error) {
	row := r.db.QueryRow(ctx, `
SELECT id, user_id, ip, title, last_active, expires_at
FROM device_sessions WHERE id=$1`, deviceID)
	var s domain.DeviceSession
	if err := row.Scan(&s.ID, &s.UserID, &s.IP, &s.Title, &s.LastActive, &s.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SessionStore) ListSessionsByUser(ctx context.Context, userID string) ([]domain.DeviceSession, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, user_id, ip, title, last_active, expires_at
FROM device_sessions WHERE user_id=$1 ORDER BY last_active DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.DeviceSession{}
	for rows.Next() {
		var s domain.DeviceSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.IP, &s.Title, &s.LastActive, &s.ExpiresAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// RefreshSession is the rotation CAS: the row advances only if it still
// carries prevLastActive, which serializes concurrent rotations for one
// device at the storage layer.
func (r *SessionStore) RefreshSession(ctx context.Context, deviceID string, prevLastActive, lastActive, expiresAt time.Time) (bool, error) {
	ct, err := r.db.Exec(ctx, `
UPDATE device_sessions SET last_active=$3, expires_at=$4
WHERE id=$1 AND last_active=$2`,
		deviceID, prevLastActive, lastActive, expiresAt)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *SessionStore) DeleteSession(ctx context.Context, deviceID string) (bool, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM device_sessions WHERE id=$1`, deviceID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *SessionStore) DeleteOtherSessions(ctx context.Context, userID, keepDeviceID string) (int, error) {
	ct, err := r.db.Exec(ctx, `
DELETE FROM device_sessions WHERE user_id=$1 AND id<>$2`, userID, keepDeviceID)
	if err != nil {
		return 0, err
	}
	return int(ct.RowsAffected()), nil
}

func (r *SessionStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM device_sessions WHERE expires_at<=$1`, now)
	if err != nil {
		return 0, err
	}
	return int(ct.RowsAffected()), nil
}
