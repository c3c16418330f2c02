// Package infra holds the in-memory store implementations, used by tests and
// by the dev-mode module wiring.
package infra

import (
	"context"
	"sync"
	"time"

	"auth/internal/modules/auth/domain"
)

type MemUserStore struct {
	mu      sync.RWMutex
	users   map[string]*domain.User // id -> user
	byLogin map[string]string
	byEmail map[string]string
}

func NewMemUserStore() *MemUserStore {
	return &MemUserStore{
		users:   make(map[string]*domain.User),
		byLogin: make(map[string]string),
		byEmail: make(map[string]string),
	}
}

func (r *MemUserStore) CreateUser(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byLogin[u.Login]; ok {
		return domain.ErrConflict
	}
	if _, ok := r.byEmail[u.Email]; ok {
		return domain.ErrConflict
	}
	cp := *u
	r.users[u.ID] = &cp
	r.byLogin[u.Login] = u.ID
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *MemUserStore) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemUserStore) GetUserByLoginOrEmail(_ context.Context, loginOrEmail string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byLogin[loginOrEmail]
	if !ok {
		id, ok = r.byEmail[loginOrEmail]
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r.users[id]
	return &cp, nil
}

func (r *MemUserStore) GetUserByConfirmationCode(_ context.Context, code string) (*domain.User, error) {
	return r.findBy(func(u *domain.User) bool { return code != "" && u.ConfirmationCode == code })
}

func (r *MemUserStore) GetUserByRecoveryCode(_ context.Context, code string) (*domain.User, error) {
	return r.findBy(func(u *domain.User) bool { return code != "" && u.RecoveryCode == code })
}

func (r *MemUserStore) UpdateConfirmation(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.IsConfirmed = true
	u.ConfirmationCode = ""
	u.ConfirmationExpiry = time.Time{}
	return nil
}

func (r *MemUserStore) RefreshConfirmationCode(_ context.Context, email, code string, expiry time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[email]
	if !ok {
		return false, nil
	}
	u := r.users[id]
	u.ConfirmationCode = code
	u.ConfirmationExpiry = expiry
	return true, nil
}

func (r *MemUserStore) SetRecoveryCode(_ context.Context, email, code string, expiry time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[email]
	if !ok {
		return false, nil
	}
	u := r.users[id]
	u.RecoveryCode = code
	u.RecoveryExpiry = expiry
	return true, nil
}

func (r *MemUserStore) UpdatePassword(_ context.Context, userID string, hash, salt []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	u.PasswordSalt = salt
	u.RecoveryCode = ""
	u.RecoveryExpiry = time.Time{}
	return nil
}

func (r *MemUserStore) DeleteUser(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return false, nil
	}
	delete(r.users, id)
	delete(r.byLogin, u.Login)
	delete(r.byEmail, u.Email)
	return true, nil
}

// SeedUser inserts a user bypassing the flows; test helper.
func (r *MemUserStore) SeedUser(u *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	r.byLogin[u.Login] = u.ID
	r.byEmail[u.Email] = u.ID
}

func (r *MemUserStore) findBy(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

type MemSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.DeviceSession // device id -> session
}

func NewMemSessionStore() *MemSessionStore {
	return &MemSessionStore{sessions: make(map[string]*domain.DeviceSession)}
}

func (r *MemSessionStore) CreateSession(_ context.Context, s *domain.DeviceSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; ok {
		return domain.ErrConflict
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *MemSessionStore) GetSessionByID(_ context.Context, deviceID string) (*domain.DeviceSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[deviceID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *MemSessionStore) ListSessionsByUser(_ context.Context, userID string) ([]domain.DeviceSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.DeviceSession{}
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *MemSessionStore) RefreshSession(_ context.Context, deviceID string, prevLastActive, lastActive, expiresAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[deviceID]
	if !ok || !s.LastActive.Equal(prevLastActive) {
		return false, nil
	}
	s.LastActive = lastActive
	s.ExpiresAt = expiresAt
	return true, nil
}

func (r *MemSessionStore) DeleteSession(_ context.Context, deviceID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[deviceID]; !ok {
		return false, nil
	}
	delete(r.sessions, deviceID)
	return true, nil
}

func (r *MemSessionStore) DeleteOtherSessions(_ context.Context, userID, keepDeviceID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.UserID == userID && id != keepDeviceID {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

func (r *MemSessionStore) PurgeExpired(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}
