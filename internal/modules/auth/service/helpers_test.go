package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"auth/internal/modules/auth/domain"
	"auth/internal/modules/auth/infra"
	"auth/internal/platform/security"
)

// --- fakes ---

type sentMail struct {
	to   string
	code string
}

type fakeMailer struct {
	mu            sync.Mutex
	err           error
	confirmations []sentMail
	recoveries    []sentMail
}

func (m *fakeMailer) SendConfirmationCode(_ context.Context, to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.confirmations = append(m.confirmations, sentMail{to: to, code: code})
	return nil
}

func (m *fakeMailer) SendRecoveryCode(_ context.Context, to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.recoveries = append(m.recoveries, sentMail{to: to, code: code})
	return nil
}

func (m *fakeMailer) lastConfirmation(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.confirmations, "no confirmation mail was sent")
	return m.confirmations[len(m.confirmations)-1]
}

func (m *fakeMailer) lastRecovery(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.recoveries, "no recovery mail was sent")
	return m.recoveries[len(m.recoveries)-1]
}

var errSMTPDown = errors.New("smtp: connection refused")

// --- environment ---

type env struct {
	users    *infra.MemUserStore
	sessions *infra.MemSessionStore
	hasher   *security.Hasher
	codec    *security.JWTManager
	mailer   *fakeMailer

	registration *RegistrationService
	recovery     *RecoveryService
	userSvc      *UserService
	registry     *SessionRegistry
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		users:    infra.NewMemUserStore(),
		sessions: infra.NewMemSessionStore(),
		hasher:   security.NewHasher(),
		codec:    security.NewJWTManager("test-secret", time.Minute, time.Hour),
		mailer:   &fakeMailer{},
	}
	e.registration = NewRegistrationService(e.users, e.hasher, e.mailer)
	e.recovery = NewRecoveryService(e.users, e.hasher, e.mailer)
	e.userSvc = NewUserService(e.users, e.hasher)
	e.registry = NewSessionRegistry(e.sessions, e.codec)
	return e
}

// registerConfirmed runs the full registration flow and confirms the mailed
// code.
func (e *env) registerConfirmed(t *testing.T, login, password, email string) *domain.User {
	t.Helper()
	ctx := context.Background()
	u, err := e.registration.Register(ctx, login, password, email)
	require.NoError(t, err)
	ok, err := e.registration.ConfirmEmail(ctx, e.mailer.lastConfirmation(t).code)
	require.NoError(t, err)
	require.True(t, ok)
	confirmed, err := e.users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	return confirmed
}
