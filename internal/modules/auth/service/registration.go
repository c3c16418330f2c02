package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"auth/internal/modules/auth/domain"
)

// codeTTL is the validity window of confirmation and recovery codes.
const codeTTL = time.Hour

// RegistrationService creates users and manages their email-confirmation
// codes.
type RegistrationService struct {
	users  domain.UserStore
	hasher PasswordHasher
	mailer Mailer
}

func NewRegistrationService(users domain.UserStore, hasher PasswordHasher, mailer Mailer) *RegistrationService {
	return &RegistrationService{users: users, hasher: hasher, mailer: mailer}
}

// Register creates an unconfirmed user and mails a confirmation link. The
// order is persist, then notify, then compensate: if delivery fails the
// just-created user is deleted so registration never leaves an unconfirmed,
// unreachable account behind. A crash between the persist and the delete
// still leaves such an account; that window is an accepted risk of this
// ordering, same as the reverse order would have.
func (s *RegistrationService) Register(ctx context.Context, login, password, email string) (*domain.User, error) {
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		ID:                 uuid.New().String(),
		Login:              login,
		Email:              email,
		PasswordHash:       s.hasher.Hash(password, salt),
		PasswordSalt:       salt,
		CreatedAt:          now,
		ConfirmationCode:   uuid.New().String(),
		ConfirmationExpiry: now.Add(codeTTL),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	if err := s.mailer.SendConfirmationCode(ctx, u.Email, u.ConfirmationCode); err != nil {
		if _, delErr := s.users.DeleteUser(ctx, u.ID); delErr != nil {
			return nil, delErr
		}
		return nil, domain.ErrDeliveryFailed
	}
	return u, nil
}

// ConfirmEmail marks the user owning the code as confirmed. An unknown or
// expired code reports false; the caller cannot tell the two apart. The code
// is cleared on success, so a repeat call with the same code also reports
// false without touching state.
func (s *RegistrationService) ConfirmEmail(ctx context.Context, code string) (bool, error) {
	u, err := s.users.GetUserByConfirmationCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if !time.Now().UTC().Before(u.ConfirmationExpiry) {
		return false, nil
	}
	if err := s.users.UpdateConfirmation(ctx, u.ID); err != nil {
		return false, err
	}
	return true, nil
}

// ResendConfirmation issues a fresh code and window for the user matched by
// email. The mail is sent first; only a delivered code is persisted, so the
// previously stored code stays valid when delivery fails. Reports false when
// delivery fails or no user matched.
func (s *RegistrationService) ResendConfirmation(ctx context.Context, email string) (bool, error) {
	code := uuid.New().String()
	expiry := time.Now().UTC().Add(codeTTL)
	if err := s.mailer.SendConfirmationCode(ctx, email, code); err != nil {
		return false, nil
	}
	return s.users.RefreshConfirmationCode(ctx, email, code, expiry)
}

// IsConfirmationCodeExist reports whether any user carries the code,
// regardless of expiry.
func (s *RegistrationService) IsConfirmationCodeExist(ctx context.Context, code string) (bool, error) {
	_, err := s.users.GetUserByConfirmationCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
