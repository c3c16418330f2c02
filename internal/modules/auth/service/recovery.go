package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"auth/internal/modules/auth/domain"
)

// RecoveryService issues and consumes password-recovery codes.
type RecoveryService struct {
	users  domain.UserStore
	hasher PasswordHasher
	mailer Mailer
}

func NewRecoveryService(users domain.UserStore, hasher PasswordHasher, mailer Mailer) *RecoveryService {
	return &RecoveryService{users: users, hasher: hasher, mailer: mailer}
}

// RequestRecovery mails a recovery link and, once delivered, stores the code
// against the user matched by email. When no user matches, the persistence
// step is a no-op and the flow still succeeds — the caller must not learn
// whether the account exists. Reports false only on delivery failure.
func (s *RecoveryService) RequestRecovery(ctx context.Context, email string) (bool, error) {
	code := uuid.New().String()
	expiry := time.Now().UTC().Add(codeTTL)
	if err := s.mailer.SendRecoveryCode(ctx, email, code); err != nil {
		return false, nil
	}
	if _, err := s.users.SetRecoveryCode(ctx, email, code, expiry); err != nil {
		return false, err
	}
	return true, nil
}

// SetNewPassword applies a new credential pair for the user owning the
// recovery code. An unknown or expired code reports false. The code is
// cleared together with the password update, making it single-use.
func (s *RecoveryService) SetNewPassword(ctx context.Context, newPassword, recoveryCode string) (bool, error) {
	u, err := s.users.GetUserByRecoveryCode(ctx, recoveryCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if !time.Now().UTC().Before(u.RecoveryExpiry) {
		return false, nil
	}
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return false, err
	}
	hash := s.hasher.Hash(newPassword, salt)
	if err := s.users.UpdatePassword(ctx, u.ID, hash, salt); err != nil {
		return false, err
	}
	return true, nil
}

// IsRecoveryCodeExist reports whether any user carries the code, regardless
// of expiry.
func (s *RecoveryService) IsRecoveryCodeExist(ctx context.Context, code string) (bool, error) {
	_, err := s.users.GetUserByRecoveryCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
