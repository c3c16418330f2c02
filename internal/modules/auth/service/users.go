package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"

	"auth/internal/modules/auth/domain"
)

// UserService validates credentials and serves the administrative user
// operations. It does not gate on confirmation status; that contract belongs
// to the caller (see the sign-in handler).
type UserService struct {
	users  domain.UserStore
	hasher PasswordHasher
}

func NewUserService(users domain.UserStore, hasher PasswordHasher) *UserService {
	return &UserService{users: users, hasher: hasher}
}

// CreateUser is the direct-create path: the user starts confirmed and
// carries no confirmation code.
func (s *UserService) CreateUser(ctx context.Context, login, password, email string) (*domain.User, error) {
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:           uuid.New().String(),
		Login:        login,
		Email:        email,
		PasswordHash: s.hasher.Hash(password, salt),
		PasswordSalt: salt,
		CreatedAt:    time.Now().UTC(),
		IsConfirmed:  true,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// CheckCredentials returns the user matched by login or email when the
// password is correct. An absent user and a wrong password are both reported
// as ErrUnauthorized. The digest comparison is constant-time.
func (s *UserService) CheckCredentials(ctx context.Context, loginOrEmail, password string) (*domain.User, error) {
	u, err := s.users.GetUserByLoginOrEmail(ctx, loginOrEmail)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	digest := s.hasher.Hash(password, u.PasswordSalt)
	if subtle.ConstantTimeCompare(digest, u.PasswordHash) != 1 {
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetUserByID(ctx, id)
}

func (s *UserService) DeleteUser(ctx context.Context, id string) (bool, error) {
	return s.users.DeleteUser(ctx, id)
}

// IsLoginExist reports whether a user is reachable by the given login.
func (s *UserService) IsLoginExist(ctx context.Context, login string) (bool, error) {
	return s.exists(ctx, login)
}

// IsEmailExist reports whether a user is reachable by the given email.
func (s *UserService) IsEmailExist(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, email)
}

// IsEmailConfirmed reports the confirmation state of the user matched by
// email; an absent user counts as unconfirmed.
func (s *UserService) IsEmailConfirmed(ctx context.Context, email string) (bool, error) {
	u, err := s.users.GetUserByLoginOrEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.IsConfirmed, nil
}

// IsCodeConfirmed reports the confirmation state of the user owning the
// confirmation code; an absent user counts as unconfirmed.
func (s *UserService) IsCodeConfirmed(ctx context.Context, code string) (bool, error) {
	u, err := s.users.GetUserByConfirmationCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.IsConfirmed, nil
}

func (s *UserService) exists(ctx context.Context, loginOrEmail string) (bool, error) {
	_, err := s.users.GetUserByLoginOrEmail(ctx, loginOrEmail)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
