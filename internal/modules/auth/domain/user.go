package domain

import (
	"context"
	"time"
)

// User is the identity and credential record. The confirmation and recovery
// fields are only populated while the corresponding code is outstanding; a
// consumed code is cleared so it can never resolve again.
type User struct {
	ID           string
	Login        string
	Email        string
	PasswordHash []byte
	PasswordSalt []byte
	CreatedAt    time.Time
	IsConfirmed  bool

	ConfirmationCode   string
	ConfirmationExpiry time.Time

	RecoveryCode   string
	RecoveryExpiry time.Time
}

type UserStore interface {
	// CreateUser persists a new user. A duplicate login or email yields
	// ErrConflict; uniqueness is enforced by the storage layer.
	CreateUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByLoginOrEmail(ctx context.Context, loginOrEmail string) (*User, error)
	GetUserByConfirmationCode(ctx context.Context, code string) (*User, error)
	GetUserByRecoveryCode(ctx context.Context, code string) (*User, error)

	// UpdateConfirmation marks the user confirmed and clears the
	// confirmation code so it is single-use.
	UpdateConfirmation(ctx context.Context, userID string) error

	// RefreshConfirmationCode replaces the outstanding confirmation code for
	// the user matched by email. Reports whether any user matched.
	RefreshConfirmationCode(ctx context.Context, email, code string, expiry time.Time) (bool, error)

	// SetRecoveryCode stores an outstanding recovery code for the user
	// matched by email. Reports whether any user matched.
	SetRecoveryCode(ctx context.Context, email, code string, expiry time.Time) (bool, error)

	// UpdatePassword replaces the credential pair and clears any outstanding
	// recovery code.
	UpdatePassword(ctx context.Context, userID string, hash, salt []byte) error

	DeleteUser(ctx context.Context, id string) (bool, error)
}
