// Package service holds the credential and session lifecycle flows. Services
// are stateless; every collaborator (store, hasher, token codec, mailer) is
// injected as an interface handle at construction time.
package service

import (
	"context"

	"auth/internal/platform/security"
)

// PasswordHasher is the salted-hashing capability. Hash is deterministic for
// a given (password, salt) pair.
type PasswordHasher interface {
	GenerateSalt() ([]byte, error)
	Hash(password string, salt []byte) []byte
}

// TokenCodec signs and decodes access and refresh tokens.
type TokenCodec interface {
	IssueAccessToken(userID string) (string, error)
	IssueRefreshToken(userID, deviceID string) (string, *security.RefreshClaims, error)
	DecodeRefreshToken(token string) (*security.RefreshClaims, error)
}

// Mailer delivers the templated messages of the registration and recovery
// flows. Errors propagate to the calling flow, which decides compensation.
type Mailer interface {
	SendConfirmationCode(ctx context.Context, to, code string) error
	SendRecoveryCode(ctx context.Context, to, code string) error
}
