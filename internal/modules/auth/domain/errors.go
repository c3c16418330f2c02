package domain

import "errors"

var (
	// ErrNotFound: no user, code, or device session matches the key.
	ErrNotFound = errors.New("not_found")
	// ErrExpired: a code or session is past its validity window.
	ErrExpired = errors.New("expired")
	// ErrConflict: duplicate login or email at creation.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized: credential mismatch or session ownership mismatch.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrStaleToken: a refresh token whose activity window no longer
	// matches the session row. Indicates possible reuse of a rotated token.
	ErrStaleToken = errors.New("stale_token")
	// ErrDeliveryFailed: the notification transport could not deliver.
	ErrDeliveryFailed = errors.New("delivery_failed")
)
