package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("token_invalid")
	ErrTokenExpired = errors.New("token_expired")
)

// RefreshClaims are the signed claims of a refresh token. LastActiveDate is
// the session's activity instant and ExpiresAt its expiry; both are mirrored
// into the device session row when the token is minted. LastActiveDate is a
// dedicated claim rather than iat because iat carries whole seconds only,
// which is too coarse to tell two rotations apart.
type RefreshClaims struct {
	UserID         string    `json:"uid"`
	DeviceID       string    `json:"did"`
	LastActiveDate time.Time `json:"lad"`
	jwt.RegisteredClaims
}

// LastActive returns the activity instant embedded in the token.
func (c *RefreshClaims) LastActive() time.Time { return c.LastActiveDate }

// Expiration returns the expiry instant embedded in the token.
func (c *RefreshClaims) Expiration() time.Time { return c.ExpiresAt.Time }

type JWTManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewJWTManager(secret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssueAccessToken mints a short-lived stateless token carrying only the
// user id. It has no persisted counterpart and is revocable only by expiry.
func (j *JWTManager) IssueAccessToken(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(j.accessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

// IssueRefreshToken mints a device-bound refresh token. The activity instant
// is truncated to microseconds so it survives both a decode round trip and a
// timestamptz column unchanged, and can be compared with plain equality.
func (j *JWTManager) IssueRefreshToken(userID, deviceID string) (string, *RefreshClaims, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	claims := &RefreshClaims{
		UserID:         userID,
		DeviceID:       deviceID,
		LastActiveDate: now,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			// expiry is second-resolution on the wire; truncate up front so
			// the row and the decoded claims agree exactly
			ExpiresAt: jwt.NewNumericDate(now.Add(j.refreshTTL).Truncate(time.Second)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

func (j *JWTManager) DecodeRefreshToken(token string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tok.Valid || claims.DeviceID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// DecodeAccessToken returns the user id carried by a valid access token.
func (j *JWTManager) DecodeAccessToken(token string) (string, error) {
	tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return "", ErrTokenInvalid
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrTokenInvalid
	}
	return sub, nil
}
