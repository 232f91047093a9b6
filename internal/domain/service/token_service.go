package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrInvalidToken is the single failure result of token verification.
// Malformed input, a bad signature and an expired token all fold into this
// one sentinel so that callers cannot reveal which case occurred.
var ErrInvalidToken = errors.New("invalid token")

// TokenService defines the interface for issuing and verifying the two token
// kinds. Access and refresh tokens are signed with distinct keys, so a leak
// of one secret cannot be used to forge the other kind.
type TokenService interface {
	// IssueAccessToken creates a short-lived signed token asserting userID.
	IssueAccessToken(userID uuid.UUID) (string, error)

	// IssueRefreshToken creates a long-lived signed token asserting userID.
	IssueRefreshToken(userID uuid.UUID) (string, error)

	// VerifyAccessToken checks signature and expiry against the access key
	// and returns the asserted user id, or ErrInvalidToken.
	VerifyAccessToken(token string) (uuid.UUID, error)

	// VerifyRefreshToken checks signature and expiry against the refresh key
	// and returns the asserted user id, or ErrInvalidToken.
	VerifyRefreshToken(token string) (uuid.UUID, error)

	// HashToken returns the hash under which a refresh token is stored
	// server-side. Raw refresh tokens are never persisted.
	HashToken(token string) string

	// RefreshTokenTTL returns the configured refresh token lifetime.
	RefreshTokenTTL() time.Duration
}
