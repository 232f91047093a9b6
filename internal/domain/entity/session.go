// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session represents the single authorized refresh-token session a user may
// hold. It is keyed by the user id, so writing a new session for a user
// atomically replaces (and thereby revokes) the previous one.
//
// A presented refresh token is honored only when its SHA-256 hash equals
// TokenHash, independent of the token's own cryptographic expiry. Clearing the
// row revokes the session outright.
type Session struct {
	UserID    uuid.UUID // The owning user; also the primary key.
	TokenHash string    // SHA-256 hash of the currently valid refresh token.
	IssuedAt  time.Time // When this session was first created (login or register).
	RotatedAt time.Time // When the refresh token was last rotated.
	ExpiresAt time.Time // When the current refresh token expires.
}

// Expired reports whether the stored refresh token is past its lifetime.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
