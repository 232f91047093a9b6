// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"tasker/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrSessionNotFound is returned when no session exists for the given key.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository manages the single refresh-token session each user may
// hold. Because sessions are keyed by user id, Upsert doubles as rotation:
// writing a new token hash for a user invalidates whatever was stored before.
type SessionRepository interface {
	// Upsert creates the session for the user, or replaces the existing one.
	// The previous refresh token, if any, stops validating the moment the
	// write commits.
	Upsert(ctx context.Context, session *entity.Session) error

	// FindByUserID retrieves a user's current session.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Session, error)

	// DeleteByTokenHash removes the session holding the given token hash.
	// Used by logout, where only the presented token is known.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteExpired removes all sessions whose refresh token lifetime has
	// passed. Called periodically for cleanup.
	DeleteExpired(ctx context.Context) error
}
