// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"tasker/internal/domain/service"

	"github.com/google/uuid"
)

// User is the core identity record of the system. The password is only ever
// held as a bcrypt hash; the plaintext never touches this struct.
type User struct {
	ID           uuid.UUID // Unique identifier, assigned by the database on creation.
	Name         string    // Display name.
	Email        string    // Login identifier, unique across all users.
	PasswordHash string    // bcrypt hash of the password. Never serialized outward.
	CreatedAt    time.Time // Timestamp of account creation.
	UpdatedAt    time.Time // Timestamp of the last modification.
}

// SetPassword hashes the given plaintext and stores the result on the user.
// It is the only way a password reaches the entity, so a value already hashed
// can never be hashed a second time by accident.
func (u *User) SetPassword(plaintext string, hasher service.PasswordHasher) error {
	hash, err := hasher.Hash(plaintext)
	if err != nil {
		return err
	}
	u.PasswordHash = hash

	return nil
}
