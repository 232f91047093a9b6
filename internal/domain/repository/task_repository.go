// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"tasker/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrTaskNotFound is returned when a task does not exist for the given owner.
// Cross-owner lookups yield the same error, so callers cannot distinguish
// "absent" from "not mine".
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository defines the standard operations for task persistence.
// Every read and write is scoped to an owning user.
type TaskRepository interface {
	// Create persists a new task.
	Create(ctx context.Context, task *entity.Task) error

	// FindByIDForUser retrieves a task by id, but only when owned by userID.
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*entity.Task, error)

	// ListByUserID retrieves all of a user's tasks, newest first, optionally
	// filtered to a single status when status is non-nil.
	ListByUserID(ctx context.Context, userID uuid.UUID, status *entity.TaskStatus) ([]*entity.Task, error)

	// Update modifies an existing task.
	Update(ctx context.Context, task *entity.Task) error

	// DeleteForUser removes a task by id, but only when owned by userID.
	DeleteForUser(ctx context.Context, id, userID uuid.UUID) error
}
