// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"tasker/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CreateTaskInput defines the data required to create a task.
type CreateTaskInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=10000"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in_progress done"`
}

// UpdateTaskInput defines a partial task update. Nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending in_progress done"`
}

// --- Output DTOs ---

// TaskListOutput returns a user's tasks together with their count.
type TaskListOutput struct {
	Count int            `json:"count"`
	Tasks []*entity.Task `json:"tasks"`
}

// TaskUsecase defines the interface for task management operations.
// Every operation is scoped to the authenticated user; tasks belonging to
// other users are indistinguishable from tasks that do not exist.
type TaskUsecase interface {
	CreateTask(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*entity.Task, error)
	ListTasks(ctx context.Context, userID uuid.UUID, status *entity.TaskStatus) (*TaskListOutput, error)
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*entity.Task, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, input UpdateTaskInput) (*entity.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}
