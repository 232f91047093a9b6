// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the workflow state of a task.
type TaskStatus string

// Valid task statuses.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether the status is one of the known workflow states.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

// Task is a unit of work owned by exactly one user. All reads and writes are
// scoped to the owner; other users cannot observe that the task exists.
type Task struct {
	ID          uuid.UUID  `json:"id"`          // Unique identifier, assigned by the database on creation.
	UserID      uuid.UUID  `json:"userId"`      // The owning user.
	Title       string     `json:"title"`       // Short description, required.
	Description string     `json:"description"` // Optional free-form detail.
	Status      TaskStatus `json:"status"`      // Workflow state, defaults to pending.
	CreatedAt   time.Time  `json:"createdAt"`   // Timestamp of creation.
	UpdatedAt   time.Time  `json:"updatedAt"`   // Timestamp of the last modification.
}
