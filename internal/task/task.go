package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task.
type TaskStatus string

// Possible task status values.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task type constants.
const (
	// TaskTypeWelcomeEmail sends the activation email after registration.
	TaskTypeWelcomeEmail = "send_welcome_email"

	// TaskTypeSkillSync reconciles a provider's declared skills into the
	// shared skill catalog.
	TaskTypeSkillSync = "sync_skills"
)

// Task represents a unit of background work to be processed.
type Task interface {
	// ID returns the task's unique identifier.
	ID() uuid.UUID

	// Type returns the task type identifier.
	Type() string

	// Payload returns the task data as a byte slice.
	Payload() []byte

	// Status returns the current task status.
	Status() TaskStatus

	// Execute runs the task logic.
	Execute(ctx context.Context) error
}

// Dispatcher is the seam through which business logic submits side-effect
// jobs. Submission returns immediately; it never waits for, or reports,
// job completion. Callers must only submit after their own transaction has
// committed.
type Dispatcher interface {
	Submit(ctx context.Context, task Task) error
}

// Hydrator rebuilds an executable task of one type from a persisted row.
// The runner consults a per-type registry of hydrators during recovery.
type Hydrator interface {
	// Hydrate creates an executable task from the persisted ID and payload.
	Hydrate(id uuid.UUID, payload []byte) (Task, error)
}

// TaskStore defines the interface for persisting tasks.
type TaskStore interface {
	// SaveTask persists a task to the database.
	SaveTask(ctx context.Context, task Task) error

	// UpdateTaskStatus updates the status of a task.
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error

	// GetPendingTasks retrieves all tasks with "pending" status.
	GetPendingTasks(ctx context.Context) ([]Task, error)

	// GetProcessingTasks retrieves tasks with "processing" status. If
	// olderThan is non-zero, only tasks that have been in this state
	// longer than the given duration are returned.
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error)
}
