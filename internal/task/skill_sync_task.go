package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// SkillSynchronizer reconciles a set of skill titles against the shared
// catalog and reports how many rows it created versus skipped.
type SkillSynchronizer interface {
	SyncSkills(ctx context.Context, skills map[string]int) (created, skipped int, err error)
}

// SkillSyncTask implements the Task interface for folding a provider's
// declared skills into the shared catalog. The payload is the provider's
// skill map verbatim; only the titles matter for catalog sync.
type SkillSyncTask struct {
	id           uuid.UUID
	skills       map[string]int
	synchronizer SkillSynchronizer
	logger       *slog.Logger
	status       TaskStatus
}

var _ Task = (*SkillSyncTask)(nil)

// NewSkillSyncTask creates a new skill sync task.
func NewSkillSyncTask(skills map[string]int, synchronizer SkillSynchronizer, logger *slog.Logger) (*SkillSyncTask, error) {
	if synchronizer == nil {
		return nil, ErrNilSynchronizer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &SkillSyncTask{
		id:           uuid.New(),
		skills:       skills,
		synchronizer: synchronizer,
		logger:       logger.With("component", "skill_sync_task"),
		status:       TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier.
func (t *SkillSyncTask) ID() uuid.UUID { return t.id }

// Type returns the task type identifier.
func (t *SkillSyncTask) Type() string { return TaskTypeSkillSync }

// Status returns the current task status.
func (t *SkillSyncTask) Status() TaskStatus { return t.status }

// Payload returns the skill map serialized as JSON.
func (t *SkillSyncTask) Payload() []byte {
	data, err := json.Marshal(t.skills)
	if err != nil {
		t.logger.Error("failed to marshal skill sync payload", "error", err)
		return nil
	}
	return data
}

// Execute synchronizes the skills into the catalog. Re-running after a
// partial failure only re-attempts the inserts; titles already present are
// counted as skipped, so redelivery never duplicates catalog rows.
func (t *SkillSyncTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing

	created, skipped, err := t.synchronizer.SyncSkills(ctx, t.skills)
	if err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to sync skills: %w", err)
	}

	t.status = TaskStatusCompleted
	t.logger.Info("skill sync completed", "created", created, "skipped", skipped)
	return nil
}

// SkillSyncHydrator rebuilds skill sync tasks from persisted rows.
type SkillSyncHydrator struct {
	synchronizer SkillSynchronizer
	logger       *slog.Logger
}

var _ Hydrator = (*SkillSyncHydrator)(nil)

// NewSkillSyncHydrator creates a hydrator bound to the given synchronizer.
func NewSkillSyncHydrator(synchronizer SkillSynchronizer, logger *slog.Logger) (*SkillSyncHydrator, error) {
	if synchronizer == nil {
		return nil, ErrNilSynchronizer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	return &SkillSyncHydrator{synchronizer: synchronizer, logger: logger}, nil
}

// Hydrate implements the Hydrator interface.
func (h *SkillSyncHydrator) Hydrate(id uuid.UUID, payload []byte) (Task, error) {
	var skills map[string]int
	if err := json.Unmarshal(payload, &skills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal skill sync payload: %w", err)
	}

	t, err := NewSkillSyncTask(skills, h.synchronizer, h.logger)
	if err != nil {
		return nil, err
	}
	t.id = id
	return t, nil
}
