package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ykuchin/skillmarket/internal/task"
)

// Dispatcher is a capture-style task.Dispatcher: submitted tasks are
// recorded, optionally executed inline.
type Dispatcher struct {
	mu        sync.Mutex
	Submitted []task.Task

	// SubmitErr, when set, makes Submit fail.
	SubmitErr error

	// ExecuteInline runs each submitted task synchronously, which lets
	// tests assert on side effects without a worker pool.
	ExecuteInline bool
}

var _ task.Dispatcher = (*Dispatcher)(nil)

// Submit implements task.Dispatcher.
func (d *Dispatcher) Submit(ctx context.Context, t task.Task) error {
	if d.SubmitErr != nil {
		return d.SubmitErr
	}

	d.mu.Lock()
	d.Submitted = append(d.Submitted, t)
	d.mu.Unlock()

	if d.ExecuteInline {
		return t.Execute(ctx)
	}
	return nil
}

// SubmittedTypes returns the types of all submitted tasks, in order.
func (d *Dispatcher) SubmittedTypes() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	types := make([]string, 0, len(d.Submitted))
	for _, t := range d.Submitted {
		types = append(types, t.Type())
	}
	return types
}

// TaskStore is an in-memory task.TaskStore.
type TaskStore struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]*taskRow
	order []uuid.UUID

	// SaveErr, when set, makes SaveTask fail.
	SaveErr error
}

type taskRow struct {
	task      task.Task
	status    task.TaskStatus
	errorMsg  string
	updatedAt time.Time
}

var _ task.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates an empty in-memory task store.
func NewTaskStore() *TaskStore {
	return &TaskStore{rows: make(map[uuid.UUID]*taskRow)}
}

// SaveTask implements task.TaskStore.
func (s *TaskStore) SaveTask(ctx context.Context, t task.Task) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[t.ID()] = &taskRow{task: t, status: t.Status(), updatedAt: time.Now()}
	s.order = append(s.order, t.ID())
	return nil
}

// UpdateTaskStatus implements task.TaskStore.
func (s *TaskStore) UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status task.TaskStatus, errorMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.rows[taskID]; ok {
		row.status = status
		row.errorMsg = errorMsg
		row.updatedAt = time.Now()
	}
	return nil
}

// GetPendingTasks implements task.TaskStore.
func (s *TaskStore) GetPendingTasks(ctx context.Context) ([]task.Task, error) {
	return s.byStatus(task.TaskStatusPending, 0), nil
}

// GetProcessingTasks implements task.TaskStore.
func (s *TaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]task.Task, error) {
	return s.byStatus(task.TaskStatusProcessing, olderThan), nil
}

func (s *TaskStore) byStatus(status task.TaskStatus, olderThan time.Duration) []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-olderThan)
	var out []task.Task
	for _, id := range s.order {
		row := s.rows[id]
		if row.status != status {
			continue
		}
		if olderThan > 0 && !row.updatedAt.Before(cutoff) {
			continue
		}
		out = append(out, row.task)
	}
	return out
}

// Status returns the stored status of a task.
func (s *TaskStore) Status(taskID uuid.UUID) (task.TaskStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[taskID]
	if !ok {
		return "", false
	}
	return row.status, true
}

// Count returns the number of stored task rows.
func (s *TaskStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// Mailer is a capture-style welcome email sender.
type Mailer struct {
	mu   sync.Mutex
	Sent []SentEmail

	// SendErr, when set, makes SendWelcome fail.
	SendErr error
}

// SentEmail records one delivered welcome email.
type SentEmail struct {
	ToEmail   string
	Username  string
	ActionURL string
}

var _ task.Mailer = (*Mailer)(nil)

// SendWelcome implements task.Mailer.
func (m *Mailer) SendWelcome(ctx context.Context, toEmail, username, actionURL string) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentEmail{ToEmail: toEmail, Username: username, ActionURL: actionURL})
	return nil
}

// SentCount returns how many emails were sent.
func (m *Mailer) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// WelcomeEmailQueue is a capture-style welcome email enqueuer.
type WelcomeEmailQueue struct {
	mu       sync.Mutex
	Enqueued []task.WelcomeEmailPayload

	// EnqueueErr, when set, makes EnqueueWelcomeEmail fail.
	EnqueueErr error
}

// EnqueueWelcomeEmail records the payload.
func (q *WelcomeEmailQueue) EnqueueWelcomeEmail(ctx context.Context, payload task.WelcomeEmailPayload) error {
	if q.EnqueueErr != nil {
		return q.EnqueueErr
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Enqueued = append(q.Enqueued, payload)
	return nil
}

// Last returns the most recently enqueued payload.
func (q *WelcomeEmailQueue) Last() (task.WelcomeEmailPayload, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.Enqueued) == 0 {
		return task.WelcomeEmailPayload{}, false
	}
	return q.Enqueued[len(q.Enqueued)-1], true
}

// SkillSyncQueue is a capture-style skill sync enqueuer.
type SkillSyncQueue struct {
	mu       sync.Mutex
	Enqueued []map[string]int

	// EnqueueErr, when set, makes EnqueueSkillSync fail.
	EnqueueErr error
}

// EnqueueSkillSync records the skill map.
func (q *SkillSyncQueue) EnqueueSkillSync(ctx context.Context, skills map[string]int) error {
	if q.EnqueueErr != nil {
		return q.EnqueueErr
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Enqueued = append(q.Enqueued, skills)
	return nil
}

// Count returns how many sync jobs were enqueued.
func (q *SkillSyncQueue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.Enqueued)
}
