package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Dependency validation errors.
var (
	ErrNilDispatcher   = errors.New("dispatcher cannot be nil")
	ErrNilMailer       = errors.New("mailer cannot be nil")
	ErrNilSynchronizer = errors.New("synchronizer cannot be nil")
	ErrNilLogger       = errors.New("logger cannot be nil")
)

// Mailer is the boundary to the email transport. The task depends only on
// this interface; the SMTP implementation lives in platform/mailer.
type Mailer interface {
	SendWelcome(ctx context.Context, toEmail, username, actionURL string) error
}

// WelcomeEmailPayload is the persisted job payload for the welcome email.
type WelcomeEmailPayload struct {
	ToEmail   string `json:"to_email"`
	Username  string `json:"username"`
	ActionURL string `json:"action_url"`
}

// WelcomeEmailTask implements the Task interface for sending the
// activation email to a newly registered account. The action URL embeds
// the signed activation token.
type WelcomeEmailTask struct {
	id      uuid.UUID
	payload WelcomeEmailPayload
	mailer  Mailer
	logger  *slog.Logger
	status  TaskStatus
}

var _ Task = (*WelcomeEmailTask)(nil)

// NewWelcomeEmailTask creates a new welcome email task.
func NewWelcomeEmailTask(payload WelcomeEmailPayload, mailer Mailer, logger *slog.Logger) (*WelcomeEmailTask, error) {
	if mailer == nil {
		return nil, ErrNilMailer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if payload.ToEmail == "" {
		return nil, fmt.Errorf("welcome email payload: to_email cannot be empty")
	}

	return &WelcomeEmailTask{
		id:      uuid.New(),
		payload: payload,
		mailer:  mailer,
		logger:  logger.With("component", "welcome_email_task"),
		status:  TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier.
func (t *WelcomeEmailTask) ID() uuid.UUID { return t.id }

// Type returns the task type identifier.
func (t *WelcomeEmailTask) Type() string { return TaskTypeWelcomeEmail }

// Status returns the current task status.
func (t *WelcomeEmailTask) Status() TaskStatus { return t.status }

// Payload returns the job data serialized as JSON.
func (t *WelcomeEmailTask) Payload() []byte {
	data, err := json.Marshal(t.payload)
	if err != nil {
		// A struct of three strings cannot fail to marshal.
		t.logger.Error("failed to marshal welcome email payload", "error", err)
		return nil
	}
	return data
}

// Execute sends the welcome email. Sending the same email twice (after a
// crash between execution and status update) is harmless, which is all the
// idempotence at-least-once delivery requires here.
func (t *WelcomeEmailTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing

	if err := t.mailer.SendWelcome(ctx, t.payload.ToEmail, t.payload.Username, t.payload.ActionURL); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	t.status = TaskStatusCompleted
	t.logger.Info("welcome email sent", "username", t.payload.Username)
	return nil
}

// WelcomeEmailHydrator rebuilds welcome email tasks from persisted rows.
type WelcomeEmailHydrator struct {
	mailer Mailer
	logger *slog.Logger
}

var _ Hydrator = (*WelcomeEmailHydrator)(nil)

// NewWelcomeEmailHydrator creates a hydrator bound to the given mailer.
func NewWelcomeEmailHydrator(mailer Mailer, logger *slog.Logger) (*WelcomeEmailHydrator, error) {
	if mailer == nil {
		return nil, ErrNilMailer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	return &WelcomeEmailHydrator{mailer: mailer, logger: logger}, nil
}

// Hydrate implements the Hydrator interface.
func (h *WelcomeEmailHydrator) Hydrate(id uuid.UUID, payload []byte) (Task, error) {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal welcome email payload: %w", err)
	}

	t, err := NewWelcomeEmailTask(p, h.mailer, h.logger)
	if err != nil {
		return nil, err
	}
	t.id = id // keep the persisted identity
	return t, nil
}
