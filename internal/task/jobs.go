package task

import (
	"context"
	"log/slog"
)

// WelcomeEmailJobs builds welcome email tasks and submits them to the
// dispatcher. Services depend on a one-method enqueue interface and never
// see the mailer.
type WelcomeEmailJobs struct {
	dispatcher Dispatcher
	mailer     Mailer
	logger     *slog.Logger
}

// NewWelcomeEmailJobs creates the welcome email job front end.
func NewWelcomeEmailJobs(dispatcher Dispatcher, mailer Mailer, logger *slog.Logger) (*WelcomeEmailJobs, error) {
	if dispatcher == nil {
		return nil, ErrNilDispatcher
	}
	if mailer == nil {
		return nil, ErrNilMailer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	return &WelcomeEmailJobs{dispatcher: dispatcher, mailer: mailer, logger: logger}, nil
}

// EnqueueWelcomeEmail persists and enqueues a welcome email job.
func (j *WelcomeEmailJobs) EnqueueWelcomeEmail(ctx context.Context, payload WelcomeEmailPayload) error {
	t, err := NewWelcomeEmailTask(payload, j.mailer, j.logger)
	if err != nil {
		return err
	}
	return j.dispatcher.Submit(ctx, t)
}

// SkillSyncJobs builds skill sync tasks and submits them to the dispatcher.
type SkillSyncJobs struct {
	dispatcher   Dispatcher
	synchronizer SkillSynchronizer
	logger       *slog.Logger
}

// NewSkillSyncJobs creates the skill sync job front end.
func NewSkillSyncJobs(dispatcher Dispatcher, synchronizer SkillSynchronizer, logger *slog.Logger) (*SkillSyncJobs, error) {
	if dispatcher == nil {
		return nil, ErrNilDispatcher
	}
	if synchronizer == nil {
		return nil, ErrNilSynchronizer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	return &SkillSyncJobs{dispatcher: dispatcher, synchronizer: synchronizer, logger: logger}, nil
}

// EnqueueSkillSync persists and enqueues a catalog sync job for the given
// title to experience map.
func (j *SkillSyncJobs) EnqueueSkillSync(ctx context.Context, skills map[string]int) error {
	t, err := NewSkillSyncTask(skills, j.synchronizer, j.logger)
	if err != nil {
		return err
	}
	return j.dispatcher.Submit(ctx, t)
}
