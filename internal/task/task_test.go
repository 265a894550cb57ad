package task_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ykuchin/skillmarket/internal/mocks"
	"github.com/ykuchin/skillmarket/internal/task"
)

// fakeSynchronizer records sync calls and returns canned counts.
type fakeSynchronizer struct {
	calls   []map[string]int
	created int
	skipped int
	err     error
}

func (f *fakeSynchronizer) SyncSkills(ctx context.Context, skills map[string]int) (int, int, error) {
	f.calls = append(f.calls, skills)
	if f.err != nil {
		return 0, 0, f.err
	}
	return f.created, f.skipped, nil
}

func TestWelcomeEmailTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	payload := task.WelcomeEmailPayload{
		ToEmail:   "alice@example.com",
		Username:  "alice",
		ActionURL: "https://skillmarket.example/activate?activation_token=abc",
	}

	t.Run("execute sends and completes", func(t *testing.T) {
		t.Parallel()
		mailer := &mocks.Mailer{}

		wt, err := task.NewWelcomeEmailTask(payload, mailer, slog.Default())
		require.NoError(t, err)
		assert.Equal(t, task.TaskStatusPending, wt.Status())
		assert.Equal(t, task.TaskTypeWelcomeEmail, wt.Type())

		require.NoError(t, wt.Execute(ctx))
		assert.Equal(t, task.TaskStatusCompleted, wt.Status())

		require.Len(t, mailer.Sent, 1)
		assert.Equal(t, "alice@example.com", mailer.Sent[0].ToEmail)
		assert.Equal(t, payload.ActionURL, mailer.Sent[0].ActionURL)
	})

	t.Run("send failure marks the task failed", func(t *testing.T) {
		t.Parallel()
		mailer := &mocks.Mailer{SendErr: errors.New("smtp unreachable")}

		wt, err := task.NewWelcomeEmailTask(payload, mailer, slog.Default())
		require.NoError(t, err)

		err = wt.Execute(ctx)
		require.Error(t, err)
		assert.Equal(t, task.TaskStatusFailed, wt.Status())
	})

	t.Run("constructor rejects bad input", func(t *testing.T) {
		t.Parallel()

		_, err := task.NewWelcomeEmailTask(payload, nil, slog.Default())
		assert.ErrorIs(t, err, task.ErrNilMailer)

		_, err = task.NewWelcomeEmailTask(task.WelcomeEmailPayload{}, &mocks.Mailer{}, slog.Default())
		assert.Error(t, err)
	})

	t.Run("hydrator keeps the persisted identity", func(t *testing.T) {
		t.Parallel()
		mailer := &mocks.Mailer{}

		original, err := task.NewWelcomeEmailTask(payload, mailer, slog.Default())
		require.NoError(t, err)

		h, err := task.NewWelcomeEmailHydrator(mailer, slog.Default())
		require.NoError(t, err)

		rebuilt, err := h.Hydrate(original.ID(), original.Payload())
		require.NoError(t, err)
		assert.Equal(t, original.ID(), rebuilt.ID())
		assert.Equal(t, task.TaskTypeWelcomeEmail, rebuilt.Type())

		require.NoError(t, rebuilt.Execute(ctx))
		require.Len(t, mailer.Sent, 1)
		assert.Equal(t, "alice", mailer.Sent[0].Username)
	})

	t.Run("hydrator rejects garbage payloads", func(t *testing.T) {
		t.Parallel()
		h, err := task.NewWelcomeEmailHydrator(&mocks.Mailer{}, slog.Default())
		require.NoError(t, err)

		wt, err := task.NewWelcomeEmailTask(payload, &mocks.Mailer{}, slog.Default())
		require.NoError(t, err)

		_, err = h.Hydrate(wt.ID(), []byte("not json"))
		assert.Error(t, err)
	})
}

func TestSkillSyncTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("execute delegates to the synchronizer", func(t *testing.T) {
		t.Parallel()
		sync := &fakeSynchronizer{created: 2, skipped: 1}

		st, err := task.NewSkillSyncTask(map[string]int{"golang": 5}, sync, slog.Default())
		require.NoError(t, err)
		assert.Equal(t, task.TaskTypeSkillSync, st.Type())

		require.NoError(t, st.Execute(ctx))
		assert.Equal(t, task.TaskStatusCompleted, st.Status())
		require.Len(t, sync.calls, 1)
		assert.Equal(t, map[string]int{"golang": 5}, sync.calls[0])
	})

	t.Run("synchronizer failure marks the task failed", func(t *testing.T) {
		t.Parallel()
		sync := &fakeSynchronizer{err: errors.New("db down")}

		st, err := task.NewSkillSyncTask(map[string]int{"golang": 5}, sync, slog.Default())
		require.NoError(t, err)

		require.Error(t, st.Execute(ctx))
		assert.Equal(t, task.TaskStatusFailed, st.Status())
	})

	t.Run("payload survives hydration", func(t *testing.T) {
		t.Parallel()
		sync := &fakeSynchronizer{}

		original, err := task.NewSkillSyncTask(map[string]int{"golang": 5, "docker": 2}, sync, slog.Default())
		require.NoError(t, err)

		h, err := task.NewSkillSyncHydrator(sync, slog.Default())
		require.NoError(t, err)

		rebuilt, err := h.Hydrate(original.ID(), original.Payload())
		require.NoError(t, err)
		assert.Equal(t, original.ID(), rebuilt.ID())

		require.NoError(t, rebuilt.Execute(ctx))
		require.Len(t, sync.calls, 1)
		assert.Equal(t, map[string]int{"golang": 5, "docker": 2}, sync.calls[0])
	})
}

func TestJobs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("welcome email job reaches the mailer", func(t *testing.T) {
		t.Parallel()
		dispatcher := &mocks.Dispatcher{ExecuteInline: true}
		mailer := &mocks.Mailer{}

		jobs, err := task.NewWelcomeEmailJobs(dispatcher, mailer, slog.Default())
		require.NoError(t, err)

		err = jobs.EnqueueWelcomeEmail(ctx, task.WelcomeEmailPayload{
			ToEmail:   "alice@example.com",
			Username:  "alice",
			ActionURL: "https://skillmarket.example/activate?activation_token=abc",
		})
		require.NoError(t, err)

		assert.Equal(t, []string{task.TaskTypeWelcomeEmail}, dispatcher.SubmittedTypes())
		assert.Equal(t, 1, mailer.SentCount())
	})

	t.Run("skill sync job reaches the synchronizer", func(t *testing.T) {
		t.Parallel()
		dispatcher := &mocks.Dispatcher{ExecuteInline: true}
		sync := &fakeSynchronizer{}

		jobs, err := task.NewSkillSyncJobs(dispatcher, sync, slog.Default())
		require.NoError(t, err)

		require.NoError(t, jobs.EnqueueSkillSync(ctx, map[string]int{"golang": 5}))
		assert.Equal(t, []string{task.TaskTypeSkillSync}, dispatcher.SubmittedTypes())
		require.Len(t, sync.calls, 1)
	})

	t.Run("dispatcher failure propagates", func(t *testing.T) {
		t.Parallel()
		dispatcher := &mocks.Dispatcher{SubmitErr: errors.New("queue full")}

		jobs, err := task.NewWelcomeEmailJobs(dispatcher, &mocks.Mailer{}, slog.Default())
		require.NoError(t, err)

		err = jobs.EnqueueWelcomeEmail(ctx, task.WelcomeEmailPayload{
			ToEmail:  "alice@example.com",
			Username: "alice",
		})
		assert.Error(t, err)
	})
}

func TestRunnerSubmitAndProcess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := mocks.NewTaskStore()
	runner := task.NewRunner(store, task.RunnerConfig{
		WorkerCount:            1,
		QueueSize:              10,
		StuckTaskAge:           time.Minute,
		StuckTaskCheckInterval: time.Hour,
	}, slog.Default())

	require.NoError(t, runner.Start())
	defer runner.Stop()

	mailer := &mocks.Mailer{}
	wt, err := task.NewWelcomeEmailTask(task.WelcomeEmailPayload{
		ToEmail:  "alice@example.com",
		Username: "alice",
	}, mailer, slog.Default())
	require.NoError(t, err)

	require.NoError(t, runner.Submit(ctx, wt))

	require.Eventually(t, func() bool {
		status, ok := store.Status(wt.ID())
		return ok && status == task.TaskStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, mailer.SentCount())
}

func TestRunnerSubmitPersistsBeforeQueueing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := mocks.NewTaskStore()
	store.SaveErr = errors.New("insert failed")
	runner := task.NewRunner(store, task.DefaultRunnerConfig(), slog.Default())

	wt, err := task.NewWelcomeEmailTask(task.WelcomeEmailPayload{
		ToEmail:  "alice@example.com",
		Username: "alice",
	}, &mocks.Mailer{}, slog.Default())
	require.NoError(t, err)

	// A task that cannot be persisted is never queued.
	assert.Error(t, runner.Submit(ctx, wt))
	assert.Equal(t, 0, store.Count())
}

func TestRunnerQueueFull(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := mocks.NewTaskStore()
	// Zero-size queue with no workers running rejects every submit.
	runner := task.NewRunner(store, task.RunnerConfig{QueueSize: 0}, slog.Default())

	wt, err := task.NewWelcomeEmailTask(task.WelcomeEmailPayload{
		ToEmail:  "alice@example.com",
		Username: "alice",
	}, &mocks.Mailer{}, slog.Default())
	require.NoError(t, err)

	err = runner.Submit(ctx, wt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue is full")

	// The row was still saved, so recovery can requeue it later.
	assert.Equal(t, 1, store.Count())
}

func TestRunnerRecover(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("requeues pending tasks through the hydrator", func(t *testing.T) {
		t.Parallel()
		store := mocks.NewTaskStore()
		mailer := &mocks.Mailer{}

		// Simulate a row left over from a previous run.
		wt, err := task.NewWelcomeEmailTask(task.WelcomeEmailPayload{
			ToEmail:  "alice@example.com",
			Username: "alice",
		}, mailer, slog.Default())
		require.NoError(t, err)
		require.NoError(t, store.SaveTask(ctx, wt))

		runner := task.NewRunner(store, task.RunnerConfig{
			WorkerCount:            1,
			QueueSize:              10,
			StuckTaskAge:           time.Minute,
			StuckTaskCheckInterval: time.Hour,
		}, slog.Default())

		h, err := task.NewWelcomeEmailHydrator(mailer, slog.Default())
		require.NoError(t, err)
		runner.RegisterHydrator(task.TaskTypeWelcomeEmail, h)

		require.NoError(t, runner.Start())
		defer runner.Stop()

		require.Eventually(t, func() bool {
			status, ok := store.Status(wt.ID())
			return ok && status == task.TaskStatusCompleted
		}, 2*time.Second, 10*time.Millisecond)
		assert.Equal(t, 1, mailer.SentCount())
	})

	t.Run("marks tasks without a hydrator failed", func(t *testing.T) {
		t.Parallel()
		store := mocks.NewTaskStore()

		wt, err := task.NewWelcomeEmailTask(task.WelcomeEmailPayload{
			ToEmail:  "alice@example.com",
			Username: "alice",
		}, &mocks.Mailer{}, slog.Default())
		require.NoError(t, err)
		require.NoError(t, store.SaveTask(ctx, wt))

		runner := task.NewRunner(store, task.DefaultRunnerConfig(), slog.Default())

		// No hydrator registered for the type.
		require.NoError(t, runner.Recover())

		status, ok := store.Status(wt.ID())
		require.True(t, ok)
		assert.Equal(t, task.TaskStatusFailed, status)
	})
}
