package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// RunnerConfig holds configuration for the task runner.
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks.
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue.
	QueueSize int

	// StuckTaskAge defines how long a task can be in processing state
	// before it is considered stuck and reset.
	StuckTaskAge time.Duration

	// StuckTaskCheckInterval defines how often to check for stuck tasks.
	// If zero, defaults to 5 minutes.
	StuckTaskCheckInterval time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:            2,
		QueueSize:              100,
		StuckTaskAge:           30 * time.Minute,
		StuckTaskCheckInterval: 5 * time.Minute,
	}
}

// Runner manages background task processing: it persists submitted tasks,
// feeds them to a worker pool through a buffered channel, and recovers
// unfinished tasks from previous runs at startup. It satisfies the
// Dispatcher interface.
type Runner struct {
	store      TaskStore
	taskChan   chan Task
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger
	errHandler func(task Task, err error)

	mu        sync.RWMutex
	hydrators map[string]Hydrator
}

var _ Dispatcher = (*Runner)(nil)

// NewRunner creates a new Runner.
func NewRunner(store TaskStore, config RunnerConfig, logger *slog.Logger) *Runner {
	if config.StuckTaskCheckInterval == 0 {
		config.StuckTaskCheckInterval = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		store:      store,
		taskChan:   make(chan Task, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With("component", "task_runner"),
		hydrators:  make(map[string]Hydrator),
		errHandler: func(task Task, err error) {
			logger.Error("task execution failed",
				"task_id", task.ID(),
				"task_type", task.Type(),
				"error", err)
		},
	}
}

// SetErrorHandler allows setting a custom error handler function.
func (r *Runner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// RegisterHydrator registers the hydrator used to rebuild executable tasks
// of the given type from persisted rows during recovery.
func (r *Runner) RegisterHydrator(taskType string, h Hydrator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hydrators[taskType] = h
}

// Submit persists a new task and adds it to the in-memory queue. It
// returns as soon as the task is enqueued and never waits for execution.
func (r *Runner) Submit(ctx context.Context, task Task) error {
	// Save task to the database first so it survives a crash.
	if err := r.store.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	select {
	case r.taskChan <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full, try again later")
	}
}

// Start recovers unfinished tasks and begins processing with the
// configured number of workers.
func (r *Runner) Start() error {
	if err := r.Recover(); err != nil {
		return fmt.Errorf("failed to recover tasks: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckTaskMonitor()

	return nil
}

// Stop gracefully shuts down the task runner.
func (r *Runner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
	close(r.taskChan)
}

// Recover loads any unfinished tasks from the database, rebuilds them into
// executable tasks through the hydrator registry, and requeues them.
// Processing tasks (likely interrupted by a crash) are reset to pending
// first. This is what makes delivery at-least-once across restarts.
func (r *Runner) Recover() error {
	ctx := context.Background()

	pendingTasks, err := r.store.GetPendingTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending tasks: %w", err)
	}

	processingTasks, err := r.store.GetProcessingTasks(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks",
		"pending_count", len(pendingTasks),
		"processing_count", len(processingTasks))

	for _, t := range pendingTasks {
		r.requeue(ctx, t)
	}

	for _, t := range processingTasks {
		if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusPending, "Reset after recovery"); err != nil {
			r.logger.Error("failed to reset processing task status",
				"task_id", t.ID(),
				"task_type", t.Type(),
				"error", err)
			continue
		}
		r.requeue(ctx, t)
	}

	return nil
}

// requeue hydrates a recovered task and puts it back on the queue.
func (r *Runner) requeue(ctx context.Context, t Task) {
	executable, err := r.hydrate(t)
	if err != nil {
		r.logger.Error("failed to hydrate recovered task, marking failed",
			"task_id", t.ID(),
			"task_type", t.Type(),
			"error", err)
		if updErr := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusFailed, err.Error()); updErr != nil {
			r.logger.Error("failed to mark unhydratable task failed",
				"task_id", t.ID(),
				"error", updErr)
		}
		return
	}

	select {
	case r.taskChan <- executable:
	default:
		r.logger.Error("failed to requeue task, queue is full",
			"task_id", t.ID(),
			"task_type", t.Type())
	}
}

// hydrate rebuilds an executable task from a persisted row.
func (r *Runner) hydrate(t Task) (Task, error) {
	r.mu.RLock()
	h, ok := r.hydrators[t.Type()]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no hydrator registered for task type %q", t.Type())
	}
	return h.Hydrate(t.ID(), t.Payload())
}

// worker processes tasks from the queue until the runner stops.
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case t, ok := <-r.taskChan:
			if !ok {
				r.logger.Debug("task channel closed, stopping worker", "worker_id", id)
				return
			}
			r.processTask(t, id)
		}
	}
}

// processTask handles execution of a single task.
func (r *Runner) processTask(t Task, workerID int) {
	ctx := context.Background()
	log := r.logger.With(
		"task_id", t.ID(),
		"task_type", t.Type(),
		"worker_id", workerID,
	)

	if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusProcessing, ""); err != nil {
		log.Error("failed to update task status to processing", "error", err)
		return
	}

	log.Info("processing task")

	err := t.Execute(ctx)
	if err != nil {
		// Failed jobs are logged and marked failed; retry policy is the
		// queue facility's recovery, not an in-core retry loop.
		log.Error("task execution failed", "error", err)
		if updateErr := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusFailed, err.Error()); updateErr != nil {
			log.Error("failed to update task status to failed", "error", updateErr)
		}
		r.errHandler(t, err)
		return
	}

	log.Info("task completed successfully")
	if updateErr := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusCompleted, ""); updateErr != nil {
		log.Error("failed to update task status to completed", "error", updateErr)
	}
}

// stuckTaskMonitor periodically resets tasks that have been in processing
// state for longer than the configured age.
func (r *Runner) stuckTaskMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckTaskCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.resetStuckTasks()
		}
	}
}

// resetStuckTasks requeues tasks stuck in processing state.
func (r *Runner) resetStuckTasks() {
	ctx := context.Background()

	stuck, err := r.store.GetProcessingTasks(ctx, r.config.StuckTaskAge)
	if err != nil {
		r.logger.Error("failed to check for stuck tasks", "error", err)
		return
	}
	if len(stuck) == 0 {
		return
	}

	r.logger.Warn("resetting stuck tasks", "count", len(stuck))

	for _, t := range stuck {
		if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusPending, "Reset after being stuck"); err != nil {
			r.logger.Error("failed to reset stuck task",
				"task_id", t.ID(),
				"error", err)
			continue
		}
		r.requeue(ctx, t)
	}
}
