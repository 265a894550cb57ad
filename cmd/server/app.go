package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/ykuchin/skillmarket/internal/config"
	"github.com/ykuchin/skillmarket/internal/platform/mailer"
	"github.com/ykuchin/skillmarket/internal/platform/postgres"
	"github.com/ykuchin/skillmarket/internal/service"
	"github.com/ykuchin/skillmarket/internal/service/auth"
	"github.com/ykuchin/skillmarket/internal/service/skillsync"
	"github.com/ykuchin/skillmarket/internal/task"
)

// application holds the wired dependency graph for the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	taskRunner *task.Runner

	authService     *auth.AuthService
	tokenService    auth.TokenService
	categoryService *service.CategoryService
	listingService  *service.ListingService
	providerService *service.ProviderService
	skillService    *service.SkillService
}

// newApplication connects to the database, applies migrations, and wires
// every service. The task runner is constructed but not started; run does
// that so recovery happens alongside the server lifecycle.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := postgres.MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	factory := postgres.NewFactory(db, logger)

	tokenService, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	smtpMailer, err := mailer.NewSMTPMailer(cfg.SMTP, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create mailer: %w", err)
	}
	welcomeSender, err := mailer.NewWelcomeSender(smtpMailer)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	synchronizer, err := skillsync.NewSynchronizer(factory, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	runnerCfg := task.DefaultRunnerConfig()
	if cfg.Task.WorkerCount > 0 {
		runnerCfg.WorkerCount = cfg.Task.WorkerCount
	}
	if cfg.Task.QueueSize > 0 {
		runnerCfg.QueueSize = cfg.Task.QueueSize
	}
	if cfg.Task.StuckTaskAgeMinutes > 0 {
		runnerCfg.StuckTaskAge = time.Duration(cfg.Task.StuckTaskAgeMinutes) * time.Minute
	}
	if cfg.Task.StuckTaskCheckIntervalMins > 0 {
		runnerCfg.StuckTaskCheckInterval = time.Duration(cfg.Task.StuckTaskCheckIntervalMins) * time.Minute
	}

	taskStore := postgres.NewTaskStore(db)
	runner := task.NewRunner(taskStore, runnerCfg, logger)

	emailHydrator, err := task.NewWelcomeEmailHydrator(welcomeSender, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	runner.RegisterHydrator(task.TaskTypeWelcomeEmail, emailHydrator)

	syncHydrator, err := task.NewSkillSyncHydrator(synchronizer, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	runner.RegisterHydrator(task.TaskTypeSkillSync, syncHydrator)

	welcomeJobs, err := task.NewWelcomeEmailJobs(runner, welcomeSender, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	syncJobs, err := task.NewSkillSyncJobs(runner, synchronizer, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	authService, err := auth.NewAuthService(
		factory,
		tokenService,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		auth.NewBcryptVerifier(),
		welcomeJobs,
		cfg.Auth.ActivationURL,
		logger,
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	categoryService, err := service.NewCategoryService(factory, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	listingService, err := service.NewListingService(factory, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	providerService, err := service.NewProviderService(factory, syncJobs, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	skillService, err := service.NewSkillService(factory, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &application{
		config:          cfg,
		logger:          logger,
		db:              db,
		taskRunner:      runner,
		authService:     authService,
		tokenService:    tokenService,
		categoryService: categoryService,
		listingService:  listingService,
		providerService: providerService,
		skillService:    skillService,
	}, nil
}

// run starts the task runner and the HTTP server, then blocks until
// shutdown completes.
func (app *application) run(ctx context.Context) error {
	if err := app.taskRunner.Start(); err != nil {
		return fmt.Errorf("failed to start task runner: %w", err)
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases resources in reverse dependency order.
func (app *application) cleanup() {
	app.taskRunner.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("Failed to close database connection", "error", err)
	}
}
