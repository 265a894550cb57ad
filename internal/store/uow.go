package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ykuchin/skillmarket/internal/platform/logger"
)

// UnitOfWork owns one logical transaction and the repositories used to
// perform its writes. Repositories obtained from a UnitOfWork are bound to
// its transaction and must not be retained beyond it. Nesting is not
// supported: each logical operation gets exactly one UnitOfWork.
type UnitOfWork interface {
	Accounts() AccountRepository
	Categories() CategoryRepository
	Listings() ListingRepository
	Providers() ProviderRepository
	Skills() SkillRepository

	// Commit atomically persists all changes made through the repositories.
	// Only one Commit per UnitOfWork is meaningful.
	Commit() error

	// Rollback discards all uncommitted changes and releases the
	// transaction. Calling Rollback after a successful Commit is a no-op,
	// so `defer uow.Rollback()` is safe on every exit path.
	Rollback() error
}

// Factory begins units of work. It is the only seam business logic needs to
// the storage engine.
type Factory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

// UnitOfWorkFn is a function that executes within a unit of work. The unit
// is committed if the function returns nil, or rolled back if it returns an
// error.
type UnitOfWorkFn func(ctx context.Context, uow UnitOfWork) error

// WithUnitOfWork executes the given function inside one unit of work with
// guaranteed release: the transaction rolls back on error and on panic, and
// commits only when fn returns nil. Errors returned by fn propagate
// unchanged to the caller; WithUnitOfWork never swallows them.
func WithUnitOfWork(ctx context.Context, factory Factory, fn UnitOfWorkFn) error {
	log := logger.FromContext(ctx)

	uow, err := factory.Begin(ctx)
	if err != nil {
		log.Error("failed to begin unit of work",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin unit of work: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := uow.Rollback(); rbErr != nil {
				log.Error("failed to roll back unit of work after panic",
					slog.String("error", rbErr.Error()),
					slog.Any("panic", p))
			} else {
				log.Error("rolled back unit of work after panic",
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	if err := fn(ctx, uow); err != nil {
		if rbErr := uow.Rollback(); rbErr != nil {
			log.Error("failed to roll back unit of work",
				slog.String("rollback_error", rbErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf(
				"error rolling back unit of work: %v (original error: %w)",
				rbErr,
				err,
			)
		}
		log.Debug("rolled back unit of work due to error",
			slog.String("error", err.Error()))
		// Return the original error unchanged.
		return err
	}

	if err := uow.Commit(); err != nil {
		log.Error("failed to commit unit of work",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit unit of work: %w", err)
	}

	log.Debug("unit of work committed successfully")
	return nil
}
