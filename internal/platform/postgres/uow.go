package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ykuchin/skillmarket/internal/store"
)

// UnitOfWork is the Postgres implementation of store.UnitOfWork. It owns
// one *sql.Tx and the five stores bound to it. The transaction handle is
// never shared: repositories constructed here do not outlive the unit.
type UnitOfWork struct {
	tx        *sql.Tx
	accounts  *AccountStore
	categories *CategoryStore
	listings  *ListingStore
	providers *ProviderStore
	skills    *SkillStore
}

var _ store.UnitOfWork = (*UnitOfWork)(nil)

// Accounts returns the account repository bound to this transaction.
func (u *UnitOfWork) Accounts() store.AccountRepository { return u.accounts }

// Categories returns the category repository bound to this transaction.
func (u *UnitOfWork) Categories() store.CategoryRepository { return u.categories }

// Listings returns the listing repository bound to this transaction.
func (u *UnitOfWork) Listings() store.ListingRepository { return u.listings }

// Providers returns the provider repository bound to this transaction.
func (u *UnitOfWork) Providers() store.ProviderRepository { return u.providers }

// Skills returns the skill repository bound to this transaction.
func (u *UnitOfWork) Skills() store.SkillRepository { return u.skills }

// Commit atomically persists all changes made through the repositories.
func (u *UnitOfWork) Commit() error {
	if err := u.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback discards uncommitted changes. After a successful Commit the
// underlying transaction is already done; that case is absorbed so a
// deferred Rollback is safe on every exit path.
func (u *UnitOfWork) Rollback() error {
	if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}

// Factory begins Postgres-backed units of work on a shared *sql.DB pool.
type Factory struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.Factory = (*Factory)(nil)

// NewFactory creates a unit-of-work factory on the given connection pool.
// If logger is nil, the default logger is used.
func NewFactory(db *sql.DB, logger *slog.Logger) *Factory {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{db: db, logger: logger}
}

// Begin opens one transaction and constructs the repositories bound to it.
func (f *Factory) Begin(ctx context.Context) (store.UnitOfWork, error) {
	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &UnitOfWork{
		tx:         tx,
		accounts:   NewAccountStore(tx, f.logger),
		categories: NewCategoryStore(tx, f.logger),
		listings:   NewListingStore(tx, f.logger),
		providers:  NewProviderStore(tx, f.logger),
		skills:     NewSkillStore(tx, f.logger),
	}, nil
}
