package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/ykuchin/skillmarket/internal/domain"
)

// AccountFilter selects accounts by exact match on the set fields.
// A nil field leaves that column unconstrained; the zero value matches all
// accounts.
type AccountFilter struct {
	ID       *uuid.UUID
	Username *string
	Email    *string
	Role     *string
	IsActive *bool
}

// AccountPatch carries partial updates for an account. Only non-nil fields
// are applied.
type AccountPatch struct {
	Email          *string
	HashedPassword *string
	Role           *string
	IsActive       *bool
}

// AccountRepository defines the interface for account data persistence.
type AccountRepository interface {
	// Create saves a new account.
	// Returns ErrUsernameExists or ErrEmailExists on a uniqueness violation.
	Create(ctx context.Context, account *domain.Account) error

	// GetOne retrieves at most one account matching the filter.
	// Returns ErrAccountNotFound if no account matches and ErrConflict if
	// the filter matches more than one row.
	GetOne(ctx context.Context, filter AccountFilter) (*domain.Account, error)

	// List retrieves all accounts matching the filter. Order is not
	// guaranteed.
	List(ctx context.Context, filter AccountFilter) ([]*domain.Account, error)

	// Update applies the set fields of patch to the account with the given
	// ID and returns the updated projection.
	// Returns ErrAccountNotFound if the ID does not exist.
	Update(ctx context.Context, id uuid.UUID, patch AccountPatch) (*domain.Account, error)

	// Delete removes the account with the given ID. Deleting an absent
	// account is a no-op, not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}
