package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/ykuchin/skillmarket/internal/domain"
)

// ProviderFilter selects providers by exact match on the set fields.
type ProviderFilter struct {
	ID        *uuid.UUID
	AccountID *uuid.UUID
}

// ProviderPatch carries partial updates for a provider profile.
type ProviderPatch struct {
	Skills map[string]int
}

// ProviderRepository defines the interface for provider data persistence.
type ProviderRepository interface {
	// Create saves a new provider profile.
	// Returns ErrProviderExists when the account already has one.
	Create(ctx context.Context, provider *domain.Provider) error

	// GetOne retrieves at most one provider matching the filter.
	// Returns ErrProviderNotFound if none matches.
	GetOne(ctx context.Context, filter ProviderFilter) (*domain.Provider, error)

	// List retrieves all providers matching the filter.
	List(ctx context.Context, filter ProviderFilter) ([]*domain.Provider, error)

	// ListBySkills retrieves providers that declare every one of the given
	// skill titles.
	ListBySkills(ctx context.Context, titles []string) ([]*domain.Provider, error)

	// Update applies the set fields of patch and returns the updated
	// projection. Returns ErrProviderNotFound if the ID does not exist.
	Update(ctx context.Context, id uuid.UUID, patch ProviderPatch) (*domain.Provider, error)

	// Delete removes the provider profile; a no-op when absent.
	Delete(ctx context.Context, id uuid.UUID) error
}
