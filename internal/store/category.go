package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/ykuchin/skillmarket/internal/domain"
)

// CategoryFilter selects categories by exact match on the set fields.
type CategoryFilter struct {
	ID    *uuid.UUID
	Title *string
}

// CategoryPatch carries partial updates for a category.
type CategoryPatch struct {
	Title       *string
	Description *string
}

// CategoryRepository defines the interface for category data persistence.
type CategoryRepository interface {
	// Create saves a new category. Returns ErrConflict when the title is
	// already taken.
	Create(ctx context.Context, category *domain.Category) error

	// GetOne retrieves at most one category matching the filter.
	// Returns ErrCategoryNotFound if none matches.
	GetOne(ctx context.Context, filter CategoryFilter) (*domain.Category, error)

	// List retrieves all categories matching the filter.
	List(ctx context.Context, filter CategoryFilter) ([]*domain.Category, error)

	// Update applies the set fields of patch and returns the updated
	// projection. Returns ErrCategoryNotFound if the ID does not exist.
	Update(ctx context.Context, id uuid.UUID, patch CategoryPatch) (*domain.Category, error)

	// Delete removes the category; a no-op when absent.
	Delete(ctx context.Context, id uuid.UUID) error
}
