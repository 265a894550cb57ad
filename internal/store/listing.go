package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/ykuchin/skillmarket/internal/domain"
)

// ListingFilter selects listings by exact match on the set fields.
type ListingFilter struct {
	ID         *uuid.UUID
	Title      *string
	CategoryID *uuid.UUID
	BuyerID    *uuid.UUID
	Status     *domain.ListingStatus
}

// ListingPatch carries partial updates for a listing.
type ListingPatch struct {
	Title        *string
	Description  *string
	PriceCents   *int64
	CategoryID   *uuid.UUID
	DeliveryDays *int
	Status       *domain.ListingStatus
}

// ListingRepository defines the interface for listing data persistence.
type ListingRepository interface {
	// Create saves a new listing. Returns ErrInvalidEntity when the buyer
	// or category reference does not exist.
	Create(ctx context.Context, listing *domain.Listing) error

	// GetOne retrieves at most one listing matching the filter.
	// Returns ErrListingNotFound if none matches.
	GetOne(ctx context.Context, filter ListingFilter) (*domain.Listing, error)

	// List retrieves all listings matching the filter.
	List(ctx context.Context, filter ListingFilter) ([]*domain.Listing, error)

	// Update applies the set fields of patch and returns the updated
	// projection. Returns ErrListingNotFound if the ID does not exist.
	Update(ctx context.Context, id uuid.UUID, patch ListingPatch) (*domain.Listing, error)

	// Delete removes the listing; a no-op when absent.
	Delete(ctx context.Context, id uuid.UUID) error
}
