package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/ykuchin/skillmarket/internal/domain"
	"github.com/ykuchin/skillmarket/internal/platform/logger"
	"github.com/ykuchin/skillmarket/internal/store"
)

// CreateListingInput carries the fields a buyer submits when listing a
// service for purchase.
type CreateListingInput struct {
	Title        string
	Description  string
	PriceCents   int64
	CategoryID   *uuid.UUID
	DeliveryDays *int
}

// ListingService manages services offered for sale. Mutations are
// restricted to the listing owner or an admin.
type ListingService struct {
	factory store.Factory
	logger  *slog.Logger
}

// NewListingService creates a new ListingService.
func NewListingService(factory store.Factory, log *slog.Logger) (*ListingService, error) {
	if factory == nil {
		return nil, errors.New("store factory cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ListingService{
		factory: factory,
		logger:  log.With(slog.String("component", "listing_service")),
	}, nil
}

// Create lists a new service with the caller as buyer.
func (s *ListingService) Create(ctx context.Context, callerUsername string, input CreateListingInput) (*domain.Listing, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var listing *domain.Listing
	err := store.WithUnitOfWork(ctx, s.factory, func(ctx context.Context, uow store.UnitOfWork) error {
		caller, err := uow.Accounts().GetOne(ctx, store.AccountFilter{Username: &callerUsername})
		if err != nil {
			return err
		}

		listing, err = domain.NewListing(
			input.Title,
			input.Description,
			input.PriceCents,
			caller.ID,
			input.CategoryID,
			input.DeliveryDays,
		)
		if err != nil {
			return err
		}

		return uow.Listings().Create(ctx, listing)
	})
	if err != nil {
		return nil, err
	}

	log.Info("listing created",
		slog.String("listing_id", listing.ID.String()),
		slog.String("buyer", callerUsername))
	return listing, nil
}

// Get returns the listing with the given ID.
func (s *ListingService) Get(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	var listing *domain.Listing
	err := store.WithUnitOfWork(ctx, s.factory, func(ctx context.Context, uow store.UnitOfWork) error {
		var err error
		listing, err = uow.Listings().GetOne(ctx, store.ListingFilter{ID: &id})
		return err
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// List returns listings matching the filter. A zero-value filter returns
// everything.
func (s *ListingService) List(ctx context.Context, filter store.ListingFilter) ([]*domain.Listing, error) {
	var listings []*domain.Listing
	err := store.WithUnitOfWork(ctx, s.factory, func(ctx context.Context, uow store.UnitOfWork) error {
		var err error
		listings, err = uow.Listings().List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// Update applies a partial update. Only the owner or an admin may modify a
// listing; everyone else gets domain.ErrForbidden.
func (s *ListingService) Update(
	ctx context.Context,
	callerUsername, callerRole string,
	id uuid.UUID,
	patch store.ListingPatch,
) (*domain.Listing, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var listing *domain.Listing
	err := store.WithUnitOfWork(ctx, s.factory, func(ctx context.Context, uow store.UnitOfWork) error {
		current, err := uow.Listings().GetOne(ctx, store.ListingFilter{ID: &id})
		if err != nil {
			return err
		}

		caller, err := uow.Accounts().GetOne(ctx, store.AccountFilter{Username: &callerUsername})
		if err != nil {
			return err
		}
		if !current.OwnedBy(caller.ID, callerRole) {
			return domain.ErrForbidden
		}

		listing, err = uow.Listings().Update(ctx, id, patch)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info("listing updated",
		slog.String("listing_id", id.String()),
		slog.String("caller", callerUsername))
	return listing, nil
}

// Delete removes a listing. Same ownership rule as Update; deleting a
// listing that does not exist is NotFound, since the caller named a
// specific resource.
func (s *ListingService) Delete(ctx context.Context, callerUsername, callerRole string, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.WithUnitOfWork(ctx, s.factory, func(ctx context.Context, uow store.UnitOfWork) error {
		current, err := uow.Listings().GetOne(ctx, store.ListingFilter{ID: &id})
		if err != nil {
			return err
		}

		caller, err := uow.Accounts().GetOne(ctx, store.AccountFilter{Username: &callerUsername})
		if err != nil {
			return err
		}
		if !current.OwnedBy(caller.ID, callerRole) {
			return domain.ErrForbidden
		}

		return uow.Listings().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	log.Info("listing deleted",
		slog.String("listing_id", id.String()),
		slog.String("caller", callerUsername))
	return nil
}
