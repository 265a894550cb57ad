package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/ykuchin/skillmarket/internal/domain"
	"github.com/ykuchin/skillmarket/internal/platform/logger"
	"github.com/ykuchin/skillmarket/internal/store"
)

// ListingStore implements the store.ListingRepository interface using a
// PostgreSQL database as the storage backend.
type ListingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewListingStore creates a new PostgreSQL implementation of the
// ListingRepository interface.
func NewListingStore(db store.DBTX, logger *slog.Logger) *ListingStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ListingStore{
		db:     db,
		logger: logger.With(slog.String("component", "listing_store")),
	}
}

var _ store.ListingRepository = (*ListingStore)(nil)

const listingColumns = "id, title, description, price_cents, category_id, buyer_id, delivery_days, status, created_at"

// Create implements store.ListingRepository.Create.
// Returns store.ErrInvalidEntity when the buyer or category does not exist.
func (s *ListingStore) Create(ctx context.Context, listing *domain.Listing) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := listing.Validate(); err != nil {
		log.Warn("listing validation failed during create",
			slog.String("error", err.Error()),
			slog.String("listing_id", listing.ID.String()))
		return err
	}

	query := `
		INSERT INTO listings (id, title, description, price_cents, category_id, buyer_id, delivery_days, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		listing.ID,
		listing.Title,
		listing.Description,
		listing.PriceCents,
		listing.CategoryID,
		listing.BuyerID,
		listing.DeliveryDays,
		listing.Status,
		listing.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during listing creation",
				slog.String("listing_id", listing.ID.String()),
				slog.String("buyer_id", listing.BuyerID.String()))
			return fmt.Errorf("%w: referenced buyer or category not found", store.ErrInvalidEntity)
		}
		log.Error("failed to create listing",
			slog.String("error", err.Error()),
			slog.String("listing_id", listing.ID.String()))
		return err
	}

	log.Info("listing created successfully",
		slog.String("listing_id", listing.ID.String()),
		slog.String("buyer_id", listing.BuyerID.String()))
	return nil
}

func listingWhere(filter store.ListingFilter) (string, []any) {
	var clauses []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if filter.ID != nil {
		add("id", *filter.ID)
	}
	if filter.Title != nil {
		add("title", *filter.Title)
	}
	if filter.CategoryID != nil {
		add("category_id", *filter.CategoryID)
	}
	if filter.BuyerID != nil {
		add("buyer_id", *filter.BuyerID)
	}
	if filter.Status != nil {
		add("status", *filter.Status)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanListing(row interface{ Scan(...any) error }) (*domain.Listing, error) {
	var listing domain.Listing
	var status string
	err := row.Scan(
		&listing.ID,
		&listing.Title,
		&listing.Description,
		&listing.PriceCents,
		&listing.CategoryID,
		&listing.BuyerID,
		&listing.DeliveryDays,
		&status,
		&listing.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	listing.Status = domain.ListingStatus(status)
	return &listing, nil
}

// GetOne implements store.ListingRepository.GetOne.
func (s *ListingStore) GetOne(ctx context.Context, filter store.ListingFilter) (*domain.Listing, error) {
	where, args := listingWhere(filter)
	query := "SELECT " + listingColumns + " FROM listings" + where + " LIMIT 2"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var matches []*domain.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, store.ErrListingNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: filter matched multiple listings", store.ErrConflict)
	}
}

// List implements store.ListingRepository.List.
func (s *ListingStore) List(ctx context.Context, filter store.ListingFilter) ([]*domain.Listing, error) {
	where, args := listingWhere(filter)
	query := "SELECT " + listingColumns + " FROM listings" + where

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var listings []*domain.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

// Update implements store.ListingRepository.Update.
func (s *ListingStore) Update(ctx context.Context, id uuid.UUID, patch store.ListingPatch) (*domain.Listing, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var sets []string
	var args []any

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.PriceCents != nil {
		set("price_cents", *patch.PriceCents)
	}
	if patch.CategoryID != nil {
		set("category_id", *patch.CategoryID)
	}
	if patch.DeliveryDays != nil {
		set("delivery_days", *patch.DeliveryDays)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}

	if len(sets) == 0 {
		return s.GetOne(ctx, store.ListingFilter{ID: &id})
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE listings SET %s WHERE id = $%d RETURNING "+listingColumns,
		strings.Join(sets, ", "),
		len(args),
	)

	listing, err := scanListing(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrListingNotFound
		}
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: referenced category not found", store.ErrInvalidEntity)
		}
		log.Error("failed to update listing",
			slog.String("error", err.Error()),
			slog.String("listing_id", id.String()))
		return nil, err
	}

	log.Info("listing updated successfully", slog.String("listing_id", id.String()))
	return listing, nil
}

// Delete implements store.ListingRepository.Delete; a no-op when absent.
func (s *ListingStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM listings WHERE id = $1", id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete listing",
			slog.String("error", err.Error()),
			slog.String("listing_id", id.String()))
	}
	return err
}
