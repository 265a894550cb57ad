package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ListingStatus represents the lifecycle state of a listed service.
type ListingStatus string

// Possible listing status values.
const (
	ListingStatusPending   ListingStatus = "pending"
	ListingStatusActive    ListingStatus = "active"
	ListingStatusCompleted ListingStatus = "completed"
	ListingStatusCancelled ListingStatus = "cancelled"
)

// Listing validation errors.
var (
	ErrEmptyListingID          = errors.New("listing ID cannot be empty")
	ErrEmptyListingTitle       = errors.New("listing title cannot be empty")
	ErrEmptyListingDescription = errors.New("listing description cannot be empty")
	ErrEmptyListingBuyer       = errors.New("listing buyer cannot be empty")
	ErrNegativeListingPrice    = errors.New("listing price cannot be negative")
	ErrInvalidListingStatus    = errors.New("invalid listing status")
)

// Listing is a service offered for purchase on the marketplace.
// Prices are stored as integer cents to avoid floating point rounding.
type Listing struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	PriceCents   int64         `json:"price_cents"`
	CategoryID   *uuid.UUID    `json:"category_id,omitempty"`
	BuyerID      uuid.UUID     `json:"buyer_id"`
	DeliveryDays *int          `json:"delivery_days,omitempty"`
	Status       ListingStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

// NewListing creates a pending Listing owned by the given buyer.
func NewListing(
	title, description string,
	priceCents int64,
	buyerID uuid.UUID,
	categoryID *uuid.UUID,
	deliveryDays *int,
) (*Listing, error) {
	listing := &Listing{
		ID:           uuid.New(),
		Title:        title,
		Description:  description,
		PriceCents:   priceCents,
		CategoryID:   categoryID,
		BuyerID:      buyerID,
		DeliveryDays: deliveryDays,
		Status:       ListingStatusPending,
		CreatedAt:    time.Now().UTC(),
	}

	if err := listing.Validate(); err != nil {
		return nil, err
	}

	return listing, nil
}

// Validate checks if the Listing has valid data.
func (l *Listing) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyListingID
	}
	if l.Title == "" {
		return ErrEmptyListingTitle
	}
	if l.Description == "" {
		return ErrEmptyListingDescription
	}
	if l.BuyerID == uuid.Nil {
		return ErrEmptyListingBuyer
	}
	if l.PriceCents < 0 {
		return ErrNegativeListingPrice
	}

	switch l.Status {
	case ListingStatusPending, ListingStatusActive, ListingStatusCompleted, ListingStatusCancelled:
	default:
		return ErrInvalidListingStatus
	}

	return nil
}

// OwnedBy reports whether the given claims identify the listing's owner or
// an admin. Used by the service layer for update/delete authorization.
func (l *Listing) OwnedBy(accountID uuid.UUID, role string) bool {
	return l.BuyerID == accountID || role == RoleAdmin
}
