package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/ykuchin/skillmarket/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the account registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// RegisterResponse acknowledges a registration. Activation happens out of
// band through the emailed link.
type RegisterResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	IsActive bool      `json:"is_active"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	Username     string `json:"username"`
	Role         string `json:"role"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ActivateResponse confirms an account activation.
type ActivateResponse struct {
	Username string `json:"username"`
	IsActive bool   `json:"is_active"`
}

// CreateCategoryRequest defines the payload for creating a category.
type CreateCategoryRequest struct {
	Title       string `json:"title"       validate:"required,min=1,max=128"`
	Description string `json:"description" validate:"max=1024"`
}

// CreateListingRequest defines the payload for listing a service.
type CreateListingRequest struct {
	Title        string     `json:"title"         validate:"required,min=1,max=256"`
	Description  string     `json:"description"   validate:"required"`
	PriceCents   int64      `json:"price_cents"   validate:"gte=0"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	DeliveryDays *int       `json:"delivery_days,omitempty" validate:"omitempty,gt=0"`
}

// UpdateListingRequest defines the payload for a partial listing update.
// Absent fields are left untouched.
type UpdateListingRequest struct {
	Title        *string    `json:"title,omitempty"         validate:"omitempty,min=1,max=256"`
	Description  *string    `json:"description,omitempty"   validate:"omitempty,min=1"`
	PriceCents   *int64     `json:"price_cents,omitempty"   validate:"omitempty,gte=0"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	DeliveryDays *int       `json:"delivery_days,omitempty" validate:"omitempty,gt=0"`
	Status       *string    `json:"status,omitempty"        validate:"omitempty,oneof=pending active completed cancelled"`
}

// CreateProviderRequest defines the payload for registering as a provider.
type CreateProviderRequest struct {
	Skills map[string]int `json:"skills" validate:"dive,gte=0"`
}

// ListingResponse is the API projection of a listing.
type ListingResponse struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	PriceCents   int64      `json:"price_cents"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	BuyerID      uuid.UUID  `json:"buyer_id"`
	DeliveryDays *int       `json:"delivery_days,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}

func newListingResponse(l *domain.Listing) ListingResponse {
	return ListingResponse{
		ID:           l.ID,
		Title:        l.Title,
		Description:  l.Description,
		PriceCents:   l.PriceCents,
		CategoryID:   l.CategoryID,
		BuyerID:      l.BuyerID,
		DeliveryDays: l.DeliveryDays,
		Status:       string(l.Status),
		CreatedAt:    l.CreatedAt,
	}
}
