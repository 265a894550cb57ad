package auth

import (
	"context"
	"time"
)

// Token type discriminators carried in the "type" claim. Session tokens
// (access and refresh) are signed with the session secret; activation
// tokens with the activation secret. The two domains never cross.
const (
	TokenTypeAccess     = "access"
	TokenTypeRefresh    = "refresh"
	TokenTypeActivation = "activation"
)

// TokenService defines operations for issuing and verifying the three
// kinds of signed tokens the account lifecycle uses.
type TokenService interface {
	// GenerateAccessToken creates a signed short-lived access token
	// carrying the account's username and role.
	GenerateAccessToken(ctx context.Context, username, role string) (string, error)

	// GenerateRefreshToken creates a signed long-lived refresh token for
	// obtaining new token pairs without re-entering credentials.
	GenerateRefreshToken(ctx context.Context, username, role string) (string, error)

	// GenerateActivationToken creates a signed single-purpose token that
	// proves ownership of the registered email address.
	GenerateActivationToken(ctx context.Context, username string) (string, error)

	// ValidateAccessToken verifies an access token and extracts its claims.
	// Returns ErrExpiredToken, ErrWrongTokenType, or ErrInvalidToken on failure.
	ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error)

	// ValidateRefreshToken verifies a refresh token and extracts its claims.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)

	// ValidateActivationToken verifies an activation token and extracts its
	// claims. Session tokens fail here: the secrets differ.
	ValidateActivationToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims carries the application claims extracted from a verified token.
type Claims struct {
	// Username identifies the account the token was issued for.
	Username string `json:"username,omitempty"`

	// Role is the account's role at issuance time. Activation tokens
	// carry no role.
	Role string `json:"role,omitempty"`

	// TokenType indicates the purpose of the token ("access", "refresh",
	// or "activation"). Used to prevent token misuse across contexts.
	TokenType string `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
