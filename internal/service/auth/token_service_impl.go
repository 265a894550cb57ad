package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ykuchin/skillmarket/internal/config"
	"github.com/ykuchin/skillmarket/internal/platform/logger"
)

// hmacTokenService is an implementation of TokenService using HMAC-SHA256
// signing with two independent secrets: one for the session domain (access
// and refresh tokens) and one for the activation domain.
type hmacTokenService struct {
	sessionKey         []byte
	activationKey      []byte
	accessLifetime     time.Duration
	refreshLifetime    time.Duration
	activationLifetime time.Duration
	timeFunc           func() time.Time // Injectable for testing
}

// tokenClaims defines the JWT claims structure we sign.
type tokenClaims struct {
	Username  string `json:"username"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

var _ TokenService = (*hmacTokenService)(nil)

// NewTokenService creates a new token service using HMAC-SHA256 signing.
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	if len(cfg.SessionSecret) < 32 {
		return nil, fmt.Errorf("session secret must be at least 32 characters")
	}
	if len(cfg.ActivationSecret) < 32 {
		return nil, fmt.Errorf("activation secret must be at least 32 characters")
	}
	if cfg.SessionSecret == cfg.ActivationSecret {
		return nil, fmt.Errorf("session and activation secrets must differ")
	}

	return &hmacTokenService{
		sessionKey:         []byte(cfg.SessionSecret),
		activationKey:      []byte(cfg.ActivationSecret),
		accessLifetime:     time.Duration(cfg.AccessTokenLifetimeMinutes) * time.Minute,
		refreshLifetime:    time.Duration(cfg.RefreshTokenLifetimeMinutes) * time.Minute,
		activationLifetime: time.Duration(cfg.ActivationTokenLifetimeMinutes) * time.Minute,
		timeFunc:           time.Now,
	}, nil
}

// GenerateAccessToken creates a signed access token with the session secret.
func (s *hmacTokenService) GenerateAccessToken(ctx context.Context, username, role string) (string, error) {
	return s.generate(ctx, username, role, TokenTypeAccess, s.sessionKey, s.accessLifetime)
}

// GenerateRefreshToken creates a signed refresh token with the session secret.
func (s *hmacTokenService) GenerateRefreshToken(ctx context.Context, username, role string) (string, error) {
	return s.generate(ctx, username, role, TokenTypeRefresh, s.sessionKey, s.refreshLifetime)
}

// GenerateActivationToken creates a signed activation token with the
// activation secret. It carries no role: activation only proves the
// account owns the registered email address.
func (s *hmacTokenService) GenerateActivationToken(ctx context.Context, username string) (string, error) {
	return s.generate(ctx, username, "", TokenTypeActivation, s.activationKey, s.activationLifetime)
}

func (s *hmacTokenService) generate(
	ctx context.Context,
	username, role, tokenType string,
	key []byte,
	lifetime time.Duration,
) (string, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc().UTC()

	claims := tokenClaims{
		Username:  username,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(key)
	if err != nil {
		log.Error("failed to sign token",
			"error", err,
			"username", username,
			"token_type", tokenType,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return signedToken, nil
}

// ValidateAccessToken verifies an access token against the session secret.
func (s *hmacTokenService) ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.validate(ctx, tokenString, TokenTypeAccess, s.sessionKey)
}

// ValidateRefreshToken verifies a refresh token against the session secret.
func (s *hmacTokenService) ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.validate(ctx, tokenString, TokenTypeRefresh, s.sessionKey)
}

// ValidateActivationToken verifies an activation token against the
// activation secret.
func (s *hmacTokenService) ValidateActivationToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.validate(ctx, tokenString, TokenTypeActivation, s.activationKey)
}

func (s *hmacTokenService) validate(
	ctx context.Context,
	tokenString, wantType string,
	key []byte,
) (*Claims, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc().UTC()

	// Expiry is checked against UTC now with zero leeway. Issuance and
	// verification share one clock source, so no skew compensation.
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return key, nil
		},
		parserOpts...)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired",
				"error", err,
				"token_type", wantType)
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			log.Debug("token validation failed: token not yet valid",
				"error", err,
				"token_type", wantType)
			return nil, ErrTokenNotYetValid
		default:
			log.Debug("token validation failed",
				"error", err,
				"token_type", wantType,
				"error_type", fmt.Sprintf("%T", err))
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		log.Debug("token validation failed: invalid claims")
		return nil, ErrInvalidToken
	}

	if claims.TokenType != wantType {
		log.Debug("token validation failed: wrong token type",
			"expected", wantType,
			"actual", claims.TokenType)
		return nil, ErrWrongTokenType
	}

	return &Claims{
		Username:  claims.Username,
		Role:      claims.Role,
		TokenType: claims.TokenType,
		Subject:   claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}, nil
}
