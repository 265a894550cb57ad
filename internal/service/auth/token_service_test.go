package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ykuchin/skillmarket/internal/config"
)

const (
	testSessionSecret    = "session-secret-that-is-long-enough-for-tests"
	testActivationSecret = "activation-secret-that-is-long-enough-too"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		SessionSecret:                  testSessionSecret,
		ActivationSecret:               testActivationSecret,
		AccessTokenLifetimeMinutes:     60,
		RefreshTokenLifetimeMinutes:    10080,
		ActivationTokenLifetimeMinutes: 1440,
	}
}

// newTestTokenService builds a token service with a fixed clock.
func newTestTokenService(t *testing.T, now time.Time) *hmacTokenService {
	t.Helper()
	svc, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)
	hs, ok := svc.(*hmacTokenService)
	require.True(t, ok)
	hs.timeFunc = func() time.Time { return now }
	return hs
}

func TestNewTokenService(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.AuthConfig)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *config.AuthConfig) {},
		},
		{
			name: "session secret too short",
			mutate: func(c *config.AuthConfig) {
				c.SessionSecret = "short"
			},
			wantErr: "session secret",
		},
		{
			name: "activation secret too short",
			mutate: func(c *config.AuthConfig) {
				c.ActivationSecret = "short"
			},
			wantErr: "activation secret",
		},
		{
			name: "secrets must differ",
			mutate: func(c *config.AuthConfig) {
				c.ActivationSecret = c.SessionSecret
			},
			wantErr: "must differ",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := testAuthConfig()
			tc.mutate(&cfg)

			svc, err := NewTokenService(cfg)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, svc)
		})
	}
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, fixedTime)
	ctx := context.Background()

	token, err := svc.GenerateAccessToken(ctx, "alice", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(60*time.Minute).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestActivationTokenCarriesNoRole(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	token, err := svc.GenerateActivationToken(ctx, "alice")
	require.NoError(t, err)

	claims, err := svc.ValidateActivationToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Empty(t, claims.Role)
	assert.Equal(t, TokenTypeActivation, claims.TokenType)
}

func TestValidateExpiredToken(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, issuedAt)
	ctx := context.Background()

	token, err := svc.GenerateAccessToken(ctx, "alice", "user")
	require.NoError(t, err)

	// One second past expiry. The parser has zero leeway, so this fails.
	svc.timeFunc = func() time.Time { return issuedAt.Add(60*time.Minute + time.Second) }

	claims, err := svc.ValidateAccessToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestValidateTokenStillValidAtBoundary(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, issuedAt)
	ctx := context.Background()

	token, err := svc.GenerateAccessToken(ctx, "alice", "user")
	require.NoError(t, err)

	// One second before expiry the token is still accepted.
	svc.timeFunc = func() time.Time { return issuedAt.Add(60*time.Minute - time.Second) }

	_, err = svc.ValidateAccessToken(ctx, token)
	require.NoError(t, err)
}

func TestValidateWrongTokenType(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, fixedTime)
	ctx := context.Background()

	access, err := svc.GenerateAccessToken(ctx, "alice", "user")
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(ctx, "alice", "user")
	require.NoError(t, err)

	// Access and refresh share a secret, so the signature checks out and
	// only the type claim rejects the swap.
	_, err = svc.ValidateRefreshToken(ctx, access)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = svc.ValidateAccessToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestValidateAcrossSecretDomains(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, fixedTime)
	ctx := context.Background()

	activation, err := svc.GenerateActivationToken(ctx, "alice")
	require.NoError(t, err)
	access, err := svc.GenerateAccessToken(ctx, "alice", "user")
	require.NoError(t, err)

	// An activation token presented as a session token fails the
	// signature check before the type claim is ever inspected.
	_, err = svc.ValidateAccessToken(ctx, activation)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// And the reverse: session tokens never activate accounts.
	_, err = svc.ValidateActivationToken(ctx, access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMalformedToken(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty string", token: ""},
		{name: "not a JWT", token: "not-a-token"},
		{name: "truncated", token: "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ0In0"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.ValidateAccessToken(ctx, tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestValidateTamperedToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, fixedTime)
	ctx := context.Background()

	token, err := svc.GenerateAccessToken(ctx, "alice", "user")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.ValidateAccessToken(ctx, tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenOutlivesAccessToken(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, issuedAt)
	ctx := context.Background()

	access, err := svc.GenerateAccessToken(ctx, "alice", "user")
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(ctx, "alice", "user")
	require.NoError(t, err)

	// Two hours later the access token is dead but the week-long refresh
	// token still works.
	svc.timeFunc = func() time.Time { return issuedAt.Add(2 * time.Hour) }

	_, err = svc.ValidateAccessToken(ctx, access)
	assert.ErrorIs(t, err, ErrExpiredToken)

	claims, err := svc.ValidateRefreshToken(ctx, refresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}
