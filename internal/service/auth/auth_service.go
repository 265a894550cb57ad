package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/ykuchin/skillmarket/internal/domain"
	"github.com/ykuchin/skillmarket/internal/platform/logger"
	"github.com/ykuchin/skillmarket/internal/store"
	"github.com/ykuchin/skillmarket/internal/task"
)

// WelcomeEmailEnqueuer builds and dispatches the welcome email job that
// follows a successful registration. The factory indirection keeps this
// service unaware of mail transport details.
type WelcomeEmailEnqueuer interface {
	EnqueueWelcomeEmail(ctx context.Context, payload task.WelcomeEmailPayload) error
}

// TokenPair is a matched access/refresh pair issued at login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService implements the account lifecycle: registration with a
// pending-activation state, activation by emailed token, and login/refresh
// against the session secret.
type AuthService struct {
	factory       store.Factory
	tokens        TokenService
	hasher        PasswordHasher
	verifier      PasswordVerifier
	welcomeEmails WelcomeEmailEnqueuer
	activationURL string
	logger        *slog.Logger
}

// NewAuthService creates a new AuthService with the given collaborators.
func NewAuthService(
	factory store.Factory,
	tokens TokenService,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	welcomeEmails WelcomeEmailEnqueuer,
	activationURL string,
	log *slog.Logger,
) (*AuthService, error) {
	if factory == nil {
		return nil, errors.New("store factory cannot be nil")
	}
	if tokens == nil {
		return nil, errors.New("token service cannot be nil")
	}
	if hasher == nil {
		return nil, errors.New("password hasher cannot be nil")
	}
	if verifier == nil {
		return nil, errors.New("password verifier cannot be nil")
	}
	if welcomeEmails == nil {
		return nil, errors.New("welcome email enqueuer cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &AuthService{
		factory:       factory,
		tokens:        tokens,
		hasher:        hasher,
		verifier:      verifier,
		welcomeEmails: welcomeEmails,
		activationURL: activationURL,
		logger:        log.With(slog.String("component", "auth_service")),
	}, nil
}

// Register creates a new inactive account and enqueues the welcome email
// carrying the activation link. The account row is committed before the
// job is dispatched, so a crash in between loses only the email, never the
// account. Returns the created account without waiting for delivery.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	account, err := domain.NewAccount(username, email)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(password); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	account.HashedPassword = hashed

	err = store.WithUnitOfWork(ctx, s.factory, func(ctx context.Context, uow store.UnitOfWork) error {
		return uow.Accounts().Create(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	log.Info("account registered",
		slog.String("username", account.Username),
		slog.String("account_id", account.ID.String()))

	// The acknowledgment does not depend on the email: failures here are
	// logged and the user can be re-sent the link later.
	if err := s.enqueueActivationEmail(ctx, account); err != nil {
		log.Error("failed to enqueue welcome email",
			slog.String("username", account.Username),
			slog.String("error", err.Error()))
	}

	return account, nil
}

func (s *AuthService) enqueueActivationEmail(ctx context.Context, account *domain.Account) error {
	activationToken, err := s.tokens.GenerateActivationToken(ctx, account.Username)
	if err != nil {
		return fmt.Errorf("failed to generate activation token: %w", err)
	}

	actionURL := s.activationURL + "?activation_token=" + url.QueryEscape(activationToken)

	return s.welcomeEmails.EnqueueWelcomeEmail(ctx, task.WelcomeEmailPayload{
		ToEmail:   account.Email,
		Username:  account.Username,
		ActionURL: actionURL,
	})
}

// Activate verifies the activation token and marks the account active.
// Only the is_active flag changes. Activating an already active account
// succeeds: the link proves email ownership either way, and the second
// click usually comes from the same person.
func (s *AuthService) Activate(ctx context.Context, tokenString string) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	claims, err := s.tokens.ValidateActivationToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	var account *domain.Account
	err = store.WithUnitOfWork(ctx, s.factory, func(ctx context.Context, uow store.UnitOfWork) error {
		current, err := uow.Accounts().GetOne(ctx, store.AccountFilter{Username: &claims.Username})
		if err != nil {
			return err
		}

		if current.IsActive {
			account = current
			return nil
		}

		active := true
		account, err = uow.Accounts().Update(ctx, current.ID, store.AccountPatch{IsActive: &active})
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info("account activated", slog.String("username", account.Username))
	return account, nil
}

// Login verifies the credentials and issues a matched access/refresh pair.
// An unknown username and a wrong password both yield ErrInvalidCredentials
// so that login responses cannot be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, *domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var account *domain.Account
	err := store.WithUnitOfWork(ctx, s.factory, func(ctx context.Context, uow store.UnitOfWork) error {
		var err error
		account, err = uow.Accounts().GetOne(ctx, store.AccountFilter{Username: &username})
		return err
	})
	if err != nil {
		if store.IsNotFound(err) {
			log.Debug("login failed: unknown username")
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := s.verifier.Compare(account.HashedPassword, password); err != nil {
		log.Debug("login failed: password mismatch", slog.String("username", username))
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, account)
	if err != nil {
		return nil, nil, err
	}

	log.Info("login succeeded",
		slog.String("username", account.Username),
		slog.String("role", account.Role))
	return pair, account, nil
}

// Refresh validates a refresh token and issues a new pair. The account is
// re-read so that a role change since the last login takes effect in the
// new tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, *domain.Account, error) {
	claims, err := s.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, nil, err
	}

	var account *domain.Account
	err = store.WithUnitOfWork(ctx, s.factory, func(ctx context.Context, uow store.UnitOfWork) error {
		var err error
		account, err = uow.Accounts().GetOne(ctx, store.AccountFilter{Username: &claims.Username})
		return err
	})
	if err != nil {
		if store.IsNotFound(err) {
			// The account was deleted after the token was issued.
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, err
	}

	pair, err := s.issuePair(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	return pair, account, nil
}

func (s *AuthService) issuePair(ctx context.Context, account *domain.Account) (*TokenPair, error) {
	accessToken, err := s.tokens.GenerateAccessToken(ctx, account.Username, account.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(ctx, account.Username, account.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
