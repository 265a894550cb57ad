package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ykuchin/skillmarket/internal/domain"
	"github.com/ykuchin/skillmarket/internal/platform/logger"
	"github.com/ykuchin/skillmarket/internal/store"
)

// SkillSyncEnqueuer dispatches catalog sync jobs. Implemented by
// task.SkillSyncJobs.
type SkillSyncEnqueuer interface {
	EnqueueSkillSync(ctx context.Context, skills map[string]int) error
}

// ProviderProfile is a provider joined with its account's public identity.
type ProviderProfile struct {
	*domain.Provider
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ProviderService manages provider profiles. Creating a profile promotes
// the account to the executer role and feeds the declared skills into the
// shared catalog.
type ProviderService struct {
	factory   store.Factory
	skillSync SkillSyncEnqueuer
	logger    *slog.Logger
}

// NewProviderService creates a new ProviderService.
func NewProviderService(factory store.Factory, skillSync SkillSyncEnqueuer, log *slog.Logger) (*ProviderService, error) {
	if factory == nil {
		return nil, errors.New("store factory cannot be nil")
	}
	if skillSync == nil {
		return nil, errors.New("skill sync enqueuer cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ProviderService{
		factory:   factory,
		skillSync: skillSync,
		logger:    log.With(slog.String("component", "provider_service")),
	}, nil
}

// Create registers the caller as a provider. The profile insert and the
// role promotion to executer commit in the same transaction; a second
// profile for the same account is a conflict. The catalog sync job is
// dispatched only after the commit so a rollback never leaks skills.
func (s *ProviderService) Create(ctx context.Context, callerUsername string, skills map[string]int) (*domain.Provider, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var provider *domain.Provider
	err := store.WithUnitOfWork(ctx, s.factory, func(ctx context.Context, uow store.UnitOfWork) error {
		caller, err := uow.Accounts().GetOne(ctx, store.AccountFilter{Username: &callerUsername})
		if err != nil {
			return err
		}

		provider, err = domain.NewProvider(caller.ID, skills)
		if err != nil {
			return err
		}

		if err := uow.Providers().Create(ctx, provider); err != nil {
			return err
		}

		if caller.Role == domain.RoleUser {
			role := domain.RoleExecuter
			if _, err := uow.Accounts().Update(ctx, caller.ID, store.AccountPatch{Role: &role}); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("provider created",
		slog.String("provider_id", provider.ID.String()),
		slog.String("username", callerUsername),
		slog.Int("skills", len(provider.Skills)))

	if len(provider.Skills) > 0 {
		if err := s.skillSync.EnqueueSkillSync(ctx, provider.Skills); err != nil {
			// The profile exists; only the catalog index is behind. The
			// next provider declaring any of these skills repairs it.
			log.Error("failed to enqueue skill sync",
				slog.String("provider_id", provider.ID.String()),
				slog.String("error", err.Error()))
		}
	}

	return provider, nil
}

// List returns all provider profiles joined with their account identity.
func (s *ProviderService) List(ctx context.Context) ([]*ProviderProfile, error) {
	var profiles []*ProviderProfile
	err := store.WithUnitOfWork(ctx, s.factory, func(ctx context.Context, uow store.UnitOfWork) error {
		providers, err := uow.Providers().List(ctx, store.ProviderFilter{})
		if err != nil {
			return err
		}

		profiles = make([]*ProviderProfile, 0, len(providers))
		for _, p := range providers {
			account, err := uow.Accounts().GetOne(ctx, store.AccountFilter{ID: &p.AccountID})
			if err != nil {
				return err
			}
			profiles = append(profiles, &ProviderProfile{
				Provider: p,
				Username: account.Username,
				Email:    account.Email,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// ListBySkills returns providers declaring every one of the given titles.
func (s *ProviderService) ListBySkills(ctx context.Context, titles []string) ([]*ProviderProfile, error) {
	var profiles []*ProviderProfile
	err := store.WithUnitOfWork(ctx, s.factory, func(ctx context.Context, uow store.UnitOfWork) error {
		providers, err := uow.Providers().ListBySkills(ctx, titles)
		if err != nil {
			return err
		}

		profiles = make([]*ProviderProfile, 0, len(providers))
		for _, p := range providers {
			account, err := uow.Accounts().GetOne(ctx, store.AccountFilter{ID: &p.AccountID})
			if err != nil {
				return err
			}
			profiles = append(profiles, &ProviderProfile{
				Provider: p,
				Username: account.Username,
				Email:    account.Email,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
