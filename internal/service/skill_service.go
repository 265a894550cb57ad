package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ykuchin/skillmarket/internal/domain"
	"github.com/ykuchin/skillmarket/internal/store"
)

// SkillService exposes the shared skill catalog. The catalog is written by
// the sync worker; this service only reads it.
type SkillService struct {
	factory store.Factory
	logger  *slog.Logger
}

// NewSkillService creates a new SkillService.
func NewSkillService(factory store.Factory, log *slog.Logger) (*SkillService, error) {
	if factory == nil {
		return nil, errors.New("store factory cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &SkillService{
		factory: factory,
		logger:  log.With(slog.String("component", "skill_service")),
	}, nil
}

// List returns the full skill catalog.
func (s *SkillService) List(ctx context.Context) ([]*domain.Skill, error) {
	var skills []*domain.Skill
	err := store.WithUnitOfWork(ctx, s.factory, func(ctx context.Context, uow store.UnitOfWork) error {
		var err error
		skills, err = uow.Skills().List(ctx, store.SkillFilter{})
		return err
	})
	if err != nil {
		return nil, err
	}
	return skills, nil
}
