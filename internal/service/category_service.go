package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ykuchin/skillmarket/internal/domain"
	"github.com/ykuchin/skillmarket/internal/platform/logger"
	"github.com/ykuchin/skillmarket/internal/store"
)

// CategoryService manages the listing category tree (flat, for now).
type CategoryService struct {
	factory store.Factory
	logger  *slog.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(factory store.Factory, log *slog.Logger) (*CategoryService, error) {
	if factory == nil {
		return nil, errors.New("store factory cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &CategoryService{
		factory: factory,
		logger:  log.With(slog.String("component", "category_service")),
	}, nil
}

// Create adds a new category. The title must be unique; a duplicate
// surfaces as a conflict from the repository.
func (s *CategoryService) Create(ctx context.Context, title, description string) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	category, err := domain.NewCategory(title, description)
	if err != nil {
		return nil, err
	}

	err = store.WithUnitOfWork(ctx, s.factory, func(ctx context.Context, uow store.UnitOfWork) error {
		return uow.Categories().Create(ctx, category)
	})
	if err != nil {
		return nil, err
	}

	log.Info("category created", slog.String("title", category.Title))
	return category, nil
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	err := store.WithUnitOfWork(ctx, s.factory, func(ctx context.Context, uow store.UnitOfWork) error {
		var err error
		categories, err = uow.Categories().List(ctx, store.CategoryFilter{})
		return err
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}
