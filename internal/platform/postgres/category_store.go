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

// CategoryStore implements the store.CategoryRepository interface using a
// PostgreSQL database as the storage backend.
type CategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCategoryStore creates a new PostgreSQL implementation of the
// CategoryRepository interface.
func NewCategoryStore(db store.DBTX, logger *slog.Logger) *CategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "category_store")),
	}
}

var _ store.CategoryRepository = (*CategoryStore)(nil)

const categoryColumns = "id, title, description"

// Create implements store.CategoryRepository.Create.
// Returns store.ErrConflict when the title is already taken.
func (s *CategoryStore) Create(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO categories (id, title, description)
		VALUES ($1, $2, $3)
	`
	_, err := s.db.ExecContext(ctx, query, category.ID, category.Title, category.Description)
	if err != nil {
		if isUniqueViolation(err, "") {
			log.Warn("duplicate category title", slog.String("title", category.Title))
			return fmt.Errorf("%w: category title", store.ErrConflict)
		}
		log.Error("failed to create category",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return err
	}

	log.Info("category created successfully",
		slog.String("category_id", category.ID.String()),
		slog.String("title", category.Title))
	return nil
}

func categoryWhere(filter store.CategoryFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.ID != nil {
		args = append(args, *filter.ID)
		clauses = append(clauses, fmt.Sprintf("id = $%d", len(args)))
	}
	if filter.Title != nil {
		args = append(args, *filter.Title)
		clauses = append(clauses, fmt.Sprintf("title = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanCategory(row interface{ Scan(...any) error }) (*domain.Category, error) {
	var category domain.Category
	if err := row.Scan(&category.ID, &category.Title, &category.Description); err != nil {
		return nil, err
	}
	return &category, nil
}

// GetOne implements store.CategoryRepository.GetOne.
func (s *CategoryStore) GetOne(ctx context.Context, filter store.CategoryFilter) (*domain.Category, error) {
	where, args := categoryWhere(filter)
	query := "SELECT " + categoryColumns + " FROM categories" + where + " LIMIT 2"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var matches []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, store.ErrCategoryNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: filter matched multiple categories", store.ErrConflict)
	}
}

// List implements store.CategoryRepository.List.
func (s *CategoryStore) List(ctx context.Context, filter store.CategoryFilter) ([]*domain.Category, error) {
	where, args := categoryWhere(filter)
	query := "SELECT " + categoryColumns + " FROM categories" + where

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Update implements store.CategoryRepository.Update.
func (s *CategoryStore) Update(ctx context.Context, id uuid.UUID, patch store.CategoryPatch) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var sets []string
	var args []any

	if patch.Title != nil {
		args = append(args, *patch.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if patch.Description != nil {
		args = append(args, *patch.Description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}

	if len(sets) == 0 {
		return s.GetOne(ctx, store.CategoryFilter{ID: &id})
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE categories SET %s WHERE id = $%d RETURNING "+categoryColumns,
		strings.Join(sets, ", "),
		len(args),
	)

	category, err := scanCategory(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCategoryNotFound
		}
		if isUniqueViolation(err, "") {
			return nil, fmt.Errorf("%w: category title", store.ErrConflict)
		}
		log.Error("failed to update category",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
		return nil, err
	}
	return category, nil
}

// Delete implements store.CategoryRepository.Delete; a no-op when absent.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete category",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
	}
	return err
}
