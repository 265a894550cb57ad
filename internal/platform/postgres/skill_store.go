package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/ykuchin/skillmarket/internal/domain"
	"github.com/ykuchin/skillmarket/internal/platform/logger"
	"github.com/ykuchin/skillmarket/internal/store"
)

// SkillStore implements the store.SkillRepository interface using a
// PostgreSQL database as the storage backend.
type SkillStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSkillStore creates a new PostgreSQL implementation of the
// SkillRepository interface.
func NewSkillStore(db store.DBTX, logger *slog.Logger) *SkillStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SkillStore{
		db:     db,
		logger: logger.With(slog.String("component", "skill_store")),
	}
}

var _ store.SkillRepository = (*SkillStore)(nil)

const skillColumns = "id, title, created_at"

// Create implements store.SkillRepository.Create.
// Returns store.ErrSkillExists when the title is already present.
func (s *SkillStore) Create(ctx context.Context, skill *domain.Skill) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := skill.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO skills (id, title, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := s.db.ExecContext(ctx, query, skill.ID, skill.Title, skill.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return store.ErrSkillExists
		}
		log.Error("failed to create skill",
			slog.String("error", err.Error()),
			slog.String("title", skill.Title))
		return err
	}
	return nil
}

// CreateIfAbsent implements store.SkillRepository.CreateIfAbsent using
// INSERT ... ON CONFLICT DO NOTHING on the unique title index, so the
// catalog write contends without aborting the surrounding transaction.
// Returns true when a row was created.
func (s *SkillStore) CreateIfAbsent(ctx context.Context, skill *domain.Skill) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := skill.Validate(); err != nil {
		return false, err
	}

	query := `
		INSERT INTO skills (id, title, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (title) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query, skill.ID, skill.Title, skill.CreatedAt)
	if err != nil {
		log.Error("failed to upsert skill",
			slog.String("error", err.Error()),
			slog.String("title", skill.Title))
		return false, err
	}

	created, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return created > 0, nil
}

func skillWhere(filter store.SkillFilter) (string, []any) {
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

func scanSkill(row interface{ Scan(...any) error }) (*domain.Skill, error) {
	var skill domain.Skill
	if err := row.Scan(&skill.ID, &skill.Title, &skill.CreatedAt); err != nil {
		return nil, err
	}
	return &skill, nil
}

// GetOne implements store.SkillRepository.GetOne.
func (s *SkillStore) GetOne(ctx context.Context, filter store.SkillFilter) (*domain.Skill, error) {
	where, args := skillWhere(filter)
	query := "SELECT " + skillColumns + " FROM skills" + where + " LIMIT 2"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var matches []*domain.Skill
	for rows.Next() {
		skill, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, store.ErrSkillNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: filter matched multiple skills", store.ErrConflict)
	}
}

// List implements store.SkillRepository.List.
func (s *SkillStore) List(ctx context.Context, filter store.SkillFilter) ([]*domain.Skill, error) {
	where, args := skillWhere(filter)
	query := "SELECT " + skillColumns + " FROM skills" + where

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var skills []*domain.Skill
	for rows.Next() {
		skill, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	return skills, rows.Err()
}

// Delete implements store.SkillRepository.Delete; a no-op when absent.
func (s *SkillStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM skills WHERE id = $1", id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete skill",
			slog.String("error", err.Error()),
			slog.String("skill_id", id.String()))
	}
	return err
}
