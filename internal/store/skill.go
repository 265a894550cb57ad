package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/ykuchin/skillmarket/internal/domain"
)

// SkillFilter selects catalog skills by exact match on the set fields.
type SkillFilter struct {
	ID    *uuid.UUID
	Title *string
}

// SkillRepository defines the interface for skill-catalog persistence.
type SkillRepository interface {
	// Create saves a new catalog skill.
	// Returns ErrSkillExists when the title is already present.
	Create(ctx context.Context, skill *domain.Skill) error

	// CreateIfAbsent inserts the skill unless its title is already in the
	// catalog. Returns true when a row was created, false when the title
	// was already present. A duplicate is never an error.
	CreateIfAbsent(ctx context.Context, skill *domain.Skill) (bool, error)

	// GetOne retrieves at most one skill matching the filter.
	// Returns ErrSkillNotFound if none matches.
	GetOne(ctx context.Context, filter SkillFilter) (*domain.Skill, error)

	// List retrieves all catalog skills matching the filter.
	List(ctx context.Context, filter SkillFilter) ([]*domain.Skill, error)

	// Delete removes the skill; a no-op when absent.
	Delete(ctx context.Context, id uuid.UUID) error
}
