package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Skill validation errors.
var (
	ErrEmptySkillID = errors.New("skill ID cannot be empty")
)

// Skill is one entry of the shared skill catalog. Titles are unique; the
// catalog is built lazily by the skill synchronizer the first time a title
// is declared by any provider.
type Skill struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSkill creates a catalog Skill with the given title.
func NewSkill(title string) (*Skill, error) {
	skill := &Skill{
		ID:        uuid.New(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}

	if err := skill.Validate(); err != nil {
		return nil, err
	}

	return skill, nil
}

// Validate checks if the Skill has valid data.
func (s *Skill) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySkillID
	}
	if s.Title == "" {
		return ErrEmptySkillTitle
	}
	return nil
}
