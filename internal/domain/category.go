package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Category validation errors.
var (
	ErrEmptyCategoryID    = errors.New("category ID cannot be empty")
	ErrEmptyCategoryTitle = errors.New("category title cannot be empty")
)

// Category groups listings under a unique title.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
}

// NewCategory creates a Category with the given title and description.
func NewCategory(title, description string) (*Category, error) {
	category := &Category{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCategoryID
	}
	if c.Title == "" {
		return ErrEmptyCategoryTitle
	}
	return nil
}
