package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Provider validation errors.
var (
	ErrEmptyProviderID      = errors.New("provider ID cannot be empty")
	ErrEmptyProviderAccount = errors.New("provider account cannot be empty")
	ErrEmptySkillTitle      = errors.New("skill title cannot be empty")
)

// Provider is a service-provider profile attached to exactly one account.
// Declared skills are kept as a title -> years-of-experience mapping on the
// profile itself; the shared skill catalog is a separate denormalized index
// over the titles.
type Provider struct {
	ID        uuid.UUID      `json:"id"`
	AccountID uuid.UUID      `json:"account_id"`
	Skills    map[string]int `json:"skills"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewProvider creates a Provider profile for the given account.
func NewProvider(accountID uuid.UUID, skills map[string]int) (*Provider, error) {
	if skills == nil {
		skills = map[string]int{}
	}

	provider := &Provider{
		ID:        uuid.New(),
		AccountID: accountID,
		Skills:    skills,
		CreatedAt: time.Now().UTC(),
	}

	if err := provider.Validate(); err != nil {
		return nil, err
	}

	return provider, nil
}

// Validate checks if the Provider has valid data.
func (p *Provider) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProviderID
	}
	if p.AccountID == uuid.Nil {
		return ErrEmptyProviderAccount
	}
	for title := range p.Skills {
		if title == "" {
			return ErrEmptySkillTitle
		}
	}
	return nil
}
