package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/ykuchin/skillmarket/internal/domain"
	"github.com/ykuchin/skillmarket/internal/platform/logger"
	"github.com/ykuchin/skillmarket/internal/store"
)

// ProviderStore implements the store.ProviderRepository interface using a
// PostgreSQL database as the storage backend. Declared skills are kept as
// a JSONB title -> experience mapping on the provider row.
type ProviderStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProviderStore creates a new PostgreSQL implementation of the
// ProviderRepository interface.
func NewProviderStore(db store.DBTX, logger *slog.Logger) *ProviderStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProviderStore{
		db:     db,
		logger: logger.With(slog.String("component", "provider_store")),
	}
}

var _ store.ProviderRepository = (*ProviderStore)(nil)

const providerColumns = "id, account_id, skills, created_at"

// Create implements store.ProviderRepository.Create.
// Returns store.ErrProviderExists when the account already has a profile
// and store.ErrInvalidEntity when the account does not exist.
func (s *ProviderStore) Create(ctx context.Context, provider *domain.Provider) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := provider.Validate(); err != nil {
		log.Warn("provider validation failed during create",
			slog.String("error", err.Error()),
			slog.String("provider_id", provider.ID.String()))
		return err
	}

	skills, err := json.Marshal(provider.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal provider skills: %w", err)
	}

	query := `
		INSERT INTO providers (id, account_id, skills, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err = s.db.ExecContext(ctx, query, provider.ID, provider.AccountID, skills, provider.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			log.Warn("duplicate provider profile for account",
				slog.String("account_id", provider.AccountID.String()))
			return store.ErrProviderExists
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: account %s not found", store.ErrInvalidEntity, provider.AccountID)
		}
		log.Error("failed to create provider",
			slog.String("error", err.Error()),
			slog.String("provider_id", provider.ID.String()))
		return err
	}

	log.Info("provider created successfully",
		slog.String("provider_id", provider.ID.String()),
		slog.String("account_id", provider.AccountID.String()))
	return nil
}

func providerWhere(filter store.ProviderFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.ID != nil {
		args = append(args, *filter.ID)
		clauses = append(clauses, fmt.Sprintf("id = $%d", len(args)))
	}
	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		clauses = append(clauses, fmt.Sprintf("account_id = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanProvider(row interface{ Scan(...any) error }) (*domain.Provider, error) {
	var provider domain.Provider
	var skills []byte
	if err := row.Scan(&provider.ID, &provider.AccountID, &skills, &provider.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(skills, &provider.Skills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal provider skills: %w", err)
	}
	return &provider, nil
}

// GetOne implements store.ProviderRepository.GetOne.
func (s *ProviderStore) GetOne(ctx context.Context, filter store.ProviderFilter) (*domain.Provider, error) {
	where, args := providerWhere(filter)
	query := "SELECT " + providerColumns + " FROM providers" + where + " LIMIT 2"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var matches []*domain.Provider
	for rows.Next() {
		provider, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, provider)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, store.ErrProviderNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: filter matched multiple providers", store.ErrConflict)
	}
}

// List implements store.ProviderRepository.List.
func (s *ProviderStore) List(ctx context.Context, filter store.ProviderFilter) ([]*domain.Provider, error) {
	where, args := providerWhere(filter)
	query := "SELECT " + providerColumns + " FROM providers" + where

	return s.queryProviders(ctx, query, args...)
}

// ListBySkills implements store.ProviderRepository.ListBySkills.
// It matches providers whose skills JSONB object contains every one of the
// given titles as a key, using the `?&` containment operator.
func (s *ProviderStore) ListBySkills(ctx context.Context, titles []string) ([]*domain.Provider, error) {
	if len(titles) == 0 {
		return s.List(ctx, store.ProviderFilter{})
	}

	// pq-style array literal built by the driver from a []string parameter
	// is not available through database/sql with pgx stdlib, so pass the
	// titles as a JSONB array and use the jsonb ?& operator's text[] form
	// via array conversion on the server side.
	query := `
		SELECT ` + providerColumns + `
		FROM providers
		WHERE skills ?& (
			SELECT array_agg(value)
			FROM jsonb_array_elements_text($1::jsonb)
		)
	`
	encoded, err := json.Marshal(titles)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal skill titles: %w", err)
	}

	return s.queryProviders(ctx, query, encoded)
}

func (s *ProviderStore) queryProviders(ctx context.Context, query string, args ...any) ([]*domain.Provider, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query providers", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var providers []*domain.Provider
	for rows.Next() {
		provider, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		providers = append(providers, provider)
	}
	return providers, rows.Err()
}

// Update implements store.ProviderRepository.Update.
func (s *ProviderStore) Update(ctx context.Context, id uuid.UUID, patch store.ProviderPatch) (*domain.Provider, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.Skills == nil {
		return s.GetOne(ctx, store.ProviderFilter{ID: &id})
	}

	skills, err := json.Marshal(patch.Skills)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal provider skills: %w", err)
	}

	query := "UPDATE providers SET skills = $1 WHERE id = $2 RETURNING " + providerColumns
	provider, err := scanProvider(s.db.QueryRowContext(ctx, query, skills, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProviderNotFound
		}
		log.Error("failed to update provider",
			slog.String("error", err.Error()),
			slog.String("provider_id", id.String()))
		return nil, err
	}

	log.Info("provider updated successfully", slog.String("provider_id", id.String()))
	return provider, nil
}

// Delete implements store.ProviderRepository.Delete; a no-op when absent.
func (s *ProviderStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM providers WHERE id = $1", id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete provider",
			slog.String("error", err.Error()),
			slog.String("provider_id", id.String()))
	}
	return err
}
