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

// AccountStore implements the store.AccountRepository interface using a
// PostgreSQL database as the storage backend.
type AccountStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewAccountStore creates a new PostgreSQL implementation of the
// AccountRepository interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
func NewAccountStore(db store.DBTX, logger *slog.Logger) *AccountStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountStore{
		db:     db,
		logger: logger.With(slog.String("component", "account_store")),
	}
}

var _ store.AccountRepository = (*AccountStore)(nil)

const accountColumns = "id, username, email, hashed_password, role, is_active, created_at"

// Create implements store.AccountRepository.Create.
// Returns store.ErrUsernameExists or store.ErrEmailExists when the
// corresponding uniqueness constraint is violated.
func (s *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during create",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return err
	}
	if account.HashedPassword == "" {
		return domain.ErrEmptyHashedPassword
	}

	query := `
		INSERT INTO accounts (id, username, email, hashed_password, role, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		account.ID,
		account.Username,
		account.Email,
		account.HashedPassword,
		account.Role,
		account.IsActive,
		account.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "accounts_username") {
			log.Warn("duplicate username during account creation",
				slog.String("username", account.Username))
			return store.ErrUsernameExists
		}
		if isUniqueViolation(err, "accounts_email") {
			log.Warn("duplicate email during account creation",
				slog.String("account_id", account.ID.String()))
			return store.ErrEmailExists
		}
		if isUniqueViolation(err, "") {
			return store.ErrConflict
		}

		log.Error("failed to create account",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return err
	}

	log.Info("account created successfully",
		slog.String("account_id", account.ID.String()),
		slog.String("username", account.Username))
	return nil
}

// accountWhere builds a WHERE clause from the set fields of the filter.
func accountWhere(filter store.AccountFilter) (string, []any) {
	var clauses []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if filter.ID != nil {
		add("id", *filter.ID)
	}
	if filter.Username != nil {
		add("username", *filter.Username)
	}
	if filter.Email != nil {
		add("email", *filter.Email)
	}
	if filter.Role != nil {
		add("role", *filter.Role)
	}
	if filter.IsActive != nil {
		add("is_active", *filter.IsActive)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanAccount(row interface{ Scan(...any) error }) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.HashedPassword,
		&account.Role,
		&account.IsActive,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetOne implements store.AccountRepository.GetOne.
// Returns store.ErrAccountNotFound when nothing matches, and
// store.ErrConflict when the filter matches more than one row.
func (s *AccountStore) GetOne(ctx context.Context, filter store.AccountFilter) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := accountWhere(filter)
	query := "SELECT " + accountColumns + " FROM accounts" + where + " LIMIT 2"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query account", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var matches []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			log.Error("failed to scan account row", slog.String("error", err.Error()))
			return nil, err
		}
		matches = append(matches, account)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, store.ErrAccountNotFound
	case 1:
		return matches[0], nil
	default:
		// The filter was expected to identify at most one row.
		return nil, fmt.Errorf("%w: filter matched multiple accounts", store.ErrConflict)
	}
}

// List implements store.AccountRepository.List.
func (s *AccountStore) List(ctx context.Context, filter store.AccountFilter) ([]*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := accountWhere(filter)
	query := "SELECT " + accountColumns + " FROM accounts" + where

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list accounts", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// Update implements store.AccountRepository.Update. Only the set fields of
// the patch are applied. Returns store.ErrAccountNotFound when the ID does
// not exist.
func (s *AccountStore) Update(ctx context.Context, id uuid.UUID, patch store.AccountPatch) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var sets []string
	var args []any

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.HashedPassword != nil {
		set("hashed_password", *patch.HashedPassword)
	}
	if patch.Role != nil {
		set("role", *patch.Role)
	}
	if patch.IsActive != nil {
		set("is_active", *patch.IsActive)
	}

	if len(sets) == 0 {
		// Nothing to change; behave like a lookup.
		return s.GetOne(ctx, store.AccountFilter{ID: &id})
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE accounts SET %s WHERE id = $%d RETURNING "+accountColumns,
		strings.Join(sets, ", "),
		len(args),
	)

	account, err := scanAccount(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("account not found for update", slog.String("account_id", id.String()))
			return nil, store.ErrAccountNotFound
		}
		if isUniqueViolation(err, "accounts_email") {
			return nil, store.ErrEmailExists
		}
		log.Error("failed to update account",
			slog.String("error", err.Error()),
			slog.String("account_id", id.String()))
		return nil, err
	}

	log.Info("account updated successfully", slog.String("account_id", id.String()))
	return account, nil
}

// Delete implements store.AccountRepository.Delete. Deleting an absent
// account is a no-op.
func (s *AccountStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = $1", id)
	if err != nil {
		log.Error("failed to delete account",
			slog.String("error", err.Error()),
			slog.String("account_id", id.String()))
		return err
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		log.Debug("delete of absent account ignored", slog.String("account_id", id.String()))
	}
	return nil
}
