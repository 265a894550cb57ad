package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ykuchin/skillmarket/internal/domain"
	"github.com/ykuchin/skillmarket/internal/mocks"
	"github.com/ykuchin/skillmarket/internal/store"
)

func newAccount(t *testing.T, username string) *domain.Account {
	t.Helper()
	account, err := domain.NewAccount(username, username+"@example.com")
	require.NoError(t, err)
	account.HashedPassword = "hashed"
	return account
}

func TestWithUnitOfWorkCommits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := mocks.NewStore()

	err := store.WithUnitOfWork(ctx, st, func(ctx context.Context, uow store.UnitOfWork) error {
		return uow.Accounts().Create(ctx, newAccount(t, "alice"))
	})
	require.NoError(t, err)
	assert.NotNil(t, st.Account("alice"))
}

func TestWithUnitOfWorkRollsBackOnError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := mocks.NewStore()

	boom := errors.New("boom")
	err := store.WithUnitOfWork(ctx, st, func(ctx context.Context, uow store.UnitOfWork) error {
		if err := uow.Accounts().Create(ctx, newAccount(t, "alice")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// Nothing written before the failure is visible.
	assert.Nil(t, st.Account("alice"))
}

func TestWithUnitOfWorkUncommittedWritesAreInvisible(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := mocks.NewStore()

	err := store.WithUnitOfWork(ctx, st, func(ctx context.Context, uow store.UnitOfWork) error {
		if err := uow.Accounts().Create(ctx, newAccount(t, "alice")); err != nil {
			return err
		}
		// Still inside the transaction: readers of the shared state must
		// not see the write yet.
		assert.Nil(t, st.Account("alice"))
		return nil
	})
	require.NoError(t, err)
	assert.NotNil(t, st.Account("alice"))
}

func TestWithUnitOfWorkRollsBackOnPanic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := mocks.NewStore()

	require.Panics(t, func() {
		_ = store.WithUnitOfWork(ctx, st, func(ctx context.Context, uow store.UnitOfWork) error {
			if err := uow.Accounts().Create(ctx, newAccount(t, "alice")); err != nil {
				return err
			}
			panic("unexpected")
		})
	})
	assert.Nil(t, st.Account("alice"))
}

func TestWithUnitOfWorkBeginFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := mocks.NewStore()
	st.BeginErr = errors.New("pool exhausted")

	called := false
	err := store.WithUnitOfWork(ctx, st, func(ctx context.Context, uow store.UnitOfWork) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
}

func TestWithUnitOfWorkErrorsPropagateUnchanged(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := mocks.NewStore()

	err := store.WithUnitOfWork(ctx, st, func(ctx context.Context, uow store.UnitOfWork) error {
		_, err := uow.Accounts().GetOne(ctx, store.AccountFilter{})
		return err
	})
	// The sentinel survives the helper so callers can branch on it.
	assert.True(t, store.IsNotFound(err))
}
