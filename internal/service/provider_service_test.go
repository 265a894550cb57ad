package service

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

func TestProviderCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("promotes the caller to executer", func(t *testing.T) {
		t.Parallel()
		st := mocks.NewStore()
		alice := seedAccount(t, st, "alice", domain.RoleUser)
		queue := &mocks.SkillSyncQueue{}

		svc, err := NewProviderService(st, queue, nil)
		require.NoError(t, err)

		provider, err := svc.Create(ctx, "alice", map[string]int{"golang": 5})
		require.NoError(t, err)

		assert.Equal(t, alice.ID, provider.AccountID)
		assert.Equal(t, map[string]int{"golang": 5}, provider.Skills)
		assert.Equal(t, domain.RoleExecuter, st.Account("alice").Role)
		assert.Equal(t, 1, queue.Count())
	})

	t.Run("admin keeps the admin role", func(t *testing.T) {
		t.Parallel()
		st := mocks.NewStore()
		seedAccount(t, st, "root", domain.RoleAdmin)
		queue := &mocks.SkillSyncQueue{}

		svc, err := NewProviderService(st, queue, nil)
		require.NoError(t, err)

		_, err = svc.Create(ctx, "root", map[string]int{"golang": 10})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, st.Account("root").Role)
	})

	t.Run("second profile for the same account is a conflict", func(t *testing.T) {
		t.Parallel()
		st := mocks.NewStore()
		seedAccount(t, st, "alice", domain.RoleUser)
		queue := &mocks.SkillSyncQueue{}

		svc, err := NewProviderService(st, queue, nil)
		require.NoError(t, err)

		_, err = svc.Create(ctx, "alice", map[string]int{"golang": 5})
		require.NoError(t, err)

		_, err = svc.Create(ctx, "alice", map[string]int{"docker": 2})
		assert.ErrorIs(t, err, store.ErrProviderExists)

		// Only the first create produced a sync job.
		assert.Equal(t, 1, queue.Count())
	})

	t.Run("no sync job for an empty skill set", func(t *testing.T) {
		t.Parallel()
		st := mocks.NewStore()
		seedAccount(t, st, "alice", domain.RoleUser)
		queue := &mocks.SkillSyncQueue{}

		svc, err := NewProviderService(st, queue, nil)
		require.NoError(t, err)

		provider, err := svc.Create(ctx, "alice", nil)
		require.NoError(t, err)
		assert.Empty(t, provider.Skills)
		assert.Equal(t, 0, queue.Count())
	})

	t.Run("sync enqueue failure does not fail the create", func(t *testing.T) {
		t.Parallel()
		st := mocks.NewStore()
		seedAccount(t, st, "alice", domain.RoleUser)
		queue := &mocks.SkillSyncQueue{EnqueueErr: errors.New("queue full")}

		svc, err := NewProviderService(st, queue, nil)
		require.NoError(t, err)

		provider, err := svc.Create(ctx, "alice", map[string]int{"golang": 5})
		require.NoError(t, err)
		assert.NotNil(t, provider)
		assert.Equal(t, domain.RoleExecuter, st.Account("alice").Role)
	})

	t.Run("unknown caller is not found", func(t *testing.T) {
		t.Parallel()
		st := mocks.NewStore()
		queue := &mocks.SkillSyncQueue{}

		svc, err := NewProviderService(st, queue, nil)
		require.NoError(t, err)

		_, err = svc.Create(ctx, "nobody", map[string]int{"golang": 5})
		assert.True(t, store.IsNotFound(err))
	})

	t.Run("rolled back create leaves the role untouched", func(t *testing.T) {
		t.Parallel()
		st := mocks.NewStore()
		seedAccount(t, st, "alice", domain.RoleUser)
		st.CommitErr = errors.New("connection lost")
		queue := &mocks.SkillSyncQueue{}

		svc, err := NewProviderService(st, queue, nil)
		require.NoError(t, err)

		_, err = svc.Create(ctx, "alice", map[string]int{"golang": 5})
		require.Error(t, err)
		assert.Equal(t, domain.RoleUser, st.Account("alice").Role)
		assert.Equal(t, 0, queue.Count())
	})
}

func TestProviderList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	setup := func(t *testing.T) (*ProviderService, *mocks.Store) {
		t.Helper()
		st := mocks.NewStore()
		seedAccount(t, st, "alice", domain.RoleUser)
		seedAccount(t, st, "bob", domain.RoleUser)

		svc, err := NewProviderService(st, &mocks.SkillSyncQueue{}, nil)
		require.NoError(t, err)

		_, err = svc.Create(ctx, "alice", map[string]int{"golang": 5, "docker": 2})
		require.NoError(t, err)
		_, err = svc.Create(ctx, "bob", map[string]int{"golang": 1})
		require.NoError(t, err)
		return svc, st
	}

	t.Run("joins account identity onto each profile", func(t *testing.T) {
		t.Parallel()
		svc, _ := setup(t)

		profiles, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, profiles, 2)

		byUsername := map[string]*ProviderProfile{}
		for _, p := range profiles {
			byUsername[p.Username] = p
		}
		require.Contains(t, byUsername, "alice")
		assert.Equal(t, "alice@example.com", byUsername["alice"].Email)
		assert.Equal(t, 5, byUsername["alice"].Skills["golang"])
	})

	t.Run("filters by required skills", func(t *testing.T) {
		t.Parallel()
		svc, _ := setup(t)

		both, err := svc.ListBySkills(ctx, []string{"golang"})
		require.NoError(t, err)
		assert.Len(t, both, 2)

		onlyAlice, err := svc.ListBySkills(ctx, []string{"golang", "docker"})
		require.NoError(t, err)
		require.Len(t, onlyAlice, 1)
		assert.Equal(t, "alice", onlyAlice[0].Username)

		nobody, err := svc.ListBySkills(ctx, []string{"cobol"})
		require.NoError(t, err)
		assert.Empty(t, nobody)
	})
}
