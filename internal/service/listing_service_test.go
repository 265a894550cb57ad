package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ykuchin/skillmarket/internal/domain"
	"github.com/ykuchin/skillmarket/internal/mocks"
	"github.com/ykuchin/skillmarket/internal/store"
)

func seedAccount(t *testing.T, st *mocks.Store, username, role string) *domain.Account {
	t.Helper()
	account, err := domain.NewAccount(username, username+"@example.com")
	require.NoError(t, err)
	account.Role = role
	account.HashedPassword = "irrelevant-for-these-tests"
	account.IsActive = true
	st.Seed(account)
	return account
}

func TestListingCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("caller becomes the buyer", func(t *testing.T) {
		t.Parallel()
		st := mocks.NewStore()
		alice := seedAccount(t, st, "alice", domain.RoleUser)

		svc, err := NewListingService(st, nil)
		require.NoError(t, err)

		listing, err := svc.Create(ctx, "alice", CreateListingInput{
			Title:       "Logo design",
			Description: "A logo for your project",
			PriceCents:  15000,
		})
		require.NoError(t, err)

		assert.Equal(t, alice.ID, listing.BuyerID)
		assert.Equal(t, domain.ListingStatusPending, listing.Status)
		assert.Equal(t, int64(15000), listing.PriceCents)
		assert.Equal(t, 1, st.ListingCount())
	})

	t.Run("unknown caller is not found", func(t *testing.T) {
		t.Parallel()
		st := mocks.NewStore()

		svc, err := NewListingService(st, nil)
		require.NoError(t, err)

		_, err = svc.Create(ctx, "nobody", CreateListingInput{
			Title:       "Logo design",
			Description: "A logo",
			PriceCents:  100,
		})
		assert.True(t, store.IsNotFound(err))
		assert.Equal(t, 0, st.ListingCount())
	})

	t.Run("dangling category reference is rejected", func(t *testing.T) {
		t.Parallel()
		st := mocks.NewStore()
		seedAccount(t, st, "alice", domain.RoleUser)

		svc, err := NewListingService(st, nil)
		require.NoError(t, err)

		missing := uuid.New()
		_, err = svc.Create(ctx, "alice", CreateListingInput{
			Title:       "Logo design",
			Description: "A logo",
			PriceCents:  100,
			CategoryID:  &missing,
		})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		t.Parallel()
		st := mocks.NewStore()
		seedAccount(t, st, "alice", domain.RoleUser)

		svc, err := NewListingService(st, nil)
		require.NoError(t, err)

		_, err = svc.Create(ctx, "alice", CreateListingInput{
			Title:       "Logo design",
			Description: "A logo",
			PriceCents:  -1,
		})
		assert.ErrorIs(t, err, domain.ErrNegativeListingPrice)
	})
}

func TestListingList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := mocks.NewStore()
	seedAccount(t, st, "alice", domain.RoleUser)

	svc, err := NewListingService(st, nil)
	require.NoError(t, err)

	for _, title := range []string{"one", "two", "three"} {
		_, err := svc.Create(ctx, "alice", CreateListingInput{
			Title:       title,
			Description: "desc",
			PriceCents:  100,
		})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, store.ListingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active := domain.ListingStatusActive
	none, err := svc.List(ctx, store.ListingFilter{Status: &active})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListingUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	setup := func(t *testing.T) (*ListingService, *mocks.Store, *domain.Listing) {
		t.Helper()
		st := mocks.NewStore()
		seedAccount(t, st, "alice", domain.RoleUser)
		seedAccount(t, st, "mallory", domain.RoleUser)
		seedAccount(t, st, "root", domain.RoleAdmin)

		svc, err := NewListingService(st, nil)
		require.NoError(t, err)

		listing, err := svc.Create(ctx, "alice", CreateListingInput{
			Title:       "Logo design",
			Description: "A logo",
			PriceCents:  15000,
		})
		require.NoError(t, err)
		return svc, st, listing
	}

	t.Run("owner can update", func(t *testing.T) {
		t.Parallel()
		svc, _, listing := setup(t)

		newTitle := "Better logo design"
		updated, err := svc.Update(ctx, "alice", domain.RoleUser, listing.ID, store.ListingPatch{Title: &newTitle})
		require.NoError(t, err)
		assert.Equal(t, "Better logo design", updated.Title)
		assert.Equal(t, int64(15000), updated.PriceCents)
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		t.Parallel()
		svc, _, listing := setup(t)

		newTitle := "hijacked"
		_, err := svc.Update(ctx, "mallory", domain.RoleUser, listing.ID, store.ListingPatch{Title: &newTitle})
		assert.ErrorIs(t, err, domain.ErrForbidden)

		current, err := svc.Get(ctx, listing.ID)
		require.NoError(t, err)
		assert.Equal(t, "Logo design", current.Title)
	})

	t.Run("admin can update anything", func(t *testing.T) {
		t.Parallel()
		svc, _, listing := setup(t)

		status := domain.ListingStatusCancelled
		updated, err := svc.Update(ctx, "root", domain.RoleAdmin, listing.ID, store.ListingPatch{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, domain.ListingStatusCancelled, updated.Status)
	})

	t.Run("absent listing is not found", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := setup(t)

		newTitle := "whatever"
		_, err := svc.Update(ctx, "alice", domain.RoleUser, uuid.New(), store.ListingPatch{Title: &newTitle})
		assert.True(t, store.IsNotFound(err))
	})
}

func TestListingDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	setup := func(t *testing.T) (*ListingService, *mocks.Store, *domain.Listing) {
		t.Helper()
		st := mocks.NewStore()
		seedAccount(t, st, "alice", domain.RoleUser)
		seedAccount(t, st, "mallory", domain.RoleUser)

		svc, err := NewListingService(st, nil)
		require.NoError(t, err)

		listing, err := svc.Create(ctx, "alice", CreateListingInput{
			Title:       "Logo design",
			Description: "A logo",
			PriceCents:  15000,
		})
		require.NoError(t, err)
		return svc, st, listing
	}

	t.Run("owner can delete", func(t *testing.T) {
		t.Parallel()
		svc, st, listing := setup(t)

		require.NoError(t, svc.Delete(ctx, "alice", domain.RoleUser, listing.ID))
		assert.Equal(t, 0, st.ListingCount())
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		t.Parallel()
		svc, st, listing := setup(t)

		err := svc.Delete(ctx, "mallory", domain.RoleUser, listing.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Equal(t, 1, st.ListingCount())
	})

	t.Run("deleting an absent listing is not found", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := setup(t)

		err := svc.Delete(ctx, "alice", domain.RoleUser, uuid.New())
		assert.True(t, store.IsNotFound(err))
	})
}
