package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListing(t *testing.T) {
	t.Parallel()

	buyer := uuid.New()

	t.Run("starts pending", func(t *testing.T) {
		t.Parallel()
		listing, err := NewListing("Logo design", "A logo", 15000, buyer, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, ListingStatusPending, listing.Status)
		assert.Equal(t, buyer, listing.BuyerID)
		assert.Nil(t, listing.CategoryID)
		assert.Nil(t, listing.DeliveryDays)
	})

	t.Run("zero price is allowed", func(t *testing.T) {
		t.Parallel()
		_, err := NewListing("Free consult", "First call is free", 0, buyer, nil, nil)
		assert.NoError(t, err)
	})

	tests := []struct {
		name    string
		title   string
		desc    string
		price   int64
		buyer   uuid.UUID
		wantErr error
	}{
		{name: "empty title", title: "", desc: "d", price: 1, buyer: buyer, wantErr: ErrEmptyListingTitle},
		{name: "empty description", title: "t", desc: "", price: 1, buyer: buyer, wantErr: ErrEmptyListingDescription},
		{name: "negative price", title: "t", desc: "d", price: -1, buyer: buyer, wantErr: ErrNegativeListingPrice},
		{name: "no buyer", title: "t", desc: "d", price: 1, buyer: uuid.Nil, wantErr: ErrEmptyListingBuyer},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewListing(tc.title, tc.desc, tc.price, tc.buyer, nil, nil)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestListingValidateStatus(t *testing.T) {
	t.Parallel()

	listing, err := NewListing("Logo design", "A logo", 100, uuid.New(), nil, nil)
	require.NoError(t, err)

	for _, status := range []ListingStatus{
		ListingStatusPending,
		ListingStatusActive,
		ListingStatusCompleted,
		ListingStatusCancelled,
	} {
		listing.Status = status
		assert.NoError(t, listing.Validate(), string(status))
	}

	listing.Status = "archived"
	assert.ErrorIs(t, listing.Validate(), ErrInvalidListingStatus)
}

func TestListingOwnedBy(t *testing.T) {
	t.Parallel()

	buyer := uuid.New()
	listing, err := NewListing("Logo design", "A logo", 100, buyer, nil, nil)
	require.NoError(t, err)

	assert.True(t, listing.OwnedBy(buyer, RoleUser))
	assert.False(t, listing.OwnedBy(uuid.New(), RoleUser))
	assert.False(t, listing.OwnedBy(uuid.New(), RoleExecuter))

	// Admins own everything.
	assert.True(t, listing.OwnedBy(uuid.New(), RoleAdmin))
}

func TestNewProvider(t *testing.T) {
	t.Parallel()

	t.Run("nil skills become an empty map", func(t *testing.T) {
		t.Parallel()
		provider, err := NewProvider(uuid.New(), nil)
		require.NoError(t, err)
		assert.NotNil(t, provider.Skills)
		assert.Empty(t, provider.Skills)
	})

	t.Run("requires an account", func(t *testing.T) {
		t.Parallel()
		_, err := NewProvider(uuid.Nil, nil)
		assert.ErrorIs(t, err, ErrEmptyProviderAccount)
	})

	t.Run("rejects empty skill titles", func(t *testing.T) {
		t.Parallel()
		_, err := NewProvider(uuid.New(), map[string]int{"": 3})
		assert.ErrorIs(t, err, ErrEmptySkillTitle)
	})
}

func TestNewSkill(t *testing.T) {
	t.Parallel()

	skill, err := NewSkill("golang")
	require.NoError(t, err)
	assert.Equal(t, "golang", skill.Title)

	_, err = NewSkill("")
	assert.Error(t, err)
}
