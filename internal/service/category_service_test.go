package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ykuchin/skillmarket/internal/domain"
	"github.com/ykuchin/skillmarket/internal/mocks"
	"github.com/ykuchin/skillmarket/internal/store"
)

func TestCategoryCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates a category", func(t *testing.T) {
		t.Parallel()
		st := mocks.NewStore()
		svc, err := NewCategoryService(st, nil)
		require.NoError(t, err)

		category, err := svc.Create(ctx, "Design", "Logos, branding, illustration")
		require.NoError(t, err)
		assert.Equal(t, "Design", category.Title)
		assert.NotEqual(t, "", category.ID.String())
	})

	t.Run("duplicate title is a conflict", func(t *testing.T) {
		t.Parallel()
		st := mocks.NewStore()
		svc, err := NewCategoryService(st, nil)
		require.NoError(t, err)

		_, err = svc.Create(ctx, "Design", "")
		require.NoError(t, err)

		_, err = svc.Create(ctx, "Design", "different description")
		assert.True(t, store.IsConflict(err))
	})

	t.Run("empty title is rejected", func(t *testing.T) {
		t.Parallel()
		st := mocks.NewStore()
		svc, err := NewCategoryService(st, nil)
		require.NoError(t, err)

		_, err = svc.Create(ctx, "", "no title")
		assert.ErrorIs(t, err, domain.ErrEmptyCategoryTitle)
	})
}

func TestCategoryList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := mocks.NewStore()
	svc, err := NewCategoryService(st, nil)
	require.NoError(t, err)

	empty, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, title := range []string{"Design", "Development", "Writing"} {
		_, err := svc.Create(ctx, title, "")
		require.NoError(t, err)
	}

	categories, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 3)
}

func TestSkillList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := mocks.NewStore()
	for _, title := range []string{"golang", "docker"} {
		skill, err := domain.NewSkill(title)
		require.NoError(t, err)
		st.Seed(skill)
	}

	svc, err := NewSkillService(st, nil)
	require.NoError(t, err)

	skills, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, skills, 2)

	titles := []string{skills[0].Title, skills[1].Title}
	assert.ElementsMatch(t, []string{"golang", "docker"}, titles)
}
