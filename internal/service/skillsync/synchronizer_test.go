package skillsync

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ykuchin/skillmarket/internal/domain"
	"github.com/ykuchin/skillmarket/internal/mocks"
)

func TestSyncSkills(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates missing titles", func(t *testing.T) {
		t.Parallel()
		st := mocks.NewStore()
		sync, err := NewSynchronizer(st, nil)
		require.NoError(t, err)

		created, skipped, err := sync.SyncSkills(ctx, map[string]int{
			"golang":     5,
			"postgresql": 3,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, created)
		assert.Equal(t, 0, skipped)

		titles := st.SkillTitles()
		sort.Strings(titles)
		assert.Equal(t, []string{"golang", "postgresql"}, titles)
	})

	t.Run("skips titles already in the catalog", func(t *testing.T) {
		t.Parallel()
		st := mocks.NewStore()
		existing, err := domain.NewSkill("golang")
		require.NoError(t, err)
		st.Seed(existing)

		sync, err := NewSynchronizer(st, nil)
		require.NoError(t, err)

		created, skipped, err := sync.SyncSkills(ctx, map[string]int{
			"golang": 5,
			"docker": 2,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, created)
		assert.Equal(t, 1, skipped)
		assert.Len(t, st.SkillTitles(), 2)
	})

	t.Run("rerun is a no-op", func(t *testing.T) {
		t.Parallel()
		st := mocks.NewStore()
		sync, err := NewSynchronizer(st, nil)
		require.NoError(t, err)

		skills := map[string]int{"golang": 5, "docker": 2, "kubernetes": 1}

		created, skipped, err := sync.SyncSkills(ctx, skills)
		require.NoError(t, err)
		assert.Equal(t, 3, created)
		assert.Equal(t, 0, skipped)

		// Redelivery of the same job must change nothing.
		created, skipped, err = sync.SyncSkills(ctx, skills)
		require.NoError(t, err)
		assert.Equal(t, 0, created)
		assert.Equal(t, 3, skipped)
		assert.Len(t, st.SkillTitles(), 3)
	})

	t.Run("empty map means no transaction", func(t *testing.T) {
		t.Parallel()
		st := mocks.NewStore()
		// A Begin would fail; an empty sync must never get that far.
		st.BeginErr = errors.New("begin should not be called")

		sync, err := NewSynchronizer(st, nil)
		require.NoError(t, err)

		created, skipped, err := sync.SyncSkills(ctx, map[string]int{})
		require.NoError(t, err)
		assert.Equal(t, 0, created)
		assert.Equal(t, 0, skipped)
	})

	t.Run("invalid title rolls back the whole run", func(t *testing.T) {
		t.Parallel()
		st := mocks.NewStore()
		sync, err := NewSynchronizer(st, nil)
		require.NoError(t, err)

		_, _, err = sync.SyncSkills(ctx, map[string]int{
			"golang": 5,
			"":       1,
		})
		require.Error(t, err)

		// The valid title must not survive the failed run.
		assert.Empty(t, st.SkillTitles())
	})

	t.Run("commit failure reports no counts", func(t *testing.T) {
		t.Parallel()
		st := mocks.NewStore()
		st.CommitErr = errors.New("connection lost")

		sync, err := NewSynchronizer(st, nil)
		require.NoError(t, err)

		created, skipped, err := sync.SyncSkills(ctx, map[string]int{"golang": 5})
		require.Error(t, err)
		assert.Equal(t, 0, created)
		assert.Equal(t, 0, skipped)
		assert.Empty(t, st.SkillTitles())
	})
}

func TestNewSynchronizerRequiresFactory(t *testing.T) {
	t.Parallel()

	_, err := NewSynchronizer(nil, nil)
	assert.Error(t, err)
}
