package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/fms/internal/apperr"
	"github.com/starford/fms/internal/models"
	"github.com/starford/fms/internal/substrate"
)

// brokenSubstrate fails reads with an arbitrary backend error.
type brokenSubstrate struct{}

func (brokenSubstrate) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection reset")
}
func (brokenSubstrate) Set(context.Context, string, []byte) error {
	return errors.New("connection reset")
}
func (brokenSubstrate) Close() error { return nil }

func TestEnsureSeededIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mem := substrate.NewMemory()
	set := NewSet(mem, nil)

	require.NoError(t, set.EnsureSeeded(ctx))
	first := map[string][]byte{}
	for _, k := range set.Keys() {
		v, err := mem.Get(ctx, k)
		require.NoError(t, err, k)
		first[k] = v
	}
	writes := mem.Writes()
	assert.Equal(t, len(set.Keys()), writes)

	for i := 0; i < 3; i++ {
		require.NoError(t, set.EnsureSeeded(ctx))
	}
	assert.Equal(t, writes, mem.Writes(), "reseeding must not write")
	for _, k := range set.Keys() {
		v, err := mem.Get(ctx, k)
		require.NoError(t, err)
		assert.JSONEq(t, string(first[k]), string(v), k)
	}
}

func TestEnsureSeededKeepsExistingData(t *testing.T) {
	ctx := context.Background()
	mem := substrate.NewMemory()
	require.NoError(t, mem.Set(ctx, models.KeyStores, []byte(`[{"id":"X-1","name":"Only"}]`)))

	c := NewCollection(mem, models.KeyStores, DefaultStores(), nil)
	require.NoError(t, c.EnsureSeeded(ctx))

	got := c.List(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "X-1", got[0].ID)
}

func TestListServesDefaultsWhenUnavailable(t *testing.T) {
	ctx := context.Background()
	c := NewCollection(substrate.Unavailable(), models.KeyStores, DefaultStores(), nil)

	require.NoError(t, c.EnsureSeeded(ctx))
	got := c.List(ctx)
	assert.Len(t, got, len(DefaultStores()))

	// Writes are dropped, reads keep serving defaults.
	require.NoError(t, c.Upsert(ctx, models.Store{ID: "NEW", Name: "New"}))
	_, ok := c.Get(ctx, "NEW")
	assert.False(t, ok)
}

func TestListServesDefaultsOnReadError(t *testing.T) {
	c := NewCollection[models.Notice](brokenSubstrate{}, models.KeyNotices, DefaultNotices(), nil)
	assert.Len(t, c.List(context.Background()), len(DefaultNotices()))
}

func TestUpsertPropagatesWriteError(t *testing.T) {
	c := NewCollection[models.Notice](brokenSubstrate{}, models.KeyNotices, DefaultNotices(), nil)
	err := c.Upsert(context.Background(), models.Notice{ID: "NT-9"})
	assert.Error(t, err)
}

func TestDefaultsAreNotShared(t *testing.T) {
	ctx := context.Background()
	c := NewCollection(substrate.Unavailable(), models.KeyStores, DefaultStores(), nil)

	first := c.List(ctx)
	first[0].RiskFactors[0] = "mutated"
	first[0].Name = "mutated"

	second := c.List(ctx)
	assert.NotEqual(t, "mutated", second[0].Name)
	assert.NotEqual(t, "mutated", second[0].RiskFactors[0])
}

func TestUpsertIdentity(t *testing.T) {
	ctx := context.Background()
	set := NewSet(substrate.NewMemory(), nil)
	require.NoError(t, set.EnsureSeeded(ctx))

	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	cases := []models.ActionItem{
		{ID: "AC-002", Title: "replaced", Status: models.ActionCompleted, Priority: models.PriorityLow, CreatedAt: due},
		{ID: "AC-NEW", Title: "fresh", Status: models.ActionOpen, Priority: models.PriorityHigh, CreatedAt: due, DueDate: &due},
	}
	for _, want := range cases {
		require.NoError(t, set.Actions.Upsert(ctx, want))
		got, ok := set.Actions.Get(ctx, want.ID)
		require.True(t, ok, want.ID)
		assert.Equal(t, want.Title, got.Title)
		assert.Equal(t, want.Status, got.Status)
		assert.Equal(t, want.Priority, got.Priority)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
		if want.DueDate != nil {
			require.NotNil(t, got.DueDate)
			assert.True(t, want.DueDate.Equal(*got.DueDate))
		}
	}
}

func TestUpsertOrdering(t *testing.T) {
	ctx := context.Background()
	set := NewSet(substrate.NewMemory(), nil)
	require.NoError(t, set.EnsureSeeded(ctx))

	before := set.Stores.List(ctx)
	require.GreaterOrEqual(t, len(before), 3)

	// Existing id keeps its index.
	existing := before[2]
	existing.Name = "Renamed"
	require.NoError(t, set.Stores.Upsert(ctx, existing))
	after := set.Stores.List(ctx)
	assert.Equal(t, existing.ID, after[2].ID)
	assert.Equal(t, "Renamed", after[2].Name)
	assert.Len(t, after, len(before))

	// New id goes to the head.
	require.NoError(t, set.Stores.Upsert(ctx, models.Store{ID: "ST-NEW", Name: "New"}))
	after = set.Stores.List(ctx)
	assert.Equal(t, "ST-NEW", after[0].ID)
	assert.Len(t, after, len(before)+1)
	assert.Equal(t, existing.ID, after[3].ID)
}

func TestUpsertRejectsEmptyID(t *testing.T) {
	set := NewSet(substrate.NewMemory(), nil)
	err := set.Stores.Upsert(context.Background(), models.Store{Name: "nameless"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestUpsertIf(t *testing.T) {
	ctx := context.Background()
	set := NewSet(substrate.NewMemory(), nil)
	require.NoError(t, set.EnsureSeeded(ctx))

	_, err := set.Stores.UpsertIf(ctx, "ST-001", func(cur models.Store, found bool) (models.Store, error) {
		require.True(t, found)
		return models.Store{}, apperr.ErrConflict
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	got, _ := set.Stores.Get(ctx, "ST-001")
	assert.NotEqual(t, "renamed", got.Name)

	saved, err := set.Stores.UpsertIf(ctx, "ST-001", func(cur models.Store, found bool) (models.Store, error) {
		cur.Name = "renamed"
		return cur, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", saved.Name)
	got, _ = set.Stores.Get(ctx, "ST-001")
	assert.Equal(t, "renamed", got.Name)

	_, err = set.Stores.UpsertIf(ctx, "ST-NEW", func(cur models.Store, found bool) (models.Store, error) {
		assert.False(t, found)
		return models.Store{ID: "ST-OTHER", Name: "wrong id"}, nil
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, ok := set.Stores.Get(ctx, "ST-OTHER")
	assert.False(t, ok)

	_, err = set.Stores.UpsertIf(ctx, "ST-NEW", func(cur models.Store, found bool) (models.Store, error) {
		return models.Store{ID: "ST-NEW", Name: "new"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ST-NEW", set.Stores.List(ctx)[0].ID)
}

func TestGetMissing(t *testing.T) {
	set := NewSet(substrate.NewMemory(), nil)
	_, ok := set.Events.Get(context.Background(), "nope")
	assert.False(t, ok)
}

func TestCorruptCollectionIsReseeded(t *testing.T) {
	ctx := context.Background()
	mem := substrate.NewMemory()
	require.NoError(t, mem.Set(ctx, models.KeyEvents, []byte("{not json")))

	c := NewCollection(mem, models.KeyEvents, DefaultEvents(), nil)
	got := c.List(ctx)
	assert.Len(t, got, len(DefaultEvents()))

	raw, err := mem.Get(ctx, models.KeyEvents)
	require.NoError(t, err)
	assert.Equal(t, byte('['), raw[0], "corrupt value should have been replaced")
}

func TestNoticeDelete(t *testing.T) {
	ctx := context.Background()
	set := NewSet(substrate.NewMemory(), nil)
	require.NoError(t, set.EnsureSeeded(ctx))

	n := len(set.Notices.List(ctx))
	require.NoError(t, set.Notices.Delete(ctx, "NT-002"))
	_, ok := set.Notices.Get(ctx, "NT-002")
	assert.False(t, ok)
	assert.Len(t, set.Notices.List(ctx), n-1)

	err := set.Notices.Delete(ctx, "NT-002")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Len(t, set.Notices.List(ctx), n-1)
}

func TestNoticeDeleteMissingDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	mem := substrate.NewMemory()
	set := NewSet(mem, nil)
	require.NoError(t, set.EnsureSeeded(ctx))
	writes := mem.Writes()

	assert.ErrorIs(t, set.Notices.Delete(ctx, "missing"), apperr.ErrNotFound)
	assert.Equal(t, writes, mem.Writes())
}

func TestIncrementViewIsMonotonic(t *testing.T) {
	ctx := context.Background()
	set := NewSet(substrate.NewMemory(), nil)
	require.NoError(t, set.EnsureSeeded(ctx))

	start, ok := set.Notices.Get(ctx, "NT-001")
	require.True(t, ok)

	const k = 5
	prev := start.ViewCount
	for i := 0; i < k; i++ {
		n, err := set.Notices.IncrementView(ctx, "NT-001")
		require.NoError(t, err)
		assert.Greater(t, n.ViewCount, prev)
		prev = n.ViewCount
	}
	end, _ := set.Notices.Get(ctx, "NT-001")
	assert.Equal(t, start.ViewCount+k, end.ViewCount)

	_, err := set.Notices.IncrementView(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestBaselineSingleton(t *testing.T) {
	ctx := context.Background()
	mem := substrate.NewMemory()
	set := NewSet(mem, nil)

	assert.Equal(t, DefaultBaseline(), set.Baseline.Get(ctx), "unseeded reads serve the default")
	require.NoError(t, set.EnsureSeeded(ctx))

	custom := DefaultBaseline()
	custom.StandardValue = 90
	custom.ConsecutiveDays = 5
	require.NoError(t, set.Baseline.Save(ctx, custom))
	assert.Equal(t, custom, set.Baseline.Get(ctx))

	require.NoError(t, set.Baseline.EnsureSeeded(ctx))
	assert.Equal(t, custom, set.Baseline.Get(ctx), "seeding must not overwrite a saved record")

	require.NoError(t, mem.Set(ctx, models.KeyPolicyBaseline, []byte("garbage")))
	assert.Equal(t, DefaultBaseline(), set.Baseline.Get(ctx))
}

func TestSeedOverFileSubstrate(t *testing.T) {
	ctx := context.Background()
	fs, err := substrate.NewFS(t.TempDir())
	require.NoError(t, err)

	set := NewSet(fs, nil)
	require.NoError(t, set.EnsureSeeded(ctx))
	require.NoError(t, set.Notices.Upsert(ctx, models.Notice{ID: "NT-100", Title: "fresh"}))

	reopened := NewSet(fs, nil)
	got := reopened.Notices.List(ctx)
	require.NotEmpty(t, got)
	assert.Equal(t, "NT-100", got[0].ID)
}
