package selection_test

import (
	"context"
	"errors"
	"testing"

	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/internal/models"
	"github.com/barjames/funeral-planner/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cat(t *testing.T, key string) models.Category {
	t.Helper()
	c, ok := models.Lookup(key)
	require.True(t, ok)
	return c
}

type failingBackend struct {
	selection.Backend
	saveErr error
	loadErr error
}

func (b *failingBackend) Load(ctx context.Context, key string) ([]byte, error) {
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	return b.Backend.Load(ctx, key)
}

func (b *failingBackend) Save(ctx context.Context, key string, data []byte) error {
	if b.saveErr != nil {
		return b.saveErr
	}
	return b.Backend.Save(ctx, key, data)
}

func TestGetAll_EveryCategoryPresent(t *testing.T) {
	t.Parallel()

	s := selection.Open(context.Background(), selection.NewMemoryBackend(), infralogger.NewNop())
	all := s.GetAll()

	require.Len(t, all, 5)
	for _, key := range models.CategoryKeys() {
		assert.NotNil(t, all[key], key)
		assert.Empty(t, all[key], key)
	}
	assert.Equal(t, 0, s.Total())
	assert.Empty(t, s.Payload())
}

func TestAdd_CapAndDuplicates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := selection.Open(ctx, selection.NewMemoryBackend(), infralogger.NewNop())
	readings := cat(t, models.Readings)

	res := s.Add(ctx, readings, "a", "Psalm 23")
	assert.Equal(t, selection.Added, res.Outcome)
	assert.Empty(t, res.Notice)
	require.NoError(t, res.Err)

	res = s.Add(ctx, readings, "a", "Psalm 23")
	assert.Equal(t, selection.AlreadyAdded, res.Outcome)
	assert.Equal(t, `"Psalm 23" is already in your wishlist for readings.`, res.Notice)

	assert.Equal(t, selection.Added, s.Add(ctx, readings, "b", "Romans 8").Outcome)

	res = s.Add(ctx, readings, "c", "John 14")
	assert.Equal(t, selection.LimitReached, res.Outcome)
	assert.Equal(t, "You can only add up to 2 items for the readings category.", res.Notice)

	assert.Equal(t, []selection.Entry{{ID: "a", Title: "Psalm 23"}, {ID: "b", Title: "Romans 8"}}, s.Items(readings))

	// Other categories are unaffected by the readings cap.
	assert.Equal(t, selection.Added, s.Add(ctx, cat(t, models.Music), "c", "Amazing Grace").Outcome)
	assert.Equal(t, 3, s.Total())
}

func TestState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := selection.Open(ctx, selection.NewMemoryBackend(), infralogger.NewNop())
	poems := cat(t, models.Poems)

	assert.Equal(t, selection.Addable, s.State(poems, "a"))
	s.Add(ctx, poems, "a", "A")
	assert.Equal(t, selection.InSelection, s.State(poems, "a"))
	assert.Equal(t, selection.Addable, s.State(poems, "b"))
	s.Add(ctx, poems, "b", "B")
	assert.Equal(t, selection.AtLimit, s.State(poems, "c"))
	assert.Equal(t, selection.InSelection, s.State(poems, "b"))

	assert.Equal(t, "Add to Wishlist", selection.Addable.Label())
	assert.Equal(t, "Added", selection.InSelection.Label())
	assert.Equal(t, "Limit Reached", selection.AtLimit.Label())
}

func TestRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := selection.Open(ctx, selection.NewMemoryBackend(), infralogger.NewNop())
	prayers := cat(t, models.Prayers)

	assert.Equal(t, selection.NotSelected, s.Remove(ctx, prayers, "missing").Outcome)

	s.Add(ctx, prayers, "a", "A")
	s.Add(ctx, prayers, "b", "B")
	assert.Equal(t, selection.Removed, s.Remove(ctx, prayers, "a").Outcome)
	assert.Equal(t, []selection.Entry{{ID: "b", Title: "B"}}, s.Items(prayers))

	// Freed capacity can be reused.
	assert.Equal(t, selection.Added, s.Add(ctx, prayers, "c", "C").Outcome)
}

func TestPersistsAcrossStores(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := selection.NewMemoryBackend()

	first := selection.Open(ctx, backend, infralogger.NewNop())
	first.Add(ctx, cat(t, models.Gospels), "g1", "John 11")
	first.Add(ctx, cat(t, models.Music), "m1", "Abide With Me")

	second := selection.Open(ctx, backend, infralogger.NewNop())
	assert.Equal(t, models.Wishlist{"gospels": {"g1"}, "music": {"m1"}}, second.Payload())

	second.Clear(ctx)
	third := selection.Open(ctx, backend, infralogger.NewNop())
	assert.Equal(t, 0, third.Total())
}

func TestLoad_CorruptOrUnreadableIsEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	corrupt := selection.NewMemoryBackend()
	require.NoError(t, corrupt.Save(ctx, selection.DefaultKey, []byte("{not json")))
	assert.Equal(t, 0, selection.Open(ctx, corrupt, infralogger.NewNop()).Total())

	unreadable := &failingBackend{Backend: selection.NewMemoryBackend(), loadErr: errors.New("permission denied")}
	s := selection.Open(ctx, unreadable, infralogger.NewNop())
	assert.Len(t, s.GetAll(), 5)
}

func TestLoad_SanitizesSavedState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := selection.NewMemoryBackend()
	require.NoError(t, backend.Save(ctx, selection.DefaultKey, []byte(`{
		"readings": [{"id":"a","title":"A"},{"id":"a","title":"A again"},{"id":"","title":"no id"},{"id":"b","title":"B"},{"id":"c","title":"C"}],
		"hymns": [{"id":"h","title":"H"}]
	}`)))

	s := selection.Open(ctx, backend, infralogger.NewNop())
	all := s.GetAll()

	assert.Equal(t, []selection.Entry{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}, all["readings"])
	assert.NotContains(t, all, "hymns")
	assert.Empty(t, all["poems"])
}

func TestPersistenceFailureKeepsChange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := &failingBackend{Backend: selection.NewMemoryBackend(), saveErr: errors.New("quota exceeded")}
	s := selection.Open(ctx, backend, infralogger.NewNop())
	music := cat(t, models.Music)

	res := s.Add(ctx, music, "m1", "Hallelujah")
	assert.Equal(t, selection.Added, res.Outcome)
	assert.Equal(t, selection.PersistenceNotice, res.Notice)
	require.ErrorIs(t, res.Err, selection.ErrPersistence)
	assert.Equal(t, selection.InSelection, s.State(music, "m1"))

	res = s.Remove(ctx, music, "m1")
	assert.Equal(t, selection.Removed, res.Outcome)
	require.ErrorIs(t, res.Err, selection.ErrPersistence)
	assert.Equal(t, 0, s.Total())
}

func TestWithKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := selection.NewMemoryBackend()

	s := selection.Open(ctx, backend, infralogger.NewNop(), selection.WithKey("kiosk-1"))
	s.Add(ctx, cat(t, models.Readings), "a", "A")

	data, err := backend.Load(ctx, "kiosk-1")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":"a"`)

	data, err = backend.Load(ctx, selection.DefaultKey)
	require.NoError(t, err)
	assert.Nil(t, data)
}
