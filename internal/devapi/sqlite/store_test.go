package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dusk-indust/usercrud/internal/devapi"
	"github.com/dusk-indust/usercrud/internal/userapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestStore_CRUD(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	users, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	a, err := store.Create(ctx, userapi.UserInput{Name: "Ann", Email: "a@x.com"})
	require.NoError(t, err)
	b, err := store.Create(ctx, userapi.UserInput{Name: "Bob", Email: "b@x.com"})
	require.NoError(t, err)
	assert.Greater(t, b.ID, a.ID)

	_, err = store.Update(ctx, a.ID, userapi.UserInput{Name: "Anna", Email: "a@x.com"})
	require.NoError(t, err)

	users, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []userapi.User{
		{ID: a.ID, Name: "Anna", Email: "a@x.com"},
		{ID: b.ID, Name: "Bob", Email: "b@x.com"},
	}, users)

	require.NoError(t, store.Delete(ctx, a.ID))
	users, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestStore_NotFound(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	_, err := store.Update(ctx, 404, userapi.UserInput{Name: "x", Email: "y"})
	assert.ErrorIs(t, err, devapi.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, 404), devapi.ErrNotFound)
}

func TestStore_ReopenKeepsDataAndSkipsMigrations(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()
	_, err := store.Create(ctx, userapi.UserInput{Name: "Ann", Email: "a@x.com"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	users, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Ann", users[0].Name)
}

func TestExtractUp(t *testing.T) {
	sql := "-- +migrate Up\nCREATE TABLE a (x INT);\n-- +migrate Down\nDROP TABLE a;\n"
	assert.Equal(t, "\nCREATE TABLE a (x INT);\n", extractUp(sql))
	assert.Equal(t, "SELECT 1;", extractUp("SELECT 1;"))
}
