package devapi

import (
	"context"
	"testing"

	"github.com/dusk-indust/usercrud/internal/userapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore_CRUD(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	users, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NotNil(t, users)

	a, err := s.Create(ctx, userapi.UserInput{Name: "Ann", Email: "a@x.com"})
	require.NoError(t, err)
	b, err := s.Create(ctx, userapi.UserInput{Name: "Bob", Email: "b@x.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	updated, err := s.Update(ctx, a.ID, userapi.UserInput{Name: "Anna", Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "Anna", updated.Name)

	users, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []userapi.User{
		{ID: 1, Name: "Anna", Email: "a@x.com"},
		{ID: 2, Name: "Bob", Email: "b@x.com"},
	}, users, "update keeps insertion order")

	require.NoError(t, s.Delete(ctx, a.ID))
	users, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []userapi.User{{ID: 2, Name: "Bob", Email: "b@x.com"}}, users)

	c, err := s.Create(ctx, userapi.UserInput{Name: "Cleo", Email: "c@x.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.ID, "ids are never reused")
}

func TestMemStore_NotFound(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	_, err := s.Update(ctx, 9, userapi.UserInput{Name: "x", Email: "y"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 9), ErrNotFound)
}

func TestMemStore_CancelledContext(t *testing.T) {
	s := NewMemStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.Create(ctx, userapi.UserInput{Name: "x", Email: "y"})
	assert.ErrorIs(t, err, context.Canceled)
}
