// Package devapi is a local implementation of the UserService REST contract,
// used for development and end-to-end tests of the form.
package devapi

import (
	"context"
	"errors"
	"sync"

	"github.com/dusk-indust/usercrud/internal/userapi"
)

// ErrNotFound is returned when no user has the requested ID.
var ErrNotFound = errors.New("devapi: user not found")

// Store persists users for the reference service.
type Store interface {
	List(ctx context.Context) ([]userapi.User, error)
	Create(ctx context.Context, in userapi.UserInput) (userapi.User, error)
	Update(ctx context.Context, id int64, in userapi.UserInput) (userapi.User, error)
	Delete(ctx context.Context, id int64) error
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// MemStore is a concurrency-safe in-memory Store. Users are kept in a map
// keyed by ID with a separate slice holding insertion order, so List is
// deterministic.
type MemStore struct {
	mu       sync.RWMutex
	users    map[int64]userapi.User
	orderIDs []int64
	nextID   int64
}

// NewMemStore returns an empty MemStore. IDs start at 1.
func NewMemStore() *MemStore {
	return &MemStore{
		users:    make(map[int64]userapi.User),
		orderIDs: make([]int64, 0),
	}
}

// List returns all users in insertion order.
func (s *MemStore) List(ctx context.Context) ([]userapi.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]userapi.User, 0, len(s.orderIDs))
	for _, id := range s.orderIDs {
		out = append(out, s.users[id])
	}
	return out, nil
}

// Create stores a new user under the next ID.
func (s *MemStore) Create(ctx context.Context, in userapi.UserInput) (userapi.User, error) {
	if err := ctx.Err(); err != nil {
		return userapi.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	u := userapi.User{ID: s.nextID, Name: in.Name, Email: in.Email}
	s.users[u.ID] = u
	s.orderIDs = append(s.orderIDs, u.ID)
	return u, nil
}

// Update replaces name and email of an existing user.
func (s *MemStore) Update(ctx context.Context, id int64, in userapi.UserInput) (userapi.User, error) {
	if err := ctx.Err(); err != nil {
		return userapi.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return userapi.User{}, ErrNotFound
	}
	u := userapi.User{ID: id, Name: in.Name, Email: in.Email}
	s.users[id] = u
	return u, nil
}

// Delete removes a user.
func (s *MemStore) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	for i, existing := range s.orderIDs {
		if existing == id {
			s.orderIDs = append(s.orderIDs[:i], s.orderIDs[i+1:]...)
			break
		}
	}
	return nil
}
