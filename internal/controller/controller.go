// Package controller holds the state behind the users form: the last fetched
// collection, the two input values and the id of the record being edited.
package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dusk-indust/usercrud/internal/userapi"
)

// DeletePrompt is the question put to the Confirmer before a delete.
const DeletePrompt = "Delete this user?"

// Mode is the form's current state.
type Mode int

const (
	// ModeCreating submits a new record.
	ModeCreating Mode = iota

	// ModeEditing submits changes to the record in FormState.EditingID.
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeCreating:
		return "creating"
	case ModeEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// FormState is the content of the form inputs.
type FormState struct {
	Name  string
	Email string

	// EditingID is nil in create mode.
	EditingID *int64
}

// Mode derives the form mode from EditingID.
func (f FormState) Mode() Mode {
	if f.EditingID != nil {
		return ModeEditing
	}
	return ModeCreating
}

// UserList coordinates the form, the displayed collection and the calls to
// the UserService API. It is safe for concurrent use; API calls run outside
// the lock, so overlapping refreshes resolve to whichever lands last.
type UserList struct {
	client userapi.Client

	mu     sync.Mutex
	users  []userapi.User
	form   FormState
	loaded bool
}

// New creates a controller in create mode with an empty collection.
func New(client userapi.Client) *UserList {
	return &UserList{
		client: client,
		users:  []userapi.User{},
	}
}

// LoadAll fetches the full collection and replaces the local snapshot.
// On failure the previous snapshot is kept.
func (c *UserList) LoadAll(ctx context.Context) error {
	users, err := c.client.List(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	snapshot := make([]userapi.User, len(users))
	copy(snapshot, users)

	c.mu.Lock()
	c.users = snapshot
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Submit creates a user, or updates the one being edited, then refreshes
// the collection. Empty name or email fails with ErrFieldsRequired and
// issues no call. The typed values are kept in the form until the write
// succeeds.
func (c *UserList) Submit(ctx context.Context, name, email string) error {
	c.mu.Lock()
	c.form.Name = name
	c.form.Email = email
	var editingID *int64
	if c.form.EditingID != nil {
		id := *c.form.EditingID
		editingID = &id
	}
	c.mu.Unlock()

	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return ErrFieldsRequired
	}

	in := userapi.UserInput{Name: name, Email: email}
	if editingID != nil {
		if _, err := c.client.Update(ctx, *editingID, in); err != nil {
			return fmt.Errorf("update user %d: %w", *editingID, err)
		}
	} else {
		if _, err := c.client.Create(ctx, in); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
	}

	c.mu.Lock()
	c.form = FormState{}
	c.mu.Unlock()

	return c.LoadAll(ctx)
}

// BeginEdit switches the form to edit mode for user.
func (c *UserList) BeginEdit(user userapi.User) {
	id := user.ID

	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = FormState{
		Name:      user.Name,
		Email:     user.Email,
		EditingID: &id,
	}
}

// Delete asks confirm and, on a yes, deletes the user and refreshes the
// collection. It reports whether the delete was carried out.
func (c *UserList) Delete(ctx context.Context, id int64, confirm Confirmer) (bool, error) {
	if confirm == nil {
		return false, fmt.Errorf("delete user %d: %w", id, ErrNoConfirmer)
	}
	ok, err := confirm.Confirm(ctx, DeletePrompt)
	if err != nil {
		return false, fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return false, nil
	}
	if err := c.client.Delete(ctx, id); err != nil {
		return false, fmt.Errorf("delete user %d: %w", id, err)
	}
	return true, c.LoadAll(ctx)
}

// Users returns a copy of the last fetched collection.
func (c *UserList) Users() []userapi.User {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]userapi.User, len(c.users))
	copy(out, c.users)
	return out
}

// Loaded reports whether a LoadAll has succeeded at least once.
func (c *UserList) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Find returns the user with id from the current snapshot.
func (c *UserList) Find(id int64) (userapi.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, u := range c.users {
		if u.ID == id {
			return u, true
		}
	}
	return userapi.User{}, false
}

// Form returns a copy of the form state.
func (c *UserList) Form() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := c.form
	if f.EditingID != nil {
		id := *f.EditingID
		f.EditingID = &id
	}
	return f
}

// Mode returns the current form mode.
func (c *UserList) Mode() Mode {
	return c.Form().Mode()
}
