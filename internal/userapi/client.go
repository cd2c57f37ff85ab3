package userapi

import "context"

// Client is the interface for the remote UserService API.
type Client interface {
	// List fetches the whole users collection in server order.
	List(ctx context.Context) ([]User, error)

	// Create adds a user. The service assigns the ID.
	Create(ctx context.Context, in UserInput) (*User, error)

	// Update replaces name and email of the user with the given ID.
	Update(ctx context.Context, id int64, in UserInput) (*User, error)

	// Delete removes the user with the given ID.
	Delete(ctx context.Context, id int64) error
}
