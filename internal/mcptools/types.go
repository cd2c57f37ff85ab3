package mcptools

// --- MCP Tool Types for the users server ---
// Each tool drives a controller.UserList, so an agent goes through the same
// validation, confirmation and refresh rules as the form.

// UserOutput is one record of the users collection.
type UserOutput struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UsersOutput is the collection as fetched after a tool ran.
type UsersOutput struct {
	Users []UserOutput `json:"users"`
	Count int          `json:"count"`
}

// ListUsersInput is the input for the list_users MCP tool.
type ListUsersInput struct{}

// CreateUserInput is the input for the create_user MCP tool.
type CreateUserInput struct {
	Name  string `json:"name" jsonschema:"the user's name (required, non-blank)"`
	Email string `json:"email" jsonschema:"the user's email (required, non-blank)"`
}

// UpdateUserInput is the input for the update_user MCP tool.
type UpdateUserInput struct {
	ID    int64  `json:"id" jsonschema:"id of the user to update"`
	Name  string `json:"name" jsonschema:"new name (required, non-blank)"`
	Email string `json:"email" jsonschema:"new email (required, non-blank)"`
}

// DeleteUserInput is the input for the delete_user MCP tool.
type DeleteUserInput struct {
	ID      int64 `json:"id" jsonschema:"id of the user to delete"`
	Confirm bool  `json:"confirm" jsonschema:"must be true to delete; false is a no-op"`
}

// DeleteUserOutput is the result of the delete_user MCP tool.
type DeleteUserOutput struct {
	Deleted bool         `json:"deleted"`
	Users   []UserOutput `json:"users"`
	Count   int          `json:"count"`
}
