package mcptools

import (
	"context"
	"fmt"

	"github.com/dusk-indust/usercrud/internal/controller"
	"github.com/dusk-indust/usercrud/internal/userapi"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// UsersService handles MCP tool calls. Every call gets a fresh controller,
// so a failed update cannot leave a later create in edit mode.
type UsersService struct {
	client userapi.Client
}

// NewUsersService creates a UsersService backed by client.
func NewUsersService(client userapi.Client) *UsersService {
	return &UsersService{client: client}
}

// ListUsers fetches the whole collection.
func (s *UsersService) ListUsers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListUsersInput,
) (*mcp.CallToolResult, UsersOutput, error) {
	ctrl := controller.New(s.client)
	if err := ctrl.LoadAll(ctx); err != nil {
		return nil, UsersOutput{}, err
	}
	return nil, usersOutput(ctrl), nil
}

// CreateUser submits a new user and returns the refreshed collection.
func (s *UsersService) CreateUser(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateUserInput,
) (*mcp.CallToolResult, UsersOutput, error) {
	ctrl := controller.New(s.client)
	if err := ctrl.Submit(ctx, input.Name, input.Email); err != nil {
		return nil, UsersOutput{}, err
	}
	return nil, usersOutput(ctrl), nil
}

// UpdateUser edits the user with input.ID and returns the refreshed
// collection.
func (s *UsersService) UpdateUser(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdateUserInput,
) (*mcp.CallToolResult, UsersOutput, error) {
	if input.ID <= 0 {
		return nil, UsersOutput{}, fmt.Errorf("id must be positive, got %d", input.ID)
	}
	ctrl := controller.New(s.client)
	ctrl.BeginEdit(userapi.User{ID: input.ID, Name: input.Name, Email: input.Email})
	if err := ctrl.Submit(ctx, input.Name, input.Email); err != nil {
		return nil, UsersOutput{}, err
	}
	return nil, usersOutput(ctrl), nil
}

// DeleteUser deletes the user when input.Confirm is set.
func (s *UsersService) DeleteUser(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteUserInput,
) (*mcp.CallToolResult, DeleteUserOutput, error) {
	if input.ID <= 0 {
		return nil, DeleteUserOutput{}, fmt.Errorf("id must be positive, got %d", input.ID)
	}
	ctrl := controller.New(s.client)
	deleted, err := ctrl.Delete(ctx, input.ID, controller.Always(input.Confirm))
	if err != nil {
		return nil, DeleteUserOutput{}, err
	}
	out := usersOutput(ctrl)
	return nil, DeleteUserOutput{
		Deleted: deleted,
		Users:   out.Users,
		Count:   out.Count,
	}, nil
}

func usersOutput(ctrl *controller.UserList) UsersOutput {
	users := ctrl.Users()
	out := UsersOutput{Users: make([]UserOutput, len(users)), Count: len(users)}
	for i, u := range users {
		out.Users[i] = UserOutput{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return out
}
