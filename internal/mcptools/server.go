package mcptools

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// shutdownTimeout bounds the graceful shutdown; open streams are closed
// forcibly once it passes.
var shutdownTimeout = 5 * time.Second

// NewUsersMCPServer creates an MCP server with the 4 user tools registered,
// reporting version in its implementation info.
func NewUsersMCPServer(svc *UsersService, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "usercrud",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_users",
		Description: "Fetch every user (id, name, email) from the user service, in the order the service returns them.",
	}, svc.ListUsers)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_user",
		Description: "Create a user. Name and email must be non-blank. Returns the refreshed user list.",
	}, svc.CreateUser)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_user",
		Description: "Replace the name and email of the user with the given id. Returns the refreshed user list.",
	}, svc.UpdateUser)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_user",
		Description: "Delete the user with the given id. Nothing happens unless confirm is true. Returns the refreshed user list.",
	}, svc.DeleteUser)

	return server
}

// RunMCPServer serves the user tools over streamable HTTP on addr until ctx
// is cancelled.
func RunMCPServer(ctx context.Context, svc *UsersService, version, addr string) error {
	server := NewUsersMCPServer(svc, version)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Printf("mcp: listening on %s", ln.Addr())
	return serve(ctx, &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}, ln)
}

// serve runs httpServer on ln until ctx is cancelled. It returns once the
// server has shut down, closing connections still open after
// shutdownTimeout.
func serve(ctx context.Context, httpServer *http.Server, ln net.Listener) error {
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("mcp: shutdown: %v", err)
			if err := httpServer.Close(); err != nil {
				log.Printf("mcp: close: %v", err)
			}
		}
	}()

	if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-stopped
	return nil
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
