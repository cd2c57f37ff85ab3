//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dusk-indust/usercrud/internal/devapi"
	"github.com/dusk-indust/usercrud/internal/devapi/sqlite"
	"github.com/dusk-indust/usercrud/internal/mcptools"
	"github.com/dusk-indust/usercrud/internal/userapi"
	"github.com/dusk-indust/usercrud/internal/web"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stack is a form server and an MCP session sharing one SQLite-backed
// UserService.
type stack struct {
	store   *sqlite.Store
	form    *httptest.Server
	browser *http.Client
	mcp     *mcp.ClientSession
}

func newStack(t *testing.T, nameField string) *stack {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	api := httptest.NewServer(devapi.NewHandler(store))
	t.Cleanup(api.Close)

	client := userapi.NewHTTPClient(api.URL, userapi.WithNameField(nameField))

	form := httptest.NewServer(web.NewServer(client).Handler())
	t.Cleanup(form.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	server := mcptools.NewUsersMCPServer(mcptools.NewUsersService(client), "e2e")
	st, ct := mcp.NewInMemoryTransports()
	ctx := context.Background()
	_, err = server.Connect(ctx, st, nil)
	require.NoError(t, err)
	session, err := mcp.NewClient(&mcp.Implementation{Name: "e2e", Version: "1.0.0"}, nil).Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })

	return &stack{store: store, form: form, browser: &http.Client{Jar: jar}, mcp: session}
}

func (s *stack) post(t *testing.T, path string, values url.Values) string {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, s.form.URL+path, strings.NewReader(values.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(web.HTMXRequestHeader, "true")

	resp, err := s.browser.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	return string(body)
}

func (s *stack) mcpUsers(t *testing.T) []mcptools.UserOutput {
	t.Helper()
	result, err := s.mcp.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "list_users",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	raw, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)
	var out mcptools.UsersOutput
	require.NoError(t, json.Unmarshal(raw, &out))
	return out.Users
}

func TestCRUD_E2E(t *testing.T) {
	for _, field := range []string{userapi.NameFieldName, userapi.NameFieldNombre} {
		t.Run(field, func(t *testing.T) {
			s := newStack(t, field)

			resp, err := s.browser.Get(s.form.URL + "/")
			require.NoError(t, err)
			resp.Body.Close()

			body := s.post(t, "/users", url.Values{"name": {"Ann"}, "email": {"ann@x.com"}})
			assert.Contains(t, body, "Ann")
			s.post(t, "/users", url.Values{"name": {"Bob"}, "email": {"bob@x.com"}})

			assert.Equal(t, []mcptools.UserOutput{
				{ID: 1, Name: "Ann", Email: "ann@x.com"},
				{ID: 2, Name: "Bob", Email: "bob@x.com"},
			}, s.mcpUsers(t), "MCP sees what the form wrote")

			body = s.post(t, "/users/2/edit", nil)
			assert.Contains(t, body, `data-editing-id="2"`)
			body = s.post(t, "/users", url.Values{"name": {"Bobby"}, "email": {"bob@x.com"}})
			assert.Contains(t, body, "Bobby")

			body = s.post(t, "/users/1/delete", url.Values{"confirm": {"no"}})
			assert.Contains(t, body, "Ann")

			body = s.post(t, "/users/1/delete", url.Values{"confirm": {"yes"}})
			assert.NotContains(t, body, "ann@x.com")

			stored, err := s.store.List(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []userapi.User{{ID: 2, Name: "Bobby", Email: "bob@x.com"}}, stored)
		})
	}
}

func TestMCPWritesShowOnReload_E2E(t *testing.T) {
	s := newStack(t, userapi.NameFieldName)

	resp, err := s.browser.Get(s.form.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()

	result, err := s.mcp.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "create_user",
		Arguments: mcptools.CreateUserInput{Name: "Cleo", Email: "c@x.com"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	resp, err = s.browser.Get(s.form.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Cleo")
}
