package devapi

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dusk-indust/usercrud/internal/userapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*httptest.Server, *MemStore) {
	t.Helper()
	store := NewMemStore()
	ts := httptest.NewServer(NewHandler(store))
	t.Cleanup(ts.Close)
	return ts, store
}

// TestHandler_ClientRoundTrip drives the handler with the real client, so
// both sides of the REST contract are checked together.
func TestHandler_ClientRoundTrip(t *testing.T) {
	ts, _ := newTestService(t)
	client := userapi.NewHTTPClient(ts.URL)
	ctx := context.Background()

	created, err := client.Create(ctx, userapi.UserInput{Name: "Ann", Email: "ann@x.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	_, err = client.Update(ctx, created.ID, userapi.UserInput{Name: "Anna", Email: "ann@x.com"})
	require.NoError(t, err)

	users, err := client.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []userapi.User{{ID: 1, Name: "Anna", Email: "ann@x.com"}}, users)

	require.NoError(t, client.Delete(ctx, created.ID))
	users, err = client.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestHandler_AcceptsNombre(t *testing.T) {
	ts, store := newTestService(t)
	client := userapi.NewHTTPClient(ts.URL, userapi.WithNameField(userapi.NameFieldNombre))

	_, err := client.Create(context.Background(), userapi.UserInput{Name: "Lucía", Email: "l@x.com"})
	require.NoError(t, err)

	users, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Lucía", users[0].Name)
}

func TestHandler_Errors(t *testing.T) {
	ts, _ := newTestService(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"blank name", http.MethodPost, "/", `{"name":" ","email":"a@x.com"}`, http.StatusBadRequest},
		{"missing email", http.MethodPost, "/", `{"name":"a"}`, http.StatusBadRequest},
		{"bad json", http.MethodPost, "/", `{`, http.StatusBadRequest},
		{"update unknown", http.MethodPut, "/9", `{"name":"a","email":"b"}`, http.StatusNotFound},
		{"delete unknown", http.MethodDelete, "/9", ``, http.StatusNotFound},
		{"bad id", http.MethodDelete, "/abc", ``, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		})
	}
}

func TestHandler_NotFoundSurfacesAsAPIError(t *testing.T) {
	ts, _ := newTestService(t)

	err := userapi.NewHTTPClient(ts.URL).Delete(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, userapi.IsNotFound(err))
}

func TestServe_ShutdownClosesStuckRequests(t *testing.T) {
	orig := shutdownTimeout
	shutdownTimeout = 100 * time.Millisecond
	t.Cleanup(func() { shutdownTimeout = orig })

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	entered := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, &http.Server{Handler: handler}, ln)
	}()

	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/users")
		if err == nil {
			resp.Body.Close()
		}
	}()
	<-entered

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestListenAndServe_BadAddr(t *testing.T) {
	err := ListenAndServe(context.Background(), "127.0.0.1:-1", NewHandler(NewMemStore()))
	assert.Error(t, err)
}
