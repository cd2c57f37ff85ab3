package userapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_PreservesServerOrder(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":9,"name":"Zoe","email":"z@x.com"},{"id":2,"name":"Ann","email":"a@x.com"}]`))
	}))
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	users, err := client.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []User{
		{ID: 9, Name: "Zoe", Email: "z@x.com"},
		{ID: 2, Name: "Ann", Email: "a@x.com"},
	}, users)
}

func TestList_EmptyArray(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	users, err := NewHTTPClient(ts.URL).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestList_AcceptsNombre(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"nombre":"Lucía","email":"l@x.com"}]`))
	}))
	defer ts.Close()

	users, err := NewHTTPClient(ts.URL).List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Lucía", users[0].Name)
}

func TestList_MalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer ts.Close()

	users, err := NewHTTPClient(ts.URL).List(context.Background())
	require.Error(t, err)
	assert.Nil(t, users)
	assert.Contains(t, err.Error(), "decode list response")
}

func TestCreate_SendsBody(t *testing.T) {
	var got map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":12,"name":"Ann","email":"ann@x.com"}`))
	}))
	defer ts.Close()

	created, err := NewHTTPClient(ts.URL).Create(context.Background(), UserInput{Name: "Ann", Email: "ann@x.com"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "Ann", "email": "ann@x.com"}, got)
	assert.Equal(t, int64(12), created.ID)
}

func TestCreate_NombreField(t *testing.T) {
	var got map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	client := NewHTTPClient(ts.URL, WithNameField(NameFieldNombre))
	_, err := client.Create(context.Background(), UserInput{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"nombre": "Ana", "email": "ana@x.com"}, got)
}

func TestCreate_IgnoresNonJSONResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`created`))
	}))
	defer ts.Close()

	created, err := NewHTTPClient(ts.URL).Create(context.Background(), UserInput{Name: "A", Email: "a@x.com"})
	require.NoError(t, err)
	require.NotNil(t, created)
}

func TestUpdate_TargetsID(t *testing.T) {
	var got map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/5", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":5,"name":"Bobby","email":"b@x.com"}`))
	}))
	defer ts.Close()

	updated, err := NewHTTPClient(ts.URL+"/").Update(context.Background(), 5, UserInput{Name: "Bobby", Email: "b@x.com"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "Bobby", "email": "b@x.com"}, got)
	assert.Equal(t, &User{ID: 5, Name: "Bobby", Email: "b@x.com"}, updated)
}

func TestDelete_TargetsID(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/3", r.URL.Path)
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	require.NoError(t, NewHTTPClient(ts.URL).Delete(context.Background(), 3))
	assert.True(t, called)
}

func TestInvalidID(t *testing.T) {
	client := NewHTTPClient("http://127.0.0.1:1")

	_, err := client.Update(context.Background(), 0, UserInput{Name: "a", Email: "b"})
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.ErrorIs(t, client.Delete(context.Background(), -1), ErrInvalidID)
}

func TestAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such user", http.StatusNotFound)
	}))
	defer ts.Close()

	err := NewHTTPClient(ts.URL).Delete(context.Background(), 44)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "delete", apiErr.Op)
	assert.Equal(t, http.MethodDelete, apiErr.Method)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "no such user", apiErr.Body)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "userapi: delete: HTTP 404: no such user", err.Error())
}

func TestTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := NewHTTPClient(url).List(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "userapi: list")
}

func TestWithTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL, WithTimeout(20*time.Millisecond)).List(context.Background())
	require.Error(t, err)
}

func TestNewHTTPClient_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewHTTPClient("").BaseURL())
	assert.Equal(t, "http://x", NewHTTPClient("http://x///").BaseURL())
}

func TestValidNameField(t *testing.T) {
	assert.NoError(t, ValidNameField("name"))
	assert.NoError(t, ValidNameField("nombre"))
	assert.Error(t, ValidNameField("full_name"))
}
