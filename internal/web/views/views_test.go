package views

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, view PageView, full bool) string {
	t.Helper()
	var b strings.Builder
	c := Main(view)
	if full {
		c = Page(view)
	}
	require.NoError(t, c.Render(context.Background(), &b))
	return b.String()
}

func TestPage_WrapsMain(t *testing.T) {
	html := render(t, PageView{Title: "CRUD Users"}, true)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<title>CRUD Users</title>")
	assert.Contains(t, html, `<main id="app">`)
	assert.Contains(t, html, "htmx.org")
}

func TestMain_RowsInOrderAndEscaped(t *testing.T) {
	html := render(t, PageView{Users: []UserRow{
		{ID: 9, Name: "<b>Zoe</b>", Email: "z@x.com"},
		{ID: 2, Name: "Ann", Email: "a@x.com"},
	}}, false)

	assert.NotContains(t, html, "<b>Zoe</b>")
	assert.Contains(t, html, "&lt;b&gt;Zoe&lt;/b&gt;")
	assert.Less(t, strings.Index(html, `id="user-9"`), strings.Index(html, `id="user-2"`))
	assert.Contains(t, html, `hx-post="/users/9/edit"`)
	assert.Contains(t, html, `hx-post="/users/2/delete"`)
	assert.Contains(t, html, `hx-confirm="Delete this user?"`)
}

func TestMain_EmptyCollection(t *testing.T) {
	html := render(t, PageView{}, false)
	assert.Contains(t, html, "No users yet.")
	assert.NotContains(t, html, "<table>")
}

func TestMain_FormModes(t *testing.T) {
	creating := render(t, PageView{}, false)
	assert.Contains(t, creating, ">Add</button>")
	assert.NotContains(t, creating, `data-editing-id`)

	editing := render(t, PageView{Form: FormView{Name: "Bob", Email: "b@x.com", Editing: true, EditingID: 5}}, false)
	assert.Contains(t, editing, ">Update</button>")
	assert.Contains(t, editing, `data-editing-id="5"`)
	assert.Contains(t, editing, `name="name" placeholder="Name" value="Bob"`)
	assert.Contains(t, editing, `value="b@x.com"`)
}

func TestMain_Alert(t *testing.T) {
	html := render(t, PageView{Alert: "All fields are required"}, false)
	assert.Contains(t, html, `class="alert error" role="alert">All fields are required</div>`)
}

func TestMain_PendingDelete(t *testing.T) {
	html := render(t, PageView{PendingDelete: &UserRow{ID: 3, Name: "Cleo", Email: "c@x.com"}}, false)

	assert.Contains(t, html, `role="alertdialog"`)
	assert.Contains(t, html, "Delete Cleo (c@x.com)?")
	assert.Contains(t, html, `name="confirm" value="yes"`)
	assert.Contains(t, html, `name="confirm" value="no"`)
}

func TestMain_FormValuesEscapedInAttributes(t *testing.T) {
	html := render(t, PageView{Form: FormView{Name: `Ann" autofocus onfocus="x()`, Email: "a@x.com"}}, false)

	assert.NotContains(t, html, `onfocus="x()"`)
	assert.Contains(t, html, `value="Ann&#34; autofocus onfocus=&#34;x()"`)
}
