// Package views renders the users page as templ components.
package views

import "strconv"

//go:generate templ generate

// AppID is the id of the element htmx swaps on every interaction.
const AppID = "app"

// deletePrompt is the question the browser asks before a delete.
const deletePrompt = "Delete this user?"

// AlertKind selects the styling of the alert box.
type AlertKind string

const (
	AlertError   AlertKind = "error"
	AlertConfirm AlertKind = "confirm"
)

// UserRow is one row of the users table.
type UserRow struct {
	ID    int64
	Name  string
	Email string
}

// FormView is the state of the form inputs.
type FormView struct {
	Name      string
	Email     string
	Editing   bool
	EditingID int64
}

// PageView provides data for the users page.
type PageView struct {
	Title string
	Users []UserRow
	Form  FormView
	Alert string
	Kind  AlertKind

	// PendingDelete is set when a delete awaits confirmation.
	PendingDelete *UserRow
}

func pageTitle(title string) string {
	if title == "" {
		return "Users"
	}
	return title
}

func alertClass(kind AlertKind) string {
	if kind == "" {
		kind = AlertError
	}
	return "alert " + string(kind)
}

// userPath returns the form route for action on the user with id.
func userPath(id int64, action string) string {
	return "/users/" + strconv.FormatInt(id, 10) + "/" + action
}

const pageCSS = `body{font-family:system-ui,sans-serif;max-width:48rem;margin:2rem auto;padding:0 1rem}` +
	`form{display:inline-flex;gap:.5rem;margin:.25rem 0}` +
	`table{width:100%;border-collapse:collapse;margin-top:1rem}` +
	`td,th{border-bottom:1px solid #ddd;padding:.4rem;text-align:left}` +
	`.alert{padding:.75rem;border-radius:.25rem;margin-bottom:1rem}` +
	`.alert.error{background:#fde2e1;color:#7a1410}` +
	`.alert.confirm{background:#fff4d6;color:#5c4200}` +
	`.empty{color:#666}`
