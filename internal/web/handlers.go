package web

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/dusk-indust/usercrud/internal/controller"
	"github.com/dusk-indust/usercrud/internal/userapi"
	"github.com/dusk-indust/usercrud/internal/web/views"
)

// handleIndex fetches the collection and renders the page. Every page load
// refetches, so writes made by other clients show up on reload.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.refresh(w, r)
}

// handleList refreshes the collection and renders it.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.refresh(w, r)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	ctrl := s.sessions.controllerFor(w, r)
	if err := ctrl.LoadAll(r.Context()); err != nil {
		s.renderError(w, r, ctrl, err)
		return
	}
	renderView(w, r, http.StatusOK, s.view(ctrl))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctrl := s.sessions.controllerFor(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	err := ctrl.Submit(r.Context(), r.PostForm.Get("name"), r.PostForm.Get("email"))
	if err != nil {
		s.renderError(w, r, ctrl, err)
		return
	}
	s.done(w, r, ctrl)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	ctrl := s.sessions.controllerFor(w, r)
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, found := ctrl.Find(id)
	if !found {
		view := s.view(ctrl)
		view.Alert = "User not found"
		renderView(w, r, http.StatusNotFound, view)
		return
	}
	ctrl.BeginEdit(user)
	s.done(w, r, ctrl)
}

// handleDelete deletes once the request carries confirm=yes. confirm=no is a
// no-op; no answer at all renders a confirmation panel.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctrl := s.sessions.controllerFor(w, r)
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	answer := r.PostForm.Get("confirm")
	if answer == "" {
		view := s.view(ctrl)
		user, found := ctrl.Find(id)
		if !found {
			view.Alert = "User not found"
			renderView(w, r, http.StatusNotFound, view)
			return
		}
		view.PendingDelete = &views.UserRow{ID: user.ID, Name: user.Name, Email: user.Email}
		renderView(w, r, http.StatusOK, view)
		return
	}

	if _, err := ctrl.Delete(r.Context(), id, controller.Always(answer == "yes")); err != nil {
		s.renderError(w, r, ctrl, err)
		return
	}
	s.done(w, r, ctrl)
}

// done renders the state after a successful action. The controller has
// already refreshed the collection, so no further fetch is needed.
func (s *Server) done(w http.ResponseWriter, r *http.Request, ctrl *controller.UserList) {
	renderView(w, r, http.StatusOK, s.view(ctrl))
}

// renderError shows err in the alert box. Validation problems are the
// user's to fix; anything else is a failure of the UserService.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, ctrl *controller.UserList, err error) {
	status := http.StatusBadGateway
	var v *controller.ValidationError
	if errors.As(err, &v) {
		status = http.StatusUnprocessableEntity
	} else {
		log.Printf("web: %s %s: %v", r.Method, r.URL.Path, err)
	}

	view := s.view(ctrl)
	view.Alert = alertMessage(err)
	renderView(w, r, status, view)
}

func alertMessage(err error) string {
	var v *controller.ValidationError
	if errors.As(err, &v) {
		return v.Message
	}
	var apiErr *userapi.APIError
	if errors.As(err, &apiErr) {
		return "The user service rejected the request (HTTP " + strconv.Itoa(apiErr.StatusCode) + ")."
	}
	return "The user service is unreachable. Try again."
}

func (s *Server) view(ctrl *controller.UserList) views.PageView {
	users := ctrl.Users()
	rows := make([]views.UserRow, len(users))
	for i, u := range users {
		rows[i] = views.UserRow{ID: u.ID, Name: u.Name, Email: u.Email}
	}

	form := ctrl.Form()
	fv := views.FormView{Name: form.Name, Email: form.Email}
	if form.EditingID != nil {
		fv.Editing = true
		fv.EditingID = *form.EditingID
	}

	return views.PageView{
		Title: s.title,
		Users: rows,
		Form:  fv,
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
