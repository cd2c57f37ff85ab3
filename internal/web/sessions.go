package web

import (
	"net/http"
	"time"

	"github.com/dusk-indust/usercrud/internal/controller"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// SessionCookie names the cookie that ties a browser to its form state.
const SessionCookie = "usercrud_session"

// Session limits used unless overridden with WithSessionLimits.
const (
	DefaultMaxSessions = 10000
	DefaultSessionIdle = 30 * time.Minute
)

// sessionStore keeps one controller per browser session. Sessions idle for
// longer than the TTL expire, and the least recently used one is evicted
// once the store is full.
type sessionStore struct {
	sessions *expirable.LRU[string, *controller.UserList]
	idle     time.Duration
	factory  func() *controller.UserList
}

func newSessionStore(maxSessions int, idle time.Duration, factory func() *controller.UserList) *sessionStore {
	return &sessionStore{
		sessions: expirable.NewLRU[string, *controller.UserList](maxSessions, nil, idle),
		idle:     idle,
		factory:  factory,
	}
}

// controllerFor returns the session's controller, creating the session and
// setting its cookie when the request carries none or an unknown one.
func (s *sessionStore) controllerFor(w http.ResponseWriter, r *http.Request) *controller.UserList {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if ctrl, ok := s.sessions.Get(cookie.Value); ok {
			// Re-adding restarts the idle timer.
			s.sessions.Add(cookie.Value, ctrl)
			return ctrl
		}
	}

	id := uuid.NewString()
	ctrl := s.factory()
	s.sessions.Add(id, ctrl)

	cookie := &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if s.idle > 0 {
		cookie.MaxAge = int(s.idle / time.Second)
	}
	http.SetCookie(w, cookie)
	return ctrl
}

// Len returns the number of sessions held, including expired ones not yet
// purged.
func (s *sessionStore) Len() int {
	return s.sessions.Len()
}
