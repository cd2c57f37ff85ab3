// Package web serves the users form. Every browser session owns a
// controller.UserList; handlers translate form posts into controller calls
// and render the resulting state.
package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/dusk-indust/usercrud/internal/controller"
	"github.com/dusk-indust/usercrud/internal/userapi"
)

// DefaultTitle is the page heading.
const DefaultTitle = "CRUD Users"

// Server is the HTTP server that exposes the users form.
type Server struct {
	title       string
	sessions    *sessionStore
	logging     bool
	maxSessions int
	sessionIdle time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(s *Server) {
		s.title = title
	}
}

// WithRequestLog logs one line per request.
func WithRequestLog(enabled bool) Option {
	return func(s *Server) {
		s.logging = enabled
	}
}

// WithSessionLimits caps the number of live browser sessions and expires
// sessions idle for longer than idle. Zero values fall back to the defaults.
func WithSessionLimits(maxSessions int, idle time.Duration) Option {
	return func(s *Server) {
		if maxSessions > 0 {
			s.maxSessions = maxSessions
		}
		if idle > 0 {
			s.sessionIdle = idle
		}
	}
}

// NewServer creates a form server whose sessions talk to client.
func NewServer(client userapi.Client, opts ...Option) *Server {
	s := &Server{
		title:       DefaultTitle,
		maxSessions: DefaultMaxSessions,
		sessionIdle: DefaultSessionIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sessions = newSessionStore(s.maxSessions, s.sessionIdle, func() *controller.UserList {
		return controller.New(client)
	})
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /users", s.handleList)
	mux.HandleFunc("POST /users", s.handleSubmit)
	mux.HandleFunc("POST /users/{id}/edit", s.handleEdit)
	mux.HandleFunc("POST /users/{id}/delete", s.handleDelete)
	mux.HandleFunc("GET /healthz", handleHealth)

	if s.logging {
		return logRequests(mux)
	}
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("web: shutdown: %v", err)
			if err := httpServer.Close(); err != nil {
				log.Printf("web: close: %v", err)
			}
		}
	}()

	log.Printf("web: listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// statusRecorder captures the status code for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("web: %s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}
