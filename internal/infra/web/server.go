// internal/infra/web/server.go
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"cyclesync/internal/app"
	"cyclesync/internal/domain/auth"
	"cyclesync/internal/domain/notify"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options are the collaborators of the web front end.
type Options struct {
	Provider auth.Provider
	Cycles   app.CycleAdapter
	Sessions *SessionStore
	Partner  notify.Notifier // optional
	Location *time.Location  // for "today"
	Logger   *logrus.Entry
}

// Server renders the pages and the JSON API.
type Server struct {
	provider auth.Provider
	guard    *app.SessionGuard
	cycles   app.CycleAdapter
	sessions *SessionStore
	partner  notify.Notifier
	loc      *time.Location
	logger   *logrus.Entry
	pages    *template.Template
}

func NewServer(opts Options) (*Server, error) {
	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &Server{
		provider: opts.Provider,
		guard:    app.NewSessionGuard(opts.Provider, opts.Logger.WithField("component", "session_guard")),
		cycles:   opts.Cycles,
		sessions: opts.Sessions,
		partner:  opts.Partner,
		loc:      loc,
		logger:   opts.Logger,
		pages:    pages,
	}, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(logRequests(s.logger))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)

	r.HandleFunc("/", s.handleLanding).Methods(http.MethodGet)
	r.HandleFunc("/auth", s.handleAuthPage).Methods(http.MethodGet)
	r.HandleFunc("/auth/signin", s.handleSignIn).Methods(http.MethodPost)
	r.HandleFunc("/auth/signup", s.handleSignUp).Methods(http.MethodPost)
	r.HandleFunc("/auth/signout", s.handleSignOut).Methods(http.MethodPost)

	dashboard := r.PathPrefix("/dashboard").Subrouter()
	dashboard.Use(s.requireSession(redirectToAuth))
	dashboard.HandleFunc("", s.handleDashboard).Methods(http.MethodGet)
	dashboard.HandleFunc("/cycles", s.handleStartCycle).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.requireSession(unauthorizedJSON))
	api.HandleFunc("/cycles", s.handleAPIListCycles).Methods(http.MethodGet)
	api.HandleFunc("/cycles", s.handleAPIStartCycle).Methods(http.MethodPost)

	return r
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages.ExecuteTemplate(w, name, data); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"template":   name,
			"request_id": requestID(r),
		}).Error("Failed to render page")
	}
}
