// internal/infra/web/handlers.go
package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"cyclesync/internal/app"
	"cyclesync/internal/domain/auth"
	"cyclesync/internal/domain/cycle"
	"cyclesync/internal/domain/notify"

	"github.com/sirupsen/logrus"
)

const msgConfirmEmail = "Check your email to confirm your account, then sign in."

type feature struct {
	Title       string
	Description string
}

var landingFeatures = []feature{
	{"Cycle Tracking", "Smart menstrual cycle tracking with personalized insights"},
	{"Symptom Logging", "Track symptoms and get phase-specific recommendations"},
	{"Nutrition Guide", "Personalized nutrition advice for each cycle phase"},
	{"Partner Support", "Connect with partners for better understanding and support"},
}

type authPage struct {
	Notifications []notify.Notification
}

type dashboardPage struct {
	Email         string
	Loading       bool
	LoadingText   string
	EmptyText     string
	Cycles        []*cycle.Cycle
	Selected      string
	Notifications []notify.Notification
}

type cyclesResponse struct {
	State         app.ViewState         `json:"state"`
	Cycles        []*cycle.Cycle        `json:"cycles"`
	Notifications []notify.Notification `json:"notifications"`
}

type startCycleRequest struct {
	StartDate string `json:"start_date"`
}

func (s *Server) requestLogger(r *http.Request, handler string) *logrus.Entry {
	return s.logger.WithFields(logrus.Fields{
		"handler":    handler,
		"request_id": requestID(r),
	})
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "landing.html", landingFeatures)
}

func (s *Server) handleAuthPage(w http.ResponseWriter, r *http.Request) {
	page := authPage{Notifications: s.sessions.Flashes(r)}
	if err := s.sessions.Save(w, r); err != nil {
		s.requestLogger(r, "auth_page").WithError(err).Warn("Failed to save session")
	}
	s.render(w, r, "auth.html", page)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	logCtx := s.requestLogger(r, "signin")
	email, password := credentials(r)

	session, err := s.provider.SignInWithPassword(r.Context(), email, password)
	if err != nil {
		logCtx.WithError(err).Warn("Sign in failed")
		s.flashErrorAndRedirect(w, r, app.MessageOf(err), "/auth")
		return
	}
	if err := s.sessions.SetSession(w, r, session); err != nil {
		logCtx.WithError(err).Error("Failed to store session")
		s.flashErrorAndRedirect(w, r, "Could not start your session.", "/auth")
		return
	}
	logCtx.WithField("user_id", session.User.ID).Info("User signed in")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	logCtx := s.requestLogger(r, "signup")
	email, password := credentials(r)

	session, err := s.provider.SignUp(r.Context(), email, password)
	if err != nil {
		logCtx.WithError(err).Warn("Sign up failed")
		s.flashErrorAndRedirect(w, r, app.MessageOf(err), "/auth")
		return
	}
	if session == nil {
		s.sessions.Notifier(r).Notify(r.Context(), notify.Notification{
			Title:       app.TitleSuccess,
			Description: msgConfirmEmail,
			Severity:    notify.SeverityDefault,
		})
		s.saveAndRedirect(w, r, "/auth")
		return
	}
	if err := s.sessions.SetSession(w, r, session); err != nil {
		logCtx.WithError(err).Error("Failed to store session")
		s.flashErrorAndRedirect(w, r, "Could not start your session.", "/auth")
		return
	}
	logCtx.WithField("user_id", session.User.ID).Info("User signed up")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	logCtx := s.requestLogger(r, "signout")
	accessToken, _ := s.sessions.Tokens(r)
	if accessToken != "" {
		if err := s.provider.SignOut(r.Context(), accessToken); err != nil {
			logCtx.WithError(err).Warn("Remote sign out failed, clearing local session anyway")
		}
	}
	if err := s.sessions.ClearSession(w, r); err != nil {
		logCtx.WithError(err).Error("Failed to clear session")
	}
	http.Redirect(w, r, "/auth", http.StatusSeeOther)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	logCtx := s.requestLogger(r, "dashboard")
	current := &notify.Recorder{}
	dash := app.NewDashboard(s.cycles, current, cycle.Today(s.loc), logCtx)
	if d, err := cycle.ParseDate(r.URL.Query().Get("date")); err == nil {
		dash.Select(d)
	}
	dash.Load(r.Context())

	page := dashboardPage{
		Loading:       dash.Loading(),
		LoadingText:   app.MsgLoadingHistory,
		EmptyText:     app.MsgNoCycles,
		Cycles:        dash.Cycles(),
		Selected:      dash.Selected().String(),
		Notifications: append(s.sessions.Flashes(r), current.Notifications()...),
	}
	if u, ok := auth.UserFromContext(r.Context()); ok {
		page.Email = u.Email
	}
	if err := s.sessions.Save(w, r); err != nil {
		logCtx.WithError(err).Warn("Failed to save session")
	}
	s.render(w, r, "dashboard.html", page)
}

func (s *Server) handleStartCycle(w http.ResponseWriter, r *http.Request) {
	logCtx := s.requestLogger(r, "start_cycle")
	date, err := s.parseStartDate(r.FormValue("start_date"))
	if err != nil {
		logCtx.WithError(err).Warn("Invalid start date")
		s.flashErrorAndRedirect(w, r, err.Error(), "/dashboard")
		return
	}

	sinks := notify.Fanout{s.sessions.Notifier(r), s.partner}
	dash := app.NewDashboard(s.cycles, sinks, cycle.Today(s.loc), logCtx)
	dash.Select(date)
	dash.RecordNewCycle(r.Context()) // the redirected GET loads the history

	s.saveAndRedirect(w, r, "/dashboard?date="+date.String())
}

func (s *Server) handleAPIListCycles(w http.ResponseWriter, r *http.Request) {
	rec := &notify.Recorder{}
	dash := app.NewDashboard(s.cycles, rec, cycle.Today(s.loc), s.requestLogger(r, "api_list_cycles"))
	dash.Load(r.Context())
	writeJSON(w, http.StatusOK, cyclesResponse{
		State:         dash.State(),
		Cycles:        dash.Cycles(),
		Notifications: rec.Notifications(),
	})
}

func (s *Server) handleAPIStartCycle(w http.ResponseWriter, r *http.Request) {
	logCtx := s.requestLogger(r, "api_start_cycle")
	var req startCycleRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
	}
	date, err := s.parseStartDate(req.StartDate)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	rec := &notify.Recorder{}
	dash := app.NewDashboard(s.cycles, notify.Fanout{rec, s.partner}, cycle.Today(s.loc), logCtx)
	dash.Select(date)
	dash.Load(r.Context())
	dash.StartNewCycle(r.Context())

	writeJSON(w, http.StatusOK, cyclesResponse{
		State:         dash.State(),
		Cycles:        dash.Cycles(),
		Notifications: rec.Notifications(),
	})
}

// parseStartDate defaults an empty value to today.
func (s *Server) parseStartDate(v string) (cycle.Date, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return cycle.Today(s.loc), nil
	}
	return cycle.ParseDate(v)
}

func (s *Server) flashErrorAndRedirect(w http.ResponseWriter, r *http.Request, msg, to string) {
	s.sessions.Notifier(r).Notify(r.Context(), notify.Notification{
		Title:       app.TitleError,
		Description: msg,
		Severity:    notify.SeverityDestructive,
	})
	s.saveAndRedirect(w, r, to)
}

func (s *Server) saveAndRedirect(w http.ResponseWriter, r *http.Request, to string) {
	if err := s.sessions.Save(w, r); err != nil {
		s.requestLogger(r, "redirect").WithError(err).Warn("Failed to save session")
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func credentials(r *http.Request) (email, password string) {
	return strings.TrimSpace(r.PostFormValue("email")), r.PostFormValue("password")
}
