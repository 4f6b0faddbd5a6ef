package controllers

import (
	"log"
	"net/http"
	"time"

	"likedposts/app/middleware"
	"likedposts/app/services"
	"likedposts/app/views"
)

// SessionController handles logging in with a backend token and logging out
type SessionController struct {
	sessions *services.SessionService
	renderer *views.Renderer
	ttl      time.Duration
}

// NewSessionController creates a new SessionController
func NewSessionController(sessions *services.SessionService, renderer *views.Renderer, ttl time.Duration) *SessionController {
	return &SessionController{sessions: sessions, renderer: renderer, ttl: ttl}
}

// New displays the login form
func (sc *SessionController) New(w http.ResponseWriter, r *http.Request) {
	sc.renderLogin(w, r, http.StatusOK, views.LoginPage{})
}

// Create stores the submitted token and starts a session
func (sc *SessionController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	label := r.FormValue("label")

	session, err := sc.sessions.Login("", r.FormValue("token"), label)
	if err != nil {
		if msg, ok := services.LoginMessage(err); ok {
			sc.renderLogin(w, r, http.StatusUnprocessableEntity, views.LoginPage{Error: msg, Label: label})
			return
		}
		log.Printf("login: %v", err)
		sendError(w, r, "Failed to store session", http.StatusInternalServerError)
		return
	}

	if old := middleware.SessionID(r.Context()); old != "" {
		if err := sc.sessions.Logout(old); err != nil {
			log.Printf("login: dropping previous session: %v", err)
		}
	}

	middleware.SetSessionCookie(w, r, session.ID, sc.ttl)
	http.Redirect(w, r, "/liked", http.StatusSeeOther)
}

// Destroy forgets the current session
func (sc *SessionController) Destroy(w http.ResponseWriter, r *http.Request) {
	if err := sc.sessions.Logout(middleware.SessionID(r.Context())); err != nil {
		log.Printf("logout: %v", err)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (sc *SessionController) renderLogin(w http.ResponseWriter, r *http.Request, status int, page views.LoginPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := sc.renderer.Render(w, "login", page); err != nil {
		log.Printf("render login: %v", err)
	}
}
