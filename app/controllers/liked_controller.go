package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"likedposts/app/client"
	"likedposts/app/middleware"
	"likedposts/app/models"
	"likedposts/app/services"
	"likedposts/app/views"

	"github.com/gorilla/mux"
)

// FetcherFactory builds a backend client for one request's credentials.
type FetcherFactory func(tokens client.TokenSource) client.Fetcher

// LikedController serves the liked posts page and its JSON mirror
type LikedController struct {
	fetcherFor FetcherFactory
	sessions   *services.SessionService
	renderer   *views.Renderer
	pageSize   int
	now        func() time.Time
}

// NewLikedController creates a new LikedController
func NewLikedController(fetcherFor FetcherFactory, sessions *services.SessionService, renderer *views.Renderer, pageSize int) *LikedController {
	if pageSize < 1 {
		pageSize = services.DefaultPageSize
	}
	return &LikedController{
		fetcherFor: fetcherFor,
		sessions:   sessions,
		renderer:   renderer,
		pageSize:   pageSize,
		now:        time.Now,
	}
}

// tokensFor prefers an Authorization header over the session cookie.
func (lc *LikedController) tokensFor(r *http.Request) client.TokenSource {
	if token := middleware.BearerToken(r.Context()); token != "" {
		return client.StaticToken(token)
	}
	return lc.sessions.Tokens(middleware.SessionID(r.Context()))
}

func (lc *LikedController) fetcher(r *http.Request) client.Fetcher {
	return lc.fetcherFor(lc.tokensFor(r))
}

// Index renders one page of a tab, optionally with a post's detail open
func (lc *LikedController) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tab, err := models.ParseTab(q.Get("tab"))
	if err != nil {
		lc.sendError(w, r, err.Error(), http.StatusBadRequest)
		return
	}
	page := parsePage(q.Get("page"))

	view := services.NewLikedPostsView(lc.fetcher(r), tab, page, services.WithPageSize(lc.pageSize))
	err = view.Mount(r.Context())
	if errors.Is(err, client.ErrMissingCredential) {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	if state := view.State(); err == nil && state.PastEnd() {
		http.Redirect(w, r, views.ListURL(tab, state.Pagination.TotalPages), http.StatusFound)
		return
	}
	if id := q.Get("post"); id != "" && err == nil {
		view.SelectPost(r.Context(), id)
	}

	lc.render(w, r, "index", views.NewPage(view.State(), lc.now()))
}

// ConfirmUnlike asks the user before unliking a post
func (lc *LikedController) ConfirmUnlike(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	q := r.URL.Query()
	tab, err := models.ParseTab(q.Get("tab"))
	if err != nil {
		lc.sendError(w, r, err.Error(), http.StatusBadRequest)
		return
	}
	page := parsePage(q.Get("page"))

	post, err := lc.fetcher(r).FetchPost(r.Context(), id)
	if client.IsAuthError(err) {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	if err != nil {
		log.Printf("confirm unlike: cannot load post %s: %v", id, err)
		post = &models.Post{ID: id}
	}

	lc.render(w, r, "confirm", views.ConfirmPage{
		Post:      views.NewPostCard(post, tab, page, lc.now()),
		Tab:       tab,
		Page:      page,
		ActionURL: "/liked/posts/" + id + "/unlike",
		CancelURL: views.ListURL(tab, page),
	})
}

// Unlike handles the confirmed unlike form and sends the user back to the list
func (lc *LikedController) Unlike(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		lc.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	id := mux.Vars(r)["id"]
	tab, err := models.ParseTab(r.FormValue("tab"))
	if err != nil {
		lc.sendError(w, r, err.Error(), http.StatusBadRequest)
		return
	}
	page := parsePage(r.FormValue("page"))
	back := views.ListURL(tab, page)

	if r.FormValue("confirm") != "yes" {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	view := services.NewLikedPostsView(lc.fetcher(r), tab, page,
		services.WithPageSize(lc.pageSize), services.WithoutRefetchAfterUnlike())
	_, err = view.Unlike(r.Context(), id, nil)
	if err == nil {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if errors.Is(err, client.ErrMissingCredential) {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	// The alert set by the failed unlike survives the reload.
	view.Mount(r.Context())
	lc.render(w, r, "index", views.NewPage(view.State(), lc.now()))
}

// APIIndex returns one page of a tab as JSON
func (lc *LikedController) APIIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tab, err := models.ParseTab(q.Get("tab"))
	if err != nil {
		lc.sendError(w, r, err.Error(), http.StatusBadRequest)
		return
	}
	query := models.ListQuery{Tab: tab, Page: 1, Limit: lc.pageSize}
	if s := q.Get("page"); s != "" {
		if query.Page, err = strconv.Atoi(s); err != nil {
			lc.sendError(w, r, "Invalid page", http.StatusBadRequest)
			return
		}
	}
	if s := q.Get("limit"); s != "" {
		if query.Limit, err = strconv.Atoi(s); err != nil {
			lc.sendError(w, r, "Invalid limit", http.StatusBadRequest)
			return
		}
	}
	if err := query.Validate(); err != nil {
		lc.sendError(w, r, "Invalid query: "+err.Error(), http.StatusBadRequest)
		return
	}

	view := services.NewLikedPostsView(lc.fetcher(r), query.Tab, query.Page, services.WithPageSize(query.Limit))
	if err := view.Mount(r.Context()); err != nil {
		lc.sendAPIError(w, r, err)
		return
	}
	lc.sendJSON(w, views.NewPage(view.State(), lc.now()))
}

// APIShow returns one post's detail
func (lc *LikedController) APIShow(w http.ResponseWriter, r *http.Request) {
	post, err := lc.fetcher(r).FetchPost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		lc.sendAPIError(w, r, err)
		return
	}
	lc.sendJSON(w, map[string]interface{}{"post": post})
}

// APIUnlike removes the current user's like from a post
func (lc *LikedController) APIUnlike(w http.ResponseWriter, r *http.Request) {
	msg, err := lc.fetcher(r).Unlike(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		lc.sendAPIError(w, r, err)
		return
	}
	if msg == "" {
		msg = services.UnlikedNotice
	}
	lc.sendJSON(w, map[string]string{"message": msg})
}

// APIStats returns the server's stats snapshot
func (lc *LikedController) APIStats(w http.ResponseWriter, r *http.Request) {
	stats, err := lc.fetcher(r).FetchStats(r.Context())
	if err != nil {
		lc.sendAPIError(w, r, err)
		return
	}
	lc.sendJSON(w, map[string]interface{}{"stats": stats})
}

func parsePage(s string) int {
	if p, err := strconv.Atoi(s); err == nil && p > 0 {
		return p
	}
	return 1
}

// Helper methods for consistent response handling

func (lc *LikedController) render(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := lc.renderer.Render(w, name, data); err != nil {
		log.Printf("render %s: %v", name, err)
		lc.sendError(w, r, "Template error", http.StatusInternalServerError)
	}
}

func (lc *LikedController) sendJSON(w http.ResponseWriter, data interface{}) {
	sendJSON(w, http.StatusOK, data)
}

func (lc *LikedController) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	sendError(w, r, message, status)
}

func (lc *LikedController) sendAPIError(w http.ResponseWriter, r *http.Request, err error) {
	sendError(w, r, client.Message(err), apiStatus(err))
}

// apiStatus maps a fetcher error onto the status the JSON mirror answers with.
func apiStatus(err error) int {
	apiErr, ok := client.AsAPIError(err)
	if !ok {
		return http.StatusBadGateway
	}
	switch apiErr.Type {
	case client.ErrorTypeMissingCredential, client.ErrorTypeSessionExpired:
		return http.StatusUnauthorized
	case client.ErrorTypeUnlikeFailed:
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status
		}
	case client.ErrorTypeRequestFailed:
		if apiErr.Status == http.StatusNotFound {
			return http.StatusNotFound
		}
	}
	return http.StatusBadGateway
}

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	accept := r.Header.Get("Accept")
	if accept == "application/json" || len(r.URL.Path) >= 4 && r.URL.Path[:4] == "/api" {
		sendJSON(w, status, map[string]string{"error": message})
	} else {
		http.Error(w, message, status)
	}
}
