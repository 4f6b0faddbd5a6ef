package routes

import (
	"encoding/json"
	"net/http"

	"likedposts/app/controllers"
	"likedposts/app/metrics"
	"likedposts/app/middleware"
	"likedposts/app/views"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the controllers and settings the router is built from.
type Deps struct {
	Liked          *controllers.LikedController
	Sessions       *controllers.SessionController
	AllowedOrigins []string
	// Health reports whether the local store is usable. Nil means always healthy.
	Health func() error
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(d Deps) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Session)

	// Serve static files
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(views.Static()))))

	router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})).Methods("GET")
	router.HandleFunc("/healthz", healthz(d.Health)).Methods("GET")

	// Web routes
	router.Handle("/", http.RedirectHandler("/liked", http.StatusFound)).Methods("GET")
	router.HandleFunc("/login", d.Sessions.New).Methods("GET")
	router.HandleFunc("/login", d.Sessions.Create).Methods("POST")
	router.HandleFunc("/logout", d.Sessions.Destroy).Methods("POST")

	liked := router.PathPrefix("/liked").Subrouter()
	liked.HandleFunc("", d.Liked.Index).Methods("GET")
	liked.HandleFunc("/posts/{id}/unlike", d.Liked.ConfirmUnlike).Methods("GET")
	liked.HandleFunc("/posts/{id}/unlike", d.Liked.Unlike).Methods("POST")

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	api.Use(middleware.ContentTypeJSON)

	apiLiked := api.PathPrefix("/liked").Subrouter()
	apiLiked.HandleFunc("", d.Liked.APIIndex).Methods("GET")
	apiLiked.HandleFunc("/stats", d.Liked.APIStats).Methods("GET")
	apiLiked.HandleFunc("/posts/{id}", d.Liked.APIShow).Methods("GET")
	apiLiked.HandleFunc("/posts/{id}/unlike", d.Liked.APIUnlike).Methods("POST")

	// Preflight requests only need the cors middleware to run.
	api.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return router
}

func healthz(check func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if check != nil {
			if err := check(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
