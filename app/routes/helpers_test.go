package routes

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"likedposts/app/client"
	"likedposts/app/controllers"
	"likedposts/app/repositories"
	"likedposts/app/services"
	"likedposts/app/views"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

const testToken = "backend-token-1"

// backend is a minimal posts backend: two tabs, one unlike endpoint, stats.
type backend struct {
	mu      sync.Mutex
	liked   []string
	unliked []string
	auth    []string
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.auth = append(b.auth, r.Header.Get("Authorization"))

	w.Header().Set("Content-Type", "application/json")
	if r.Header.Get("Authorization") != "Bearer "+testToken {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "invalid token"}`))
		return
	}

	switch {
	case r.URL.Path == "/post/liked-by-me":
		var posts []string
		for _, id := range b.liked {
			posts = append(posts, `{"_id": "`+id+`", "user": {"_id": "u1", "username": "alice"}, "text": "text `+id+`", "likes": ["me"], "createdAt": "2024-05-01T09:00:00Z"}`)
		}
		w.Write([]byte(`{"posts": [` + strings.Join(posts, ",") + `], "pagination": {"currentPage": 1, "totalPages": 1, "totalItems": ` + strconv.Itoa(len(posts)) + `, "itemsPerPage": 10}}`))
	case r.URL.Path == "/post/my-liked-posts":
		w.Write([]byte(`{"posts": [], "pagination": {"currentPage": 1, "totalPages": 0, "totalItems": 0, "itemsPerPage": 10}}`))
	case r.URL.Path == "/post/stats/overview":
		w.Write([]byte(`{"stats": {"totalPosts": 3, "activePosts": 3, "totalLikes": 7}}`))
	case strings.HasPrefix(r.URL.Path, "/post/unlike/") && r.Method == http.MethodPost:
		id := strings.TrimPrefix(r.URL.Path, "/post/unlike/")
		b.unliked = append(b.unliked, id)
		var kept []string
		for _, l := range b.liked {
			if l != id {
				kept = append(kept, l)
			}
		}
		b.liked = kept
		w.Write([]byte(`{"message": "Post unliked successfully"}`))
	case strings.HasPrefix(r.URL.Path, "/post/"):
		id := strings.TrimPrefix(r.URL.Path, "/post/")
		w.Write([]byte(`{"post": {"_id": "` + id + `", "text": "text ` + id + `", "createdAt": "2024-05-01T09:00:00Z"}}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type testApp struct {
	router   *mux.Router
	backend  *backend
	sessions *services.SessionService
	db       *badger.DB
}

func setupTestDB(t *testing.T) *badger.DB {
	db, err := repositories.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func setupTestApp(t *testing.T) *testApp {
	b := &backend{liked: []string{"p1", "p2", "p3"}}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	db := setupTestDB(t)
	repo, err := repositories.NewBadgerSessionRepository(db, "test-session-secret", time.Hour)
	require.NoError(t, err)
	sessions := services.NewSessionService(repo)

	renderer, err := views.NewRenderer()
	require.NoError(t, err)

	fetcherFor := func(tokens client.TokenSource) client.Fetcher {
		return client.New(srv.URL, tokens, client.WithTimeout(5*time.Second))
	}

	router := SetupRoutes(Deps{
		Liked:          controllers.NewLikedController(fetcherFor, sessions, renderer, 10),
		Sessions:       controllers.NewSessionController(sessions, renderer, time.Hour),
		AllowedOrigins: []string{"https://app.example.com"},
		Health: func() error {
			if db.IsClosed() {
				return badger.ErrDBClosed
			}
			return nil
		},
	})

	return &testApp{router: router, backend: b, sessions: sessions, db: db}
}

func (a *testApp) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}
