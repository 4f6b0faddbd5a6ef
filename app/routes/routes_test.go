package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"likedposts/app/middleware"
	"likedposts/app/views"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginCookie(t *testing.T, app *testApp, token string) *http.Cookie {
	form := url.Values{"token": {token}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := app.serve(req)
	require.Equal(t, http.StatusSeeOther, w.Code)

	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestWebRoutes(t *testing.T) {
	app := setupTestApp(t)

	t.Run("GET / redirects to the list", func(t *testing.T) {
		w := app.serve(httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/liked", w.Header().Get("Location"))
	})

	t.Run("GET /liked without session goes to login", func(t *testing.T) {
		w := app.serve(httptest.NewRequest("GET", "/liked", nil))
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.Empty(t, app.backend.auth, "no backend call without a token")
	})

	cookie := loginCookie(t, app, testToken)

	t.Run("GET /liked lists posts", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/liked", nil)
		req.AddCookie(cookie)
		w := app.serve(req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
		body := w.Body.String()
		assert.Equal(t, 3, strings.Count(body, `<article class="post"`))
		assert.Contains(t, body, "Total Posts</span><span class=\"value\">3<")
		assert.NotContains(t, body, `class="pagination"`)
		assert.Contains(t, app.backend.auth, "Bearer "+testToken)
	})

	t.Run("GET /liked on the other tab shows its empty message", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/liked?tab=my-liked-posts", nil)
		req.AddCookie(cookie)
		w := app.serve(req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Nobody has liked your posts yet.")
	})

	t.Run("unlike round trip", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/liked/posts/p2/unlike?tab=liked-by-me&page=1", nil)
		req.AddCookie(cookie)
		w := app.serve(req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "text p2")

		form := url.Values{"tab": {"liked-by-me"}, "page": {"1"}, "confirm": {"yes"}}
		req = httptest.NewRequest("POST", "/liked/posts/p2/unlike", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		w = app.serve(req)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, []string{"p2"}, app.backend.unliked)

		req = httptest.NewRequest("GET", w.Header().Get("Location"), nil)
		req.AddCookie(cookie)
		w = app.serve(req)
		assert.Equal(t, 2, strings.Count(w.Body.String(), `<article class="post"`))
		assert.NotContains(t, w.Body.String(), "text p2")
	})

	t.Run("an expired backend token shows the session banner", func(t *testing.T) {
		stale := loginCookie(t, app, "revoked-token")
		req := httptest.NewRequest("GET", "/liked", nil)
		req.AddCookie(stale)
		w := app.serve(req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Your session has expired. Please log in again.")
	})

	t.Run("logout", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/logout", nil)
		req.AddCookie(cookie)
		w := app.serve(req)
		assert.Equal(t, http.StatusSeeOther, w.Code)

		req = httptest.NewRequest("GET", "/liked", nil)
		req.AddCookie(cookie)
		w = app.serve(req)
		assert.Equal(t, http.StatusFound, w.Code)
	})
}

func TestAPIRoutes(t *testing.T) {
	app := setupTestApp(t)

	t.Run("GET /api/liked returns the page model", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/liked", nil)
		req.Header.Set("Authorization", "Bearer "+testToken)
		w := app.serve(req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var page views.Page
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Len(t, page.Posts, 3)
		assert.Equal(t, 1, page.Posts[0].Likes)
		assert.Equal(t, 7, page.Stats.TotalLikes)
	})

	t.Run("backend 401 maps to 401", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/liked/stats", nil)
		req.Header.Set("Authorization", "Bearer wrong-token")
		w := app.serve(req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Your session has expired. Please log in again.")
	})

	t.Run("POST /api/liked/posts/{id}/unlike", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/liked/posts/p1/unlike", nil)
		req.Header.Set("Authorization", "Bearer "+testToken)
		w := app.serve(req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message": "Post unliked successfully"}`, w.Body.String())
	})

	t.Run("CORS preflight", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/liked", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", "GET")
		w := app.serve(req)
		assert.Less(t, w.Code, 300)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("CORS rejects unknown origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/liked", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		req.Header.Set("Authorization", "Bearer "+testToken)
		w := app.serve(req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestOperationalRoutes(t *testing.T) {
	app := setupTestApp(t)

	t.Run("static", func(t *testing.T) {
		w := app.serve(httptest.NewRequest("GET", "/static/style.css", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), ".post")
	})

	t.Run("healthz", func(t *testing.T) {
		w := app.serve(httptest.NewRequest("GET", "/healthz", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
	})

	t.Run("metrics", func(t *testing.T) {
		app.serve(httptest.NewRequest("GET", "/healthz", nil))
		w := app.serve(httptest.NewRequest("GET", "/metrics", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "likedposts_http_requests_total")
	})

	t.Run("healthz reports a closed store", func(t *testing.T) {
		require.NoError(t, app.db.Close())
		w := app.serve(httptest.NewRequest("GET", "/healthz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
