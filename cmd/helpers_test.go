package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/eiannone/keyboard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const testToken = "backend-token-1"

func init() {
	color.NoColor = true
}

// backend serves the post/ endpoints with a fixed set of liked posts.
type backend struct {
	mu       sync.Mutex
	liked    []string
	unliked  []string
	requests int
}

func newBackend(n int) *backend {
	b := &backend{}
	for i := 1; i <= n; i++ {
		b.liked = append(b.liked, fmt.Sprintf("p%02d", i))
	}
	return b
}

func post(id string) map[string]interface{} {
	return map[string]interface{}{
		"_id":       id,
		"user":      map[string]string{"_id": "u1", "username": "alice"},
		"text":      "text " + id,
		"likes":     []map[string]string{{"_id": "me", "username": "bob"}},
		"createdAt": "2024-05-01T09:00:00Z",
	}
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests++

	w.Header().Set("Content-Type", "application/json")
	if r.Header.Get("Authorization") != "Bearer "+testToken {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "invalid token"}`))
		return
	}

	switch {
	case r.URL.Path == "/post/liked-by-me":
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		total := len(b.liked)
		pages := (total + limit - 1) / limit

		posts := []map[string]interface{}{}
		for i := (page - 1) * limit; i < page*limit && i < total; i++ {
			posts = append(posts, post(b.liked[i]))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"posts": posts,
			"pagination": map[string]int{
				"currentPage": page, "totalPages": pages, "totalItems": total, "itemsPerPage": limit,
			},
		})
	case r.URL.Path == "/post/my-liked-posts":
		w.Write([]byte(`{"posts": [], "pagination": {"currentPage": 1, "totalPages": 0, "totalItems": 0, "itemsPerPage": 5}}`))
	case r.URL.Path == "/post/stats/overview":
		w.Write([]byte(`{"stats": {"totalPosts": 4, "activePosts": 3, "deletedPosts": 1, "totalLikes": 9, "averageLikes": 2.25}}`))
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
		json.NewEncoder(w).Encode(map[string]interface{}{"post": post(strings.TrimPrefix(r.URL.Path, "/post/"))})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (b *backend) requestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests
}

func (b *backend) unlikedIDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.unliked...)
}

type cliEnv struct {
	backend *backend
	dbPath  string
}

// setupCLI points the config at a fake backend and a fresh store.
func setupCLI(t *testing.T) *cliEnv {
	b := newBackend(12)
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	dbPath := filepath.Join(t.TempDir(), "db")
	t.Setenv("LIKEDPOSTS_API_BASE_URL", srv.URL)
	t.Setenv("LIKEDPOSTS_DB_PATH", dbPath)
	t.Setenv("LIKEDPOSTS_PAGE_SIZE", "5")
	t.Setenv("LIKEDPOSTS_SESSION_SECRET", "cli-test-secret-123")
	t.Setenv("LIKEDPOSTS_LOG_FILE", "")

	return &cliEnv{backend: b, dbPath: dbPath}
}

// run executes the root command with args and returns what it printed.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(RootCmd)

	var out bytes.Buffer
	RootCmd.SetArgs(args)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetOut(&out)
	RootCmd.SetErr(io.Discard)

	err := RootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, "", args...)
	require.NoError(t, err, out)
	return out
}

// resetFlags puts every flag back to its default; the commands are package
// globals and keep values between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type keyPress struct {
	char rune
	key  keyboard.Key
}

func chars(s string) []keyPress {
	var keys []keyPress
	for _, r := range s {
		keys = append(keys, keyPress{char: r})
	}
	return keys
}

var enter = keyPress{key: keyboard.KeyEnter}

// scriptedKeys replays key presses and fails once they run out.
type scriptedKeys struct {
	keys   []keyPress
	closed bool
}

func (s *scriptedKeys) GetKey() (rune, keyboard.Key, error) {
	if len(s.keys) == 0 {
		return 0, 0, io.EOF
	}
	k := s.keys[0]
	s.keys = s.keys[1:]
	return k.char, k.key, nil
}

func (s *scriptedKeys) Close() error {
	s.closed = true
	return nil
}

// useKeys makes openKeys return keys for the rest of the test.
func useKeys(t *testing.T, keys ...keyPress) *scriptedKeys {
	src := &scriptedKeys{keys: keys}
	old := openKeys
	openKeys = func() (keySource, error) { return src, nil }
	t.Cleanup(func() { openKeys = old })
	return src
}

func loginCLI(t *testing.T) {
	t.Helper()
	mustRun(t, "login", "--token", testToken)
}
