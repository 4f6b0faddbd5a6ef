package services

import (
	"context"
	"log"
	"sync"

	"likedposts/app/client"
	"likedposts/app/models"
)

const DefaultPageSize = 10

// UnlikedNotice is shown after a successful unlike when the server sent no message.
const UnlikedNotice = "Post unliked"

// State is everything a renderer needs to draw the liked posts page.
type State struct {
	Tab        models.Tab
	Loading    bool
	Err        error
	Posts      []models.Post
	Pagination models.Pagination
	Page       int
	Selected   *models.Post
	Stats      *models.PostStats
	Alert      string
	Notice     string
}

// PastEnd reports whether Page lies beyond the last page, which happens
// after the last post of the last page is unliked or on a stale link.
func (s State) PastEnd() bool {
	return len(s.Posts) == 0 && s.Pagination.TotalPages >= 1 && s.Page > s.Pagination.TotalPages
}

type Option func(*LikedPostsView)

// WithPageSize sets how many posts one page request asks for.
func WithPageSize(n int) Option {
	return func(v *LikedPostsView) {
		if n > 0 {
			v.pageSize = n
		}
	}
}

// WithoutRefetchAfterUnlike keeps the locally spliced list after an unlike
// instead of reloading the page and stats. The web handler uses it because
// it redirects straight after.
func WithoutRefetchAfterUnlike() Option {
	return func(v *LikedPostsView) {
		v.refetch = false
	}
}

// LikedPostsView drives one tabbed liked posts page: it owns the state and
// turns user actions into fetches.
type LikedPostsView struct {
	fetcher  client.Fetcher
	pageSize int
	refetch  bool

	mu        sync.Mutex
	state     State
	pageGen   uint64
	statsGen  uint64
	detailGen uint64
}

// NewLikedPostsView creates a view positioned at tab and page. A page below 1 starts at 1.
func NewLikedPostsView(fetcher client.Fetcher, tab models.Tab, page int, opts ...Option) *LikedPostsView {
	if tab == "" {
		tab = models.TabLikedByMe
	}
	if page < 1 {
		page = 1
	}
	v := &LikedPostsView{
		fetcher:  fetcher,
		pageSize: DefaultPageSize,
		refetch:  true,
		state:    State{Tab: tab, Page: page},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Mount loads the current page and the stats snapshot.
func (v *LikedPostsView) Mount(ctx context.Context) error {
	if err := v.loadPage(ctx); err != nil {
		return err
	}
	v.loadStats(ctx)
	return nil
}

// Refresh retries the current page and the stats snapshot.
func (v *LikedPostsView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	v.state.Alert = ""
	v.state.Notice = ""
	v.mu.Unlock()
	return v.Mount(ctx)
}

// SwitchTab moves to tab at page 1. Switching to the active tab does nothing.
func (v *LikedPostsView) SwitchTab(ctx context.Context, tab models.Tab) (bool, error) {
	v.mu.Lock()
	if tab == v.state.Tab {
		v.mu.Unlock()
		return false, nil
	}
	v.state.Tab = tab
	v.state.Page = 1
	v.clearSelectionLocked()
	v.state.Alert = ""
	v.state.Notice = ""
	v.mu.Unlock()

	return true, v.loadPage(ctx)
}

// ChangePage loads page p. Pages outside [1, TotalPages] are ignored.
func (v *LikedPostsView) ChangePage(ctx context.Context, p int) (bool, error) {
	v.mu.Lock()
	if !v.state.Pagination.Contains(p) {
		v.mu.Unlock()
		return false, nil
	}
	v.state.Page = p
	v.clearSelectionLocked()
	v.mu.Unlock()

	return true, v.loadPage(ctx)
}

// SelectPost fetches a post's detail and selects it.
func (v *LikedPostsView) SelectPost(ctx context.Context, id string) error {
	v.mu.Lock()
	v.detailGen++
	gen := v.detailGen
	v.mu.Unlock()

	post, err := v.fetcher.FetchPost(ctx, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.detailGen {
		return nil
	}
	if err != nil {
		v.state.Err = err
		return err
	}
	v.state.Selected = post
	return nil
}

// ClearSelection closes the detail panel.
func (v *LikedPostsView) ClearSelection() {
	v.mu.Lock()
	v.clearSelectionLocked()
	v.mu.Unlock()
}

// clearSelectionLocked also invalidates any detail fetch still in flight.
// Callers hold v.mu.
func (v *LikedPostsView) clearSelectionLocked() {
	v.detailGen++
	v.state.Selected = nil
}

// Unlike removes the current user's like from post id once confirm agrees.
// A nil confirm means the caller already confirmed. It reports whether the
// unlike went through; on rejection the list is left as it was and Alert
// carries the message.
func (v *LikedPostsView) Unlike(ctx context.Context, id string, confirm func(models.Post) bool) (bool, error) {
	v.mu.Lock()
	target := models.Post{ID: id}
	if p, ok := models.FindPost(v.state.Posts, id); ok {
		target = *p
	} else if v.state.Selected != nil && v.state.Selected.ID == id {
		target = *v.state.Selected
	}
	v.mu.Unlock()

	if confirm != nil && !confirm(target) {
		return false, nil
	}

	msg, err := v.fetcher.Unlike(ctx, id)
	if err != nil {
		v.mu.Lock()
		v.state.Alert = client.Message(err)
		v.mu.Unlock()
		return false, err
	}

	v.mu.Lock()
	v.state.Posts, _ = models.RemovePost(v.state.Posts, id)
	if v.state.Selected != nil && v.state.Selected.ID == id {
		v.clearSelectionLocked()
	}
	v.state.Alert = ""
	v.state.Notice = msg
	if v.state.Notice == "" {
		v.state.Notice = UnlikedNotice
	}
	v.mu.Unlock()

	if !v.refetch {
		return true, nil
	}

	if err := v.loadPage(ctx); err == nil {
		v.stepBackIfPastEnd(ctx)
	}
	v.loadStats(ctx)
	return true, nil
}

// State returns a copy of the current state.
func (v *LikedPostsView) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := v.state
	s.Posts = append([]models.Post(nil), v.state.Posts...)
	return s
}

// stepBackIfPastEnd moves to the new last page when an unlike emptied the
// last page.
func (v *LikedPostsView) stepBackIfPastEnd(ctx context.Context) {
	v.mu.Lock()
	stepBack := v.state.PastEnd()
	if stepBack {
		v.state.Page = v.state.Pagination.TotalPages
	}
	v.mu.Unlock()

	if stepBack {
		v.loadPage(ctx)
	}
}

func (v *LikedPostsView) loadPage(ctx context.Context) error {
	v.mu.Lock()
	v.pageGen++
	gen := v.pageGen
	tab, page := v.state.Tab, v.state.Page
	v.state.Loading = true
	v.mu.Unlock()

	resp, err := v.fetcher.FetchPage(ctx, tab, page, v.pageSize)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.pageGen {
		log.Printf("discarding stale %s page %d response", tab, page)
		return nil
	}
	v.state.Loading = false
	if err != nil {
		v.state.Err = err
		return err
	}
	v.state.Err = nil
	v.state.Posts = models.FilterActive(resp.Posts)
	v.state.Pagination = resp.Pagination
	return nil
}

// loadStats refreshes the stats snapshot. A failure hides the stats rather
// than failing the page.
func (v *LikedPostsView) loadStats(ctx context.Context) {
	v.mu.Lock()
	v.statsGen++
	gen := v.statsGen
	v.mu.Unlock()

	stats, err := v.fetcher.FetchStats(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.statsGen {
		return
	}
	if err != nil {
		log.Printf("failed to load stats: %v", err)
		v.state.Stats = nil
		return
	}
	v.state.Stats = stats
}
