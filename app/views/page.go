package views

import (
	"net/url"
	"strconv"
	"time"

	"likedposts/app/client"
	"likedposts/app/models"
	"likedposts/app/services"

	"github.com/dustin/go-humanize"
)

// Page is the render model for the liked posts screen. It is a pure
// function of the view state and serves the HTML, terminal and JSON outputs.
type Page struct {
	Tab   models.Tab `json:"tab"`
	Title string     `json:"title"`
	Tabs  []TabLink  `json:"tabs"`

	Loading   bool   `json:"loading"`
	Error     string `json:"error,omitempty"`
	NeedLogin bool   `json:"needLogin,omitempty"`
	RetryURL  string `json:"-"`
	Alert     string `json:"alert,omitempty"`
	Notice    string `json:"notice,omitempty"`

	Stats   *models.PostStats `json:"stats,omitempty"`
	Summary *models.Summary   `json:"summary,omitempty"`

	Posts        []PostCard `json:"posts"`
	Empty        bool       `json:"empty"`
	EmptyMessage string     `json:"emptyMessage,omitempty"`
	Selected     *PostCard  `json:"selected,omitempty"`

	Pagination     models.Pagination `json:"pagination"`
	ShowPagination bool              `json:"showPagination"`
	PageLinks      []PageLink        `json:"-"`
	PrevURL        string            `json:"-"`
	NextURL        string            `json:"-"`
}

type TabLink struct {
	Tab    models.Tab `json:"tab"`
	Title  string     `json:"title"`
	Active bool       `json:"active"`
	URL    string     `json:"url"`
}

type PageLink struct {
	Number  int
	Current bool
	URL     string
}

type PostCard struct {
	ID           string        `json:"id"`
	Author       string        `json:"author"`
	AvatarURL    string        `json:"avatarUrl,omitempty"`
	Text         string        `json:"text"`
	Image        string        `json:"image,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	Ago          string        `json:"ago"`
	Likes        int           `json:"likes"`
	Comments     int           `json:"comments"`
	Preview      []CommentLine `json:"commentPreview,omitempty"`
	MoreComments int           `json:"moreComments,omitempty"`
	Likers       []string      `json:"likers,omitempty"`
	DetailURL    string        `json:"-"`
	UnlikeURL    string        `json:"-"`
}

type CommentLine struct {
	Author string `json:"author"`
	Text   string `json:"text"`
	Ago    string `json:"ago"`
}

// ListURL is the address of page p of tab.
func ListURL(tab models.Tab, p int) string {
	q := url.Values{}
	q.Set("tab", tab.String())
	if p > 1 {
		q.Set("page", strconv.Itoa(p))
	}
	return "/liked?" + q.Encode()
}

func detailURL(tab models.Tab, p int, id string) string {
	return ListURL(tab, p) + "&post=" + url.QueryEscape(id)
}

// UnlikeURL is the confirmation page for unliking id from page p of tab.
func UnlikeURL(tab models.Tab, p int, id string) string {
	q := url.Values{}
	q.Set("tab", tab.String())
	q.Set("page", strconv.Itoa(p))
	return "/liked/posts/" + url.PathEscape(id) + "/unlike?" + q.Encode()
}

const pageLinkRadius = 2

// NewPage builds the render model for state. now anchors relative times.
func NewPage(state services.State, now time.Time) Page {
	page := state.Page
	if page < 1 {
		page = 1
	}

	p := Page{
		Tab:        state.Tab,
		Title:      state.Tab.Title(),
		Loading:    state.Loading,
		Alert:      state.Alert,
		Notice:     state.Notice,
		Stats:      state.Stats,
		Pagination: state.Pagination,
		RetryURL:   ListURL(state.Tab, page),
		Posts:      make([]PostCard, 0, len(state.Posts)),
	}

	for _, t := range models.Tabs {
		p.Tabs = append(p.Tabs, TabLink{
			Tab:    t,
			Title:  t.Title(),
			Active: t == state.Tab,
			URL:    ListURL(t, 1),
		})
	}

	if state.Err != nil {
		p.Error = client.Message(state.Err)
		p.NeedLogin = client.IsAuthError(state.Err)
	}

	for i := range state.Posts {
		p.Posts = append(p.Posts, NewPostCard(&state.Posts[i], state.Tab, page, now))
	}

	if len(state.Posts) > 0 {
		summary := models.Summarize(state.Posts)
		p.Summary = &summary
	} else if state.Err == nil && !state.Loading && !state.PastEnd() {
		p.Empty = true
		p.EmptyMessage = state.Tab.EmptyMessage()
	}

	if state.Selected != nil {
		card := NewPostCard(state.Selected, state.Tab, page, now)
		card.Preview = commentLines(state.Selected.Comments, now)
		card.MoreComments = 0
		for _, u := range state.Selected.Likes {
			card.Likers = append(card.Likers, u.DisplayName())
		}
		p.Selected = &card
	}

	if state.Pagination.TotalPages > 1 {
		p.ShowPagination = true
		nav := state.Pagination
		nav.CurrentPage = page
		first, last := pageWindow(page, nav.TotalPages)
		for n := first; n <= last; n++ {
			p.PageLinks = append(p.PageLinks, PageLink{Number: n, Current: n == page, URL: ListURL(state.Tab, n)})
		}
		if nav.HasPrev() {
			p.PrevURL = ListURL(state.Tab, page-1)
		}
		if nav.HasNext() {
			p.NextURL = ListURL(state.Tab, page+1)
		}
	}

	return p
}

// pageWindow returns the range of page links shown around page, at most
// 2*pageLinkRadius+1 wide and clamped to [1, total].
func pageWindow(page, total int) (int, int) {
	first, last := page-pageLinkRadius, page+pageLinkRadius
	if first < 1 {
		last += 1 - first
		first = 1
	}
	if last > total {
		first -= last - total
		last = total
	}
	if first < 1 {
		first = 1
	}
	return first, last
}

// NewPostCard builds the card for post as shown on page p of tab.
func NewPostCard(post *models.Post, tab models.Tab, page int, now time.Time) PostCard {
	preview := post.CommentPreview(models.CommentPreviewSize)
	return PostCard{
		ID:           post.ID,
		Author:       post.User.DisplayName(),
		AvatarURL:    post.User.ProfilePicture,
		Text:         post.Text,
		Image:        post.Image,
		CreatedAt:    post.CreatedAt,
		Ago:          ago(post.CreatedAt, now),
		Likes:        post.LikeCount(),
		Comments:     post.CommentCount(),
		Preview:      commentLines(preview, now),
		MoreComments: post.CommentCount() - len(preview),
		DetailURL:    detailURL(tab, page, post.ID),
		UnlikeURL:    UnlikeURL(tab, page, post.ID),
	}
}

func commentLines(comments []models.Comment, now time.Time) []CommentLine {
	lines := make([]CommentLine, 0, len(comments))
	for _, c := range comments {
		lines = append(lines, CommentLine{Author: c.User.DisplayName(), Text: c.Text, Ago: ago(c.CreatedAt, now)})
	}
	return lines
}

func ago(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
