package models

import (
	"encoding/json"
	"errors"
	"time"
)

// CommentPreviewSize is how many comments a post card shows.
const CommentPreviewSize = 2

// Summary is computed client-side from the displayed list.
type Summary struct {
	TotalPosts    int     `json:"totalPosts"`
	TotalLikes    int     `json:"totalLikes"`
	TotalComments int     `json:"totalComments"`
	AverageLikes  float64 `json:"averageLikes"`
}

// UnmarshalJSON accepts either an embedded user object or a bare user id.
func (u *User) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*u = User{ID: id}
		return nil
	}

	type plain User
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = User(p)
	return nil
}

// DisplayName falls back to the id when the backend omitted the username.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	if u.ID != "" {
		return u.ID
	}
	return "unknown"
}

func (p *Post) LikeCount() int {
	return len(p.Likes)
}

func (p *Post) CommentCount() int {
	return len(p.Comments)
}

// CommentPreview returns the first n comments.
func (p *Post) CommentPreview(n int) []Comment {
	if n <= 0 {
		return nil
	}
	if len(p.Comments) <= n {
		return p.Comments
	}
	return p.Comments[:n]
}

// Validate checks that a decoded post is usable by the renderer
func (p *Post) Validate() error {
	if p.ID == "" {
		return errors.New("post id cannot be empty")
	}
	if p.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}
	return nil
}

// FilterActive drops soft-deleted posts, preserving order.
func FilterActive(posts []Post) []Post {
	active := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.IsDeleted {
			continue
		}
		active = append(active, p)
	}
	return active
}

// RemovePost returns posts without the one matching id and whether it was found.
func RemovePost(posts []Post, id string) ([]Post, bool) {
	for i, p := range posts {
		if p.ID == id {
			out := make([]Post, 0, len(posts)-1)
			out = append(out, posts[:i]...)
			return append(out, posts[i+1:]...), true
		}
	}
	return posts, false
}

// FindPost looks a post up by id.
func FindPost(posts []Post, id string) (*Post, bool) {
	for i := range posts {
		if posts[i].ID == id {
			return &posts[i], true
		}
	}
	return nil, false
}

// Summarize aggregates the displayed list.
func Summarize(posts []Post) Summary {
	s := Summary{TotalPosts: len(posts)}
	for i := range posts {
		s.TotalLikes += posts[i].LikeCount()
		s.TotalComments += posts[i].CommentCount()
	}
	if s.TotalPosts > 0 {
		s.AverageLikes = float64(s.TotalLikes) / float64(s.TotalPosts)
	}
	return s
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool {
	return p.CurrentPage > 1
}

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// Contains reports whether page lies in [1, TotalPages].
func (p Pagination) Contains(page int) bool {
	return page >= 1 && page <= p.TotalPages
}

// Validate checks the session record before it is stored.
func (s *Session) Validate() error {
	return validate.Struct(s)
}

// BeforeCreate sets up any necessary fields before creation
func (s *Session) BeforeCreate() {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
}

// Validate checks page bounds and the tab name.
func (q ListQuery) Validate() error {
	return validate.Struct(q)
}
