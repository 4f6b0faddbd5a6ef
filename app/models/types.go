package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// User is the author or liker embedded in posts and comments.
type User struct {
	ID             string `json:"_id"`
	Username       string `json:"username,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// Comment is a comment embedded in a post, ordered by creation.
type Comment struct {
	ID        string    `json:"_id"`
	User      User      `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post is an immutable snapshot of a backend post.
type Post struct {
	ID        string    `json:"_id"`
	User      User      `json:"user"`
	Text      string    `json:"text"`
	Image     string    `json:"image,omitempty"`
	Likes     []User    `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsDeleted bool      `json:"isDeleted"`
}

// Pagination is the cursor returned with every page.
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// PostStats is the server-computed aggregate snapshot of the user's posts.
type PostStats struct {
	TotalPosts      int     `json:"totalPosts"`
	ActivePosts     int     `json:"activePosts"`
	DeletedPosts    int     `json:"deletedPosts"`
	TotalLikes      int     `json:"totalLikes"`
	TotalComments   int     `json:"totalComments"`
	AverageLikes    float64 `json:"averageLikes"`
	AverageComments float64 `json:"averageComments"`
}

// Session is the locally persisted record holding a bearer token.
type Session struct {
	ID        string    `json:"id" validate:"required"`
	Token     string    `json:"token" validate:"required,min=8"`
	Label     string    `json:"label,omitempty" validate:"max=64"`
	CreatedAt time.Time `json:"createdAt" validate:"required"`
}

// ListQuery is a validated request for one page of a tab.
type ListQuery struct {
	Tab   Tab `validate:"required,oneof=liked-by-me my-liked-posts"`
	Page  int `validate:"gte=1"`
	Limit int `validate:"gte=1,lte=100"`
}
