package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostValidation(t *testing.T) {
	tests := []struct {
		name    string
		post    *Post
		wantErr bool
	}{
		{
			name:    "valid post",
			post:    &Post{ID: "p1", Text: "hello", CreatedAt: time.Now()},
			wantErr: false,
		},
		{
			name:    "missing id",
			post:    &Post{Text: "hello", CreatedAt: time.Now()},
			wantErr: true,
		},
		{
			name:    "zero creation time",
			post:    &Post{ID: "p1", Text: "hello"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFilterActive(t *testing.T) {
	posts := []Post{
		{ID: "a"},
		{ID: "b", IsDeleted: true},
		{ID: "c"},
		{ID: "d", IsDeleted: true},
	}

	active := FilterActive(posts)
	require.Len(t, active, 2)
	assert.Equal(t, "a", active[0].ID)
	assert.Equal(t, "c", active[1].ID)

	assert.Empty(t, FilterActive(nil))
}

func TestRemovePost(t *testing.T) {
	posts := []Post{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	t.Run("remove existing post", func(t *testing.T) {
		out, ok := RemovePost(posts, "b")
		assert.True(t, ok)
		assert.Equal(t, []Post{{ID: "a"}, {ID: "c"}}, out)
		assert.Len(t, posts, 3, "input must not be mutated")
	})

	t.Run("remove non-existent post", func(t *testing.T) {
		out, ok := RemovePost(posts, "zzz")
		assert.False(t, ok)
		assert.Len(t, out, 3)
	})
}

func TestSummarize(t *testing.T) {
	posts := []Post{
		{ID: "a", Likes: []User{{ID: "u1"}, {ID: "u2"}}, Comments: []Comment{{ID: "c1"}}},
		{ID: "b", Likes: []User{{ID: "u1"}}},
		{ID: "c"},
	}

	s := Summarize(posts)
	assert.Equal(t, 3, s.TotalPosts)
	assert.Equal(t, 3, s.TotalLikes)
	assert.Equal(t, 1, s.TotalComments)
	assert.InDelta(t, 1.0, s.AverageLikes, 0.0001)

	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestCommentPreview(t *testing.T) {
	post := &Post{Comments: []Comment{{ID: "1"}, {ID: "2"}, {ID: "3"}}}

	assert.Len(t, post.CommentPreview(CommentPreviewSize), 2)
	assert.Len(t, post.CommentPreview(10), 3)
	assert.Nil(t, post.CommentPreview(0))
}

func TestPostDecoding(t *testing.T) {
	raw := `{
		"_id": "p1",
		"user": {"_id": "u1", "username": "alice", "profilePicture": "https://img/a.png"},
		"text": "sunset",
		"likes": ["u2", {"_id": "u3", "username": "carol"}],
		"comments": [{"_id": "c1", "user": {"_id": "u2", "username": "bob"}, "text": "nice", "createdAt": "2024-05-01T10:00:00Z"}],
		"createdAt": "2024-05-01T09:00:00Z",
		"updatedAt": "2024-05-01T09:30:00Z",
		"isDeleted": false
	}`

	var post Post
	require.NoError(t, json.Unmarshal([]byte(raw), &post))

	assert.Equal(t, "alice", post.User.Username)
	require.Len(t, post.Likes, 2)
	assert.Equal(t, User{ID: "u2"}, post.Likes[0])
	assert.Equal(t, "carol", post.Likes[1].Username)
	assert.Equal(t, "bob", post.Comments[0].User.DisplayName())
	assert.Equal(t, "u2", post.Likes[0].DisplayName())
}

func TestPagination(t *testing.T) {
	p := Pagination{CurrentPage: 2, TotalPages: 3, TotalItems: 25, ItemsPerPage: 10}

	assert.True(t, p.HasPrev())
	assert.True(t, p.HasNext())
	assert.True(t, p.Contains(1))
	assert.True(t, p.Contains(3))
	assert.False(t, p.Contains(0))
	assert.False(t, p.Contains(4))

	last := Pagination{CurrentPage: 3, TotalPages: 3}
	assert.False(t, last.HasNext())
}

func TestSessionValidation(t *testing.T) {
	valid := &Session{ID: "s1", Token: "token-123456"}
	valid.BeforeCreate()
	assert.NoError(t, valid.Validate())

	short := &Session{ID: "s1", Token: "abc", CreatedAt: time.Now()}
	assert.Error(t, short.Validate())

	noID := &Session{Token: "token-123456", CreatedAt: time.Now()}
	assert.Error(t, noID.Validate())
}
