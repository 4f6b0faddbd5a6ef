package models

import (
	"fmt"
	"strings"
)

// Tab selects which post collection is displayed.
type Tab string

const (
	TabLikedByMe    Tab = "liked-by-me"
	TabMyLikedPosts Tab = "my-liked-posts"
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabLikedByMe, TabMyLikedPosts}

// ParseTab accepts the canonical names plus the short CLI aliases.
func ParseTab(s string) (Tab, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(TabLikedByMe), "liked", "me":
		return TabLikedByMe, nil
	case string(TabMyLikedPosts), "mine", "my":
		return TabMyLikedPosts, nil
	default:
		return "", fmt.Errorf("unknown tab %q", s)
	}
}

// Endpoint is the backend path segment serving this tab.
func (t Tab) Endpoint() string {
	return string(t)
}

func (t Tab) Title() string {
	if t == TabMyLikedPosts {
		return "My Posts Liked by Others"
	}
	return "Posts I Liked"
}

// EmptyMessage distinguishes "liked nothing yet" from "nobody liked you".
func (t Tab) EmptyMessage() string {
	if t == TabMyLikedPosts {
		return "Nobody has liked your posts yet."
	}
	return "You haven't liked any posts yet."
}

func (t Tab) String() string {
	return string(t)
}
