package client

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"likedposts/app/metrics"
	"likedposts/app/models"
)

const maxErrorBody = 64 << 10

// PageResponse is one page of a tab.
type PageResponse struct {
	Posts      []models.Post     `json:"posts"`
	Pagination models.Pagination `json:"pagination"`
}

type postResponse struct {
	Post models.Post `json:"post"`
}

type statsResponse struct {
	Stats models.PostStats `json:"stats"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// FetchPage fetches one page of the given tab.
func (c *Client) FetchPage(ctx context.Context, tab models.Tab, page, limit int) (*PageResponse, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var resp PageResponse
	err := c.call(ctx, callSpec{
		op:     "fetch_page",
		method: http.MethodGet,
		path:   "/post/" + tab.Endpoint(),
		query:  query,
		fail:   handleFetchError,
	}, &resp)
	if err != nil {
		return nil, err
	}
	resp.Posts = dropMalformed(resp.Posts)
	return &resp, nil
}

// dropMalformed removes posts the renderer cannot key or date.
func dropMalformed(posts []models.Post) []models.Post {
	kept := posts[:0]
	for i := range posts {
		if err := posts[i].Validate(); err != nil {
			log.Printf("skipping malformed post %q: %v", posts[i].ID, err)
			continue
		}
		kept = append(kept, posts[i])
	}
	return kept
}

// FetchPost fetches the detail of a single post.
func (c *Client) FetchPost(ctx context.Context, id string) (*models.Post, error) {
	var resp postResponse
	err := c.call(ctx, callSpec{
		op:     "fetch_post",
		method: http.MethodGet,
		path:   "/post/" + url.PathEscape(id),
		fail:   handleFetchError,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Post, nil
}

// Unlike removes the current user's like from a post and returns the
// server's confirmation message.
func (c *Client) Unlike(ctx context.Context, id string) (string, error) {
	var resp messageResponse
	err := c.call(ctx, callSpec{
		op:       "unlike",
		method:   http.MethodPost,
		path:     "/post/unlike/" + url.PathEscape(id),
		fail:     handleUnlikeError,
		mutation: true,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// FetchStats fetches the aggregate snapshot of the user's posts.
func (c *Client) FetchStats(ctx context.Context) (*models.PostStats, error) {
	var resp statsResponse
	err := c.call(ctx, callSpec{
		op:     "fetch_stats",
		method: http.MethodGet,
		path:   "/post/stats/overview",
		fail:   handleFetchError,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

type callSpec struct {
	op       string
	method   string
	path     string
	query    url.Values
	fail     func(*http.Response, []byte) *APIError
	mutation bool
}

// authorize resolves the token from local storage for a single call.
func (c *Client) authorize(ctx context.Context) (context.Context, error) {
	if c.tokens == nil {
		return nil, &APIError{Type: ErrorTypeMissingCredential, Msg: MissingCredentialMessage}
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, &APIError{Type: ErrorTypeMissingCredential, Msg: MissingCredentialMessage, err: err}
	}
	if token == "" {
		return nil, &APIError{Type: ErrorTypeMissingCredential, Msg: MissingCredentialMessage}
	}
	return context.WithValue(ctx, tokenKey{}, token), nil
}

func (c *Client) call(ctx context.Context, route callSpec, out interface{}) error {
	ctx, err := c.authorize(ctx)
	if err != nil {
		return err
	}

	target := c.baseURL + route.path
	if len(route.query) > 0 {
		target += "?" + route.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, route.method, target, nil)
	if err != nil {
		return route.transportError(err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveBackend(route.op, 0, time.Since(start))
		log.Printf("backend %s %s failed: %v", route.method, route.path, err)
		return route.transportError(err)
	}
	defer resp.Body.Close()
	metrics.ObserveBackend(route.op, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return route.fail(resp, body)
	}

	// an empty success body leaves out at its zero value
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		apiErr := route.transportError(err)
		apiErr.Status = resp.StatusCode
		return apiErr
	}
	return nil
}

func (s callSpec) transportError(err error) *APIError {
	if s.mutation {
		return &APIError{Type: ErrorTypeUnlikeFailed, Msg: UnlikeFailedMessage, err: err}
	}
	return &APIError{Type: ErrorTypeRequestFailed, Msg: RequestFailedMessage, err: err}
}
