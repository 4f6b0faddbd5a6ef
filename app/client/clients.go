package client

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"likedposts/app/models"
)

const dialTimeout = 10 * time.Second
const defaultTimeout = 30 * time.Second

// Fetcher is the data access surface used by the view controller.
type Fetcher interface {
	FetchPage(ctx context.Context, tab models.Tab, page, limit int) (*PageResponse, error)
	FetchPost(ctx context.Context, id string) (*models.Post, error)
	Unlike(ctx context.Context, id string) (string, error)
	FetchStats(ctx context.Context) (*models.PostStats, error)
}

// TokenSource reads the bearer token from local storage. An empty token
// with a nil error means the user is not logged in.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource for a token already in hand.
type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) {
	return string(s), nil
}

// Client talks to the posts backend.
type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
	timeout time.Duration
}

var _ Fetcher = (*Client)(nil)

type Option func(*Client)

// WithTimeout sets the overall per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

var netDialer = &net.Dialer{
	Timeout: dialTimeout,
}

// New builds a client for baseURL that authenticates every call with tokens.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: netDialer.DialContext,
			},
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	underlying := c.http.Transport
	if underlying == nil {
		underlying = http.DefaultTransport
	}
	hc := *c.http
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	hc.Transport = &authenticatedTransport{underlyingTransport: underlying}
	c.http = &hc
	return c
}

type tokenKey struct{}

type authenticatedTransport struct {
	underlyingTransport http.RoundTripper
}

// RoundTrip attaches the bearer token resolved for this call by authorize.
func (t *authenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, _ := req.Context().Value(tokenKey{}).(string)
	if token == "" {
		return t.underlyingTransport.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)
	return t.underlyingTransport.RoundTrip(clone)
}
