// Package api is the read-only client for the posts/users/comments REST API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"postgrip/internal/domain"
)

const userAgent = "postgrip/1.0"

// maxBodyBytes bounds how much of a response we are willing to decode
const maxBodyBytes = 8 << 20

// Client performs GET requests against the remote API. There is no retry:
// a failed request surfaces as an error and the user decides to refetch.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	log     *logrus.Entry
}

// Option configures a Client
type Option func(*Client)

// WithRateLimit caps outgoing requests per second; rps <= 0 disables limiting
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used for request logging
func WithLogger(entry *logrus.Entry) Option {
	return func(c *Client) {
		if entry != nil {
			c.log = entry
		}
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient creates a client for baseURL with the given request timeout
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Posts lists every post
func (c *Client) Posts(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	if err := c.getJSON(ctx, "/posts", &posts); err != nil {
		return nil, err
	}
	return nonNil(posts), nil
}

// Post fetches a single post
func (c *Client) Post(ctx context.Context, id int) (domain.Post, error) {
	var post domain.Post
	err := c.getJSON(ctx, fmt.Sprintf("/posts/%d", id), &post)
	if err == nil && post.ID == 0 {
		err = &NotFoundError{Resource: "post", ID: id}
	}
	return post, notFoundAs(err, "post", id)
}

// Comments lists the comments on a post
func (c *Client) Comments(ctx context.Context, postID int) ([]domain.Comment, error) {
	var comments []domain.Comment
	if err := c.getJSON(ctx, fmt.Sprintf("/posts/%d/comments", postID), &comments); err != nil {
		return nil, notFoundAs(err, "post", postID)
	}
	return nonNil(comments), nil
}

// Authors lists every author
func (c *Client) Authors(ctx context.Context) ([]domain.Author, error) {
	var authors []domain.Author
	if err := c.getJSON(ctx, "/users", &authors); err != nil {
		return nil, err
	}
	return nonNil(authors), nil
}

// Author fetches a single author
func (c *Client) Author(ctx context.Context, id int) (domain.Author, error) {
	var author domain.Author
	err := c.getJSON(ctx, fmt.Sprintf("/users/%d", id), &author)
	if err == nil && author.ID == 0 {
		err = &NotFoundError{Resource: "author", ID: id}
	}
	return author, notFoundAs(err, "author", id)
}

// AuthorPosts lists the posts written by an author
func (c *Client) AuthorPosts(ctx context.Context, authorID int) ([]domain.Post, error) {
	var posts []domain.Post
	if err := c.getJSON(ctx, fmt.Sprintf("/users/%d/posts", authorID), &posts); err != nil {
		return nil, notFoundAs(err, "author", authorID)
	}
	return nonNil(posts), nil
}

// getJSON performs a GET and decodes the JSON body into dest
func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	url := c.baseURL + path

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Op: "GET", URL: url, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &TransportError{Op: "GET", URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithFields(logrus.Fields{"url": url, "error": err}).Warn("request failed")
		return &TransportError{Op: "GET", URL: url, Err: err}
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"url":      url,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &TransportError{Op: "GET", URL: url, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dest); err != nil {
		return &TransportError{Op: "decode", URL: url, Err: err}
	}
	return nil
}

// notFoundAs turns a 404 on an id-addressed endpoint into a NotFoundError
func notFoundAs(err error, resource string, id int) error {
	var transportErr *TransportError
	if errors.As(err, &transportErr) && transportErr.StatusCode == http.StatusNotFound {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return err
}

// nonNil turns a JSON null into an empty collection
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
